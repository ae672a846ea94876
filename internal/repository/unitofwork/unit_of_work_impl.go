package unitofwork

import (
	"context"
	"errors"

	"bistro-cms-be/internal/repository/contract"
	"bistro-cms-be/internal/repository/implementation"

	"gorm.io/gorm"
)

var (
	ErrTxAlreadyStarted = errors.New("transaction already started")
	ErrNoTransaction    = errors.New("no active transaction")
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // nil outside a transaction
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTxAlreadyStarted
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

// Rollback is safe to defer after a successful Commit.
func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) BlogPostRepository() contract.BlogPostRepository {
	return implementation.NewBlogPostRepository(u.getDB())
}

func (u *UnitOfWorkImpl) LandingMenuItemRepository() contract.LandingMenuItemRepository {
	return implementation.NewLandingMenuItemRepository(u.getDB())
}

func (u *UnitOfWorkImpl) MarqueeSlideRepository() contract.MarqueeSlideRepository {
	return implementation.NewMarqueeSlideRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AdminUserRepository() contract.AdminUserRepository {
	return implementation.NewAdminUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ActivityLogRepository() contract.ActivityLogRepository {
	return implementation.NewActivityLogRepository(u.getDB())
}
