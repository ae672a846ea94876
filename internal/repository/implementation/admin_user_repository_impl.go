package implementation

import (
	"context"
	"errors"
	"time"

	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/mapper"
	"bistro-cms-be/internal/model"
	"bistro-cms-be/internal/repository/contract"
	"bistro-cms-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminUserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AdminUserMapper
}

func NewAdminUserRepository(db *gorm.DB) contract.AdminUserRepository {
	return &AdminUserRepositoryImpl{
		db:     db,
		mapper: mapper.NewAdminUserMapper(),
	}
}

func (r *AdminUserRepositoryImpl) Create(ctx context.Context, user *entity.AdminUser) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *AdminUserRepositoryImpl) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.AdminUser{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

func (r *AdminUserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AdminUser, error) {
	var m model.AdminUser
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
