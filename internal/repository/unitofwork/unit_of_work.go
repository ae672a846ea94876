package unitofwork

import (
	"context"

	"bistro-cms-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	BlogPostRepository() contract.BlogPostRepository
	LandingMenuItemRepository() contract.LandingMenuItemRepository
	MarqueeSlideRepository() contract.MarqueeSlideRepository
	AdminUserRepository() contract.AdminUserRepository
	ActivityLogRepository() contract.ActivityLogRepository
}
