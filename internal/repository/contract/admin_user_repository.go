package contract

import (
	"context"
	"time"

	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AdminUserRepository interface {
	Create(ctx context.Context, user *entity.AdminUser) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AdminUser, error)
}

type ActivityLogRepository interface {
	Create(ctx context.Context, log *entity.ActivityLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ActivityLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
