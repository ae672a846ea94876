package contract

import (
	"context"

	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/repository/specification"

	"github.com/google/uuid"
)

type LandingMenuItemRepository interface {
	Create(ctx context.Context, item *entity.LandingMenuItem) error
	Update(ctx context.Context, item *entity.LandingMenuItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LandingMenuItem, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LandingMenuItem, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type MarqueeSlideRepository interface {
	Create(ctx context.Context, slide *entity.MarqueeSlide) error
	Update(ctx context.Context, slide *entity.MarqueeSlide) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MarqueeSlide, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MarqueeSlide, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
