package contract

import (
	"context"

	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/repository/specification"
	"bistro-cms-be/pkg/lexical"

	"github.com/google/uuid"
)

type BlogPostRepository interface {
	Create(ctx context.Context, post *entity.BlogPost) error
	Update(ctx context.Context, post *entity.BlogPost) error
	Delete(ctx context.Context, id uuid.UUID) error
	// UpdateToc replaces one locale's TOC without touching the rest of the row.
	UpdateToc(ctx context.Context, id uuid.UUID, locale string, toc []lexical.TocEntry) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BlogPost, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BlogPost, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
