package implementation

import (
	"context"
	"encoding/json"
	"errors"

	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/mapper"
	"bistro-cms-be/internal/model"
	"bistro-cms-be/internal/repository/contract"
	"bistro-cms-be/internal/repository/specification"
	"bistro-cms-be/pkg/lexical"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BlogPostRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BlogPostMapper
}

func NewBlogPostRepository(db *gorm.DB) contract.BlogPostRepository {
	return &BlogPostRepositoryImpl{
		db:     db,
		mapper: mapper.NewBlogPostMapper(),
	}
}

func (r *BlogPostRepositoryImpl) Create(ctx context.Context, post *entity.BlogPost) error {
	m := r.mapper.ToModel(post)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*post = *r.mapper.ToEntity(m)
	return nil
}

func (r *BlogPostRepositoryImpl) Update(ctx context.Context, post *entity.BlogPost) error {
	m := r.mapper.ToModel(post)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translateError(err)
	}
	*post = *r.mapper.ToEntity(m)
	return nil
}

func (r *BlogPostRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.BlogPost{}, id).Error
}

func (r *BlogPostRepositoryImpl) UpdateToc(ctx context.Context, id uuid.UUID, locale string, toc []lexical.TocEntry) error {
	if toc == nil {
		toc = []lexical.TocEntry{}
	}
	raw, err := json.Marshal(toc)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&model.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("toc_i18n", gorm.Expr(
			"jsonb_set(COALESCE(toc_i18n, '{}'::jsonb), ARRAY[?]::text[], ?::jsonb, true)",
			locale, string(raw),
		)).Error
}

func (r *BlogPostRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BlogPost, error) {
	var m model.BlogPost
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BlogPostRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BlogPost, error) {
	var models []*model.BlogPost
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *BlogPostRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.BlogPost{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
