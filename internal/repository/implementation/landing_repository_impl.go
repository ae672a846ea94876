package implementation

import (
	"context"
	"errors"

	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/mapper"
	"bistro-cms-be/internal/model"
	"bistro-cms-be/internal/repository/contract"
	"bistro-cms-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LandingMenuItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LandingMapper
}

func NewLandingMenuItemRepository(db *gorm.DB) contract.LandingMenuItemRepository {
	return &LandingMenuItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewLandingMapper(),
	}
}

func (r *LandingMenuItemRepositoryImpl) Create(ctx context.Context, item *entity.LandingMenuItem) error {
	m := r.mapper.MenuItemToModel(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*item = *r.mapper.MenuItemToEntity(m)
	return nil
}

func (r *LandingMenuItemRepositoryImpl) Update(ctx context.Context, item *entity.LandingMenuItem) error {
	m := r.mapper.MenuItemToModel(item)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translateError(err)
	}
	*item = *r.mapper.MenuItemToEntity(m)
	return nil
}

func (r *LandingMenuItemRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.LandingMenuItem{}, id).Error
}

func (r *LandingMenuItemRepositoryImpl) UpdateSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error {
	return r.db.WithContext(ctx).
		Model(&model.LandingMenuItem{}).
		Where("id = ?", id).
		Update("sort_order", sortOrder).Error
}

func (r *LandingMenuItemRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LandingMenuItem, error) {
	var m model.LandingMenuItem
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MenuItemToEntity(&m), nil
}

func (r *LandingMenuItemRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LandingMenuItem, error) {
	var models []*model.LandingMenuItem
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.MenuItemsToEntities(models), nil
}

func (r *LandingMenuItemRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.LandingMenuItem{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type MarqueeSlideRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LandingMapper
}

func NewMarqueeSlideRepository(db *gorm.DB) contract.MarqueeSlideRepository {
	return &MarqueeSlideRepositoryImpl{
		db:     db,
		mapper: mapper.NewLandingMapper(),
	}
}

func (r *MarqueeSlideRepositoryImpl) Create(ctx context.Context, slide *entity.MarqueeSlide) error {
	m := r.mapper.SlideToModel(slide)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*slide = *r.mapper.SlideToEntity(m)
	return nil
}

func (r *MarqueeSlideRepositoryImpl) Update(ctx context.Context, slide *entity.MarqueeSlide) error {
	m := r.mapper.SlideToModel(slide)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translateError(err)
	}
	*slide = *r.mapper.SlideToEntity(m)
	return nil
}

func (r *MarqueeSlideRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.MarqueeSlide{}, id).Error
}

func (r *MarqueeSlideRepositoryImpl) UpdateSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error {
	return r.db.WithContext(ctx).
		Model(&model.MarqueeSlide{}).
		Where("id = ?", id).
		Update("sort_order", sortOrder).Error
}

func (r *MarqueeSlideRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MarqueeSlide, error) {
	var m model.MarqueeSlide
	if err := applySpecifications(r.db.WithContext(ctx), specs...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SlideToEntity(&m), nil
}

func (r *MarqueeSlideRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MarqueeSlide, error) {
	var models []*model.MarqueeSlide
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.SlidesToEntities(models), nil
}

func (r *MarqueeSlideRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.MarqueeSlide{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
