package implementation

import (
	"context"

	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/mapper"
	"bistro-cms-be/internal/model"
	"bistro-cms-be/internal/repository/contract"
	"bistro-cms-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ActivityLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ActivityLogMapper
}

func NewActivityLogRepository(db *gorm.DB) contract.ActivityLogRepository {
	return &ActivityLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewActivityLogMapper(),
	}
}

func (r *ActivityLogRepositoryImpl) Create(ctx context.Context, log *entity.ActivityLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *ActivityLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ActivityLog, error) {
	var models []*model.ActivityLog
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entity.ActivityLog, len(models))
	for i, m := range models {
		out[i] = r.mapper.ToEntity(m)
	}
	return out, nil
}

func (r *ActivityLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.ActivityLog{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
