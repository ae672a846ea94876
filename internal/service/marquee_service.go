package service

import (
	"context"
	"time"

	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/pkg/logger"
	"bistro-cms-be/internal/repository/scope"
	"bistro-cms-be/internal/repository/specification"
	"bistro-cms-be/internal/repository/unitofwork"
	"bistro-cms-be/pkg/events"

	"github.com/google/uuid"
)

type IMarqueeService interface {
	Create(ctx context.Context, req *dto.SlideRequest) (*dto.SlideResponse, error)
	Update(ctx context.Context, req *dto.SlideRequest) (*dto.SlideResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]dto.SlideResponse, error)
	ListActive(ctx context.Context, locale string) ([]dto.PublicSlideResponse, error)
	Reorder(ctx context.Context, req *dto.ReorderRequest) error
}

type marqueeService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewMarqueeService(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, logger logger.ILogger) IMarqueeService {
	return &marqueeService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

func toSlideResponse(slide *entity.MarqueeSlide) dto.SlideResponse {
	return dto.SlideResponse{
		Id:        slide.Id,
		ImageURL:  slide.ImageURL,
		Caption:   slide.Caption,
		LinkURL:   slide.LinkURL,
		SortOrder: slide.SortOrder,
		IsActive:  slide.IsActive,
		CreatedAt: slide.CreatedAt,
		UpdatedAt: slide.UpdatedAt,
	}
}

func (s *marqueeService) Create(ctx context.Context, req *dto.SlideRequest) (*dto.SlideResponse, error) {
	if err := checkLocales(req.Caption); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	} else {
		n, err := uow.MarqueeSlideRepository().Count(ctx)
		if err != nil {
			return nil, err
		}
		sortOrder = int(n)
	}

	slide := entity.MarqueeSlide{
		Id:        uuid.New(),
		ImageURL:  req.ImageURL,
		Caption:   entity.LocalizedText(req.Caption).Clone(),
		LinkURL:   req.LinkURL,
		SortOrder: sortOrder,
		IsActive:  req.IsActive == nil || *req.IsActive,
		CreatedAt: time.Now(),
	}
	if err := uow.MarqueeSlideRepository().Create(ctx, &slide); err != nil {
		return nil, err
	}

	s.changed(ctx, "created", slide.Id)
	res := toSlideResponse(&slide)
	return &res, nil
}

func (s *marqueeService) Update(ctx context.Context, req *dto.SlideRequest) (*dto.SlideResponse, error) {
	if err := checkLocales(req.Caption); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	slide, err := uow.MarqueeSlideRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if slide == nil {
		return nil, ErrSlideNotFound
	}

	now := time.Now()
	slide.ImageURL = req.ImageURL
	slide.Caption = entity.LocalizedText(req.Caption).Clone()
	slide.LinkURL = req.LinkURL
	if req.SortOrder != nil {
		slide.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		slide.IsActive = *req.IsActive
	}
	slide.UpdatedAt = &now

	if err := uow.MarqueeSlideRepository().Update(ctx, slide); err != nil {
		return nil, err
	}

	s.changed(ctx, "updated", slide.Id)
	res := toSlideResponse(slide)
	return &res, nil
}

func (s *marqueeService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	slide, err := uow.MarqueeSlideRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if slide == nil {
		return ErrSlideNotFound
	}
	if err := uow.MarqueeSlideRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.changed(ctx, "deleted", id)
	return nil
}

func (s *marqueeService) List(ctx context.Context) ([]dto.SlideResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	slides, err := uow.MarqueeSlideRepository().FindAll(ctx, specification.Scoped(scope.OrderBySortOrder))
	if err != nil {
		return nil, err
	}

	res := make([]dto.SlideResponse, 0, len(slides))
	for _, slide := range slides {
		res = append(res, toSlideResponse(slide))
	}
	return res, nil
}

func (s *marqueeService) ListActive(ctx context.Context, locale string) ([]dto.PublicSlideResponse, error) {
	if locale == "" {
		locale = entity.DefaultLocale
	}
	if !entity.IsSupportedLocale(locale) {
		return nil, ErrUnsupportedLocale
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	slides, err := uow.MarqueeSlideRepository().FindAll(ctx,
		specification.ActiveOnly{},
		specification.Scoped(scope.OrderBySortOrder),
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.PublicSlideResponse, 0, len(slides))
	for _, slide := range slides {
		res = append(res, dto.PublicSlideResponse{
			Id:       slide.Id,
			ImageURL: slide.ImageURL,
			Caption:  slide.Caption.Get(locale),
			LinkURL:  slide.LinkURL,
		})
	}
	return res, nil
}

func (s *marqueeService) Reorder(ctx context.Context, req *dto.ReorderRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	slides, err := uow.MarqueeSlideRepository().FindAll(ctx)
	if err != nil {
		return err
	}
	current := make([]uuid.UUID, len(slides))
	for i, slide := range slides {
		current[i] = slide.Id
	}
	if err := checkReorder(current, req.Ids); err != nil {
		return err
	}

	for i, id := range req.Ids {
		if err := uow.MarqueeSlideRepository().UpdateSortOrder(ctx, id, i); err != nil {
			return err
		}
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.changed(ctx, "reordered", uuid.Nil)
	return nil
}

func (s *marqueeService) changed(ctx context.Context, action string, id uuid.UUID) {
	data := map[string]interface{}{"action": action}
	if id != uuid.Nil {
		data["slide_id"] = id.String()
	}
	if err := s.publisher.Publish(ctx, events.New(events.MarqueeChanged, data)); err != nil {
		s.logger.Warn("MarqueeService", "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}
}
