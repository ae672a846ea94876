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

type IMenuService interface {
	Create(ctx context.Context, req *dto.MenuItemRequest) (*dto.MenuItemResponse, error)
	Update(ctx context.Context, req *dto.MenuItemRequest) (*dto.MenuItemResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]dto.MenuItemResponse, error)
	ListActive(ctx context.Context, locale, category string) ([]dto.PublicMenuItemResponse, error)
	Reorder(ctx context.Context, req *dto.ReorderRequest) error
}

type menuService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewMenuService(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, logger logger.ILogger) IMenuService {
	return &menuService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

func toMenuItemResponse(item *entity.LandingMenuItem) dto.MenuItemResponse {
	return dto.MenuItemResponse{
		Id:          item.Id,
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		PriceVnd:    item.PriceVnd,
		ImageURL:    item.ImageURL,
		SortOrder:   item.SortOrder,
		IsActive:    item.IsActive,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func (s *menuService) Create(ctx context.Context, req *dto.MenuItemRequest) (*dto.MenuItemResponse, error) {
	if err := checkLocales(req.Name, req.Description); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	} else {
		// New items go to the end.
		n, err := uow.LandingMenuItemRepository().Count(ctx)
		if err != nil {
			return nil, err
		}
		sortOrder = int(n)
	}

	item := entity.LandingMenuItem{
		Id:          uuid.New(),
		Name:        entity.LocalizedText(req.Name).Clone(),
		Description: entity.LocalizedText(req.Description).Clone(),
		Category:    req.Category,
		PriceVnd:    req.PriceVnd,
		ImageURL:    req.ImageURL,
		SortOrder:   sortOrder,
		IsActive:    req.IsActive == nil || *req.IsActive,
		CreatedAt:   time.Now(),
	}
	if err := uow.LandingMenuItemRepository().Create(ctx, &item); err != nil {
		return nil, err
	}

	s.changed(ctx, "created", item.Id)
	res := toMenuItemResponse(&item)
	return &res, nil
}

func (s *menuService) Update(ctx context.Context, req *dto.MenuItemRequest) (*dto.MenuItemResponse, error) {
	if err := checkLocales(req.Name, req.Description); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	item, err := uow.LandingMenuItemRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}

	now := time.Now()
	item.Name = entity.LocalizedText(req.Name).Clone()
	item.Description = entity.LocalizedText(req.Description).Clone()
	item.Category = req.Category
	item.PriceVnd = req.PriceVnd
	item.ImageURL = req.ImageURL
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	item.UpdatedAt = &now

	if err := uow.LandingMenuItemRepository().Update(ctx, item); err != nil {
		return nil, err
	}

	s.changed(ctx, "updated", item.Id)
	res := toMenuItemResponse(item)
	return &res, nil
}

func (s *menuService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	item, err := uow.LandingMenuItemRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if item == nil {
		return ErrMenuItemNotFound
	}
	if err := uow.LandingMenuItemRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.changed(ctx, "deleted", id)
	return nil
}

func (s *menuService) List(ctx context.Context) ([]dto.MenuItemResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.LandingMenuItemRepository().FindAll(ctx, specification.Scoped(scope.OrderBySortOrder))
	if err != nil {
		return nil, err
	}

	res := make([]dto.MenuItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, toMenuItemResponse(item))
	}
	return res, nil
}

// ListActive is the public menu, resolved to one locale.
func (s *menuService) ListActive(ctx context.Context, locale, category string) ([]dto.PublicMenuItemResponse, error) {
	if locale == "" {
		locale = entity.DefaultLocale
	}
	if !entity.IsSupportedLocale(locale) {
		return nil, ErrUnsupportedLocale
	}

	specs := []specification.Specification{specification.ActiveOnly{}}
	if category != "" {
		specs = append(specs, specification.ByCategory{Category: category})
	}
	specs = append(specs, specification.Scoped(scope.OrderBySortOrder))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.LandingMenuItemRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]dto.PublicMenuItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, dto.PublicMenuItemResponse{
			Id:          item.Id,
			Name:        item.Name.Get(locale),
			Description: item.Description.Get(locale),
			Category:    item.Category,
			PriceVnd:    item.PriceVnd,
			ImageURL:    item.ImageURL,
		})
	}
	return res, nil
}

// Reorder sets sort_order to each id's position. The ids must name every
// item exactly once.
func (s *menuService) Reorder(ctx context.Context, req *dto.ReorderRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	items, err := uow.LandingMenuItemRepository().FindAll(ctx)
	if err != nil {
		return err
	}
	current := make([]uuid.UUID, len(items))
	for i, item := range items {
		current[i] = item.Id
	}
	if err := checkReorder(current, req.Ids); err != nil {
		return err
	}

	for i, id := range req.Ids {
		if err := uow.LandingMenuItemRepository().UpdateSortOrder(ctx, id, i); err != nil {
			return err
		}
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.changed(ctx, "reordered", uuid.Nil)
	return nil
}

func (s *menuService) changed(ctx context.Context, action string, id uuid.UUID) {
	data := map[string]interface{}{"action": action}
	if id != uuid.Nil {
		data["item_id"] = id.String()
	}
	if err := s.publisher.Publish(ctx, events.New(events.MenuChanged, data)); err != nil {
		s.logger.Warn("MenuService", "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}
}

// checkReorder reports whether requested is a permutation of current.
func checkReorder(current, requested []uuid.UUID) error {
	if len(current) != len(requested) {
		return ErrReorderMismatch
	}
	known := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		known[id] = false
	}
	for _, id := range requested {
		seen, ok := known[id]
		if !ok || seen {
			return ErrReorderMismatch
		}
		known[id] = true
	}
	return nil
}
