package mapper

import (
	"time"

	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/model"

	"gorm.io/datatypes"
)

type LandingMapper struct{}

func NewLandingMapper() *LandingMapper {
	return &LandingMapper{}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func (m *LandingMapper) MenuItemToEntity(i *model.LandingMenuItem) *entity.LandingMenuItem {
	if i == nil {
		return nil
	}
	return &entity.LandingMenuItem{
		Id:          i.Id,
		Name:        entity.LocalizedText(i.NameI18n.Data()).Clone(),
		Description: entity.LocalizedText(i.DescriptionI18n.Data()).Clone(),
		Category:    i.Category,
		PriceVnd:    i.PriceVnd,
		ImageURL:    i.ImageURL,
		SortOrder:   i.SortOrder,
		IsActive:    i.IsActive,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   optionalTime(i.UpdatedAt),
	}
}

func (m *LandingMapper) MenuItemToModel(i *entity.LandingMenuItem) *model.LandingMenuItem {
	if i == nil {
		return nil
	}
	return &model.LandingMenuItem{
		Id:              i.Id,
		NameI18n:        datatypes.NewJSONType(map[string]string(i.Name.Clone())),
		DescriptionI18n: datatypes.NewJSONType(map[string]string(i.Description.Clone())),
		Category:        i.Category,
		PriceVnd:        i.PriceVnd,
		ImageURL:        i.ImageURL,
		SortOrder:       i.SortOrder,
		IsActive:        i.IsActive,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       derefTime(i.UpdatedAt),
	}
}

func (m *LandingMapper) MenuItemsToEntities(items []*model.LandingMenuItem) []*entity.LandingMenuItem {
	out := make([]*entity.LandingMenuItem, len(items))
	for i, item := range items {
		out[i] = m.MenuItemToEntity(item)
	}
	return out
}

func (m *LandingMapper) SlideToEntity(s *model.MarqueeSlide) *entity.MarqueeSlide {
	if s == nil {
		return nil
	}
	return &entity.MarqueeSlide{
		Id:        s.Id,
		ImageURL:  s.ImageURL,
		Caption:   entity.LocalizedText(s.CaptionI18n.Data()).Clone(),
		LinkURL:   s.LinkURL,
		SortOrder: s.SortOrder,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: optionalTime(s.UpdatedAt),
	}
}

func (m *LandingMapper) SlideToModel(s *entity.MarqueeSlide) *model.MarqueeSlide {
	if s == nil {
		return nil
	}
	return &model.MarqueeSlide{
		Id:          s.Id,
		ImageURL:    s.ImageURL,
		CaptionI18n: datatypes.NewJSONType(map[string]string(s.Caption.Clone())),
		LinkURL:     s.LinkURL,
		SortOrder:   s.SortOrder,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   derefTime(s.UpdatedAt),
	}
}

func (m *LandingMapper) SlidesToEntities(slides []*model.MarqueeSlide) []*entity.MarqueeSlide {
	out := make([]*entity.MarqueeSlide, len(slides))
	for i, s := range slides {
		out[i] = m.SlideToEntity(s)
	}
	return out
}
