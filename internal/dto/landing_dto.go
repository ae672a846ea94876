package dto

import (
	"time"

	"github.com/google/uuid"
)

type MenuItemRequest struct {
	Id          uuid.UUID         `json:"-"`
	Name        map[string]string `json:"name" validate:"required,min=1"`
	Description map[string]string `json:"description"`
	Category    string            `json:"category" validate:"omitempty,max=50"`
	PriceVnd    int64             `json:"price_vnd" validate:"gte=0"`
	ImageURL    string            `json:"image_url" validate:"omitempty,max=2048"`
	SortOrder   *int              `json:"sort_order"`
	IsActive    *bool             `json:"is_active"`
}

type MenuItemResponse struct {
	Id          uuid.UUID         `json:"id"`
	Name        map[string]string `json:"name"`
	Description map[string]string `json:"description"`
	Category    string            `json:"category"`
	PriceVnd    int64             `json:"price_vnd"`
	ImageURL    string            `json:"image_url"`
	SortOrder   int               `json:"sort_order"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   *time.Time        `json:"updated_at"`
}

// PublicMenuItemResponse is one item resolved to a single locale.
type PublicMenuItemResponse struct {
	Id          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PriceVnd    int64     `json:"price_vnd"`
	ImageURL    string    `json:"image_url"`
}

type SlideRequest struct {
	Id        uuid.UUID         `json:"-"`
	ImageURL  string            `json:"image_url" validate:"required,max=2048"`
	Caption   map[string]string `json:"caption"`
	LinkURL   string            `json:"link_url" validate:"omitempty,max=2048"`
	SortOrder *int              `json:"sort_order"`
	IsActive  *bool             `json:"is_active"`
}

type SlideResponse struct {
	Id        uuid.UUID         `json:"id"`
	ImageURL  string            `json:"image_url"`
	Caption   map[string]string `json:"caption"`
	LinkURL   string            `json:"link_url"`
	SortOrder int               `json:"sort_order"`
	IsActive  bool              `json:"is_active"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt *time.Time        `json:"updated_at"`
}

type PublicSlideResponse struct {
	Id       uuid.UUID `json:"id"`
	ImageURL string    `json:"image_url"`
	Caption  string    `json:"caption"`
	LinkURL  string    `json:"link_url"`
}

type ReorderRequest struct {
	Ids []uuid.UUID `json:"ids" validate:"required,min=1,dive,required"`
}
