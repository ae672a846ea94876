package entity

import (
	"time"

	"github.com/google/uuid"
)

type LandingMenuItem struct {
	Id          uuid.UUID
	Name        LocalizedText
	Description LocalizedText
	Category    string
	PriceVnd    int64
	ImageURL    string
	SortOrder   int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type MarqueeSlide struct {
	Id        uuid.UUID
	ImageURL  string
	Caption   LocalizedText
	LinkURL   string
	SortOrder int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}
