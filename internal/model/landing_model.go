package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LandingMenuItem struct {
	Id              uuid.UUID                             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NameI18n        datatypes.JSONType[map[string]string] `gorm:"type:jsonb;not null"`
	DescriptionI18n datatypes.JSONType[map[string]string] `gorm:"type:jsonb"`
	Category        string                                `gorm:"type:varchar(50);index"`
	PriceVnd        int64                                 `gorm:"not null;default:0"`
	ImageURL        string                                `gorm:"type:text"`
	SortOrder       int                                   `gorm:"not null;default:0;index"`
	IsActive        bool                                  `gorm:"default:true"`
	CreatedAt       time.Time                             `gorm:"autoCreateTime"`
	UpdatedAt       time.Time                             `gorm:"autoUpdateTime"`
}

func (LandingMenuItem) TableName() string {
	return "landing_menu_items"
}

type MarqueeSlide struct {
	Id          uuid.UUID                             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ImageURL    string                                `gorm:"type:text;not null"`
	CaptionI18n datatypes.JSONType[map[string]string] `gorm:"type:jsonb"`
	LinkURL     string                                `gorm:"type:text"`
	SortOrder   int                                   `gorm:"not null;default:0;index"`
	IsActive    bool                                  `gorm:"default:true"`
	CreatedAt   time.Time                             `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                             `gorm:"autoUpdateTime"`
}

func (MarqueeSlide) TableName() string {
	return "marquee_slides"
}
