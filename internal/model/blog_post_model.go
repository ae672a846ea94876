package model

import (
	"encoding/json"
	"time"

	"bistro-cms-be/pkg/lexical"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BlogPost struct {
	Id            uuid.UUID                                         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Slug          string                                            `gorm:"type:varchar(255);uniqueIndex;not null"`
	TitleI18n     datatypes.JSONType[map[string]string]             `gorm:"type:jsonb;not null"`
	ExcerptI18n   datatypes.JSONType[map[string]string]             `gorm:"type:jsonb"`
	ContentI18n   datatypes.JSONType[map[string]json.RawMessage]    `gorm:"type:jsonb"`
	TocI18n       datatypes.JSONType[map[string][]lexical.TocEntry] `gorm:"type:jsonb"`
	CoverImageURL string                                            `gorm:"type:text"`
	Status        string                                            `gorm:"type:varchar(20);not null;default:'draft';index"`
	PublishedAt   *time.Time                                        `gorm:"index"`
	AuthorId      uuid.UUID                                         `gorm:"type:uuid;index"`
	CreatedAt     time.Time                                         `gorm:"autoCreateTime"`
	UpdatedAt     time.Time                                         `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt                                    `gorm:"index"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}
