package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ExcludeID is used for uniqueness checks on update.
type ExcludeID struct {
	ID uuid.UUID
}

func (s ExcludeID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id <> ?", s.ID)
}

// PostSearchQuery matches the slug or any translation of the title.
type PostSearchQuery struct {
	Query string
}

func (s PostSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("slug ILIKE ? OR title_i18n::text ILIKE ?", pattern, pattern)
}
