package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByID filters by ID
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}

// ActiveOnly keeps rows flagged is_active.
type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
