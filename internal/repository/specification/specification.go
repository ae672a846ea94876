package specification

import "gorm.io/gorm"

// Specification defines the interface for query specifications
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// Scoped lets a plain gorm scope function act as a Specification.
type Scoped func(db *gorm.DB) *gorm.DB

func (s Scoped) Apply(db *gorm.DB) *gorm.DB {
	return s(db)
}
