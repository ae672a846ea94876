package specification

import "gorm.io/gorm"

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}
