package specification

import "gorm.io/gorm"

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ByEventType struct {
	EventType string
}

func (s ByEventType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("event_type = ?", s.EventType)
}
