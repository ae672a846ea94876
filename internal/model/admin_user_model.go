package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AdminUser struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName     string    `gorm:"type:varchar(255);not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'editor'"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}

type ActivityLog struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventType string         `gorm:"type:varchar(100);not null;index"`
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"default:now();not null;index"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
