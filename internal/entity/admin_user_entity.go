package entity

import (
	"time"

	"github.com/google/uuid"
)

type AdminRole string

const (
	AdminRoleAdmin  AdminRole = "admin"
	AdminRoleEditor AdminRole = "editor"
)

type AdminUser struct {
	Id           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	Role         AdminRole
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ActivityLog struct {
	Id        uuid.UUID
	EventType string
	Payload   map[string]interface{}
	CreatedAt time.Time
}
