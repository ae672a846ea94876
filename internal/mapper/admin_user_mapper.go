package mapper

import (
	"encoding/json"

	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/model"

	"gorm.io/datatypes"
)

type AdminUserMapper struct{}

func NewAdminUserMapper() *AdminUserMapper {
	return &AdminUserMapper{}
}

func (m *AdminUserMapper) ToEntity(u *model.AdminUser) *entity.AdminUser {
	if u == nil {
		return nil
	}
	return &entity.AdminUser{
		Id:           u.Id,
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		Role:         entity.AdminRole(u.Role),
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *AdminUserMapper) ToModel(u *entity.AdminUser) *model.AdminUser {
	if u == nil {
		return nil
	}
	return &model.AdminUser{
		Id:           u.Id,
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type ActivityLogMapper struct{}

func NewActivityLogMapper() *ActivityLogMapper {
	return &ActivityLogMapper{}
}

func (m *ActivityLogMapper) ToEntity(l *model.ActivityLog) *entity.ActivityLog {
	if l == nil {
		return nil
	}
	payload := map[string]interface{}{}
	if len(l.Payload) > 0 {
		_ = json.Unmarshal(l.Payload, &payload)
	}
	return &entity.ActivityLog{
		Id:        l.Id,
		EventType: l.EventType,
		Payload:   payload,
		CreatedAt: l.CreatedAt,
	}
}

func (m *ActivityLogMapper) ToModel(l *entity.ActivityLog) *model.ActivityLog {
	if l == nil {
		return nil
	}
	raw, err := json.Marshal(l.Payload)
	if err != nil {
		raw = []byte("{}")
	}
	return &model.ActivityLog{
		Id:        l.Id,
		EventType: l.EventType,
		Payload:   datatypes.JSON(raw),
		CreatedAt: l.CreatedAt,
	}
}
