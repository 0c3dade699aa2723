package models

import (
	"time"

	"gorm.io/datatypes"
)

// Role - именованная роль с произвольным набором разрешений
type Role struct {
	BaseModel
	Name        string         `gorm:"uniqueIndex;not null" json:"name"`
	Description string         `json:"description"`
	Permissions datatypes.JSON `gorm:"type:jsonb" json:"permissions"` // ["posts:delete", "users:ban"]

	Assignments []RoleAssignment `gorm:"foreignKey:RoleID" json:"-"`
}

// RoleAssignment - назначение роли пользователю
type RoleAssignment struct {
	BaseModel
	RoleID     string `gorm:"not null;index;uniqueIndex:idx_role_user" json:"role_id"`
	UserID     string `gorm:"not null;index;uniqueIndex:idx_role_user" json:"user_id"`
	AssignedBy string `gorm:"not null" json:"assigned_by"`

	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// ActivityLog - аудит действий админ-панели
type ActivityLog struct {
	BaseModel
	ActorID  string         `gorm:"not null;index" json:"actor_id"`
	Action   string         `gorm:"not null" json:"action"` // role_assigned, user_banned, ...
	TargetID string         `gorm:"index" json:"target_id"`
	Details  datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
}

// ModerationLog - журнал решений модерации.
// Запись добавляется до изменения статуса контента.
type ModerationLog struct {
	BaseModel
	ModeratorID string           `gorm:"not null;index" json:"moderator_id"`
	ContentType ContentType      `gorm:"type:varchar(20);not null" json:"content_type"`
	ContentID   string           `gorm:"not null;index" json:"content_id"`
	Action      ModerationAction `gorm:"type:varchar(20);not null" json:"action"`
	Reason      string           `json:"reason"`
}

// Ban - отметка о бане пользователя
type Ban struct {
	BaseModel
	UserID    string     `gorm:"not null;index" json:"user_id"`
	BannedBy  string     `gorm:"not null" json:"banned_by"`
	Reason    string     `json:"reason"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"` // nil = перманентный
	LiftedAt  *time.Time `json:"lifted_at,omitempty"`
}
