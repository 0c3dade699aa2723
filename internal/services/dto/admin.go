package dto

import (
	"time"

	"rianzel_backend/internal/models"
)

// CreateRoleRequest - создание роли
type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required,min=2,max=50"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// UpdateRoleRequest - обновление роли
type UpdateRoleRequest struct {
	Description *string  `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// RoleResponse - роль в ответе API
type RoleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AssignRoleRequest - назначение роли пользователю
type AssignRoleRequest struct {
	UserID string `json:"user_id" binding:"required"`
	RoleID string `json:"role_id" binding:"required"`
}

// ModerateContentRequest - решение модератора
type ModerateContentRequest struct {
	ContentType string `json:"content_type" binding:"required,is-content-type"`
	ContentID   string `json:"content_id" binding:"required"`
	Action      string `json:"action" binding:"required,is-moderation-action"`
	Reason      string `json:"reason,omitempty"`
}

// BanUserRequest - бан пользователя
type BanUserRequest struct {
	Reason string `json:"reason,omitempty"`
	// Часы, 0 = перманентно
	DurationHours int `json:"duration_hours,omitempty" binding:"omitempty,min=1"`
}

// ModerationLogResponse - запись журнала модерации
type ModerationLogResponse struct {
	ID          string                  `json:"id"`
	ModeratorID string                  `json:"moderator_id"`
	ContentType models.ContentType      `json:"content_type"`
	ContentID   string                  `json:"content_id"`
	Action      models.ModerationAction `json:"action"`
	Reason      string                  `json:"reason,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

// DashboardStatsResponse - сводка для админ-панели
type DashboardStatsResponse struct {
	TotalUsers   int64 `json:"total_users"`
	ActiveUsers  int64 `json:"active_users"`
	BannedUsers  int64 `json:"banned_users"`
	TotalPosts   int64 `json:"total_posts"`
	PendingPosts int64 `json:"pending_posts"`
	TotalComments int64 `json:"total_comments"`
}
