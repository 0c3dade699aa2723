package dto

import (
	"time"

	"rianzel_backend/internal/models"
)

// ListNotificationsRequest - параметры списка уведомлений
type ListNotificationsRequest struct {
	OnlyUnread bool `form:"only_unread"`
	Page       int  `form:"page" binding:"omitempty,min=1"`
	PageSize   int  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// NotificationResponse - уведомление в ответе API
type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message,omitempty"`
	Data      interface{}             `json:"data,omitempty"`
	IsRead    bool                    `json:"is_read"`
	ReadAt    *time.Time              `json:"read_at,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

// NotificationListResponse - страница уведомлений со счетчиком непрочитанных
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}
