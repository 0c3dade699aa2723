package services

import (
	"encoding/json"
	"fmt"

	"rianzel_backend/internal/logger"
	"rianzel_backend/internal/models"
	"rianzel_backend/internal/repositories"
	"rianzel_backend/internal/services/dto"
	"rianzel_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type NotificationService interface {
	List(userID string, req *dto.ListNotificationsRequest) (*dto.NotificationListResponse, error)
	MarkRead(id, userID string) error
	MarkAllRead(userID string) error

	// Фан-аут на события форума, ошибки не всплывают наружу
	NotifyComment(userID string, notifyType models.NotificationType, post *models.Post, comment *models.Comment)
	NotifyLike(userID string, post *models.Post, likerID string)
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &NotificationServiceImpl{notificationRepo: notificationRepo}
}

// List - уведомления пользователя со счетчиком непрочитанных
func (s *NotificationServiceImpl) List(userID string, req *dto.ListNotificationsRequest) (*dto.NotificationListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	notifications, err := s.notificationRepo.FindByUser(userID, req.OnlyUnread, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, *notificationToResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		UnreadCount:   unread,
	}, nil
}

func (s *NotificationServiceImpl) MarkRead(id, userID string) error {
	if err := s.notificationRepo.MarkRead(id, userID); err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.NewNotFoundError("notification", "Notification not found")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *NotificationServiceImpl) MarkAllRead(userID string) error {
	if err := s.notificationRepo.MarkAllRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// NotifyComment - уведомление автору поста или родительского комментария
func (s *NotificationServiceImpl) NotifyComment(userID string, notifyType models.NotificationType, post *models.Post, comment *models.Comment) {
	title := "New comment on your post"
	if notifyType == models.NotificationTypeReply {
		title = "New reply to your comment"
	}

	s.create(&models.Notification{
		UserID:  userID,
		Type:    notifyType,
		Title:   title,
		Message: fmt.Sprintf("Post: %s", post.Title),
		Data:    mustJSON(map[string]string{"post_id": post.ID, "comment_id": comment.ID}),
	})
}

// NotifyLike - уведомление автору поста о лайке
func (s *NotificationServiceImpl) NotifyLike(userID string, post *models.Post, likerID string) {
	s.create(&models.Notification{
		UserID:  userID,
		Type:    models.NotificationTypeLike,
		Title:   "Your post was liked",
		Message: fmt.Sprintf("Post: %s", post.Title),
		Data:    mustJSON(map[string]string{"post_id": post.ID, "liker_id": likerID}),
	})
}

func (s *NotificationServiceImpl) create(n *models.Notification) {
	if err := s.notificationRepo.Create(n); err != nil {
		logger.Error("failed to create notification", "error", err, "user_id", n.UserID)
	}
}

func mustJSON(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func notificationToResponse(n *models.Notification) *dto.NotificationResponse {
	resp := &dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if len(n.Data) > 0 {
		var data interface{}
		if err := json.Unmarshal(n.Data, &data); err == nil {
			resp.Data = data
		}
	}
	return resp
}
