package services

import (
	"rianzel_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	ForumService        ForumService
	NotificationService NotificationService
	AdminService        AdminService
	EmailService        email.Provider
}
