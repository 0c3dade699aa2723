package app

import (
	"rianzel_backend/internal/email"
	"rianzel_backend/internal/logger"
)

// MockEmailProvider используется для локальной разработки без SMTP.
// Письма не отправляются, факт отправки пишется в лог.
type MockEmailProvider struct{}

func (m *MockEmailProvider) SendVerification(to, username, code string) error {
	logger.Info("[mock email] verification code", "to", to, "code", code)
	return nil
}

func (m *MockEmailProvider) SendLoginOTP(to, username, code string) error {
	logger.Info("[mock email] login OTP", "to", to, "code", code)
	return nil
}

func (m *MockEmailProvider) SendPasswordReset(to, username, token string) error {
	logger.Info("[mock email] password reset token", "to", to, "token", token)
	return nil
}

func (m *MockEmailProvider) SendTemplate(to, subject, templateName string, data email.TemplateData) error {
	logger.Info("[mock email] template", "to", to, "template", templateName)
	return nil
}
