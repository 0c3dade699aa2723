package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig содержит конфигурацию SMTP сервера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	config   *SMTPConfig
	dialer   *gomail.Dialer
	renderer TemplateRenderer
}

// NewSMTPProvider создает новый SMTP провайдер
func NewSMTPProvider(config *SMTPConfig, renderer TemplateRenderer) *SMTPProvider {
	return &SMTPProvider{
		config:   config,
		dialer:   gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		renderer: renderer,
	}
}

// SendTemplate рендерит шаблон и отправляет письмо
func (p *SMTPProvider) SendTemplate(to, subject, templateName string, data TemplateData) error {
	htmlBody, err := p.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template %s: %w", templateName, err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendVerification отправляет код подтверждения email
func (p *SMTPProvider) SendVerification(to, username, code string) error {
	return p.SendTemplate(to, "Verify your email", TemplateVerification, TemplateData{
		"Username": username,
		"Code":     code,
	})
}

// SendLoginOTP отправляет код второго фактора при входе
func (p *SMTPProvider) SendLoginOTP(to, username, code string) error {
	return p.SendTemplate(to, "Your login code", TemplateLoginOTP, TemplateData{
		"Username": username,
		"Code":     code,
	})
}

// SendPasswordReset отправляет токен сброса пароля
func (p *SMTPProvider) SendPasswordReset(to, username, token string) error {
	return p.SendTemplate(to, "Password reset", TemplatePasswordReset, TemplateData{
		"Username": username,
		"Token":    token,
	})
}
