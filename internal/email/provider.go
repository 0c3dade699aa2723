package email

// TemplateData представляет данные для шаблонов писем
type TemplateData map[string]interface{}

// Provider определяет интерфейс для отправки email
type Provider interface {
	// SendVerification отправляет код подтверждения email
	SendVerification(to, username, code string) error

	// SendLoginOTP отправляет код второго фактора при входе
	SendLoginOTP(to, username, code string) error

	// SendPasswordReset отправляет ссылку сброса пароля
	SendPasswordReset(to, username, token string) error

	// SendTemplate отправляет произвольное письмо по шаблону
	SendTemplate(to, subject, templateName string, data TemplateData) error
}

// TemplateRenderer определяет интерфейс для рендеринга шаблонов
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}
