package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// Имена встроенных шаблонов
const (
	TemplateVerification  = "verification"
	TemplateLoginOTP      = "login_otp"
	TemplatePasswordReset = "password_reset"
)

// TemplateManager реализует TemplateRenderer для управления шаблонами email
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер с предзагруженными встроенными шаблонами
func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}

	builtins := map[string]string{
		TemplateVerification:  verificationTemplate,
		TemplateLoginOTP:      loginOTPTemplate,
		TemplatePasswordReset: passwordResetTemplate,
	}
	for name, body := range builtins {
		if err := tm.AddTemplate(name, body); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

// --- Встроенные шаблоны ---

const verificationTemplate = `<html>
<body>
	<h2>Hello, {{.Username}}!</h2>
	<p>Use this code to verify your email address:</p>
	<h1>{{.Code}}</h1>
	<p>The code is valid for 15 minutes.</p>
	<p>If you did not register, just ignore this message.</p>
</body>
</html>`

const loginOTPTemplate = `<html>
<body>
	<h2>Hello, {{.Username}}!</h2>
	<p>Your login code:</p>
	<h1>{{.Code}}</h1>
	<p>The code is valid for 5 minutes.</p>
	<p>If you did not try to log in, change your password immediately.</p>
</body>
</html>`

const passwordResetTemplate = `<html>
<body>
	<h2>Hello, {{.Username}}!</h2>
	<p>We received a request to reset your password. Your reset token:</p>
	<h1>{{.Token}}</h1>
	<p>The token is valid for 1 hour.</p>
	<p>If you did not request a reset, ignore this message.</p>
</body>
</html>`
