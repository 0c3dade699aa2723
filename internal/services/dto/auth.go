package dto

import (
	"time"

	"rianzel_backend/internal/models"
)

// RegisterRequest - запрос регистрации.
// CaptchaToken обязателен при включенной recaptcha.
type RegisterRequest struct {
	Username     string     `json:"username" binding:"required,min=3,max=30"`
	Email        string     `json:"email" binding:"required,email"`
	Password     string     `json:"password" binding:"required,min=8"`
	FullName     string     `json:"full_name,omitempty"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Country      string     `json:"country,omitempty"`
	CaptchaToken string     `json:"captcha_token,omitempty"`
}

// LoginRequest - запрос входа (form-encoded, как OAuth2 password flow).
// Username принимает и имя пользователя, и email.
type LoginRequest struct {
	Username     string `form:"username" binding:"required"`
	Password     string `form:"password" binding:"required"`
	CaptchaToken string `form:"captcha_token"`
}

// LoginResponse - ответ на вход.
// При включенном 2FA токенов нет, OTPRequired = true.
type LoginResponse struct {
	AccessToken  string   `json:"access_token,omitempty"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	TokenType    string   `json:"token_type,omitempty"`
	OTPRequired  bool     `json:"otp_required,omitempty"`
	Message      string   `json:"message,omitempty"`
	User         *UserDTO `json:"user,omitempty"`
}

// VerifyOTPRequest - подтверждение одноразового кода
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// ResendVerificationRequest - повторная отправка кода подтверждения
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPasswordRequest - запрос сброса пароля
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest - установка нового пароля по токену
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// RefreshTokenRequest - refresh-токен в теле запроса.
// Запасной вариант для клиентов без cookie.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest - смена пароля авторизованным пользователем
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// UpdateProfileRequest - обновление профиля.
// Только явно перечисленные поля, ничего динамического.
type UpdateProfileRequest struct {
	FullName    *string    `json:"full_name,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Country     *string    `json:"country,omitempty"`
}

// UserDTO - публичное представление пользователя
type UserDTO struct {
	ID               string          `json:"id"`
	Username         string          `json:"username"`
	Email            string          `json:"email"`
	Role             models.UserRole `json:"role"`
	FullName         string          `json:"full_name,omitempty"`
	Country          string          `json:"country,omitempty"`
	IsActive         bool            `json:"is_active"`
	TwoFactorEnabled bool            `json:"two_factor_enabled"`
	LastLogin        *time.Time      `json:"last_login,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// NewUserDTO собирает DTO из модели
func NewUserDTO(user *models.User) *UserDTO {
	return &UserDTO{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		Role:             user.Role,
		FullName:         user.FullName,
		Country:          user.Country,
		IsActive:         user.IsActive,
		TwoFactorEnabled: user.TwoFactorEnabled,
		LastLogin:        user.LastLogin,
		CreatedAt:        user.CreatedAt,
	}
}

// MessageResponse - простой ответ с сообщением
type MessageResponse struct {
	Message string `json:"message"`
}
