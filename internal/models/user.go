package models

import "time"

type User struct {
	BaseModel
	Username     string   `gorm:"uniqueIndex;not null" json:"username"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`

	FullName    string     `json:"full_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Country     string     `json:"country"`

	// Аккаунт активируется после подтверждения email
	IsActive        bool       `gorm:"default:false" json:"is_active"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	IsBanned        bool       `gorm:"default:false" json:"is_banned"`
	BannedUntil     *time.Time `json:"banned_until,omitempty"`

	// Состояние защиты от перебора
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LastFailedLogin     *time.Time `json:"-"`
	LastLogin           *time.Time `json:"last_login,omitempty"`

	TwoFactorEnabled bool `gorm:"default:false" json:"two_factor_enabled"`

	// Сброс пароля: храним SHA-256 хеш токена, сам токен уходит в письме
	ResetTokenHash string     `gorm:"index" json:"-"`
	ResetTokenExp  *time.Time `json:"-"`

	// Текущий refresh-токен, один на пользователя
	RefreshToken string `json:"-"`
}
