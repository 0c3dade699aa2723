package models

// LoginAttempt - запись о неудачной попытке входа.
// Скользящее окно по этим записям решает, требовать ли капчу.
type LoginAttempt struct {
	BaseModel
	Username  string `gorm:"index;not null" json:"username"`
	IPAddress string `gorm:"index" json:"ip_address"`
	UserAgent string `json:"user_agent"`
	Success   bool   `gorm:"default:false" json:"success"`
	Reason    string `json:"reason"` // invalid_password, account_locked, captcha_failed
}
