package models

import "time"

// OTP - одноразовый код, отправляемый на email.
// Код потребляется ровно один раз: Used защищает от повторного применения.
type OTP struct {
	BaseModel
	UserID    string     `gorm:"not null;index" json:"user_id"`
	Code      string     `gorm:"not null" json:"-"`
	Purpose   OTPPurpose `gorm:"type:varchar(20);not null" json:"purpose"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	Used      bool       `gorm:"default:false" json:"used"`
}

// IsExpired сообщает, истек ли код
func (o *OTP) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}
