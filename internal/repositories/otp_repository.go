package repositories

import (
	"errors"
	"time"

	"rianzel_backend/internal/models"

	"gorm.io/gorm"
)

var ErrOTPNotFound = errors.New("otp not found")

type OTPRepository interface {
	Create(otp *models.OTP) error
	// Consume находит живой код и атомарно помечает его использованным.
	// При гонке выигрывает ровно один вызов.
	Consume(userID, code string, purpose models.OTPPurpose) (*models.OTP, error)
	InvalidateForUser(userID string, purpose models.OTPPurpose) error
	DeleteExpired() error
}

type OTPRepositoryImpl struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &OTPRepositoryImpl{db: db}
}

func (r *OTPRepositoryImpl) Create(otp *models.OTP) error {
	return r.db.Create(otp).Error
}

func (r *OTPRepositoryImpl) Consume(userID, code string, purpose models.OTPPurpose) (*models.OTP, error) {
	var otp models.OTP
	err := r.db.First(&otp,
		"user_id = ? AND code = ? AND purpose = ? AND used = ? AND expires_at > ?",
		userID, code, purpose, false, time.Now()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOTPNotFound
		}
		return nil, err
	}

	// Условный UPDATE: guard used=false отсекает второго потребителя
	res := r.db.Model(&models.OTP{}).
		Where("id = ? AND used = ?", otp.ID, false).
		Update("used", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrOTPNotFound
	}

	otp.Used = true
	return &otp, nil
}

func (r *OTPRepositoryImpl) InvalidateForUser(userID string, purpose models.OTPPurpose) error {
	return r.db.Model(&models.OTP{}).
		Where("user_id = ? AND purpose = ? AND used = ?", userID, purpose, false).
		Update("used", true).Error
}

func (r *OTPRepositoryImpl) DeleteExpired() error {
	return r.db.Delete(&models.OTP{}, "expires_at < ?", time.Now()).Error
}
