package repositories

import (
	"time"

	"rianzel_backend/internal/models"

	"gorm.io/gorm"
)

type LoginAttemptRepository interface {
	Record(attempt *models.LoginAttempt) error
	// CountRecentFailures считает неудачи за окно по username ИЛИ ip
	CountRecentFailures(username, ip string, window time.Duration) (int64, error)
	DeleteOlderThan(cutoff time.Time) error
}

type LoginAttemptRepositoryImpl struct {
	db *gorm.DB
}

func NewLoginAttemptRepository(db *gorm.DB) LoginAttemptRepository {
	return &LoginAttemptRepositoryImpl{db: db}
}

func (r *LoginAttemptRepositoryImpl) Record(attempt *models.LoginAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *LoginAttemptRepositoryImpl) CountRecentFailures(username, ip string, window time.Duration) (int64, error) {
	var count int64
	since := time.Now().Add(-window)
	err := r.db.Model(&models.LoginAttempt{}).
		Where("success = ? AND created_at > ?", false, since).
		Where("username = ? OR ip_address = ?", username, ip).
		Count(&count).Error
	return count, err
}

func (r *LoginAttemptRepositoryImpl) DeleteOlderThan(cutoff time.Time) error {
	return r.db.Delete(&models.LoginAttempt{}, "created_at < ?", cutoff).Error
}
