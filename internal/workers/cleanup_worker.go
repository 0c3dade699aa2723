package workers

import (
	"context"
	"time"

	"rianzel_backend/internal/logger"
	"rianzel_backend/internal/models"
	"rianzel_backend/internal/repositories"

	"gorm.io/gorm"
)

// Хранить попытки входа дольше суток смысла нет,
// окно капчи и блокировки намного короче.
const loginAttemptRetention = 24 * time.Hour

// CleanupWorker - фоновая уборка просроченных данных:
// OTP-коды, старые попытки входа, истекшие баны.
type CleanupWorker struct {
	db          *gorm.DB
	otpRepo     repositories.OTPRepository
	attemptRepo repositories.LoginAttemptRepository
	interval    time.Duration
}

func NewCleanupWorker(db *gorm.DB) *CleanupWorker {
	return &CleanupWorker{
		db:          db,
		otpRepo:     repositories.NewOTPRepository(db),
		attemptRepo: repositories.NewLoginAttemptRepository(db),
		interval:    1 * time.Hour,
	}
}

// Start запускает фоновую уборку
func (w *CleanupWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *CleanupWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup worker stopped")
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *CleanupWorker) cleanup() {
	if err := w.otpRepo.DeleteExpired(); err != nil {
		logger.Error("Failed to delete expired OTP codes", "error", err)
	}

	if err := w.attemptRepo.DeleteOlderThan(time.Now().Add(-loginAttemptRetention)); err != nil {
		logger.Error("Failed to delete old login attempts", "error", err)
	}

	// Истекшие временные баны снимаем и без захода пользователя
	result := w.db.Model(&models.User{}).
		Where("is_banned = ? AND banned_until IS NOT NULL AND banned_until < ?", true, time.Now()).
		Updates(map[string]interface{}{"is_banned": false, "banned_until": nil})
	if result.Error != nil {
		logger.Error("Failed to lift expired bans", "error", result.Error)
	} else if result.RowsAffected > 0 {
		logger.Info("Lifted expired bans", "count", result.RowsAffected)
	}
}
