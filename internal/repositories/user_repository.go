package repositories

import (
	"errors"
	"time"

	"rianzel_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	FindByID(id string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	// FindByLogin ищет по username или email одним запросом
	FindByLogin(login string) (*models.User, error)
	FindByResetTokenHash(hash string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(userID string) error

	// Login protection
	IncrementFailedLogins(userID string) error
	ResetFailedLogins(userID string) error
	UpdateLastLogin(userID string) error

	// Refresh token (один активный на пользователя)
	SetRefreshToken(userID, token string) error
	ClearRefreshToken(userID string) error

	// Admin
	FindAll(limit, offset int) ([]models.User, error)
	CountAll() (int64, error)
	CountActive() (int64, error)
	CountBanned() (int64, error)
	SetBanned(userID string, banned bool, until *time.Time) error
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByLogin(login string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "username = ? OR email = ?", login, login).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByResetTokenHash(hash string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "reset_token_hash = ?", hash).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	var existing models.User
	if err := r.db.Where("username = ? OR email = ?", user.Username, user.Email).
		First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}
	return r.db.Create(user).Error
}

func (r *UserRepositoryImpl) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepositoryImpl) Delete(userID string) error {
	return r.db.Delete(&models.User{}, "id = ?", userID).Error
}

// Login protection

func (r *UserRepositoryImpl) IncrementFailedLogins(userID string) error {
	now := time.Now()
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"failed_login_attempts": gorm.Expr("failed_login_attempts + 1"),
		"last_failed_login":     &now,
	}).Error
}

func (r *UserRepositoryImpl) ResetFailedLogins(userID string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"last_failed_login":     nil,
	}).Error
}

func (r *UserRepositoryImpl) UpdateLastLogin(userID string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("last_login", time.Now()).Error
}

// Refresh token

func (r *UserRepositoryImpl) SetRefreshToken(userID, token string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("refresh_token", token).Error
}

func (r *UserRepositoryImpl) ClearRefreshToken(userID string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("refresh_token", "").Error
}

// Admin

func (r *UserRepositoryImpl) FindAll(limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) CountBanned() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("is_banned = ?", true).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) SetBanned(userID string, banned bool, until *time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"is_banned":    banned,
		"banned_until": until,
	}).Error
}
