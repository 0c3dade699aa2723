package repositories

import (
	"errors"
	"time"

	"rianzel_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRoleNotFound       = errors.New("role not found")
	ErrRoleAlreadyExists  = errors.New("role already exists")
	ErrAssignmentNotFound = errors.New("role assignment not found")
)

type RoleRepository interface {
	Create(role *models.Role) error
	FindByID(id string) (*models.Role, error)
	FindByName(name string) (*models.Role, error)
	FindAll() ([]models.Role, error)
	Update(role *models.Role) error
	Delete(id string) error
	CountAssignments(roleID string) (int64, error)

	// Assignments
	CreateAssignment(a *models.RoleAssignment) error
	FindAssignment(roleID, userID string) (*models.RoleAssignment, error)
	FindAssignmentsByUser(userID string) ([]models.RoleAssignment, error)
	DeleteAssignment(roleID, userID string) error

	// Audit
	LogActivity(log *models.ActivityLog) error
	LogModeration(log *models.ModerationLog) error
	FindModerationLogs(limit, offset int) ([]models.ModerationLog, error)

	// Bans
	CreateBan(ban *models.Ban) error
	LiftBans(userID string) error
}

type RoleRepositoryImpl struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &RoleRepositoryImpl{db: db}
}

func (r *RoleRepositoryImpl) Create(role *models.Role) error {
	var existing models.Role
	if err := r.db.Where("name = ?", role.Name).First(&existing).Error; err == nil {
		return ErrRoleAlreadyExists
	}
	return r.db.Create(role).Error
}

func (r *RoleRepositoryImpl) FindByID(id string) (*models.Role, error) {
	var role models.Role
	err := r.db.First(&role, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) FindByName(name string) (*models.Role, error) {
	var role models.Role
	err := r.db.First(&role, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) FindAll() ([]models.Role, error) {
	var roles []models.Role
	err := r.db.Order("name").Find(&roles).Error
	return roles, err
}

func (r *RoleRepositoryImpl) Update(role *models.Role) error {
	return r.db.Save(role).Error
}

func (r *RoleRepositoryImpl) Delete(id string) error {
	return r.db.Delete(&models.Role{}, "id = ?", id).Error
}

func (r *RoleRepositoryImpl) CountAssignments(roleID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.RoleAssignment{}).Where("role_id = ?", roleID).Count(&count).Error
	return count, err
}

// Assignments

func (r *RoleRepositoryImpl) CreateAssignment(a *models.RoleAssignment) error {
	return r.db.Create(a).Error
}

func (r *RoleRepositoryImpl) FindAssignment(roleID, userID string) (*models.RoleAssignment, error) {
	var a models.RoleAssignment
	err := r.db.First(&a, "role_id = ? AND user_id = ?", roleID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *RoleRepositoryImpl) FindAssignmentsByUser(userID string) ([]models.RoleAssignment, error) {
	var assignments []models.RoleAssignment
	err := r.db.Preload("Role").Where("user_id = ?", userID).Find(&assignments).Error
	return assignments, err
}

func (r *RoleRepositoryImpl) DeleteAssignment(roleID, userID string) error {
	res := r.db.Delete(&models.RoleAssignment{}, "role_id = ? AND user_id = ?", roleID, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

// Audit

func (r *RoleRepositoryImpl) LogActivity(log *models.ActivityLog) error {
	return r.db.Create(log).Error
}

func (r *RoleRepositoryImpl) LogModeration(log *models.ModerationLog) error {
	return r.db.Create(log).Error
}

func (r *RoleRepositoryImpl) FindModerationLogs(limit, offset int) ([]models.ModerationLog, error) {
	var logs []models.ModerationLog
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error
	return logs, err
}

// Bans

func (r *RoleRepositoryImpl) CreateBan(ban *models.Ban) error {
	return r.db.Create(ban).Error
}

func (r *RoleRepositoryImpl) LiftBans(userID string) error {
	now := time.Now()
	return r.db.Model(&models.Ban{}).
		Where("user_id = ? AND lifted_at IS NULL", userID).
		Update("lifted_at", &now).Error
}
