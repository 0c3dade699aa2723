package services

import (
	"encoding/json"
	"time"

	"rianzel_backend/internal/models"
	"rianzel_backend/internal/repositories"
	"rianzel_backend/internal/services/dto"
	"rianzel_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type AdminService interface {
	// Roles
	CreateRole(req *dto.CreateRoleRequest) (*dto.RoleResponse, error)
	ListRoles() ([]dto.RoleResponse, error)
	UpdateRole(id string, req *dto.UpdateRoleRequest) (*dto.RoleResponse, error)
	DeleteRole(id string) error
	AssignRole(actorID string, req *dto.AssignRoleRequest) error
	RemoveRole(actorID, roleID, userID string) error

	// Moderation
	ModerateContent(moderatorID string, req *dto.ModerateContentRequest) error
	ListModerationLogs(limit, offset int) ([]dto.ModerationLogResponse, error)

	// Bans
	BanUser(actorID, userID string, req *dto.BanUserRequest) error
	UnbanUser(actorID, userID string) error

	// Stats
	DashboardStats() (*dto.DashboardStatsResponse, error)
}

type AdminServiceImpl struct {
	roleRepo  repositories.RoleRepository
	userRepo  repositories.UserRepository
	forumRepo repositories.ForumRepository
}

func NewAdminService(
	roleRepo repositories.RoleRepository,
	userRepo repositories.UserRepository,
	forumRepo repositories.ForumRepository,
) AdminService {
	return &AdminServiceImpl{
		roleRepo:  roleRepo,
		userRepo:  userRepo,
		forumRepo: forumRepo,
	}
}

// --- Roles ---

func (s *AdminServiceImpl) CreateRole(req *dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	role := &models.Role{
		Name:        req.Name,
		Description: req.Description,
		Permissions: marshalPermissions(req.Permissions),
	}
	if err := s.roleRepo.Create(role); err != nil {
		if apperrors.Is(err, repositories.ErrRoleAlreadyExists) {
			return nil, apperrors.ErrConflict(err, "admin", "Role with this name already exists")
		}
		return nil, apperrors.InternalError(err)
	}
	return roleToResponse(role), nil
}

func (s *AdminServiceImpl) ListRoles() ([]dto.RoleResponse, error) {
	roles, err := s.roleRepo.FindAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		responses = append(responses, *roleToResponse(&roles[i]))
	}
	return responses, nil
}

func (s *AdminServiceImpl) UpdateRole(id string, req *dto.UpdateRoleRequest) (*dto.RoleResponse, error) {
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.NewNotFoundError("admin", "Role not found")
	}

	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.Permissions != nil {
		role.Permissions = marshalPermissions(req.Permissions)
	}

	if err := s.roleRepo.Update(role); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return roleToResponse(role), nil
}

// DeleteRole - удаление роли.
// Роль с активными назначениями удалить нельзя.
func (s *AdminServiceImpl) DeleteRole(id string) error {
	if _, err := s.roleRepo.FindByID(id); err != nil {
		return apperrors.NewNotFoundError("admin", "Role not found")
	}

	count, err := s.roleRepo.CountAssignments(id)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if count > 0 {
		return apperrors.ErrRoleInUse
	}

	if err := s.roleRepo.Delete(id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// AssignRole - назначение роли пользователю с записью в аудит
func (s *AdminServiceImpl) AssignRole(actorID string, req *dto.AssignRoleRequest) error {
	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return apperrors.NewNotFoundError("admin", "Role not found")
	}
	user, err := s.userRepo.FindByID(req.UserID)
	if err != nil {
		return apperrors.NewNotFoundError("admin", "User not found")
	}

	if _, err := s.roleRepo.FindAssignment(req.RoleID, req.UserID); err == nil {
		return apperrors.ErrRoleAlreadyAssigned
	}

	assignment := &models.RoleAssignment{
		RoleID:     req.RoleID,
		UserID:     req.UserID,
		AssignedBy: actorID,
	}
	if err := s.roleRepo.CreateAssignment(assignment); err != nil {
		return apperrors.InternalError(err)
	}

	s.logActivity(actorID, "role_assigned", user.ID, map[string]string{
		"role_id":   role.ID,
		"role_name": role.Name,
	})
	return nil
}

func (s *AdminServiceImpl) RemoveRole(actorID, roleID, userID string) error {
	if err := s.roleRepo.DeleteAssignment(roleID, userID); err != nil {
		if apperrors.Is(err, repositories.ErrAssignmentNotFound) {
			return apperrors.NewNotFoundError("admin", "Role assignment not found")
		}
		return apperrors.InternalError(err)
	}

	s.logActivity(actorID, "role_removed", userID, map[string]string{"role_id": roleID})
	return nil
}

// --- Moderation ---

// ModerateContent - решение модератора по посту или комментарию.
// Запись в журнал идет до изменения статуса.
func (s *AdminServiceImpl) ModerateContent(moderatorID string, req *dto.ModerateContentRequest) error {
	action := models.ModerationAction(req.Action)
	contentType := models.ContentType(req.ContentType)

	var status models.ContentStatus
	switch action {
	case models.ModerationActionApprove:
		status = models.ContentStatusApproved
	case models.ModerationActionReject:
		status = models.ContentStatusRejected
	case models.ModerationActionDelete:
		status = models.ContentStatusDeleted
	default:
		return apperrors.ErrInvalidModerationAction
	}

	// Контент должен существовать до записи в журнал
	switch contentType {
	case models.ContentTypePost:
		if _, err := s.forumRepo.FindPostByID(req.ContentID); err != nil {
			return apperrors.NewNotFoundError("admin", "Post not found")
		}
	case models.ContentTypeComment:
		if _, err := s.forumRepo.FindCommentByID(req.ContentID); err != nil {
			return apperrors.NewNotFoundError("admin", "Comment not found")
		}
	default:
		return apperrors.ErrInvalidOperation("admin", "Invalid content type")
	}

	logEntry := &models.ModerationLog{
		ModeratorID: moderatorID,
		ContentType: contentType,
		ContentID:   req.ContentID,
		Action:      action,
		Reason:      req.Reason,
	}
	if err := s.roleRepo.LogModeration(logEntry); err != nil {
		return apperrors.InternalError(err)
	}

	var err error
	if contentType == models.ContentTypePost {
		err = s.forumRepo.UpdatePostStatus(req.ContentID, status)
		if err == nil && action == models.ModerationActionDelete {
			err = s.forumRepo.DeletePost(req.ContentID)
		}
	} else {
		err = s.forumRepo.UpdateCommentStatus(req.ContentID, status)
		if err == nil && action == models.ModerationActionDelete {
			err = s.forumRepo.DeleteComment(req.ContentID)
		}
	}
	if err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AdminServiceImpl) ListModerationLogs(limit, offset int) ([]dto.ModerationLogResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	logs, err := s.roleRepo.FindModerationLogs(limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.ModerationLogResponse, 0, len(logs))
	for _, l := range logs {
		responses = append(responses, dto.ModerationLogResponse{
			ID:          l.ID,
			ModeratorID: l.ModeratorID,
			ContentType: l.ContentType,
			ContentID:   l.ContentID,
			Action:      l.Action,
			Reason:      l.Reason,
			CreatedAt:   l.CreatedAt,
		})
	}
	return responses, nil
}

// --- Bans ---

// BanUser - бан пользователя, временный или перманентный
func (s *AdminServiceImpl) BanUser(actorID, userID string, req *dto.BanUserRequest) error {
	if actorID == userID {
		return apperrors.ErrCannotModifySelf
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperrors.NewNotFoundError("admin", "User not found")
	}

	var until *time.Time
	if req.DurationHours > 0 {
		t := time.Now().Add(time.Duration(req.DurationHours) * time.Hour)
		until = &t
	}

	ban := &models.Ban{
		UserID:    user.ID,
		BannedBy:  actorID,
		Reason:    req.Reason,
		ExpiresAt: until,
	}
	if err := s.roleRepo.CreateBan(ban); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.SetBanned(user.ID, true, until); err != nil {
		return apperrors.InternalError(err)
	}
	// Бан обрывает сессию
	if err := s.userRepo.ClearRefreshToken(user.ID); err != nil {
		return apperrors.InternalError(err)
	}

	s.logActivity(actorID, "user_banned", user.ID, map[string]string{"reason": req.Reason})
	return nil
}

func (s *AdminServiceImpl) UnbanUser(actorID, userID string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperrors.NewNotFoundError("admin", "User not found")
	}

	if err := s.roleRepo.LiftBans(user.ID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.SetBanned(user.ID, false, nil); err != nil {
		return apperrors.InternalError(err)
	}

	s.logActivity(actorID, "user_unbanned", user.ID, nil)
	return nil
}

// --- Stats ---

func (s *AdminServiceImpl) DashboardStats() (*dto.DashboardStatsResponse, error) {
	stats := &dto.DashboardStatsResponse{}
	var err error

	if stats.TotalUsers, err = s.userRepo.CountAll(); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.ActiveUsers, err = s.userRepo.CountActive(); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.BannedUsers, err = s.userRepo.CountBanned(); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.TotalPosts, err = s.forumRepo.CountPosts(); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.PendingPosts, err = s.forumRepo.CountPostsByStatus(models.ContentStatusPending); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if stats.TotalComments, err = s.forumRepo.CountComments(); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return stats, nil
}

// logActivity пишет запись аудита, ошибка только логируется через репозиторий
func (s *AdminServiceImpl) logActivity(actorID, action, targetID string, details map[string]string) {
	entry := &models.ActivityLog{
		ActorID:  actorID,
		Action:   action,
		TargetID: targetID,
	}
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			entry.Details = datatypes.JSON(data)
		}
	}
	_ = s.roleRepo.LogActivity(entry)
}

func marshalPermissions(permissions []string) datatypes.JSON {
	if permissions == nil {
		permissions = []string{}
	}
	data, err := json.Marshal(permissions)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func roleToResponse(role *models.Role) *dto.RoleResponse {
	resp := &dto.RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		CreatedAt:   role.CreatedAt,
	}
	if len(role.Permissions) > 0 {
		_ = json.Unmarshal(role.Permissions, &resp.Permissions)
	}
	return resp
}
