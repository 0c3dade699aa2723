package services

import (
	"context"
	"testing"

	"rianzel_backend/internal/models"
	"rianzel_backend/internal/services/dto"
	"rianzel_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoles_CRUDAndGuards(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	adminID := activeUser(t, env, "admin", "admin@example.com")
	memberID := activeUser(t, env, "member", "member@example.com")

	role, err := env.adminSvc.CreateRole(&dto.CreateRoleRequest{
		Name:        "editor",
		Permissions: []string{"content:write", "content:moderate"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"content:write", "content:moderate"}, role.Permissions)

	// Дубликат имени - конфликт
	_, err = env.adminSvc.CreateRole(&dto.CreateRoleRequest{Name: "editor"})
	require.Error(t, err)

	// Назначение
	require.NoError(t, env.adminSvc.AssignRole(adminID, &dto.AssignRoleRequest{
		UserID: memberID, RoleID: role.ID,
	}))

	// Повторное назначение - конфликт
	err = env.adminSvc.AssignRole(adminID, &dto.AssignRoleRequest{
		UserID: memberID, RoleID: role.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrRoleAlreadyAssigned)

	// Роль с назначениями удалить нельзя
	err = env.adminSvc.DeleteRole(role.ID)
	assert.ErrorIs(t, err, apperrors.ErrRoleInUse)

	// После снятия назначения удаление проходит
	require.NoError(t, env.adminSvc.RemoveRole(adminID, role.ID, memberID))
	require.NoError(t, env.adminSvc.DeleteRole(role.ID))

	// Аудит содержит назначение и снятие
	var logs []models.ActivityLog
	require.NoError(t, env.db.Order("created_at").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, "role_assigned", logs[0].Action)
	assert.Equal(t, "role_removed", logs[1].Action)
}

func TestModerateContent_LogBeforeStatusChange(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	moderatorID := activeUser(t, env, "mod", "mod@example.com")
	authorID := activeUser(t, env, "alice", "alice@example.com")
	post := createPost(t, env, authorID, "Questionable content")

	require.NoError(t, env.adminSvc.ModerateContent(moderatorID, &dto.ModerateContentRequest{
		ContentType: "post",
		ContentID:   post.ID,
		Action:      "reject",
		Reason:      "spam",
	}))

	// Статус изменен, журнал заполнен
	var updated models.Post
	require.NoError(t, env.db.First(&updated, "id = ?", post.ID).Error)
	assert.Equal(t, models.ContentStatusRejected, updated.Status)

	logs, err := env.adminSvc.ListModerationLogs(10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ModerationActionReject, logs[0].Action)
	assert.Equal(t, "spam", logs[0].Reason)

	// Отклоненный пост не виден в выдаче
	_, err = env.forumSvc.GetPost(post.ID)
	require.Error(t, err)

	// Несуществующий контент - 404, журнал не растет
	err = env.adminSvc.ModerateContent(moderatorID, &dto.ModerateContentRequest{
		ContentType: "post",
		ContentID:   "no-such-post",
		Action:      "approve",
	})
	require.Error(t, err)

	logs, err = env.adminSvc.ListModerationLogs(10, 0)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestModerateContent_DeleteComment(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	moderatorID := activeUser(t, env, "mod", "mod@example.com")
	authorID := activeUser(t, env, "alice", "alice@example.com")
	post := createPost(t, env, authorID, "Post with comment")

	comment, err := env.forumSvc.CreateComment(post.ID, authorID, &dto.CreateCommentRequest{
		Content: "Offensive comment",
	})
	require.NoError(t, err)

	require.NoError(t, env.adminSvc.ModerateContent(moderatorID, &dto.ModerateContentRequest{
		ContentType: "comment",
		ContentID:   comment.ID,
		Action:      "delete",
		Reason:      "abuse",
	}))

	comments, err := env.forumSvc.ListComments(post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestBanAndUnban(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	adminID := activeUser(t, env, "admin", "admin@example.com")
	targetID := activeUser(t, env, "target", "target@example.com")

	// Себя банить нельзя
	err := env.adminSvc.BanUser(adminID, adminID, &dto.BanUserRequest{Reason: "oops"})
	assert.ErrorIs(t, err, apperrors.ErrCannotModifySelf)

	require.NoError(t, env.adminSvc.BanUser(adminID, targetID, &dto.BanUserRequest{
		Reason: "spam", DurationHours: 24,
	}))

	// Вход для забаненного закрыт
	_, err = env.authSvc.Login(context.Background(), &dto.LoginRequest{
		Username: "target", Password: "Password1",
	}, testMeta)
	assert.ErrorIs(t, err, apperrors.ErrUserBanned)

	require.NoError(t, env.adminSvc.UnbanUser(adminID, targetID))

	_, err = env.authSvc.Login(context.Background(), &dto.LoginRequest{
		Username: "target", Password: "Password1",
	}, testMeta)
	require.NoError(t, err)
}

func TestDashboardStats(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	authorID := activeUser(t, env, "alice", "alice@example.com")
	register(t, env, "pending", "pending@example.com", "Password1")
	createPost(t, env, authorID, "Stats post")

	stats, err := env.adminSvc.DashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.ActiveUsers)
	assert.Equal(t, int64(0), stats.BannedUsers)
	assert.Equal(t, int64(1), stats.TotalPosts)
}
