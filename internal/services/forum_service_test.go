package services

import (
	"testing"

	"rianzel_backend/internal/services/dto"
	"rianzel_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeUser(t *testing.T, env *testEnv, username, email string) string {
	t.Helper()
	resp := registerAndActivate(t, env, username, email, "Password1")
	return resp.User.ID
}

func createPost(t *testing.T, env *testEnv, authorID, title string) *dto.PostResponse {
	t.Helper()
	post, err := env.forumSvc.CreatePost(authorID, &dto.CreatePostRequest{
		Title:   title,
		Content: "Some long enough post content",
	})
	require.NoError(t, err)
	return post
}

func TestCreatePost_SanitizesContent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	authorID := activeUser(t, env, "alice", "alice@example.com")

	post, err := env.forumSvc.CreatePost(authorID, &dto.CreatePostRequest{
		Title:   "Hello <script>alert(1)</script> world",
		Content: "Safe text <script>alert(1)</script> with <b>markup</b>",
	})
	require.NoError(t, err)

	assert.NotContains(t, post.Title, "<script>")
	assert.NotContains(t, post.Content, "<script>")
	// UGC-политика сохраняет безобидную разметку
	assert.Contains(t, post.Content, "<b>markup</b>")
}

func TestGetPost_IncrementsViews(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	authorID := activeUser(t, env, "alice", "alice@example.com")
	post := createPost(t, env, authorID, "View counter test")

	got, err := env.forumSvc.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ViewCount)

	got, err = env.forumSvc.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ViewCount)

	_, err = env.forumSvc.GetPost("no-such-id")
	require.Error(t, err)
}

func TestUpdatePost_AuthorOnly(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	authorID := activeUser(t, env, "alice", "alice@example.com")
	otherID := activeUser(t, env, "bob", "bob@example.com")
	post := createPost(t, env, authorID, "Original title")

	newTitle := "Updated title"
	_, err := env.forumSvc.UpdatePost(post.ID, otherID, &dto.UpdatePostRequest{Title: &newTitle})
	assert.ErrorIs(t, err, apperrors.ErrNotAuthor)

	updated, err := env.forumSvc.UpdatePost(post.ID, authorID, &dto.UpdatePostRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Updated title", updated.Title)
}

func TestDeletePost_AuthorOrModerator(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	authorID := activeUser(t, env, "alice", "alice@example.com")
	otherID := activeUser(t, env, "bob", "bob@example.com")

	post := createPost(t, env, authorID, "To be deleted")
	assert.ErrorIs(t, env.forumSvc.DeletePost(post.ID, otherID, false), apperrors.ErrNotAuthor)
	require.NoError(t, env.forumSvc.DeletePost(post.ID, authorID, false))

	// Модератор удаляет чужой пост
	post = createPost(t, env, authorID, "Another one")
	require.NoError(t, env.forumSvc.DeletePost(post.ID, otherID, true))
}

func TestComments_TreeAndNotifications(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	authorID := activeUser(t, env, "alice", "alice@example.com")
	commenterID := activeUser(t, env, "bob", "bob@example.com")
	post := createPost(t, env, authorID, "Discussion")

	root, err := env.forumSvc.CreateComment(post.ID, commenterID, &dto.CreateCommentRequest{
		Content: "First comment",
	})
	require.NoError(t, err)

	// Ответ на комментарий
	reply, err := env.forumSvc.CreateComment(post.ID, authorID, &dto.CreateCommentRequest{
		Content:  "A reply",
		ParentID: &root.ID,
	})
	require.NoError(t, err)

	tree, err := env.forumSvc.ListComments(post.ID)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, reply.ID, tree[0].Replies[0].ID)

	// Автор поста получил уведомление о комментарии,
	// автор комментария - об ответе
	authorList, err := env.notifySvc.List(authorID, &dto.ListNotificationsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), authorList.UnreadCount)

	commenterList, err := env.notifySvc.List(commenterID, &dto.ListNotificationsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), commenterList.UnreadCount)

	// Родитель из другого поста отклоняется
	otherPost := createPost(t, env, authorID, "Unrelated")
	_, err = env.forumSvc.CreateComment(otherPost.ID, commenterID, &dto.CreateCommentRequest{
		Content:  "Cross-post reply",
		ParentID: &root.ID,
	})
	require.Error(t, err)
}

func TestLikes_UniquePerUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	authorID := activeUser(t, env, "alice", "alice@example.com")
	likerID := activeUser(t, env, "bob", "bob@example.com")
	post := createPost(t, env, authorID, "Likeable")

	require.NoError(t, env.forumSvc.LikePost(post.ID, likerID))

	// Повторный лайк - конфликт
	err := env.forumSvc.LikePost(post.ID, likerID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyLiked)

	got, err := env.forumSvc.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikeCount)

	// Автору пришло уведомление о лайке
	list, err := env.notifySvc.List(authorID, &dto.ListNotificationsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.UnreadCount)

	// Снятие лайка
	require.NoError(t, env.forumSvc.UnlikePost(post.ID, likerID))
	err = env.forumSvc.UnlikePost(post.ID, likerID)
	assert.ErrorIs(t, err, apperrors.ErrLikeNotFound)

	got, err = env.forumSvc.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.LikeCount)
}

func TestListPosts_FilterAndPagination(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	authorID := activeUser(t, env, "alice", "alice@example.com")

	category, err := env.forumSvc.CreateCategory(&dto.CreateCategoryRequest{
		Name: "General", Slug: "general",
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := env.forumSvc.CreatePost(authorID, &dto.CreatePostRequest{
			Title:      "Categorized post number",
			Content:    "Some long enough post content",
			CategoryID: category.ID,
		})
		require.NoError(t, err)
	}
	createPost(t, env, authorID, "Uncategorized post")

	list, err := env.forumSvc.ListPosts(&dto.ListPostsRequest{CategoryID: category.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.Total)

	list, err = env.forumSvc.ListPosts(&dto.ListPostsRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), list.Total)
	assert.Len(t, list.Posts, 2)
}

func TestCategories_Nested(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	parent, err := env.forumSvc.CreateCategory(&dto.CreateCategoryRequest{
		Name: "Parent", Slug: "parent",
	})
	require.NoError(t, err)

	_, err = env.forumSvc.CreateCategory(&dto.CreateCategoryRequest{
		Name: "Child", Slug: "child", ParentID: &parent.ID,
	})
	require.NoError(t, err)

	categories, err := env.forumSvc.ListCategories()
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.Len(t, categories[0].Children, 1)
	assert.Equal(t, "child", categories[0].Children[0].Slug)
}
