package services

import (
	"strings"

	"rianzel_backend/internal/models"
	"rianzel_backend/internal/repositories"
	"rianzel_backend/internal/services/dto"
	"rianzel_backend/pkg/apperrors"

	"github.com/microcosm-cc/bluemonday"
)

type ForumService interface {
	// Posts
	ListPosts(req *dto.ListPostsRequest) (*dto.PostListResponse, error)
	GetPost(id string) (*dto.PostResponse, error)
	CreatePost(authorID string, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	UpdatePost(id, userID string, req *dto.UpdatePostRequest) (*dto.PostResponse, error)
	DeletePost(id, userID string, isModerator bool) error

	// Comments
	ListComments(postID string) ([]dto.CommentResponse, error)
	CreateComment(postID, authorID string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	UpdateComment(id, userID string, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(id, userID string, isModerator bool) error

	// Likes
	LikePost(postID, userID string) error
	UnlikePost(postID, userID string) error

	// Categories
	ListCategories() ([]dto.CategoryResponse, error)
	CreateCategory(req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(id string) error
}

type ForumServiceImpl struct {
	forumRepo     repositories.ForumRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
	// UGC-политика: режем теги и скрипты до записи в базу
	sanitizer *bluemonday.Policy
}

func NewForumService(
	forumRepo repositories.ForumRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
) ForumService {
	return &ForumServiceImpl{
		forumRepo:     forumRepo,
		userRepo:      userRepo,
		notifications: notifications,
		sanitizer:     bluemonday.UGCPolicy(),
	}
}

// --- Posts ---

// ListPosts - список постов с фильтром по разделу и сортировкой.
// Наружу уходят только approved посты.
func (s *ForumServiceImpl) ListPosts(req *dto.ListPostsRequest) (*dto.PostListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	posts, total, err := s.forumRepo.FindPosts(repositories.PostFilter{
		CategoryID: req.CategoryID,
		Status:     models.ContentStatusApproved,
		SortBy:     req.SortBy,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, *postToResponse(&posts[i]))
	}

	return &dto.PostListResponse{
		Posts:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetPost - пост по id, каждый просмотр увеличивает счетчик
func (s *ForumServiceImpl) GetPost(id string) (*dto.PostResponse, error) {
	post, err := s.forumRepo.FindPostByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.NewNotFoundError("forum", "Post not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if post.Status == models.ContentStatusDeleted || post.Status == models.ContentStatusRejected {
		return nil, apperrors.NewNotFoundError("forum", "Post not found")
	}

	if err := s.forumRepo.IncrementViews(id); err != nil {
		return nil, apperrors.InternalError(err)
	}
	post.ViewCount++

	return postToResponse(post), nil
}

func (s *ForumServiceImpl) CreatePost(authorID string, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	if req.CategoryID != "" {
		if _, err := s.forumRepo.FindCategoryByID(req.CategoryID); err != nil {
			return nil, apperrors.NewNotFoundError("forum", "Category not found")
		}
	}

	post := &models.Post{
		AuthorID: authorID,
		Title:    s.sanitizeText(req.Title),
		Content:  s.sanitizer.Sanitize(req.Content),
		Status:   models.ContentStatusApproved,
	}
	if req.CategoryID != "" {
		post.CategoryID = &req.CategoryID
	}

	if err := s.forumRepo.CreatePost(post); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return postToResponse(post), nil
}

func (s *ForumServiceImpl) UpdatePost(id, userID string, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.forumRepo.FindPostByID(id)
	if err != nil {
		return nil, apperrors.NewNotFoundError("forum", "Post not found")
	}
	if post.AuthorID != userID {
		return nil, apperrors.ErrNotAuthor
	}

	if req.Title != nil {
		post.Title = s.sanitizeText(*req.Title)
	}
	if req.Content != nil {
		post.Content = s.sanitizer.Sanitize(*req.Content)
	}

	if err := s.forumRepo.UpdatePost(post); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return postToResponse(post), nil
}

// DeletePost - удаление поста автором или модератором
func (s *ForumServiceImpl) DeletePost(id, userID string, isModerator bool) error {
	post, err := s.forumRepo.FindPostByID(id)
	if err != nil {
		return apperrors.NewNotFoundError("forum", "Post not found")
	}
	if post.AuthorID != userID && !isModerator {
		return apperrors.ErrNotAuthor
	}
	if err := s.forumRepo.DeletePost(id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// --- Comments ---

// ListComments - комментарии поста деревом
func (s *ForumServiceImpl) ListComments(postID string) ([]dto.CommentResponse, error) {
	if _, err := s.forumRepo.FindPostByID(postID); err != nil {
		return nil, apperrors.NewNotFoundError("forum", "Post not found")
	}

	comments, err := s.forumRepo.FindCommentsByPost(postID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildCommentTree(comments), nil
}

func (s *ForumServiceImpl) CreateComment(postID, authorID string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	post, err := s.forumRepo.FindPostByID(postID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("forum", "Post not found")
	}

	notifyType := models.NotificationTypeComment
	notifyUserID := post.AuthorID

	if req.ParentID != nil {
		parent, err := s.forumRepo.FindCommentByID(*req.ParentID)
		if err != nil || parent.PostID != postID {
			return nil, apperrors.NewNotFoundError("forum", "Parent comment not found")
		}
		notifyType = models.NotificationTypeReply
		notifyUserID = parent.AuthorID
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		ParentID: req.ParentID,
		Content:  s.sanitizer.Sanitize(req.Content),
		Status:   models.ContentStatusApproved,
	}
	if err := s.forumRepo.CreateComment(comment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Себя не уведомляем
	if notifyUserID != authorID {
		s.notifications.NotifyComment(notifyUserID, notifyType, post, comment)
	}

	return commentToResponse(comment), nil
}

func (s *ForumServiceImpl) UpdateComment(id, userID string, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.forumRepo.FindCommentByID(id)
	if err != nil {
		return nil, apperrors.NewNotFoundError("forum", "Comment not found")
	}
	if comment.AuthorID != userID {
		return nil, apperrors.ErrNotAuthor
	}

	comment.Content = s.sanitizer.Sanitize(req.Content)
	if err := s.forumRepo.UpdateComment(comment); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return commentToResponse(comment), nil
}

func (s *ForumServiceImpl) DeleteComment(id, userID string, isModerator bool) error {
	comment, err := s.forumRepo.FindCommentByID(id)
	if err != nil {
		return apperrors.NewNotFoundError("forum", "Comment not found")
	}
	if comment.AuthorID != userID && !isModerator {
		return apperrors.ErrNotAuthor
	}
	if err := s.forumRepo.DeleteComment(id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// --- Likes ---

// LikePost - лайк поста, повторный лайк дает конфликт
func (s *ForumServiceImpl) LikePost(postID, userID string) error {
	post, err := s.forumRepo.FindPostByID(postID)
	if err != nil {
		return apperrors.NewNotFoundError("forum", "Post not found")
	}

	like := &models.Like{PostID: postID, UserID: userID}
	if err := s.forumRepo.CreateLike(like); err != nil {
		if apperrors.Is(err, repositories.ErrAlreadyLiked) {
			return apperrors.ErrAlreadyLiked
		}
		return apperrors.InternalError(err)
	}

	if post.AuthorID != userID {
		s.notifications.NotifyLike(post.AuthorID, post, userID)
	}
	return nil
}

func (s *ForumServiceImpl) UnlikePost(postID, userID string) error {
	if err := s.forumRepo.DeleteLike(postID, userID); err != nil {
		if apperrors.Is(err, repositories.ErrLikeNotFound) {
			return apperrors.ErrLikeNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// --- Categories ---

func (s *ForumServiceImpl) ListCategories() ([]dto.CategoryResponse, error) {
	categories, err := s.forumRepo.FindCategories()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, *categoryToResponse(&categories[i]))
	}
	return responses, nil
}

func (s *ForumServiceImpl) CreateCategory(req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if req.ParentID != nil {
		if _, err := s.forumRepo.FindCategoryByID(*req.ParentID); err != nil {
			return nil, apperrors.NewNotFoundError("forum", "Parent category not found")
		}
	}

	category := &models.Category{
		Name:        s.sanitizeText(req.Name),
		Slug:        strings.ToLower(req.Slug),
		Description: s.sanitizeText(req.Description),
		ParentID:    req.ParentID,
	}
	if err := s.forumRepo.CreateCategory(category); err != nil {
		return nil, apperrors.ErrConflict(err, "forum", "Category with this name or slug already exists")
	}
	return categoryToResponse(category), nil
}

func (s *ForumServiceImpl) DeleteCategory(id string) error {
	if _, err := s.forumRepo.FindCategoryByID(id); err != nil {
		return apperrors.NewNotFoundError("forum", "Category not found")
	}
	if err := s.forumRepo.DeleteCategory(id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// sanitizeText - строгая политика для полей без разметки
func (s *ForumServiceImpl) sanitizeText(text string) string {
	return strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(text))
}

// --- Мапперы ---

func postToResponse(post *models.Post) *dto.PostResponse {
	resp := &dto.PostResponse{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		AuthorID:  post.AuthorID,
		Status:    post.Status,
		ViewCount: post.ViewCount,
		LikeCount: post.LikeCount,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if post.CategoryID != nil {
		resp.CategoryID = *post.CategoryID
	}
	if post.Author != nil {
		resp.AuthorName = post.Author.Username
	}
	return resp
}

func commentToResponse(comment *models.Comment) *dto.CommentResponse {
	resp := &dto.CommentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		ParentID:  comment.ParentID,
		Content:   comment.Content,
		Status:    comment.Status,
		CreatedAt: comment.CreatedAt,
	}
	if comment.Author != nil {
		resp.AuthorName = comment.Author.Username
	}
	return resp
}

// buildCommentTree собирает плоский список в дерево по ParentID
func buildCommentTree(comments []models.Comment) []dto.CommentResponse {
	byID := make(map[string]*dto.CommentResponse, len(comments))
	order := make([]string, 0, len(comments))

	for i := range comments {
		resp := commentToResponse(&comments[i])
		byID[resp.ID] = resp
		order = append(order, resp.ID)
	}

	var roots []dto.CommentResponse
	for _, id := range order {
		node := byID[id]
		if node.ParentID != nil {
			if parent, ok := byID[*node.ParentID]; ok {
				parent.Replies = append(parent.Replies, *node)
				continue
			}
		}
		roots = append(roots, *node)
	}

	// Вложенные ответы копировались по значению, собираем заново сверху вниз
	return rebuildTree(roots, byID)
}

func rebuildTree(nodes []dto.CommentResponse, byID map[string]*dto.CommentResponse) []dto.CommentResponse {
	result := make([]dto.CommentResponse, 0, len(nodes))
	for _, n := range nodes {
		full := byID[n.ID]
		full.Replies = rebuildTree(full.Replies, byID)
		result = append(result, *full)
	}
	return result
}

func categoryToResponse(category *models.Category) *dto.CategoryResponse {
	resp := &dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		ParentID:    category.ParentID,
	}
	for i := range category.Children {
		resp.Children = append(resp.Children, *categoryToResponse(&category.Children[i]))
	}
	return resp
}
