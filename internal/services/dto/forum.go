package dto

import (
	"time"

	"rianzel_backend/internal/models"
)

// CreatePostRequest - создание поста
type CreatePostRequest struct {
	Title      string `json:"title" binding:"required,min=3,max=200"`
	Content    string `json:"content" binding:"required,min=10"`
	CategoryID string `json:"category_id,omitempty"`
}

// UpdatePostRequest - обновление поста автором
type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty" binding:"omitempty,min=3,max=200"`
	Content *string `json:"content,omitempty" binding:"omitempty,min=10"`
}

// ListPostsRequest - параметры списка постов
type ListPostsRequest struct {
	CategoryID string `form:"category_id"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=created_at view_count like_count"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// PostResponse - пост в ответе API
type PostResponse struct {
	ID         string               `json:"id"`
	Title      string               `json:"title"`
	Content    string               `json:"content"`
	AuthorID   string               `json:"author_id"`
	AuthorName string               `json:"author_name,omitempty"`
	CategoryID string               `json:"category_id,omitempty"`
	Status     models.ContentStatus `json:"status"`
	ViewCount  int64                `json:"view_count"`
	LikeCount  int64                `json:"like_count"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// PostListResponse - страница постов
type PostListResponse struct {
	Posts    []PostResponse `json:"posts"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// CreateCommentRequest - создание комментария
type CreateCommentRequest struct {
	Content  string  `json:"content" binding:"required,min=1"`
	ParentID *string `json:"parent_id,omitempty"`
}

// UpdateCommentRequest - правка комментария автором
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

// CommentResponse - комментарий в ответе API, с вложенными ответами
type CommentResponse struct {
	ID         string               `json:"id"`
	PostID     string               `json:"post_id"`
	AuthorID   string               `json:"author_id"`
	AuthorName string               `json:"author_name,omitempty"`
	ParentID   *string              `json:"parent_id,omitempty"`
	Content    string               `json:"content"`
	Status     models.ContentStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
	Replies    []CommentResponse    `json:"replies,omitempty"`
}

// CreateCategoryRequest - создание раздела (только админ)
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=50"`
	Slug        string  `json:"slug" binding:"required,min=2,max=50"`
	Description string  `json:"description,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
}

// CategoryResponse - раздел в ответе API
type CategoryResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Description string             `json:"description,omitempty"`
	ParentID    *string            `json:"parent_id,omitempty"`
	Children    []CategoryResponse `json:"children,omitempty"`
}
