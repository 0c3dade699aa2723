package repositories

import (
	"errors"

	"rianzel_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrLikeNotFound     = errors.New("like not found")
	ErrAlreadyLiked     = errors.New("post already liked")
)

// PostFilter - параметры выборки постов
type PostFilter struct {
	CategoryID string
	AuthorID   string
	Status     models.ContentStatus
	SortBy     string // created_at, view_count, like_count
	Page       int
	PageSize   int
}

type ForumRepository interface {
	// Posts
	CreatePost(post *models.Post) error
	FindPostByID(id string) (*models.Post, error)
	FindPosts(filter PostFilter) ([]models.Post, int64, error)
	UpdatePost(post *models.Post) error
	UpdatePostStatus(id string, status models.ContentStatus) error
	DeletePost(id string) error
	IncrementViews(postID string) error
	CountPosts() (int64, error)
	CountPostsByStatus(status models.ContentStatus) (int64, error)

	// Comments
	CreateComment(comment *models.Comment) error
	FindCommentByID(id string) (*models.Comment, error)
	FindCommentsByPost(postID string) ([]models.Comment, error)
	UpdateComment(comment *models.Comment) error
	UpdateCommentStatus(id string, status models.ContentStatus) error
	DeleteComment(id string) error
	CountComments() (int64, error)

	// Likes
	CreateLike(like *models.Like) error
	DeleteLike(postID, userID string) error
	HasLiked(postID, userID string) (bool, error)

	// Categories
	CreateCategory(category *models.Category) error
	FindCategoryByID(id string) (*models.Category, error)
	FindCategories() ([]models.Category, error)
	UpdateCategory(category *models.Category) error
	DeleteCategory(id string) error
}

type ForumRepositoryImpl struct {
	db *gorm.DB
}

func NewForumRepository(db *gorm.DB) ForumRepository {
	return &ForumRepositoryImpl{db: db}
}

// Posts

func (r *ForumRepositoryImpl) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *ForumRepositoryImpl) FindPostByID(id string) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Author").Preload("Category").First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *ForumRepositoryImpl) FindPosts(filter PostFilter) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{})

	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	switch filter.SortBy {
	case "view_count", "like_count", "created_at":
		sortBy = filter.SortBy
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var posts []models.Post
	err := query.Preload("Author").Preload("Category").
		Order(sortBy + " DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&posts).Error
	return posts, total, err
}

func (r *ForumRepositoryImpl) UpdatePost(post *models.Post) error {
	return r.db.Save(post).Error
}

func (r *ForumRepositoryImpl) UpdatePostStatus(id string, status models.ContentStatus) error {
	res := r.db.Model(&models.Post{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *ForumRepositoryImpl) DeletePost(id string) error {
	return r.db.Delete(&models.Post{}, "id = ?", id).Error
}

func (r *ForumRepositoryImpl) IncrementViews(postID string) error {
	return r.db.Model(&models.Post{}).Where("id = ?", postID).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *ForumRepositoryImpl) CountPosts() (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Count(&count).Error
	return count, err
}

func (r *ForumRepositoryImpl) CountPostsByStatus(status models.ContentStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// Comments

func (r *ForumRepositoryImpl) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *ForumRepositoryImpl) FindCommentByID(id string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *ForumRepositoryImpl) FindCommentsByPost(postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at").
		Find(&comments).Error
	return comments, err
}

func (r *ForumRepositoryImpl) UpdateComment(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

func (r *ForumRepositoryImpl) UpdateCommentStatus(id string, status models.ContentStatus) error {
	res := r.db.Model(&models.Comment{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *ForumRepositoryImpl) DeleteComment(id string) error {
	return r.db.Delete(&models.Comment{}, "id = ?", id).Error
}

func (r *ForumRepositoryImpl) CountComments() (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Count(&count).Error
	return count, err
}

// Likes

func (r *ForumRepositoryImpl) CreateLike(like *models.Like) error {
	var existing models.Like
	if err := r.db.Where("post_id = ? AND user_id = ?", like.PostID, like.UserID).
		First(&existing).Error; err == nil {
		return ErrAlreadyLiked
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", like.PostID).
			Update("like_count", gorm.Expr("like_count + 1")).Error
	})
}

func (r *ForumRepositoryImpl) DeleteLike(postID, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Like{}, "post_id = ? AND user_id = ?", postID, userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrLikeNotFound
		}
		return tx.Model(&models.Post{}).Where("id = ? AND like_count > 0", postID).
			Update("like_count", gorm.Expr("like_count - 1")).Error
	})
}

func (r *ForumRepositoryImpl) HasLiked(postID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

// Categories

func (r *ForumRepositoryImpl) CreateCategory(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *ForumRepositoryImpl) FindCategoryByID(id string) (*models.Category, error) {
	var category models.Category
	err := r.db.Preload("Children").First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *ForumRepositoryImpl) FindCategories() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Preload("Children").Where("parent_id IS NULL").Order("name").Find(&categories).Error
	return categories, err
}

func (r *ForumRepositoryImpl) UpdateCategory(category *models.Category) error {
	return r.db.Save(category).Error
}

func (r *ForumRepositoryImpl) DeleteCategory(id string) error {
	return r.db.Delete(&models.Category{}, "id = ?", id).Error
}
