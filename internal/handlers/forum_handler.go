package handlers

import (
	"net/http"

	"rianzel_backend/internal/middleware"
	"rianzel_backend/internal/models"
	"rianzel_backend/internal/services"
	"rianzel_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ForumHandler struct {
	*BaseHandler
	forumService services.ForumService
	authMW       gin.HandlerFunc
}

func NewForumHandler(base *BaseHandler, forumService services.ForumService, authMW gin.HandlerFunc) *ForumHandler {
	return &ForumHandler{
		BaseHandler:  base,
		forumService: forumService,
		authMW:       authMW,
	}
}

// RegisterRoutes регистрирует маршруты форума.
// Чтение открыто всем, запись только авторизованным.
func (h *ForumHandler) RegisterRoutes(rg *gin.RouterGroup) {
	posts := rg.Group("/posts")
	{
		posts.GET("", h.ListPosts)
		posts.GET("/:id", h.GetPost)
		posts.GET("/:id/comments", h.ListComments)
	}
	authed := rg.Group("/posts")
	authed.Use(h.authMW)
	{
		authed.POST("", h.CreatePost)
		authed.PUT("/:id", h.UpdatePost)
		authed.DELETE("/:id", h.DeletePost)
		authed.POST("/:id/comments", h.CreateComment)
		authed.POST("/:id/like", h.LikePost)
		authed.DELETE("/:id/like", h.UnlikePost)
	}

	comments := rg.Group("/comments")
	comments.Use(h.authMW)
	{
		comments.PUT("/:id", h.UpdateComment)
		comments.DELETE("/:id", h.DeleteComment)
	}

	rg.GET("/categories", h.ListCategories)
	categories := rg.Group("/categories")
	categories.Use(h.authMW, middleware.RequireRoles(models.UserRoleAdmin))
	{
		categories.POST("", h.CreateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
	}
}

// --- Posts ---

func (h *ForumHandler) ListPosts(c *gin.Context) {
	var req dto.ListPostsRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	list, err := h.forumService.ListPosts(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *ForumHandler) GetPost(c *gin.Context) {
	post, err := h.forumService.GetPost(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *ForumHandler) CreatePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	post, err := h.forumService.CreatePost(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *ForumHandler) UpdatePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePostRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	post, err := h.forumService.UpdatePost(c.Param("id"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost - автор удаляет свой пост, модератор любой
func (h *ForumHandler) DeletePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	err := h.forumService.DeletePost(c.Param("id"), userID, middleware.IsModeratorOrHigher(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post deleted",
	})
}

// --- Comments ---

func (h *ForumHandler) ListComments(c *gin.Context) {
	comments, err := h.forumService.ListComments(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
	})
}

func (h *ForumHandler) CreateComment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	comment, err := h.forumService.CreateComment(c.Param("id"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *ForumHandler) UpdateComment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	comment, err := h.forumService.UpdateComment(c.Param("id"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (h *ForumHandler) DeleteComment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	err := h.forumService.DeleteComment(c.Param("id"), userID, middleware.IsModeratorOrHigher(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted",
	})
}

// --- Likes ---

func (h *ForumHandler) LikePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.forumService.LikePost(c.Param("id"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post liked",
	})
}

func (h *ForumHandler) UnlikePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.forumService.UnlikePost(c.Param("id"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Like removed",
	})
}

// --- Categories ---

func (h *ForumHandler) ListCategories(c *gin.Context) {
	categories, err := h.forumService.ListCategories()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

func (h *ForumHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	category, err := h.forumService.CreateCategory(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *ForumHandler) DeleteCategory(c *gin.Context) {
	if err := h.forumService.DeleteCategory(c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted",
	})
}
