package handlers

import (
	"net/http"

	"rianzel_backend/internal/middleware"
	"rianzel_backend/internal/services"
	"rianzel_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
	authMW       gin.HandlerFunc
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService, authMW gin.HandlerFunc) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
		authMW:       authMW,
	}
}

// RegisterRoutes регистрирует маршруты админ-панели.
// Доступ определяется разрешениями роли: модерация открыта
// модераторам, управление ролями и банами только админам.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(h.authMW)

	roles := admin.Group("/roles", middleware.RequirePermission("roles:manage"))
	{
		roles.POST("", h.CreateRole)
		roles.GET("", h.ListRoles)
		roles.PUT("/:id", h.UpdateRole)
		roles.DELETE("/:id", h.DeleteRole)
		roles.POST("/assign", h.AssignRole)
		roles.DELETE("/:id/users/:userID", h.RemoveRole)
	}

	moderation := admin.Group("/moderation", middleware.RequirePermission("content:moderate"))
	{
		moderation.POST("", h.ModerateContent)
		moderation.GET("/logs", h.ListModerationLogs)
	}

	users := admin.Group("/users", middleware.RequirePermission("users:ban"))
	{
		users.POST("/:id/ban", h.BanUser)
		users.POST("/:id/unban", h.UnbanUser)
	}

	admin.GET("/stats", middleware.RequirePermission("system:admin"), h.DashboardStats)
}

// --- Roles ---

func (h *AdminHandler) CreateRole(c *gin.Context) {
	var req dto.CreateRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	role, err := h.adminService.CreateRole(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, role)
}

func (h *AdminHandler) ListRoles(c *gin.Context) {
	roles, err := h.adminService.ListRoles()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roles": roles,
	})
}

func (h *AdminHandler) UpdateRole(c *gin.Context) {
	var req dto.UpdateRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	role, err := h.adminService.UpdateRole(c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

func (h *AdminHandler) DeleteRole(c *gin.Context) {
	if err := h.adminService.DeleteRole(c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role deleted",
	})
}

func (h *AdminHandler) AssignRole(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.adminService.AssignRole(actorID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Role assigned",
	})
}

func (h *AdminHandler) RemoveRole(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.adminService.RemoveRole(actorID, c.Param("id"), c.Param("userID")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role assignment removed",
	})
}

// --- Moderation ---

func (h *AdminHandler) ModerateContent(c *gin.Context) {
	moderatorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ModerateContentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.adminService.ModerateContent(moderatorID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Moderation action applied",
	})
}

func (h *AdminHandler) ListModerationLogs(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	logs, err := h.adminService.ListModerationLogs(pageSize, (page-1)*pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs": logs,
	})
}

// --- Bans ---

func (h *AdminHandler) BanUser(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.BanUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.adminService.BanUser(actorID, c.Param("id"), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User banned",
	})
}

func (h *AdminHandler) UnbanUser(c *gin.Context) {
	actorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.adminService.UnbanUser(actorID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User unbanned",
	})
}

// --- Stats ---

func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.adminService.DashboardStats()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
