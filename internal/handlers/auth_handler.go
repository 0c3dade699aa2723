package handlers

import (
	"net/http"

	"rianzel_backend/internal/config"
	"rianzel_backend/internal/logger"
	"rianzel_backend/internal/services"
	"rianzel_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	cfg         *config.Config
	authMW      gin.HandlerFunc
	limitMW     gin.HandlerFunc
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, cfg *config.Config, authMW, limitMW gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		cfg:         cfg,
		authMW:      authMW,
		limitMW:     limitMW,
	}
}

// RegisterRoutes регистрирует маршруты аутентификации и профиля
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.Use(h.limitMW)
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/verify-otp", h.VerifyOTP)
		auth.POST("/resend-verification", h.ResendVerification)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
		auth.POST("/refresh-token", h.RefreshToken)
	}
	// Маршруты под access-токеном: выход и профиль
	me := rg.Group("/auth")
	me.Use(h.authMW)
	{
		me.POST("/logout", h.Logout)
		me.GET("/me", h.GetMe)
		me.PUT("/me", h.UpdateMe)
		me.POST("/change-password", h.ChangePassword)
		me.POST("/enable-2fa", h.Enable2FA)
		me.POST("/disable-2fa", h.Disable2FA)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful. Please check your email for the verification code.",
		"user":    user,
	})
}

// Login - вход по username или email (form-encoded, как OAuth2 password flow).
// При включенном 2FA вместо токенов приходит otp_required.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	meta := services.LoginMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	response, err := h.authService.Login(c.Request.Context(), &req, meta)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if !response.OTPRequired {
		h.setRefreshCookie(c, response.RefreshToken)
	}
	c.JSON(http.StatusOK, response)
}

// VerifyOTP - подтверждение кода активации или второго фактора.
// Успешное подтверждение завершает вход и выдает токены.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.VerifyOTP(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, response.RefreshToken)
	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req dto.ResendVerificationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResendVerification(req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If the email exists, a new verification code has been sent",
	})
}

// ForgotPassword - ответ всегда одинаковый, существование email не раскрывается
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		logger.CtxWarn(c.Request.Context(), "Password reset request failed (hiding from user)",
			"error", err.Error(),
			"email", req.Email,
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If the email exists, a password reset link has been sent",
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.NewPassword); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password successfully reset",
	})
}

// RefreshToken - новый access-токен по refresh-токену.
// Токен берется из cookie, для не-браузерных клиентов допускается тело запроса.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie(h.cfg.JWT.RefreshCookie)
	if err != nil || refreshToken == "" {
		var req dto.RefreshTokenRequest
		if err := c.ShouldBind(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	response, err := h.authService.RefreshToken(refreshToken)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully logged out",
	})
}

func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetMe(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.authService.UpdateMe(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword - смена пароля обрывает текущую сессию
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "Password successfully changed. Please log in again.",
	})
}

func (h *AuthHandler) Enable2FA(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.authService.Enable2FA(userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Two-factor authentication enabled",
	})
}

func (h *AuthHandler) Disable2FA(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.authService.Disable2FA(userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Two-factor authentication disabled",
	})
}

// setRefreshCookie кладет refresh-токен в httpOnly cookie
func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	if token == "" {
		return
	}
	maxAge := h.cfg.JWT.RefreshTTLHours * 3600
	c.SetCookie(h.cfg.JWT.RefreshCookie, token, maxAge, "/", "", h.cfg.JWT.CookieSecure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(h.cfg.JWT.RefreshCookie, "", -1, "/", "", h.cfg.JWT.CookieSecure, true)
}
