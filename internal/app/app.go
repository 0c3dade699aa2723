package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rianzel_backend/database"
	"rianzel_backend/internal/auth"
	"rianzel_backend/internal/config"
	"rianzel_backend/internal/email"
	"rianzel_backend/internal/handlers"
	"rianzel_backend/internal/logger"
	"rianzel_backend/internal/middleware"
	"rianzel_backend/internal/models"
	"rianzel_backend/internal/ratelimit"
	"rianzel_backend/internal/recaptcha"
	"rianzel_backend/internal/repositories"
	"rianzel_backend/internal/routes"
	"rianzel_backend/internal/services"
	"rianzel_backend/internal/validator"
	"rianzel_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		// Без первого админа админ-панель недоступна, сервер не запускаем
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	cleanupWorker := workers.NewCleanupWorker(gormDB)
	cleanupWorker.Start(context.Background())

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	tokens := newTokenManager(cfg)

	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, gormDB, tokens)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer, tokens)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter()

	// 4. Делегируем регистрацию маршрутов пакету routes
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, tokens *auth.TokenManager) *services.ServiceContainer {
	emailService := initializeEmailProvider(cfg)
	captcha := recaptcha.NewGoogleVerifier(cfg.Recaptcha.SecretKey, cfg.Recaptcha.VerifyURL)

	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository(gormDB)
	otpRepo := repositories.NewOTPRepository(gormDB)
	attemptRepo := repositories.NewLoginAttemptRepository(gormDB)
	roleRepo := repositories.NewRoleRepository(gormDB)
	forumRepo := repositories.NewForumRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	// --- Инициализация сервисов ---
	notificationService := services.NewNotificationService(notificationRepo)
	authService := services.NewAuthService(userRepo, otpRepo, attemptRepo, emailService, tokens, captcha, cfg)
	forumService := services.NewForumService(forumRepo, userRepo, notificationService)
	adminService := services.NewAdminService(roleRepo, userRepo, forumRepo)

	return &services.ServiceContainer{
		AuthService:         authService,
		ForumService:        forumService,
		NotificationService: notificationService,
		AdminService:        adminService,
		EmailService:        emailService,
	}
}

func initializeHandlers(cfg *config.Config, serviceContainer *services.ServiceContainer, tokens *auth.TokenManager) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	authMW := middleware.AuthMiddleware(tokens)
	limiter := ratelimit.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	limitMW := middleware.RateLimitMiddleware(limiter)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, serviceContainer.AuthService, cfg, authMW, limitMW),
		ForumHandler:        handlers.NewForumHandler(baseHandler, serviceContainer.ForumService, authMW),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, serviceContainer.NotificationService, authMW),
		AdminHandler:        handlers.NewAdminHandler(baseHandler, serviceContainer.AdminService, authMW),
	}
}

// initializeEmailProvider собирает SMTP-провайдер.
// Без настроенного SMTP письма уходят в лог через mock.
func initializeEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP is not configured, using mock email provider")
		return &MockEmailProvider{}
	}

	renderer, err := email.NewTemplateManager()
	if err != nil {
		logger.Fatal("Failed to load email templates", "error", err)
	}

	return email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, renderer)
}

func newTokenManager(cfg *config.Config) *auth.TokenManager {
	return auth.NewTokenManager(
		cfg.JWT.Secret,
		cfg.JWT.Algorithm,
		time.Duration(cfg.JWT.AccessTTL)*time.Minute,
		time.Duration(cfg.JWT.RefreshTTLHours)*time.Hour,
	)
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

// seedFirstAdmin создает первого администратора, если его еще нет
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminUsername := cfg.FirstAdmin.Username
	adminEmail := cfg.FirstAdmin.Email
	adminPassword := cfg.FirstAdmin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("First admin credentials are not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if adminUsername == "" {
		adminUsername = "admin"
	}

	now := time.Now()
	newAdmin := &models.User{
		Username:        adminUsername,
		Email:           adminEmail,
		PasswordHash:    hash,
		Role:            models.UserRoleAdmin,
		IsActive:        true,
		EmailVerifiedAt: &now,
	}

	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)
	return nil
}
