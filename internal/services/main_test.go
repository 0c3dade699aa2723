package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"rianzel_backend/internal/auth"
	"rianzel_backend/internal/config"
	"rianzel_backend/internal/email"
	"rianzel_backend/internal/models"
	"rianzel_backend/internal/recaptcha"
	"rianzel_backend/internal/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB поднимает чистую in-memory базу на каждый тест
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Каждому тесту свое соединение со своей базой
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.OTP{},
		&models.LoginAttempt{},
		&models.Role{},
		&models.RoleAssignment{},
		&models.ActivityLog{},
		&models.ModerationLog{},
		&models.Ban{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
	))
	return db
}

// fakeEmailProvider пишет отправленные коды в память
type fakeEmailProvider struct {
	mu        sync.Mutex
	lastCode  string
	lastToken string
	sent      []string
}

func (f *fakeEmailProvider) SendVerification(to, username, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCode = code
	f.sent = append(f.sent, "verification:"+to)
	return nil
}

func (f *fakeEmailProvider) SendLoginOTP(to, username, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCode = code
	f.sent = append(f.sent, "login_otp:"+to)
	return nil
}

func (f *fakeEmailProvider) SendPasswordReset(to, username, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToken = token
	f.sent = append(f.sent, "password_reset:"+to)
	return nil
}

func (f *fakeEmailProvider) SendTemplate(to, subject, templateName string, data email.TemplateData) error {
	return nil
}

func (f *fakeEmailProvider) LastCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastCode
}

func (f *fakeEmailProvider) LastToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastToken
}

// fakeCaptcha всегда отвечает заранее заданным результатом
type fakeCaptcha struct {
	result bool
}

func (f *fakeCaptcha) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	return f.result, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Algorithm = "HS256"
	cfg.JWT.AccessTTL = 30
	cfg.JWT.RefreshTTLHours = 24
	cfg.Auth.MaxLoginAttempts = 3
	cfg.Auth.LockoutMinutes = 15
	cfg.Auth.CaptchaAfter = 3
	cfg.Auth.OTPLength = 6
	cfg.Auth.MinAge = 15
	return cfg
}

// testEnv - собранный стек сервисов поверх тестовой базы
type testEnv struct {
	db       *gorm.DB
	cfg      *config.Config
	email    *fakeEmailProvider
	tokens   *auth.TokenManager
	userRepo repositories.UserRepository
	otpRepo  repositories.OTPRepository

	authSvc   AuthService
	forumSvc  ForumService
	notifySvc NotificationService
	adminSvc  AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, testConfig(), &fakeCaptcha{result: true})
}

// newTestEnvWith позволяет тестам подменить конфиг и проверку капчи
func newTestEnvWith(t *testing.T, cfg *config.Config, captcha recaptcha.Verifier) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	emailProvider := &fakeEmailProvider{}
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Algorithm,
		time.Duration(cfg.JWT.AccessTTL)*time.Minute,
		time.Duration(cfg.JWT.RefreshTTLHours)*time.Hour)

	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	attemptRepo := repositories.NewLoginAttemptRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	forumRepo := repositories.NewForumRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	notifySvc := NewNotificationService(notificationRepo)

	return &testEnv{
		db:       db,
		cfg:      cfg,
		email:    emailProvider,
		tokens:   tokens,
		userRepo: userRepo,
		otpRepo:  otpRepo,

		authSvc:   NewAuthService(userRepo, otpRepo, attemptRepo, emailProvider, tokens, captcha, cfg),
		forumSvc:  NewForumService(forumRepo, userRepo, notifySvc),
		notifySvc: notifySvc,
		adminSvc:  NewAdminService(roleRepo, userRepo, forumRepo),
	}
}
