package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"rianzel_backend/database"
	"rianzel_backend/internal/config"
	"rianzel_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testServerConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Algorithm = "HS256"
	cfg.JWT.AccessTTL = 30
	cfg.JWT.RefreshTTLHours = 24
	cfg.JWT.RefreshCookie = "refresh_token"
	cfg.Auth.MaxLoginAttempts = 5
	cfg.Auth.LockoutMinutes = 15
	cfg.Auth.CaptchaAfter = 3
	cfg.Auth.OTPLength = 6
	cfg.Auth.MinAge = 15
	// Высокий лимит, чтобы лимитер не мешал обычным тестам
	cfg.RateLimit.RPS = 1000
	cfg.RateLimit.Burst = 1000
	return cfg
}

// setupTestServer собирает полный HTTP-стек поверх in-memory базы
func setupTestServer(t *testing.T, cfg *config.Config) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	return SetupRouter(cfg, db), db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doForm(t *testing.T, router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// verificationCode достает последний код активации из базы
func verificationCode(t *testing.T, db *gorm.DB, email string) string {
	t.Helper()

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", email).Error)

	var otp models.OTP
	require.NoError(t, db.
		Where("user_id = ? AND purpose = ? AND used = ?", user.ID, models.OTPPurposeVerification, false).
		Order("created_at desc").
		First(&otp).Error)
	return otp.Code
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestServer(t, testServerConfig())

	w := doJSON(t, router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	router, db := setupTestServer(t, testServerConfig())

	// Регистрация
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "Password1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Вход до подтверждения email закрыт
	w = doForm(t, router, "/api/v1/auth/login", url.Values{
		"username": {"alice"},
		"password": {"Password1"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Подтверждение кода активирует аккаунт и выдает токены
	code := verificationCode(t, db, "alice@example.com")
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/verify-otp", gin.H{
		"email": "alice@example.com",
		"code":  code,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)

	// Refresh-токен уходит в httpOnly cookie
	cookies := w.Result().Cookies()
	var hasRefresh bool
	for _, c := range cookies {
		if c.Name == "refresh_token" && c.Value != "" {
			hasRefresh = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, hasRefresh)

	// Профиль по access-токену
	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", nil, resp.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")

	// Без токена - 401
	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Неверный код отклоняется
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/verify-otp", gin.H{
		"email": "alice@example.com",
		"code":  "000000",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutesRequireRole(t *testing.T) {
	router, db := setupTestServer(t, testServerConfig())

	// Обычный пользователь
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "Password1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	code := verificationCode(t, db, "bob@example.com")
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/verify-otp", gin.H{
		"email": "bob@example.com",
		"code":  code,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Участнику админка закрыта
	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/stats", nil, resp.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Повышаем до админа - доступ открывается
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "bob@example.com").
		Update("role", models.UserRoleAdmin).Error)

	w = doForm(t, router, "/api/v1/auth/login", url.Values{
		"username": {"bob"},
		"password": {"Password1"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/stats", nil, resp.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "total_users")

	// Модератору открыта модерация, но не управление ролями и статистика
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "bob@example.com").
		Update("role", models.UserRoleModerator).Error)

	w = doForm(t, router, "/api/v1/auth/login", url.Values{
		"username": {"bob"},
		"password": {"Password1"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/moderation/logs", nil, resp.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/roles", nil, resp.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/stats", nil, resp.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthRateLimit(t *testing.T) {
	cfg := testServerConfig()
	cfg.RateLimit.RPS = 1
	cfg.RateLimit.Burst = 2
	router, _ := setupTestServer(t, cfg)

	form := url.Values{
		"username": {"ghost"},
		"password": {"whatever"},
	}

	// Burst пропускает первые запросы, дальше 429
	first := doForm(t, router, "/api/v1/auth/login", form)
	assert.NotEqual(t, http.StatusTooManyRequests, first.Code)

	second := doForm(t, router, "/api/v1/auth/login", form)
	assert.NotEqual(t, http.StatusTooManyRequests, second.Code)

	third := doForm(t, router, "/api/v1/auth/login", form)
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
}

func TestForumFlowOverHTTP(t *testing.T) {
	router, db := setupTestServer(t, testServerConfig())

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "carol",
		"email":    "carol@example.com",
		"password": "Password1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	code := verificationCode(t, db, "carol@example.com")
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/verify-otp", gin.H{
		"email": "carol@example.com",
		"code":  code,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var auth struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))

	// Создание поста требует авторизации
	w = doJSON(t, router, http.MethodPost, "/api/v1/posts", gin.H{
		"title":   "First post",
		"content": "Some long enough post content",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/posts", gin.H{
		"title":   "First post",
		"content": "Some long enough post content",
	}, auth.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var post struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))

	// Пост виден без авторизации
	w = doJSON(t, router, http.MethodGet, "/api/v1/posts/"+post.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Комментарий и лайк
	w = doJSON(t, router, http.MethodPost, "/api/v1/posts/"+post.ID+"/comments", gin.H{
		"content": "Nice post",
	}, auth.AccessToken)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/posts/"+post.ID+"/like", nil, auth.AccessToken)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Повторный лайк - конфликт
	w = doJSON(t, router, http.MethodPost, "/api/v1/posts/"+post.ID+"/like", nil, auth.AccessToken)
	assert.Equal(t, http.StatusConflict, w.Code)
}
