package services

import (
	"context"
	"time"

	"rianzel_backend/internal/auth"
	"rianzel_backend/internal/config"
	"rianzel_backend/internal/email"
	"rianzel_backend/internal/logger"
	"rianzel_backend/internal/models"
	"rianzel_backend/internal/recaptcha"
	"rianzel_backend/internal/repositories"
	"rianzel_backend/internal/services/dto"
	"rianzel_backend/pkg/apperrors"
)

const (
	verificationOTPTTL = 15 * time.Minute
	loginOTPTTL        = 5 * time.Minute
	resetTokenTTL      = 1 * time.Hour
	// Окно подсчета недавних неудач для требования капчи
	captchaWindow = 1 * time.Hour
)

// LoginMeta - данные запроса, нужные для защиты от перебора
type LoginMeta struct {
	IPAddress string
	UserAgent string
}

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserDTO, error)
	Login(ctx context.Context, req *dto.LoginRequest, meta LoginMeta) (*dto.LoginResponse, error)
	VerifyOTP(req *dto.VerifyOTPRequest) (*dto.LoginResponse, error)
	ResendVerification(email string) error
	ForgotPassword(email string) error
	ResetPassword(token, newPassword string) error
	RefreshToken(refreshToken string) (*dto.LoginResponse, error)
	Logout(userID string) error
	ChangePassword(userID, currentPassword, newPassword string) error
	GetMe(userID string) (*dto.UserDTO, error)
	UpdateMe(userID string, req *dto.UpdateProfileRequest) (*dto.UserDTO, error)
	Enable2FA(userID string) error
	Disable2FA(userID string) error
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	otpRepo       repositories.OTPRepository
	attemptRepo   repositories.LoginAttemptRepository
	emailProvider email.Provider
	tokens        *auth.TokenManager
	captcha       recaptcha.Verifier
	cfg           *config.Config
}

func NewAuthService(
	userRepo repositories.UserRepository,
	otpRepo repositories.OTPRepository,
	attemptRepo repositories.LoginAttemptRepository,
	emailProvider email.Provider,
	tokens *auth.TokenManager,
	captcha recaptcha.Verifier,
	cfg *config.Config,
) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		otpRepo:       otpRepo,
		attemptRepo:   attemptRepo,
		emailProvider: emailProvider,
		tokens:        tokens,
		captcha:       captcha,
		cfg:           cfg,
	}
}

// Register - регистрация нового пользователя.
// При включенной recaptcha сначала проверяется токен капчи.
// Аккаунт создается неактивным, активация после подтверждения email.
func (s *AuthServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserDTO, error) {
	if s.cfg.Recaptcha.Enabled {
		if req.CaptchaToken == "" {
			return nil, apperrors.ErrCaptchaRequired
		}
		ok, err := s.captcha.Verify(ctx, req.CaptchaToken, "")
		if err != nil || !ok {
			return nil, apperrors.ErrCaptchaFailed
		}
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	if req.DateOfBirth != nil {
		if age(*req.DateOfBirth) < s.cfg.Auth.MinAge {
			return nil, apperrors.ErrUnderage
		}
	}

	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, apperrors.ErrUsernameAlreadyExists
	}
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.UserRoleMember,
		FullName:     req.FullName,
		DateOfBirth:  req.DateOfBirth,
		Country:      req.Country,
		IsActive:     false,
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.issueOTP(user, models.OTPPurposeVerification, verificationOTPTTL); err != nil {
		return nil, err
	}

	return dto.NewUserDTO(user), nil
}

// Login - вход по username или email.
// Порядок проверок: активность, блокировка, капча, пароль, бан, 2FA.
// Неактивный аккаунт отсекается до подсчета неудачных попыток.
func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest, meta LoginMeta) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByLogin(req.Username)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			s.recordAttempt(req.Username, meta, false, "unknown_user")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !user.IsActive {
		return nil, apperrors.ErrUserNotVerified
	}

	// Временная блокировка после серии неудач
	if locked, remaining := s.isLocked(user); locked {
		s.recordAttempt(user.Username, meta, false, "account_locked")
		return nil, apperrors.ErrAccountLocked(remaining)
	}

	// Капча после нескольких недавних неудач с этого username или IP
	if s.cfg.Recaptcha.Enabled {
		failures, err := s.attemptRepo.CountRecentFailures(user.Username, meta.IPAddress, captchaWindow)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if failures >= int64(s.cfg.Auth.CaptchaAfter) {
			if req.CaptchaToken == "" {
				return nil, apperrors.ErrCaptchaRequired
			}
			ok, err := s.captcha.Verify(ctx, req.CaptchaToken, meta.IPAddress)
			if err != nil || !ok {
				s.recordAttempt(user.Username, meta, false, "captcha_failed")
				return nil, apperrors.ErrCaptchaFailed
			}
		}
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, s.handleFailedPassword(user, meta)
	}

	if err := s.checkBan(user); err != nil {
		return nil, err
	}

	// Второй фактор: вместо токенов уходит код на почту
	if user.TwoFactorEnabled {
		if err := s.issueLoginOTP(user); err != nil {
			return nil, err
		}
		return &dto.LoginResponse{
			OTPRequired: true,
			Message:     "OTP sent to your email",
		}, nil
	}

	return s.completeLogin(user)
}

// VerifyOTP - подтверждение одноразового кода.
// Используется и для активации аккаунта, и для второго фактора.
func (s *AuthServiceImpl) VerifyOTP(req *dto.VerifyOTPRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidOTP
	}

	purpose := models.OTPPurposeVerification
	if user.IsActive {
		purpose = models.OTPPurposeLogin
	}

	if _, err := s.otpRepo.Consume(user.ID, req.Code, purpose); err != nil {
		if apperrors.Is(err, repositories.ErrOTPNotFound) {
			return nil, apperrors.ErrInvalidOTP
		}
		return nil, apperrors.InternalError(err)
	}

	// Первое подтверждение активирует аккаунт
	if !user.IsActive {
		now := time.Now()
		user.IsActive = true
		user.EmailVerifiedAt = &now
		if err := s.userRepo.Update(user); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	return s.completeLogin(user)
}

// ResendVerification - повторная отправка кода активации
func (s *AuthServiceImpl) ResendVerification(emailAddr string) error {
	user, err := s.userRepo.FindByEmail(emailAddr)
	if err != nil {
		// Существование email не раскрываем
		return nil
	}
	if user.IsActive {
		return apperrors.ErrInvalidOperation("auth", "Account is already verified")
	}

	// Старые коды гасим, выдаем новый
	if err := s.otpRepo.InvalidateForUser(user.ID, models.OTPPurposeVerification); err != nil {
		return apperrors.InternalError(err)
	}
	return s.issueOTP(user, models.OTPPurposeVerification, verificationOTPTTL)
}

// ForgotPassword - запрос сброса пароля.
// Ответ всегда одинаковый, существование email не раскрывается.
func (s *AuthServiceImpl) ForgotPassword(emailAddr string) error {
	user, err := s.userRepo.FindByEmail(emailAddr)
	if err != nil {
		return nil
	}

	token, hash, err := auth.GenerateResetToken()
	if err != nil {
		return apperrors.InternalError(err)
	}

	exp := time.Now().Add(resetTokenTTL)
	user.ResetTokenHash = hash
	user.ResetTokenExp = &exp
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	s.sendAsync("password_reset", user.Email, func() error {
		return s.emailProvider.SendPasswordReset(user.Email, user.Username, token)
	})
	return nil
}

// ResetPassword - установка нового пароля по токену из письма
func (s *AuthServiceImpl) ResetPassword(token, newPassword string) error {
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	user, err := s.userRepo.FindByResetTokenHash(auth.HashResetToken(token))
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	if user.ResetTokenExp == nil || time.Now().After(*user.ResetTokenExp) {
		return apperrors.ErrInvalidToken
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hash
	user.ResetTokenHash = ""
	user.ResetTokenExp = nil
	// Смена пароля обрывает текущую сессию
	user.RefreshToken = ""
	user.FailedLoginAttempts = 0
	user.LastFailedLogin = nil

	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// RefreshToken - новый access-токен по refresh-токену из cookie.
// Ротации нет, refresh остается прежним до logout или истечения.
func (s *AuthServiceImpl) RefreshToken(refreshToken string) (*dto.LoginResponse, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrInvalidToken
	}

	username, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	// Токен должен совпадать с сохраненным на сервере
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, apperrors.ErrInvalidToken
	}
	if err := s.checkBan(user); err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User:        dto.NewUserDTO(user),
	}, nil
}

// Logout - сброс refresh-токена на сервере
func (s *AuthServiceImpl) Logout(userID string) error {
	if err := s.userRepo.ClearRefreshToken(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// ChangePassword - смена пароля авторизованным пользователем
func (s *AuthServiceImpl) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperrors.NewNotFoundError("auth", "User not found")
	}

	if !auth.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hash
	user.RefreshToken = ""
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// GetMe - профиль текущего пользователя
func (s *AuthServiceImpl) GetMe(userID string) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("auth", "User not found")
	}
	return dto.NewUserDTO(user), nil
}

// UpdateMe - обновление профиля, только перечисленные поля
func (s *AuthServiceImpl) UpdateMe(userID string, req *dto.UpdateProfileRequest) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("auth", "User not found")
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.DateOfBirth != nil {
		if age(*req.DateOfBirth) < s.cfg.Auth.MinAge {
			return nil, apperrors.ErrUnderage
		}
		user.DateOfBirth = req.DateOfBirth
	}
	if req.Country != nil {
		user.Country = *req.Country
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewUserDTO(user), nil
}

// Enable2FA - включение второго фактора.
// Вместе с флагом уходит проверочный код, чтобы пользователь
// сразу убедился, что почта для второго фактора доступна.
func (s *AuthServiceImpl) Enable2FA(userID string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperrors.NewNotFoundError("auth", "User not found")
	}
	user.TwoFactorEnabled = true
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}
	return s.issueOTP(user, models.OTPPurposeLogin, verificationOTPTTL)
}

// Disable2FA - отключение второго фактора
func (s *AuthServiceImpl) Disable2FA(userID string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return apperrors.NewNotFoundError("auth", "User not found")
	}
	user.TwoFactorEnabled = false
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// --- Внутренние помощники ---

// completeLogin выдает пару токенов и фиксирует успешный вход
func (s *AuthServiceImpl) completeLogin(user *models.User) (*dto.LoginResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.Username)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.userRepo.SetRefreshToken(user.ID, refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.userRepo.ResetFailedLogins(user.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User:         dto.NewUserDTO(user),
	}, nil
}

// handleFailedPassword фиксирует неудачу и возвращает ошибку
// с количеством оставшихся попыток или блокировкой.
func (s *AuthServiceImpl) handleFailedPassword(user *models.User, meta LoginMeta) error {
	s.recordAttempt(user.Username, meta, false, "invalid_password")

	if err := s.userRepo.IncrementFailedLogins(user.ID); err != nil {
		return apperrors.InternalError(err)
	}

	attempts := user.FailedLoginAttempts + 1
	if attempts >= s.cfg.Auth.MaxLoginAttempts {
		return apperrors.ErrAccountLocked(s.cfg.Auth.LockoutMinutes)
	}

	remaining := s.cfg.Auth.MaxLoginAttempts - attempts
	return apperrors.ErrInvalidCredentials.
		WithDetails(map[string]int{"remaining_attempts": remaining})
}

// isLocked проверяет, действует ли блокировка после серии неудач
func (s *AuthServiceImpl) isLocked(user *models.User) (bool, int) {
	if user.FailedLoginAttempts < s.cfg.Auth.MaxLoginAttempts || user.LastFailedLogin == nil {
		return false, 0
	}

	lockedUntil := user.LastFailedLogin.Add(time.Duration(s.cfg.Auth.LockoutMinutes) * time.Minute)
	now := time.Now()
	if now.After(lockedUntil) {
		return false, 0
	}

	remaining := int(lockedUntil.Sub(now).Minutes()) + 1
	return true, remaining
}

// checkBan проверяет бан, временный бан истекает сам
func (s *AuthServiceImpl) checkBan(user *models.User) error {
	if !user.IsBanned {
		return nil
	}
	if user.BannedUntil != nil && time.Now().After(*user.BannedUntil) {
		// Срок вышел, снимаем бан
		if err := s.userRepo.SetBanned(user.ID, false, nil); err != nil {
			return apperrors.InternalError(err)
		}
		user.IsBanned = false
		user.BannedUntil = nil
		return nil
	}
	return apperrors.ErrUserBanned
}

// issueOTP создает код и отправляет письмо подтверждения
func (s *AuthServiceImpl) issueOTP(user *models.User, purpose models.OTPPurpose, ttl time.Duration) error {
	code, err := auth.GenerateOTP(s.cfg.Auth.OTPLength)
	if err != nil {
		return apperrors.InternalError(err)
	}

	otp := &models.OTP{
		UserID:    user.ID,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.otpRepo.Create(otp); err != nil {
		return apperrors.InternalError(err)
	}

	s.sendAsync(string(purpose), user.Email, func() error {
		if purpose == models.OTPPurposeLogin {
			return s.emailProvider.SendLoginOTP(user.Email, user.Username, code)
		}
		return s.emailProvider.SendVerification(user.Email, user.Username, code)
	})
	return nil
}

func (s *AuthServiceImpl) issueLoginOTP(user *models.User) error {
	if err := s.otpRepo.InvalidateForUser(user.ID, models.OTPPurposeLogin); err != nil {
		return apperrors.InternalError(err)
	}
	return s.issueOTP(user, models.OTPPurposeLogin, loginOTPTTL)
}

// recordAttempt пишет попытку входа, ошибки только логируются
func (s *AuthServiceImpl) recordAttempt(username string, meta LoginMeta, success bool, reason string) {
	attempt := &models.LoginAttempt{
		Username:  username,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Success:   success,
		Reason:    reason,
	}
	if err := s.attemptRepo.Record(attempt); err != nil {
		logger.Error("failed to record login attempt", "error", err, "username", username)
	}
}

// sendAsync отправляет письмо в фоне, ошибка не влияет на ответ
func (s *AuthServiceImpl) sendAsync(kind, recipient string, send func() error) {
	go func() {
		logger.EmailLog(kind, recipient, send())
	}()
}

// age считает полные годы на текущую дату
func age(birthDate time.Time) int {
	now := time.Now()
	years := now.Year() - birthDate.Year()
	if now.YearDay() < birthDate.YearDay() {
		years--
	}
	return years
}
