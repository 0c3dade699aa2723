package apperrors

import (
	"fmt"
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для общих ошибок бизнес-логики и домена.
*/

// =========================================================================
// Фабричные ФУНКЦИИ (Используются для оборачивания ошибок, напр. из репозитория)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
// Используется, когда ошибка репозитория (типа gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrAccountLocked - фабрика для временной блокировки аккаунта (429).
// remainingMinutes - сколько минут осталось до снятия блокировки.
func ErrAccountLocked(remainingMinutes int) *AppError {
	return New(
		CodeAccountLocked,
		"auth",
		fmt.Sprintf("Account locked due to too many failed login attempts. Try again in %d minutes.", remainingMinutes),
		http.StatusTooManyRequests,
	)
}

// ErrTooManyAttempts - фабрика для превышения числа попыток входа (429).
// remaining передается в Details, чтобы клиент мог показать счетчик.
func ErrTooManyAttempts(message string, remaining int) *AppError {
	return New(CodeRateLimited, "auth", message, http.StatusTooManyRequests).
		WithDetails(map[string]int{"remaining_attempts": remaining})
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ (Для частых, статичных ошибок)
// =========================================================================

// --- Auth & User Status ---

// ErrInvalidCredentials - неверный логин или пароль.
// Сообщение единое, чтобы не раскрывать, существует ли пользователь.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid username or password",
	http.StatusUnauthorized, // 401
)

// ErrInvalidToken - неверный или просроченный токен (refresh, verify, reset).
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized, // 401
)

// ErrInvalidOTP - неверный или просроченный одноразовый код.
var ErrInvalidOTP = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired OTP",
	http.StatusBadRequest, // 400
)

// ErrUserNotVerified - email не подтвержден, аккаунт неактивен.
var ErrUserNotVerified = New(
	CodeForbidden,
	"auth",
	"Account is inactive. Please verify your email address.",
	http.StatusForbidden, // 403
)

// ErrUserBanned - аккаунт забанен.
var ErrUserBanned = New(
	CodeForbidden,
	"auth",
	"Your account has been banned",
	http.StatusForbidden, // 403
)

// ErrWeakPassword - пароль не проходит требования сложности.
var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password must be at least 8 characters and contain a digit, a lowercase and an uppercase letter",
	http.StatusBadRequest, // 400
)

// ErrUsernameAlreadyExists - имя пользователя занято.
var ErrUsernameAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Username already registered",
	http.StatusConflict, // 409
)

// ErrEmailAlreadyExists - email уже используется.
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already registered",
	http.StatusConflict, // 409
)

// ErrUnderage - пользователь младше минимального возраста.
var ErrUnderage = New(
	CodeValidationFailed,
	"auth",
	"You must be at least 15 years old to register",
	http.StatusBadRequest, // 400
)

// ErrCaptchaRequired - после серии неудачных входов требуется капча.
var ErrCaptchaRequired = New(
	CodeValidationFailed,
	"auth",
	"Captcha verification required",
	http.StatusBadRequest, // 400
)

// ErrCaptchaFailed - проверка капчи не пройдена.
var ErrCaptchaFailed = New(
	CodeValidationFailed,
	"auth",
	"Captcha verification failed",
	http.StatusBadRequest, // 400
)

// ErrInsufficientPermissions - у пользователя нет прав на действие.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden, // 403
)

// ErrCannotModifySelf - админ пытается применить модерацию к себе.
var ErrCannotModifySelf = New(
	CodeForbidden,
	"business_logic",
	"Operation on self is not allowed",
	http.StatusForbidden, // 403
)

// --- Forum ---

// ErrNotAuthor - пользователь не автор поста или комментария.
var ErrNotAuthor = New(
	CodeForbidden,
	"forum",
	"Only the author can modify this content",
	http.StatusForbidden, // 403
)

// ErrAlreadyLiked - повторный лайк того же поста.
var ErrAlreadyLiked = New(
	CodeConflict,
	"forum",
	"Post already liked",
	http.StatusConflict, // 409
)

// ErrLikeNotFound - попытка убрать несуществующий лайк.
var ErrLikeNotFound = New(
	CodeNotFound,
	"forum",
	"Like not found",
	http.StatusNotFound, // 404
)

// --- Admin & Roles ---

// ErrRoleInUse - роль нельзя удалить, пока она назначена пользователям.
var ErrRoleInUse = New(
	CodeInvalidOperation,
	"admin",
	"Role is assigned to users and cannot be deleted",
	http.StatusBadRequest, // 400
)

// ErrRoleAlreadyAssigned - роль уже назначена этому пользователю.
var ErrRoleAlreadyAssigned = New(
	CodeConflict,
	"admin",
	"Role is already assigned to this user",
	http.StatusConflict, // 409
)

// ErrInvalidModerationAction - неизвестное действие модерации.
var ErrInvalidModerationAction = New(
	CodeInvalidOperation,
	"admin",
	"Invalid moderation action",
	http.StatusBadRequest, // 400
)
