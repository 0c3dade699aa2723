package validator

import (
	"log"

	"rianzel_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Критическая ошибка времени запуска
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-user-role': Проверяет, что роль пользователя валидна
	mustRegister("is-user-role", validateUserRole)

	// 'is-moderation-action': Проверяет действие модерации
	mustRegister("is-moderation-action", validateModerationAction)

	// 'is-content-type': Проверяет тип модерируемого контента
	mustRegister("is-content-type", validateContentType)
}

// --- Функции валидации ---

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Не проверяем пустые значения, для этого есть 'required'
	}

	switch models.UserRole(value) {
	case models.UserRoleMember, models.UserRoleModerator, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}

func validateModerationAction(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' обрабатывает пустые
	}
	switch models.ModerationAction(value) {
	case models.ModerationActionApprove, models.ModerationActionReject, models.ModerationActionDelete:
		return true
	default:
		return false
	}
}

func validateContentType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ContentType(value) {
	case models.ContentTypePost, models.ContentTypeComment:
		return true
	default:
		return false
	}
}
