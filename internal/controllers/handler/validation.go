package handler

import (
	"errors"
	"fmt"

	"portal/pkg/validator"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// formatValidationErrors форматирует ошибки валидации в понятный формат для клиента
func formatValidationErrors(err error) fiber.Map {
	var details []string
	var validationErrors playgroundvalidator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, fieldMessage(e))
		}
	} else {
		details = append(details, err.Error())
	}
	return fiber.Map{
		"error":   "validation failed",
		"details": details,
	}
}

func fieldMessage(e playgroundvalidator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("поле '%s' обязательно для заполнения", field)
	case "required_if":
		return fmt.Sprintf("поле '%s' обязательно при %s", field, e.Param())
	case "min":
		return fmt.Sprintf("поле '%s' должно содержать минимум %s символов", field, e.Param())
	case "max":
		return fmt.Sprintf("поле '%s' должно содержать максимум %s символов", field, e.Param())
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("поле '%s' вне допустимого диапазона (%s %s)", field, e.Tag(), e.Param())
	case "oneof":
		return fmt.Sprintf("поле '%s' должно быть одним из: %s", field, e.Param())
	case "email":
		return fmt.Sprintf("поле '%s' должно быть email адресом", field)
	case "url":
		return fmt.Sprintf("поле '%s' должно быть URL", field)
	case "e164_optional":
		return fmt.Sprintf("поле '%s' должно быть телефоном в формате E.164 (например, +447700900123)", field)
	case "decimal2":
		return fmt.Sprintf("поле '%s' должно быть суммой с не более чем 2 знаками после запятой", field)
	case "ymd":
		return fmt.Sprintf("поле '%s' должно быть датой в формате YYYY-MM-DD", field)
	case "rfc3339_optional":
		return fmt.Sprintf("поле '%s' должно быть в формате RFC3339 (например, 2026-01-20T15:00:00Z)", field)
	default:
		return fmt.Sprintf("поле '%s' не прошло валидацию: %s", field, e.Tag())
	}
}

// parseAndValidate разбирает тело запроса и проверяет его. false - ответ с ошибкой уже записан.
func (h *HandlerImpl) parseAndValidate(c *fiber.Ctx, dst any, prepare func()) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		h.logger.Warnf("error parsing body: %v", err)
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if prepare != nil {
		prepare()
	}
	if err := validator.Validate.Struct(dst); err != nil {
		h.logger.Warnf("validation error: %v", err)
		return false, c.Status(fiber.StatusBadRequest).JSON(formatValidationErrors(err))
	}
	return true, nil
}
