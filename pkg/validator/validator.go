package validator

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

var (
	// Validate - singleton экземпляр валидатора
	Validate *validator.Validate

	// CronParser разбирает расписания из 5 полей, 6 полей (с секундами) и дескрипторы (@daily, @every 1h)
	CronParser = cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)

	reE164    = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)
	reDecimal = regexp.MustCompile(`^\s*[+-]?\d{1,16}(?:[.,]\d{1,2})?\s*$`)
)

func init() {
	Validate = validator.New()

	_ = Validate.RegisterValidation("rfc3339_optional", validateRFC3339Optional)
	_ = Validate.RegisterValidation("ymd", validateYMD)
	_ = Validate.RegisterValidation("e164_optional", validateE164Optional)
	_ = Validate.RegisterValidation("decimal2", validateDecimal2)
	_ = Validate.RegisterValidation("cron_spec", validateCronSpec)
}

// validateRFC3339Optional проверяет RFC3339 дату, но разрешает пустую строку
func validateRFC3339Optional(fl validator.FieldLevel) bool {
	dateStr := fl.Field().String()
	if dateStr == "" {
		return true
	}
	_, err := time.Parse(time.RFC3339, dateStr)
	return err == nil
}

// validateYMD дата без времени, YYYY-MM-DD
func validateYMD(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

func validateE164Optional(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || reE164.MatchString(s)
}

// validateDecimal2 сумма с не более чем 2 знаками после запятой; пустая строка допустима
func validateDecimal2(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || reDecimal.MatchString(s)
}

func validateCronSpec(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := CronParser.Parse(s)
	return err == nil
}
