// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"paycycle/internal/period"
)

var periodIDRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("payday_day", validatePaydayDay)
		_ = v.RegisterValidation("period_id", validatePeriodID)
	}
}

func validatePaydayDay(fl validator.FieldLevel) bool {
	return period.ValidPayday(int(fl.Field().Int()))
}

func validatePeriodID(fl validator.FieldLevel) bool {
	return periodIDRegex.MatchString(fl.Field().String())
}
