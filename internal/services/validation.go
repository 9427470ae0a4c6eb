package services

import (
	"studytime/internal/models"

	"github.com/gookit/validate"
)

// validateInput runs the struct's validate tags and maps the first failure to
// models.ErrValidation.
func validateInput(input interface{}) error {
	v := validate.Struct(input)
	if !v.Validate() {
		return models.Validationf("%s", v.Errors.One())
	}
	return nil
}

func requireNonNegative(field string, value int64) error {
	if value < 0 {
		return models.Validationf("%s must be >= 0", field)
	}
	return nil
}
