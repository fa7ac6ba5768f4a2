// Package validation checks inbound commands before they reach the domain
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alchemorsel/dietplanner/internal/domain/diet"
	"github.com/alchemorsel/dietplanner/internal/domain/recipe"
	"github.com/alchemorsel/dietplanner/internal/domain/units"
	apperrors "github.com/alchemorsel/dietplanner/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// Validator validates command structs
type Validator struct {
	validate *validator.Validate
}

// New creates a validator whose "unit" rule resolves names with conv
func New(conv *units.Converter) *Validator {
	validate := validator.New()

	// Register custom validation rules
	validate.RegisterValidation("singleline", validateSingleLine)
	validate.RegisterValidation("category", validateCategory)
	validate.RegisterValidation("foodclass", validateFoodClass)
	validate.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
		_, err := conv.Parse(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: validate}
}

// Struct validates s and converts failures into a VALIDATION_FAILED AppError
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apperrors.NewValidationError(err.Error()).WithCause(err)
	}

	out := make([]apperrors.ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, apperrors.ValidationError{
			Field:   fe.Namespace(),
			Value:   fe.Value(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return apperrors.NewValidationErrors(out).WithCause(err)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must not be negative", field)
	case "singleline":
		return fmt.Sprintf("%s must be a single line", field)
	case "unit":
		return fmt.Sprintf("%s is not a known unit: %v", field, fe.Value())
	case "category":
		return fmt.Sprintf("%s must be one of breakfast, lunch, dinner or snack", field)
	case "foodclass":
		return fmt.Sprintf("%s must be allowed, restricted or banned", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func validateSingleLine(fl validator.FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), "\r\n")
}

func validateCategory(fl validator.FieldLevel) bool {
	_, err := recipe.ParseCategory(fl.Field().String())
	return err == nil
}

func validateFoodClass(fl validator.FieldLevel) bool {
	_, err := diet.ParseClass(fl.Field().String())
	return err == nil
}
