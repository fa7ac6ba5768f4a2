package recipe

import (
	"errors"

	apperrors "github.com/alchemorsel/dietplanner/pkg/errors"
)

// Domain errors for recipe and meal operations.
// They are returned wrapped in an *AppError so both errors.Is(err, ErrX)
// and apperrors.Is(err, code) work.

var (
	// Entity validation errors
	ErrBlankName        = errors.New("recipe name must not be blank")
	ErrNameTooLong      = errors.New("recipe name must not exceed 200 characters")
	ErrNameLineBreak    = errors.New("recipe name must be a single line")
	ErrInvalidServings  = errors.New("servings must not be negative")
	ErrInvalidFood      = errors.New("ingredient name must be a non-blank single line")
	ErrInvalidQuantity  = errors.New("ingredient quantity must be a non-negative number with a unit")
	ErrInvalidCategory  = errors.New("invalid meal category")
	ErrInvalidDate      = errors.New("invalid meal date")
	ErrMissingRecipe    = errors.New("meal must reference a recipe")
	ErrRecipeKeyChanged = errors.New("renaming would change the recipe key")
	ErrInvalidKey       = errors.New("recipe key must be a non-blank file name")
)

func validationError(err error) *apperrors.AppError {
	return apperrors.NewValidationError(err.Error()).WithCause(err)
}

func invalidArgument(err error, argument string, value interface{}) *apperrors.AppError {
	return apperrors.NewInvalidArgumentError(argument, value).WithCause(err)
}
