package plan

import (
	"errors"
	"time"

	"github.com/alchemorsel/dietplanner/internal/domain/recipe"
	apperrors "github.com/alchemorsel/dietplanner/pkg/errors"
)

// Week designators accepted by FindWeekStart
const (
	WeekThis = "this"
	WeekNext = "next"
)

// Calendar window sizes, in days
const (
	ScaleDay     = 1
	ScaleFourDay = 4
	ScaleWeek    = 7
)

// MaxWindowDays bounds every date window; ten years of days
const MaxWindowDays = 3653

var (
	ErrInvalidWeek   = errors.New("week must be \"this\" or \"next\"")
	ErrInvalidScale  = errors.New("scale must be a positive number of days")
	ErrInvalidWindow = errors.New("days must be between 0 and 3653")
)

// Weekday returns the day of the week counting Monday as 0
func Weekday(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// FindWeekStart returns the Monday of d's week ("this") or of the
// following week ("next")
func FindWeekStart(d time.Time, which string) (time.Time, error) {
	d = recipe.DateOf(d)
	switch which {
	case WeekThis:
		return d.AddDate(0, 0, -Weekday(d)), nil
	case WeekNext:
		return d.AddDate(0, 0, 7-Weekday(d)), nil
	default:
		return time.Time{}, apperrors.NewInvalidArgumentError("week", which).WithCause(ErrInvalidWeek)
	}
}

// Shift moves a calendar window start by n windows of scale days;
// negative n moves back
func Shift(d time.Time, scale, n int) (time.Time, error) {
	if scale <= 0 || scale > MaxWindowDays {
		return time.Time{}, apperrors.NewInvalidArgumentError("scale", scale).WithCause(ErrInvalidScale)
	}
	if n < -MaxWindowDays || n > MaxWindowDays {
		return time.Time{}, apperrors.NewInvalidArgumentError("shift", n).WithCause(ErrInvalidScale)
	}
	return recipe.DateOf(d).AddDate(0, 0, scale*n), nil
}

// ValidateWindow rejects a window length outside [0, MaxWindowDays]
func ValidateWindow(days int) error {
	if days < 0 || days > MaxWindowDays {
		return apperrors.NewInvalidArgumentError("days", days).WithCause(ErrInvalidWindow)
	}
	return nil
}
