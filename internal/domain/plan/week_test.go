package plan

import (
	"testing"
	"time"

	apperrors "github.com/alchemorsel/dietplanner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindWeekStart(t *testing.T) {
	t.Run("EveryDayOfSeveralWeeks", func(t *testing.T) {
		start := day(2023, time.December, 20)
		for i := 0; i < 28; i++ {
			d := start.AddDate(0, 0, i)

			this, err := FindWeekStart(d, WeekThis)
			require.NoError(t, err)
			assert.Equal(t, time.Monday, this.Weekday(), d)
			assert.False(t, this.After(d), d)
			assert.True(t, d.Sub(this) < 7*24*time.Hour, d)

			next, err := FindWeekStart(d, WeekNext)
			require.NoError(t, err)
			assert.Equal(t, time.Monday, next.Weekday(), d)
			assert.True(t, next.After(d), d)
			assert.True(t, next.Sub(d) <= 7*24*time.Hour, d)
		}
	})

	t.Run("KnownDates", func(t *testing.T) {
		// 2024-01-03 is a Wednesday
		this, _ := FindWeekStart(day(2024, 1, 3), WeekThis)
		next, _ := FindWeekStart(day(2024, 1, 3), WeekNext)
		assert.Equal(t, day(2024, 1, 1), this)
		assert.Equal(t, day(2024, 1, 8), next)

		// a Monday is its own week start and next week is seven days on
		this, _ = FindWeekStart(day(2024, 1, 8), WeekThis)
		next, _ = FindWeekStart(day(2024, 1, 8), WeekNext)
		assert.Equal(t, day(2024, 1, 8), this)
		assert.Equal(t, day(2024, 1, 15), next)
	})

	t.Run("UnknownDesignator_ShouldReturnInvalidArgument", func(t *testing.T) {
		_, err := FindWeekStart(day(2024, 1, 3), "last")

		assert.True(t, apperrors.Is(err, apperrors.CodeInvalidArgument))
		assert.ErrorIs(t, err, ErrInvalidWeek)
	})

	assert.Equal(t, 0, Weekday(day(2024, 1, 1)))
	assert.Equal(t, 6, Weekday(day(2024, 1, 7)))
}

func TestShift(t *testing.T) {
	d := day(2024, 1, 3)

	forward, err := Shift(d, ScaleWeek, 1)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 10), forward)

	back, err := Shift(d, ScaleFourDay, -2)
	require.NoError(t, err)
	assert.Equal(t, day(2023, 12, 26), back)

	same, err := Shift(d.Add(15*time.Hour), ScaleDay, 0)
	require.NoError(t, err)
	assert.Equal(t, d, same)

	_, err = Shift(d, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidScale)

	_, err = Shift(d, ScaleWeek, 1<<40)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidArgument))
}

func TestValidateWindow(t *testing.T) {
	for _, days := range []int{0, 1, ScaleWeek, MaxWindowDays} {
		assert.NoError(t, ValidateWindow(days), days)
	}
	for _, days := range []int{-1, MaxWindowDays + 1, 1 << 62} {
		err := ValidateWindow(days)
		assert.ErrorIs(t, err, ErrInvalidWindow, days)
		assert.True(t, apperrors.Is(err, apperrors.CodeInvalidArgument), days)
	}
}
