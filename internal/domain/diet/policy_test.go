package diet

import (
	"testing"

	apperrors "github.com/alchemorsel/dietplanner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy(t *testing.T) {
	t.Run("NamesAreNormalisedAndUnlistedFoodsAllowed", func(t *testing.T) {
		p := NewPolicy([]string{" Rice"}, []string{"Bread"}, []string{"SUGAR", ""})

		assert.Equal(t, ClassBanned, p.Classify("sugar"))
		assert.Equal(t, ClassRestricted, p.Classify(" bread "))
		assert.Equal(t, ClassAllowed, p.Classify("rice"))
		assert.Equal(t, ClassAllowed, p.Classify("kale"))
		assert.False(t, p.Listed("kale"))
		assert.Equal(t, 3, p.Len())
	})

	t.Run("OverlappingListsTakeStrictestClass", func(t *testing.T) {
		p := NewPolicy([]string{"cheese"}, []string{"cheese", "wine"}, []string{"wine"})

		assert.Equal(t, ClassRestricted, p.Classify("cheese"))
		assert.Equal(t, ClassBanned, p.Classify("wine"))
		assert.Empty(t, p.Allowed())
	})

	t.Run("AddFoodMovesBetweenClasses", func(t *testing.T) {
		p := NewPolicy([]string{"milk"}, nil, nil)

		require.NoError(t, p.AddFood("Milk", ClassRestricted))
		require.NoError(t, p.AddFood("eggs", Class("BANNED")))

		assert.Empty(t, p.Allowed())
		assert.Equal(t, []string{"milk"}, p.Restricted())
		assert.Equal(t, []string{"eggs"}, p.Banned())
	})

	t.Run("AddFoodRejectsBadInput", func(t *testing.T) {
		p := EmptyPolicy()

		assert.True(t, apperrors.Is(p.AddFood("  ", ClassBanned), apperrors.CodeValidationFailed))
		assert.True(t, apperrors.Is(p.AddFood("tofu", Class("forbidden")), apperrors.CodeInvalidArgument))
		assert.Equal(t, 0, p.Len())
	})

	t.Run("RemoveFoodDropsFromEveryClass", func(t *testing.T) {
		p := NewPolicy([]string{"rice"}, []string{"bread"}, nil)

		assert.True(t, p.RemoveFood("BREAD"))
		assert.False(t, p.RemoveFood("bread"))
		assert.Empty(t, p.Restricted())
		assert.Equal(t, []string{"rice"}, p.Allowed())
	})

	t.Run("CloneIsIndependent", func(t *testing.T) {
		p := NewPolicy(nil, nil, []string{"sugar"})
		c := p.Clone()
		require.NoError(t, c.AddFood("sugar", ClassAllowed))

		assert.Equal(t, ClassBanned, p.Classify("sugar"))
	})

	t.Run("ParseClass", func(t *testing.T) {
		c, err := ParseClass(" Restricted ")
		require.NoError(t, err)
		assert.Equal(t, ClassRestricted, c)

		_, err = ParseClass("maybe")
		assert.ErrorIs(t, err, ErrInvalidClass)
		assert.Equal(t, []Class{ClassAllowed, ClassRestricted, ClassBanned}, Classes())
	})
}
