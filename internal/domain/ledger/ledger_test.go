package ledger

import (
	"testing"

	"github.com/alchemorsel/dietplanner/internal/domain/units"
	apperrors "github.com/alchemorsel/dietplanner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerBasics(t *testing.T) {
	t.Run("NamesAreNormalised", func(t *testing.T) {
		l := New()
		l.Set("  Rice ", units.Of(100, units.Gram))

		q, ok := l.Get("RICE")
		require.True(t, ok)
		assert.Equal(t, units.Of(100, units.Gram), q)
		assert.Equal(t, []string{"rice"}, l.Names())
	})

	t.Run("InsertionOrderIsKept", func(t *testing.T) {
		l := FromEntries(
			Entry{Food: "oats", Quantity: units.Of(1, units.Cup)},
			Entry{Food: "milk", Quantity: units.Of(200, units.Milliliter)},
			Entry{Food: "honey", Quantity: units.Of(1, units.Tablespoon)},
		)

		assert.Equal(t, []string{"oats", "milk", "honey"}, l.Names())

		assert.True(t, l.Delete("Milk"))
		assert.False(t, l.Delete("milk"))
		assert.Equal(t, []string{"oats", "honey"}, l.Names())
		assert.Equal(t, 2, l.Len())
	})

	t.Run("CloneIsIndependent", func(t *testing.T) {
		l := FromEntries(Entry{Food: "kale", Quantity: units.Of(50, units.Gram)})
		c := l.Clone()
		c.Set("kale", units.Of(1, units.Kilogram))
		c.Set("salt", units.Of(1, units.Gram))

		q, _ := l.Get("kale")
		assert.Equal(t, units.Of(50, units.Gram), q)
		assert.Equal(t, 1, l.Len())
	})

	t.Run("NilLedgerReadsAsEmpty", func(t *testing.T) {
		var l *Ledger
		assert.Equal(t, 0, l.Len())
		assert.Empty(t, l.Names())
		assert.Empty(t, l.Entries())
		assert.Equal(t, 0, l.Clone().Len())
	})
}

func TestMerge(t *testing.T) {
	conv := units.NewConverter()

	t.Run("EmptySource_IsIdentity", func(t *testing.T) {
		l := FromEntries(Entry{Food: "rice", Quantity: units.Of(90, units.Gram)})
		before := l.Clone()

		require.NoError(t, l.Merge(conv, New()))
		require.NoError(t, l.Merge(conv, nil))

		assert.True(t, l.Equal(before))
	})

	t.Run("GramsPlusCups_ConvertsIntoFirstSeenUnit", func(t *testing.T) {
		l := FromEntries(Entry{Food: "flour", Quantity: units.Of(100, units.Gram)})
		src := FromEntries(Entry{Food: "FLOUR", Quantity: units.Of(2, units.Cup)})

		require.NoError(t, l.Merge(conv, src))

		q, ok := l.Get("flour")
		require.True(t, ok)
		assert.Equal(t, units.Gram, q.Unit)
		cups, err := conv.To(units.Of(2, units.Cup), units.Gram)
		require.NoError(t, err)
		assert.InDelta(t, 100+cups.Magnitude, q.Magnitude, 1e-9)
		assert.Equal(t, 1, l.Len())
	})

	t.Run("NewFoods_AreInsertedAsGiven", func(t *testing.T) {
		l := New()
		src := FromEntries(Entry{Food: "milk", Quantity: units.Of(1, units.Cup)})

		require.NoError(t, l.Merge(conv, src))

		q, _ := l.Get("milk")
		assert.Equal(t, units.Of(1, units.Cup), q)
	})

	t.Run("SelfMerge_DoublesEveryEntry", func(t *testing.T) {
		l := FromEntries(Entry{Food: "egg", Quantity: units.Of(50, units.Gram)})

		require.NoError(t, l.Merge(conv, l))

		q, _ := l.Get("egg")
		assert.InDelta(t, 100, q.Magnitude, 1e-9)
	})

	t.Run("FailedConversion_LeavesTargetUntouched", func(t *testing.T) {
		strict := units.NewConverter(units.WithoutKitchenContext())
		l := FromEntries(
			Entry{Food: "rice", Quantity: units.Of(90, units.Gram)},
			Entry{Food: "milk", Quantity: units.Of(100, units.Milliliter)},
		)
		before := l.Clone()
		src := FromEntries(
			Entry{Food: "rice", Quantity: units.Of(10, units.Gram)},
			Entry{Food: "milk", Quantity: units.Of(50, units.Gram)},
			Entry{Food: "salt", Quantity: units.Of(1, units.Gram)},
		)

		err := l.Merge(strict, src)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeIncompatibleUnits))
		assert.True(t, l.Equal(before))
	})
}

func TestSumAndTotal(t *testing.T) {
	conv := units.NewConverter()

	breakfast := FromEntries(
		Entry{Food: "oats", Quantity: units.Of(40, units.Gram)},
		Entry{Food: "milk", Quantity: units.Of(1, units.Cup)},
	)
	lunch := FromEntries(
		Entry{Food: "Oats", Quantity: units.Of(0.01, units.Kilogram)},
		Entry{Food: "rice", Quantity: units.Of(90, units.Gram)},
	)

	total, err := Sum(conv, breakfast, lunch)
	require.NoError(t, err)

	assert.Equal(t, []string{"oats", "milk", "rice"}, total.Names())
	oats, _ := total.Get("oats")
	assert.InDelta(t, 50, oats.Magnitude, 1e-9)

	// inputs are not modified
	q, _ := breakfast.Get("oats")
	assert.Equal(t, 40.0, q.Magnitude)

	mass, err := total.Total(conv, units.Gram)
	require.NoError(t, err)
	assert.InDelta(t, 50+90+8*units.Ounce.Factor, mass.Magnitude, 1e-6)

	empty, err := Sum(conv)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}
