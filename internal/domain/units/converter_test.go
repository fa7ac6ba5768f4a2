package units

import (
	"math"
	"testing"

	apperrors "github.com/alchemorsel/dietplanner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const tolerance = 1e-9

// ConverterTestSuite covers unit lookup and conversion
type ConverterTestSuite struct {
	suite.Suite
	conv *Converter
}

func (suite *ConverterTestSuite) SetupTest() {
	suite.conv = NewConverter()
}

func (suite *ConverterTestSuite) TestParse() {
	suite.Run("CanonicalNamesSymbolsAndPlurals_ShouldResolve", func() {
		cases := map[string]Unit{
			"gram":         Gram,
			"g":            Gram,
			"grams":        Gram,
			" KG ":         Kilogram,
			"cups":         Cup,
			"fluid_ounce":  FluidOunce,
			"fl oz":        FluidOunce,
			"Tbsp.":        Tablespoon,
			"tablespoons":  Tablespoon,
			"litre":        Liter,
			"milliliter":   Milliliter,
			"teaspoon":     Teaspoon,
			"lbs":          Pound,
			"fluid ounces": FluidOunce,
		}

		for input, want := range cases {
			got, err := suite.conv.Parse(input)
			require.NoError(suite.T(), err, input)
			assert.Equal(suite.T(), want, got, input)
		}
	})

	suite.Run("EveryCanonicalName_ShouldRoundTrip", func() {
		for _, u := range All() {
			got, err := suite.conv.Parse(u.String())
			require.NoError(suite.T(), err)
			assert.Equal(suite.T(), u, got)
		}
	})

	suite.Run("UnknownUnit_ShouldReturnInvalidArgument", func() {
		_, err := suite.conv.Parse("furlong")

		require.Error(suite.T(), err)
		assert.True(suite.T(), apperrors.Is(err, apperrors.CodeInvalidArgument))
	})
}

func (suite *ConverterTestSuite) TestQuantity() {
	suite.Run("ValidInput_ShouldBuildQuantity", func() {
		q, err := suite.conv.Quantity(2.5, "cup")

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), Of(2.5, Cup), q)
		assert.Equal(suite.T(), "2.5 cup", q.String())
	})

	suite.Run("BadMagnitude_ShouldReturnInvalidArgument", func() {
		for _, m := range []float64{-1, math.NaN(), math.Inf(1)} {
			_, err := suite.conv.Quantity(m, "g")
			assert.True(suite.T(), apperrors.Is(err, apperrors.CodeInvalidArgument))
		}
	})
}

func (suite *ConverterTestSuite) TestTo() {
	suite.Run("SameDimension_ShouldUseFactorRatio", func() {
		q, err := suite.conv.To(Of(1, Kilogram), Gram)
		require.NoError(suite.T(), err)
		assert.InDelta(suite.T(), 1000, q.Magnitude, tolerance)
		assert.Equal(suite.T(), Gram, q.Unit)

		q, err = suite.conv.To(Of(3, Teaspoon), Tablespoon)
		require.NoError(suite.T(), err)
		assert.InDelta(suite.T(), 1, q.Magnitude, tolerance)
	})

	suite.Run("CupToGrams_ShouldEqualEightOunces", func() {
		q, err := suite.conv.To(Of(1, Cup), Gram)

		require.NoError(suite.T(), err)
		assert.InDelta(suite.T(), 8*Ounce.Factor, q.Magnitude, 1e-6)
	})

	suite.Run("MassToVolumeAndBack_ShouldRoundTrip", func() {
		there, err := suite.conv.To(Of(100, Gram), Milliliter)
		require.NoError(suite.T(), err)
		back, err := suite.conv.To(there, Gram)
		require.NoError(suite.T(), err)

		assert.InDelta(suite.T(), 100, back.Magnitude, 1e-9)
		assert.InDelta(suite.T(), 100/KitchenDensity, there.Magnitude, 1e-9)
	})

	suite.Run("NoKitchenContext_ShouldReturnIncompatibleUnits", func() {
		conv := NewConverter(WithoutKitchenContext())

		_, err := conv.To(Of(1, Cup), Gram)

		require.Error(suite.T(), err)
		assert.True(suite.T(), apperrors.Is(err, apperrors.CodeIncompatibleUnits))
		assert.False(suite.T(), conv.KitchenContext())
	})

	suite.Run("ZeroUnit_ShouldReturnIncompatibleUnits", func() {
		_, err := suite.conv.To(Quantity{Magnitude: 1}, Gram)
		assert.True(suite.T(), apperrors.Is(err, apperrors.CodeIncompatibleUnits))
	})
}

func (suite *ConverterTestSuite) TestCustomDensity() {
	conv := NewConverter(WithKitchenContext(1.0))

	q, err := conv.To(Of(250, Milliliter), Gram)

	require.NoError(suite.T(), err)
	assert.InDelta(suite.T(), 250, q.Magnitude, tolerance)
	assert.Equal(suite.T(), 1.0, conv.Density())

	fallback := NewConverter(WithKitchenContext(-3))
	assert.Equal(suite.T(), KitchenDensity, fallback.Density())
}

func (suite *ConverterTestSuite) TestAddAndMeasure() {
	sum, err := suite.conv.Add(Of(100, Gram), Of(1, Cup))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), Gram, sum.Unit)
	assert.InDelta(suite.T(), 100+8*Ounce.Factor, sum.Magnitude, 1e-6)

	grams, err := suite.conv.Measure(Of(2, Kilogram))
	require.NoError(suite.T(), err)
	assert.InDelta(suite.T(), 2000, grams, tolerance)
}

func TestKitchenDensity(t *testing.T) {
	assert.InDelta(t, 0.95861, KitchenDensity, 1e-4)
	assert.Equal(t, Gram, MeasureUnit)
}

func TestConverterTestSuite(t *testing.T) {
	suite.Run(t, new(ConverterTestSuite))
}
