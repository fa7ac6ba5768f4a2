// Package testutils provides custom assertions and testing utilities
package testutils

import (
	"testing"

	"github.com/alchemorsel/dietplanner/internal/ports/inbound"
	apperrors "github.com/alchemorsel/dietplanner/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fractionDelta absorbs unit conversion rounding
const fractionDelta = 1e-9

// ComplianceAssertions provides compliance-specific assertion methods
type ComplianceAssertions struct {
	t *testing.T
}

// NewComplianceAssertions creates a new compliance assertions helper
func NewComplianceAssertions(t *testing.T) *ComplianceAssertions {
	return &ComplianceAssertions{t: t}
}

// Passes asserts a passing check with the given restricted fraction
func (ca *ComplianceAssertions) Passes(c *inbound.ComplianceDTO, fraction float64, msgAndArgs ...interface{}) {
	ca.t.Helper()
	require.NotNil(ca.t, c, msgAndArgs...)
	assert.True(ca.t, c.Passed, msgAndArgs...)
	assert.InDelta(ca.t, fraction, c.RestrictedFraction, fractionDelta, msgAndArgs...)
	assert.Empty(ca.t, c.Banned, msgAndArgs...)
}

// Fails asserts a failing check with the given restricted fraction
func (ca *ComplianceAssertions) Fails(c *inbound.ComplianceDTO, fraction float64, msgAndArgs ...interface{}) {
	ca.t.Helper()
	require.NotNil(ca.t, c, msgAndArgs...)
	assert.False(ca.t, c.Passed, msgAndArgs...)
	assert.InDelta(ca.t, fraction, c.RestrictedFraction, fractionDelta, msgAndArgs...)
}

// Banned asserts a failing check that found exactly the given banned foods
func (ca *ComplianceAssertions) Banned(c *inbound.ComplianceDTO, foods ...string) {
	ca.t.Helper()
	require.NotNil(ca.t, c)
	assert.False(ca.t, c.Passed)
	assert.ElementsMatch(ca.t, foods, c.Banned)
}

// Masses asserts the restricted and other masses in grams
func (ca *ComplianceAssertions) Masses(c *inbound.ComplianceDTO, restricted, other float64) {
	ca.t.Helper()
	require.NotNil(ca.t, c)
	assert.InDelta(ca.t, restricted, c.RestrictedMass, 1e-6)
	assert.InDelta(ca.t, other, c.OtherMass, 1e-6)
}

// AssertErrorCode asserts err is an AppError with code
func AssertErrorCode(t *testing.T, err error, code apperrors.ErrorCode, msgAndArgs ...interface{}) {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
	assert.Equal(t, code, apperrors.GetCode(err), msgAndArgs...)
}

// MealKeys reduces meals to "key date category" strings in order
func MealKeys(meals []inbound.MealDTO) []string {
	out := make([]string, 0, len(meals))
	for _, m := range meals {
		out = append(out, m.RecipeKey+" "+m.Date.Format("2006-01-02")+" "+m.Category)
	}
	return out
}

// RecipeKeys reduces recipes to their keys in order
func RecipeKeys(recipes []inbound.RecipeDTO) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.Key)
	}
	return out
}
