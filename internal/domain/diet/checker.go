package diet

import (
	"math"

	"github.com/alchemorsel/dietplanner/internal/domain/ledger"
	"github.com/alchemorsel/dietplanner/internal/domain/units"
)

// DefaultThreshold is the largest restricted share of a tally that still passes
const DefaultThreshold = 0.20

// Result is the outcome of checking a ledger against a policy
type Result struct {
	Passed             bool
	RestrictedFraction float64
	// Masses in units.MeasureUnit
	RestrictedMass float64
	OtherMass      float64
	// Banned foods found, in ledger order
	Banned []string
}

// Checker computes diet compliance of ingredient ledgers
type Checker struct {
	conv      *units.Converter
	threshold float64
}

// NewChecker creates a checker. A threshold outside [0, 1] falls back to DefaultThreshold.
func NewChecker(conv *units.Converter, threshold float64) *Checker {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Checker{conv: conv, threshold: threshold}
}

// Converter returns the unit converter the checker normalises with
func (c *Checker) Converter() *units.Converter {
	return c.conv
}

// Threshold returns the pass threshold on the restricted fraction
func (c *Checker) Threshold() float64 {
	return c.threshold
}

// Check tallies banned and restricted mass against everything else.
// With no restricted mass the result is a pass with fraction 0. Otherwise
// it passes when the fraction is within the threshold and nothing banned
// was found.
func (c *Checker) Check(foods *ledger.Ledger, policy *Policy) (Result, error) {
	result := Result{Banned: []string{}}
	banned := false

	for _, e := range foods.Entries() {
		grams, err := c.conv.Measure(e.Quantity)
		if err != nil {
			return Result{}, err
		}

		switch policy.Classify(e.Food) {
		case ClassBanned:
			banned = true
			result.Banned = append(result.Banned, e.Food)
			result.RestrictedMass += grams
		case ClassRestricted:
			result.RestrictedMass += grams
		default:
			result.OtherMass += grams
		}
	}

	if result.RestrictedMass == 0 {
		result.Passed = true
		return result, nil
	}

	result.RestrictedFraction = result.RestrictedMass / (result.RestrictedMass + result.OtherMass)
	result.Passed = result.RestrictedFraction <= c.threshold && !banned
	return result, nil
}
