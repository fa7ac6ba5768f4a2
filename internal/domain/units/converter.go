package units

import (
	apperrors "github.com/alchemorsel/dietplanner/pkg/errors"
)

// Converter resolves unit names and converts quantities.
// It is immutable once built and safe for concurrent use.
type Converter struct {
	lookup  map[string]Unit
	kitchen bool
	density float64
}

// Option configures a Converter
type Option func(*Converter)

// WithKitchenContext enables mass/volume conversion at density g/mL.
// A non-positive density falls back to KitchenDensity.
func WithKitchenContext(density float64) Option {
	return func(c *Converter) {
		if density <= 0 || !validMagnitude(density) {
			density = KitchenDensity
		}
		c.kitchen = true
		c.density = density
	}
}

// WithoutKitchenContext restricts conversion to a single dimension
func WithoutKitchenContext() Option {
	return func(c *Converter) {
		c.kitchen = false
	}
}

// NewConverter builds a Converter. The kitchen context is on by default.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		lookup:  make(map[string]Unit),
		kitchen: true,
		density: KitchenDensity,
	}

	for _, u := range allUnits {
		keys := append([]string{u.Name, u.Symbol, u.Name + "s"}, aliases[u.Name]...)
		for _, key := range keys {
			c.lookup[normalizeUnitName(key)] = u
		}
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// KitchenContext reports whether mass/volume conversion is enabled
func (c *Converter) KitchenContext() bool {
	return c.kitchen
}

// Density returns the kitchen density in g/mL
func (c *Converter) Density() float64 {
	return c.density
}

// Parse resolves a unit by name, symbol, plural or alias
func (c *Converter) Parse(s string) (Unit, error) {
	u, ok := c.lookup[normalizeUnitName(s)]
	if !ok {
		return Unit{}, apperrors.NewInvalidArgumentError("unit", s)
	}
	return u, nil
}

// Quantity validates a magnitude and parses its unit
func (c *Converter) Quantity(magnitude float64, unit string) (Quantity, error) {
	if !validMagnitude(magnitude) {
		return Quantity{}, apperrors.NewInvalidArgumentError("magnitude", magnitude)
	}
	u, err := c.Parse(unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Magnitude: magnitude, Unit: u}, nil
}

// Compatible reports whether a conversion path exists between two units
func (c *Converter) Compatible(from, to Unit) bool {
	if from.IsZero() || to.IsZero() {
		return false
	}
	return from.Dimension == to.Dimension || c.kitchen
}

// To converts q into target
func (c *Converter) To(q Quantity, target Unit) (Quantity, error) {
	if !c.Compatible(q.Unit, target) {
		return Quantity{}, apperrors.NewIncompatibleUnitsError(q.Unit.Name, target.Name)
	}

	base := q.Magnitude * q.Unit.Factor
	if q.Unit.Dimension != target.Dimension {
		switch q.Unit.Dimension {
		case DimensionVolume:
			base *= c.density
		case DimensionMass:
			base /= c.density
		}
	}

	return Quantity{Magnitude: base / target.Factor, Unit: target}, nil
}

// Measure returns the magnitude of q in MeasureUnit
func (c *Converter) Measure(q Quantity) (float64, error) {
	converted, err := c.To(q, MeasureUnit)
	if err != nil {
		return 0, err
	}
	return converted.Magnitude, nil
}

// Add returns a + b expressed in a's unit
func (c *Converter) Add(a, b Quantity) (Quantity, error) {
	converted, err := c.To(b, a.Unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Magnitude: a.Magnitude + converted.Magnitude, Unit: a.Unit}, nil
}
