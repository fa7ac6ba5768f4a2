// Package units converts kitchen quantities between mass and volume units.
// A Converter is constructed explicitly and passed to whatever needs it.
package units

import (
	"math"
	"strconv"
	"strings"
)

// Dimension is the physical dimension a unit measures
type Dimension string

const (
	DimensionMass   Dimension = "mass"
	DimensionVolume Dimension = "volume"
)

// Unit is a named unit with its factor to the dimension base
// (gram for mass, millilitre for volume)
type Unit struct {
	Name      string
	Symbol    string
	Dimension Dimension
	Factor    float64
}

// IsZero reports whether u is the zero Unit
func (u Unit) IsZero() bool {
	return u.Name == ""
}

// String returns the canonical name, which Parse accepts back
func (u Unit) String() string {
	return u.Name
}

// Mass units
var (
	Milligram = Unit{Name: "milligram", Symbol: "mg", Dimension: DimensionMass, Factor: 0.001}
	Gram      = Unit{Name: "gram", Symbol: "g", Dimension: DimensionMass, Factor: 1}
	Kilogram  = Unit{Name: "kilogram", Symbol: "kg", Dimension: DimensionMass, Factor: 1000}
	Ounce     = Unit{Name: "ounce", Symbol: "oz", Dimension: DimensionMass, Factor: 28.349523125}
	Pound     = Unit{Name: "pound", Symbol: "lb", Dimension: DimensionMass, Factor: 453.59237}
)

// Volume units (US customary where there is a choice)
var (
	Milliliter = Unit{Name: "milliliter", Symbol: "ml", Dimension: DimensionVolume, Factor: 1}
	Liter      = Unit{Name: "liter", Symbol: "l", Dimension: DimensionVolume, Factor: 1000}
	Teaspoon   = Unit{Name: "teaspoon", Symbol: "tsp", Dimension: DimensionVolume, Factor: 4.92892159375}
	Tablespoon = Unit{Name: "tablespoon", Symbol: "tbsp", Dimension: DimensionVolume, Factor: 14.78676478125}
	FluidOunce = Unit{Name: "fluid_ounce", Symbol: "fl oz", Dimension: DimensionVolume, Factor: 29.5735295625}
	Cup        = Unit{Name: "cup", Symbol: "cup", Dimension: DimensionVolume, Factor: 236.5882365}
	Pint       = Unit{Name: "pint", Symbol: "pt", Dimension: DimensionVolume, Factor: 473.176473}
	Quart      = Unit{Name: "quart", Symbol: "qt", Dimension: DimensionVolume, Factor: 946.352946}
	Gallon     = Unit{Name: "gallon", Symbol: "gal", Dimension: DimensionVolume, Factor: 3785.411784}
)

var allUnits = []Unit{Milligram, Gram, Kilogram, Ounce, Pound, Milliliter, Liter, Teaspoon, Tablespoon, FluidOunce, Cup, Pint, Quart, Gallon}

// aliases are extra spellings accepted by Parse, keyed by canonical name
var aliases = map[string][]string{
	"gram":        {"gm", "gr"},
	"kilogram":    {"kilo", "kilos"},
	"pound":       {"lbs"},
	"milliliter":  {"millilitre", "millilitres", "cc"},
	"liter":       {"litre", "litres"},
	"tablespoon":  {"tbs", "tbl"},
	"fluid_ounce": {"floz", "fl oz."},
	"cup":         {"c"},
}

// MeasureUnit is the common basis for compliance arithmetic
var MeasureUnit = Gram

// KitchenDensity is 8 oz per cup expressed in g/mL (about 0.9586).
// It is an assumed ingredient density used to bridge mass and volume,
// an approximation rather than a property of any particular food.
var KitchenDensity = (8 * Ounce.Factor) / Cup.Factor

// Quantity is a magnitude in a unit
type Quantity struct {
	Magnitude float64
	Unit      Unit
}

// Of builds a Quantity without validation
func Of(magnitude float64, unit Unit) Quantity {
	return Quantity{Magnitude: magnitude, Unit: unit}
}

// String renders "<magnitude> <unit name>"
func (q Quantity) String() string {
	return FormatMagnitude(q.Magnitude) + " " + q.Unit.Name
}

// IsZero reports whether the quantity has no magnitude
func (q Quantity) IsZero() bool {
	return q.Magnitude == 0
}

// FormatMagnitude prints the shortest representation that parses back to m
func FormatMagnitude(m float64) string {
	return strconv.FormatFloat(m, 'g', -1, 64)
}

func validMagnitude(m float64) bool {
	return !math.IsNaN(m) && !math.IsInf(m, 0) && m >= 0
}

// normalizeUnitName folds case, underscores, a trailing dot and inner whitespace
func normalizeUnitName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, ".")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}
