// Package calc holds the site's arithmetic health calculators. Every function
// is pure: it validates its input, applies a published formula and returns a
// result or ValidationErrors. Nothing here performs I/O.
package calc

import "math"

const (
	poundsToKg  = 0.453592
	inchesToCm  = 2.54
	inchesPerFt = 12.0
)

// Sex selects the sex-specific constants of a formula.
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// Units selects how weight and height are expressed on input.
type Units string

const (
	Metric   Units = "metric"   // kg, cm
	Imperial Units = "imperial" // lb, in
)

// Body is the shared anthropometric input of several calculators.
type Body struct {
	Sex    Sex     `json:"sex" validate:"required,oneof=male female"`
	Age    int     `json:"age" validate:"required,gt=0,lte=120"`
	Weight float64 `json:"weight" validate:"required,gt=0,lte=1000"`
	Height float64 `json:"height" validate:"required,gt=0,lte=300"`
	Units  Units   `json:"units,omitempty" validate:"omitempty,oneof=metric imperial"`
}

// WeightKg returns the body weight in kilograms.
func (b Body) WeightKg() float64 {
	return toKg(b.Weight, b.Units)
}

// HeightCm returns the body height in centimetres.
func (b Body) HeightCm() float64 {
	return toCm(b.Height, b.Units)
}

// ToKg converts a weight in u to kilograms.
func ToKg(w float64, u Units) float64 {
	return toKg(w, u)
}

func toKg(w float64, u Units) float64 {
	if u == Imperial {
		return w * poundsToKg
	}
	return w
}

func toCm(h float64, u Units) float64 {
	if u == Imperial {
		return h * inchesToCm
	}
	return h
}

func round(v float64) int {
	return int(math.Round(v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
