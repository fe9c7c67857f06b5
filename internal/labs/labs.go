// Package labs interprets single laboratory values against reference ranges.
package labs

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Skufu/vitalcalc/internal/calc"
)

// ErrUnknownTest is returned for a test id missing from the catalog.
var ErrUnknownTest = errors.New("unknown lab test")

// Status is the band a value falls in.
type Status string

const (
	CriticalLow  Status = "critical_low"
	StatusLow    Status = "low"
	Normal       Status = "normal"
	StatusHigh   Status = "high"
	CriticalHigh Status = "critical_high"
)

// Critical multipliers: below half the minimum or above double the maximum.
const (
	criticalLowFactor  = 0.5
	criticalHighFactor = 2.0
)

const urgentAdvice = "This result is far outside the reference range. Contact a healthcare provider promptly."

// Range is an inclusive reference range.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Advice holds static recommendations by band class.
type Advice struct {
	Low    []string `json:"low,omitempty" yaml:"low"`
	Normal []string `json:"normal,omitempty" yaml:"normal"`
	High   []string `json:"high,omitempty" yaml:"high"`
}

// Test is one lab test definition.
type Test struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Unit        string           `json:"unit" yaml:"unit"`
	Description string           `json:"description,omitempty" yaml:"description"`
	Range       Range            `json:"range" yaml:"range"`
	Ranges      map[string]Range `json:"ranges,omitempty" yaml:"ranges"`
	Advice      Advice           `json:"-" yaml:"advice"`
}

// Validate reports a malformed test definition.
func (t Test) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("lab test: id is required")
	}
	if err := checkRange(t.Range); err != nil {
		return fmt.Errorf("lab test %s: %w", t.ID, err)
	}
	for g, r := range t.Ranges {
		if err := checkRange(r); err != nil {
			return fmt.Errorf("lab test %s (%s): %w", t.ID, g, err)
		}
	}
	return nil
}

func checkRange(r Range) error {
	if r.Min < 0 || r.Max <= 0 || r.Min > r.Max {
		return fmt.Errorf("invalid range %v-%v", r.Min, r.Max)
	}
	return nil
}

// RangeFor returns the gender-specific range if the test has one.
func (t Test) RangeFor(gender string) Range {
	if r, ok := t.Ranges[strings.ToLower(strings.TrimSpace(gender))]; ok {
		return r
	}
	return t.Range
}

// Result is the interpretation of one value.
type Result struct {
	TestID          string   `json:"testId"`
	Name            string   `json:"name"`
	Value           float64  `json:"value"`
	Unit            string   `json:"unit"`
	Range           Range    `json:"range"`
	Status          Status   `json:"status"`
	Interpretation  string   `json:"interpretation"`
	Recommendations []string `json:"recommendations"`
}

// Classify bands value against r. All comparisons are strict: min and max
// themselves are normal, and exactly twice the maximum is high, not critical.
func Classify(value float64, r Range) Status {
	switch {
	case value < r.Min*criticalLowFactor:
		return CriticalLow
	case value < r.Min:
		return StatusLow
	case value > r.Max*criticalHighFactor:
		return CriticalHigh
	case value > r.Max:
		return StatusHigh
	default:
		return Normal
	}
}

// Interpret classifies value for test and attaches the static advice.
func Interpret(test Test, value float64, gender string) (Result, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Result{}, calc.Invalid("value", "must be a finite number")
	}
	if value < 0 {
		return Result{}, calc.Invalid("value", "must not be negative")
	}
	r := test.RangeFor(gender)
	status := Classify(value, r)

	return Result{
		TestID:          test.ID,
		Name:            test.Name,
		Value:           value,
		Unit:            test.Unit,
		Range:           r,
		Status:          status,
		Interpretation:  interpretation(test, value, r, status),
		Recommendations: recommendations(test.Advice, status),
	}, nil
}

func interpretation(t Test, value float64, r Range, s Status) string {
	where := map[Status]string{
		CriticalLow:  "critically below",
		StatusLow:    "below",
		Normal:       "within",
		StatusHigh:   "above",
		CriticalHigh: "critically above",
	}[s]
	return fmt.Sprintf("Your %s of %g %s is %s the reference range (%g-%g %s).",
		t.Name, value, t.Unit, where, r.Min, r.Max, t.Unit)
}

func recommendations(a Advice, s Status) []string {
	var lines []string
	switch s {
	case CriticalLow, CriticalHigh:
		lines = append(lines, urgentAdvice)
	}
	switch s {
	case CriticalLow, StatusLow:
		lines = append(lines, a.Low...)
	case CriticalHigh, StatusHigh:
		lines = append(lines, a.High...)
	default:
		lines = append(lines, a.Normal...)
	}
	if lines == nil {
		lines = []string{}
	}
	return lines
}

// Reading is one value of a panel.
type Reading struct {
	TestID string  `json:"testId" validate:"required"`
	Value  float64 `json:"value"`
}

// InterpretPanel interprets several readings with one gender. Unknown tests
// and bad values are collected into calc.ValidationErrors.
func InterpretPanel(tests map[string]Test, readings []Reading, gender string) ([]Result, error) {
	var errs calc.ValidationErrors
	out := make([]Result, 0, len(readings))
	for i, rd := range readings {
		field := fmt.Sprintf("readings[%d]", i)
		t, ok := tests[rd.TestID]
		if !ok {
			errs = append(errs, &calc.ValidationError{Field: field, Reason: fmt.Sprintf("%v %q", ErrUnknownTest, rd.TestID)})
			continue
		}
		res, err := Interpret(t, rd.Value, gender)
		if err != nil {
			errs = append(errs, &calc.ValidationError{Field: field, Reason: err.Error()})
			continue
		}
		out = append(out, res)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}
