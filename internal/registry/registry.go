// Package registry exposes every calculator under a stable name with a JSON
// input, so the HTTP API and the CLI share one dispatch table.
package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Skufu/vitalcalc/internal/calc"
	"github.com/Skufu/vitalcalc/internal/catalog"
	"github.com/Skufu/vitalcalc/internal/labs"
	"github.com/Skufu/vitalcalc/internal/risk"
	"github.com/Skufu/vitalcalc/internal/symptoms"
	"github.com/Skufu/vitalcalc/internal/workout"
)

var (
	ErrUnknownCalculator = errors.New("unknown calculator")
	ErrMalformedInput    = errors.New("malformed input")
)

// Info describes one calculator.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type runFunc func(c *catalog.Catalog, opts risk.Options, raw []byte) (any, error)

type entry struct {
	Info
	run runFunc
}

// Registry dispatches named calculators against the current catalog.
type Registry struct {
	holder      *catalog.Holder
	denominator risk.Denominator
	entries     []entry
	byName      map[string]int
}

// New builds the registry. Risk scoring uses denominator d.
func New(h *catalog.Holder, d risk.Denominator) *Registry {
	r := &Registry{holder: h, denominator: d, byName: make(map[string]int)}
	r.add("bmr", "Basal metabolic rate (Mifflin-St Jeor, Harris-Benedict, Katch-McArdle)", typed(calc.BMR))
	r.add("tdee", "Total daily energy expenditure from BMR and activity level", typed(calc.TDEE))
	r.add("calories", "Daily calorie target for a weight goal", typed(calc.Calories))
	r.add("macros", "Protein, carbohydrate and fat split of a calorie target", typed(calc.Macros))
	r.add("protein", "Daily protein need by body weight and activity", typed(calc.Protein))
	r.add("ideal-weight", "Ideal body weight by the Devine, Robinson, Miller and Hamwi formulas", typed(calc.IdealWeight))
	r.add("bmi", "Body mass index and category", typed(calc.BMI))
	r.add("caffeine", "Caffeine intake against a personal daily limit", caffeine)
	r.add("heart-rate-zones", "Karvonen heart rate training zones", typed(calc.HeartRateZones))
	r.add("sleep", "Bedtimes or wake times aligned to 90 minute sleep cycles", typed(calc.SleepTimes))
	r.add("blood-pressure", "Blood pressure category", typed(calc.BloodPressure))
	r.add("risk", "Weighted health risk assessment per category", assess)
	r.add("lab", "Lab value interpretation against reference ranges", lab)
	r.add("symptoms", "Conditions matching a set of symptoms", checkSymptoms)
	r.add("workout", "Weekly workout plan", plan)
	return r
}

func (r *Registry) add(name, desc string, run runFunc) {
	r.byName[name] = len(r.entries)
	r.entries = append(r.entries, entry{Info: Info{Name: name, Description: desc}, run: run})
}

// Names lists calculator names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Name
	}
	return out
}

func (r *Registry) List() []Info {
	out := make([]Info, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Info
	}
	return out
}

// Version identifies everything besides the input that a result depends on.
func (r *Registry) Version() string {
	return r.holder.Get().Digest() + "/" + string(r.denominator)
}

// Eval runs calculator name on a JSON input. Decoding failures wrap
// ErrMalformedInput; rejected values come back as calc.ValidationErrors.
func (r *Registry) Eval(name string, input []byte) (any, error) {
	out, _, err := r.Run(name, input)
	return out, err
}

// Run is Eval that also returns the Version of the catalog snapshot the
// result was computed from.
func (r *Registry) Run(name string, input []byte) (any, string, error) {
	i, ok := r.byName[name]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownCalculator, name)
	}
	c := r.holder.Get()
	version := c.Digest() + "/" + string(r.denominator)
	opts := risk.Options{Denominator: r.denominator, Recommendations: c.Recommendations}
	out, err := r.entries[i].run(c, opts, input)
	if err != nil {
		return nil, "", err
	}
	return out, version, nil
}

func decode(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty input", ErrMalformedInput)
		}
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", ErrMalformedInput)
	}
	return nil
}

func typed[In, Out any](fn func(In) (Out, error)) runFunc {
	return func(_ *catalog.Catalog, _ risk.Options, raw []byte) (any, error) {
		var in In
		if err := decode(raw, &in); err != nil {
			return nil, err
		}
		out, err := fn(in)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

func caffeine(c *catalog.Catalog, _ risk.Options, raw []byte) (any, error) {
	var in calc.CaffeineInput
	if err := decode(raw, &in); err != nil {
		return nil, err
	}
	return calc.Caffeine(in, c.CaffeineTable())
}

// RiskInput is the input of the risk calculator.
type RiskInput struct {
	Answers map[string]risk.Answer `json:"answers" validate:"required"`
}

func assess(c *catalog.Catalog, opts risk.Options, raw []byte) (any, error) {
	var in RiskInput
	if err := decode(raw, &in); err != nil {
		return nil, err
	}
	if err := calc.Validate(in); err != nil {
		return nil, err
	}
	return risk.Score(in.Answers, c.Factors, opts)
}

// LabInput takes either one test and value or a panel of readings.
type LabInput struct {
	TestID   string         `json:"testId,omitempty"`
	Value    *float64       `json:"value,omitempty"`
	Gender   string         `json:"gender,omitempty" validate:"omitempty,oneof=male female"`
	Readings []labs.Reading `json:"readings,omitempty" validate:"omitempty,max=30,dive"`
}

func lab(c *catalog.Catalog, _ risk.Options, raw []byte) (any, error) {
	var in LabInput
	if err := decode(raw, &in); err != nil {
		return nil, err
	}
	if err := calc.Validate(in); err != nil {
		return nil, err
	}
	if len(in.Readings) > 0 {
		if in.TestID != "" {
			return nil, calc.Invalid("testId", "give either testId or readings")
		}
		return labs.InterpretPanel(c.LabIndex(), in.Readings, in.Gender)
	}
	if in.TestID == "" {
		return nil, calc.Invalid("testId", "is required")
	}
	if in.Value == nil {
		return nil, calc.Invalid("value", "is required")
	}
	t, err := c.LabTest(in.TestID)
	if err != nil {
		return nil, err
	}
	return labs.Interpret(t, *in.Value, in.Gender)
}

func checkSymptoms(c *catalog.Catalog, _ risk.Options, raw []byte) (any, error) {
	var in symptoms.CheckInput
	if err := decode(raw, &in); err != nil {
		return nil, err
	}
	return symptoms.Check(in, c.Symptoms, c.Conditions)
}

func plan(c *catalog.Catalog, _ risk.Options, raw []byte) (any, error) {
	var in workout.Input
	if err := decode(raw, &in); err != nil {
		return nil, err
	}
	return workout.Plan(in, c.Exercises)
}
