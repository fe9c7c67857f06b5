package risk

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Skufu/vitalcalc/internal/calc"
)

var (
	ErrAnswerType    = errors.New("answer type does not match factor")
	ErrUnknownOption = errors.New("unknown option")
	ErrUnknownFactor = errors.New("unknown factor")
)

// Level is a risk band.
type Level string

const (
	Low      Level = "low"
	Moderate Level = "moderate"
	High     Level = "high"
)

// Band thresholds in percent. Comparisons are strict, so exactly 30 is
// moderate and exactly 60 is high.
const (
	lowBelow      = 30.0
	moderateBelow = 60.0
)

// LevelFor bands a risk percentage.
func LevelFor(pct float64) Level {
	switch {
	case pct < lowBelow:
		return Low
	case pct < moderateBelow:
		return Moderate
	default:
		return High
	}
}

// Denominator selects which factors count toward a category's maximum.
type Denominator string

const (
	// DenominatorAnswered sums the weights of answered factors only.
	DenominatorAnswered Denominator = "answered"
	// DenominatorAll sums every factor of the category, answered or not, so a
	// partly answered category scores lower than a fully answered one.
	DenominatorAll Denominator = "all"
)

// ParseDenominator accepts "answered" or "all"; empty means answered.
func ParseDenominator(s string) (Denominator, error) {
	switch Denominator(s) {
	case "", DenominatorAnswered:
		return DenominatorAnswered, nil
	case DenominatorAll:
		return DenominatorAll, nil
	default:
		return "", fmt.Errorf("unknown risk denominator %q", s)
	}
}

// Recommendations is the static advice lookup category -> level -> lines.
type Recommendations map[string]map[Level][]string

// Options tunes Score.
type Options struct {
	Denominator     Denominator
	Recommendations Recommendations
}

// CategoryResult is the score of one category.
type CategoryResult struct {
	Category        string   `json:"category"`
	Score           float64  `json:"score"`
	MaxScore        float64  `json:"maxScore"`
	Percentage      float64  `json:"percentage"`
	Level           Level    `json:"level"`
	Answered        int      `json:"answered"`
	Total           int      `json:"total"`
	Recommendations []string `json:"recommendations"`
}

// Assessment is the full result of Score.
type Assessment struct {
	Categories  []CategoryResult `json:"categories"`
	Overall     float64          `json:"overallPercentage"`
	Level       Level            `json:"overallLevel"`
	Denominator Denominator      `json:"denominator"`
}

// Contribution is the part of f's weight that answer a earns:
//   - boolean: weight when true, else 0
//   - number: weight times the fraction of the first band the value exceeds
//   - enum: weight * index/(options-1)
func Contribution(f Factor, a Answer) (float64, error) {
	if a.kind != f.Input {
		return 0, fmt.Errorf("%s: %w: want %s, got %s", f.ID, ErrAnswerType, f.Input, a.kind)
	}
	switch f.Input {
	case Boolean:
		if a.flag {
			return f.Weight, nil
		}
		return 0, nil
	case Number:
		if math.IsNaN(a.number) || math.IsInf(a.number, 0) {
			return 0, fmt.Errorf("%s: %w: number is not finite", f.ID, ErrAnswerType)
		}
		bands := f.Bands
		if len(bands) == 0 {
			bands = AgeBands
		}
		for _, b := range bands {
			if a.number > b.Above {
				return f.Weight * b.Fraction, nil
			}
		}
		return 0, nil
	case Enum:
		i, ok := f.OptionIndex(a.option)
		if !ok {
			return 0, fmt.Errorf("%s: %w %q", f.ID, ErrUnknownOption, a.option)
		}
		return f.Weight * float64(i) / float64(len(f.Options)-1), nil
	}
	return 0, fmt.Errorf("%s: unknown input type %q", f.ID, f.Input)
}

// Score evaluates answers against factors. Categories are reported in the
// order they first appear in factors. Unanswered factors contribute nothing;
// whether they still count toward MaxScore depends on opts.Denominator.
// Every bad answer is reported as a calc.ValidationError keyed by factor id.
func Score(answers map[string]Answer, factors []Factor, opts Options) (Assessment, error) {
	denom := opts.Denominator
	if denom == "" {
		denom = DenominatorAnswered
	}

	known := make(map[string]bool, len(factors))
	for _, f := range factors {
		known[f.ID] = true
	}
	var unknown []string
	for id := range answers {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	var errs calc.ValidationErrors
	for _, id := range unknown {
		errs = append(errs, &calc.ValidationError{Field: id, Reason: ErrUnknownFactor.Error()})
	}

	var order []string
	byCategory := make(map[string]*CategoryResult)
	for _, f := range factors {
		cr, ok := byCategory[f.Category]
		if !ok {
			cr = &CategoryResult{Category: f.Category}
			byCategory[f.Category] = cr
			order = append(order, f.Category)
		}
		cr.Total++
		if denom == DenominatorAll {
			cr.MaxScore += f.Weight
		}

		a, ok := answers[f.ID]
		if !ok {
			continue
		}
		c, err := Contribution(f, a)
		if err != nil {
			errs = append(errs, &calc.ValidationError{Field: f.ID, Reason: err.Error()})
			continue
		}
		cr.Answered++
		cr.Score += c
		if denom == DenominatorAnswered {
			cr.MaxScore += f.Weight
		}
	}
	if len(errs) > 0 {
		return Assessment{}, errs
	}

	out := Assessment{Categories: make([]CategoryResult, 0, len(order)), Denominator: denom}
	var score, total float64
	for _, name := range order {
		cr := byCategory[name]
		cr.Percentage = percentage(cr.Score, cr.MaxScore)
		cr.Level = LevelFor(cr.Percentage)
		cr.Recommendations = opts.Recommendations[name][cr.Level]
		if cr.Recommendations == nil {
			cr.Recommendations = []string{}
		}
		score += cr.Score
		total += cr.MaxScore
		out.Categories = append(out.Categories, *cr)
	}
	out.Overall = percentage(score, total)
	out.Level = LevelFor(out.Overall)
	return out, nil
}

// percentPrecision is the number of decimal places a percentage is rounded
// to before banding, so weights like 3*0.3 still land on 30%.
const percentPrecision = 1e6

func percentage(score, total float64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(score*100/total*percentPrecision) / percentPrecision
}
