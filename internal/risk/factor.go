// Package risk scores health-risk questionnaires. Each category's score is a
// weighted sum of factor contributions, normalised to a percentage and
// banded into low, moderate or high.
package risk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// InputType is how a factor is answered.
type InputType string

const (
	Boolean InputType = "boolean"
	Number  InputType = "number"
	Enum    InputType = "enum"
)

// Band is one step of a numeric factor: values strictly above Above
// contribute Fraction of the weight.
type Band struct {
	Above    float64 `json:"above" yaml:"above"`
	Fraction float64 `json:"fraction" yaml:"fraction"`
}

// AgeBands is the step function used by numeric factors without their own
// bands: >65 full weight, >45 70%, >35 30%, otherwise nothing.
var AgeBands = []Band{
	{Above: 65, Fraction: 1.0},
	{Above: 45, Fraction: 0.7},
	{Above: 35, Fraction: 0.3},
}

// Factor is one weighted question of an assessment.
type Factor struct {
	ID       string    `json:"id" yaml:"id"`
	Category string    `json:"category" yaml:"category"`
	Label    string    `json:"label" yaml:"label"`
	Input    InputType `json:"input" yaml:"input"`
	Weight   float64   `json:"weight" yaml:"weight"`
	// Options is ordered from lowest to highest risk.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
	Bands   []Band   `json:"bands,omitempty" yaml:"bands,omitempty"`
}

// Validate reports a malformed factor definition.
func (f Factor) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("factor: id is required")
	}
	if f.Category == "" {
		return fmt.Errorf("factor %s: category is required", f.ID)
	}
	if f.Weight <= 0 {
		return fmt.Errorf("factor %s: weight must be positive, got %v", f.ID, f.Weight)
	}
	switch f.Input {
	case Boolean, Number:
	case Enum:
		if len(f.Options) < 2 {
			return fmt.Errorf("factor %s: enum needs at least 2 options, got %d", f.ID, len(f.Options))
		}
	default:
		return fmt.Errorf("factor %s: unknown input type %q", f.ID, f.Input)
	}
	for i := 1; i < len(f.Bands); i++ {
		if f.Bands[i].Above >= f.Bands[i-1].Above {
			return fmt.Errorf("factor %s: bands must be in descending order", f.ID)
		}
	}
	return nil
}

// OptionIndex returns the position of option in the factor's list, matching
// case-insensitively.
func (f Factor) OptionIndex(option string) (int, bool) {
	option = strings.TrimSpace(option)
	for i, o := range f.Options {
		if strings.EqualFold(o, option) {
			return i, true
		}
	}
	return -1, false
}

// Answer is a raw user answer: a boolean, a number or a selected option.
type Answer struct {
	kind   InputType
	flag   bool
	number float64
	option string
}

// Bool, Num and Option build answers of each kind.
func Bool(v bool) Answer { return Answer{kind: Boolean, flag: v} }

func Num(v float64) Answer { return Answer{kind: Number, number: v} }

func Option(v string) Answer { return Answer{kind: Enum, option: v} }

// Kind reports which constructor built the answer.
func (a Answer) Kind() InputType { return a.kind }

func (a Answer) String() string {
	switch a.kind {
	case Boolean:
		return fmt.Sprint(a.flag)
	case Number:
		return fmt.Sprint(a.number)
	default:
		return a.option
	}
}

// UnmarshalJSON infers the kind from the JSON type.
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("answer must not be null")
	}
	switch data[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*a = Bool(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Option(s)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("answer must be a boolean, number or string: %w", err)
		}
		*a = Num(n)
	}
	return nil
}

// MarshalJSON writes the answer as its natural JSON type.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case Boolean:
		return json.Marshal(a.flag)
	case Number:
		return json.Marshal(a.number)
	default:
		return json.Marshal(a.option)
	}
}
