// Package symptoms ranks conditions by how many of their common symptoms a
// user selected.
package symptoms

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/Skufu/vitalcalc/internal/calc"
)

// Disclaimer accompanies every symptom check.
const Disclaimer = "This tool is for information only and is not a diagnosis. Consult a healthcare professional about your symptoms."

const defaultLimit = 5

// Symptom is one selectable symptom.
type Symptom struct {
	ID        string `json:"id" yaml:"id"`
	Label     string `json:"label" yaml:"label"`
	Emergency bool   `json:"emergency,omitempty" yaml:"emergency"`
}

// Condition is a condition and the symptoms commonly seen with it.
type Condition struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Symptoms []string `json:"symptoms" yaml:"symptoms"`
	Severity string   `json:"severity" yaml:"severity"`
	Advice   string   `json:"advice,omitempty" yaml:"advice"`
}

// ScoredCondition is a condition with at least one matched symptom.
type ScoredCondition struct {
	Condition       Condition `json:"condition"`
	Matched         []string  `json:"matched"`
	MatchCount      int       `json:"matchCount"`
	MatchPercentage float64   `json:"matchPercentage"`
}

// Normalize folds a symptom id: NFKC, trimmed, lower case, inner spaces and
// hyphens as underscores.
func Normalize(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	s = strings.ToLower(strings.Join(strings.Fields(s), "_"))
	return strings.ReplaceAll(s, "-", "_")
}

// Match scores every condition: matchPercentage = |selected ∩ symptoms| /
// |symptoms|. Conditions without a matched symptom are dropped; the rest are
// sorted by percentage descending, ties keeping table order.
func Match(selected []string, conditions []Condition) []ScoredCondition {
	set := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		set[Normalize(s)] = struct{}{}
	}

	var out []ScoredCondition
	for _, c := range conditions {
		if len(c.Symptoms) == 0 {
			continue
		}
		// A condition's symptoms are a set; repeats count once.
		var matched []string
		seen := make(map[string]struct{}, len(c.Symptoms))
		for _, s := range c.Symptoms {
			id := Normalize(s)
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if _, ok := set[id]; ok {
				matched = append(matched, s)
			}
		}
		if len(matched) == 0 {
			continue
		}
		out = append(out, ScoredCondition{
			Condition:       c,
			Matched:         matched,
			MatchCount:      len(matched),
			MatchPercentage: float64(len(matched)) / float64(len(seen)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchPercentage > out[j].MatchPercentage
	})
	return out
}

// CheckInput is the input of Check.
type CheckInput struct {
	Symptoms []string `json:"symptoms" validate:"required,min=1,max=30"`
	Limit    int      `json:"limit,omitempty" validate:"omitempty,gte=1,lte=50"`
}

// CheckResult is the user-facing symptom check.
type CheckResult struct {
	Matches    []ScoredCondition `json:"matches"`
	Emergency  []Symptom         `json:"emergency"`
	Urgent     bool              `json:"urgent"`
	Disclaimer string            `json:"disclaimer"`
}

// Check validates the selection against the symptom table, flags emergency
// symptoms and returns the top matches.
func Check(in CheckInput, symptoms []Symptom, conditions []Condition) (CheckResult, error) {
	if err := calc.Validate(in); err != nil {
		return CheckResult{}, err
	}
	byID := make(map[string]Symptom, len(symptoms))
	for _, s := range symptoms {
		byID[Normalize(s.ID)] = s
	}

	var errs calc.ValidationErrors
	emergency := []Symptom{}
	seen := make(map[string]bool)
	for i, raw := range in.Symptoms {
		id := Normalize(raw)
		s, ok := byID[id]
		if !ok {
			errs = append(errs, &calc.ValidationError{
				Field:  fmt.Sprintf("symptoms[%d]", i),
				Reason: fmt.Sprintf("unknown symptom %q", raw),
			})
			continue
		}
		if s.Emergency && !seen[id] {
			emergency = append(emergency, s)
		}
		seen[id] = true
	}
	if len(errs) > 0 {
		return CheckResult{}, errs
	}

	limit := in.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	matches := Match(in.Symptoms, conditions)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	if matches == nil {
		matches = []ScoredCondition{}
	}
	return CheckResult{
		Matches:    matches,
		Emergency:  emergency,
		Urgent:     len(emergency) > 0,
		Disclaimer: Disclaimer,
	}, nil
}

// ValidateTables checks that every condition lists known symptoms, each once.
func ValidateTables(symptoms []Symptom, conditions []Condition) error {
	known := make(map[string]bool, len(symptoms))
	for _, s := range symptoms {
		id := Normalize(s.ID)
		if id == "" {
			return fmt.Errorf("symptom with empty id")
		}
		if known[id] {
			return fmt.Errorf("duplicate symptom %q", s.ID)
		}
		known[id] = true
	}
	ids := make(map[string]bool, len(conditions))
	for _, c := range conditions {
		if c.ID == "" {
			return fmt.Errorf("condition with empty id")
		}
		if ids[c.ID] {
			return fmt.Errorf("duplicate condition %q", c.ID)
		}
		ids[c.ID] = true
		if len(c.Symptoms) == 0 {
			return fmt.Errorf("condition %s: no symptoms", c.ID)
		}
		listed := make(map[string]bool, len(c.Symptoms))
		for _, s := range c.Symptoms {
			id := Normalize(s)
			if !known[id] {
				return fmt.Errorf("condition %s: unknown symptom %q", c.ID, s)
			}
			if listed[id] {
				return fmt.Errorf("condition %s: duplicate symptom %q", c.ID, s)
			}
			listed[id] = true
		}
	}
	return nil
}
