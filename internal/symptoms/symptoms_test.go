package symptoms

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/Skufu/vitalcalc/internal/calc"
)

var (
	testSymptoms = []Symptom{
		{ID: "fever", Label: "Fever"},
		{ID: "cough", Label: "Cough"},
		{ID: "headache", Label: "Headache"},
		{ID: "sore_throat", Label: "Sore throat"},
		{ID: "chest_pain", Label: "Chest pain", Emergency: true},
	}
	testConditions = []Condition{
		{ID: "flu", Name: "Influenza", Symptoms: []string{"fever", "cough", "headache", "sore_throat"}},
		{ID: "cold", Name: "Common cold", Symptoms: []string{"cough", "sore_throat"}},
		{ID: "migraine", Name: "Migraine", Symptoms: []string{"headache"}},
		{ID: "angina", Name: "Angina", Symptoms: []string{"chest_pain"}},
	}
)

func TestMatchFiltersAndSorts(t *testing.T) {
	got := Match([]string{"cough", "headache"}, testConditions)

	ids := make([]string, 0, len(got))
	pcts := make([]float64, 0, len(got))
	for _, m := range got {
		ids = append(ids, m.Condition.ID)
		pcts = append(pcts, m.MatchPercentage)
	}
	if diff := cmp.Diff([]string{"migraine", "flu", "cold"}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1, 0.5, 0.5}, pcts); diff != "" {
		t.Fatalf("percentages mismatch (-want +got):\n%s", diff)
	}
	for _, m := range got {
		if m.Condition.ID == "angina" {
			t.Fatal("condition without matches must not appear")
		}
	}
}

func TestMatchFullOverlap(t *testing.T) {
	got := Match([]string{"Cough", " Sore Throat "}, testConditions)
	if len(got) == 0 || got[0].Condition.ID != "cold" || got[0].MatchPercentage != 1.0 {
		t.Fatalf("expected cold at 100%%, got %+v", got)
	}
	if diff := cmp.Diff([]string{"cough", "sore_throat"}, got[0].Matched); diff != "" {
		t.Fatalf("matched mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchNothingSelected(t *testing.T) {
	if got := Match(nil, testConditions); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Sore   Throat ", "sore_throat"},
		{"short-of-breath", "short_of_breath"},
		{"ＦＥＶＥＲ", "fever"}, // fullwidth
	}
	for _, tc := range tests {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCheckFlagsEmergency(t *testing.T) {
	res, err := Check(CheckInput{Symptoms: []string{"chest_pain", "cough", "chest pain"}}, testSymptoms, testConditions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Urgent || len(res.Emergency) != 1 {
		t.Fatalf("expected one emergency symptom, got %+v", res.Emergency)
	}
	if res.Disclaimer == "" {
		t.Fatal("missing disclaimer")
	}
}

func TestCheckLimit(t *testing.T) {
	res, err := Check(CheckInput{Symptoms: []string{"cough", "headache"}, Limit: 1}, testSymptoms, testConditions)
	if err != nil {
		t.Fatal(err)
	}
	want := []ScoredCondition{{
		Condition:       testConditions[2],
		Matched:         []string{"headache"},
		MatchCount:      1,
		MatchPercentage: 1,
	}}
	if diff := cmp.Diff(want, res.Matches, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("matches mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckRejectsUnknownAndEmpty(t *testing.T) {
	_, err := Check(CheckInput{Symptoms: []string{"cough", "tail_loss"}}, testSymptoms, testConditions)
	verrs, ok := calc.AsValidation(err)
	if !ok || len(verrs) != 1 || verrs[0].Field != "symptoms[1]" {
		t.Fatalf("expected unknown symptom error, got %v", err)
	}

	if _, err := Check(CheckInput{}, testSymptoms, testConditions); err == nil {
		t.Fatal("expected error for empty selection")
	}
}

func TestValidateTables(t *testing.T) {
	if err := ValidateTables(testSymptoms, testConditions); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := append([]Condition{}, testConditions...)
	bad = append(bad, Condition{ID: "x", Symptoms: []string{"tail_loss"}})
	if err := ValidateTables(testSymptoms, bad); err == nil {
		t.Fatal("expected unknown symptom error")
	}
	if err := ValidateTables(append(testSymptoms, Symptom{ID: "Fever"}), testConditions); err == nil {
		t.Fatal("expected duplicate symptom error")
	}
	repeated := []Condition{{ID: "x", Symptoms: []string{"fever", " Fever", "cough"}}}
	err := ValidateTables(testSymptoms, repeated)
	if err == nil || !strings.Contains(err.Error(), "duplicate symptom") {
		t.Fatalf("expected duplicate symptom in condition error, got %v", err)
	}
}

func TestMatchCountsRepeatedSymptomsOnce(t *testing.T) {
	got := Match([]string{"fever"}, []Condition{{ID: "x", Symptoms: []string{"fever", "Fever", "cough"}}})
	if len(got) != 1 {
		t.Fatalf("expected one match, got %d", len(got))
	}
	if got[0].MatchCount != 1 || got[0].MatchPercentage != 0.5 {
		t.Fatalf("expected 1 match at 0.5, got %d at %v", got[0].MatchCount, got[0].MatchPercentage)
	}
}
