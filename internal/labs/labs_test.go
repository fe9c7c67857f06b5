package labs

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Skufu/vitalcalc/internal/calc"
)

var hemoglobin = Test{
	ID:    "hemoglobin",
	Name:  "Hemoglobin",
	Unit:  "g/dL",
	Range: Range{Min: 12, Max: 17.5},
	Ranges: map[string]Range{
		"male":   {Min: 13.5, Max: 17.5},
		"female": {Min: 12, Max: 15.5},
	},
	Advice: Advice{
		Low:    []string{"Ask about iron studies."},
		Normal: []string{"No action needed."},
		High:   []string{"Stay hydrated and recheck."},
	},
}

func TestClassifyBoundaries(t *testing.T) {
	r := Range{Min: 70, Max: 100}
	tests := []struct {
		value float64
		want  Status
	}{
		{34.9, CriticalLow},
		{35, StatusLow},
		{69.9, StatusLow},
		{70, Normal},
		{100, Normal},
		{100.1, StatusHigh},
		{200, StatusHigh},
		{200.1, CriticalHigh},
	}
	for _, tc := range tests {
		if got := Classify(tc.value, r); got != tc.want {
			t.Errorf("Classify(%v) = %s, want %s", tc.value, got, tc.want)
		}
	}
}

func TestInterpretUsesGenderRange(t *testing.T) {
	res, err := Interpret(hemoglobin, 13, "female")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != Normal {
		t.Fatalf("expected normal for female, got %s", res.Status)
	}

	res, err = Interpret(hemoglobin, 13, "Male")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusLow || res.Range.Min != 13.5 {
		t.Fatalf("expected low against male range, got %+v", res)
	}

	res, err = Interpret(hemoglobin, 13, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Range != hemoglobin.Range {
		t.Fatalf("expected default range, got %+v", res.Range)
	}
}

func TestInterpretRecommendations(t *testing.T) {
	res, err := Interpret(hemoglobin, 5, "male")
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != CriticalLow {
		t.Fatalf("expected critical low, got %s", res.Status)
	}
	if len(res.Recommendations) != 2 || res.Recommendations[0] != urgentAdvice {
		t.Fatalf("expected urgent line then low advice, got %v", res.Recommendations)
	}
	if !strings.Contains(res.Interpretation, "critically below") {
		t.Fatalf("unexpected interpretation %q", res.Interpretation)
	}

	res, err = Interpret(hemoglobin, 15, "male")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Recommendations) != 1 || res.Recommendations[0] != "No action needed." {
		t.Fatalf("unexpected normal advice %v", res.Recommendations)
	}
}

func TestInterpretRejectsBadValues(t *testing.T) {
	for _, v := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := Interpret(hemoglobin, v, "male"); err == nil {
			t.Errorf("expected error for %v", v)
		}
	}
}

func TestInterpretPanel(t *testing.T) {
	tests := map[string]Test{"hemoglobin": hemoglobin}

	out, err := InterpretPanel(tests, []Reading{{TestID: "hemoglobin", Value: 14}}, "male")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Status != Normal {
		t.Fatalf("unexpected panel %+v", out)
	}

	_, err = InterpretPanel(tests, []Reading{{TestID: "unicorn", Value: 1}, {TestID: "hemoglobin", Value: -2}}, "male")
	var verrs calc.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) != 2 {
		t.Fatalf("expected two validation errors, got %v", err)
	}
	if !strings.Contains(verrs[0].Reason, ErrUnknownTest.Error()) {
		t.Fatalf("unexpected reason %q", verrs[0].Reason)
	}
}

func TestValidate(t *testing.T) {
	if err := hemoglobin.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := hemoglobin
	bad.Ranges = map[string]Range{"male": {Min: 20, Max: 10}}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected inverted range to fail")
	}
}
