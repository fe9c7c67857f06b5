package calc

import (
	"errors"
	"math"
	"testing"
)

func TestBMRMifflinMale(t *testing.T) {
	res, err := BMR(BMRInput{Body: Body{Sex: Male, Age: 30, Weight: 70, Height: 175}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Exact != 1648.75 {
		t.Fatalf("expected exact 1648.75, got %v", res.Exact)
	}
	if res.BMR != 1649 {
		t.Fatalf("expected 1649, got %d", res.BMR)
	}
	if res.Formula != MifflinStJeor {
		t.Fatalf("expected default formula, got %s", res.Formula)
	}
}

func TestBMRMifflinFemale(t *testing.T) {
	res, err := BMR(BMRInput{Body: Body{Sex: Female, Age: 30, Weight: 60, Height: 165}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 600 + 1031.25 - 150 - 161
	if res.BMR != 1320 {
		t.Fatalf("expected 1320, got %d", res.BMR)
	}
}

func TestBMRImperialMatchesMetric(t *testing.T) {
	metric, err := BMR(BMRInput{Body: Body{Sex: Male, Age: 40, Weight: 80, Height: 180}})
	if err != nil {
		t.Fatal(err)
	}
	imperial, err := BMR(BMRInput{Body: Body{Sex: Male, Age: 40, Weight: 80 / poundsToKg, Height: 180 / inchesToCm, Units: Imperial}})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(metric.Exact-imperial.Exact) > 1e-6 {
		t.Fatalf("imperial %v != metric %v", imperial.Exact, metric.Exact)
	}
}

func TestBMRHarrisBenedict(t *testing.T) {
	res, err := BMR(BMRInput{Body: Body{Sex: Male, Age: 30, Weight: 70, Height: 175}, Formula: HarrisBenedict})
	if err != nil {
		t.Fatal(err)
	}
	want := 88.362 + 13.397*70 + 4.799*175 - 5.677*30
	if math.Abs(res.Exact-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, res.Exact)
	}
}

func TestBMRKatchMcArdleRequiresBodyFat(t *testing.T) {
	_, err := BMR(BMRInput{Body: Body{Sex: Male, Age: 30, Weight: 70, Height: 175}, Formula: KatchMcArdle})
	verrs, ok := AsValidation(err)
	if !ok || verrs[0].Field != "bodyFat" {
		t.Fatalf("expected bodyFat validation error, got %v", err)
	}

	res, err := BMR(BMRInput{Body: Body{Sex: Male, Age: 30, Weight: 80, Height: 175}, Formula: KatchMcArdle, BodyFat: 20})
	if err != nil {
		t.Fatal(err)
	}
	if res.BMR != round(370+21.6*64) {
		t.Fatalf("unexpected BMR %d", res.BMR)
	}
}

func TestBMRRejectsMissingInputs(t *testing.T) {
	_, err := BMR(BMRInput{Body: Body{Sex: Male}})
	verrs, ok := AsValidation(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	fields := map[string]bool{}
	for _, v := range verrs {
		fields[v.Field] = true
	}
	for _, f := range []string{"age", "weight", "height"} {
		if !fields[f] {
			t.Errorf("expected %s to be rejected, got %v", f, verrs)
		}
	}
	var target ValidationErrors
	if !errors.As(err, &target) {
		t.Fatal("expected errors.As to find ValidationErrors")
	}
}

func TestTDEESedentary(t *testing.T) {
	res, err := TDEE(TDEEInput{
		BMRInput: BMRInput{Body: Body{Sex: Male, Age: 30, Weight: 70, Height: 175}},
		Activity: Sedentary,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.BMR != 1649 || res.TDEE != 1979 {
		t.Fatalf("expected 1649/1979, got %d/%d", res.BMR, res.TDEE)
	}
}

func TestTDEERejectsUnknownActivity(t *testing.T) {
	_, err := TDEE(TDEEInput{
		BMRInput: BMRInput{Body: Body{Sex: Male, Age: 30, Weight: 70, Height: 175}},
		Activity: "couch",
	})
	if _, ok := AsValidation(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestActivityMultiplier(t *testing.T) {
	tests := []struct {
		level ActivityLevel
		want  float64
	}{
		{Sedentary, 1.2},
		{Light, 1.375},
		{Moderate, 1.55},
		{Active, 1.725},
		{VeryActive, 1.9},
	}
	for _, tc := range tests {
		got, ok := ActivityMultiplier(tc.level)
		if !ok || got != tc.want {
			t.Errorf("ActivityMultiplier(%s) = %v, want %v", tc.level, got, tc.want)
		}
	}
}
