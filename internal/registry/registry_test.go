package registry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/vitalcalc/internal/calc"
	"github.com/Skufu/vitalcalc/internal/catalog"
	"github.com/Skufu/vitalcalc/internal/labs"
	"github.com/Skufu/vitalcalc/internal/risk"
	"github.com/Skufu/vitalcalc/internal/symptoms"
	"github.com/Skufu/vitalcalc/internal/workout"
)

func newTestRegistry() *Registry {
	return New(catalog.NewHolder(catalog.MustDefault()), risk.DenominatorAnswered)
}

func TestNames(t *testing.T) {
	r := newTestRegistry()
	assert.Equal(t, []string{
		"bmr", "tdee", "calories", "macros", "protein", "ideal-weight", "bmi", "caffeine",
		"heart-rate-zones", "sleep", "blood-pressure", "risk", "lab", "symptoms", "workout",
	}, r.Names())
	assert.Len(t, r.List(), len(r.Names()))
}

func TestEvalBMRAndTDEE(t *testing.T) {
	r := newTestRegistry()

	out, err := r.Eval("bmr", []byte(`{"sex":"male","age":30,"weight":70,"height":175}`))
	require.NoError(t, err)
	assert.Equal(t, 1649, out.(calc.BMRResult).BMR)

	out, err = r.Eval("tdee", []byte(`{"sex":"male","age":30,"weight":70,"height":175,"activity":"sedentary"}`))
	require.NoError(t, err)
	assert.Equal(t, 1979, out.(calc.TDEEResult).TDEE)
}

func TestEvalErrors(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Eval("astrology", []byte(`{}`))
	assert.True(t, errors.Is(err, ErrUnknownCalculator))

	for name, body := range map[string]string{
		"empty":         ``,
		"syntax":        `{"age":`,
		"unknown field": `{"sex":"male","age":30,"weight":70,"height":175,"shoeSize":44}`,
		"trailing":      `{"systolic":120,"diastolic":80} {}`,
		"extra brace":   `{"systolic":128,"diastolic":82}}`,
		"extra bracket": `{"systolic":128,"diastolic":82}]`,
	} {
		calcName := "bmr"
		if strings.HasPrefix(body, `{"systolic"`) {
			calcName = "blood-pressure"
		}
		_, err := r.Eval(calcName, []byte(body))
		assert.True(t, errors.Is(err, ErrMalformedInput), "%s: %v", name, err)
	}

	_, err = r.Eval("bmr", []byte(`{"sex":"male","age":0,"weight":70}`))
	verrs, ok := calc.AsValidation(err)
	require.True(t, ok, "got %v", err)
	assert.Len(t, verrs, 2)
}

func TestEvalRisk(t *testing.T) {
	r := newTestRegistry()
	out, err := r.Eval("risk", []byte(`{"answers":{"age":70,"smoking":"daily","family_heart_disease":true}}`))
	require.NoError(t, err)

	a := out.(risk.Assessment)
	require.NotEmpty(t, a.Categories)
	cv := a.Categories[0]
	assert.Equal(t, "cardiovascular", cv.Category)
	assert.Equal(t, 100.0, cv.Percentage)
	assert.Equal(t, risk.High, cv.Level)
	assert.NotEmpty(t, cv.Recommendations)

	// weight 3 at the 0.3 age band scores 0.9 of 3, exactly 30%.
	out, err = r.Eval("risk", []byte(`{"answers":{"age":40}}`))
	require.NoError(t, err)
	cv = out.(risk.Assessment).Categories[0]
	assert.Equal(t, 30.0, cv.Percentage)
	assert.Equal(t, risk.Moderate, cv.Level)

	_, err = r.Eval("risk", []byte(`{"answers":{"smoking":true}}`))
	_, ok := calc.AsValidation(err)
	assert.True(t, ok, "boolean answer to an enum factor: %v", err)
}

func TestEvalLab(t *testing.T) {
	r := newTestRegistry()

	out, err := r.Eval("lab", []byte(`{"testId":"glucose_fasting","value":99}`))
	require.NoError(t, err)
	assert.Equal(t, labs.Normal, out.(labs.Result).Status)

	out, err = r.Eval("lab", []byte(`{"gender":"male","readings":[{"testId":"glucose_fasting","value":250},{"testId":"hemoglobin","value":12.5}]}`))
	require.NoError(t, err)
	panel := out.([]labs.Result)
	require.Len(t, panel, 2)
	assert.Equal(t, labs.CriticalHigh, panel[0].Status)
	assert.Equal(t, labs.StatusLow, panel[1].Status)

	_, err = r.Eval("lab", []byte(`{"testId":"unobtainium","value":1}`))
	assert.True(t, errors.Is(err, labs.ErrUnknownTest))

	_, err = r.Eval("lab", []byte(`{"testId":"glucose_fasting"}`))
	_, ok := calc.AsValidation(err)
	assert.True(t, ok)
}

func TestEvalCatalogBacked(t *testing.T) {
	r := newTestRegistry()

	out, err := r.Eval("symptoms", []byte(`{"symptoms":["Chest pain","shortness-of-breath"]}`))
	require.NoError(t, err)
	res := out.(symptoms.CheckResult)
	assert.True(t, res.Urgent)
	var ids []string
	for _, m := range res.Matches {
		ids = append(ids, m.Condition.ID)
	}
	assert.Contains(t, ids, "heart_attack")

	out, err = r.Eval("caffeine", []byte(`{"weight":70,"servings":[{"beverage":"coffee","count":2}]}`))
	require.NoError(t, err)
	assert.Equal(t, 190, out.(calc.CaffeineResult).IntakeMg)

	out, err = r.Eval("workout", []byte(`{"goal":"general","level":"beginner","daysPerWeek":3,"minutes":30,"weight":70}`))
	require.NoError(t, err)
	assert.Len(t, out.(workout.WeekPlan).Days, 3)
}

func TestVersionFollowsCatalog(t *testing.T) {
	h := catalog.NewHolder(catalog.MustDefault())
	r := New(h, risk.DenominatorAll)
	before := r.Version()
	assert.Contains(t, before, "/all")

	dir := t.TempDir()
	require.NoError(t, writeBeverages(dir))
	c, err := catalog.Load(dir)
	require.NoError(t, err)
	h.Swap(c)
	assert.NotEqual(t, before, r.Version())

	_, version, err := r.Run("blood-pressure", []byte(`{"systolic":118,"diastolic":76}`))
	require.NoError(t, err)
	assert.Equal(t, r.Version(), version)
}

func TestEvalAllowsTrailingWhitespace(t *testing.T) {
	r := newTestRegistry()
	out, err := r.Eval("blood-pressure", []byte("{\"systolic\":118,\"diastolic\":76}\n  "))
	require.NoError(t, err)
	assert.Equal(t, calc.BPNormal, out.(calc.BloodPressureResult).Category)
}

func writeBeverages(dir string) error {
	body := "beverages:\n  - {id: mate, name: Yerba mate, serving: 240 ml, mg: 80}\n"
	return os.WriteFile(filepath.Join(dir, "beverages.yaml"), []byte(body), 0o644)
}
