package risk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/vitalcalc/internal/calc"
)

func testFactors() []Factor {
	return []Factor{
		{ID: "age", Category: "heart", Input: Number, Weight: 3},
		{ID: "smoker", Category: "heart", Input: Boolean, Weight: 2},
		{ID: "exercise", Category: "heart", Input: Enum, Weight: 5, Options: []string{"daily", "weekly", "rarely", "never"}},
		{ID: "family", Category: "diabetes", Input: Boolean, Weight: 4},
		{ID: "weight", Category: "diabetes", Input: Enum, Weight: 6, Options: []string{"normal", "overweight", "obese"}},
	}
}

func TestContributionBoolean(t *testing.T) {
	f := Factor{ID: "smoker", Input: Boolean, Weight: 2.5}

	c, err := Contribution(f, Bool(true))
	require.NoError(t, err)
	assert.Equal(t, 2.5, c)

	c, err = Contribution(f, Bool(false))
	require.NoError(t, err)
	assert.Zero(t, c)
}

func TestContributionAgeBands(t *testing.T) {
	f := Factor{ID: "age", Input: Number, Weight: 10}
	tests := []struct {
		age  float64
		want float64
	}{
		{20, 0},
		{35, 0},
		{36, 3},
		{45, 3},
		{46, 7},
		{65, 7},
		{66, 10},
		{90, 10},
	}
	for _, tc := range tests {
		c, err := Contribution(f, Num(tc.age))
		require.NoError(t, err)
		assert.InDelta(t, tc.want, c, 1e-9, "age %v", tc.age)
	}
}

func TestContributionCustomBands(t *testing.T) {
	f := Factor{ID: "bmi", Input: Number, Weight: 4, Bands: []Band{{Above: 30, Fraction: 1}, {Above: 25, Fraction: 0.5}}}
	c, err := Contribution(f, Num(27))
	require.NoError(t, err)
	assert.Equal(t, 2.0, c)
}

func TestContributionEnumOrdinal(t *testing.T) {
	f := Factor{ID: "exercise", Input: Enum, Weight: 6, Options: []string{"daily", "weekly", "rarely", "never"}}
	for i, opt := range f.Options {
		c, err := Contribution(f, Option(opt))
		require.NoError(t, err)
		assert.InDelta(t, 6*float64(i)/3, c, 1e-9, opt)
	}

	c, err := Contribution(f, Option(" Never "))
	require.NoError(t, err)
	assert.Equal(t, 6.0, c, "options match case-insensitively")
}

func TestContributionErrors(t *testing.T) {
	f := Factor{ID: "exercise", Input: Enum, Weight: 6, Options: []string{"daily", "never"}}

	_, err := Contribution(f, Option("hourly"))
	assert.ErrorIs(t, err, ErrUnknownOption)

	_, err = Contribution(f, Bool(true))
	assert.ErrorIs(t, err, ErrAnswerType)
}

func TestScoreSkipsUnansweredWithAnsweredDenominator(t *testing.T) {
	res, err := Score(map[string]Answer{
		"smoker": Bool(true),
	}, testFactors(), Options{})
	require.NoError(t, err)
	require.Len(t, res.Categories, 2)

	heart := res.Categories[0]
	assert.Equal(t, "heart", heart.Category)
	assert.Equal(t, 2.0, heart.Score)
	assert.Equal(t, 2.0, heart.MaxScore)
	assert.Equal(t, 100.0, heart.Percentage)
	assert.Equal(t, High, heart.Level)
	assert.Equal(t, 1, heart.Answered)
	assert.Equal(t, 3, heart.Total)

	diabetes := res.Categories[1]
	assert.Zero(t, diabetes.Answered)
	assert.Zero(t, diabetes.Percentage)
	assert.Equal(t, Low, diabetes.Level)
	assert.Equal(t, DenominatorAnswered, res.Denominator)
}

func TestScoreAllDenominatorKeepsFullMaximum(t *testing.T) {
	res, err := Score(map[string]Answer{
		"smoker": Bool(true),
	}, testFactors(), Options{Denominator: DenominatorAll})
	require.NoError(t, err)

	heart := res.Categories[0]
	assert.Equal(t, 10.0, heart.MaxScore)
	assert.Equal(t, 20.0, heart.Percentage)
	assert.Equal(t, Low, heart.Level)
	assert.Equal(t, 10.0, res.Categories[1].MaxScore)
}

func TestScoreBandBoundaries(t *testing.T) {
	factors := []Factor{
		{ID: "a", Category: "c", Input: Boolean, Weight: 3},
		{ID: "b", Category: "c", Input: Boolean, Weight: 3},
		{ID: "d", Category: "c", Input: Boolean, Weight: 4},
	}

	// 3 of 10 is exactly 30%.
	res, err := Score(map[string]Answer{"a": Bool(true), "b": Bool(false), "d": Bool(false)}, factors, Options{})
	require.NoError(t, err)
	assert.Equal(t, 30.0, res.Categories[0].Percentage)
	assert.Equal(t, Moderate, res.Categories[0].Level)

	// 6 of 10 is exactly 60%.
	res, err = Score(map[string]Answer{"a": Bool(true), "b": Bool(true), "d": Bool(false)}, factors, Options{})
	require.NoError(t, err)
	assert.Equal(t, 60.0, res.Categories[0].Percentage)
	assert.Equal(t, High, res.Categories[0].Level)
}

func TestScoreFractionalWeightsBand(t *testing.T) {
	// 3 * 0.3 is 0.8999999999999999 in float64.
	age := []Factor{{ID: "age", Category: "heart", Input: Number, Weight: 3}}
	res, err := Score(map[string]Answer{"age": Num(40)}, age, Options{})
	require.NoError(t, err)
	assert.Equal(t, 30.0, res.Categories[0].Percentage)
	assert.Equal(t, Moderate, res.Categories[0].Level)
	assert.Equal(t, Moderate, res.Level)

	// Option 3 of 6 on weight 0.7 against a total of 0.7 is 0.6.
	activity := []Factor{{
		ID: "activity", Category: "heart", Input: Enum, Weight: 0.7,
		Options: []string{"a", "b", "c", "d", "e", "f"},
	}}
	res, err = Score(map[string]Answer{"activity": Option("d")}, activity, Options{})
	require.NoError(t, err)
	assert.Equal(t, 60.0, res.Categories[0].Percentage)
	assert.Equal(t, High, res.Categories[0].Level)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, Low, LevelFor(0))
	assert.Equal(t, Low, LevelFor(29.99))
	assert.Equal(t, Moderate, LevelFor(30))
	assert.Equal(t, Moderate, LevelFor(59.99))
	assert.Equal(t, High, LevelFor(60))
	assert.Equal(t, High, LevelFor(100))
}

func TestScoreRecommendations(t *testing.T) {
	recs := Recommendations{
		"heart": {High: {"See a cardiologist."}},
	}
	res, err := Score(map[string]Answer{"smoker": Bool(true)}, testFactors(), Options{Recommendations: recs})
	require.NoError(t, err)
	assert.Equal(t, []string{"See a cardiologist."}, res.Categories[0].Recommendations)
	assert.Empty(t, res.Categories[1].Recommendations)
	assert.NotNil(t, res.Categories[1].Recommendations)
}

func TestScoreOverall(t *testing.T) {
	res, err := Score(map[string]Answer{
		"age":      Num(70),
		"smoker":   Bool(true),
		"exercise": Option("never"),
		"family":   Bool(false),
		"weight":   Option("normal"),
	}, testFactors(), Options{})
	require.NoError(t, err)
	// heart 10/10, diabetes 0/10
	assert.Equal(t, 50.0, res.Overall)
	assert.Equal(t, Moderate, res.Level)
}

func TestScoreReportsEveryBadAnswer(t *testing.T) {
	_, err := Score(map[string]Answer{
		"smoker":   Option("yes"),
		"exercise": Option("hourly"),
		"ghost":    Bool(true),
	}, testFactors(), Options{})
	verrs, ok := calc.AsValidation(err)
	require.True(t, ok, "expected validation errors, got %v", err)

	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"ghost", "smoker", "exercise"}, fields)
}

func TestAnswerJSON(t *testing.T) {
	var answers map[string]Answer
	require.NoError(t, json.Unmarshal([]byte(`{"a": true, "b": 52, "c": "weekly"}`), &answers))

	assert.Equal(t, Boolean, answers["a"].Kind())
	assert.Equal(t, Number, answers["b"].Kind())
	assert.Equal(t, Enum, answers["c"].Kind())
	assert.Equal(t, "52", answers["b"].String())

	var bad map[string]Answer
	assert.Error(t, json.Unmarshal([]byte(`{"a": null}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"a": [1]}`), &bad))
}

func TestFactorValidate(t *testing.T) {
	assert.NoError(t, testFactors()[0].Validate())
	assert.Error(t, Factor{ID: "x", Category: "c", Input: Enum, Weight: 1, Options: []string{"only"}}.Validate())
	assert.Error(t, Factor{ID: "x", Category: "c", Input: Boolean}.Validate())
	assert.Error(t, Factor{ID: "x", Category: "c", Input: "slider", Weight: 1}.Validate())
	assert.Error(t, Factor{ID: "x", Category: "c", Input: Number, Weight: 1, Bands: []Band{{Above: 10}, {Above: 20}}}.Validate())
}
