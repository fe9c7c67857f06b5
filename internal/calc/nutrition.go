package calc

import "math"

// Goal adjusts maintenance calories.
type Goal string

const (
	Lose     Goal = "lose"
	MildLose Goal = "mild_lose"
	Maintain Goal = "maintain"
	MildGain Goal = "mild_gain"
	Gain     Goal = "gain"
)

var goalOffsets = map[Goal]int{
	Lose:     -500,
	MildLose: -250,
	Maintain: 0,
	MildGain: 250,
	Gain:     500,
}

// Daily calorie floors below which a target is not recommended unsupervised.
const (
	minCaloriesFemale = 1200
	minCaloriesMale   = 1500
)

// CalorieInput is the input of Calories.
type CalorieInput struct {
	TDEEInput
	Goal Goal `json:"goal" validate:"required,oneof=lose mild_lose maintain mild_gain gain"`
}

// CalorieResult is a daily calorie target.
type CalorieResult struct {
	TDEE    int  `json:"tdee"`
	Offset  int  `json:"offset"`
	Target  int  `json:"target"`
	Floored bool `json:"floored"`
	// WeeklyChangeKg is the expected weekly weight change at the target.
	WeeklyChangeKg float64 `json:"weeklyChangeKg"`
}

// Calories derives a daily target from TDEE and a weight goal.
func Calories(in CalorieInput) (CalorieResult, error) {
	if err := Validate(in); err != nil {
		return CalorieResult{}, err
	}
	t, err := TDEE(in.TDEEInput)
	if err != nil {
		return CalorieResult{}, err
	}
	offset := goalOffsets[in.Goal]
	target := t.TDEE + offset

	floor := minCaloriesFemale
	if in.Sex == Male {
		floor = minCaloriesMale
	}
	floored := false
	if offset < 0 && target < floor {
		target = floor
		floored = true
	}

	// ~7700 kcal per kg of body mass.
	weekly := float64(target-t.TDEE) * 7 / 7700
	return CalorieResult{
		TDEE:           t.TDEE,
		Offset:         offset,
		Target:         target,
		Floored:        floored,
		WeeklyChangeKg: math.Round(weekly*100) / 100,
	}, nil
}

// Diet names a macronutrient split preset.
type Diet string

const (
	Balanced    Diet = "balanced"
	LowCarb     Diet = "low_carb"
	HighProtein Diet = "high_protein"
	Keto        Diet = "keto"
)

// MacroSplit is a protein/carbs/fat share of calories, summing to 1.
type MacroSplit struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

var dietSplits = map[Diet]MacroSplit{
	Balanced:    {Protein: 0.30, Carbs: 0.40, Fat: 0.30},
	LowCarb:     {Protein: 0.40, Carbs: 0.20, Fat: 0.40},
	HighProtein: {Protein: 0.40, Carbs: 0.30, Fat: 0.30},
	Keto:        {Protein: 0.25, Carbs: 0.05, Fat: 0.70},
}

const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// MacroInput is the input of Macros.
type MacroInput struct {
	Calories int  `json:"calories" validate:"required,gte=800,lte=10000"`
	Diet     Diet `json:"diet,omitempty" validate:"omitempty,oneof=balanced low_carb high_protein keto"`
}

// MacroGrams is one macronutrient's share.
type MacroGrams struct {
	Grams    int `json:"grams"`
	Calories int `json:"calories"`
	Percent  int `json:"percent"`
}

// MacroResult splits a calorie budget into grams.
type MacroResult struct {
	Diet    Diet       `json:"diet"`
	Protein MacroGrams `json:"protein"`
	Carbs   MacroGrams `json:"carbs"`
	Fat     MacroGrams `json:"fat"`
}

// Macros splits calories by the diet preset, balanced when unset.
func Macros(in MacroInput) (MacroResult, error) {
	if err := Validate(in); err != nil {
		return MacroResult{}, err
	}
	diet := in.Diet
	if diet == "" {
		diet = Balanced
	}
	split := dietSplits[diet]
	kcal := float64(in.Calories)
	share := func(pct float64, perGram int) MacroGrams {
		c := kcal * pct
		return MacroGrams{
			Grams:    round(c / float64(perGram)),
			Calories: round(c),
			Percent:  round(pct * 100),
		}
	}
	return MacroResult{
		Diet:    diet,
		Protein: share(split.Protein, kcalPerGramProtein),
		Carbs:   share(split.Carbs, kcalPerGramCarbs),
		Fat:     share(split.Fat, kcalPerGramFat),
	}, nil
}

// ProteinProfile keys the grams-per-kilogram recommendation.
type ProteinProfile string

const (
	ProteinSedentary  ProteinProfile = "sedentary"
	ProteinActive     ProteinProfile = "active"
	ProteinEndurance  ProteinProfile = "endurance"
	ProteinStrength   ProteinProfile = "strength"
	ProteinWeightLoss ProteinProfile = "weight_loss"
)

var proteinPerKg = map[ProteinProfile]float64{
	ProteinSedentary:  0.8,
	ProteinActive:     1.2,
	ProteinEndurance:  1.4,
	ProteinStrength:   1.8,
	ProteinWeightLoss: 1.6,
}

const proteinRangeSpread = 0.2

// ProteinInput is the input of Protein.
type ProteinInput struct {
	Weight  float64        `json:"weight" validate:"required,gt=0,lte=1000"`
	Units   Units          `json:"units,omitempty" validate:"omitempty,oneof=metric imperial"`
	Profile ProteinProfile `json:"profile" validate:"required,oneof=sedentary active endurance strength weight_loss"`
}

// ProteinResult is a daily protein target in grams.
type ProteinResult struct {
	PerKg   float64 `json:"perKg"`
	Grams   int     `json:"grams"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
	PerMeal int     `json:"perMeal"`
}

// Protein recommends daily grams of protein for body weight and profile.
func Protein(in ProteinInput) (ProteinResult, error) {
	if err := Validate(in); err != nil {
		return ProteinResult{}, err
	}
	kg := toKg(in.Weight, in.Units)
	per := proteinPerKg[in.Profile]
	grams := round(kg * per)
	lo := per - proteinRangeSpread
	if lo < proteinPerKg[ProteinSedentary] {
		lo = proteinPerKg[ProteinSedentary]
	}
	return ProteinResult{
		PerKg:   per,
		Grams:   grams,
		Min:     round(kg * lo),
		Max:     round(kg * (per + proteinRangeSpread)),
		PerMeal: round(float64(grams) / 3),
	}, nil
}
