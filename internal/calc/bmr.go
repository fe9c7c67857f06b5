package calc

// BMRFormula names one of the supported basal metabolic rate equations.
type BMRFormula string

const (
	MifflinStJeor  BMRFormula = "mifflin_st_jeor"
	HarrisBenedict BMRFormula = "harris_benedict"
	KatchMcArdle   BMRFormula = "katch_mcardle"
)

// BMRInput is the input of BMR.
type BMRInput struct {
	Body
	Formula BMRFormula `json:"formula,omitempty" validate:"omitempty,oneof=mifflin_st_jeor harris_benedict katch_mcardle"`
	// BodyFat is a percentage, only used by Katch-McArdle.
	BodyFat float64 `json:"bodyFat,omitempty" validate:"omitempty,gt=0,lt=70"`
}

// BMRResult is the basal metabolic rate in kcal/day.
type BMRResult struct {
	Formula BMRFormula `json:"formula"`
	Exact   float64    `json:"exact"`
	BMR     int        `json:"bmr"`
}

// BMR computes the basal metabolic rate. Mifflin-St Jeor is the default.
func BMR(in BMRInput) (BMRResult, error) {
	if err := Validate(in); err != nil {
		return BMRResult{}, err
	}
	formula := in.Formula
	if formula == "" {
		formula = MifflinStJeor
	}
	if formula == KatchMcArdle && in.BodyFat == 0 {
		return BMRResult{}, Invalid("bodyFat", "is required for %s", KatchMcArdle)
	}

	w, h, a := in.WeightKg(), in.HeightCm(), float64(in.Age)
	var exact float64
	switch formula {
	case MifflinStJeor:
		exact = 10*w + 6.25*h - 5*a
		if in.Sex == Male {
			exact += 5
		} else {
			exact -= 161
		}
	case HarrisBenedict:
		if in.Sex == Male {
			exact = 88.362 + 13.397*w + 4.799*h - 5.677*a
		} else {
			exact = 447.593 + 9.247*w + 3.098*h - 4.330*a
		}
	case KatchMcArdle:
		lean := w * (1 - in.BodyFat/100)
		exact = 370 + 21.6*lean
	}

	return BMRResult{Formula: formula, Exact: exact, BMR: round(exact)}, nil
}

// ActivityLevel keys the TDEE multipliers.
type ActivityLevel string

const (
	Sedentary  ActivityLevel = "sedentary"
	Light      ActivityLevel = "light"
	Moderate   ActivityLevel = "moderate"
	Active     ActivityLevel = "active"
	VeryActive ActivityLevel = "very_active"
)

var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

// ActivityMultiplier returns the TDEE multiplier for level.
func ActivityMultiplier(level ActivityLevel) (float64, bool) {
	m, ok := activityMultipliers[level]
	return m, ok
}

// TDEEInput is the input of TDEE.
type TDEEInput struct {
	BMRInput
	Activity ActivityLevel `json:"activity" validate:"required,oneof=sedentary light moderate active very_active"`
}

// TDEEResult is total daily energy expenditure in kcal/day.
type TDEEResult struct {
	BMR        int     `json:"bmr"`
	Multiplier float64 `json:"multiplier"`
	TDEE       int     `json:"tdee"`
}

// TDEE multiplies the rounded BMR by the activity multiplier.
func TDEE(in TDEEInput) (TDEEResult, error) {
	if err := Validate(in); err != nil {
		return TDEEResult{}, err
	}
	b, err := BMR(in.BMRInput)
	if err != nil {
		return TDEEResult{}, err
	}
	m := activityMultipliers[in.Activity]
	return TDEEResult{
		BMR:        b.BMR,
		Multiplier: m,
		TDEE:       round(float64(b.BMR) * m),
	}, nil
}
