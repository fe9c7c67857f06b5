package calc

import "math"

const (
	caffeineMgPerKg       = 6.0
	caffeineAdultCap      = 400.0
	caffeinePregnancyCap  = 200.0
	caffeineNearThreshold = 0.8
)

// Caffeine status values.
const (
	CaffeineUnder = "under"
	CaffeineNear  = "near"
	CaffeineOver  = "over"
)

// Serving is a number of servings of one beverage.
type Serving struct {
	Beverage string  `json:"beverage" validate:"required"`
	Count    float64 `json:"count" validate:"required,gt=0,lte=50"`
}

// CaffeineInput is the input of Caffeine.
type CaffeineInput struct {
	Weight    float64   `json:"weight" validate:"required,gt=0,lte=1000"`
	Units     Units     `json:"units,omitempty" validate:"omitempty,oneof=metric imperial"`
	Pregnant  bool      `json:"pregnant,omitempty"`
	Sensitive bool      `json:"sensitive,omitempty"`
	Servings  []Serving `json:"servings,omitempty" validate:"omitempty,dive"`
}

// CaffeineResult compares today's intake with a personal daily limit.
type CaffeineResult struct {
	LimitMg   int     `json:"limitMg"`
	IntakeMg  int     `json:"intakeMg"`
	Remaining int     `json:"remainingMg"`
	Percent   float64 `json:"percent"`
	Status    string  `json:"status"`
}

// Caffeine computes a daily limit of 6 mg per kg capped at 400 mg (200 mg
// when pregnant, halved when sensitive) and sums intake from the mg-per-
// serving table.
func Caffeine(in CaffeineInput, mgPerServing map[string]float64) (CaffeineResult, error) {
	if err := Validate(in); err != nil {
		return CaffeineResult{}, err
	}
	limit := math.Min(toKg(in.Weight, in.Units)*caffeineMgPerKg, caffeineAdultCap)
	if in.Pregnant {
		limit = math.Min(limit, caffeinePregnancyCap)
	}
	if in.Sensitive {
		limit /= 2
	}

	var intake float64
	var errs ValidationErrors
	for _, s := range in.Servings {
		mg, ok := mgPerServing[s.Beverage]
		if !ok {
			errs = append(errs, &ValidationError{Field: "servings", Reason: "unknown beverage " + s.Beverage})
			continue
		}
		intake += mg * s.Count
	}
	if len(errs) > 0 {
		return CaffeineResult{}, errs
	}

	ratio := intake / limit
	status := CaffeineUnder
	switch {
	case ratio > 1:
		status = CaffeineOver
	case ratio >= caffeineNearThreshold:
		status = CaffeineNear
	}
	remaining := round(limit - intake)
	if remaining < 0 {
		remaining = 0
	}
	return CaffeineResult{
		LimitMg:   round(limit),
		IntakeMg:  round(intake),
		Remaining: remaining,
		Percent:   round1(ratio * 100),
		Status:    status,
	}, nil
}
