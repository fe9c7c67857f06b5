package calc

// Per-formula constants: base kg at five feet, kg per additional inch.
type ibwConstants struct {
	maleBase, malePerInch     float64
	femaleBase, femalePerInch float64
}

var ibwFormulas = []struct {
	name string
	c    ibwConstants
}{
	{"devine", ibwConstants{50, 2.3, 45.5, 2.3}},
	{"robinson", ibwConstants{52, 1.9, 49, 1.7}},
	{"miller", ibwConstants{56.2, 1.41, 53.1, 1.36}},
	{"hamwi", ibwConstants{48, 2.7, 45.5, 2.2}},
}

const (
	healthyBMIMin = 18.5
	healthyBMIMax = 24.9
)

// IdealWeightInput is the input of IdealWeight.
type IdealWeightInput struct {
	Sex    Sex     `json:"sex" validate:"required,oneof=male female"`
	Height float64 `json:"height" validate:"required,gt=0,lte=300"`
	Units  Units   `json:"units,omitempty" validate:"omitempty,oneof=metric imperial"`
}

// WeightRange is an inclusive range in kilograms.
type WeightRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// IdealWeightResult lists each formula's estimate in kilograms.
type IdealWeightResult struct {
	Formulas   map[string]float64 `json:"formulas"`
	Average    float64            `json:"average"`
	HealthyBMI WeightRange        `json:"healthyBmiRange"`
}

// IdealWeight estimates ideal body weight with the Devine, Robinson, Miller
// and Hamwi formulas. Heights under five feet contribute no per-inch term.
func IdealWeight(in IdealWeightInput) (IdealWeightResult, error) {
	if err := Validate(in); err != nil {
		return IdealWeightResult{}, err
	}
	cm := toCm(in.Height, in.Units)
	over := cm/inchesToCm - 5*inchesPerFt
	if over < 0 {
		over = 0
	}

	res := IdealWeightResult{Formulas: make(map[string]float64, len(ibwFormulas))}
	var sum float64
	for _, f := range ibwFormulas {
		base, per := f.c.femaleBase, f.c.femalePerInch
		if in.Sex == Male {
			base, per = f.c.maleBase, f.c.malePerInch
		}
		kg := base + per*over
		res.Formulas[f.name] = round1(kg)
		sum += kg
	}
	res.Average = round1(sum / float64(len(ibwFormulas)))

	m := cm / 100
	res.HealthyBMI = WeightRange{
		Min: round1(healthyBMIMin * m * m),
		Max: round1(healthyBMIMax * m * m),
	}
	return res, nil
}

// BMIInput is the input of BMI.
type BMIInput struct {
	Weight float64 `json:"weight" validate:"required,gt=0,lte=1000"`
	Height float64 `json:"height" validate:"required,gt=0,lte=300"`
	Units  Units   `json:"units,omitempty" validate:"omitempty,oneof=metric imperial"`
}

// BMIResult is a body mass index and its WHO category.
type BMIResult struct {
	BMI      float64 `json:"bmi"`
	Category string  `json:"category"`
}

// BMI computes weight / height² in kg/m².
func BMI(in BMIInput) (BMIResult, error) {
	if err := Validate(in); err != nil {
		return BMIResult{}, err
	}
	m := toCm(in.Height, in.Units) / 100
	v := toKg(in.Weight, in.Units) / (m * m)
	return BMIResult{BMI: round1(v), Category: bmiCategory(v)}, nil
}

func bmiCategory(v float64) string {
	switch {
	case v < healthyBMIMin:
		return "underweight"
	case v < 25:
		return "normal"
	case v < 30:
		return "overweight"
	default:
		return "obese"
	}
}
