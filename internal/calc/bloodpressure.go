package calc

// BPCategory is an American Heart Association blood pressure category.
type BPCategory string

const (
	BPLow      BPCategory = "low"
	BPNormal   BPCategory = "normal"
	BPElevated BPCategory = "elevated"
	BPStage1   BPCategory = "hypertension_stage_1"
	BPStage2   BPCategory = "hypertension_stage_2"
	BPCrisis   BPCategory = "hypertensive_crisis"
)

var bpAdvice = map[BPCategory]string{
	BPLow:      "Blood pressure is low. Seek care if you feel dizzy, faint or unwell.",
	BPNormal:   "Blood pressure is in the normal range. Keep up healthy habits.",
	BPElevated: "Blood pressure is elevated. Lifestyle changes can keep it from progressing.",
	BPStage1:   "Stage 1 hypertension. Discuss lifestyle changes and possible treatment with a doctor.",
	BPStage2:   "Stage 2 hypertension. See a doctor about treatment.",
	BPCrisis:   "Hypertensive crisis. Wait five minutes and measure again; if still this high, seek emergency care.",
}

// BloodPressureInput is the input of BloodPressure.
type BloodPressureInput struct {
	Systolic  int `json:"systolic" validate:"required,gte=50,lte=300"`
	Diastolic int `json:"diastolic" validate:"required,gte=30,lte=200"`
	Pulse     int `json:"pulse,omitempty" validate:"omitempty,gte=20,lte=250"`
}

// BloodPressureResult is the category of one reading.
type BloodPressureResult struct {
	Systolic      int        `json:"systolic"`
	Diastolic     int        `json:"diastolic"`
	Category      BPCategory `json:"category"`
	Advice        string     `json:"advice"`
	PulsePressure int        `json:"pulsePressure"`
	// MeanArterial is (systolic + 2*diastolic) / 3.
	MeanArterial int `json:"meanArterial"`
}

// BloodPressure categorises a reading. The higher of the two categories wins.
func BloodPressure(in BloodPressureInput) (BloodPressureResult, error) {
	if err := Validate(in); err != nil {
		return BloodPressureResult{}, err
	}
	if in.Diastolic >= in.Systolic {
		return BloodPressureResult{}, Invalid("diastolic", "must be below systolic")
	}
	cat := bpCategory(in.Systolic, in.Diastolic)
	return BloodPressureResult{
		Systolic:      in.Systolic,
		Diastolic:     in.Diastolic,
		Category:      cat,
		Advice:        bpAdvice[cat],
		PulsePressure: in.Systolic - in.Diastolic,
		MeanArterial:  round(float64(in.Systolic+2*in.Diastolic) / 3),
	}, nil
}

func bpCategory(sys, dia int) BPCategory {
	switch {
	case sys > 180 || dia > 120:
		return BPCrisis
	case sys >= 140 || dia >= 90:
		return BPStage2
	case sys >= 130 || dia >= 80:
		return BPStage1
	case sys >= 120:
		return BPElevated
	case sys < 90 || dia < 60:
		return BPLow
	default:
		return BPNormal
	}
}
