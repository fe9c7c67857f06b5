package calc

// Zone is one Karvonen training zone.
type Zone struct {
	Name       string `json:"name"`
	MinPercent int    `json:"minPercent"`
	MaxPercent int    `json:"maxPercent"`
	MinBPM     int    `json:"minBpm"`
	MaxBPM     int    `json:"maxBpm"`
	Purpose    string `json:"purpose"`
}

var zoneTable = []Zone{
	{Name: "Recovery", MinPercent: 50, MaxPercent: 60, Purpose: "Warm-up, cool-down and active recovery"},
	{Name: "Fat Burn", MinPercent: 60, MaxPercent: 70, Purpose: "Base endurance; most energy from fat"},
	{Name: "Aerobic", MinPercent: 70, MaxPercent: 80, Purpose: "Cardiovascular fitness and stamina"},
	{Name: "Anaerobic", MinPercent: 80, MaxPercent: 90, Purpose: "Lactate threshold and speed endurance"},
	{Name: "Maximum", MinPercent: 90, MaxPercent: 100, Purpose: "Short all-out intervals"},
}

// HeartRateInput is the input of HeartRateZones.
type HeartRateInput struct {
	Age       int `json:"age" validate:"required,gt=0,lte=120"`
	RestingHR int `json:"restingHr" validate:"required,gte=25,lte=150"`
	// MaxHR overrides the 220 - age estimate when measured.
	MaxHR int `json:"maxHr,omitempty" validate:"omitempty,gte=60,lte=250"`
}

// HeartRateResult lists the zones between resting and maximum heart rate.
type HeartRateResult struct {
	MaxHR     int    `json:"maxHr"`
	RestingHR int    `json:"restingHr"`
	Reserve   int    `json:"reserve"`
	Zones     []Zone `json:"zones"`
}

// HeartRateZones applies the Karvonen formula:
// target = resting + (max - resting) * intensity.
func HeartRateZones(in HeartRateInput) (HeartRateResult, error) {
	if err := Validate(in); err != nil {
		return HeartRateResult{}, err
	}
	maxHR := in.MaxHR
	if maxHR == 0 {
		maxHR = 220 - in.Age
	}
	if in.RestingHR >= maxHR {
		return HeartRateResult{}, Invalid("restingHr", "must be below maximum heart rate %d", maxHR)
	}

	reserve := maxHR - in.RestingHR
	zones := make([]Zone, len(zoneTable))
	for i, z := range zoneTable {
		z.MinBPM = karvonen(in.RestingHR, reserve, z.MinPercent)
		z.MaxBPM = karvonen(in.RestingHR, reserve, z.MaxPercent)
		zones[i] = z
	}
	return HeartRateResult{MaxHR: maxHR, RestingHR: in.RestingHR, Reserve: reserve, Zones: zones}, nil
}

func karvonen(resting, reserve, percent int) int {
	return round(float64(resting) + float64(reserve)*float64(percent)/100)
}
