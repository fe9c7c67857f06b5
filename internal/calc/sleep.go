package calc

import (
	"fmt"
	"time"
)

const (
	sleepCycle   = 90 * time.Minute
	fallAsleep   = 15 * time.Minute
	minutesInDay = 24 * 60
)

var defaultCycles = []int{6, 5, 4}

// SleepMode selects which end of the night is known.
type SleepMode string

const (
	// WakeAt computes bedtimes for a target wake-up time.
	WakeAt SleepMode = "wake_at"
	// BedAt computes wake-up times for a bedtime.
	BedAt SleepMode = "bed_at"
)

// SleepInput is the input of SleepTimes.
type SleepInput struct {
	Mode   SleepMode `json:"mode,omitempty" validate:"omitempty,oneof=wake_at bed_at"`
	Time   string    `json:"time" validate:"required"`
	Cycles []int     `json:"cycles,omitempty" validate:"omitempty,max=10,dive,gte=1,lte=10"`
}

// SleepOption is one suggested time for a number of full cycles.
type SleepOption struct {
	Cycles int     `json:"cycles"`
	Time   string  `json:"time"`
	Hours  float64 `json:"hours"`
}

// SleepResult lists the suggestions in the order of the requested cycles.
type SleepResult struct {
	Mode    SleepMode     `json:"mode"`
	Time    string        `json:"time"`
	Options []SleepOption `json:"options"`
}

// SleepTimes works in whole 90-minute cycles plus 15 minutes to fall asleep,
// wrapping across midnight. In wake_at mode (the default) bedtime is
// wake - cycles*90m - 15m; in bed_at mode wake time is bed + 15m + cycles*90m.
func SleepTimes(in SleepInput) (SleepResult, error) {
	if err := Validate(in); err != nil {
		return SleepResult{}, err
	}
	at, err := ParseClock(in.Time)
	if err != nil {
		return SleepResult{}, Invalid("time", "%v", err)
	}
	mode := in.Mode
	if mode == "" {
		mode = WakeAt
	}
	cycles := in.Cycles
	if len(cycles) == 0 {
		cycles = defaultCycles
	}

	res := SleepResult{Mode: mode, Time: at.String(), Options: make([]SleepOption, 0, len(cycles))}
	for _, n := range cycles {
		span := time.Duration(n)*sleepCycle + fallAsleep
		var t Clock
		if mode == WakeAt {
			t = at.Add(-span)
		} else {
			t = at.Add(span)
		}
		res.Options = append(res.Options, SleepOption{
			Cycles: n,
			Time:   t.String(),
			Hours:  (time.Duration(n) * sleepCycle).Hours(),
		})
	}
	return res, nil
}

// Clock is a time of day in minutes after midnight.
type Clock int

// ParseClock reads "HH:MM" in 24-hour form.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("want HH:MM, got %q", s)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

// Add shifts c by d, wrapping around midnight.
func (c Clock) Add(d time.Duration) Clock {
	m := (int(c) + int(d/time.Minute)) % minutesInDay
	if m < 0 {
		m += minutesInDay
	}
	return Clock(m)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}
