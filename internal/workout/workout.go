// Package workout builds a weekly training plan from a goal, a level and the
// exercise table.
package workout

import (
	"fmt"
	"math"

	"github.com/Skufu/vitalcalc/internal/calc"
)

// Focus is the muscle group or modality a day or exercise targets.
type Focus string

const (
	Upper    Focus = "upper"
	Lower    Focus = "lower"
	Core     Focus = "core"
	Cardio   Focus = "cardio"
	FullBody Focus = "full_body"
	Mobility Focus = "mobility"
)

// Exercise is one entry of the exercise table.
type Exercise struct {
	ID    string  `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Focus Focus   `json:"focus" yaml:"focus"`
	MET   float64 `json:"met" yaml:"met"`
}

// Validate reports a malformed exercise.
func (e Exercise) Validate() error {
	if e.ID == "" || e.Name == "" {
		return fmt.Errorf("exercise: id and name are required")
	}
	if _, ok := knownFocus[e.Focus]; !ok {
		return fmt.Errorf("exercise %s: unknown focus %q", e.ID, e.Focus)
	}
	if e.MET <= 0 {
		return fmt.Errorf("exercise %s: MET must be positive", e.ID)
	}
	return nil
}

var knownFocus = map[Focus]struct{}{
	Upper: {}, Lower: {}, Core: {}, Cardio: {}, FullBody: {}, Mobility: {},
}

var rotations = map[string][]Focus{
	"strength":    {Upper, Lower, FullBody, Upper, Lower, Core},
	"endurance":   {Cardio, FullBody, Cardio, Core, Cardio, Mobility},
	"weight_loss": {FullBody, Cardio, Upper, Cardio, Lower, Cardio},
	"general":     {FullBody, Cardio, Mobility, FullBody, Core, Cardio},
}

var weekdays = map[int][]string{
	2: {"Monday", "Thursday"},
	3: {"Monday", "Wednesday", "Friday"},
	4: {"Monday", "Tuesday", "Thursday", "Friday"},
	5: {"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
	6: {"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
}

type prescription struct {
	sets int
	reps string
	rest int
}

var prescriptions = map[string]prescription{
	"strength":    {sets: 4, reps: "5-6", rest: 120},
	"endurance":   {sets: 2, reps: "15-20", rest: 45},
	"weight_loss": {sets: 3, reps: "12-15", rest: 45},
	"general":     {sets: 3, reps: "10-12", rest: 60},
}

var levelSetDelta = map[string]int{
	"beginner":     -1,
	"intermediate": 0,
	"advanced":     1,
}

const (
	minutesPerExercise = 10
	minExercisesPerDay = 2
	maxExercisesPerDay = 8
)

// Input is the input of Plan.
type Input struct {
	Goal        string     `json:"goal" validate:"required,oneof=strength endurance weight_loss general"`
	Level       string     `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	DaysPerWeek int        `json:"daysPerWeek" validate:"required,gte=2,lte=6"`
	Minutes     int        `json:"minutes" validate:"required,gte=15,lte=120"`
	Weight      float64    `json:"weight" validate:"required,gt=0,lte=1000"`
	Units       calc.Units `json:"units,omitempty" validate:"omitempty,oneof=metric imperial"`
}

// Item is one exercise of a day.
type Item struct {
	Exercise Exercise `json:"exercise"`
	Sets     int      `json:"sets,omitempty"`
	Reps     string   `json:"reps,omitempty"`
	RestSec  int      `json:"restSeconds,omitempty"`
	Minutes  int      `json:"minutes,omitempty"`
}

// Day is one training day.
type Day struct {
	Day      string `json:"day"`
	Focus    Focus  `json:"focus"`
	Items    []Item `json:"items"`
	Calories int    `json:"calories"`
}

// WeekPlan is the result of Plan.
type WeekPlan struct {
	Goal           string `json:"goal"`
	Level          string `json:"level"`
	Days           []Day  `json:"days"`
	WeeklyMinutes  int    `json:"weeklyMinutes"`
	WeeklyCalories int    `json:"weeklyCalories"`
}

// Plan lays the goal's focus rotation over the training days. Exercises of
// the same focus are rotated so repeated focus days differ. Calories are
// estimated as MET × kg × hours.
func Plan(in Input, exercises []Exercise) (WeekPlan, error) {
	if err := calc.Validate(in); err != nil {
		return WeekPlan{}, err
	}
	byFocus := make(map[Focus][]Exercise)
	for _, e := range exercises {
		byFocus[e.Focus] = append(byFocus[e.Focus], e)
	}

	kg := calc.ToKg(in.Weight, in.Units)
	count := in.Minutes / minutesPerExercise
	count = max(minExercisesPerDay, min(maxExercisesPerDay, count))

	rx := prescriptions[in.Goal]
	sets := max(2, rx.sets+levelSetDelta[in.Level])

	plan := WeekPlan{Goal: in.Goal, Level: in.Level}
	used := make(map[Focus]int)
	for i, name := range weekdays[in.DaysPerWeek] {
		focus := rotations[in.Goal][i]
		pool := byFocus[focus]
		if len(pool) == 0 {
			return WeekPlan{}, fmt.Errorf("no exercises with focus %s", focus)
		}
		n := min(count, len(pool))
		day := Day{Day: name, Focus: focus, Items: make([]Item, 0, n)}
		var metSum float64
		for j := 0; j < n; j++ {
			e := pool[(used[focus]+j)%len(pool)]
			item := Item{Exercise: e}
			if focus == Cardio || focus == Mobility {
				item.Minutes = in.Minutes / n
			} else {
				item.Sets, item.Reps, item.RestSec = sets, rx.reps, rx.rest
			}
			day.Items = append(day.Items, item)
			metSum += e.MET
		}
		used[focus] += n

		hours := float64(in.Minutes) / 60
		day.Calories = int(math.Round(metSum / float64(n) * kg * hours))
		plan.Days = append(plan.Days, day)
		plan.WeeklyMinutes += in.Minutes
		plan.WeeklyCalories += day.Calories
	}
	return plan, nil
}
