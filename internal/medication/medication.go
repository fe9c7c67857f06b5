// Package medication tracks medications, their daily dose slots and the
// taken/skipped log, on top of a pluggable Store.
package medication

import (
	"errors"
	"time"
)

// DateLayout is the calendar date format used for start dates and log entries.
const DateLayout = "2006-01-02"

var ErrNotFound = errors.New("medication not found")

// Frequency decides on which days a medication's time slots are due.
type Frequency string

const (
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"    // on the weekday of StartDate
	AsNeeded Frequency = "as_needed" // never scheduled, may still be logged
)

// Status of one dose slot.
type Status string

const (
	Taken   Status = "taken"
	Skipped Status = "skipped"
	Pending Status = "pending"
)

type Medication struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,max=100"`
	Dosage    string    `json:"dosage" validate:"required,max=50"`
	Frequency Frequency `json:"frequency" validate:"required,oneof=daily weekly as_needed"`
	Times     []string  `json:"times" validate:"max=8,dive,required"`
	StartDate string    `json:"startDate,omitempty"`
	EndDate   string    `json:"endDate,omitempty"`
	Notes     string    `json:"notes,omitempty" validate:"max=500"`
	CreatedAt time.Time `json:"createdAt"`
}

// Log records what happened to one dose slot.
type Log struct {
	ID           string    `json:"id"`
	MedicationID string    `json:"medicationId"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Status       Status    `json:"status"`
	RecordedAt   time.Time `json:"recordedAt"`
}

// State is everything the tracker persists.
type State struct {
	Medications []Medication `json:"medications"`
	Logs        []Log        `json:"medicationLogs"`
}

func (s State) clone() State {
	out := State{
		Medications: make([]Medication, len(s.Medications)),
		Logs:        make([]Log, len(s.Logs)),
	}
	copy(out.Logs, s.Logs)
	for i, m := range s.Medications {
		m.Times = append([]string(nil), m.Times...)
		out.Medications[i] = m
	}
	return out
}

func (s State) find(id string) (int, bool) {
	for i, m := range s.Medications {
		if m.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Dose is one scheduled slot of a day.
type Dose struct {
	MedicationID string `json:"medicationId"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Time         string `json:"time"`
	Status       Status `json:"status"`
}

// Adherence summarises one medication over a date range.
type Adherence struct {
	MedicationID string  `json:"medicationId"`
	Name         string  `json:"name"`
	Scheduled    int     `json:"scheduled"`
	Taken        int     `json:"taken"`
	Skipped      int     `json:"skipped"`
	Missed       int     `json:"missed"`
	Rate         float64 `json:"rate"`
}

// Report is the result of Tracker.Adherence.
type Report struct {
	From        string      `json:"from"`
	To          string      `json:"to"`
	Medications []Adherence `json:"medications"`
	Scheduled   int         `json:"scheduled"`
	Taken       int         `json:"taken"`
	Rate        float64     `json:"rate"`
}

// dueOn reports whether m has slots on day.
func (m Medication) dueOn(day time.Time) bool {
	if m.Frequency == AsNeeded {
		return false
	}
	d := day.Format(DateLayout)
	if m.StartDate != "" && d < m.StartDate {
		return false
	}
	if m.EndDate != "" && d > m.EndDate {
		return false
	}
	if m.Frequency == Weekly {
		start, err := time.Parse(DateLayout, m.StartDate)
		if err != nil {
			return false
		}
		return start.Weekday() == day.Weekday()
	}
	return true
}
