package medication

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Skufu/vitalcalc/internal/calc"
)

// Store persists tracker state. Load returns an empty State when nothing
// has been saved yet.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, s State) error
}

// Tracker applies every mutation as load, modify, save under one lock.
type Tracker struct {
	store Store
	mu    sync.Mutex
	now   func() time.Time
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// List returns the medications in the order they were added.
func (t *Tracker) List(ctx context.Context) ([]Medication, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, err := t.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load medications: %w", err)
	}
	return s.Medications, nil
}

// Add validates m, assigns an id and saves it. StartDate defaults to today.
func (t *Tracker) Add(ctx context.Context, m Medication) (Medication, error) {
	if err := validateMedication(&m); err != nil {
		return Medication{}, err
	}
	now := t.now()
	m.ID = uuid.NewString()
	m.CreatedAt = now.UTC()
	if m.StartDate == "" {
		m.StartDate = now.Format(DateLayout)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	s, err := t.store.Load(ctx)
	if err != nil {
		return Medication{}, fmt.Errorf("load medications: %w", err)
	}
	s.Medications = append(s.Medications, m)
	if err := t.store.Save(ctx, s); err != nil {
		return Medication{}, fmt.Errorf("save medications: %w", err)
	}
	return m, nil
}

// Remove deletes a medication and every log entry that belongs to it.
func (t *Tracker) Remove(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, err := t.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load medications: %w", err)
	}
	i, ok := s.find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.Medications = append(s.Medications[:i], s.Medications[i+1:]...)
	logs := s.Logs[:0]
	for _, l := range s.Logs {
		if l.MedicationID != id {
			logs = append(logs, l)
		}
	}
	s.Logs = logs
	if err := t.store.Save(ctx, s); err != nil {
		return fmt.Errorf("save medications: %w", err)
	}
	return nil
}

// RecordInput marks one dose slot.
type RecordInput struct {
	Date   string `json:"date" validate:"required"`
	Time   string `json:"time" validate:"required"`
	Status Status `json:"status" validate:"required,oneof=taken skipped"`
}

// Record logs a slot as taken or skipped. A second record for the same
// slot replaces the first.
func (t *Tracker) Record(ctx context.Context, medID string, in RecordInput) (Log, error) {
	if err := calc.Validate(in); err != nil {
		return Log{}, err
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return Log{}, calc.Invalid("date", "must be YYYY-MM-DD")
	}
	clock, err := calc.ParseClock(in.Time)
	if err != nil {
		return Log{}, calc.Invalid("time", "must be HH:MM")
	}
	slot := clock.String()

	t.mu.Lock()
	defer t.mu.Unlock()
	s, err := t.store.Load(ctx)
	if err != nil {
		return Log{}, fmt.Errorf("load medications: %w", err)
	}
	i, ok := s.find(medID)
	if !ok {
		return Log{}, fmt.Errorf("%w: %s", ErrNotFound, medID)
	}
	m := s.Medications[i]
	if m.Frequency != AsNeeded && !containsSlot(m.Times, slot) {
		return Log{}, calc.Invalid("time", "%s is not one of the medication's times", slot)
	}

	entry := Log{
		ID:           uuid.NewString(),
		MedicationID: medID,
		Date:         in.Date,
		Time:         slot,
		Status:       in.Status,
		RecordedAt:   t.now().UTC(),
	}
	replaced := false
	for j, l := range s.Logs {
		if l.MedicationID == medID && l.Date == in.Date && l.Time == slot {
			entry.ID = l.ID
			s.Logs[j] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		s.Logs = append(s.Logs, entry)
	}
	if err := t.store.Save(ctx, s); err != nil {
		return Log{}, fmt.Errorf("save medications: %w", err)
	}
	return entry, nil
}

// Schedule lists every dose due on day, ordered by time, with its logged
// status or pending.
func (t *Tracker) Schedule(ctx context.Context, day time.Time) ([]Dose, error) {
	t.mu.Lock()
	s, err := t.store.Load(ctx)
	t.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("load medications: %w", err)
	}

	date := day.Format(DateLayout)
	logged := logIndex(s.Logs)
	doses := []Dose{}
	for _, m := range s.Medications {
		if !m.dueOn(day) {
			continue
		}
		for _, slot := range m.Times {
			st, ok := logged[slotKey{m.ID, date, slot}]
			if !ok {
				st = Pending
			}
			doses = append(doses, Dose{MedicationID: m.ID, Name: m.Name, Dosage: m.Dosage, Time: slot, Status: st})
		}
	}
	sort.SliceStable(doses, func(i, j int) bool {
		if doses[i].Time != doses[j].Time {
			return doses[i].Time < doses[j].Time
		}
		return doses[i].Name < doses[j].Name
	})
	return doses, nil
}

// Adherence counts, per medication, the slots due between from and to
// (inclusive dates) and how many were taken. Slots with no log are missed.
func (t *Tracker) Adherence(ctx context.Context, from, to time.Time) (Report, error) {
	from, to = truncateDay(from), truncateDay(to)
	if to.Before(from) {
		return Report{}, calc.Invalid("to", "must not be before from")
	}

	t.mu.Lock()
	s, err := t.store.Load(ctx)
	t.mu.Unlock()
	if err != nil {
		return Report{}, fmt.Errorf("load medications: %w", err)
	}

	logged := logIndex(s.Logs)
	rep := Report{From: from.Format(DateLayout), To: to.Format(DateLayout), Medications: []Adherence{}}
	for _, m := range s.Medications {
		if m.Frequency == AsNeeded {
			continue
		}
		a := Adherence{MedicationID: m.ID, Name: m.Name}
		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			if !m.dueOn(day) {
				continue
			}
			date := day.Format(DateLayout)
			for _, slot := range m.Times {
				a.Scheduled++
				switch logged[slotKey{m.ID, date, slot}] {
				case Taken:
					a.Taken++
				case Skipped:
					a.Skipped++
				default:
					a.Missed++
				}
			}
		}
		a.Rate = rate(a.Taken, a.Scheduled)
		rep.Scheduled += a.Scheduled
		rep.Taken += a.Taken
		rep.Medications = append(rep.Medications, a)
	}
	rep.Rate = rate(rep.Taken, rep.Scheduled)
	return rep, nil
}

func validateMedication(m *Medication) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Dosage = strings.TrimSpace(m.Dosage)
	if err := calc.Validate(*m); err != nil {
		return err
	}
	if m.Frequency != AsNeeded && len(m.Times) == 0 {
		return calc.Invalid("times", "at least one time is required")
	}
	seen := make(map[string]bool, len(m.Times))
	for i, raw := range m.Times {
		c, err := calc.ParseClock(raw)
		if err != nil {
			return calc.Invalid("times", "%q is not HH:MM", raw)
		}
		slot := c.String()
		if seen[slot] {
			return calc.Invalid("times", "%s listed twice", slot)
		}
		seen[slot] = true
		m.Times[i] = slot
	}
	sort.Strings(m.Times)
	for field, d := range map[string]string{"startDate": m.StartDate, "endDate": m.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, d); err != nil {
			return calc.Invalid(field, "must be YYYY-MM-DD")
		}
	}
	if m.StartDate != "" && m.EndDate != "" && m.EndDate < m.StartDate {
		return calc.Invalid("endDate", "must not be before startDate")
	}
	return nil
}

type slotKey struct {
	med, date, time string
}

func logIndex(logs []Log) map[slotKey]Status {
	idx := make(map[slotKey]Status, len(logs))
	for _, l := range logs {
		idx[slotKey{l.MedicationID, l.Date, l.Time}] = l.Status
	}
	return idx
}

func containsSlot(times []string, slot string) bool {
	for _, t := range times {
		if t == slot {
			return true
		}
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rate(taken, scheduled int) float64 {
	if scheduled == 0 {
		return 0
	}
	return math.Round(float64(taken)*1000/float64(scheduled)) / 10
}
