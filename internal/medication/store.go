package medication

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Keys under which the key/value stores keep the two collections.
const (
	KeyMedications = "medications"
	KeyLogs        = "medicationLogs"
)

// MemoryStore keeps state in process.
type MemoryStore struct {
	mu    sync.RWMutex
	state State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s.clone()
	return nil
}

// encodeState splits s into the JSON documents stored per key.
func encodeState(s State) (map[string]string, error) {
	if s.Medications == nil {
		s.Medications = []Medication{}
	}
	if s.Logs == nil {
		s.Logs = []Log{}
	}
	meds, err := json.Marshal(s.Medications)
	if err != nil {
		return nil, fmt.Errorf("encode medications: %w", err)
	}
	logs, err := json.Marshal(s.Logs)
	if err != nil {
		return nil, fmt.Errorf("encode logs: %w", err)
	}
	return map[string]string{KeyMedications: string(meds), KeyLogs: string(logs)}, nil
}

// decodeState rebuilds state from per-key documents; missing keys are empty.
func decodeState(docs map[string]string) (State, error) {
	var s State
	if raw, ok := docs[KeyMedications]; ok {
		if err := json.Unmarshal([]byte(raw), &s.Medications); err != nil {
			return State{}, fmt.Errorf("decode medications: %w", err)
		}
	}
	if raw, ok := docs[KeyLogs]; ok {
		if err := json.Unmarshal([]byte(raw), &s.Logs); err != nil {
			return State{}, fmt.Errorf("decode logs: %w", err)
		}
	}
	return s, nil
}
