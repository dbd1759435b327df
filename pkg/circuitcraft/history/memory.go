package history

import (
	"sort"
	"sync"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
)

// MemoryStore is an in-memory history store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]storedReport // executionID -> report
	seq     int
	closed  bool
}

// storedReport holds an encoded report with its summary for List().
type storedReport struct {
	summary  circuitcraft.Summary
	data     []byte
	sequence int
}

// NewMemoryStore creates a new in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]storedReport),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(report *circuitcraft.ExecutionResult) error {
	sum, data, err := encode(report)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	seq := m.seq + 1
	if prev, ok := m.entries[sum.ExecutionID]; ok {
		seq = prev.sequence
	} else {
		m.seq = seq
	}
	m.entries[sum.ExecutionID] = storedReport{summary: sum, data: data, sequence: seq}
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(executionID string) (*circuitcraft.ExecutionResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	e, ok := m.entries[executionID]
	if !ok {
		return nil, ErrNotFound
	}
	return decode(e.data)
}

// List implements Store.
func (m *MemoryStore) List(workflowID string, limit int) ([]circuitcraft.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	matched := make([]storedReport, 0, len(m.entries))
	for _, e := range m.entries {
		if workflowID == "" || e.summary.WorkflowID == workflowID {
			matched = append(matched, e)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.summary.StartTime.Equal(b.summary.StartTime) {
			return a.summary.StartTime.After(b.summary.StartTime)
		}
		return a.sequence > b.sequence
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]circuitcraft.Summary, len(matched))
	for i, e := range matched {
		out[i] = e.summary
	}
	return out, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(executionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.entries, executionID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.entries = nil
	return nil
}

// Len returns the number of stored reports.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
