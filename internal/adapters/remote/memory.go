package remote

import (
	"context"
	"fmt"
	"sync"

	"github.com/ventasync/ventasync/internal/application/ports"
)

// MemoryEndpoint is an in-process remote endpoint implementing the
// server side of the last-writer-wins contract. It stands in for a
// real backend during development and testing: pushed records are
// stored per entity type, and a push conflicts only when the stored
// copy carries a strictly later updated_at.
type MemoryEndpoint struct {
	mu        sync.RWMutex
	store     map[ports.EntityType]map[string]ports.PushRecord
	available bool
	failErr   error
}

// NewMemoryEndpoint creates an empty, available in-memory endpoint.
func NewMemoryEndpoint() *MemoryEndpoint {
	return &MemoryEndpoint{
		store:     make(map[ports.EntityType]map[string]ports.PushRecord),
		available: true,
	}
}

// Push applies the batch against the stored state. Each record is
// judged independently: the stored copy wins only when strictly newer.
func (m *MemoryEndpoint) Push(ctx context.Context, batch ports.PushBatch) (*ports.PushResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return nil, m.failErr
	}
	if !m.available {
		return nil, fmt.Errorf("endpoint unavailable")
	}

	table, ok := m.store[batch.EntityType]
	if !ok {
		table = make(map[string]ports.PushRecord)
		m.store[batch.EntityType] = table
	}

	response := &ports.PushResponse{Results: make([]ports.PushResult, 0, len(batch.Records))}
	for _, rec := range batch.Records {
		stored, exists := table[rec.ID]
		if exists && stored.UpdatedAt.After(rec.UpdatedAt) {
			server := stored
			response.Results = append(response.Results, ports.PushResult{
				ID:           rec.ID,
				Outcome:      ports.OutcomeConflicting,
				ServerRecord: &server,
			})
			continue
		}

		table[rec.ID] = rec
		response.Results = append(response.Results, ports.PushResult{
			ID:      rec.ID,
			Outcome: ports.OutcomeAccepted,
		})
	}

	return response, nil
}

// IsAvailable reports whether the endpoint accepts pushes.
func (m *MemoryEndpoint) IsAvailable(ctx context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.available && m.failErr == nil, nil
}

// SetAvailable toggles availability.
func (m *MemoryEndpoint) SetAvailable(available bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
}

// SetFailure makes every subsequent Push fail with err. Pass nil to
// clear the fault.
func (m *MemoryEndpoint) SetFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Seed installs a record as the server's stored copy, bypassing the
// conflict check. Intended for test setup.
func (m *MemoryEndpoint) Seed(entity ports.EntityType, rec ports.PushRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	table, ok := m.store[entity]
	if !ok {
		table = make(map[string]ports.PushRecord)
		m.store[entity] = table
	}
	table[rec.ID] = rec
}

// Record returns the server's stored copy of a record, if present.
func (m *MemoryEndpoint) Record(entity ports.EntityType, id string) (ports.PushRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.store[entity][id]
	return rec, ok
}

// Count returns how many records the endpoint stores for an entity type.
func (m *MemoryEndpoint) Count(entity ports.EntityType) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store[entity])
}

var _ ports.RemoteEndpointPort = (*MemoryEndpoint)(nil)
