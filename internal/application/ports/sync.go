package ports

import (
	"context"
	"time"
)

// EntityType identifies which table a sync batch belongs to.
type EntityType string

const (
	EntityProducts EntityType = "products"
	EntitySales    EntityType = "sales"
)

// PushRecord is one record in a push batch: the record's identity, its
// last-write timestamp used for conflict resolution, the soft-delete
// marker, and the entity-specific fields.
type PushRecord struct {
	ID        string         `json:"id"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt *time.Time     `json:"deleted_at,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// PushBatch is the per-entity request of a sync cycle: every locally
// pending record, sent in a single request.
type PushBatch struct {
	EntityType EntityType   `json:"entityType"`
	Records    []PushRecord `json:"records"`
}

// PushOutcome is the server's verdict for one pushed record.
type PushOutcome string

const (
	// OutcomeAccepted means the server held no conflicting newer
	// version and durably recorded the pushed state.
	OutcomeAccepted PushOutcome = "accepted"
	// OutcomeConflicting means the server holds a version with a
	// strictly later updated_at; its copy accompanies the result.
	OutcomeConflicting PushOutcome = "conflicting"
)

// PushResult is the server's per-record response.
type PushResult struct {
	ID           string      `json:"id"`
	Outcome      PushOutcome `json:"outcome"`
	ServerRecord *PushRecord `json:"serverRecord,omitempty"`
}

// PushResponse is the per-entity response of a sync cycle.
type PushResponse struct {
	Results []PushResult `json:"results"`
}

// RemoteEndpointPort is the wire contract a transport must honor for
// the reconciliation protocol. Implementations carry the network
// detail; the engine only sees batches and results.
type RemoteEndpointPort interface {
	// Push transmits one pending batch and returns the server's
	// per-record verdicts.
	Push(ctx context.Context, batch PushBatch) (*PushResponse, error)

	// IsAvailable checks if the endpoint is currently reachable.
	IsAvailable(ctx context.Context) (bool, error)
}
