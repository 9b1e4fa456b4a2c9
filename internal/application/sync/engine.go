// Package sync implements the reconciliation protocol between local
// storage and the remote endpoint. A cycle collects pending records,
// transmits them in one batch per entity type, applies the server's
// per-record verdicts and purges acknowledged deletions.
package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ventasync/ventasync/internal/application/ports"
	domainErrors "github.com/ventasync/ventasync/internal/domain/errors"
	"github.com/ventasync/ventasync/internal/infrastructure/logging"
	"github.com/ventasync/ventasync/internal/infrastructure/tracing"
)

// CycleOutcome is the terminal state of one sync cycle.
type CycleOutcome string

const (
	OutcomeCompleted CycleOutcome = "completed"
	OutcomeFailed    CycleOutcome = "failed"
)

// CycleReport summarizes one per-entity sync cycle.
type CycleReport struct {
	Entity     ports.EntityType
	Outcome    CycleOutcome
	Pushed     int // records transmitted
	Accepted   int // records the server recorded as-is
	Conflicted int // records overwritten by the server's copy
	Purged     int // acknowledged deletions removed from local storage
}

// Target adapts one entity repository to the reconciliation protocol.
// The engine never touches repositories directly; each entity type
// registers a target that maps between domain records and the wire
// representation.
type Target interface {
	// Entity identifies the table this target serves.
	Entity() ports.EntityType

	// Pending returns every record awaiting synchronization, active
	// and soft-deleted alike, in wire form.
	Pending(ctx context.Context) ([]ports.PushRecord, error)

	// ApplyServer overwrites the local record with the server's copy
	// and marks it synced in the same write.
	ApplyServer(ctx context.Context, rec ports.PushRecord) error

	// MarkSynced flips the record's sync status without touching
	// updated_at.
	MarkSynced(ctx context.Context, id string) error

	// HardDelete permanently removes an acknowledged deletion.
	HardDelete(ctx context.Context, id string) error
}

// Engine drives reconciliation cycles. A second cycle for the same
// entity type is rejected while one is in flight; cycles for different
// entity types may run concurrently.
type Engine struct {
	targets []Target
	logger  *logging.Logger
	tracer  *tracing.Tracer
	clock   func() time.Time

	mu       sync.Mutex
	endpoint ports.RemoteEndpointPort
	inFlight map[ports.EntityType]bool
}

// NewEngine creates a reconciliation engine over the given targets.
// The endpoint may be set later; cycles fail until it is.
func NewEngine(targets []Target, logger *logging.Logger, tracer *tracing.Tracer) *Engine {
	return &Engine{
		targets:  targets,
		logger:   logger,
		tracer:   tracer,
		clock:    time.Now,
		inFlight: make(map[ports.EntityType]bool),
	}
}

// SetEndpoint installs the remote endpoint used by subsequent cycles.
func (e *Engine) SetEndpoint(endpoint ports.RemoteEndpointPort) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endpoint = endpoint
}

// Endpoint returns the currently installed endpoint, or nil.
func (e *Engine) Endpoint() ports.RemoteEndpointPort {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.endpoint
}

// SyncAll runs one cycle per registered target, products before sales
// so remote inserts observe the foreign key order. The first cycle
// error stops the run; reports for completed cycles are returned
// alongside the error.
func (e *Engine) SyncAll(ctx context.Context) ([]CycleReport, error) {
	reports := make([]CycleReport, 0, len(e.targets))
	for _, target := range e.targets {
		report, err := e.syncTarget(ctx, target)
		reports = append(reports, report)
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

// SyncEntity runs one cycle for a single entity type.
func (e *Engine) SyncEntity(ctx context.Context, entity ports.EntityType) (CycleReport, error) {
	for _, target := range e.targets {
		if target.Entity() == entity {
			return e.syncTarget(ctx, target)
		}
	}
	return CycleReport{Entity: entity, Outcome: OutcomeFailed},
		domainErrors.NewError(domainErrors.CodeValidation, "unknown entity type: "+string(entity), nil)
}

func (e *Engine) syncTarget(ctx context.Context, target Target) (CycleReport, error) {
	entity := target.Entity()
	report := CycleReport{Entity: entity, Outcome: OutcomeFailed}

	endpoint, err := e.acquire(entity)
	if err != nil {
		return report, err
	}
	defer e.release(entity)

	cycleID := uuid.New().String()
	ctx = logging.WithCycleID(ctx, cycleID)
	ctx = logging.WithEntityType(ctx, string(entity))
	ctx, span := e.tracer.StartCycleSpan(ctx, cycleID, string(entity))
	started := e.clock()

	// Collect. A readiness failure is fatal and propagates unchanged.
	pending, err := target.Pending(ctx)
	if err != nil {
		span.EndWithError(err)
		logging.LogCycleFailed(ctx, e.logger, string(entity), err, e.clock().Sub(started))
		return report, err
	}
	span.SetPendingCount(len(pending))

	logging.LogCycleStart(ctx, e.logger, string(entity), len(pending))

	if len(pending) == 0 {
		report.Outcome = OutcomeCompleted
		span.End()
		logging.LogCycleComplete(ctx, e.logger, string(entity), 0, 0, 0, e.clock().Sub(started))
		return report, nil
	}

	deleted := make(map[string]bool, len(pending))
	for _, rec := range pending {
		if rec.DeletedAt != nil {
			deleted[rec.ID] = true
		}
	}

	// Transmit. A transport failure aborts the cycle before any local
	// state changed, so a retry sees the identical pending snapshot.
	response, err := e.push(ctx, endpoint, ports.PushBatch{EntityType: entity, Records: pending})
	if err != nil {
		wrapped := domainErrors.NewError(domainErrors.CodeTransport, "sync cycle failed: remote endpoint unreachable", err)
		span.EndWithError(wrapped)
		logging.LogCycleFailed(ctx, e.logger, string(entity), wrapped, e.clock().Sub(started))
		return report, wrapped
	}
	report.Pushed = len(pending)

	// Reconcile and clean up. Outcomes are independent per record: a
	// record that fails to apply stays pending and is retried by the
	// next cycle without disturbing its neighbors.
	for _, result := range response.Results {
		switch result.Outcome {
		case ports.OutcomeAccepted:
			if err := target.MarkSynced(ctx, result.ID); err != nil {
				e.logger.WarnContext(ctx, "failed to mark record synced", "record_id", result.ID, "error", err)
				continue
			}
			report.Accepted++

			if deleted[result.ID] {
				if err := target.HardDelete(ctx, result.ID); err != nil {
					// The record stays soft-deleted and synced, which
					// is harmless; storage is reclaimed on a later run.
					e.logger.WarnContext(ctx, "failed to purge acknowledged deletion", "record_id", result.ID, "error", err)
					continue
				}
				report.Purged++
			}

		case ports.OutcomeConflicting:
			if result.ServerRecord == nil {
				e.logger.WarnContext(ctx, "conflicting result without server record", "record_id", result.ID)
				continue
			}
			if err := target.ApplyServer(ctx, *result.ServerRecord); err != nil {
				e.logger.WarnContext(ctx, "failed to apply server copy", "record_id", result.ID, "error", err)
				continue
			}
			report.Conflicted++
			logging.LogConflictResolved(ctx, e.logger, string(entity), result.ID)

		default:
			e.logger.WarnContext(ctx, "unknown push outcome", "record_id", result.ID, "outcome", string(result.Outcome))
		}
	}

	report.Outcome = OutcomeCompleted
	span.SetOutcomes(report.Accepted, report.Conflicted, report.Purged)
	span.End()
	logging.LogCycleComplete(ctx, e.logger, string(entity),
		report.Accepted, report.Conflicted, report.Purged, e.clock().Sub(started))

	return report, nil
}

func (e *Engine) push(ctx context.Context, endpoint ports.RemoteEndpointPort, batch ports.PushBatch) (*ports.PushResponse, error) {
	ctx, span := e.tracer.StartPushSpan(ctx, string(batch.EntityType), len(batch.Records))
	response, err := endpoint.Push(ctx, batch)
	if err != nil {
		span.EndWithError(err)
		return nil, err
	}
	span.SetResultCount(len(response.Results))
	span.End()
	return response, nil
}

// acquire claims the per-entity in-flight flag and snapshots the
// endpoint under the same lock.
func (e *Engine) acquire(entity ports.EntityType) (ports.RemoteEndpointPort, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.endpoint == nil {
		return nil, domainErrors.ErrEndpointNotSet
	}
	if e.inFlight[entity] {
		return nil, fmt.Errorf("%s: %w", entity, domainErrors.ErrCycleInFlight)
	}
	e.inFlight[entity] = true
	return e.endpoint, nil
}

func (e *Engine) release(entity ports.EntityType) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight[entity] = false
}
