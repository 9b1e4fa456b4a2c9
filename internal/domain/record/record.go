// Package record defines the sync metadata shared by every locally
// persisted entity: client-generated identity, lifecycle timestamps,
// soft-delete marker, and the pending/synced flag the reconciliation
// protocol operates on.
package record

import (
	"time"

	"github.com/google/uuid"
)

// SyncStatus indicates whether the remote backend has durably
// acknowledged the record's current local state.
type SyncStatus string

const (
	// SyncPending marks a record whose most recent local mutation has
	// not yet been acknowledged by the remote backend.
	SyncPending SyncStatus = "pending"
	// SyncSynced marks a record the remote backend has acknowledged.
	SyncSynced SyncStatus = "synced"
)

// Valid reports whether s is one of the known sync statuses.
func (s SyncStatus) Valid() bool {
	return s == SyncPending || s == SyncSynced
}

// Meta carries the common fields of every syncable entity. Embed it in
// any domain type that participates in synchronization.
type Meta struct {
	ID         string     `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	SyncStatus SyncStatus `json:"sync_status"`
}

// NewMeta returns metadata for a freshly created record: a new UUID,
// created/updated stamps set to now, no deletion marker, and sync
// status pending.
func NewMeta() Meta {
	now := time.Now().UTC()
	return Meta{
		ID:         uuid.New().String(),
		CreatedAt:  now,
		UpdatedAt:  now,
		SyncStatus: SyncPending,
	}
}

// Touch refreshes UpdatedAt and resets the sync status to pending.
// Call it on every mutation.
func (m *Meta) Touch() {
	m.UpdatedAt = time.Now().UTC()
	m.SyncStatus = SyncPending
}

// IsDeleted reports whether the record has been soft-deleted.
func (m *Meta) IsDeleted() bool {
	return m.DeletedAt != nil
}

// MarkDeleted soft-deletes the record. The deletion itself must still
// be synchronized, so the sync status drops back to pending. DeletedAt
// is monotonic: once set it is never cleared by normal operations.
func (m *Meta) MarkDeleted() {
	now := time.Now().UTC()
	m.DeletedAt = &now
	m.UpdatedAt = now
	m.SyncStatus = SyncPending
}
