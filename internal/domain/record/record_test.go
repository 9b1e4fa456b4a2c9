package record

import (
	"testing"
	"time"
)

func TestNewMeta(t *testing.T) {
	m := NewMeta()

	if m.ID == "" {
		t.Error("NewMeta() produced empty ID")
	}
	if m.SyncStatus != SyncPending {
		t.Errorf("SyncStatus = %q, want %q", m.SyncStatus, SyncPending)
	}
	if m.DeletedAt != nil {
		t.Errorf("DeletedAt = %v, want nil", m.DeletedAt)
	}
	if !m.CreatedAt.Equal(m.UpdatedAt) {
		t.Errorf("CreatedAt %v != UpdatedAt %v", m.CreatedAt, m.UpdatedAt)
	}
}

func TestNewMeta_UniqueIDs(t *testing.T) {
	a := NewMeta()
	b := NewMeta()
	if a.ID == b.ID {
		t.Errorf("two NewMeta() calls produced the same ID %q", a.ID)
	}
}

func TestTouch(t *testing.T) {
	m := NewMeta()
	m.SyncStatus = SyncSynced
	before := m.UpdatedAt

	time.Sleep(time.Millisecond)
	m.Touch()

	if m.UpdatedAt.Before(before) {
		t.Errorf("UpdatedAt went backwards: %v -> %v", before, m.UpdatedAt)
	}
	if m.SyncStatus != SyncPending {
		t.Errorf("SyncStatus after Touch = %q, want %q", m.SyncStatus, SyncPending)
	}
}

func TestMarkDeleted(t *testing.T) {
	m := NewMeta()
	m.SyncStatus = SyncSynced

	m.MarkDeleted()

	if !m.IsDeleted() {
		t.Error("IsDeleted() = false after MarkDeleted()")
	}
	if m.SyncStatus != SyncPending {
		t.Errorf("SyncStatus after MarkDeleted = %q, want %q", m.SyncStatus, SyncPending)
	}
	if !m.UpdatedAt.Equal(*m.DeletedAt) {
		t.Errorf("UpdatedAt %v != DeletedAt %v", m.UpdatedAt, *m.DeletedAt)
	}
}

func TestSyncStatusValid(t *testing.T) {
	tests := []struct {
		status SyncStatus
		want   bool
	}{
		{SyncPending, true},
		{SyncSynced, true},
		{SyncStatus(""), false},
		{SyncStatus("conflicted"), false},
	}

	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.want {
			t.Errorf("SyncStatus(%q).Valid() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
