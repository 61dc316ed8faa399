package models

import (
	"fmt"
	"time"
)

// Kind names a syncable entity kind.
type Kind string

const (
	KindCategory    Kind = "category"
	KindTransaction Kind = "transaction"
)

// Kinds lists every syncable kind in push order: categories go first so that
// transactions never reference a category the remote side has not seen.
var Kinds = []Kind{KindCategory, KindTransaction}

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCategory, KindTransaction:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown kind %q", s)
	}
}

// SyncMeta holds identity and sync bookkeeping common to all kinds.
type SyncMeta struct {
	// ID is generated client-side and never changes once assigned.
	ID string
	// OwnerID partitions every operation.
	OwnerID string

	CreatedAt time.Time
	// UpdatedAt is the only input to conflict resolution.
	UpdatedAt time.Time
	// DeletedAt marks a tombstone; nil means active.
	DeletedAt *time.Time

	// IsSynced is false for local edits and tombstones not yet propagated.
	IsSynced bool
}

// Syncable is implemented by *Category and *Transaction.
type Syncable interface {
	Kind() Kind
	Meta() *SyncMeta
}

// IsTombstone reports whether the record is soft-deleted.
func (m *SyncMeta) IsTombstone() bool {
	return m.DeletedAt != nil
}

// ComparisonTime is the timestamp used for last-write-wins: the update time,
// else the creation time, else the zero time.
func (m *SyncMeta) ComparisonTime() time.Time {
	if !m.UpdatedAt.IsZero() {
		return m.UpdatedAt
	}
	if !m.CreatedAt.IsZero() {
		return m.CreatedAt
	}
	return time.Time{}
}

// Touch records a local modification at now: the record becomes dirty.
func (m *SyncMeta) Touch(now time.Time) {
	m.UpdatedAt = Stamp(now)
	m.IsSynced = false
}

// Tombstone soft-deletes the record at now and flags it for propagation.
func (m *SyncMeta) Tombstone(now time.Time) {
	at := Stamp(now)
	m.DeletedAt = &at
	m.UpdatedAt = at
	m.IsSynced = false
}

// Stamp truncates t to the millisecond precision every store keeps, in UTC.
func Stamp(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(time.Millisecond)
}

// UnixMilli converts a stored millisecond value back to a time; 0 is zero time.
func UnixMilli(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// ToUnixMilli is the inverse of UnixMilli.
func ToUnixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
