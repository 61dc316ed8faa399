package syncer

import "github.com/dmitrijs2005/gophbudget/internal/models"

// Decision is the outcome of reconciling one remote record.
type Decision int

const (
	// KeepLocal leaves the local payload untouched.
	KeepLocal Decision = iota
	// TakeRemote overwrites the local payload with the remote one.
	TakeRemote
	// InsertRemote stores a record the device has never seen.
	InsertRemote
)

func (d Decision) String() string {
	switch d {
	case TakeRemote:
		return "take_remote"
	case InsertRemote:
		return "insert_remote"
	default:
		return "keep_local"
	}
}

// Resolver applies whole-record last-write-wins. Two devices editing
// different fields of the same record concurrently lose one of the edits.
// A tombstone is terminal: it beats a live copy whatever the timestamps, so
// an edit made after a delete on another device never resurrects the record.
type Resolver struct{}

// Resolve compares comparison timestamps. Ties keep the local record.
func (Resolver) Resolve(remote, local models.Syncable) Decision {
	if local == nil {
		return InsertRemote
	}
	remoteDead, localDead := remote.Meta().IsTombstone(), local.Meta().IsTombstone()
	switch {
	case remoteDead && !localDead:
		return TakeRemote
	case localDead && !remoteDead:
		return KeepLocal
	}
	if remote.Meta().ComparisonTime().After(local.Meta().ComparisonTime()) {
		return TakeRemote
	}
	return KeepLocal
}
