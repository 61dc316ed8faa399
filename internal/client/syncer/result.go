package syncer

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusCompleted Status = "completed"
	// StatusFailed means a batch-level error stopped the pass. Records already
	// handled keep their state and the rest are retried next time.
	StatusFailed   Status = "failed"
	StatusOffline  Status = "offline"
	StatusInFlight Status = "in_flight"
	StatusTooSoon  Status = "too_soon"
	// StatusCanceled means the pass was superseded or the engine closed.
	StatusCanceled Status = "canceled"
)

// Result describes one PerformSync call.
type Result struct {
	Generation uint64
	Status     Status
	OwnerID    string

	// Pushed counts remote writes that succeeded, deletes included.
	Pushed int
	// Adopted counts local categories resolved in favour of a remote duplicate.
	Adopted int
	// Pulled counts local records changed by the pull.
	Pulled int
	// Merged counts local duplicates tombstoned by the post-pull sweep.
	Merged int
	// Stale counts local edits not pushed because the remote copy is newer or
	// already deleted.
	// Their pull is never skipped.
	Stale int
	// Failed counts per-record errors; those records stay unsynced.
	Failed  int
	PullRan bool

	StartedAt time.Time
	Duration  time.Duration
	Err       error
}

// Ran reports whether the pass reached the stores.
func (r Result) Ran() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}

func (r Result) String() string {
	s := fmt.Sprintf("sync #%d %s: pushed=%d adopted=%d pulled=%d merged=%d stale=%d failed=%d",
		r.Generation, r.Status, r.Pushed, r.Adopted, r.Pulled, r.Merged, r.Stale, r.Failed)
	if r.Err != nil {
		s += " error=" + r.Err.Error()
	}
	return s
}
