package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/logging"
	"github.com/dmitrijs2005/gophbudget/internal/models"
	"github.com/dmitrijs2005/gophbudget/internal/timex"
)

const defaultProbeTimeout = 5 * time.Second

// Deps are the collaborators of an Engine. Local must list categories before
// transactions so a pushed transaction never references a category the
// remote store has not seen. Probe defaults to a PingProbe on Remote; Guard
// is optional.
type Deps struct {
	Local    []LocalCollection
	Remote   RemoteStore
	Probe    Probe
	Settings Settings
	Guard    *DuplicateGuard
}

type Options struct {
	// MinInterval is how long after a successful pass non-forced calls are
	// skipped.
	MinInterval time.Duration
	// PullInterval forces a pull even after a push that wrote records.
	PullInterval time.Duration

	Clock  timex.Clock
	Logger logging.Logger
}

func DefaultOptions() Options {
	return Options{
		MinInterval:  30 * time.Second,
		PullInterval: 5 * time.Minute,
	}
}

// Engine runs sync passes. It is safe for concurrent use; at most one pass
// runs at a time.
type Engine struct {
	deps     Deps
	opts     Options
	clock    timex.Clock
	log      logging.Logger
	resolver Resolver
	debounce *Debouncer

	baseCtx    context.Context
	cancelBase context.CancelFunc

	mu        sync.Mutex
	gen       uint64
	current   *pass
	closed    bool
	callbacks []callback
	nextCB    uint64
}

type pass struct {
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

type callback struct {
	id uint64
	fn func(Result)
}

func New(deps Deps, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = timex.System{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if deps.Probe == nil {
		deps.Probe = NewPingProbe(deps.Remote, defaultProbeTimeout)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		deps:       deps,
		opts:       opts,
		clock:      opts.Clock,
		log:        opts.Logger.With("component", "syncer"),
		debounce:   NewDebouncer(opts.Clock),
		baseCtx:    ctx,
		cancelBase: cancel,
	}
}

func lastSyncKey(ownerID string) string { return common.SettingLastSyncPrefix + ownerID }
func lastPullKey(ownerID string) string { return common.SettingLastPullPrefix + ownerID }

// LastSync returns when the owner's last successful pass finished.
func (e *Engine) LastSync(ctx context.Context, ownerID string) (time.Time, error) {
	return e.deps.Settings.GetTime(ctx, lastSyncKey(ownerID))
}

// OnComplete registers fn to run after every pass that reached the stores.
// A panicking callback is logged and does not affect the others.
func (e *Engine) OnComplete(fn func(Result)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextCB++
	id := e.nextCB
	e.callbacks = append(e.callbacks, callback{id: id, fn: fn})
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, cb := range e.callbacks {
			if cb.id == id {
				e.callbacks = append(e.callbacks[:i:i], e.callbacks[i+1:]...)
				return
			}
		}
	}
}

// ScheduleSync runs a non-forced pass for ownerID after delay. A later call
// replaces a pending one.
func (e *Engine) ScheduleSync(ownerID string, delay time.Duration) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return
	}
	e.debounce.Trigger(delay, func() {
		e.PerformSync(e.baseCtx, ownerID, false)
	})
}

// Close cancels the pending schedule and the running pass, and waits for the
// pass to unwind.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	cur := e.current
	if cur != nil {
		cur.cancel()
	}
	e.mu.Unlock()

	e.debounce.Stop()
	e.cancelBase()
	if cur != nil {
		<-cur.done
	}
}

// PerformSync runs one pass for ownerID. It never returns an error: failures
// are logged and reported in the Result, and the stores are left in a state
// the next pass can resume from.
//
// A non-forced call is dropped while another pass runs. A forced call
// cancels the running pass, waits for it to unwind and then runs; the
// canceled pass skips its bookkeeping.
func (e *Engine) PerformSync(ctx context.Context, ownerID string, force bool) Result {
	res := Result{OwnerID: ownerID, StartedAt: e.clock.Now()}

	if !e.deps.Probe.Online(ctx) {
		e.log.Debug(ctx, "sync skipped, offline", "owner", ownerID)
		res.Status = StatusOffline
		return res
	}

	p, passCtx, status := e.acquire(ctx, force)
	if p == nil {
		e.log.Debug(ctx, "sync skipped", "owner", ownerID, "status", status)
		res.Status = status
		return res
	}
	res.Generation = p.gen

	if !force && e.tooSoon(passCtx, ownerID, res.StartedAt) {
		e.release(p)
		res.Status = StatusTooSoon
		return res
	}

	err := e.run(passCtx, ownerID, force, &res)
	res.Duration = e.clock.Now().Sub(res.StartedAt)

	e.mu.Lock()
	canceled := passCtx.Err() != nil
	e.mu.Unlock()

	switch {
	case canceled:
		res.Status = StatusCanceled
		res.Err = context.Cause(passCtx)
	case err != nil:
		res.Status = StatusFailed
		res.Err = err
	default:
		res.Status = StatusCompleted
	}

	if res.Status == StatusCompleted {
		// The pass may be canceled from now on, but its work is done.
		bookCtx := context.WithoutCancel(passCtx)
		if err := e.deps.Settings.SetTime(bookCtx, lastSyncKey(ownerID), e.clock.Now()); err != nil {
			e.log.Warn(ctx, "failed to persist last sync time", "owner", ownerID, "error", err)
		}
	}
	e.release(p)

	switch res.Status {
	case StatusCompleted:
		e.log.Info(ctx, "sync pass completed", "owner", ownerID, "generation", res.Generation,
			"pushed", res.Pushed, "adopted", res.Adopted, "pulled", res.Pulled, "merged", res.Merged,
			"failed", res.Failed, "pull", res.PullRan, "duration", res.Duration)
	case StatusFailed:
		e.log.Error(ctx, "sync pass failed", "owner", ownerID, "generation", res.Generation, "error", err)
	case StatusCanceled:
		e.log.Info(ctx, "sync pass canceled", "owner", ownerID, "generation", res.Generation)
	}

	if res.Ran() {
		e.notify(ctx, res)
	}
	return res
}

func (e *Engine) acquire(ctx context.Context, force bool) (*pass, context.Context, Status) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, nil, StatusCanceled
	}
	if stale := e.current; stale != nil {
		if !force {
			e.mu.Unlock()
			return nil, nil, StatusInFlight
		}
		e.log.Info(ctx, "forced sync supersedes running pass", "generation", stale.gen)
		stale.cancel()
		e.mu.Unlock()

		select {
		case <-stale.done:
		case <-ctx.Done():
			return nil, nil, StatusCanceled
		}

		e.mu.Lock()
		if e.closed {
			e.mu.Unlock()
			return nil, nil, StatusCanceled
		}
		if e.current != nil {
			e.mu.Unlock()
			return nil, nil, StatusInFlight
		}
	}

	e.gen++
	passCtx, cancel := context.WithCancel(ctx)
	p := &pass{gen: e.gen, cancel: cancel, done: make(chan struct{})}
	e.current = p
	e.mu.Unlock()
	return p, passCtx, ""
}

func (e *Engine) release(p *pass) {
	e.mu.Lock()
	if e.current == p {
		e.current = nil
	}
	e.mu.Unlock()
	p.cancel()
	close(p.done)
}

func (e *Engine) tooSoon(ctx context.Context, ownerID string, now time.Time) bool {
	last, err := e.deps.Settings.GetTime(ctx, lastSyncKey(ownerID))
	if err != nil {
		e.log.Warn(ctx, "failed to read last sync time", "owner", ownerID, "error", err)
		return false
	}
	return !last.IsZero() && now.Sub(last) < e.opts.MinInterval
}

func (e *Engine) notify(ctx context.Context, res Result) {
	e.mu.Lock()
	cbs := make([]callback, len(e.callbacks))
	copy(cbs, e.callbacks)
	e.mu.Unlock()

	for _, cb := range cbs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					e.log.Error(ctx, "sync completion callback panicked", "callback", cb.id, "panic", r)
				}
			}()
			cb.fn(res)
		}()
	}
}

func (e *Engine) run(ctx context.Context, ownerID string, force bool, res *Result) error {
	for _, coll := range e.deps.Local {
		if err := e.push(ctx, ownerID, coll, res); err != nil {
			return err
		}
	}

	if !force && res.Pushed > 0 && res.Stale == 0 {
		lastPull, err := e.deps.Settings.GetTime(ctx, lastPullKey(ownerID))
		if err != nil {
			return fmt.Errorf("read last pull time: %w", err)
		}
		if !lastPull.IsZero() && e.clock.Now().Sub(lastPull) < e.opts.PullInterval {
			return nil
		}
	}

	res.PullRan = true
	inserted := 0
	for _, coll := range e.deps.Local {
		n, err := e.pull(ctx, ownerID, coll, res)
		if err != nil {
			return err
		}
		if coll.Kind() == models.KindCategory {
			inserted += n
		}
	}

	// Pulled transactions may reference a freshly pulled duplicate, so the
	// sweep waits until every kind is in.
	if inserted > 0 && e.deps.Guard != nil {
		n, err := e.deps.Guard.Sweep(ctx, ownerID)
		if err != nil {
			e.log.Warn(ctx, "duplicate sweep after pull failed", "owner", ownerID, "error", err)
		}
		res.Merged += n
	}
	if err := e.deps.Settings.SetTime(ctx, lastPullKey(ownerID), e.clock.Now()); err != nil {
		return fmt.Errorf("persist last pull time: %w", err)
	}
	return nil
}

func (e *Engine) push(ctx context.Context, ownerID string, coll LocalCollection, res *Result) error {
	kind := coll.Kind()

	dirty, err := coll.ListUnsynced(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("list unsynced %ss: %w", kind, err)
	}
	deletes, err := coll.ListPendingDeletes(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("list deleted %ss: %w", kind, err)
	}
	if len(dirty)+len(deletes) == 0 {
		return nil
	}

	docs, err := e.deps.Remote.List(ctx, ownerID, kind)
	if err != nil {
		return fmt.Errorf("list remote %ss: %w", kind, err)
	}
	known := make(map[string]remoteState, len(docs))
	var remote []models.Syncable
	for _, d := range docs {
		known[d.ID] = remoteState{at: docTime(d), deleted: d.DeletedAt != nil}
		if kind == models.KindCategory {
			if rec, err := models.FromDocument(d); err == nil {
				remote = append(remote, rec)
			}
		}
	}

	for _, rec := range dirty {
		if err := ctx.Err(); err != nil {
			return err
		}
		id := rec.Meta().ID
		state, exists := known[id]

		// The remote copy is newer or already deleted: this edit lost, the
		// pull will overwrite it.
		if exists && (state.deleted || state.at.After(rec.Meta().ComparisonTime())) {
			res.Stale++
			continue
		}

		if c, ok := rec.(*models.Category); ok && e.deps.Guard != nil && !exists && !c.IsProtected {
			if canonical, found := e.deps.Guard.RemoteCanonical(c, remote); found {
				if err := e.deps.Guard.Adopt(ctx, c, canonical); err != nil {
					e.recordFailure(ctx, res, "adopt", kind, id, err)
					continue
				}
				res.Adopted++
				continue
			}
		}

		if err := e.upsertRemote(ctx, rec, exists); err != nil {
			e.recordFailure(ctx, res, "push", kind, id, err)
			continue
		}
		known[id] = remoteState{at: rec.Meta().ComparisonTime()}
		if err := coll.MarkSynced(ctx, id); err != nil {
			e.recordFailure(ctx, res, "mark synced", kind, id, err)
			continue
		}
		res.Pushed++
	}

	for _, rec := range deletes {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Deletes always go out: a tombstone beats any remote edit.
		m := rec.Meta()
		err := e.deps.Remote.SoftDelete(ctx, ownerID, kind, m.ID, *m.DeletedAt)
		// A record the remote never saw has nothing left to delete.
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			e.recordFailure(ctx, res, "delete", kind, m.ID, err)
			continue
		}
		if err := coll.MarkSynced(ctx, m.ID); err != nil {
			e.recordFailure(ctx, res, "mark synced", kind, m.ID, err)
			continue
		}
		res.Pushed++
	}
	return nil
}

type remoteState struct {
	at      time.Time
	deleted bool
}

// docTime is ComparisonTime for a remote document.
func docTime(d models.Document) time.Time {
	if !d.UpdatedAt.IsZero() {
		return d.UpdatedAt
	}
	return d.CreatedAt
}

func (e *Engine) upsertRemote(ctx context.Context, rec models.Syncable, exists bool) error {
	doc, err := models.ToDocument(rec)
	if err != nil {
		return err
	}
	if exists {
		err = e.deps.Remote.Update(ctx, doc)
		if errors.Is(err, common.ErrNotFound) {
			err = e.deps.Remote.Add(ctx, doc)
		}
		return err
	}
	err = e.deps.Remote.Add(ctx, doc)
	if errors.Is(err, common.ErrAlreadyExists) {
		err = e.deps.Remote.Update(ctx, doc)
	}
	return err
}

// pull applies the remote records of one kind and returns how many it
// inserted.
func (e *Engine) pull(ctx context.Context, ownerID string, coll LocalCollection, res *Result) (int, error) {
	kind := coll.Kind()

	docs, err := e.deps.Remote.List(ctx, ownerID, kind)
	if err != nil {
		return 0, fmt.Errorf("list remote %ss: %w", kind, err)
	}

	inserted := 0
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}
		remote, err := models.FromDocument(d)
		if err != nil {
			e.recordFailure(ctx, res, "decode", kind, d.ID, err)
			continue
		}
		if remote.Meta().OwnerID != ownerID {
			e.log.Warn(ctx, "remote record of another owner ignored", "kind", kind, "id", d.ID)
			continue
		}

		var local models.Syncable
		switch rec, err := coll.Get(ctx, d.ID); {
		case err == nil:
			local = rec
		case errors.Is(err, common.ErrNotFound):
		default:
			e.recordFailure(ctx, res, "read", kind, d.ID, err)
			continue
		}

		decision, changed, err := e.apply(ctx, coll, remote, local)
		if err != nil {
			e.recordFailure(ctx, res, "apply", kind, d.ID, err)
			continue
		}
		if changed {
			res.Pulled++
			if decision == InsertRemote {
				inserted++
			}
		}
	}

	return inserted, nil
}

// apply reconciles one remote record with its local counterpart (nil when
// the device has never seen it). The reconciled record ends synced unless
// the local side holds a strictly newer edit or a delete the remote has not
// seen yet.
func (e *Engine) apply(ctx context.Context, coll LocalCollection, remote, local models.Syncable) (Decision, bool, error) {
	decision := e.resolver.Resolve(remote, local)
	switch decision {
	case InsertRemote:
		remote.Meta().IsSynced = true
		return decision, true, coll.Save(ctx, remote)

	case TakeRemote:
		if c, ok := local.(*models.Category); ok && c.IsProtected {
			return KeepLocal, false, nil
		}
		if err := models.OverwritePayload(local, remote); err != nil {
			return decision, false, err
		}
		local.Meta().IsSynced = true
		return decision, true, coll.Save(ctx, local)

	default:
		m := local.Meta()
		if m.IsTombstone() && !remote.Meta().IsTombstone() {
			return decision, false, nil
		}
		if m.IsSynced || m.ComparisonTime().After(remote.Meta().ComparisonTime()) {
			return decision, false, nil
		}
		return decision, false, coll.MarkSynced(ctx, m.ID)
	}
}

func (e *Engine) recordFailure(ctx context.Context, res *Result, op string, kind models.Kind, id string, err error) {
	res.Failed++
	e.log.Warn(ctx, "sync record failed", "op", op, "kind", kind, "id", id, "error", err)
}
