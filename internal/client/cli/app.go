package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/client"
	"github.com/dmitrijs2005/gophbudget/internal/client/config"
	"github.com/dmitrijs2005/gophbudget/internal/client/localstore"
	"github.com/dmitrijs2005/gophbudget/internal/client/services"
	"github.com/dmitrijs2005/gophbudget/internal/client/syncer"
	"github.com/dmitrijs2005/gophbudget/internal/logging"
	"github.com/dmitrijs2005/gophbudget/internal/timex"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const probeTimeout = 3 * time.Second

// syncEngine is the part of *syncer.Engine the CLI drives directly.
type syncEngine interface {
	PerformSync(ctx context.Context, ownerID string, force bool) syncer.Result
	LastSync(ctx context.Context, ownerID string) (time.Time, error)
	OnComplete(fn func(syncer.Result)) (unsubscribe func())
}

type sweeper interface {
	Sweep(ctx context.Context, ownerID string) (int, error)
}

type App struct {
	config       *config.Config
	categories   services.CategoryService
	transactions services.TransactionService
	engine       syncEngine
	sweeper      sweeper
	probe        syncer.Probe
	reader       *bufio.Reader
	out          io.Writer

	mu   sync.Mutex
	mode Mode

	closers []func() error
}

// NewApp opens the local store, connects to the server and wires the sync
// engine and services for c.OwnerID.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if c.OwnerID == "" {
		return nil, errors.New("owner id is required (-o or owner_id)")
	}

	store, err := localstore.Open(ctx, c.DatabasePath, c.Retry, log)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	remote, err := client.NewDocumentsClient(c.ServerEndpointAddr, c.AccessToken)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("error creating client: %w", err)
	}

	clock := timex.System{}
	cats := store.Categories()
	txs := store.Transactions()

	if _, err := cats.EnsureDefaults(ctx, c.OwnerID, clock.Now()); err != nil {
		_ = remote.Close()
		_ = store.Close()
		return nil, fmt.Errorf("error seeding categories: %w", err)
	}

	guard := syncer.NewDuplicateGuard(cats, clock, log)
	probe := syncer.NewPingProbe(remote, probeTimeout)
	engine := syncer.New(syncer.Deps{
		Local:    []syncer.LocalCollection{cats, txs},
		Remote:   remote,
		Probe:    probe,
		Settings: store.Settings(),
		Guard:    guard,
	}, syncer.Options{
		MinInterval:  c.MinSyncInterval,
		PullInterval: c.PullInterval,
		Clock:        clock,
		Logger:       log,
	})

	opts := services.Options{OwnerID: c.OwnerID, SyncDelay: c.SyncDelay, Clock: clock}
	cs := services.NewCategoryService(cats, guard, engine, opts)
	ts := services.NewTransactionService(txs, cs, engine, opts)

	a := &App{
		config:       c,
		categories:   cs,
		transactions: ts,
		engine:       engine,
		sweeper:      guard,
		probe:        probe,
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}
	unsubscribe := a.engine.OnComplete(a.onSyncComplete)
	a.closers = []func() error{
		func() error { unsubscribe(); return nil },
		func() error { engine.Close(); return nil },
		remote.Close,
		store.Close,
	}
	return a, nil
}

// Close releases the engine, the connection and the local store, in order.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Run starts the connectivity watcher and blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to gophbudget CLI (type 'help' for commands)")
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// setMode reports whether the mode changed.
func (a *App) setMode(mode Mode) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode == mode {
		return false
	}
	a.mode = mode
	return true
}

func (a *App) getStatus() string {
	s := a.config.OwnerID
	if m := a.Mode(); m != "" {
		s = s + " " + string(m)
	}
	return fmt.Sprintf("(%s)", s)
}

// StartOnlineStatusWatcher checks connectivity every interval until ctx is
// done. The first check, and every transition back online, runs a forced
// sync pass.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	if !a.probe.Online(ctx) {
		if a.setMode(ModeOffline) {
			fmt.Fprintf(a.out, "\nSwitched to %s mode\n", ModeOffline)
		}
		return
	}
	if a.setMode(ModeOnline) {
		fmt.Fprintf(a.out, "\nSwitched to %s mode\n", ModeOnline)
		a.engine.PerformSync(ctx, a.config.OwnerID, true)
	}
}

// onSyncComplete reports passes that changed something or failed.
func (a *App) onSyncComplete(res syncer.Result) {
	if res.Status == syncer.StatusCompleted &&
		res.Pushed+res.Adopted+res.Pulled+res.Merged+res.Stale+res.Failed == 0 {
		return
	}
	fmt.Fprintf(a.out, "\n%s\n", res)
}
