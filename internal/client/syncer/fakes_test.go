package syncer

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/localstore"
	"github.com/dmitrijs2005/gophbudget/internal/dbx"
	"github.com/dmitrijs2005/gophbudget/internal/logging"
	"github.com/dmitrijs2005/gophbudget/internal/models"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/documents"
	"github.com/dmitrijs2005/gophbudget/internal/timex"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeRemote is a RemoteStore over the server's in-memory document
// repository, so engine tests run against the same storage rules as the
// real backends. It only adds call counters and fault injection.
type fakeRemote struct {
	repo *documents.MemoryRepository

	mu      sync.Mutex
	adds    int
	updates int
	deletes int
	lists   int

	pingErr error
	listErr error
	failAdd map[string]error
	// listHook runs before List, outside the lock.
	listHook func(ctx context.Context) error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{repo: documents.NewMemoryRepository(), failAdd: map[string]error{}}
}

func (f *fakeRemote) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeRemote) List(ctx context.Context, ownerID string, kind models.Kind) ([]models.Document, error) {
	f.mu.Lock()
	hook := f.listHook
	f.mu.Unlock()
	if hook != nil {
		if err := hook(ctx); err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	f.lists++
	err := f.listErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.repo.List(ctx, ownerID, kind)
}

func (f *fakeRemote) Add(ctx context.Context, doc models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failAdd[doc.ID]; err != nil {
		return err
	}
	if err := f.repo.Insert(ctx, doc); err != nil {
		return err
	}
	f.adds++
	return nil
}

func (f *fakeRemote) Update(ctx context.Context, doc models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.repo.Update(ctx, doc); err != nil {
		return err
	}
	f.updates++
	return nil
}

func (f *fakeRemote) SoftDelete(ctx context.Context, ownerID string, kind models.Kind, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.repo.SoftDelete(ctx, ownerID, kind, id, at); err != nil {
		return err
	}
	f.deletes++
	return nil
}

func (f *fakeRemote) doc(kind models.Kind, id string) (models.Document, bool) {
	d, err := f.repo.Get(context.Background(), "u1", kind, id)
	return d, err == nil
}

// put stores rec as if another device had pushed it.
func (f *fakeRemote) put(t *testing.T, rec models.Syncable) {
	t.Helper()
	d, err := models.ToDocument(rec)
	require.NoError(t, err)
	require.NoError(t, f.repo.Insert(context.Background(), d))
}

func (f *fakeRemote) counts() (adds, updates, deletes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.adds, f.updates, f.deletes
}

// device is one client: its own local store and engine over a shared remote.
type device struct {
	store  *localstore.Store
	cats   *localstore.CategoryCollection
	txs    *localstore.TransactionCollection
	guard  *DuplicateGuard
	probe  *StaticProbe
	engine *Engine
	clock  *timex.Manual
}

func newDevice(t *testing.T, remote RemoteStore, clock *timex.Manual) *device {
	t.Helper()
	store, err := localstore.Open(context.Background(), filepath.Join(t.TempDir(), "local.db"),
		dbx.RetryPolicy{Attempts: 2, Delay: time.Millisecond}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	d := &device{store: store, cats: store.Categories(), txs: store.Transactions(), clock: clock}
	d.guard = NewDuplicateGuard(d.cats, clock, nil)
	d.probe = NewStaticProbe(true)

	opts := DefaultOptions()
	opts.Clock = clock
	d.engine = New(Deps{
		Local:    []LocalCollection{d.cats, d.txs},
		Remote:   remote,
		Probe:    d.probe,
		Settings: store.Settings(),
		Guard:    d.guard,
	}, opts)
	t.Cleanup(d.engine.Close)
	return d
}

func (d *device) newCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	now := d.clock.Now()
	c := &models.Category{
		SyncMeta: models.SyncMeta{ID: uuid.NewString(), OwnerID: "u1", CreatedAt: models.Stamp(now), UpdatedAt: models.Stamp(now)},
		Name:     name,
		Type:     models.CategoryExpense,
	}
	require.NoError(t, d.cats.SaveCategory(context.Background(), c))
	return c
}

func (d *device) newTransaction(t *testing.T, categoryID string, amount int64) *models.Transaction {
	t.Helper()
	now := models.Stamp(d.clock.Now())
	tx := &models.Transaction{
		SyncMeta:   models.SyncMeta{ID: uuid.NewString(), OwnerID: "u1", CreatedAt: now, UpdatedAt: now},
		CategoryID: categoryID,
		Amount:     decimal.NewFromInt(amount),
		Currency:   "VND",
		OccurredAt: now,
	}
	require.NoError(t, d.txs.SaveTransaction(context.Background(), tx))
	return tx
}

func (d *device) category(t *testing.T, id string) *models.Category {
	t.Helper()
	c, err := d.cats.GetCategory(context.Background(), id)
	require.NoError(t, err)
	return c
}

func (d *device) transaction(t *testing.T, id string) *models.Transaction {
	t.Helper()
	tx, err := d.txs.GetTransaction(context.Background(), id)
	require.NoError(t, err)
	return tx
}
