package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/config"
	"github.com/dmitrijs2005/gophbudget/internal/client/services"
	"github.com/dmitrijs2005/gophbudget/internal/client/syncer"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategories struct {
	services.CategoryService

	list      []*models.Category
	created   []services.CategoryInput
	updated   []services.CategoryInput
	deleteErr error
}

func (f *fakeCategories) List(ctx context.Context) ([]*models.Category, error) { return f.list, nil }

func (f *fakeCategories) Get(ctx context.Context, id string) (*models.Category, error) {
	for _, c := range f.list {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeCategories) Create(ctx context.Context, in services.CategoryInput) (*models.Category, error) {
	f.created = append(f.created, in)
	return &models.Category{SyncMeta: models.SyncMeta{ID: "new"}, Name: in.Name, Type: in.Type}, nil
}

func (f *fakeCategories) Update(ctx context.Context, id string, in services.CategoryInput) (*models.Category, error) {
	f.updated = append(f.updated, in)
	return &models.Category{}, nil
}

func (f *fakeCategories) Delete(ctx context.Context, id string) error { return f.deleteErr }

type fakeTransactions struct {
	services.TransactionService

	list    []*models.Transaction
	created []services.TransactionInput
}

func (f *fakeTransactions) List(ctx context.Context) ([]*models.Transaction, error) {
	return f.list, nil
}

func (f *fakeTransactions) Create(ctx context.Context, in services.TransactionInput) (*models.Transaction, error) {
	f.created = append(f.created, in)
	return &models.Transaction{SyncMeta: models.SyncMeta{ID: "tx-new"}}, nil
}

type fakeEngine struct {
	forced   int
	result   syncer.Result
	lastSync time.Time
}

func (f *fakeEngine) PerformSync(ctx context.Context, ownerID string, force bool) syncer.Result {
	if force {
		f.forced++
	}
	return f.result
}

func (f *fakeEngine) LastSync(ctx context.Context, ownerID string) (time.Time, error) {
	return f.lastSync, nil
}

func (f *fakeEngine) OnComplete(fn func(syncer.Result)) func() { return func() {} }

type fakeSweeper struct{ n int }

func (f *fakeSweeper) Sweep(ctx context.Context, ownerID string) (int, error) { return f.n, nil }

func newTestApp(input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		config:       &config.Config{OwnerID: "alice"},
		categories:   &fakeCategories{},
		transactions: &fakeTransactions{},
		engine:       &fakeEngine{},
		sweeper:      &fakeSweeper{},
		probe:        syncer.NewStaticProbe(false),
		reader:       bufio.NewReader(strings.NewReader(input)),
		out:          &out,
	}, &out
}

func TestSetMode_ReportsChange(t *testing.T) {
	app, _ := newTestApp("")

	assert.True(t, app.setMode(ModeOnline))
	assert.Equal(t, ModeOnline, app.Mode())
	assert.False(t, app.setMode(ModeOnline))
	assert.True(t, app.setMode(ModeOffline))
	assert.Equal(t, "(alice offline)", app.getStatus())
}

func TestCheckOnline_ForcesSyncOnReconnect(t *testing.T) {
	app, out := newTestApp("")
	probe := syncer.NewStaticProbe(true)
	app.probe = probe
	eng := app.engine.(*fakeEngine)
	ctx := context.Background()

	app.checkOnline(ctx)
	assert.Equal(t, 1, eng.forced, "first check runs the startup sync")

	app.checkOnline(ctx)
	assert.Equal(t, 1, eng.forced, "staying online does not sync")

	probe.Set(false)
	app.checkOnline(ctx)
	assert.Equal(t, ModeOffline, app.Mode())

	probe.Set(true)
	app.checkOnline(ctx)
	assert.Equal(t, 2, eng.forced)
	assert.Contains(t, out.String(), "Switched to online mode")
}

func TestWatcher_StopsWithContext(t *testing.T) {
	app, _ := newTestApp("")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.StartOnlineStatusWatcher(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestOnSyncComplete_QuietWhenNothingHappened(t *testing.T) {
	app, out := newTestApp("")

	app.onSyncComplete(syncer.Result{Status: syncer.StatusCompleted})
	assert.Empty(t, out.String())

	app.onSyncComplete(syncer.Result{Generation: 3, Status: syncer.StatusCompleted, Pulled: 2})
	assert.Contains(t, out.String(), "sync #3 completed")

	out.Reset()
	app.onSyncComplete(syncer.Result{Status: syncer.StatusFailed, Err: fmt.Errorf("boom")})
	assert.Contains(t, out.String(), "error=boom")
}

func TestAddCategory_ReadsFields(t *testing.T) {
	app, out := newTestApp("Coffee\nexpense\ncup\n\n")
	cats := app.categories.(*fakeCategories)

	require.NoError(t, app.AddCategory(context.Background()))
	require.Len(t, cats.created, 1)
	assert.Equal(t, services.CategoryInput{Name: "Coffee", Type: models.CategoryExpense, Icon: "cup"}, cats.created[0])
	assert.Contains(t, out.String(), "Saved category Coffee")
}

func TestAddCategory_BadType(t *testing.T) {
	app, out := newTestApp("Coffee\ngift\n")
	cats := app.categories.(*fakeCategories)

	require.ErrorIs(t, app.AddCategory(context.Background()), common.ErrValidation)
	assert.Empty(t, cats.created)
	assert.Contains(t, out.String(), "Error:")
}

func TestEditCategory_KeepsCurrentValues(t *testing.T) {
	app, _ := newTestApp("c1\n\n\nmug\n\n")
	cats := app.categories.(*fakeCategories)
	cats.list = []*models.Category{{SyncMeta: models.SyncMeta{ID: "c1"}, Name: "Coffee", Type: models.CategoryExpense, Icon: "cup", Color: "#333"}}

	require.NoError(t, app.EditCategory(context.Background()))
	require.Len(t, cats.updated, 1)
	assert.Equal(t, services.CategoryInput{Name: "Coffee", Type: models.CategoryExpense, Icon: "mug", Color: "#333"}, cats.updated[0])
}

func TestDeleteCategory_ReportsProtected(t *testing.T) {
	app, out := newTestApp("c1\n")
	app.categories.(*fakeCategories).deleteErr = common.ErrProtected

	require.ErrorIs(t, app.DeleteCategory(context.Background()), common.ErrProtected)
	assert.Contains(t, out.String(), "record is protected")
}

func TestListCategories_MarksProtected(t *testing.T) {
	app, out := newTestApp("")
	app.categories.(*fakeCategories).list = []*models.Category{
		{SyncMeta: models.SyncMeta{ID: "c1"}, Name: "Food", Type: models.CategoryExpense, IsProtected: true},
		{SyncMeta: models.SyncMeta{ID: "c2"}, Name: "Coffee", Type: models.CategoryExpense},
	}

	require.NoError(t, app.ListCategories(context.Background()))
	assert.Contains(t, out.String(), "Food *")
	assert.Contains(t, out.String(), "Coffee")
}

func TestAddTransaction_ReadsFields(t *testing.T) {
	app, out := newTestApp("c1\n50000\nVND\nlunch\n2024-03-01\n")
	txs := app.transactions.(*fakeTransactions)

	require.NoError(t, app.AddTransaction(context.Background()))
	require.Len(t, txs.created, 1)
	got := txs.created[0]
	assert.Equal(t, "c1", got.CategoryID)
	assert.True(t, decimal.NewFromInt(50000).Equal(got.Amount))
	assert.Equal(t, "VND", got.Currency)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got.OccurredAt)
	assert.Contains(t, out.String(), "Saved transaction tx-new")
}

func TestListTransactions_ShowsCategoryNames(t *testing.T) {
	app, out := newTestApp("")
	app.categories.(*fakeCategories).list = []*models.Category{{SyncMeta: models.SyncMeta{ID: "c1"}, Name: "Coffee"}}
	app.transactions.(*fakeTransactions).list = []*models.Transaction{
		{SyncMeta: models.SyncMeta{ID: "t1"}, CategoryID: "c1", Amount: decimal.NewFromInt(50000), Currency: "VND",
			OccurredAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{SyncMeta: models.SyncMeta{ID: "t2"}, CategoryID: "gone", Amount: decimal.NewFromInt(1), Currency: "EUR",
			OccurredAt: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
	}

	require.NoError(t, app.ListTransactions(context.Background()))
	assert.Contains(t, out.String(), "Coffee")
	assert.Contains(t, out.String(), "50000.00 VND")
	assert.Contains(t, out.String(), "?")
}

func TestSyncSweepStatus(t *testing.T) {
	app, out := newTestApp("")
	eng := app.engine.(*fakeEngine)
	eng.result = syncer.Result{Generation: 1, Status: syncer.StatusCompleted, Pushed: 2}
	app.sweeper.(*fakeSweeper).n = 3
	ctx := context.Background()

	require.NoError(t, app.Sync(ctx))
	assert.Equal(t, 1, eng.forced)
	assert.Contains(t, out.String(), "pushed=2")

	require.NoError(t, app.Sweep(ctx))
	assert.Contains(t, out.String(), "Merged 3 duplicate categories")

	require.NoError(t, app.Status(ctx))
	assert.Contains(t, out.String(), "Mode: unknown")
	assert.Contains(t, out.String(), "Last sync: never")
}
