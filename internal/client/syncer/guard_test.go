package syncer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/models"
	"github.com/dmitrijs2005/gophbudget/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func food(id string, created time.Time) *models.Category {
	return &models.Category{
		SyncMeta: models.SyncMeta{ID: id, OwnerID: "u1", CreatedAt: created, UpdatedAt: created, IsSynced: true},
		Name:     "Food",
		Type:     models.CategoryExpense,
	}
}

func TestSweep_KeepsEarliestCreated(t *testing.T) {
	d := newDevice(t, newFakeRemote(), timex.NewManual(t0))
	ctx := context.Background()

	x := food("X", models.UnixMilli(100))
	y := food("Y", models.UnixMilli(200))
	require.NoError(t, d.cats.SaveCategory(ctx, y))
	require.NoError(t, d.cats.SaveCategory(ctx, x))

	n, err := d.guard.Sweep(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.False(t, d.category(t, "X").IsTombstone())
	gotY := d.category(t, "Y")
	assert.True(t, gotY.IsTombstone())
	assert.False(t, gotY.IsSynced, "the sweep's tombstone must be pushed")

	n, err = d.guard.Sweep(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSweep_ProtectedAlwaysSurvives(t *testing.T) {
	d := newDevice(t, newFakeRemote(), timex.NewManual(t0))
	ctx := context.Background()

	mine := food("mine", t0.Add(-time.Hour))
	system := food("system", t0)
	system.IsProtected = true
	require.NoError(t, d.cats.SaveCategory(ctx, mine))
	require.NoError(t, d.cats.SaveCategory(ctx, system))

	n, err := d.guard.Sweep(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, d.category(t, "mine").IsTombstone())
	assert.False(t, d.category(t, "system").IsTombstone())
}

// blockingStore parks ListActive until released.
type blockingStore struct {
	CategoryStore
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStore) ListActive(ctx context.Context, ownerID string) ([]*models.Category, error) {
	close(b.entered)
	<-b.release
	return nil, nil
}

func TestSweep_OverlappingCallIsNoop(t *testing.T) {
	store := &blockingStore{entered: make(chan struct{}), release: make(chan struct{})}
	g := NewDuplicateGuard(store, timex.NewManual(t0), nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = g.Sweep(context.Background(), "u1")
	}()
	<-store.entered

	n, err := g.Sweep(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, n)

	close(store.release)
	wg.Wait()
}

func TestRedirectCreate(t *testing.T) {
	clock := timex.NewManual(t0)
	d := newDevice(t, newFakeRemote(), clock)
	ctx := context.Background()

	existing := food("existing", t0)
	require.NoError(t, d.cats.SaveCategory(ctx, existing))

	clock.Advance(time.Minute)
	dup := food("new", clock.Now())
	dup.Name = " FOOD "
	dup.Color = "#abcdef"
	target, redirected, err := d.guard.RedirectCreate(ctx, dup)
	require.NoError(t, err)
	require.True(t, redirected)
	assert.Equal(t, "existing", target.ID)
	assert.Equal(t, "#abcdef", target.Color)
	assert.False(t, target.IsSynced)
	assert.Equal(t, clock.Now(), target.UpdatedAt)

	other := food("other", clock.Now())
	other.Name = "Fuel"
	target, redirected, err = d.guard.RedirectCreate(ctx, other)
	require.NoError(t, err)
	assert.False(t, redirected)
	assert.Same(t, other, target)
}

func TestRedirectCreate_ProtectedTargetUnchanged(t *testing.T) {
	d := newDevice(t, newFakeRemote(), timex.NewManual(t0))
	ctx := context.Background()

	system := food("system", t0)
	system.IsProtected = true
	require.NoError(t, d.cats.SaveCategory(ctx, system))

	dup := food("new", t0)
	dup.Color = "#ffffff"
	target, redirected, err := d.guard.RedirectCreate(ctx, dup)
	require.NoError(t, err)
	require.True(t, redirected)
	assert.Empty(t, target.Color)
	assert.True(t, target.IsSynced)
}

type failingFinder struct{ CategoryStore }

func (failingFinder) FindActiveByNaturalKey(context.Context, models.NaturalKey) (*models.Category, error) {
	return nil, common.ErrLocalDataNotAvailable
}

func TestRedirectCreate_StoreError(t *testing.T) {
	g := NewDuplicateGuard(failingFinder{}, nil, nil)
	_, _, err := g.RedirectCreate(context.Background(), food("x", t0))
	require.ErrorIs(t, err, common.ErrLocalDataNotAvailable)
}

func TestRemoteCanonical(t *testing.T) {
	g := NewDuplicateGuard(nil, nil, nil)

	local := food("local", t0)
	same := food("local", t0)
	late := food("late", t0.Add(time.Hour))
	early := food("early", t0.Add(time.Minute))
	gone := food("gone", t0.Add(-time.Hour))
	gone.Tombstone(t0)
	income := food("income", t0.Add(-time.Hour))
	income.Type = models.CategoryIncome

	got, ok := g.RemoteCanonical(local, []models.Syncable{same, late, gone, income, early})
	require.True(t, ok)
	assert.Equal(t, "early", got.ID)

	_, ok = g.RemoteCanonical(local, []models.Syncable{same, gone, income})
	assert.False(t, ok)
}
