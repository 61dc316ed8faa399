package syncer

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/logging"
	"github.com/dmitrijs2005/gophbudget/internal/models"
	"github.com/dmitrijs2005/gophbudget/internal/timex"
)

// DuplicateGuard keeps at most one active category per natural key. The rule
// is enforced opportunistically, so duplicates may exist between a create
// and the next sweep.
type DuplicateGuard struct {
	store CategoryStore
	clock timex.Clock
	log   logging.Logger

	sweeping atomic.Bool
}

func NewDuplicateGuard(store CategoryStore, clock timex.Clock, log logging.Logger) *DuplicateGuard {
	if clock == nil {
		clock = timex.System{}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &DuplicateGuard{store: store, clock: clock, log: log.With("component", "duplicate_guard")}
}

// RedirectCreate checks a category about to be created. When an active
// category with the same natural key exists under another id, the create
// becomes an edit of that category: its mutable fields take the new values
// and it is returned with redirected set. Protected categories are returned
// unchanged. Otherwise c itself is returned.
func (g *DuplicateGuard) RedirectCreate(ctx context.Context, c *models.Category) (target *models.Category, redirected bool, err error) {
	existing, err := g.store.FindActiveByNaturalKey(ctx, c.NaturalKey())
	if errors.Is(err, common.ErrNotFound) {
		return c, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if existing.ID == c.ID {
		return c, false, nil
	}

	g.log.Info(ctx, "create redirected to existing category", "id", existing.ID, "key", c.NaturalKey().String())
	if existing.IsProtected {
		return existing, true, nil
	}
	existing.Name = c.Name
	existing.Icon = c.Icon
	existing.Color = c.Color
	existing.Touch(g.clock.Now())
	return existing, true, nil
}

// RemoteCanonical looks for an active remote category that shares local's
// natural key under a different id. The earliest created one wins.
func (g *DuplicateGuard) RemoteCanonical(local *models.Category, remote []models.Syncable) (*models.Category, bool) {
	key := local.NaturalKey()
	var best *models.Category
	for _, r := range remote {
		c, ok := r.(*models.Category)
		if !ok || c.ID == local.ID || c.IsTombstone() || c.NaturalKey() != key {
			continue
		}
		if best == nil || earlier(c, best) {
			best = c
		}
	}
	return best, best != nil
}

// Adopt resolves a push-time duplicate in favour of the remote record. Any
// field of loser that differs from canonical is discarded.
func (g *DuplicateGuard) Adopt(ctx context.Context, loser, canonical *models.Category) error {
	g.log.Warn(ctx, "local category duplicates a remote one, adopting remote",
		"local_id", loser.ID, "remote_id", canonical.ID, "key", loser.NaturalKey().String())
	return g.store.AdoptRemote(ctx, loser, canonical, g.clock.Now())
}

// Sweep merges the owner's active duplicates: for every natural key with more
// than one member the earliest created survives (protected categories always
// survive) and the rest are tombstoned in one local transaction. A call that
// overlaps a running sweep returns 0 immediately.
func (g *DuplicateGuard) Sweep(ctx context.Context, ownerID string) (int, error) {
	if !g.sweeping.CompareAndSwap(false, true) {
		return 0, nil
	}
	defer g.sweeping.Store(false)

	active, err := g.store.ListActive(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	byKey := make(map[models.NaturalKey][]*models.Category)
	var order []models.NaturalKey
	for _, c := range active {
		k := c.NaturalKey()
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], c)
	}

	var groups []models.DuplicateGroup
	for _, k := range order {
		members := byKey[k]
		if len(members) < 2 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool { return earlier(members[i], members[j]) })
		grp := models.DuplicateGroup{Keep: members[0]}
		for _, m := range members[1:] {
			if !m.IsProtected {
				grp.Losers = append(grp.Losers, m)
			}
		}
		if len(grp.Losers) > 0 {
			groups = append(groups, grp)
		}
	}
	if len(groups) == 0 {
		return 0, nil
	}

	n, err := g.store.MergeDuplicates(ctx, groups, g.clock.Now())
	if err != nil {
		return 0, err
	}
	g.log.Info(ctx, "duplicate categories merged", "owner", ownerID, "tombstoned", n)
	return n, nil
}

// earlier orders protected categories first, then by creation time, then by id.
func earlier(a, b *models.Category) bool {
	if a.IsProtected != b.IsProtected {
		return a.IsProtected
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
