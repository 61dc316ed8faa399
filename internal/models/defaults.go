package models

import (
	"time"

	"github.com/google/uuid"
)

var defaultsNamespace = uuid.MustParse("6f1c2c1e-8f0a-4c1b-9d8e-4b6f2a0c7d11")

var defaultCategories = []struct {
	name string
	typ  CategoryType
	icon string
}{
	{"Salary", CategoryIncome, "briefcase"},
	{"Other income", CategoryIncome, "plus"},
	{"Food", CategoryExpense, "utensils"},
	{"Transport", CategoryExpense, "bus"},
	{"Other expenses", CategoryExpense, "minus"},
}

// DefaultCategoryID derives the id of a system category. Every device of the
// same owner derives the same id, so seeding never creates duplicates.
func DefaultCategoryID(ownerID, name string, typ CategoryType) string {
	return uuid.NewSHA1(defaultsNamespace, []byte(NewNaturalKey(ownerID, name, typ).String())).String()
}

// DefaultCategories returns the protected system categories for ownerID.
func DefaultCategories(ownerID string, now time.Time) []*Category {
	at := Stamp(now)
	out := make([]*Category, 0, len(defaultCategories))
	for _, d := range defaultCategories {
		out = append(out, &Category{
			SyncMeta: SyncMeta{
				ID:        DefaultCategoryID(ownerID, d.name, d.typ),
				OwnerID:   ownerID,
				CreatedAt: at,
				UpdatedAt: at,
			},
			Name:        d.name,
			Type:        d.typ,
			Icon:        d.icon,
			IsProtected: true,
		})
	}
	return out
}
