package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophbudget/internal/common"
)

// CategoryType is the second half of a category's natural key.
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

func ParseCategoryType(s string) (CategoryType, error) {
	switch CategoryType(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryIncome:
		return CategoryIncome, nil
	case CategoryExpense:
		return CategoryExpense, nil
	default:
		return "", fmt.Errorf("%w: category type must be income or expense, got %q", common.ErrValidation, s)
	}
}

// Category groups transactions. Names are unique per owner and type among
// active categories, which DuplicateGuard enforces opportunistically.
type Category struct {
	SyncMeta

	Name  string
	Type  CategoryType
	Icon  string
	Color string

	// IsProtected marks system-provided categories that neither the edit
	// paths nor the sync paths may modify or delete.
	IsProtected bool
}

func (c *Category) Kind() Kind      { return KindCategory }
func (c *Category) Meta() *SyncMeta { return &c.SyncMeta }

// NaturalKey returns the duplicate-detection key of c.
func (c *Category) NaturalKey() NaturalKey {
	return NewNaturalKey(c.OwnerID, c.Name, c.Type)
}

func (c *Category) Validate() error {
	if c.ID == "" || c.OwnerID == "" {
		return fmt.Errorf("%w: category id and owner are required", common.ErrValidation)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: category name is required", common.ErrValidation)
	}
	if _, err := ParseCategoryType(string(c.Type)); err != nil {
		return err
	}
	return nil
}

// DuplicateGroup is one natural key's worth of active categories after a
// sweep decided which member survives.
type DuplicateGroup struct {
	Keep   *Category
	Losers []*Category
}
