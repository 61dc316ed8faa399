package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/shopspring/decimal"
)

// Transaction is a single income or expense booking.
type Transaction struct {
	SyncMeta

	CategoryID  string
	Amount      decimal.Decimal
	Currency    string
	Description string
	OccurredAt  time.Time
}

func (t *Transaction) Kind() Kind      { return KindTransaction }
func (t *Transaction) Meta() *SyncMeta { return &t.SyncMeta }

func (t *Transaction) Validate() error {
	if t.ID == "" || t.OwnerID == "" {
		return fmt.Errorf("%w: transaction id and owner are required", common.ErrValidation)
	}
	if t.CategoryID == "" {
		return fmt.Errorf("%w: transaction category is required", common.ErrValidation)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", common.ErrValidation)
	}
	if len(t.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a three-letter code, got %q", common.ErrValidation, t.Currency)
	}
	if t.OccurredAt.IsZero() {
		return fmt.Errorf("%w: transaction date is required", common.ErrValidation)
	}
	return nil
}
