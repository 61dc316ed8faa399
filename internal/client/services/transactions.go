package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionInput carries the user-editable fields of a transaction.
type TransactionInput struct {
	CategoryID  string
	Amount      decimal.Decimal
	Currency    string
	Description string
	OccurredAt  time.Time
}

type TransactionService interface {
	Create(ctx context.Context, in TransactionInput) (*models.Transaction, error)
	Update(ctx context.Context, id string, in TransactionInput) (*models.Transaction, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Transaction, error)
}

type transactionService struct {
	store      TransactionStore
	categories CategoryService
	sched      Scheduler
	opts       Options
}

// NewTransactionService checks category references through categories.
func NewTransactionService(store TransactionStore, categories CategoryService, sched Scheduler, opts Options) TransactionService {
	return &transactionService{store: store, categories: categories, sched: sched, opts: opts.withDefaults()}
}

func (s *transactionService) apply(ctx context.Context, tx *models.Transaction, in TransactionInput) error {
	tx.CategoryID = in.CategoryID
	tx.Amount = in.Amount
	tx.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	tx.Description = in.Description
	tx.OccurredAt = models.Stamp(in.OccurredAt)
	if err := tx.Validate(); err != nil {
		return err
	}
	if _, err := s.categories.Get(ctx, tx.CategoryID); err != nil {
		return fmt.Errorf("category %s: %w", tx.CategoryID, common.ErrValidation)
	}
	return nil
}

func (s *transactionService) Create(ctx context.Context, in TransactionInput) (*models.Transaction, error) {
	now := models.Stamp(s.opts.Clock.Now())
	tx := &models.Transaction{
		SyncMeta: models.SyncMeta{ID: uuid.NewString(), OwnerID: s.opts.OwnerID, CreatedAt: now, UpdatedAt: now},
	}
	if in.OccurredAt.IsZero() {
		in.OccurredAt = now
	}
	if err := s.apply(ctx, tx, in); err != nil {
		return nil, err
	}

	if err := s.store.SaveTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("error saving transaction: %w", err)
	}
	s.sched.ScheduleSync(s.opts.OwnerID, s.opts.SyncDelay)
	return tx, nil
}

func (s *transactionService) get(ctx context.Context, id string) (*models.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving transaction: %w", err)
	}
	if tx.OwnerID != s.opts.OwnerID || tx.IsTombstone() {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	return tx, nil
}

func (s *transactionService) Update(ctx context.Context, id string, in TransactionInput) (*models.Transaction, error) {
	tx, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.OccurredAt.IsZero() {
		in.OccurredAt = tx.OccurredAt
	}
	if err := s.apply(ctx, tx, in); err != nil {
		return nil, err
	}

	tx.Touch(s.opts.Clock.Now())
	if err := s.store.SaveTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("error saving transaction: %w", err)
	}
	s.sched.ScheduleSync(s.opts.OwnerID, s.opts.SyncDelay)
	return tx, nil
}

func (s *transactionService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.store.SoftDelete(ctx, id, s.opts.Clock.Now()); err != nil {
		return fmt.Errorf("error deleting transaction: %w", err)
	}
	s.sched.ScheduleSync(s.opts.OwnerID, s.opts.SyncDelay)
	return nil
}

func (s *transactionService) List(ctx context.Context) ([]*models.Transaction, error) {
	out, err := s.store.ListActive(ctx, s.opts.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}
	return out, nil
}
