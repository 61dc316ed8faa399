package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/shopspring/decimal"
)

// Document is the remote representation of any syncable record: identity and
// timestamps as columns, kind-specific fields as a JSON payload.
type Document struct {
	Kind      Kind            `json:"kind"`
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty"`
}

func (d *Document) IsTombstone() bool { return d.DeletedAt != nil }

type categoryPayload struct {
	Name        string       `json:"name"`
	Type        CategoryType `json:"type"`
	Icon        string       `json:"icon,omitempty"`
	Color       string       `json:"color,omitempty"`
	IsProtected bool         `json:"is_protected,omitempty"`
}

type transactionPayload struct {
	CategoryID  string          `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// ToDocument maps a domain record to its remote representation.
func ToDocument(s Syncable) (Document, error) {
	m := s.Meta()
	doc := Document{
		Kind:      s.Kind(),
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		CreatedAt: Stamp(m.CreatedAt),
		UpdatedAt: Stamp(m.UpdatedAt),
	}
	if m.DeletedAt != nil {
		at := Stamp(*m.DeletedAt)
		doc.DeletedAt = &at
	}

	var payload any
	switch v := s.(type) {
	case *Category:
		payload = categoryPayload{Name: v.Name, Type: v.Type, Icon: v.Icon, Color: v.Color, IsProtected: v.IsProtected}
	case *Transaction:
		payload = transactionPayload{CategoryID: v.CategoryID, Amount: v.Amount, Currency: v.Currency,
			Description: v.Description, OccurredAt: Stamp(v.OccurredAt)}
	default:
		return Document{}, fmt.Errorf("unsupported record type %T", s)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return Document{}, fmt.Errorf("encode %s payload: %w", s.Kind(), err)
	}
	doc.Payload = b
	return doc, nil
}

// FromDocument maps a remote document to a validated domain record. The
// returned record has IsSynced=false; callers decide the sync state.
func FromDocument(d Document) (Syncable, error) {
	meta := SyncMeta{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		CreatedAt: Stamp(d.CreatedAt),
		UpdatedAt: Stamp(d.UpdatedAt),
	}
	if d.DeletedAt != nil {
		at := Stamp(*d.DeletedAt)
		meta.DeletedAt = &at
	}

	switch d.Kind {
	case KindCategory:
		var p categoryPayload
		if err := json.Unmarshal(d.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: decode category %s: %v", common.ErrValidation, d.ID, err)
		}
		c := &Category{SyncMeta: meta, Name: p.Name, Type: p.Type, Icon: p.Icon, Color: p.Color, IsProtected: p.IsProtected}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return c, nil
	case KindTransaction:
		var p transactionPayload
		if err := json.Unmarshal(d.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: decode transaction %s: %v", common.ErrValidation, d.ID, err)
		}
		t := &Transaction{SyncMeta: meta, CategoryID: p.CategoryID, Amount: p.Amount, Currency: p.Currency,
			Description: p.Description, OccurredAt: Stamp(p.OccurredAt)}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", common.ErrValidation, d.Kind)
	}
}

// OverwritePayload copies every field of src into dst except ID and OwnerID,
// including timestamps and the tombstone. Both must be the same kind.
// IsSynced is left to the caller.
func OverwritePayload(dst, src Syncable) error {
	switch d := dst.(type) {
	case *Category:
		s, ok := src.(*Category)
		if !ok {
			return fmt.Errorf("kind mismatch: %s <- %s", dst.Kind(), src.Kind())
		}
		d.Name, d.Type, d.Icon, d.Color, d.IsProtected = s.Name, s.Type, s.Icon, s.Color, s.IsProtected
	case *Transaction:
		s, ok := src.(*Transaction)
		if !ok {
			return fmt.Errorf("kind mismatch: %s <- %s", dst.Kind(), src.Kind())
		}
		d.CategoryID, d.Amount, d.Currency, d.Description, d.OccurredAt = s.CategoryID, s.Amount, s.Currency, s.Description, s.OccurredAt
	default:
		return fmt.Errorf("unsupported record type %T", dst)
	}

	dm, sm := dst.Meta(), src.Meta()
	if !sm.CreatedAt.IsZero() {
		dm.CreatedAt = sm.CreatedAt
	}
	dm.UpdatedAt = sm.UpdatedAt
	dm.DeletedAt = sm.DeletedAt
	return nil
}
