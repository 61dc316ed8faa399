package rpc

import (
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/models"
)

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// ListRequest asks for every document of one kind, tombstones included.
type ListRequest struct {
	OwnerID string      `json:"owner_id"`
	Kind    models.Kind `json:"kind"`
}

type ListResponse struct {
	Documents []models.Document `json:"documents"`
}

type AddRequest struct {
	Document models.Document `json:"document"`
}

type UpdateRequest struct {
	Document models.Document `json:"document"`
}

type SoftDeleteRequest struct {
	OwnerID   string      `json:"owner_id"`
	Kind      models.Kind `json:"kind"`
	ID        string      `json:"id"`
	DeletedAt time.Time   `json:"deleted_at"`
}

type Empty struct{}
