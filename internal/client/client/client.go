package client

import (
	"github.com/dmitrijs2005/gophbudget/internal/client/syncer"
)

// Client is a RemoteStore that holds a connection to release.
type Client interface {
	syncer.RemoteStore
	Close() error
}

var _ Client = (*GRPCClient)(nil)
