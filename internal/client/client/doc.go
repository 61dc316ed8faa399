// Package client contains the client side of the remote document store.
//
// # Overview
//
// GRPCClient implements the sync engine's RemoteStore contract over the
// Documents gRPC service: Ping, List, Add, Update and SoftDelete. It owns
// one connection, injects the owner's access token into every call via a
// unary interceptor, and maps gRPC status codes to the sentinel errors of
// package common.
//
// # Error Handling
//
// Callers match errors with errors.Is against common.ErrNotFound,
// common.ErrAlreadyExists, common.ErrUnauthorized, common.ErrUnavailable
// and common.ErrValidation. Anything else is wrapped as "rpc error".
//
// Concurrency & Contexts
//
// GRPCClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation and deadlines.
package client
