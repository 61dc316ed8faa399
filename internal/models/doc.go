// Package models defines the domain records shared by the client and the
// server: the two syncable entity kinds (Category, Transaction), their sync
// bookkeeping, and the Document wire shape stored remotely.
//
// ToDocument and FromDocument are the only mapping between the remote
// representation and the domain types; FromDocument validates, so code past
// that boundary can trust field presence.
package models
