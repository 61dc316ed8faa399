// Package localstore is the client's offline-authoritative store.
//
// It owns the SQLite handle, runs the embedded migrations, and runs every
// repository call under a bounded retry policy that reopens the database
// between attempts. When the policy is exhausted the call fails with
// common.ErrLocalDataNotAvailable, so an empty result with a nil error always
// means the data is confirmed empty.
//
// The per-kind collections returned by Categories and Transactions are what the
// sync engine reads from and writes to.
package localstore
