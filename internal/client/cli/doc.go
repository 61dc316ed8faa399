// Package cli provides the interactive gophbudget command-line client.
//
// It wires configuration, the local store, the sync engine and the
// application services into a REPL that works the same online and offline.
// Edits land in the local store immediately and schedule a debounced sync;
// a background watcher pings the server and runs a forced sync whenever
// connectivity returns.
//
// Key features:
//   - Categories: list, add, edit, delete
//   - Transactions: list, add, delete
//   - Manual sync, duplicate sweep and status
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
