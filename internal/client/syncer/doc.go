// Package syncer reconciles the local store with the remote store.
//
// An Engine runs one pass at a time per process:
//
//  1. Gate: offline, already running, or too soon after the last success
//     (unless forced) ends the call without touching either store.
//  2. Push: every unsynced record, categories first, is written to the remote
//     store; tombstones become remote soft deletes. A record is marked synced
//     only after its own remote call succeeds, so failures are retried on the
//     next pass.
//  3. Pull: when nothing was pushed, when the pull interval elapsed, or when
//     forced, every remote record is reconciled with its local counterpart by
//     last-write-wins on the update timestamp.
//  4. Bookkeeping: the time of the last successful pass is persisted and the
//     completion callbacks run.
//
// Category duplicates by natural key are handled by DuplicateGuard: creates
// are redirected to the existing record, a push whose key already exists
// remotely under another id adopts the remote record, and Sweep merges local
// duplicates.
package syncer
