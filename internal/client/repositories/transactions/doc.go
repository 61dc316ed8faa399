// Package transactions provides the client-side persistence layer for
// money transactions. Amounts are stored as decimal text so no precision is
// lost between devices.
package transactions
