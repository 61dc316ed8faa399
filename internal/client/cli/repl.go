package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	ListCategories(ctx context.Context) error
	AddCategory(ctx context.Context) error
	EditCategory(ctx context.Context) error
	DeleteCategory(ctx context.Context) error
	ListTransactions(ctx context.Context) error
	AddTransaction(ctx context.Context) error
	DeleteTransaction(ctx context.Context) error
	Sync(ctx context.Context) error
	Sweep(ctx context.Context) error
	Status(ctx context.Context) error
}

const helpText = "Available commands: categories, addcat, editcat, delcat, " +
	"transactions, addtx, deltx, sync, sweep, status, exit"

// runREPL starts a simple read–eval–print loop for the gophbudget CLI.
//
// It reads a line from reader, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. Handlers prompt for their fields on the same reader.
// The loop ends on EOF or ctx cancellation, and when the user types "exit"
// or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	help                  - show available commands
//	categories | cats     - list active categories
//	addcat                - add a category
//	editcat               - edit a category
//	delcat                - delete a category
//	transactions | txs    - list active transactions
//	addtx                 - add a transaction
//	deltx                 - delete a transaction
//	sync                  - run a forced sync pass now
//	sweep                 - merge duplicate categories now
//	status                - show mode and last sync time
//	exit | quit           - leave the program
//
// Command handlers print their own errors; the returned error is ignored
// here to keep the loop resilient.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("gb %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "categories", "cats":
			_ = a.ListCategories(ctx)

		case "addcat":
			_ = a.AddCategory(ctx)

		case "editcat":
			_ = a.EditCategory(ctx)

		case "delcat":
			_ = a.DeleteCategory(ctx)

		case "transactions", "txs":
			_ = a.ListTransactions(ctx)

		case "addtx":
			_ = a.AddTransaction(ctx)

		case "deltx":
			_ = a.DeleteTransaction(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "sweep":
			_ = a.Sweep(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
