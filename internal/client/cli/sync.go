package cli

import (
	"context"
	"fmt"
	"time"
)

// Sync runs a forced pass and prints its result.
func (a *App) Sync(ctx context.Context) error {
	res := a.engine.PerformSync(ctx, a.config.OwnerID, true)
	fmt.Fprintln(a.out, res)
	return res.Err
}

func (a *App) Sweep(ctx context.Context) error {
	n, err := a.sweeper.Sweep(ctx, a.config.OwnerID)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}
	fmt.Fprintf(a.out, "Merged %d duplicate categories\n", n)
	return nil
}

func (a *App) Status(ctx context.Context) error {
	mode := a.Mode()
	if mode == "" {
		mode = "unknown"
	}
	fmt.Fprintf(a.out, "Owner: %s\nMode: %s\n", a.config.OwnerID, mode)

	last, err := a.engine.LastSync(ctx, a.config.OwnerID)
	switch {
	case err != nil:
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	case last.IsZero():
		fmt.Fprintln(a.out, "Last sync: never")
	default:
		fmt.Fprintf(a.out, "Last sync: %s\n", last.Local().Format(time.DateTime))
	}
	return nil
}
