package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/services"
)

func (a *App) ListTransactions(ctx context.Context) error {
	list, err := a.transactions.List(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}

	names := map[string]string{}
	if cats, err := a.categories.List(ctx); err == nil {
		for _, c := range cats {
			names[c.ID] = c.Name
		}
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION\t")
	for _, tx := range list {
		cat, ok := names[tx.CategoryID]
		if !ok {
			cat = "?"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s\t\n", tx.ID, tx.OccurredAt.Format(time.DateOnly),
			cat, tx.Amount.StringFixedBank(2), tx.Currency, tx.Description)
	}
	return w.Flush()
}

func (a *App) AddTransaction(ctx context.Context) error {
	var in services.TransactionInput
	var err error

	fail := func(err error) error {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}

	if in.CategoryID, err = GetSimpleText(a.reader, "Category id", a.out); err != nil {
		return fail(err)
	}
	if in.Amount, err = GetAmount(a.reader, "Amount", a.out); err != nil {
		return fail(err)
	}
	if in.Currency, err = GetSimpleText(a.reader, "Currency (ISO code)", a.out); err != nil {
		return fail(err)
	}
	if in.Description, err = GetSimpleText(a.reader, "Description", a.out); err != nil {
		return fail(err)
	}
	if in.OccurredAt, err = GetDate(a.reader, "Date", a.out); err != nil {
		return fail(err)
	}

	tx, err := a.transactions.Create(ctx, in)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(a.out, "Saved transaction %s\n", tx.ID)
	return nil
}

func (a *App) DeleteTransaction(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter transaction id to delete", a.out)
	if err != nil {
		return err
	}
	if err := a.transactions.Delete(ctx, id); err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Transaction deleted")
	return nil
}
