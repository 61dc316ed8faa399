package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophbudget/internal/client/services"
	"github.com/dmitrijs2005/gophbudget/internal/models"
)

func (a *App) ListCategories(ctx context.Context) error {
	list, err := a.categories.List(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tICON\tCOLOR\t")
	for _, c := range list {
		name := c.Name
		if c.IsProtected {
			name += " *"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", c.ID, name, c.Type, c.Icon, c.Color)
	}
	return w.Flush()
}

func (a *App) readCategory(current *models.Category) (services.CategoryInput, error) {
	var in services.CategoryInput
	if current != nil {
		in = services.CategoryInput{Name: current.Name, Type: current.Type, Icon: current.Icon, Color: current.Color}
	}

	var err error
	if in.Name, err = GetDefaultText(a.reader, "Name", in.Name, a.out); err != nil {
		return in, err
	}
	typ, err := GetDefaultText(a.reader, "Type (income/expense)", string(in.Type), a.out)
	if err != nil {
		return in, err
	}
	if in.Type, err = models.ParseCategoryType(typ); err != nil {
		return in, err
	}
	if in.Icon, err = GetDefaultText(a.reader, "Icon", in.Icon, a.out); err != nil {
		return in, err
	}
	if in.Color, err = GetDefaultText(a.reader, "Color", in.Color, a.out); err != nil {
		return in, err
	}
	return in, nil
}

func (a *App) AddCategory(ctx context.Context) error {
	in, err := a.readCategory(nil)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}

	c, err := a.categories.Create(ctx, in)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}
	fmt.Fprintf(a.out, "Saved category %s (%s)\n", c.Name, c.ID)
	return nil
}

func (a *App) EditCategory(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter category id to edit", a.out)
	if err != nil {
		return err
	}
	current, err := a.categories.Get(ctx, id)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}

	in, err := a.readCategory(current)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}
	if _, err := a.categories.Update(ctx, id, in); err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Category updated")
	return nil
}

func (a *App) DeleteCategory(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter category id to delete", a.out)
	if err != nil {
		return err
	}
	if err := a.categories.Delete(ctx, id); err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Category deleted")
	return nil
}
