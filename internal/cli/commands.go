package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/catcurious/internal/common"
	"github.com/dmitrijs2005/catcurious/internal/models"
)

func wipe(b []byte) { common.WipeByteArray(b) }

func (c *CLI) migrate(ctx context.Context, _ []string) error {
	if err := c.app.Migrate(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "migrations applied")
	return nil
}

func (c *CLI) reset(ctx context.Context, _ []string) error {
	if err := c.app.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "schema recreated")
	return nil
}

func (c *CLI) check(ctx context.Context, _ []string) error {
	if err := c.app.Check(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "ok")
	return nil
}

func (c *CLI) createAccount(ctx context.Context, args []string) error {
	pw, err := GetNewPassword(c.reader, "Password: ", c.out)
	if err != nil {
		return err
	}
	defer wipe(pw)

	id, err := c.app.Users.CreateAccount(ctx, args[0], string(pw))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created user %s (id %d)\n", args[0], id)
	return nil
}

func (c *CLI) login(ctx context.Context, args []string) error {
	pw, err := GetPassword(c.reader, "Password: ", c.out)
	if err != nil {
		return err
	}
	defer wipe(pw)

	if err := c.app.Users.Authenticate(ctx, args[0], string(pw)); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "login successful")
	return nil
}

func (c *CLI) updatePassword(ctx context.Context, args []string) error {
	oldPw, err := GetPassword(c.reader, "Current password: ", c.out)
	if err != nil {
		return err
	}
	defer wipe(oldPw)

	newPw, err := GetNewPassword(c.reader, "New password: ", c.out)
	if err != nil {
		return err
	}
	defer wipe(newPw)

	if err := c.app.Users.UpdatePassword(ctx, args[0], string(oldPw), string(newPw)); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "password updated")
	return nil
}

func (c *CLI) createCat(ctx context.Context, args []string) error {
	age, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("%w: age must be an integer", common.ErrInvalidInput)
	}
	weight, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return fmt.Errorf("%w: weight must be a number", common.ErrInvalidInput)
	}

	id, err := c.app.Cats.CreateCat(ctx, args[0], args[1], age, weight)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created cat %s (id %d)\n", args[0], id)
	return nil
}

func (c *CLI) getCat(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	cat, err := c.app.Cats.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return c.printCat(cat)
}

func (c *CLI) getCatByName(ctx context.Context, args []string) error {
	cat, err := c.app.Cats.GetByName(ctx, args[0])
	if err != nil {
		return err
	}
	return c.printCat(cat)
}

func (c *CLI) deleteCat(ctx context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := c.app.Cats.DeleteByID(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "deleted cat %d\n", id)
	return nil
}

func (c *CLI) clearCats(ctx context.Context, _ []string) error {
	if err := c.app.Cats.ClearAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "all cats removed")
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", common.ErrInvalidInput)
	}
	return id, nil
}

func (c *CLI) printCat(cat *models.Cat) error {
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBREED\tAGE\tWEIGHT")
	fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%g\n", cat.ID, cat.Name, cat.Breed, cat.Age, cat.Weight)
	return tw.Flush()
}
