// Package cli implements the catctl administrative commands on top of
// app.App.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/catcurious/internal/app"
	"github.com/dmitrijs2005/catcurious/internal/common"
)

type CLI struct {
	app    *app.App
	reader *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func New(a *app.App, in io.Reader, out, errOut io.Writer) *CLI {
	return &CLI{app: a, reader: bufio.NewReader(in), out: out, errOut: errOut}
}

type command struct {
	name string
	args []string
	help string
	run  func(c *CLI, ctx context.Context, args []string) error
}

var commands = []command{
	{"migrate", nil, "apply database migrations", (*CLI).migrate},
	{"reset", nil, "drop and recreate the schema (deletes all data)", (*CLI).reset},
	{"check", nil, "check database connectivity and schema", (*CLI).check},
	{"create-account", []string{"username"}, "create a user account", (*CLI).createAccount},
	{"login", []string{"username"}, "verify a username and password", (*CLI).login},
	{"update-password", []string{"username"}, "change a user's password", (*CLI).updatePassword},
	{"create-cat", []string{"name", "breed", "age", "weight"}, "add a cat", (*CLI).createCat},
	{"get-cat", []string{"id"}, "show a cat by id", (*CLI).getCat},
	{"get-cat-by-name", []string{"name"}, "show a cat by name", (*CLI).getCatByName},
	{"delete-cat", []string{"id"}, "delete a cat", (*CLI).deleteCat},
	{"clear-cats", nil, "remove every cat and restart ids at 1", (*CLI).clearCats},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (c command) usage() string {
	s := c.name
	for _, a := range c.args {
		s += " <" + a + ">"
	}
	return s
}

// IsHelp reports whether args ask for usage only, so no database is needed.
func IsHelp(args []string) bool {
	if len(args) == 0 {
		return true
	}
	switch args[0] {
	case "help", "-h", "-help", "--help":
		return true
	}
	return false
}

// Usage writes the command summary to w.
func Usage(w io.Writer) {
	fmt.Fprintln(w, "usage: catctl [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-40s %s\n", c.usage(), c.help)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "flags: -b driver, -d dsn, -l log level, -f log format, -m metrics file, -c config file")
}

// Run executes the command in args and returns the process exit status.
func (c *CLI) Run(ctx context.Context, args []string) int {
	if IsHelp(args) {
		Usage(c.out)
		return 0
	}

	cmd, ok := lookup(args[0])
	if !ok {
		fmt.Fprintf(c.errOut, "unknown command %q\n", args[0])
		Usage(c.errOut)
		return 1
	}

	if len(args)-1 != len(cmd.args) {
		fmt.Fprintf(c.errOut, "usage: catctl %s\n", cmd.usage())
		return 1
	}

	if err := cmd.run(c, ctx, args[1:]); err != nil {
		fmt.Fprintf(c.errOut, "error: %s\n", message(err))
		return 1
	}
	return 0
}

// message is the user-facing text for err. Authentication failures all
// read the same so that usernames cannot be probed.
func message(err error) string {
	if errors.Is(err, common.ErrUnauthorized) {
		return common.ErrUnauthorized.Error()
	}
	return err.Error()
}
