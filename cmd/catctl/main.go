package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/catcurious/internal/app"
	"github.com/dmitrijs2005/catcurious/internal/cli"
	"github.com/dmitrijs2005/catcurious/internal/config"
	"github.com/dmitrijs2005/catcurious/internal/flagx"
)

func main() {
	os.Exit(run())
}

func run() int {
	args := flagx.Positional(os.Args[1:], config.FlagsWithValue)
	if cli.IsHelp(args) {
		cli.Usage(os.Stdout)
		return 0
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.NewApp(ctx, cfg, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	code := cli.New(a, os.Stdin, os.Stdout, os.Stderr).Run(ctx, args)

	if err := a.Close(); err != nil {
		a.Logger().Error(ctx, "shutdown", "error", err)
		code = 1
	}
	return code
}
