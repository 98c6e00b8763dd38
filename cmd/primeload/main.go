// Command primeload runs the prime-number load-testing server.
//
// Usage:
//
//	primeload server [config.yml]
//	primeload check [config.yml]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/jonwraymond/primeload/config"
	"github.com/jonwraymond/primeload/observe"
	"github.com/jonwraymond/primeload/server"
)

var version = "dev"

type cli struct {
	app *kingpin.Application

	server       *kingpin.CmdClause
	serverConfig *string

	check       *kingpin.CmdClause
	checkConfig *string
}

func newCLI(stdout, stderr io.Writer) *cli {
	app := kingpin.New("primeload", "Prime-number load-testing HTTP harness.")
	app.Version(version)
	app.UsageWriter(stdout)
	app.ErrorWriter(stderr)

	c := &cli{app: app}
	c.server = app.Command("server", "Run the application and admin listeners.").Default()
	c.serverConfig = c.server.Arg("config", "YAML configuration file.").ExistingFile()
	c.check = app.Command("check", "Validate a configuration file and exit.")
	c.checkConfig = c.check.Arg("config", "YAML configuration file.").ExistingFile()
	return c
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	c := newCLI(stdout, stderr)
	cmd, err := c.app.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "primeload: %v\n", err)
		return 2
	}

	switch cmd {
	case c.check.FullCommand():
		if _, err := config.Load(*c.checkConfig); err != nil {
			fmt.Fprintf(stderr, "primeload: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, "configuration OK")
		return 0

	case c.server.FullCommand():
		cfg, err := config.Load(*c.serverConfig)
		if err != nil {
			fmt.Fprintf(stderr, "primeload: %v\n", err)
			return 1
		}
		if cfg.Observe.Version == "dev" {
			cfg.Observe.Version = version
		}

		a, err := server.New(ctx, cfg, server.WithStdout(stdout))
		if err != nil {
			fmt.Fprintf(stderr, "primeload: %v\n", err)
			return 1
		}
		if err := a.Run(ctx); err != nil {
			a.Logger().Error(context.Background(), "server stopped", observe.Field{Key: "error", Value: err.Error()})
			return 1
		}
		return 0
	}
	return 2
}
