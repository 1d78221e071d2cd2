// Command smoke runs the HTTP smoke sequence against a running server.
// Usage: go run ./cmd/smoke [flags] [base-url]
// Default base URL: http://localhost:9999/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raysh454/smoke/internal/app"
	"github.com/raysh454/smoke/internal/cli"
	"github.com/raysh454/smoke/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	args, err := cli.ParseArgs(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprint(os.Stdout, cli.Usage())
		return app.ExitOK
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "smoke: %v\n\n%s", err, cli.Usage())
		return app.ExitUsage
	}

	cfg := app.DefaultConfig()
	if err := app.LoadEnv(cfg, args.EnvFile); err != nil {
		fmt.Fprintf(os.Stderr, "smoke: %v\n", err)
		return app.ExitUsage
	}
	app.ApplyArgs(cfg, args)

	logger := logging.NewJSONLogger(os.Stderr, "smoke", cfg.Level())
	logger.Debug("arguments parsed",
		logging.Field{Key: "args", Value: args.RawArgs},
		logging.Field{Key: "base_url", Value: cfg.BaseURL},
		logging.Field{Key: "backend", Value: string(cfg.WebClientCfg.Client)})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.NewApplication(cfg, logger, os.Stdout).Run(ctx)
}
