package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/raysh454/smoke/internal/logging"
	"github.com/raysh454/smoke/internal/report"
	"github.com/raysh454/smoke/internal/smoke"
	"github.com/raysh454/smoke/internal/suite"
	"github.com/raysh454/smoke/internal/webclient"
)

// Process exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
)

// ClientFactory builds the web client for a run.
type ClientFactory func(cfg webclient.Config, logger logging.Logger) (webclient.WebClient, error)

// Application is the runtime state of one invocation: configuration, logger
// and the writer that receives reports.
type Application struct {
	Config *Config
	Logger logging.Logger
	Out    io.Writer

	NewClient ClientFactory
}

// NewApplication constructs an Application from the provided parts.
func NewApplication(cfg *Config, logger logging.Logger, out io.Writer) *Application {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	if out == nil {
		out = os.Stdout
	}
	return &Application{
		Config:    cfg,
		Logger:    logger,
		Out:       out,
		NewClient: webclient.NewWebClient,
	}
}

// Run executes the configured runs and returns the process exit code.
func (a *Application) Run(ctx context.Context) int {
	if err := a.Config.Validate(); err != nil {
		a.Logger.Error("invalid configuration", logging.Field{Key: "error", Value: err.Error()})
		fmt.Fprintf(a.Out, "configuration error: %v\n", err)
		return ExitUsage
	}

	client, err := a.NewClient(a.Config.WebClientCfg, a.Logger)
	if err != nil {
		a.Logger.Error("failed to create web client", logging.Field{Key: "error", Value: err.Error()})
		fmt.Fprintf(a.Out, "FAIL could not create web client: %v\n", err)
		return ExitFailed
	}
	defer client.Close()

	if a.Config.Schedule != "" {
		return a.runScheduled(ctx, client)
	}
	return a.runRepeated(ctx, client)
}

// RunOnce runs the sequence once and writes every configured report.
func (a *Application) RunOnce(ctx context.Context, client webclient.WebClient) (*suite.Summary, error) {
	summary, err := smoke.Run(ctx, a.Config.BaseURL, client, a.Logger)
	if err != nil {
		return nil, err
	}

	var errs []error
	reporter, err := report.NewReporter(a.Config.Format, a.Config.Color)
	if err != nil {
		return summary, err
	}
	if err := reporter.Report(a.Out, summary); err != nil {
		errs = append(errs, fmt.Errorf("write report: %w", err))
	}
	if a.Config.XUnitPath != "" {
		if err := report.WriteXUnitFile(a.Config.XUnitPath, summary); err != nil {
			errs = append(errs, err)
		}
	}
	if a.Config.MetricsFile != "" {
		if err := report.WriteMetricsFile(a.Config.MetricsFile, summary); err != nil {
			errs = append(errs, err)
		}
	}
	return summary, errors.Join(errs...)
}

func (a *Application) runRepeated(ctx context.Context, client webclient.WebClient) int {
	code := ExitOK
	var first *suite.Summary
	for i := 1; i <= a.Config.Repeat; i++ {
		summary, err := a.RunOnce(ctx, client)
		if err != nil {
			a.Logger.Error("run failed", logging.Field{Key: "run", Value: i}, logging.Field{Key: "error", Value: err.Error()})
			if summary == nil {
				return ExitFailed
			}
			code = ExitFailed
		}
		if !summary.Success() {
			code = ExitFailed
		}
		if first == nil {
			first = summary
			continue
		}
		if equal, diff := report.CompareRuns(first, summary); !equal {
			a.Logger.Warn("run results differ from the first run", logging.Field{Key: "run", Value: i})
			fmt.Fprintf(a.Out, "FAIL run %d differs from run 1:\n%s", i, diff)
			code = ExitFailed
		}
	}
	return code
}

func (a *Application) runScheduled(ctx context.Context, client webclient.WebClient) int {
	sched, err := NewScheduler(a.Config.Schedule, func(ctx context.Context) (*suite.Summary, error) {
		summary, err := a.RunOnce(ctx, client)
		if err != nil {
			a.Logger.Error("scheduled run failed", logging.Field{Key: "error", Value: err.Error()})
		}
		return summary, err
	}, a.Logger)
	if err != nil {
		fmt.Fprintf(a.Out, "configuration error: %v\n", err)
		return ExitUsage
	}

	last, err := sched.Run(ctx)
	if err != nil || last == nil || !last.Success() {
		return ExitFailed
	}
	return ExitOK
}
