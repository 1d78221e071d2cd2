package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

// CLIArgs are the command-line arguments of a smoke run. Zero values mean
// "use the configured value".
type CLIArgs struct {
	// BaseURL is the root address of the server under test.
	BaseURL string

	// Backend selects the web client: nethttp or chromedp.
	Backend string

	// Timeout bounds each request.
	Timeout time.Duration

	// Format is the stdout report format: text, json or xunit.
	Format string

	// XUnitPath, when set, also writes a JUnit XML report to this file.
	XUnitPath string

	// MetricsFile, when set, writes a Prometheus textfile after each run.
	MetricsFile string

	// Repeat runs the sequence this many times and fails when runs differ.
	Repeat int

	// Schedule is a cron spec ("@every 1m", "*/5 * * * *") for continuous runs.
	Schedule string

	// EnvFile is a .env file to load before reading SMOKE_* variables.
	EnvFile string

	Headful bool
	NoColor bool
	Verbose bool

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// flagValues holds the destinations bound by newFlagSet.
type flagValues struct {
	baseURL     *string
	backend     *string
	timeout     *time.Duration
	format      *string
	xunit       *string
	metricsFile *string
	repeat      *int
	schedule    *string
	envFile     *string
	headful     *bool
	noColor     *bool
	verbose     *bool
}

// newFlagSet declares every flag of the smoke command. Output is discarded;
// Usage renders the defaults itself.
func newFlagSet() (*flag.FlagSet, *flagValues) {
	fs := flag.NewFlagSet("smoke", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	v := &flagValues{
		baseURL:     fs.String("base-url", "", "Root URL of the server under test (default http://localhost:9999/)"),
		backend:     fs.String("backend", "", "Web client backend: nethttp|chromedp"),
		timeout:     fs.Duration("timeout", 0, "Per-request timeout (0=use default)"),
		format:      fs.String("format", "", "Report format: text|json|xunit"),
		xunit:       fs.String("xunit", "", "Also write a JUnit XML report to this file"),
		metricsFile: fs.String("metrics-file", "", "Write Prometheus textfile metrics to this file"),
		repeat:      fs.Int("repeat", 0, "Run the sequence N times and fail if results differ (0=once)"),
		schedule:    fs.String("schedule", "", "Cron spec for continuous runs, e.g. \"@every 1m\""),
		envFile:     fs.String("env-file", "", "Load SMOKE_* variables from this .env file"),
		headful:     fs.Bool("headful", false, "Show the browser window (chromedp backend)"),
		noColor:     fs.Bool("no-color", false, "Disable coloured console output"),
		verbose:     fs.Bool("v", false, "Verbose logging to stderr"),
	}
	return fs, v
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs, v := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *v.repeat < 0 {
		return nil, fmt.Errorf("-repeat must not be negative, got %d", *v.repeat)
	}
	if *v.timeout < 0 {
		return nil, fmt.Errorf("-timeout must not be negative, got %s", *v.timeout)
	}

	rest := fs.Args()
	if len(rest) > 1 {
		return nil, fmt.Errorf("expected at most one base URL argument, got %d", len(rest))
	}
	if len(rest) == 1 {
		if *v.baseURL != "" && *v.baseURL != rest[0] {
			return nil, fmt.Errorf("base URL given twice: -base-url %q and argument %q", *v.baseURL, rest[0])
		}
		*v.baseURL = rest[0]
	}

	return &CLIArgs{
		BaseURL:     *v.baseURL,
		Backend:     *v.backend,
		Timeout:     *v.timeout,
		Format:      *v.format,
		XUnitPath:   *v.xunit,
		MetricsFile: *v.metricsFile,
		Repeat:      *v.repeat,
		Schedule:    *v.schedule,
		EnvFile:     *v.envFile,
		Headful:     *v.headful,
		NoColor:     *v.noColor,
		Verbose:     *v.verbose,
		RawArgs:     args,
	}, nil
}

// Usage returns the help text followed by the flag defaults.
func Usage() string {
	var b strings.Builder
	b.WriteString(`usage: smoke [flags] [base-url]

Runs the smoke sequence against base-url (default http://localhost:9999/):
  GET /      expects 200
  GET /zapp  expects 404 with a JSON Content-Type

Exit status is 0 when all assertions pass, 1 on failure, 2 on usage errors.

Flags:
`)
	fs, _ := newFlagSet()
	fs.SetOutput(&b)
	fs.PrintDefaults()
	return b.String()
}
