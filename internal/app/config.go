package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/raysh454/smoke/internal/cli"
	"github.com/raysh454/smoke/internal/logging"
	"github.com/raysh454/smoke/internal/report"
	"github.com/raysh454/smoke/internal/smoke"
	"github.com/raysh454/smoke/internal/utils"
	"github.com/raysh454/smoke/internal/webclient"
)

// DefaultEnvFile is loaded when present; its absence is not an error.
const DefaultEnvFile = ".env"

// Config contains the runtime configuration of a smoke run.
type Config struct {
	// BaseURL is the root address of the server under test.
	BaseURL string

	// WebClient configuration
	WebClientCfg webclient.Config

	// Format is the stdout report format.
	Format string

	// XUnitPath and MetricsFile are optional extra outputs.
	XUnitPath   string
	MetricsFile string

	// Repeat > 1 runs the sequence several times and compares the runs.
	Repeat int

	// Schedule is a cron spec; empty means run once and exit.
	Schedule string

	Color   bool
	Verbose bool

	// LogLevel is the minimum stderr log level (debug, info, warn, error).
	// Verbose forces debug.
	LogLevel string
}

// DefaultConfig returns a Config populated with the defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      smoke.DefaultBaseURL,
		WebClientCfg: webclient.DefaultConfig(),
		Format:       report.FormatText,
		Repeat:       1,
		Color:        true,
	}
}

// LoadEnv loads envFile (or DefaultEnvFile when empty) into the process
// environment and applies SMOKE_* variables to cfg. Variables already set in
// the environment win over the file.
func LoadEnv(cfg *Config, envFile string) error {
	file := envFile
	if file == "" {
		file = DefaultEnvFile
	}
	if err := godotenv.Load(file); err != nil {
		if envFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", file, err)
		}
	}

	if v := os.Getenv("SMOKE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("SMOKE_BACKEND"); v != "" {
		cfg.WebClientCfg.Client = webclient.Client(v)
	}
	if v := os.Getenv("SMOKE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SMOKE_TIMEOUT: %w", err)
		}
		cfg.WebClientCfg.Timeout = d
	}
	if v := os.Getenv("SMOKE_USER_AGENT"); v != "" {
		cfg.WebClientCfg.UserAgent = v
	}
	if v := os.Getenv("SMOKE_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("SMOKE_XUNIT"); v != "" {
		cfg.XUnitPath = v
	}
	if v := os.Getenv("SMOKE_METRICS_FILE"); v != "" {
		cfg.MetricsFile = v
	}
	if v := os.Getenv("SMOKE_SCHEDULE"); v != "" {
		cfg.Schedule = v
	}
	if v := os.Getenv("SMOKE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.Color = false
	}
	return nil
}

// ApplyArgs overrides cfg with every flag that was set.
func ApplyArgs(cfg *Config, args *cli.CLIArgs) {
	if args == nil {
		return
	}
	if args.BaseURL != "" {
		cfg.BaseURL = args.BaseURL
	}
	if args.Backend != "" {
		cfg.WebClientCfg.Client = webclient.Client(args.Backend)
	}
	if args.Timeout > 0 {
		cfg.WebClientCfg.Timeout = args.Timeout
	}
	if args.Headful {
		cfg.WebClientCfg.Headful = true
	}
	if args.Format != "" {
		cfg.Format = args.Format
	}
	if args.XUnitPath != "" {
		cfg.XUnitPath = args.XUnitPath
	}
	if args.MetricsFile != "" {
		cfg.MetricsFile = args.MetricsFile
	}
	if args.Repeat > 0 {
		cfg.Repeat = args.Repeat
	}
	if args.Schedule != "" {
		cfg.Schedule = args.Schedule
	}
	if args.NoColor {
		cfg.Color = false
	}
	if args.Verbose {
		cfg.Verbose = true
	}
}

// Level returns the minimum log level for the run. Without Verbose or
// LogLevel only warnings and errors reach stderr.
func (c *Config) Level() logging.Level {
	switch {
	case c.Verbose:
		return logging.LevelDebug
	case c.LogLevel != "":
		return logging.ParseLevel(c.LogLevel)
	default:
		return logging.LevelWarn
	}
}

// Validate checks the configuration before any request is made.
func (c *Config) Validate() error {
	if _, err := utils.Canonicalize(c.BaseURL, utils.CanonicalizeOptions{DefaultScheme: "http"}); err != nil {
		return fmt.Errorf("base url: %w", err)
	}
	if _, err := report.NewReporter(c.Format, false); err != nil {
		return err
	}
	backend := strings.ToLower(strings.TrimSpace(string(c.WebClientCfg.Client)))
	if backend != "" && !slices.Contains(webclient.ListBackends(), backend) {
		return fmt.Errorf("unknown backend %q (available: %s)", c.WebClientCfg.Client, strings.Join(webclient.ListBackends(), ", "))
	}
	if c.WebClientCfg.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.WebClientCfg.Timeout)
	}
	if c.Repeat < 1 {
		return fmt.Errorf("repeat must be at least 1, got %d", c.Repeat)
	}
	if c.Schedule != "" {
		if c.Repeat > 1 {
			return errors.New("schedule and repeat cannot be combined")
		}
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			return fmt.Errorf("schedule %q: %w", c.Schedule, err)
		}
	}
	return nil
}
