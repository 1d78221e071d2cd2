package cli_test

import (
	"errors"
	"flag"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/smoke/internal/cli"
)

func TestParseArgs_Defaults(t *testing.T) {
	args, err := cli.ParseArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, "", args.BaseURL)
	assert.Equal(t, 0, args.Repeat)
	assert.False(t, args.Verbose)
}

func TestParseArgs_AllFlags(t *testing.T) {
	args, err := cli.ParseArgs([]string{
		"-base-url", "http://localhost:8080/",
		"-backend", "chromedp",
		"-timeout", "5s",
		"-format", "json",
		"-xunit", "out.xml",
		"-metrics-file", "smoke.prom",
		"-repeat", "2",
		"-schedule", "@every 1m",
		"-env-file", ".env.test",
		"-headful", "-no-color", "-v",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/", args.BaseURL)
	assert.Equal(t, "chromedp", args.Backend)
	assert.Equal(t, 5*time.Second, args.Timeout)
	assert.Equal(t, "json", args.Format)
	assert.Equal(t, "out.xml", args.XUnitPath)
	assert.Equal(t, "smoke.prom", args.MetricsFile)
	assert.Equal(t, 2, args.Repeat)
	assert.Equal(t, "@every 1m", args.Schedule)
	assert.Equal(t, ".env.test", args.EnvFile)
	assert.True(t, args.Headful)
	assert.True(t, args.NoColor)
	assert.True(t, args.Verbose)
}

func TestParseArgs_PositionalBaseURL(t *testing.T) {
	args, err := cli.ParseArgs([]string{"-v", "http://localhost:9999/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/", args.BaseURL)

	_, err = cli.ParseArgs([]string{"a", "b"})
	assert.Error(t, err)

	_, err = cli.ParseArgs([]string{"-base-url", "http://a/", "http://b/"})
	assert.Error(t, err)
}

func TestParseArgs_Invalid(t *testing.T) {
	_, err := cli.ParseArgs([]string{"-repeat", "-1"})
	assert.Error(t, err)

	_, err = cli.ParseArgs([]string{"-timeout", "soon"})
	assert.Error(t, err)

	_, err = cli.ParseArgs([]string{"-unknown"})
	assert.Error(t, err)

	_, err = cli.ParseArgs([]string{"-h"})
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func TestUsage_ListsEveryFlag(t *testing.T) {
	usage := cli.Usage()
	for _, name := range []string{
		"-base-url", "-backend", "-timeout", "-format", "-xunit", "-metrics-file",
		"-repeat", "-schedule", "-env-file", "-headful", "-no-color", "-v",
	} {
		assert.Regexp(t, `(?m)^  `+regexp.QuoteMeta(name)+`\s`, usage, "usage should describe %s", name)
	}
	assert.Contains(t, usage, "Report format: text|json|xunit")
	assert.NotContains(t, usage, "Run with -h")
}

func TestParseArgs_KeepsRawArgs(t *testing.T) {
	in := []string{"-v", "http://localhost:9999/"}
	args, err := cli.ParseArgs(in)
	require.NoError(t, err)
	assert.Equal(t, in, args.RawArgs)
	assert.Equal(t, "http://localhost:9999/", args.BaseURL)
}
