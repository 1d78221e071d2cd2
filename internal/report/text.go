package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/raysh454/smoke/internal/suite"
)

const (
	ansiReset = "\x1b[0m"
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiWarn  = "\x1b[33m"
)

// TextReporter prints one PASS/FAIL line per assertion followed by a totals
// line, the way browser test runners report to a console.
type TextReporter struct {
	Color bool
}

func (r *TextReporter) Report(w io.Writer, s *suite.Summary) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n", s.Name)
	for _, res := range s.Results {
		if res.Passed {
			fmt.Fprintf(bw, "%s %s\n", r.paint(ansiGreen, "PASS"), res.Description)
			continue
		}
		fmt.Fprintf(bw, "%s %s\n", r.paint(ansiRed, "FAIL"), res.Description)
		fmt.Fprintf(bw, "#    type: %s\n", res.Kind)
		if res.URL != "" {
			fmt.Fprintf(bw, "#    url: %s\n", res.URL)
		}
		fmt.Fprintf(bw, "#    subject: %s\n", res.Actual)
		if res.Expected != "" {
			fmt.Fprintf(bw, "#    expected: %s\n", res.Expected)
		}
		if res.Message != "" {
			fmt.Fprintf(bw, "#    message: %s\n", res.Message)
		}
	}
	if failures := s.Failures(); len(failures) > 0 {
		fmt.Fprintf(bw, "\nDetails for the %d failed test(s):\n\n", len(failures))
		for _, res := range failures {
			fmt.Fprintf(bw, "In %s\n  %s\n    %s: expected %s, got %s\n", res.URL, res.Description, res.Kind, res.Expected, res.Actual)
		}
		fmt.Fprintln(bw)
	}
	for _, e := range s.Errors {
		fmt.Fprintf(bw, "%s %s\n", r.paint(ansiRed, "ERROR"), e)
	}
	if s.Incomplete() {
		fmt.Fprintf(bw, "%s Looks like you planned %d tests but ran %d.\n",
			r.paint(ansiWarn, "WARN"), s.Planned, s.Executed)
	}

	status, colour := "PASS", ansiGreen
	if !s.Success() {
		status, colour = "FAIL", ansiRed
	}
	fmt.Fprintf(bw, "%s %d tests executed in %.3fs, %d passed, %d failed.\n",
		r.paint(colour, status), s.Executed, s.Duration.Seconds(), s.PassedCount, s.FailedCount)

	return bw.Flush()
}

func (r *TextReporter) paint(code, s string) string {
	if !r.Color {
		return s
	}
	return code + s + ansiReset
}
