// Package report renders run summaries: console text, JSON, JUnit XML and a
// Prometheus textfile.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/raysh454/smoke/internal/suite"
)

// Reporter writes a summary in one output format.
type Reporter interface {
	Report(w io.Writer, s *suite.Summary) error
}

const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatXUnit = "xunit"
)

// NewReporter returns the reporter for format. An empty format means text.
func NewReporter(format string, color bool) (Reporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return &TextReporter{Color: color}, nil
	case FormatJSON:
		return &JSONReporter{}, nil
	case FormatXUnit, "junit":
		return &XUnitReporter{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want text, json or xunit)", format)
	}
}
