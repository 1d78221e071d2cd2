package report

import (
	"encoding/json"
	"io"

	"github.com/raysh454/smoke/internal/suite"
)

// JSONReporter writes the summary as an indented JSON document.
type JSONReporter struct{}

func (r *JSONReporter) Report(w io.Writer, s *suite.Summary) error {
	out := struct {
		*suite.Summary
		Success    bool `json:"success"`
		Incomplete bool `json:"incomplete"`
	}{
		Summary:    s,
		Success:    s.Success(),
		Incomplete: s.Incomplete(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
