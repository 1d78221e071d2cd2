package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/raysh454/smoke/internal/suite"
)

// XUnitReporter writes JUnit-compatible XML for CI systems.
type XUnitReporter struct{}

type xunitSuites struct {
	XMLName xml.Name     `xml:"testsuites"`
	Time    string       `xml:"time,attr"`
	Suites  []xunitSuite `xml:"testsuite"`
}

type xunitSuite struct {
	Name      string      `xml:"name,attr"`
	Tests     int         `xml:"tests,attr"`
	Failures  int         `xml:"failures,attr"`
	Errors    int         `xml:"errors,attr"`
	Time      string      `xml:"time,attr"`
	Timestamp string      `xml:"timestamp,attr"`
	ID        string      `xml:"id,attr,omitempty"`
	Cases     []xunitCase `xml:"testcase"`
	SystemErr string      `xml:"system-err,omitempty"`
}

type xunitCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *xunitFailure `xml:"failure,omitempty"`
}

type xunitFailure struct {
	Type    string `xml:"type,attr"`
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

func (r *XUnitReporter) Report(w io.Writer, s *suite.Summary) error {
	errs := append([]string(nil), s.Errors...)
	if s.Incomplete() {
		errs = append(errs, fmt.Sprintf("planned %d tests but ran %d", s.Planned, s.Executed))
	}

	ts := xunitSuite{
		Name:      s.Name,
		Tests:     s.Executed,
		Failures:  s.FailedCount,
		Errors:    len(errs),
		Time:      seconds(s.Duration),
		Timestamp: s.StartedAt.Format("2006-01-02T15:04:05"),
		ID:        s.RunID,
		SystemErr: strings.Join(errs, "\n"),
	}
	for _, res := range s.Results {
		tc := xunitCase{Name: res.Description, Classname: s.Name}
		if !res.Passed {
			text := fmt.Sprintf("url: %s\nsubject: %s\nexpected: %s", res.URL, res.Actual, res.Expected)
			if res.Message != "" {
				text += "\nmessage: " + res.Message
			}
			tc.Failure = &xunitFailure{Type: res.Kind, Message: res.Description, Text: text}
		}
		ts.Cases = append(ts.Cases, tc)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(xunitSuites{Time: seconds(s.Duration), Suites: []xunitSuite{ts}}); err != nil {
		return fmt.Errorf("encode xunit: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteXUnitFile writes the JUnit XML report to path.
func WriteXUnitFile(path string, s *suite.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create xunit file: %w", err)
	}
	if err := (&XUnitReporter{}).Report(f, s); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
