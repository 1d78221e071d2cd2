package report

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/raysh454/smoke/internal/suite"
)

// Fingerprint renders the parts of a summary that must not change between
// two runs against the same unchanged server. Run ids and timings are left
// out.
func Fingerprint(s *suite.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "suite %s planned=%d executed=%d\n", s.Name, s.Planned, s.Executed)
	for _, r := range s.Results {
		status := "FAIL"
		if r.Passed {
			status = "PASS"
		}
		fmt.Fprintf(&b, "%s step=%d %s expected=%s actual=%s\n", status, r.Step, r.Description, r.Expected, r.Actual)
	}
	for _, e := range s.Errors {
		fmt.Fprintf(&b, "ERROR %s\n", e)
	}
	return b.String()
}

// CompareRuns reports whether two runs produced the same fingerprint. When
// they differ, diff holds a line diff with "-" for a and "+" for b.
func CompareRuns(a, b *suite.Summary) (equal bool, diff string) {
	fa, fb := Fingerprint(a), Fingerprint(b)
	if fa == fb {
		return true, ""
	}

	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(fa, fb)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffEqual:
			prefix = "  "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
		}
	}
	return false, out.String()
}
