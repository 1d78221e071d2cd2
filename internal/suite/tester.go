package suite

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"

	"github.com/raysh454/smoke/internal/logging"
	"github.com/raysh454/smoke/internal/webclient"
)

// Tester is handed to every step. It exposes the current page and the
// assertion primitives; every Assert* call records exactly one Result.
type Tester struct {
	summary *Summary
	logger  logging.Logger

	step int
	url  string
	resp *webclient.Response
	err  error
	done bool
}

// Response returns the current page's response, nil after a transport error.
func (t *Tester) Response() *webclient.Response { return t.resp }

// Err returns the transport error of the last navigation.
func (t *Tester) Err() error { return t.err }

// URL returns the URL of the last navigation.
func (t *Tester) URL() string { return t.url }

// Header returns a response header of the current page, "" when missing.
func (t *Tester) Header(name string) string { return t.resp.Header(name) }

// Title returns the current page's <title>.
func (t *Tester) Title() string { return t.resp.Title() }

// AssertHTTPStatus checks the status code of the current page.
func (t *Tester) AssertHTTPStatus(expected int, label string) {
	if label == "" {
		label = fmt.Sprintf("HTTP status code is: %d", expected)
	}
	r := Result{Kind: "assertHttpStatus", Description: label, Expected: strconv.Itoa(expected)}
	switch {
	case t.err != nil:
		r.Actual = "0"
		r.Message = "request failed: " + t.err.Error()
	case t.resp == nil:
		r.Actual = "0"
		r.Message = "no page has been opened"
	default:
		r.Actual = strconv.Itoa(t.resp.StatusCode)
		r.Passed = t.resp.StatusCode == expected
	}
	t.record(r)
}

// AssertMatch checks that value matches pattern. A nil pattern fails.
func (t *Tester) AssertMatch(value string, pattern *regexp.Regexp, label string) {
	r := Result{Kind: "assertMatch", Description: label, Actual: strconv.Quote(value)}
	if pattern == nil {
		r.Message = "no pattern given"
		t.record(r)
		return
	}
	r.Expected = "/" + pattern.String() + "/"
	if r.Description == "" {
		r.Description = "Subject matches the provided pattern"
	}
	r.Passed = pattern.MatchString(value)
	if !r.Passed && value == "" {
		r.Message = "subject is empty"
	}
	t.record(r)
}

// AssertMatchString compiles pattern and calls AssertMatch. An invalid
// pattern is recorded as a failed assertion.
func (t *Tester) AssertMatchString(value, pattern, label string) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		t.record(Result{
			Kind:        "assertMatch",
			Description: label,
			Expected:    "/" + pattern + "/",
			Actual:      strconv.Quote(value),
			Message:     "invalid pattern: " + err.Error(),
		})
		return
	}
	t.AssertMatch(value, re, label)
}

// AssertEquals checks got and want for deep equality.
func (t *Tester) AssertEquals(got, want any, label string) {
	if label == "" {
		label = "Subject equals the expected value"
	}
	t.record(Result{
		Kind:        "assertEquals",
		Description: label,
		Expected:    fmt.Sprintf("%v", want),
		Actual:      fmt.Sprintf("%v", got),
		Passed:      reflect.DeepEqual(got, want),
	})
}

// AssertTitle checks the <title> of the current page.
func (t *Tester) AssertTitle(want, label string) {
	if label == "" {
		label = fmt.Sprintf("Page title is: %q", want)
	}
	got := t.Title()
	t.record(Result{
		Kind:        "assertTitle",
		Description: label,
		Expected:    strconv.Quote(want),
		Actual:      strconv.Quote(got),
		Passed:      t.resp != nil && got == want,
	})
}

// AssertHeaderExists checks that the current page sent the named header.
func (t *Tester) AssertHeaderExists(name, label string) {
	if label == "" {
		label = fmt.Sprintf("Response header %s is present", name)
	}
	ok := t.resp != nil && len(t.resp.Headers.Values(name)) > 0
	t.record(Result{
		Kind:        "assertHeaderExists",
		Description: label,
		Expected:    name,
		Actual:      strconv.Quote(t.resp.Header(name)),
		Passed:      ok,
	})
}

// Done closes the accounting of the run. Calling it more than once has no
// further effect.
func (t *Tester) Done() {
	if t.done {
		return
	}
	t.done = true
	if t.summary.Incomplete() {
		t.logger.Warn("planned assertion count not reached",
			logging.Field{Key: "planned", Value: t.summary.Planned},
			logging.Field{Key: "executed", Value: t.summary.Executed})
	}
}

func (t *Tester) record(r Result) {
	if t.done {
		t.summary.Errors = append(t.summary.Errors, fmt.Sprintf("assertion %q recorded after done()", r.Description))
	}
	r.Step = t.step
	r.URL = t.url
	t.summary.Results = append(t.summary.Results, r)
	t.summary.Executed++
	if r.Passed {
		t.summary.PassedCount++
	} else {
		t.summary.FailedCount++
	}

	fields := []logging.Field{
		{Key: "step", Value: r.Step},
		{Key: "assertion", Value: r.Description},
		{Key: "passed", Value: r.Passed},
	}
	if r.Passed {
		t.logger.Debug("assertion recorded", fields...)
		return
	}
	fields = append(fields,
		logging.Field{Key: "expected", Value: r.Expected},
		logging.Field{Key: "actual", Value: r.Actual})
	t.logger.Info("assertion failed", fields...)
}

// guard runs fn and records a panic as a run error.
func (t *Tester) guard(where string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			msg := fmt.Sprintf("uncaught error in %s: %v", where, rec)
			t.summary.Errors = append(t.summary.Errors, msg)
			t.logger.Error("step panicked",
				logging.Field{Key: "where", Value: where},
				logging.Field{Key: "panic", Value: fmt.Sprint(rec)})
		}
	}()
	fn()
}
