// Package suite runs an ordered list of navigation steps against a WebClient
// and records the assertions each step makes.
//
// A suite is declared with Begin, populated with Start/ThenOpen/Then and
// executed once with Run. Steps never overlap: a step's request completes (or
// fails) and its callback returns before the next step begins. Requests are
// never retried.
package suite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/smoke/internal/logging"
	"github.com/raysh454/smoke/internal/webclient"
)

var (
	ErrNoSteps    = errors.New("suite has no steps")
	ErrAlreadyRun = errors.New("suite already run")
	ErrNoClient   = errors.New("suite has no web client")
)

// StepFunc inspects the response of a step. resp is nil when the request
// failed; t.Err() then holds the transport error.
type StepFunc func(t *Tester, resp *webclient.Response)

type step struct {
	url      string
	navigate bool
	fn       StepFunc
}

// Suite is a named, planned sequence of steps.
type Suite struct {
	name    string
	planned int
	client  webclient.WebClient
	logger  logging.Logger

	steps     []step
	usageErrs []string
	ran       bool
}

// Begin declares a suite expecting planned assertions.
func Begin(name string, planned int, client webclient.WebClient, logger logging.Logger) *Suite {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Suite{
		name:    name,
		planned: planned,
		client:  client,
		logger:  logger.With(logging.Field{Key: "component", Value: "suite"}),
	}
}

// Start opens the first page. It must be the first step of the suite.
func (s *Suite) Start(url string, fn StepFunc) *Suite {
	if len(s.steps) > 0 {
		s.usageErrs = append(s.usageErrs, fmt.Sprintf("start(%q) called after %d step(s) were added", url, len(s.steps)))
	}
	s.steps = append(s.steps, step{url: url, navigate: true, fn: fn})
	return s
}

// ThenOpen adds a step that opens url once the previous step is complete.
func (s *Suite) ThenOpen(url string, fn StepFunc) *Suite {
	if len(s.steps) == 0 {
		s.usageErrs = append(s.usageErrs, fmt.Sprintf("thenOpen(%q) called before start()", url))
	}
	s.steps = append(s.steps, step{url: url, navigate: true, fn: fn})
	return s
}

// Then adds a step that stays on the current page.
func (s *Suite) Then(fn StepFunc) *Suite {
	s.steps = append(s.steps, step{fn: fn})
	return s
}

// Run executes the steps in order and then calls done. A nil done calls
// t.Done(). Assertion and transport failures are reported in the Summary;
// the returned error is reserved for misuse of the runner.
func (s *Suite) Run(ctx context.Context, done func(t *Tester)) (*Summary, error) {
	if s.ran {
		return nil, ErrAlreadyRun
	}
	if len(s.steps) == 0 {
		return nil, ErrNoSteps
	}
	if s.client == nil {
		return nil, ErrNoClient
	}
	s.ran = true

	started := time.Now()
	summary := &Summary{
		RunID:     uuid.NewString(),
		Name:      s.name,
		Planned:   s.planned,
		StartedAt: started.UTC(),
	}
	summary.Errors = append(summary.Errors, s.usageErrs...)

	logger := s.logger.With(logging.Field{Key: "run_id", Value: summary.RunID})
	logger.Info("suite started",
		logging.Field{Key: "name", Value: s.name},
		logging.Field{Key: "planned", Value: s.planned},
		logging.Field{Key: "steps", Value: len(s.steps)})

	t := &Tester{summary: summary, logger: logger}

	for i, st := range s.steps {
		if err := ctx.Err(); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("run aborted before step %d: %v", i+1, err))
			break
		}
		t.step = i + 1
		if st.navigate {
			s.open(ctx, t, st.url, logger)
		}
		if st.fn != nil {
			resp := t.resp
			t.guard(fmt.Sprintf("step %d", t.step), func() { st.fn(t, resp) })
		}
	}

	if done == nil {
		t.Done()
	} else {
		t.guard("run callback", func() { done(t) })
		if !t.done {
			summary.Errors = append(summary.Errors, "done() was not called by the run callback")
			t.Done()
		}
	}

	summary.Duration = time.Since(started)
	logger.Info("suite finished",
		logging.Field{Key: "executed", Value: summary.Executed},
		logging.Field{Key: "passed", Value: summary.PassedCount},
		logging.Field{Key: "failed", Value: summary.FailedCount},
		logging.Field{Key: "success", Value: summary.Success()},
		logging.Field{Key: "duration", Value: summary.Duration.String()})

	return summary, nil
}

func (s *Suite) open(ctx context.Context, t *Tester, url string, logger logging.Logger) {
	t.url = url
	resp, err := s.client.Do(ctx, &webclient.Request{Method: http.MethodGet, URL: url})
	t.resp, t.err = resp, err
	if err != nil {
		logger.Warn("failed to open page",
			logging.Field{Key: "step", Value: t.step},
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "error", Value: err.Error()})
		return
	}
	logger.Info("opened page",
		logging.Field{Key: "step", Value: t.step},
		logging.Field{Key: "url", Value: url},
		logging.Field{Key: "status", Value: resp.StatusCode},
		logging.Field{Key: "content_type", Value: resp.ContentType()})
}
