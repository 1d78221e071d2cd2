// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/raysh454/smoke/internal/logging"
	"github.com/raysh454/smoke/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ─── WebClient ─────────────────────────────────────────────────────────

// DummyWebClient implements webclient.WebClient.
// Responses maps a URL to a canned response; unknown URLs get a 200 with body
// "ok:<url>". Set FailURLs[url] = true to force a transport error.
// MaxInFlight records the highest number of concurrent Do calls observed.
type DummyWebClient struct {
	ResponseDelay time.Duration
	Responses     map[string]*webclient.Response
	FailURLs      map[string]bool

	mu          sync.Mutex
	inFlight    int
	MaxInFlight int
	Requests    []*webclient.Request
	Closed      bool
}

func (d *DummyWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	d.mu.Lock()
	d.inFlight++
	if d.inFlight > d.MaxInFlight {
		d.MaxInFlight = d.inFlight
	}
	d.Requests = append(d.Requests, req)
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.inFlight--
		d.mu.Unlock()
	}()

	if d.ResponseDelay > 0 {
		select {
		case <-time.After(d.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if d.FailURLs != nil && d.FailURLs[req.URL] {
		return nil, &errString{"dial tcp: connection refused: " + req.URL}
	}

	if canned, ok := d.Responses[req.URL]; ok {
		resp := *canned
		resp.Request = req
		if resp.Headers == nil {
			resp.Headers = http.Header{}
		}
		resp.FetchedAt = time.Now()
		return &resp, nil
	}

	return &webclient.Response{
		Request:    req,
		Headers:    http.Header{},
		Body:       []byte("ok:" + req.URL),
		StatusCode: 200,
		FetchedAt:  time.Now(),
	}, nil
}

func (d *DummyWebClient) Get(ctx context.Context, url string) (*webclient.Response, error) {
	return d.Do(ctx, &webclient.Request{Method: "GET", URL: url})
}

func (d *DummyWebClient) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closed = true
	return nil
}

// RequestedURLs returns the URLs requested so far, in order.
func (d *DummyWebClient) RequestedURLs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.Requests))
	for _, r := range d.Requests {
		out = append(out, r.URL)
	}
	return out
}

// ─── helpers ───────────────────────────────────────────────────────────

type errString struct{ s string }

func (e *errString) Error() string { return e.s }
