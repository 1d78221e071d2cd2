package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/raysh454/smoke/internal/logging"
	"github.com/raysh454/smoke/internal/suite"
)

// RunFunc performs one smoke run.
type RunFunc func(ctx context.Context) (*suite.Summary, error)

// Scheduler repeats a RunFunc on a cron schedule. A tick that fires while
// the previous run is still going is skipped, so runs never overlap.
type Scheduler struct {
	spec   string
	run    RunFunc
	logger logging.Logger

	mu      sync.Mutex
	last    *suite.Summary
	lastErr error
	runs    int
}

// NewScheduler validates spec (standard 5-field cron or @every/@hourly
// descriptors).
func NewScheduler(spec string, run RunFunc, logger logging.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Scheduler{
		spec:   spec,
		run:    run,
		logger: logger.With(logging.Field{Key: "component", Value: "scheduler"}),
	}, nil
}

// Run executes one run immediately, then one per schedule tick until ctx is
// done. It returns the last completed run.
func (s *Scheduler) Run(ctx context.Context) (*suite.Summary, error) {
	cl := cronLogger{s.logger}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))

	job := cron.FuncJob(func() { s.runOnce(ctx) })
	if _, err := c.AddJob(s.spec, job); err != nil {
		return nil, fmt.Errorf("add job: %w", err)
	}

	s.logger.Info("scheduled runs started", logging.Field{Key: "schedule", Value: s.spec})
	s.runOnce(ctx)

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("scheduled runs stopped", logging.Field{Key: "runs", Value: s.Runs()})

	return s.Last()
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	summary, err := s.run(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	// A run interrupted by shutdown does not replace the last complete one.
	if ctx.Err() != nil && s.last != nil {
		return
	}
	s.last, s.lastErr = summary, err
}

// Last returns the most recent run.
func (s *Scheduler) Last() (*suite.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.lastErr
}

// Runs returns how many runs were started.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	l logging.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := append(kvFields(keysAndValues), logging.Field{Key: "error", Value: err.Error()})
	c.l.Error("cron: "+msg, fields...)
}

func kvFields(kv []interface{}) []logging.Field {
	fields := make([]logging.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, logging.Field{Key: fmt.Sprint(kv[i]), Value: kv[i+1]})
	}
	return fields
}
