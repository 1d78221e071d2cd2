package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/raysh454/smoke/internal/logging"
)

type entry struct {
	Level     string         `json:"level"`
	Msg       string         `json:"msg"`
	Component string         `json:"component"`
	Fields    map[string]any `json:"fields"`
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []entry {
	t.Helper()
	var out []entry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("invalid json line %q: %v", line, err)
		}
		out = append(out, e)
	}
	return out
}

func TestJSONLogger_WritesStructuredLines(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := logging.NewJSONLogger(&buf, "runner", logging.LevelDebug)

	l.Info("opened page", logging.Field{Key: "status", Value: 200})
	l.Warn("request failed", logging.Field{Key: "error", Value: errors.New("connection refused")})

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Level != "info" || lines[0].Msg != "opened page" || lines[0].Component != "runner" {
		t.Errorf("unexpected first entry: %+v", lines[0])
	}
	if lines[0].Fields["status"] != float64(200) {
		t.Errorf("expected status field 200, got %v", lines[0].Fields["status"])
	}
	if lines[1].Fields["error"] != "connection refused" {
		t.Errorf("expected error rendered as string, got %v", lines[1].Fields["error"])
	}
}

func TestJSONLogger_DropsBelowMinLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := logging.NewJSONLogger(&buf, "", logging.LevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Error("shown")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0].Msg != "shown" {
		t.Fatalf("expected only the error line, got %+v", lines)
	}
}

func TestJSONLogger_WithComponentAndFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	root := logging.NewJSONLogger(&buf, "app", logging.LevelDebug)
	child := root.With(
		logging.Field{Key: "component", Value: "suite"},
		logging.Field{Key: "run_id", Value: "abc"},
	)

	child.Info("step")
	root.Info("root")

	lines := decodeLines(t, &buf)
	if lines[0].Component != "suite" || lines[0].Fields["run_id"] != "abc" {
		t.Errorf("child entry missing persistent fields: %+v", lines[0])
	}
	if lines[1].Component != "app" || lines[1].Fields["run_id"] != nil {
		t.Errorf("root logger was modified by With: %+v", lines[1])
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]logging.Level{
		"debug":   logging.LevelDebug,
		"INFO":    logging.LevelInfo,
		"warning": logging.LevelWarn,
		"error":   logging.LevelError,
		"bogus":   logging.LevelInfo,
	}
	for in, want := range cases {
		if got := logging.ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
