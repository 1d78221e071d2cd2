package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/raysh454/smoke/internal/suite"
)

// WriteMetricsFile writes the summary as Prometheus text exposition to path,
// for pickup by node_exporter's textfile collector. The file is replaced
// atomically.
func WriteMetricsFile(path string, s *suite.Summary) error {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"suite": s.Name}

	gauge := func(name, help string, v float64) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "smoke",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
		g.Set(v)
		reg.MustRegister(g)
	}

	success := 0.0
	if s.Success() {
		success = 1
	}

	gauge("assertions_planned", "Number of assertions the suite declares.", float64(s.Planned))
	gauge("assertions_executed", "Number of assertions recorded by the last run.", float64(s.Executed))
	gauge("assertions_passed", "Number of passed assertions in the last run.", float64(s.PassedCount))
	gauge("assertions_failed", "Number of failed assertions in the last run.", float64(s.FailedCount))
	gauge("run_success", "1 if the last run passed, 0 otherwise.", success)
	gauge("run_duration_seconds", "Wall time of the last run.", s.Duration.Seconds())
	gauge("run_timestamp_seconds", "Unix time the last run started.", float64(s.StartedAt.Unix()))

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}
