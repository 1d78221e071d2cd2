package suite

import "time"

// Result is one recorded assertion. It is never modified after recording.
type Result struct {
	Step        int    `json:"step"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Passed      bool   `json:"passed"`
	Expected    string `json:"expected,omitempty"`
	Actual      string `json:"actual,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Summary is the accounting of a single run.
type Summary struct {
	RunID       string        `json:"run_id"`
	Name        string        `json:"name"`
	Planned     int           `json:"planned"`
	Executed    int           `json:"executed"`
	PassedCount int           `json:"passed"`
	FailedCount int           `json:"failed"`
	Results     []Result      `json:"results"`
	Errors      []string      `json:"errors,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration_ns"`
}

// Incomplete reports whether the number of executed assertions differs from
// the planned count. A planned count of zero disables the check.
func (s *Summary) Incomplete() bool {
	return s.Planned > 0 && s.Executed != s.Planned
}

// Success is true when every assertion passed, the planned count was reached
// and no runner error was recorded.
func (s *Summary) Success() bool {
	return s.FailedCount == 0 && !s.Incomplete() && len(s.Errors) == 0
}

// Failures returns the failed results in recording order.
func (s *Summary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
