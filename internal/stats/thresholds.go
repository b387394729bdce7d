package stats

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Thresholds defines pass/fail criteria for a monitored run.
type Thresholds struct {
	SyncDuration *DurationThresholds `yaml:"sync_duration"`
	SyncFailed   *FailureThresholds  `yaml:"sync_failed"`
	Offset       *OffsetThresholds   `yaml:"offset"`
}

// DurationThresholds defines fetch latency limits.
type DurationThresholds struct {
	Avg time.Duration `yaml:"avg"`
	P50 time.Duration `yaml:"p50"`
	P95 time.Duration `yaml:"p95"`
	P99 time.Duration `yaml:"p99"`
}

// FailureThresholds defines failure rate limits.
type FailureThresholds struct {
	Rate string `yaml:"rate"`
}

// OffsetThresholds limits how far the local projection may drift before a
// run is considered failing.
type OffsetThresholds struct {
	MaxAbsMillis int64 `yaml:"max_abs_ms"`
}

// ThresholdResult represents the outcome of a single threshold check.
type ThresholdResult struct {
	Name      string `json:"name"`
	Passed    bool   `json:"passed"`
	Threshold string `json:"threshold"`
	Actual    string `json:"actual"`
}

// ThresholdResults contains all threshold check results.
type ThresholdResults struct {
	Passed  bool              `json:"passed"`
	Results []ThresholdResult `json:"results"`
}

// Check evaluates all thresholds against a computed summary.
func (t *Thresholds) Check(s *Summary) *ThresholdResults {
	if t == nil {
		return &ThresholdResults{Passed: true, Results: nil}
	}

	results := &ThresholdResults{
		Passed:  true,
		Results: make([]ThresholdResult, 0),
	}

	if t.SyncDuration != nil {
		results.checkDurationThresholds(t.SyncDuration, &s.Duration)
	}

	if t.SyncFailed != nil && t.SyncFailed.Rate != "" {
		results.checkFailureRate(t.SyncFailed, s)
	}

	if t.Offset != nil && t.Offset.MaxAbsMillis > 0 {
		results.checkOffset(t.Offset, s)
	}

	return results
}

func (r *ThresholdResults) checkDurationThresholds(thresholds *DurationThresholds, actual *DurationMetrics) {
	checks := []struct {
		name      string
		threshold time.Duration
		actual    time.Duration
	}{
		{"sync_duration.avg", thresholds.Avg, actual.Avg},
		{"sync_duration.p50", thresholds.P50, actual.P50},
		{"sync_duration.p95", thresholds.P95, actual.P95},
		{"sync_duration.p99", thresholds.P99, actual.P99},
	}

	for _, check := range checks {
		if check.threshold == 0 {
			continue
		}

		passed := check.actual < check.threshold
		if !passed {
			r.Passed = false
		}

		r.Results = append(r.Results, ThresholdResult{
			Name:      check.name,
			Passed:    passed,
			Threshold: FormatDuration(check.threshold),
			Actual:    FormatDuration(check.actual),
		})
	}
}

func (r *ThresholdResults) checkFailureRate(thresholds *FailureThresholds, s *Summary) {
	thresholdRate, err := parsePercentage(thresholds.Rate)
	if err != nil {
		return
	}

	actualRate := 100.0 - s.SuccessRate
	passed := actualRate < thresholdRate

	if !passed {
		r.Passed = false
	}

	r.Results = append(r.Results, ThresholdResult{
		Name:      "sync_failed.rate",
		Passed:    passed,
		Threshold: thresholds.Rate,
		Actual:    fmt.Sprintf("%.2f%%", actualRate),
	})
}

func (r *ThresholdResults) checkOffset(thresholds *OffsetThresholds, s *Summary) {
	passed := s.MaxAbsOffsetMillis <= thresholds.MaxAbsMillis
	if !passed {
		r.Passed = false
	}

	r.Results = append(r.Results, ThresholdResult{
		Name:      "offset.max_abs_ms",
		Passed:    passed,
		Threshold: fmt.Sprintf("%dms", thresholds.MaxAbsMillis),
		Actual:    fmt.Sprintf("%dms", s.MaxAbsOffsetMillis),
	})
}

func parsePercentage(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "%") {
		return 0, fmt.Errorf("invalid percentage format: %s", s)
	}
	s = strings.TrimSuffix(s, "%")
	return strconv.ParseFloat(s, 64)
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

// Violations returns only the failed threshold results.
func (r *ThresholdResults) Violations() []ThresholdResult {
	violations := make([]ThresholdResult, 0)
	for _, result := range r.Results {
		if !result.Passed {
			violations = append(violations, result)
		}
	}
	return violations
}
