package stats

import (
	"sort"
	"time"

	"sweephand/internal/core"
)

// Summary contains aggregated sync statistics.
type Summary struct {
	TotalAttempts int                       `json:"totalAttempts"`
	SuccessCount  int                       `json:"successCount"`
	FailureCount  int                       `json:"failureCount"`
	ManualCount   int                       `json:"manualCount"`
	SuccessRate   float64                   `json:"successRate"`
	Window        time.Duration             `json:"window"`
	Duration      DurationMetrics           `json:"durations"`
	Sources       map[string]*SourceMetrics `json:"sources"`

	// Offsets describe how far the local projection drifted from the
	// authoritative time, in milliseconds.
	MaxAbsOffsetMillis int64 `json:"maxAbsOffsetMillis"`
	LastOffsetMillis   int64 `json:"lastOffsetMillis"`
}

// DurationMetrics contains fetch latency statistics.
type DurationMetrics struct {
	Min time.Duration `json:"min"`
	Max time.Duration `json:"max"`
	Avg time.Duration `json:"avg"`
	P50 time.Duration `json:"p50"`
	P95 time.Duration `json:"p95"`
	P99 time.Duration `json:"p99"`
}

// SourceMetrics contains per-source statistics.
type SourceMetrics struct {
	Count    int             `json:"count"`
	Success  int             `json:"success"`
	Failed   int             `json:"failed"`
	Duration DurationMetrics `json:"durations"`
}

// ComputeSummary computes a summary from attempts. Pure function, no side
// effects.
func ComputeSummary(attempts []core.Attempt, window time.Duration) *Summary {
	s := &Summary{
		Sources: make(map[string]*SourceMetrics),
		Window:  window,
	}

	if len(attempts) == 0 {
		return s
	}

	allDurations := make([]time.Duration, 0, len(attempts))
	sourceDurations := make(map[string][]time.Duration)

	for _, a := range attempts {
		s.TotalAttempts++
		if a.Success {
			s.SuccessCount++
			abs := a.OffsetMillis
			if abs < 0 {
				abs = -abs
			}
			if abs > s.MaxAbsOffsetMillis {
				s.MaxAbsOffsetMillis = abs
			}
			s.LastOffsetMillis = a.OffsetMillis
		} else {
			s.FailureCount++
		}
		if a.Manual {
			s.ManualCount++
		}

		allDurations = append(allDurations, a.Duration)

		if _, exists := s.Sources[a.Source]; !exists {
			s.Sources[a.Source] = &SourceMetrics{}
			sourceDurations[a.Source] = make([]time.Duration, 0)
		}

		src := s.Sources[a.Source]
		src.Count++
		if a.Success {
			src.Success++
		} else {
			src.Failed++
		}
		sourceDurations[a.Source] = append(sourceDurations[a.Source], a.Duration)
	}

	if s.TotalAttempts > 0 {
		s.SuccessRate = float64(s.SuccessCount) / float64(s.TotalAttempts) * 100
	}

	s.Duration = ComputeDurationMetrics(allDurations)

	for source, durations := range sourceDurations {
		s.Sources[source].Duration = ComputeDurationMetrics(durations)
	}

	return s
}

// ComputePercentile calculates the percentile value from a sorted slice of
// durations. The percentile p should be between 0 and 1 (e.g., 0.95 for p95).
// The slice must be sorted in ascending order.
func ComputePercentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}

	// Use the "nearest rank" method
	index := int(float64(len(sorted)-1) * p)
	return sorted[index]
}

// ComputeDurationMetrics calculates all duration statistics from a slice of
// durations.
func ComputeDurationMetrics(durations []time.Duration) DurationMetrics {
	if len(durations) == 0 {
		return DurationMetrics{}
	}

	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	var total time.Duration
	for _, d := range sorted {
		total += d
	}

	return DurationMetrics{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: total / time.Duration(len(sorted)),
		P50: ComputePercentile(sorted, 0.50),
		P95: ComputePercentile(sorted, 0.95),
		P99: ComputePercentile(sorted, 0.99),
	}
}
