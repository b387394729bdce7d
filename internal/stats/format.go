package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// FormatText writes a summary in human-readable format.
func FormatText(w io.Writer, s *Summary, thresholds *ThresholdResults) {
	if s.TotalAttempts == 0 {
		fmt.Fprintln(w, "No sync attempts recorded")
		return
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Sweephand - Sync Report")
	fmt.Fprintln(w, "=======================")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Window:        %v\n", s.Window.Round(time.Millisecond))
	fmt.Fprintf(w, "Attempts:      %d (%d manual)\n", s.TotalAttempts, s.ManualCount)
	fmt.Fprintf(w, "Success Rate:  %.1f%% (%d / %d)\n", s.SuccessRate, s.SuccessCount, s.TotalAttempts)
	fmt.Fprintf(w, "Last Offset:   %dms\n", s.LastOffsetMillis)
	fmt.Fprintf(w, "Max |Offset|:  %dms\n", s.MaxAbsOffsetMillis)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Fetch Times:")
	fmt.Fprintf(w, "  Min:    %s\n", FormatDuration(s.Duration.Min))
	fmt.Fprintf(w, "  Avg:    %s\n", FormatDuration(s.Duration.Avg))
	fmt.Fprintf(w, "  P50:    %s\n", FormatDuration(s.Duration.P50))
	fmt.Fprintf(w, "  P95:    %s\n", FormatDuration(s.Duration.P95))
	fmt.Fprintf(w, "  P99:    %s\n", FormatDuration(s.Duration.P99))
	fmt.Fprintf(w, "  Max:    %s\n", FormatDuration(s.Duration.Max))
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "By Source:")
	for source, sm := range s.Sources {
		fmt.Fprintf(w, "  %-10s %d attempts   avg=%s  p95=%s  p99=%s\n",
			source, sm.Count,
			FormatDuration(sm.Duration.Avg),
			FormatDuration(sm.Duration.P95),
			FormatDuration(sm.Duration.P99))
	}

	if thresholds != nil && len(thresholds.Results) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Thresholds:")
		for _, result := range thresholds.Results {
			symbol := "ok"
			if !result.Passed {
				symbol = "FAIL"
			}
			fmt.Fprintf(w, "  [%s] %s < %s (actual: %s)\n",
				symbol, result.Name, result.Threshold, result.Actual)
		}
	}
}

// FormatJSON writes a summary in JSON format.
func FormatJSON(w io.Writer, s *Summary, thresholds *ThresholdResults) {
	output := struct {
		Window             string                       `json:"window"`
		TotalAttempts      int                          `json:"totalAttempts"`
		SuccessCount       int                          `json:"successCount"`
		FailureCount       int                          `json:"failureCount"`
		ManualCount        int                          `json:"manualCount"`
		SuccessRate        float64                      `json:"successRate"`
		LastOffsetMillis   int64                        `json:"lastOffsetMillis"`
		MaxAbsOffsetMillis int64                        `json:"maxAbsOffsetMillis"`
		Durations          jsonDurationMetrics          `json:"durations"`
		Sources            map[string]jsonSourceMetrics `json:"sources"`
		Thresholds         *ThresholdResults            `json:"thresholds,omitempty"`
	}{
		Window:             s.Window.Round(time.Millisecond).String(),
		TotalAttempts:      s.TotalAttempts,
		SuccessCount:       s.SuccessCount,
		FailureCount:       s.FailureCount,
		ManualCount:        s.ManualCount,
		SuccessRate:        s.SuccessRate,
		LastOffsetMillis:   s.LastOffsetMillis,
		MaxAbsOffsetMillis: s.MaxAbsOffsetMillis,
		Durations:          toJSONDurationMetrics(s.Duration),
		Sources:            make(map[string]jsonSourceMetrics),
		Thresholds:         thresholds,
	}

	for source, sm := range s.Sources {
		rate := 0.0
		if sm.Count > 0 {
			rate = float64(sm.Success) / float64(sm.Count) * 100
		}
		output.Sources[source] = jsonSourceMetrics{
			Count:       sm.Count,
			Success:     sm.Success,
			Failed:      sm.Failed,
			SuccessRate: rate,
			Durations:   toJSONDurationMetrics(sm.Duration),
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(output) // stdout errors are unrecoverable
}

type jsonDurationMetrics struct {
	Min string `json:"min"`
	Max string `json:"max"`
	Avg string `json:"avg"`
	P50 string `json:"p50"`
	P95 string `json:"p95"`
	P99 string `json:"p99"`
}

type jsonSourceMetrics struct {
	Count       int                 `json:"count"`
	Success     int                 `json:"success"`
	Failed      int                 `json:"failed"`
	SuccessRate float64             `json:"successRate"`
	Durations   jsonDurationMetrics `json:"durations"`
}

func toJSONDurationMetrics(d DurationMetrics) jsonDurationMetrics {
	return jsonDurationMetrics{
		Min: FormatDuration(d.Min),
		Max: FormatDuration(d.Max),
		Avg: FormatDuration(d.Avg),
		P50: FormatDuration(d.P50),
		P95: FormatDuration(d.P95),
		P99: FormatDuration(d.P99),
	}
}
