package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestThresholds_NilPasses(t *testing.T) {
	var th *Thresholds
	r := th.Check(&Summary{})
	if !r.Passed {
		t.Error("nil thresholds should pass")
	}
}

func TestThresholds_DurationCheck(t *testing.T) {
	th := &Thresholds{
		SyncDuration: &DurationThresholds{P95: 100 * time.Millisecond},
	}

	pass := th.Check(&Summary{Duration: DurationMetrics{P95: 50 * time.Millisecond}})
	if !pass.Passed {
		t.Error("p95 under the limit should pass")
	}

	fail := th.Check(&Summary{Duration: DurationMetrics{P95: 150 * time.Millisecond}})
	if fail.Passed {
		t.Error("p95 over the limit should fail")
	}
	if len(fail.Violations()) != 1 {
		t.Errorf("expected 1 violation, got %d", len(fail.Violations()))
	}
}

func TestThresholds_FailureRate(t *testing.T) {
	th := &Thresholds{SyncFailed: &FailureThresholds{Rate: "10%"}}

	pass := th.Check(&Summary{SuccessRate: 95})
	if !pass.Passed {
		t.Error("5% failure rate should pass a 10% limit")
	}

	fail := th.Check(&Summary{SuccessRate: 80})
	if fail.Passed {
		t.Error("20% failure rate should fail a 10% limit")
	}
}

func TestThresholds_Offset(t *testing.T) {
	th := &Thresholds{Offset: &OffsetThresholds{MaxAbsMillis: 500}}

	pass := th.Check(&Summary{MaxAbsOffsetMillis: 200})
	if !pass.Passed {
		t.Error("offset under the limit should pass")
	}

	fail := th.Check(&Summary{MaxAbsOffsetMillis: 900})
	if fail.Passed {
		t.Error("offset over the limit should fail")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{500 * time.Microsecond, "500us"},
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.expected {
			t.Errorf("FormatDuration(%v) = %q, expected %q", tt.d, got, tt.expected)
		}
	}
}

func TestFormatText(t *testing.T) {
	s := ComputeSummary(nil, time.Second)
	var buf bytes.Buffer
	FormatText(&buf, s, nil)
	if !strings.Contains(buf.String(), "No sync attempts") {
		t.Errorf("unexpected empty-summary output: %q", buf.String())
	}
}
