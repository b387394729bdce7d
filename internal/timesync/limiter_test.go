package timesync

import (
	"testing"
	"time"
)

func TestManualLimiter_NilAlwaysAllows(t *testing.T) {
	var l *ManualLimiter
	for i := 0; i < 5; i++ {
		if !l.Allow() {
			t.Fatal("nil limiter should always allow")
		}
	}
}

func TestManualLimiter_ZeroGapDisabled(t *testing.T) {
	if l := NewManualLimiter(0); l != nil {
		t.Error("zero gap should return a nil limiter")
	}
}

func TestManualLimiter_EnforcesGap(t *testing.T) {
	l := NewManualLimiter(time.Hour)
	if !l.Allow() {
		t.Fatal("first request should be allowed")
	}
	if l.Allow() {
		t.Error("second request inside the gap should be denied")
	}
}

func TestManualLimiter_AllowsAfterGap(t *testing.T) {
	l := NewManualLimiter(10 * time.Millisecond)
	if !l.Allow() {
		t.Fatal("first request should be allowed")
	}
	time.Sleep(20 * time.Millisecond)
	if !l.Allow() {
		t.Error("request after the gap should be allowed")
	}
}
