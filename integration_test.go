package sweephand_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"sweephand"
	"sweephand/internal/core"
	"sweephand/internal/provider"
	"sweephand/internal/stats"
	"sweephand/internal/timesync"
	"sweephand/timeapi"
)

// End-to-end: a local time server, the HTTP provider, the scheduler, and the
// engine wired together the way cmd/sweephand wires them.
func TestEngineSyncsFromLocalTimeServer(t *testing.T) {
	serverClock := core.NewFakeClock(time.Date(2024, 6, 1, 10, 20, 30, 0, time.UTC))
	ts := httptest.NewServer(timeapi.NewServer(serverClock).Handler())
	defer ts.Close()

	engine, err := sweephand.New(&core.RealClock{}, time.UTC, nil, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	collector := stats.NewCollector()
	scheduler := &timesync.Scheduler{
		Source:   provider.NewHTTPProvider(ts.URL+"/unix", time.Second, time.UTC, nil),
		Anchor:   engine,
		Clock:    &core.RealClock{},
		Zone:     "Etc/UTC",
		Cadence:  &timesync.Cadence{Normal: time.Hour},
		Reporter: collector,
	}

	if !scheduler.RequestSync(true) {
		t.Fatal("manual sync should be admitted")
	}

	deadline := time.Now().Add(2 * time.Second)
	for !scheduler.Synced() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !scheduler.Synced() {
		t.Fatal("sync did not complete")
	}

	// The engine now projects from the server's frozen clock; within the test
	// run it stays inside a generous window of it.
	got := engine.Now()
	want := time.Date(2024, 6, 1, 10, 20, 30, 0, time.UTC)
	if got.Before(want) || got.After(want.Add(5*time.Second)) {
		t.Errorf("Now() = %v, expected within 5s after %v", got, want)
	}

	collector.Close()
	summary := stats.ComputeSummary(collector.Attempts(), collector.Window())
	if summary.TotalAttempts != 1 || summary.SuccessCount != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestSchedulerSurfacesServerFailures(t *testing.T) {
	serverClock := core.NewFakeClock(time.Date(2024, 6, 1, 10, 20, 30, 0, time.UTC))
	ts := httptest.NewServer(timeapi.NewServer(serverClock).Handler())
	defer ts.Close()

	engine, err := sweephand.New(&core.RealClock{}, time.UTC, nil, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	before := engine.Now()

	scheduler := &timesync.Scheduler{
		Source:  provider.NewHTTPProvider(ts.URL+"/status/503", time.Second, time.UTC, nil),
		Anchor:  engine,
		Clock:   &core.RealClock{},
		Zone:    "Etc/UTC",
		Cadence: &timesync.Cadence{Normal: time.Hour},
	}

	scheduler.RequestSync(false)
	deadline := time.Now().Add(2 * time.Second)
	for scheduler.LastError() == "" && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if scheduler.LastError() == "" {
		t.Fatal("expected a failure message")
	}
	if scheduler.Synced() {
		t.Error("failed sync must not mark the scheduler synced")
	}
	// The local anchor keeps projecting forward from its original epoch.
	if engine.Now().Before(before) {
		t.Error("failed sync must not move the engine's time backwards")
	}
}
