package timesync

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"sweephand/internal/core"
)

type fakeSource struct {
	mu      sync.Mutex
	epoch   int64
	err     error
	block   chan struct{} // when set, Fetch waits until closed
	fetches int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Fetch(ctx context.Context, zone string) (int64, error) {
	f.mu.Lock()
	f.fetches++
	epoch, err, block := f.epoch, f.err, f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return epoch, err
}

func (f *fakeSource) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func (f *fakeSource) set(epoch int64, err error) {
	f.mu.Lock()
	f.epoch, f.err = epoch, err
	f.mu.Unlock()
}

type fakeAnchor struct {
	mu     sync.Mutex
	epochs []int64
	offset int64
}

func (a *fakeAnchor) ApplySync(epochMillis int64) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.epochs = append(a.epochs, epochMillis)
	return a.offset
}

func (a *fakeAnchor) applied() []int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]int64(nil), a.epochs...)
}

type recordingReporter struct {
	mu       sync.Mutex
	attempts []core.Attempt
}

func (r *recordingReporter) Report(a core.Attempt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, a)
}

func (r *recordingReporter) all() []core.Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Attempt(nil), r.attempts...)
}

func newTestScheduler(source *fakeSource, anchor *fakeAnchor) *Scheduler {
	return &Scheduler{
		Source:  source,
		Anchor:  anchor,
		Clock:   &core.RealClock{},
		Zone:    "Etc/UTC",
		Cadence: &Cadence{Normal: time.Hour},
	}
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestScheduler_SuccessReanchors(t *testing.T) {
	source := &fakeSource{epoch: 1700000000000}
	anchor := &fakeAnchor{offset: 42}
	s := newTestScheduler(source, anchor)
	reporter := &recordingReporter{}
	s.Reporter = reporter

	if !s.RequestSync(true) {
		t.Fatal("manual request should be admitted")
	}
	waitUntil(t, func() bool { return len(anchor.applied()) == 1 })

	if got := anchor.applied()[0]; got != 1700000000000 {
		t.Errorf("anchored epoch = %d, expected 1700000000000", got)
	}
	if !s.Synced() {
		t.Error("scheduler should report synced after a success")
	}
	if s.LastSync().IsZero() {
		t.Error("LastSync() should be set after a success")
	}
	if msg := s.StatusMessage(); msg != "" {
		t.Errorf("StatusMessage() = %q, expected empty after success", msg)
	}

	waitUntil(t, func() bool { return len(reporter.all()) == 1 })
	a := reporter.all()[0]
	if !a.Success || !a.Manual || a.EpochMillis != 1700000000000 || a.OffsetMillis != 42 {
		t.Errorf("unexpected reported attempt: %+v", a)
	}
}

func TestScheduler_FailureLeavesAnchorUntouched(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	anchor := &fakeAnchor{}
	s := newTestScheduler(source, anchor)

	s.RequestSync(false)
	waitUntil(t, func() bool { return s.LastError() != "" })

	if len(anchor.applied()) != 0 {
		t.Error("failed sync must not touch the anchor")
	}
	if s.Synced() {
		t.Error("scheduler should not report synced after a failure")
	}
	if got := s.LastError(); !strings.HasPrefix(got, "automatic sync failed:") {
		t.Errorf("LastError() = %q, expected automatic wording", got)
	}
}

func TestScheduler_ManualFailureWording(t *testing.T) {
	source := &fakeSource{err: errors.New("boom")}
	s := newTestScheduler(source, &fakeAnchor{})

	s.RequestSync(true)
	waitUntil(t, func() bool { return s.LastError() != "" })

	if got := s.LastError(); !strings.HasPrefix(got, "manual sync failed:") {
		t.Errorf("LastError() = %q, expected manual wording", got)
	}
}

func TestScheduler_ErrorClearedOnNextInvocation(t *testing.T) {
	source := &fakeSource{err: errors.New("boom")}
	anchor := &fakeAnchor{}
	s := newTestScheduler(source, anchor)

	s.RequestSync(false)
	waitUntil(t, func() bool { return s.LastError() != "" })

	source.set(1700000000000, nil)
	s.RequestSync(false)
	waitUntil(t, func() bool { return len(anchor.applied()) == 1 })

	if got := s.LastError(); got != "" {
		t.Errorf("LastError() = %q, expected cleared after a success", got)
	}
}

func TestScheduler_AutomaticOverlapSuppressed(t *testing.T) {
	block := make(chan struct{})
	source := &fakeSource{epoch: 1, block: block}
	s := newTestScheduler(source, &fakeAnchor{})

	if !s.RequestSync(false) {
		t.Fatal("first automatic request should be admitted")
	}
	waitUntil(t, func() bool { return source.fetchCount() == 1 })

	if s.RequestSync(false) {
		t.Error("second automatic request should be dropped while one is in flight")
	}
	if !s.RequestSync(true) {
		t.Error("manual request should run even while an automatic one is in flight")
	}
	if !s.Syncing() {
		t.Error("Syncing() should be true with attempts in flight")
	}

	close(block)
	waitUntil(t, func() bool { return !s.Syncing() })

	if !s.RequestSync(false) {
		t.Error("automatic request should be admitted again after completion")
	}
	waitUntil(t, func() bool { return !s.Syncing() })
}

func TestScheduler_ManualThrottled(t *testing.T) {
	source := &fakeSource{epoch: 1}
	s := newTestScheduler(source, &fakeAnchor{})
	s.Limiter = NewManualLimiter(time.Hour)

	if !s.RequestSync(true) {
		t.Fatal("first manual request should be admitted")
	}
	if s.RequestSync(true) {
		t.Error("second manual request inside the gap should be dropped")
	}
	waitUntil(t, func() bool { return !s.Syncing() })
}

func TestScheduler_StatusMessageBeforeFirstSync(t *testing.T) {
	s := newTestScheduler(&fakeSource{}, &fakeAnchor{})
	if got := s.StatusMessage(); got != "waiting for first sync" {
		t.Errorf("StatusMessage() = %q, expected waiting message", got)
	}
}

func TestScheduler_RunLoopsOnCadence(t *testing.T) {
	source := &fakeSource{epoch: 1700000000000}
	anchor := &fakeAnchor{}
	s := newTestScheduler(source, anchor)
	s.Cadence = &Cadence{Normal: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	waitUntil(t, func() bool { return len(anchor.applied()) >= 3 })
	cancel()
	<-done
}
