// Package timesync keeps a clock anchor aligned with an external time
// source. A scheduler fetches the authoritative time on a configurable
// cadence, re-anchors after every successful fetch, and accepts manual
// resync requests that run independently of the automatic cycle.
package timesync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"sweephand/internal/core"
)

// Anchorer receives authoritative epoch milliseconds and re-anchors the
// clock. It returns the offset in milliseconds between the new anchor and
// the previously projected time.
type Anchorer interface {
	ApplySync(epochMillis int64) int64
}

// Scheduler drives periodic and on-demand time synchronization. Configure
// the exported fields before calling Run; they must not change afterwards.
type Scheduler struct {
	Source   core.TimeSource
	Anchor   Anchorer
	Clock    core.Clock
	Zone     string
	Cadence  *Cadence
	Limiter  *ManualLimiter
	Reporter core.Reporter
	Log      logrus.FieldLogger

	mu           sync.Mutex
	inFlightAuto bool
	active       int
	lastErr      string
	lastSync     time.Time
	autoDone     chan struct{}
}

// Run performs an immediate sync and then loops on the cadence until ctx is
// cancelled. In-flight attempts are not cancelled; they finish on their own
// provider timeout.
func (s *Scheduler) Run(ctx context.Context) {
	s.mu.Lock()
	if s.autoDone == nil {
		s.autoDone = make(chan struct{}, 1)
	}
	s.mu.Unlock()

	s.RequestSync(false)

	timer := time.NewTimer(s.interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.autoDone:
			// An automatic attempt just finished; the cadence may have
			// switched between normal and retry intervals.
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(s.interval())
		case <-timer.C:
			s.RequestSync(false)
			timer.Reset(s.interval())
		}
	}
}

// RequestSync starts one sync attempt in the background and reports whether
// it was admitted. Automatic requests are dropped while another automatic
// attempt is in flight. Manual requests are dropped only when they arrive
// faster than the manual limiter allows; a manual attempt may overlap an
// automatic one.
func (s *Scheduler) RequestSync(manual bool) bool {
	s.mu.Lock()
	if !manual && s.inFlightAuto {
		s.mu.Unlock()
		return false
	}
	if manual && !s.Limiter.Allow() {
		s.mu.Unlock()
		if s.Log != nil {
			s.Log.Debug("manual resync throttled")
		}
		return false
	}
	if !manual {
		s.inFlightAuto = true
	}
	s.active++
	s.lastErr = ""
	s.mu.Unlock()

	go s.attempt(manual)
	return true
}

func (s *Scheduler) attempt(manual bool) {
	start := s.Clock.Now()
	epoch, err := s.Source.Fetch(context.Background(), s.Zone)
	duration := s.Clock.Since(start)

	a := core.Attempt{
		Timestamp: start,
		Source:    s.Source.Name(),
		Manual:    manual,
		Duration:  duration,
	}

	s.mu.Lock()
	if err != nil {
		if manual {
			s.lastErr = fmt.Sprintf("manual sync failed: %v", err)
		} else {
			s.lastErr = fmt.Sprintf("automatic sync failed: %v", err)
		}
		a.Error = err.Error()
		s.Cadence.Failure()
	} else {
		offset := s.Anchor.ApplySync(epoch)
		a.Success = true
		a.EpochMillis = epoch
		a.OffsetMillis = offset
		s.lastSync = s.Clock.Now()
		s.Cadence.Success()
	}
	s.active--
	if !manual {
		s.inFlightAuto = false
	}
	autoDone := s.autoDone
	s.mu.Unlock()

	if s.Log != nil {
		entry := s.Log.WithFields(logrus.Fields{
			"source":   a.Source,
			"manual":   manual,
			"duration": duration.Round(time.Millisecond),
		})
		if err != nil {
			entry.WithError(err).Warn("time sync failed")
		} else {
			entry.WithField("offset_ms", a.OffsetMillis).Info("time synchronized")
		}
	}

	if s.Reporter != nil {
		s.Reporter.Report(a)
	}

	if !manual {
		select {
		case autoDone <- struct{}{}:
		default:
		}
	}
}

func (s *Scheduler) interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Cadence.Interval()
}

// Syncing reports whether any attempt is currently in flight.
func (s *Scheduler) Syncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active > 0
}

// Synced reports whether at least one attempt has ever succeeded.
func (s *Scheduler) Synced() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.lastSync.IsZero()
}

// LastSync returns the local time of the most recent successful attempt, or
// the zero time if none has succeeded yet.
func (s *Scheduler) LastSync() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

// LastError returns the message of the most recent failure, or "" if the
// latest invocation succeeded or is still running.
func (s *Scheduler) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// StatusMessage summarizes scheduler state for display. A failure message
// wins over everything; before the first successful sync it reports that the
// clock is still unanchored; otherwise it is empty.
func (s *Scheduler) StatusMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr != "" {
		return s.lastErr
	}
	if s.lastSync.IsZero() {
		return "waiting for first sync"
	}
	return ""
}
