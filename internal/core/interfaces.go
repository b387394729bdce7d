// Package core defines the fundamental interfaces and types for Sweephand.
package core

import (
	"context"
	"time"
)

// Attempt represents a single synchronization attempt against a time source.
type Attempt struct {
	Timestamp    time.Time
	Source       string // "http", "command"
	Manual       bool
	Duration     time.Duration
	Success      bool
	Error        string
	EpochMillis  int64 // timestamp obtained from the source
	OffsetMillis int64 // correction applied relative to the previous anchor
}

// TimeSource obtains an authoritative timestamp for the given IANA time zone.
// Implementations must be safe for concurrent use; a manual attempt may run
// while an automatic one is still in flight.
type TimeSource interface {
	Name() string
	Fetch(ctx context.Context, zone string) (epochMillis int64, err error)
}

// Reporter is the interface the scheduler uses to send attempt events to the
// stats collector.
type Reporter interface {
	Report(Attempt)
}
