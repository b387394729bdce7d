// Package clockface derives hour/minute/second hand angles from an anchored
// timebase and a user-selected second-hand speed multiplier.
//
// The types in this package hold plain state and are not safe for concurrent
// use on their own; the engine facade serializes every update (anchor pair and
// base angle together) under a single critical section.
package clockface

import "time"

// TimeBase maps a monotonic reading to real-world epoch time. The pair is
// replaced as a whole on every sync or speed-change re-anchor, never partially
// updated.
type TimeBase struct {
	epochMillis int64
	mono        time.Time
}

// NewTimeBase creates a timebase anchored at the given pair. At process start
// the epoch comes from the local clock; syncs overwrite it later.
func NewTimeBase(epochMillis int64, mono time.Time) *TimeBase {
	return &TimeBase{epochMillis: epochMillis, mono: mono}
}

// Anchor replaces the synced pair. No failure modes.
func (tb *TimeBase) Anchor(epochMillis int64, mono time.Time) {
	tb.epochMillis = epochMillis
	tb.mono = mono
}

// Now projects the monotonic reading to epoch milliseconds. Pure function of
// the anchor pair; called every frame.
func (tb *TimeBase) Now(mono time.Time) int64 {
	return tb.epochMillis + mono.Sub(tb.mono).Milliseconds()
}

// AnchorAge returns the elapsed time since the last anchor.
func (tb *TimeBase) AnchorAge(mono time.Time) time.Duration {
	return mono.Sub(tb.mono)
}
