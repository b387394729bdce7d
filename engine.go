// Package sweephand simulates an analog clock face whose second hand runs at
// a user-selectable speed while staying pinned to real minute boundaries. The
// wall time it displays is anchored to an external time source and projected
// forward on the host's monotonic clock.
package sweephand

import (
	"fmt"
	"sync"
	"time"

	"sweephand/internal/clockface"
	"sweephand/internal/core"
)

// Engine owns the timebase and hand simulator and serializes every read and
// update, so it is safe for concurrent use by a render loop, a sync
// scheduler, and signal handlers at once.
type Engine struct {
	mu     sync.Mutex
	clock  core.Clock
	loc    *time.Location
	base   *clockface.TimeBase
	hands  *clockface.Hands
	speeds []float64
}

// New creates an engine anchored to the local clock. The first successful
// sync replaces the anchor with the authoritative time. The multiplier must
// be a member of speeds; a nil or empty speeds falls back to the default set.
func New(clock core.Clock, loc *time.Location, speeds []float64, multiplier float64) (*Engine, error) {
	if clock == nil {
		clock = &core.RealClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if len(speeds) == 0 {
		speeds = clockface.DefaultMultipliers
	}
	if !clockface.ValidMultiplier(speeds, multiplier) {
		return nil, fmt.Errorf("multiplier %v is not in the speed set %v", multiplier, speeds)
	}

	mono := clock.Now()
	e := &Engine{
		clock:  clock,
		loc:    loc,
		base:   clockface.NewTimeBase(mono.UnixMilli(), mono),
		hands:  clockface.NewHands(multiplier),
		speeds: append([]float64(nil), speeds...),
	}
	e.hands.OnAnchor(e.now(mono))
	return e, nil
}

// now projects the anchored epoch to a wall time in the engine's zone.
// Callers hold e.mu.
func (e *Engine) now(mono time.Time) time.Time {
	return time.UnixMilli(e.base.Now(mono)).In(e.loc)
}

// Now returns the current simulated wall time.
func (e *Engine) Now() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now(e.clock.Now())
}

// Angles returns the second, minute, and hour hand angles for one instant.
// All three derive from a single clock reading, so they are mutually
// consistent even under concurrent syncs.
func (e *Engine) Angles() (second, minute, hour float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	mono := e.clock.Now()
	t := e.now(mono)
	second = e.hands.SecondAngle(e.base.AnchorAge(mono))
	minute = clockface.MinuteAngle(t)
	hour = clockface.HourAngle(t)
	return second, minute, hour
}

// Speed returns the current second-hand speed multiplier.
func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hands.Multiplier()
}

// Multipliers returns the configured speed set.
func (e *Engine) Multipliers() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]float64(nil), e.speeds...)
}

// SetSpeed switches the second-hand multiplier. The hand's rendered angle is
// preserved exactly across the switch; only its velocity changes. Multipliers
// outside the configured set are rejected.
func (e *Engine) SetSpeed(multiplier float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !clockface.ValidMultiplier(e.speeds, multiplier) {
		return fmt.Errorf("multiplier %v is not in the speed set %v", multiplier, e.speeds)
	}

	mono := e.clock.Now()
	e.hands.Rebase(multiplier, e.base.AnchorAge(mono))
	// Restart elapsed-time math from this instant without moving wall time.
	e.base.Anchor(e.base.Now(mono), mono)
	return nil
}

// CycleSpeed advances to the next multiplier in the set, wrapping around, and
// returns the newly active multiplier.
func (e *Engine) CycleSpeed() float64 {
	e.mu.Lock()
	next := clockface.NextMultiplier(e.speeds, e.hands.Multiplier())
	mono := e.clock.Now()
	e.hands.Rebase(next, e.base.AnchorAge(mono))
	e.base.Anchor(e.base.Now(mono), mono)
	e.mu.Unlock()
	return next
}

// ApplySync replaces the anchor with an authoritative epoch timestamp and
// realigns the second hand to the next real minute boundary. It returns the
// correction in milliseconds relative to the previously projected time.
func (e *Engine) ApplySync(epochMillis int64) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	mono := e.clock.Now()
	offset := epochMillis - e.base.Now(mono)
	e.base.Anchor(epochMillis, mono)
	e.hands.OnAnchor(e.now(mono))
	return offset
}

// Location returns the engine's display time zone.
func (e *Engine) Location() *time.Location {
	return e.loc
}
