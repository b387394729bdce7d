package clockface

import (
	"math"
	"time"
)

const (
	// degreesPerSecond is the unit-speed second-hand rate (360/60).
	degreesPerSecond = 6.0
	secondsPerLap    = 60.0
)

// Hands simulates the second hand of a clock face whose speed multiplier is
// user-selectable. Hour and minute angles are pure functions of real time and
// are never accelerated.
type Hands struct {
	multiplier      float64
	baseSecondAngle float64 // degrees in [0, 360) at the instant of the last anchor
}

// NewHands creates a simulator with the given speed multiplier. The caller is
// responsible for passing a multiplier from the configured set; the simulator
// itself does not validate membership.
func NewHands(multiplier float64) *Hands {
	return &Hands{multiplier: multiplier}
}

// Multiplier returns the current speed multiplier.
func (h *Hands) Multiplier() float64 {
	return h.multiplier
}

// BaseSecondAngle returns the second hand's angle at the last anchor instant.
func (h *Hands) BaseSecondAngle() float64 {
	return h.baseSecondAngle
}

// OnAnchor recomputes the base angle from an authoritative timestamp so that
// the hand's future laps stay pinned to real minute boundaries: a lap takes
// 60/multiplier real seconds, but the hand crosses 12 o'clock when real
// seconds-within-minute reach zero. Recomputed, not integrated, so no error
// accumulates across syncs.
func (h *Hands) OnAnchor(realTime time.Time) {
	s := secondsWithinMinute(realTime)
	untilBoundary := secondsPerLap - s
	travel := math.Mod(h.multiplier*untilBoundary, secondsPerLap)
	target := math.Mod(secondsPerLap-travel, secondsPerLap)
	h.baseSecondAngle = target / secondsPerLap * 360
}

// Rebase switches the speed multiplier while preserving the current rendered
// angle exactly: the hand's position is continuous across the change, only its
// angular velocity differs afterwards. The caller must re-anchor the timebase
// at the same instant so elapsed-time math restarts from zero.
func (h *Hands) Rebase(multiplier float64, elapsed time.Duration) {
	h.baseSecondAngle = h.SecondAngle(elapsed)
	h.multiplier = multiplier
}

// SecondAngle returns the second hand's angle after the given elapsed time
// since the last anchor, normalized to [0, 360).
func (h *Hands) SecondAngle(elapsed time.Duration) float64 {
	a := math.Mod(h.baseSecondAngle+elapsed.Seconds()*h.multiplier*degreesPerSecond, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// MinuteAngle returns (minutes + seconds/60) * 6 degrees. Continuous within
// the minute; hosts that prefer discrete one-per-minute jumps may snap it.
func MinuteAngle(t time.Time) float64 {
	return (float64(t.Minute()) + secondsWithinMinute(t)/60) * 6
}

// HourAngle returns (hours12 + minutes/60 + seconds/3600) * 30 degrees.
func HourAngle(t time.Time) float64 {
	return (float64(t.Hour()%12) +
		float64(t.Minute())/60 +
		secondsWithinMinute(t)/3600) * 30
}

func secondsWithinMinute(t time.Time) float64 {
	return float64(t.Second()) + float64(t.Nanosecond())/1e9
}
