package timesync

import "time"

// Cadence decides how long to wait before the next automatic sync. After a
// success it returns the normal interval; after failures it walks the retry
// ladder, staying on the last rung until a sync succeeds again.
type Cadence struct {
	Normal time.Duration
	Retry  []time.Duration

	failures int
}

// Success resets the retry ladder.
func (c *Cadence) Success() {
	c.failures = 0
}

// Failure advances one rung down the retry ladder.
func (c *Cadence) Failure() {
	c.failures++
}

// Interval returns the wait until the next automatic attempt.
func (c *Cadence) Interval() time.Duration {
	if c.failures == 0 || len(c.Retry) == 0 {
		return c.Normal
	}
	idx := c.failures - 1
	if idx >= len(c.Retry) {
		idx = len(c.Retry) - 1
	}
	return c.Retry[idx]
}
