// Package stats aggregates sync attempts and computes summary statistics.
package stats

import (
	"sync"
	"time"

	"sweephand/internal/core"
)

// Collector aggregates sync attempts from the scheduler and produces a
// summary. It satisfies core.Reporter.
type Collector struct {
	attempts  []core.Attempt
	ch        chan core.Attempt
	done      chan struct{}
	mu        sync.Mutex
	startTime time.Time
	endTime   time.Time
}

// NewCollector creates a new Collector and starts its collection goroutine.
func NewCollector() *Collector {
	c := &Collector{
		attempts:  make([]core.Attempt, 0),
		ch:        make(chan core.Attempt, 256),
		done:      make(chan struct{}),
		startTime: time.Now(),
	}
	go c.collect()
	return c
}

func (c *Collector) collect() {
	for a := range c.ch {
		c.mu.Lock()
		c.attempts = append(c.attempts, a)
		c.mu.Unlock()
	}
	close(c.done)
}

// Report sends an attempt to the collector. Thread-safe.
func (c *Collector) Report(a core.Attempt) {
	select {
	case c.ch <- a:
	default:
	}
}

// Close signals the collector to stop accepting attempts.
func (c *Collector) Close() {
	c.endTime = time.Now()
	close(c.ch)
	<-c.done
}

// Attempts returns a copy of collected attempts.
func (c *Collector) Attempts() []core.Attempt {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]core.Attempt, len(c.attempts))
	copy(result, c.attempts)
	return result
}

// Window returns the observation window.
// If the collector is closed, returns the duration from start to end.
// If still running, returns the duration from start to now.
func (c *Collector) Window() time.Duration {
	if !c.endTime.IsZero() {
		return c.endTime.Sub(c.startTime)
	}
	return time.Since(c.startTime)
}
