// Package progress renders the simulated clock face on a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Face exposes the readings the renderer displays.
type Face interface {
	Now() time.Time
	Angles() (second, minute, hour float64)
	Speed() float64
}

// SyncStatus reports synchronization state for the status segment.
type SyncStatus interface {
	StatusMessage() string
	Syncing() bool
}

// Renderer redraws a single status line at a fixed refresh interval.
type Renderer struct {
	face    Face
	status  SyncStatus
	refresh time.Duration
	ticker  *time.Ticker
	stopCh  chan struct{}
	stopped atomic.Bool
	quiet   bool
	output  io.Writer
	mu      sync.Mutex
}

func NewRenderer(face Face, status SyncStatus, refresh time.Duration, quiet bool) *Renderer {
	if refresh <= 0 {
		refresh = 100 * time.Millisecond
	}
	return &Renderer{
		face:    face,
		status:  status,
		refresh: refresh,
		quiet:   quiet,
		output:  os.Stderr,
	}
}

func (r *Renderer) SetOutput(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.output = w
}

func (r *Renderer) Start() {
	if r.quiet {
		return
	}
	r.stopCh = make(chan struct{})
	r.ticker = time.NewTicker(r.refresh)
	go r.run()
}

func (r *Renderer) run() {
	for {
		select {
		case <-r.stopCh:
			return
		case <-r.ticker.C:
			r.printFrame()
		}
	}
}

func (r *Renderer) printFrame() {
	now := r.face.Now()
	sec, min, hour := r.face.Angles()
	speed := r.face.Speed()

	line := fmt.Sprintf("[%s] sec=%6.1f min=%6.1f hour=%6.1f x%g",
		now.Format("15:04:05"), sec, min, hour, speed)
	if r.status != nil {
		if r.status.Syncing() {
			line += " | syncing..."
		}
		if msg := r.status.StatusMessage(); msg != "" {
			line += " | " + msg
		}
	}

	r.mu.Lock()
	fmt.Fprintf(r.output, "\033[K%s\r", line)
	r.mu.Unlock()
}

func (r *Renderer) Stop() {
	if r.quiet || r.stopped.Swap(true) {
		return
	}
	if r.ticker != nil {
		r.ticker.Stop()
	}
	if r.stopCh != nil {
		close(r.stopCh)
	}
	r.mu.Lock()
	fmt.Fprintf(r.output, "\033[K")
	r.mu.Unlock()
}

// Printf writes a full line above the status line.
func (r *Renderer) Printf(format string, args ...interface{}) {
	if r.quiet {
		return
	}
	r.mu.Lock()
	fmt.Fprintf(r.output, "\033[K"+format+"\n", args...)
	r.mu.Unlock()
}
