// Package burst implements the directory-wide event-flood circuit breaker.
package burst

import (
	"sync"
	"time"
)

// Gate keeps a sliding time window of event timestamps and trips when the
// window fills past a threshold. It is deliberately content-blind: a flood
// of filesystem events is suspicious regardless of which files changed.
type Gate struct {
	window    time.Duration
	threshold int

	mu     sync.Mutex
	events []time.Time
}

// NewGate returns a gate that trips at threshold events within window.
func NewGate(window time.Duration, threshold int) *Gate {
	return &Gate{window: window, threshold: threshold}
}

// Admit records an event at now, evicts entries older than the window, and
// reports whether the window now holds at least the burst threshold.
func (g *Gate) Admit(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.events = append(g.events, now)
	cut := 0
	for cut < len(g.events) && now.Sub(g.events[cut]) > g.window {
		cut++
	}
	if cut > 0 {
		g.events = append(g.events[:0], g.events[cut:]...)
	}
	return len(g.events) >= g.threshold
}

// Len returns the current window occupancy.
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.events)
}
