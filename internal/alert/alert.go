// Package alert carries findings to the operator, suppressing repeated
// identical alerts per path within a cooldown.
package alert

import (
	"strings"
	"sync"
	"time"
)

// Alert is one emitted finding.
type Alert struct {
	Path    string
	Reasons []string
	Time    time.Time
}

// Reason returns the comma-joined reason string.
func (a Alert) Reason() string {
	return strings.Join(a.Reasons, ", ")
}

// Sink receives emitted (non-suppressed) alerts.
type Sink interface {
	Emit(Alert)
}

// record remembers the last alert emitted for a path.
type record struct {
	reason string
	at     time.Time
}

// Deduplicator fans alerts out to its sinks unless the same path produced
// the same joined reason within the cooldown. Records are per path, purely
// in memory, and live for the process.
type Deduplicator struct {
	cooldown time.Duration
	sinks    []Sink
	now      func() time.Time

	mu      sync.Mutex
	records map[string]record
}

// NewDeduplicator returns a deduplicator emitting to the given sinks.
func NewDeduplicator(cooldown time.Duration, sinks ...Sink) *Deduplicator {
	return &Deduplicator{
		cooldown: cooldown,
		sinks:    sinks,
		now:      time.Now,
		records:  make(map[string]record),
	}
}

// SetClock overrides the time source. Tests only.
func (d *Deduplicator) SetClock(now func() time.Time) {
	d.now = now
}

// Emit delivers the alert to every sink unless it is a duplicate within
// the cooldown. It reports whether the alert was actually emitted.
func (d *Deduplicator) Emit(path string, reasons []string) bool {
	a := Alert{Path: path, Reasons: reasons, Time: d.now()}
	joined := a.Reason()

	d.mu.Lock()
	last, ok := d.records[path]
	if ok && last.reason == joined && a.Time.Sub(last.at) < d.cooldown {
		d.mu.Unlock()
		return false
	}
	d.records[path] = record{reason: joined, at: a.Time}
	d.mu.Unlock()

	for _, s := range d.sinks {
		s.Emit(a)
	}
	return true
}
