// Package guard wires one change notification at a time through the
// detection pipeline: honeypot tripwire, ignore filter, burst gate, file
// analysis, alert deduplication and baseline update. Processing is strictly
// serialized; a full cycle completes before the next notification starts.
package guard

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"ransomguard/internal/alert"
	"ransomguard/internal/analyzer"
	"ransomguard/internal/baseline"
	"ransomguard/internal/burst"
	"ransomguard/internal/config"
	"ransomguard/internal/honeypot"
	"ransomguard/internal/logging"
	"ransomguard/internal/metrics"
	"ransomguard/internal/watcher"
)

// BurstSentinelPath is the pseudo-path burst alerts are scoped to: a flood
// is a property of the directory, not of any single file.
const BurstSentinelPath = "★"

// Guard is the detection orchestrator.
type Guard struct {
	detector  config.DetectorConfig
	store     *baseline.Store
	analyzer  *analyzer.Analyzer
	burst     *burst.Gate
	dedup     *alert.Deduplicator
	honeypots *honeypot.Gate
	log       *logging.Logger
	now       func() time.Time
}

// New builds a guard over the given baseline store and alert sinks.
func New(det config.DetectorConfig, store *baseline.Store, dedup *alert.Deduplicator, log *logging.Logger) *Guard {
	return &Guard{
		detector: det,
		store:    store,
		analyzer: analyzer.New(analyzer.Config{
			Extension:          det.Extension,
			PrintableThreshold: det.PrintableThreshold,
			EntropyDelta:       det.EntropyDelta,
			NGramLength:        det.NGramLength,
			NGramStep:          det.NGramStep,
			JaccardThreshold:   det.JaccardThreshold,
			MaxReasons:         det.MaxReasons,
		}),
		burst:     burst.NewGate(time.Duration(det.BurstWindowSec)*time.Second, det.BurstThreshold),
		dedup:     dedup,
		honeypots: honeypot.NewGate(store.Honeypots()),
		log:       log,
		now:       time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (g *Guard) SetClock(now func() time.Time) {
	g.now = now
}

// Seed performs the startup scan: every monitored file under root runs
// through the analyzer so pre-existing content has a recorded profile before
// live notifications arrive. The hidden/backup ignore rules apply; the burst
// and honeypot gates do not. Findings on existing files still alert.
func (g *Guard) Seed(root string) error {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !g.analyzer.MonitorsExtension(path) {
			return nil
		}
		name := d.Name()
		if strings.HasSuffix(name, "~") || strings.HasPrefix(name, ".") {
			return nil
		}

		reasons, profile := g.analyze(path)
		if profile != nil {
			g.store.Update(path, *profile)
			count++
		}
		if len(reasons) > 0 {
			g.emit(path, reasons)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed scan: %w", err)
	}

	metrics.FilesSeeded.Add(float64(count))
	metrics.BaselineEntries.Set(float64(g.store.Len()))
	g.log.Info("seed scan complete", "root", root, "files", count)
	return nil
}

// PlaceHoneypots creates the decoy files on a first run (no honeypot set
// recorded yet) and records their names. Later runs reuse the recorded set.
func (g *Guard) PlaceHoneypots(root string) error {
	if g.store.HasHoneypots() {
		g.honeypots = honeypot.NewGate(g.store.Honeypots())
		return nil
	}

	names, err := honeypot.Place(root, g.detector.Honeypots, g.detector.HoneypotContent)
	if err != nil {
		return err
	}
	g.store.SetHoneypots(names)
	g.honeypots = honeypot.NewGate(names)
	g.log.Info("honeypots placed", "root", root, "names", strings.Join(names, ","))
	return nil
}

// Run consumes notifications until ctx is cancelled or the watcher closes.
// Any in-flight cycle finishes before Run returns.
func (g *Guard) Run(ctx context.Context, w *watcher.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case n, ok := <-w.Notifications():
			if !ok {
				return nil
			}
			g.HandleNotification(n)

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			g.log.Warn("watch error", "error", err)
		}
	}
}

// HandleNotification runs one admit → analyze → alert → update cycle.
// Gate order is fixed: the honeypot tripwire is checked before everything,
// including the hidden/backup ignore filter.
func (g *Guard) HandleNotification(n watcher.Notification) {
	metrics.NotificationsTotal.WithLabelValues(n.Kind.String()).Inc()

	name := filepath.Base(n.Path)

	if g.honeypots.IsHoneypot(name) {
		g.emit(n.Path, []string{"honeypot_access"})
		return
	}

	// Editor backups (trailing tilde) and hidden files are noise.
	if strings.HasSuffix(name, "~") || strings.HasPrefix(name, ".") {
		metrics.IgnoredTotal.Inc()
		return
	}

	if g.burst.Admit(g.now()) {
		// Flood: alert once for the directory and skip per-file analysis
		// for the triggering event.
		g.emit(BurstSentinelPath, []string{
			fmt.Sprintf("burst>%d in %ds", g.detector.BurstThreshold, g.detector.BurstWindowSec),
		})
		return
	}

	reasons, profile := g.analyze(n.Path)
	if len(reasons) > 0 {
		g.emit(n.Path, reasons)
	}
	if profile != nil {
		g.store.Update(n.Path, *profile)
		metrics.BaselineEntries.Set(float64(g.store.Len()))
	}
}

// analyze times one analyzer pass against the recorded baseline.
func (g *Guard) analyze(path string) ([]string, *baseline.Profile) {
	var prev *baseline.Profile
	if p, ok := g.store.Latest(path); ok {
		prev = &p
	}

	start := time.Now()
	reasons, profile := g.analyzer.Analyze(path, prev)
	metrics.AnalyzeDuration.Observe(time.Since(start).Seconds())
	return reasons, profile
}

// emit routes reasons through the deduplicator and counts the outcome.
func (g *Guard) emit(path string, reasons []string) {
	if g.dedup.Emit(path, reasons) {
		metrics.AlertsTotal.WithLabelValues(reasonKind(reasons[0])).Inc()
	} else {
		metrics.AlertsSuppressedTotal.Inc()
	}
}

// reasonKind maps a reason string to its metric label.
func reasonKind(reason string) string {
	switch {
	case reason == "honeypot_access":
		return "honeypot"
	case reason == "extension":
		return "extension"
	case reason == "non_ascii":
		return "non_ascii"
	case strings.HasPrefix(reason, "burst>"):
		return "burst"
	case strings.HasPrefix(reason, "low_printable"):
		return "low_printable"
	case strings.HasPrefix(reason, "ngram_anomaly"):
		return "ngram"
	case strings.HasPrefix(reason, "read_error"):
		return "read_error"
	case strings.Contains(reason, "checksum"):
		return "checksum_combo"
	default:
		return "other"
	}
}
