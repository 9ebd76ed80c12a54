package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"ransomguard/internal/alert"
	"ransomguard/internal/baseline"
	"ransomguard/internal/guard"
	"ransomguard/internal/journal"
	"ransomguard/internal/metrics"
	"ransomguard/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [folder]",
	Short: "Watch a directory tree and alert on suspicious file changes",
	Long: `watch seeds the baseline with a full scan of the monitored files, places
honeypot decoys on the first run, then processes live change notifications
one at a time until interrupted. On SIGINT/SIGTERM the in-flight cycle
finishes, the baseline is persisted exactly once, and the process exits
cleanly.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Close()

	if len(args) == 1 {
		cfg.Watch.Root = args[0]
	}
	if cfg.Watch.Root == "" {
		return fmt.Errorf("no folder to monitor: pass one as an argument or set watch.root")
	}

	root, err := filepath.Abs(cfg.Watch.Root)
	if err != nil {
		return err
	}

	// A malformed baseline is a hard startup error; continuing from
	// partial history would make every later verdict undefined.
	store, err := baseline.Load(cfg.Baseline.Path)
	if err != nil {
		return err
	}
	log.Info("baseline loaded", "path", cfg.Baseline.Path, "entries", store.Len())

	sinks := []alert.Sink{alert.NewLineSink(os.Stdout, log)}

	var jnl *journal.Journal
	if cfg.Journal.Enabled {
		jnl, err = journal.Open(cfg.Journal.Path, log)
		if err != nil {
			return err
		}
		defer jnl.Close()
		sinks = append(sinks, jnl)
	}

	dedup := alert.NewDeduplicator(cfg.Detector.Cooldown(), sinks...)
	g := guard.New(cfg.Detector, store, dedup, log)

	log.Info("running initial scan", "root", root)
	if err := g.Seed(root); err != nil {
		return err
	}

	if err := g.PlaceHoneypots(root); err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(cfg.Metrics.Listen); err != nil {
				log.Error("metrics endpoint failed", "listen", cfg.Metrics.Listen, "error", err)
			}
		}()
		log.Info("metrics endpoint enabled", "listen", cfg.Metrics.Listen)
	}

	w, err := watcher.New(root)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("watching", "root", root)
	if err := g.Run(ctx, w); err != nil {
		return err
	}

	// Shutdown: stop accepting notifications, then persist exactly once.
	if err := w.Stop(); err != nil {
		log.Warn("watcher stop", "error", err)
	}
	if err := store.Save(cfg.Baseline.Path); err != nil {
		return fmt.Errorf("persist baseline: %w", err)
	}
	log.Info("baseline saved", "path", cfg.Baseline.Path, "entries", store.Len())
	return nil
}
