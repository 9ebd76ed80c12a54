package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ransomguard/internal/alert"
	"ransomguard/internal/baseline"
	"ransomguard/internal/guard"
)

var scanCmd = &cobra.Command{
	Use:   "scan [folder]",
	Short: "Run a one-shot baseline scan without watching",
	Long: `scan profiles every monitored file under the folder, alerts on findings,
and persists the updated baseline. Useful to seed or refresh the baseline
before starting the watch daemon.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Close()

	if len(args) == 1 {
		cfg.Watch.Root = args[0]
	}
	if cfg.Watch.Root == "" {
		return fmt.Errorf("no folder to scan: pass one as an argument or set watch.root")
	}

	root, err := filepath.Abs(cfg.Watch.Root)
	if err != nil {
		return err
	}

	store, err := baseline.Load(cfg.Baseline.Path)
	if err != nil {
		return err
	}

	dedup := alert.NewDeduplicator(cfg.Detector.Cooldown(), alert.NewLineSink(os.Stdout, log))
	g := guard.New(cfg.Detector, store, dedup, log)

	if err := g.Seed(root); err != nil {
		return err
	}
	if err := store.Save(cfg.Baseline.Path); err != nil {
		return fmt.Errorf("persist baseline: %w", err)
	}

	fmt.Printf("Baseline updated: %d tracked paths -> %s\n", store.Len(), cfg.Baseline.Path)
	return nil
}
