package main

import (
	"github.com/spf13/cobra"

	"ransomguard/internal/config"
	"ransomguard/internal/logging"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "ransomguard",
		Short: "Real-time tamper/ransomware detector for a directory tree",
		Long: `ransomguard watches one directory tree and scores every content-bearing
file change against a per-file historical baseline using cheap statistical
heuristics: byte entropy, printable-character ratio, content fingerprint and
n-gram similarity. It raises rate-limited alerts on suspicious patterns such
as mass encryption, extension rewriting, decoy-file touches and event floods.

Quick start:
  ransomguard watch /path/to/documents

The baseline is loaded at startup and persisted once at graceful shutdown.
On the first run a set of honeypot decoy files is placed under the watched
root; any later touch of a decoy is conclusive.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default: "+config.DefaultPath()+")")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(alertsCmd)
}

// loadConfig resolves and loads the effective configuration, then installs
// the configured logger as the process default.
func loadConfig() (*config.Config, *logging.Logger, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}

	log, err := logging.New(&logging.Config{
		Level:     level,
		Format:    cfg.Logging.Format,
		Output:    cfg.Logging.Output,
		FilePath:  cfg.Logging.FilePath,
		Component: "ransomguard",
	})
	if err != nil {
		return nil, nil, err
	}
	logging.SetDefault(log)

	return cfg, log, nil
}
