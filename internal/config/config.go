// Package config handles configuration loading and validation for ransomguard.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds the complete daemon configuration.
type Config struct {
	// Watch configuration for the monitored subtree.
	Watch WatchConfig `toml:"watch" json:"watch" yaml:"watch"`

	// Detector thresholds for the analysis pipeline.
	Detector DetectorConfig `toml:"detector" json:"detector" yaml:"detector"`

	// Baseline persistence configuration.
	Baseline BaselineConfig `toml:"baseline" json:"baseline" yaml:"baseline"`

	// Journal configuration for the local alert audit log.
	Journal JournalConfig `toml:"journal" json:"journal" yaml:"journal"`

	// Metrics endpoint configuration.
	Metrics MetricsConfig `toml:"metrics" json:"metrics" yaml:"metrics"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// WatchConfig holds the monitored-subtree settings.
type WatchConfig struct {
	// Root is the directory tree to monitor. A CLI positional argument
	// overrides it.
	Root string `toml:"root" json:"root" yaml:"root"`
}

// DetectorConfig holds the analysis thresholds.
type DetectorConfig struct {
	// Extension is the single monitored file type, including the dot.
	Extension string `toml:"extension" json:"extension" yaml:"extension"`

	// PrintableThreshold is the minimum printable-byte ratio for text.
	PrintableThreshold float64 `toml:"printable_threshold" json:"printable_threshold" yaml:"printable_threshold"`

	// EntropyDelta is the suspicious entropy increase in bits/byte.
	EntropyDelta float64 `toml:"entropy_delta" json:"entropy_delta" yaml:"entropy_delta"`

	// NGramLength and NGramStep define the content-shape window.
	NGramLength int `toml:"ngram_length" json:"ngram_length" yaml:"ngram_length"`
	NGramStep   int `toml:"ngram_step" json:"ngram_step" yaml:"ngram_step"`

	// JaccardThreshold is the minimum acceptable n-gram similarity.
	JaccardThreshold float64 `toml:"jaccard_threshold" json:"jaccard_threshold" yaml:"jaccard_threshold"`

	// MaxReasons caps reasons collected per analysis.
	MaxReasons int `toml:"max_reasons" json:"max_reasons" yaml:"max_reasons"`

	// BurstWindowSec and BurstThreshold configure flood detection.
	BurstWindowSec int `toml:"burst_window_sec" json:"burst_window_sec" yaml:"burst_window_sec"`
	BurstThreshold int `toml:"burst_threshold" json:"burst_threshold" yaml:"burst_threshold"`

	// CooldownSec is the per-path identical-alert suppression window.
	CooldownSec int `toml:"cooldown_sec" json:"cooldown_sec" yaml:"cooldown_sec"`

	// Honeypots are the decoy filenames placed under the watched root on
	// first run.
	Honeypots []string `toml:"honeypots" json:"honeypots" yaml:"honeypots"`

	// HoneypotContent is the placeholder body of placed decoys.
	HoneypotContent string `toml:"honeypot_content" json:"honeypot_content" yaml:"honeypot_content"`
}

// BurstWindow returns the burst window as a duration.
func (d *DetectorConfig) BurstWindow() time.Duration {
	return time.Duration(d.BurstWindowSec) * time.Second
}

// Cooldown returns the alert cooldown as a duration.
func (d *DetectorConfig) Cooldown() time.Duration {
	return time.Duration(d.CooldownSec) * time.Second
}

// BaselineConfig holds baseline persistence settings.
type BaselineConfig struct {
	// Path is the baseline JSON file, loaded at startup and rewritten once
	// at graceful shutdown.
	Path string `toml:"path" json:"path" yaml:"path"`
}

// JournalConfig holds alert-journal settings.
type JournalConfig struct {
	// Enabled turns the SQLite alert journal on.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// Path is the journal database file.
	Path string `toml:"path" json:"path" yaml:"path"`
}

// MetricsConfig holds the optional metrics endpoint settings.
type MetricsConfig struct {
	// Enabled turns the /metrics listener on. Off by default.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// Listen is the listen address, loopback by default.
	Listen string `toml:"listen" json:"listen" yaml:"listen"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `toml:"level" json:"level" yaml:"level"`
	Format   string `toml:"format" json:"format" yaml:"format"`
	Output   string `toml:"output" json:"output" yaml:"output"`
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`
}

// DataDir returns the default ransomguard data directory.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ransomguard"
	}
	return filepath.Join(home, ".ransomguard")
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Detector: DetectorConfig{
			Extension:          ".txt",
			PrintableThreshold: 0.70,
			EntropyDelta:       0.5,
			NGramLength:        3,
			NGramStep:          1,
			JaccardThreshold:   0.7,
			MaxReasons:         3,
			BurstWindowSec:     5,
			BurstThreshold:     10,
			CooldownSec:        5,
			Honeypots:          []string{"honey1.txt", "honey2.txt", "honey3.txt"},
			HoneypotContent:    "## HONEYPOT - do not touch ##",
		},
		Baseline: BaselineConfig{
			Path: filepath.Join(DataDir(), "baseline.json"),
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    filepath.Join(DataDir(), "journal.db"),
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  "127.0.0.1:9477",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// ApplyEnvOverrides overlays RANSOMGUARD_* environment variables onto c.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("RANSOMGUARD_ROOT"); v != "" {
		c.Watch.Root = v
	}
	if v := os.Getenv("RANSOMGUARD_BASELINE"); v != "" {
		c.Baseline.Path = v
	}
	if v := os.Getenv("RANSOMGUARD_JOURNAL"); v != "" {
		c.Journal.Path = v
	}
	if v := os.Getenv("RANSOMGUARD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("RANSOMGUARD_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("RANSOMGUARD_METRICS_LISTEN"); v != "" {
		c.Metrics.Enabled = true
		c.Metrics.Listen = v
	}
	if v := os.Getenv("RANSOMGUARD_EXTENSION"); v != "" {
		c.Detector.Extension = v
	}
	if v := os.Getenv("RANSOMGUARD_BURST_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Detector.BurstThreshold = n
		}
	}
}
