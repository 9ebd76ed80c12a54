package config

import (
	"fmt"
	"strings"
)

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for values the pipeline cannot run on.
func (c *Config) Validate() error {
	var errs ValidationErrors

	d := &c.Detector
	if !strings.HasPrefix(d.Extension, ".") {
		errs = append(errs, ValidationError{"detector.extension", "must start with a dot"})
	}
	if d.PrintableThreshold <= 0 || d.PrintableThreshold > 1 {
		errs = append(errs, ValidationError{"detector.printable_threshold", "must be in (0, 1]"})
	}
	if d.EntropyDelta < 0 || d.EntropyDelta > 8 {
		errs = append(errs, ValidationError{"detector.entropy_delta", "must be in [0, 8]"})
	}
	if d.NGramLength < 1 {
		errs = append(errs, ValidationError{"detector.ngram_length", "must be at least 1"})
	}
	if d.NGramStep < 1 {
		errs = append(errs, ValidationError{"detector.ngram_step", "must be at least 1"})
	}
	if d.JaccardThreshold < 0 || d.JaccardThreshold > 1 {
		errs = append(errs, ValidationError{"detector.jaccard_threshold", "must be in [0, 1]"})
	}
	if d.MaxReasons < 1 {
		errs = append(errs, ValidationError{"detector.max_reasons", "must be at least 1"})
	}
	if d.BurstWindowSec < 1 {
		errs = append(errs, ValidationError{"detector.burst_window_sec", "must be at least 1"})
	}
	if d.BurstThreshold < 1 {
		errs = append(errs, ValidationError{"detector.burst_threshold", "must be at least 1"})
	}
	if d.CooldownSec < 0 {
		errs = append(errs, ValidationError{"detector.cooldown_sec", "must not be negative"})
	}
	for _, name := range d.Honeypots {
		if strings.ContainsAny(name, "/\\") {
			errs = append(errs, ValidationError{"detector.honeypots", fmt.Sprintf("%q must be a bare filename", name)})
		}
	}

	if c.Baseline.Path == "" {
		errs = append(errs, ValidationError{"baseline.path", "must not be empty"})
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		errs = append(errs, ValidationError{"journal.path", "must not be empty when the journal is enabled"})
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		errs = append(errs, ValidationError{"metrics.listen", "must not be empty when metrics are enabled"})
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, ValidationError{"logging.format", "must be text or json"})
	}
	switch strings.ToLower(c.Logging.Output) {
	case "", "stdout", "stderr":
	case "file":
		if c.Logging.FilePath == "" {
			errs = append(errs, ValidationError{"logging.file_path", "required for file output"})
		}
	default:
		errs = append(errs, ValidationError{"logging.output", "must be stdout, stderr or file"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
