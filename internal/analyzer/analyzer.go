// Package analyzer implements the single-pass per-file anomaly analysis:
// byte-entropy, printable-character ratio, content fingerprint and n-gram
// similarity against a previously recorded profile.
package analyzer

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"

	"ransomguard/internal/baseline"
)

// Printable ASCII range checked during the content scan.
const (
	printableMin = 32
	printableMax = 126
)

// Config holds the analysis thresholds.
type Config struct {
	// Extension is the single monitored file type, including the dot.
	// Any other extension is conclusively suspicious.
	Extension string

	// PrintableThreshold is the minimum acceptable printable-byte ratio.
	PrintableThreshold float64

	// EntropyDelta is the entropy increase over the previous profile that
	// counts as suspicious when the content fingerprint changed.
	EntropyDelta float64

	// NGramLength and NGramStep define the sliding n-gram window.
	NGramLength int
	NGramStep   int

	// JaccardThreshold is the n-gram similarity below which a changed file
	// is flagged.
	JaccardThreshold float64

	// MaxReasons caps the reasons collected in one analysis. Hitting the
	// cap returns early without a new profile, so the stale baseline keeps
	// forcing re-evaluation on subsequent changes.
	MaxReasons int
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		Extension:          ".txt",
		PrintableThreshold: 0.70,
		EntropyDelta:       0.5,
		NGramLength:        3,
		NGramStep:          1,
		JaccardThreshold:   0.7,
		MaxReasons:         3,
	}
}

// Analyzer evaluates file changes against recorded profiles. It is
// stateless per call; all history lives in the baseline store.
type Analyzer struct {
	cfg Config
}

// New returns an Analyzer with the given thresholds.
func New(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Fingerprint returns the hex BLAKE2b-256 digest of data.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Analyze inspects the file at path against its previous profile (nil when
// the path has no history). It returns zero or more anomaly reasons and,
// when the file state should be remembered, a new profile.
//
// Evaluation is ordered and short-circuits at the first decisive condition;
// cheap conclusive signals (extension, non-ASCII bytes) win before the
// statistical ones. Findings are never errors: an unreadable file produces
// a read_error reason and the caller moves on.
func (a *Analyzer) Analyze(path string, prev *baseline.Profile) ([]string, *baseline.Profile) {
	info, err := os.Stat(path)
	if err != nil {
		return []string{fmt.Sprintf("read_error:%v", err)}, nil
	}
	mtime := info.ModTime().UnixNano()

	// Unchanged file: idempotent no-op.
	if prev != nil && prev.MTime == mtime {
		return nil, nil
	}

	// Renaming to another extension is itself conclusive.
	if !strings.EqualFold(filepath.Ext(path), a.cfg.Extension) {
		return []string{"extension"}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("read_error:%v", err)}, nil
	}

	total := len(raw)
	if total == 0 {
		// Establish history without flagging.
		return nil, &baseline.Profile{
			Checksum:  Fingerprint(nil),
			Entropy:   0.0,
			MTime:     mtime,
			Timestamp: baseline.Now(),
			NGram:     map[string]int{},
			Size:      0,
		}
	}

	// Single bounded scan: histogram plus printable count. Any byte >= 127
	// aborts immediately; binary content is conclusive and always wins over
	// the ratio-based signals below.
	var hist [256]int
	printable := 0
	for _, b := range raw {
		if b >= 127 {
			return []string{"non_ascii"}, nil
		}
		hist[b]++
		if b >= printableMin && b <= printableMax {
			printable++
		}
	}

	printableRatio := float64(printable) / float64(total)
	ent := Entropy(&hist, total)
	checksum := Fingerprint(raw)

	var reasons []string

	lowPrintable := printableRatio < a.cfg.PrintableThreshold
	checksumChanged := prev != nil && prev.Checksum != "" && prev.Checksum != checksum

	var prevEntropy float64
	if prev != nil {
		prevEntropy = prev.Entropy
	}
	entropyUp := ent-prevEntropy > a.cfg.EntropyDelta

	// Content-identity change gates the combined statistical signals so an
	// unchanged file never re-pays their cost. When the fingerprint did
	// change, the combined classification subsumes the plain low_printable
	// signal: exactly one reason describes the combination present.
	if checksumChanged {
		switch {
		case entropyUp && lowPrintable:
			reasons = append(reasons, "entropy+printable+checksum")
		case entropyUp:
			reasons = append(reasons, "checksum+entropy")
		case lowPrintable:
			reasons = append(reasons, "checksum+low_printable")
		}
		if len(reasons) >= a.cfg.MaxReasons {
			// Deliberately no profile: the old baseline stays in force and
			// the next change is re-evaluated against it.
			return reasons, nil
		}
	}

	if len(reasons) == 0 && lowPrintable {
		reasons = append(reasons, fmt.Sprintf("low_printable (ratio=%.2f < %g)",
			printableRatio, a.cfg.PrintableThreshold))
	}

	// The n-gram map is computed at most once per call; the similarity
	// check and the capture policy below share the same map.
	var ngrams map[string]int
	grams := func() map[string]int {
		if ngrams == nil {
			ngrams = NGrams(raw, a.cfg.NGramLength, a.cfg.NGramStep)
		}
		return ngrams
	}

	if len(reasons) == 0 && checksumChanged && prev != nil && len(prev.NGram) > 0 {
		sim := Jaccard(prev.NGram, grams())
		if sim < a.cfg.JaccardThreshold {
			reasons = append(reasons, fmt.Sprintf("ngram_anomaly (similarity=%.2f < %g)",
				sim, a.cfg.JaccardThreshold))
		}
	}

	// Capture policy: storing n-grams is costly, so the new profile carries
	// them only when no previous map exists, on a large shrink, or when the
	// similarity check above already paid for the computation.
	shrinkRatio := 1.0
	if prev != nil && prev.Size > 0 {
		shrinkRatio = float64(total) / float64(prev.Size)
	}
	captured := map[string]int{}
	if prev == nil || len(prev.NGram) == 0 || shrinkRatio < 0.5 || ngrams != nil {
		captured = grams()
	}

	return reasons, &baseline.Profile{
		Checksum:  checksum,
		Entropy:   ent,
		MTime:     mtime,
		Timestamp: baseline.Now(),
		NGram:     captured,
		Size:      int64(total),
	}
}

// MonitorsExtension reports whether path carries the monitored extension.
func (a *Analyzer) MonitorsExtension(path string) bool {
	return strings.EqualFold(filepath.Ext(path), a.cfg.Extension)
}
