// Package honeypot provides the decoy-file tripwire: fixed-name files whose
// mere access is conclusive evidence of tampering.
package honeypot

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultContent is the placeholder body written into placed decoys.
const DefaultContent = "## HONEYPOT - do not touch ##"

// DefaultNames are the stock decoy filenames.
func DefaultNames() []string {
	return []string{"honey1.txt", "honey2.txt", "honey3.txt"}
}

// Gate answers name-membership queries against the configured decoy set.
// It must be consulted before any other filter: a decoy dressed up as a
// hidden or backup file still trips it.
type Gate struct {
	names map[string]struct{}
}

// NewGate builds a gate over the given decoy filenames.
func NewGate(names []string) *Gate {
	g := &Gate{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		g.names[n] = struct{}{}
	}
	return g
}

// IsHoneypot reports whether filename is a registered decoy.
func (g *Gate) IsHoneypot(filename string) bool {
	_, ok := g.names[filename]
	return ok
}

// Place creates the named decoy files under root with the given content,
// skipping any that already exist. It returns the full configured name set
// so callers record a deterministic set in the baseline regardless of what
// was already on disk.
func Place(root string, names []string, content string) ([]string, error) {
	for _, name := range names {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat honeypot %s: %w", p, err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("place honeypot %s: %w", p, err)
		}
	}
	out := make([]string, len(names))
	copy(out, names)
	return out, nil
}
