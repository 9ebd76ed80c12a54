package baseline

import "sync"

// Store owns the mapping from absolute path to Entry plus the honeypot
// name set. Entries are created on first update and never deleted during
// a run; mutation is append-only.
type Store struct {
	mu           sync.RWMutex
	entries      map[string]*Entry
	honeypots    []string
	honeypotsSet bool
}

// NewStore returns an empty store with no honeypot set recorded.
func NewStore() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// Latest returns the most recent profile for path, if one exists.
func (s *Store) Latest(path string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[path]
	if !ok {
		return Profile{}, false
	}
	return e.Latest, true
}

// Update appends p to the path's history and makes it the latest profile,
// creating the entry on first use.
func (s *Store) Update(path string, p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[path]
	if !ok {
		e = &Entry{}
		s.entries[path] = e
	}
	e.History = append(e.History, p)
	e.Latest = p
}

// Honeypots returns the recorded decoy filenames.
func (s *Store) Honeypots() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.honeypots))
	copy(out, s.honeypots)
	return out
}

// SetHoneypots records the decoy filename set. Meant to be called exactly
// once, on the first run; HasHoneypots distinguishes "never set" from an
// empty set.
func (s *Store) SetHoneypots(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.honeypots = make([]string, len(names))
	copy(s.honeypots, names)
	s.honeypotsSet = true
}

// HasHoneypots reports whether a honeypot set was ever recorded.
func (s *Store) HasHoneypots() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.honeypotsSet
}

// Len returns the number of tracked paths.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Paths returns all tracked paths in unspecified order.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.entries))
	for p := range s.entries {
		out = append(out, p)
	}
	return out
}
