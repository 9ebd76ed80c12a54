// Package baseline holds the per-file history model the detector compares
// incoming changes against, and its JSON persistence.
package baseline

import "time"

// Profile is an immutable snapshot of one analyzed file state.
//
// NGram keys are raw byte sequences stored as strings. Content containing
// any byte >= 127 never produces a profile, so every key that reaches
// persistence is pure ASCII and therefore valid JSON.
type Profile struct {
	// Checksum is the hex-encoded BLAKE2b-256 digest of the file content.
	Checksum string `json:"checksum"`

	// Entropy is the Shannon entropy of the byte distribution, in bits/byte.
	Entropy float64 `json:"entropy"`

	// MTime is the file's last-modified time in Unix nanoseconds.
	MTime int64 `json:"mtime"`

	// Timestamp is the capture time in ISO-8601 (RFC 3339) form.
	Timestamp string `json:"timestamp"`

	// NGram maps fixed-length byte sequences to occurrence counts.
	// May be empty: capture is skipped for most updates to bound memory.
	NGram map[string]int `json:"ngram"`

	// Size is the content length in bytes.
	Size int64 `json:"size"`
}

// Entry is the recorded history for one watched path: an append-only
// sequence of profiles (oldest first) plus the most recent one.
type Entry struct {
	History []Profile `json:"history"`
	Latest  Profile   `json:"latest"`
}

// Now returns the current time formatted for Profile.Timestamp.
func Now() string {
	return time.Now().Format(time.RFC3339Nano)
}
