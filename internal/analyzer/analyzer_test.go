package analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ransomguard/internal/baseline"
)

func newTestAnalyzer() *Analyzer {
	return New(DefaultConfig())
}

// writeFile creates a file and nudges its mtime so successive rewrites in
// the same test never collide on modification time.
func writeFile(t *testing.T, path string, content []byte, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, content, 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestAnalyzeUnchangedMTimeIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	mtime := time.Now().Add(-time.Hour)
	writeFile(t, path, []byte("hello world"), mtime)

	a := newTestAnalyzer()
	prev := &baseline.Profile{MTime: mtime.UnixNano()}

	for i := 0; i < 2; i++ {
		reasons, profile := a.Analyze(path, prev)
		assert.Empty(t, reasons, "call %d", i)
		assert.Nil(t, profile, "call %d", i)
	}
}

func TestAnalyzeForeignExtensionIsConclusive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.locked")
	writeFile(t, path, []byte("perfectly ordinary text"), time.Now())

	a := newTestAnalyzer()
	reasons, profile := a.Analyze(path, nil)

	assert.Equal(t, []string{"extension"}, reasons)
	assert.Nil(t, profile)
}

func TestAnalyzeReadError(t *testing.T) {
	a := newTestAnalyzer()
	reasons, profile := a.Analyze(filepath.Join(t.TempDir(), "missing.txt"), nil)

	require.Len(t, reasons, 1)
	assert.True(t, strings.HasPrefix(reasons[0], "read_error:"))
	assert.Nil(t, profile)
}

func TestAnalyzeEmptyFileEstablishesBaseline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	writeFile(t, path, nil, time.Now())

	a := newTestAnalyzer()
	reasons, profile := a.Analyze(path, nil)

	assert.Empty(t, reasons)
	require.NotNil(t, profile)
	assert.Equal(t, 0.0, profile.Entropy)
	assert.Empty(t, profile.NGram)
	assert.Equal(t, int64(0), profile.Size)
	assert.Equal(t, Fingerprint(nil), profile.Checksum)
}

func TestAnalyzeNonASCIIWinsOverEverything(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")

	// 99 printable bytes plus a single high byte: still conclusive.
	content := append([]byte(strings.Repeat("a", 99)), 0x80)
	writeFile(t, path, content, time.Now())

	a := newTestAnalyzer()
	reasons, profile := a.Analyze(path, nil)

	assert.Equal(t, []string{"non_ascii"}, reasons)
	assert.Nil(t, profile)
}

func TestAnalyzeFirstSightCapturesProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	content := []byte("the quick brown fox jumps over the lazy dog")
	writeFile(t, path, content, time.Now())

	a := newTestAnalyzer()
	reasons, profile := a.Analyze(path, nil)

	assert.Empty(t, reasons)
	require.NotNil(t, profile)
	assert.Equal(t, Fingerprint(content), profile.Checksum)
	assert.Equal(t, int64(len(content)), profile.Size)
	assert.Greater(t, profile.Entropy, 0.0)
	// No previous n-gram map: capture is mandatory.
	assert.Equal(t, NGrams(content, 3, 1), profile.NGram)
	_, err := time.Parse(time.RFC3339Nano, profile.Timestamp)
	assert.NoError(t, err)
}

// comboContent is uniform over byte values 0..63: entropy exactly 6.0
// bits/byte, printable ratio 0.5.
func comboContent() []byte {
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = byte(i)
	}
	return buf
}

func TestAnalyzeEntropyPrintableChecksumCombo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	writeFile(t, path, comboContent(), time.Now())

	a := newTestAnalyzer()
	prev := &baseline.Profile{
		Checksum: "c1-previous-fingerprint",
		Entropy:  1.0,
		MTime:    1, // differs from the file's mtime
		Size:     64,
	}

	reasons, profile := a.Analyze(path, prev)

	assert.Equal(t, []string{"entropy+printable+checksum"}, reasons)
	require.NotNil(t, profile)
	assert.InDelta(t, 6.0, profile.Entropy, 1e-9)
}

func TestAnalyzeChecksumEntropyCombo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")

	// Uniform over the printable range: high entropy, ratio 1.0.
	var buf []byte
	for b := byte(32); b <= 126; b++ {
		buf = append(buf, b)
	}
	writeFile(t, path, buf, time.Now())

	a := newTestAnalyzer()
	prev := &baseline.Profile{
		Checksum: "c1-previous-fingerprint",
		Entropy:  1.0,
		MTime:    1,
		Size:     int64(len(buf)),
	}

	reasons, _ := a.Analyze(path, prev)
	assert.Equal(t, []string{"checksum+entropy"}, reasons)
}

func TestAnalyzeChecksumLowPrintableCombo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	writeFile(t, path, comboContent(), time.Now())

	a := newTestAnalyzer()
	prev := &baseline.Profile{
		Checksum: "c1-previous-fingerprint",
		Entropy:  6.0, // no entropy jump
		MTime:    1,
		Size:     64,
	}

	reasons, _ := a.Analyze(path, prev)
	assert.Equal(t, []string{"checksum+low_printable"}, reasons)
}

func TestAnalyzeLowPrintableWithoutChecksumChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	content := comboContent()
	writeFile(t, path, content, time.Now())

	a := newTestAnalyzer()
	// Same fingerprint, different mtime: a touch, not a content change.
	prev := &baseline.Profile{
		Checksum: Fingerprint(content),
		Entropy:  6.0,
		MTime:    1,
		Size:     64,
	}

	reasons, profile := a.Analyze(path, prev)

	require.Len(t, reasons, 1)
	assert.True(t, strings.HasPrefix(reasons[0], "low_printable (ratio=0.50"))
	require.NotNil(t, profile)
}

func TestAnalyzeNGramAnomaly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")

	oldContent := []byte(strings.Repeat("abcdefgh", 50))
	newContent := []byte(strings.Repeat("stuvwxyz", 50))

	writeFile(t, path, oldContent, time.Now().Add(-time.Hour))
	a := newTestAnalyzer()
	_, prev := a.Analyze(path, nil)
	require.NotNil(t, prev)
	require.NotEmpty(t, prev.NGram)

	// Same length and entropy, entirely different shape.
	writeFile(t, path, newContent, time.Now())
	reasons, profile := a.Analyze(path, prev)

	require.Len(t, reasons, 1)
	assert.True(t, strings.HasPrefix(reasons[0], "ngram_anomaly (similarity=0.00"), "got %q", reasons[0])
	require.NotNil(t, profile)
	// The similarity check already paid for the map, so it is stored.
	assert.Equal(t, NGrams(newContent, 3, 1), profile.NGram)
}

func TestAnalyzeSimilarContentPassesAndSkipsNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")

	oldContent := []byte(strings.Repeat("abcdefgh", 50))
	newContent := []byte(strings.Repeat("abcdefgh", 51)) // same trigram set

	writeFile(t, path, oldContent, time.Now().Add(-time.Hour))
	a := newTestAnalyzer()
	_, prev := a.Analyze(path, nil)
	require.NotNil(t, prev)

	writeFile(t, path, newContent, time.Now())
	reasons, profile := a.Analyze(path, prev)

	assert.Empty(t, reasons)
	require.NotNil(t, profile)
	assert.Equal(t, int64(len(newContent)), profile.Size)
}

func TestAnalyzeNGramCaptureSkippedOnTouch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	content := []byte(strings.Repeat("abcdefgh", 50))

	writeFile(t, path, content, time.Now().Add(-time.Hour))
	a := newTestAnalyzer()
	_, prev := a.Analyze(path, nil)
	require.NotNil(t, prev)
	require.NotEmpty(t, prev.NGram)

	// mtime changes, fingerprint does not: no similarity check runs, no
	// shrink happened, so the new profile carries an empty map.
	writeFile(t, path, content, time.Now())
	reasons, profile := a.Analyze(path, prev)

	assert.Empty(t, reasons)
	require.NotNil(t, profile)
	assert.Empty(t, profile.NGram)
}

func TestAnalyzeShrinkForcesRecapture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")

	oldContent := []byte(strings.Repeat("abcdefgh", 50))
	writeFile(t, path, oldContent, time.Now().Add(-time.Hour))

	a := newTestAnalyzer()
	_, prev := a.Analyze(path, nil)
	require.NotNil(t, prev)

	// Under half the previous size; the trigram set is unchanged so the
	// similarity check passes, and the shrink rule still stores the map.
	newContent := []byte(strings.Repeat("abcdefgh", 20))
	writeFile(t, path, newContent, time.Now())

	reasons, profile := a.Analyze(path, prev)
	assert.Empty(t, reasons)
	require.NotNil(t, profile)
	assert.Equal(t, NGrams(newContent, 3, 1), profile.NGram)
}
