package guard

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ransomguard/internal/alert"
	"ransomguard/internal/baseline"
	"ransomguard/internal/config"
	"ransomguard/internal/logging"
	"ransomguard/internal/watcher"
)

// newTestGuard wires a guard over an in-memory store with a capturing sink
// and a frozen clock.
func newTestGuard(det config.DetectorConfig, store *baseline.Store) (*Guard, *[]alert.Alert) {
	var got []alert.Alert
	dedup := alert.NewDeduplicator(det.Cooldown(), alert.Func(func(a alert.Alert) {
		got = append(got, a)
	}))

	now := time.Now()
	dedup.SetClock(func() time.Time { return now })

	g := New(det, store, dedup, logging.Default())
	g.SetClock(func() time.Time { return now })
	return g, &got
}

func benignFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("ordinary document text, nothing to see"), 0o644))
	return path
}

func TestHoneypotPrecedesHiddenFileFilter(t *testing.T) {
	store := baseline.NewStore()
	store.SetHoneypots([]string{".honey1.txt"})

	g, got := newTestGuard(config.DefaultConfig().Detector, store)

	g.HandleNotification(watcher.Notification{
		Kind: watcher.Modified,
		Path: "/watch/.honey1.txt",
	})

	require.Len(t, *got, 1)
	assert.Equal(t, "/watch/.honey1.txt", (*got)[0].Path)
	assert.Equal(t, []string{"honeypot_access"}, (*got)[0].Reasons)
}

func TestHiddenAndBackupFilesAreIgnored(t *testing.T) {
	store := baseline.NewStore()
	g, got := newTestGuard(config.DefaultConfig().Detector, store)

	g.HandleNotification(watcher.Notification{Kind: watcher.Modified, Path: "/watch/notes.txt~"})
	g.HandleNotification(watcher.Notification{Kind: watcher.Created, Path: "/watch/.swapfile.txt"})

	assert.Empty(t, *got)
	assert.Equal(t, 0, store.Len())
}

func TestBurstGateAlertsOnceOnSentinelPath(t *testing.T) {
	dir := t.TempDir()
	det := config.DefaultConfig().Detector
	det.BurstThreshold = 3

	store := baseline.NewStore()
	g, got := newTestGuard(det, store)

	for i := 0; i < 3; i++ {
		path := benignFile(t, dir, fmt.Sprintf("doc%d.txt", i))
		g.HandleNotification(watcher.Notification{Kind: watcher.Created, Path: path})
	}

	// The first two events analyze cleanly; the third trips the gate and
	// skips per-file analysis entirely.
	require.Len(t, *got, 1)
	assert.Equal(t, BurstSentinelPath, (*got)[0].Path)
	assert.Equal(t, []string{"burst>3 in 5s"}, (*got)[0].Reasons)
	assert.Equal(t, 2, store.Len())
}

func TestNotificationAnalyzesAndUpdatesBaseline(t *testing.T) {
	dir := t.TempDir()
	store := baseline.NewStore()
	g, got := newTestGuard(config.DefaultConfig().Detector, store)

	path := benignFile(t, dir, "doc.txt")
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, past, past))

	g.HandleNotification(watcher.Notification{Kind: watcher.Created, Path: path})
	assert.Empty(t, *got)
	require.Equal(t, 1, store.Len())

	// Replace the content with something non-ASCII: conclusive, and the
	// recorded profile stays untouched.
	require.NoError(t, os.WriteFile(path, []byte{0xde, 0xad, 0xbe, 0xef}, 0o644))
	g.HandleNotification(watcher.Notification{Kind: watcher.Modified, Path: path})

	require.Len(t, *got, 1)
	assert.Equal(t, []string{"non_ascii"}, (*got)[0].Reasons)

	prev, ok := store.Latest(path)
	require.True(t, ok)
	assert.Greater(t, prev.Entropy, 0.0, "baseline must still hold the healthy profile")
}

func TestSeedScansOnlyMonitoredExtension(t *testing.T) {
	dir := t.TempDir()
	benignFile(t, dir, "a.txt")
	benignFile(t, dir, "b.log")
	benignFile(t, dir, ".hidden.txt")
	benignFile(t, dir, "backup.txt~")

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	benignFile(t, sub, "c.txt")

	store := baseline.NewStore()
	g, got := newTestGuard(config.DefaultConfig().Detector, store)

	require.NoError(t, g.Seed(dir))

	assert.Empty(t, *got)
	assert.Equal(t, 2, store.Len())
	_, ok := store.Latest(filepath.Join(sub, "c.txt"))
	assert.True(t, ok)
}

func TestPlaceHoneypotsFirstRun(t *testing.T) {
	dir := t.TempDir()
	store := baseline.NewStore()
	g, got := newTestGuard(config.DefaultConfig().Detector, store)

	require.NoError(t, g.PlaceHoneypots(dir))

	assert.True(t, store.HasHoneypots())
	for _, n := range []string{"honey1.txt", "honey2.txt", "honey3.txt"} {
		_, err := os.Stat(filepath.Join(dir, n))
		assert.NoError(t, err, n)
	}

	g.HandleNotification(watcher.Notification{
		Kind: watcher.Modified,
		Path: filepath.Join(dir, "honey2.txt"),
	})
	require.Len(t, *got, 1)
	assert.Equal(t, []string{"honeypot_access"}, (*got)[0].Reasons)
}

func TestPlaceHoneypotsReusesRecordedSet(t *testing.T) {
	dir := t.TempDir()
	store := baseline.NewStore()
	store.SetHoneypots([]string{"custom-decoy.txt"})

	g, got := newTestGuard(config.DefaultConfig().Detector, store)
	require.NoError(t, g.PlaceHoneypots(dir))

	// Recorded set wins: no stock decoys are created.
	_, err := os.Stat(filepath.Join(dir, "honey1.txt"))
	assert.True(t, os.IsNotExist(err))

	g.HandleNotification(watcher.Notification{
		Kind: watcher.Modified,
		Path: filepath.Join(dir, "custom-decoy.txt"),
	})
	require.Len(t, *got, 1)
	assert.Equal(t, []string{"honeypot_access"}, (*got)[0].Reasons)
}

func TestReasonKindLabels(t *testing.T) {
	cases := map[string]string{
		"honeypot_access":                       "honeypot",
		"extension":                             "extension",
		"non_ascii":                             "non_ascii",
		"burst>10 in 5s":                        "burst",
		"low_printable (ratio=0.50 < 0.7)":      "low_printable",
		"ngram_anomaly (similarity=0.00 < 0.7)": "ngram",
		"read_error: permission denied":         "read_error",
		"entropy+printable+checksum":            "checksum_combo",
		"checksum+entropy":                      "checksum_combo",
	}
	for reason, want := range cases {
		assert.Equal(t, want, reasonKind(reason), reason)
	}
}
