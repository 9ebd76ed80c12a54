package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ransomguard/internal/alert"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTestJournal(t)

	base := time.Now()
	require.NoError(t, j.Record(alert.Alert{
		Path:    "/watch/a.txt",
		Reasons: []string{"checksum+entropy"},
		Time:    base,
	}))
	require.NoError(t, j.Record(alert.Alert{
		Path:    "/watch/b.txt",
		Reasons: []string{"non_ascii", "extension"},
		Time:    base.Add(time.Second),
	}))

	entries, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "/watch/b.txt", entries[0].Path)
	assert.Equal(t, "non_ascii, extension", entries[0].Reasons)
	assert.Equal(t, "/watch/a.txt", entries[1].Path)
	assert.True(t, entries[0].Time.After(entries[1].Time))
}

func TestRecentHonorsLimit(t *testing.T) {
	j := openTestJournal(t)

	base := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(alert.Alert{
			Path:    "/watch/a.txt",
			Reasons: []string{"honeypot_access"},
			Time:    base.Add(time.Duration(i) * time.Second),
		}))
	}

	entries, err := j.Recent(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRecentOnEmptyJournal(t *testing.T) {
	j := openTestJournal(t)

	entries, err := j.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEmitNeverPanicsOnClosedDB(t *testing.T) {
	j := openTestJournal(t)
	require.NoError(t, j.Close())

	// Sink semantics: failures are swallowed, the pipeline keeps running.
	j.Emit(alert.Alert{Path: "/watch/a.txt", Reasons: []string{"extension"}, Time: time.Now()})
}
