package honeypot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateMembership(t *testing.T) {
	g := NewGate([]string{"honey1.txt", ".decoy"})

	assert.True(t, g.IsHoneypot("honey1.txt"))
	assert.True(t, g.IsHoneypot(".decoy"), "hidden-looking decoys still trip the gate")
	assert.False(t, g.IsHoneypot("honey2.txt"))
	assert.False(t, g.IsHoneypot("notes.txt"))
}

func TestPlaceCreatesMissingDecoys(t *testing.T) {
	dir := t.TempDir()

	names, err := Place(dir, DefaultNames(), DefaultContent)
	require.NoError(t, err)
	assert.Equal(t, DefaultNames(), names)

	for _, n := range DefaultNames() {
		data, err := os.ReadFile(filepath.Join(dir, n))
		require.NoError(t, err)
		assert.Equal(t, DefaultContent, string(data))
	}
}

func TestPlaceSkipsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "honey1.txt")
	require.NoError(t, os.WriteFile(existing, []byte("user content"), 0o644))

	names, err := Place(dir, DefaultNames(), DefaultContent)
	require.NoError(t, err)

	// The pre-existing file keeps its content but still counts as a decoy.
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "user content", string(data))
	assert.Contains(t, names, "honey1.txt")
}
