package reconcile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgewatch/ipsync/pkg/reconcile"
)

func TestSnapshotCopiesCategoryFiles(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "backup")

	writeFile(t, src, "us.txt", "1.1.1.1:443#US\n")
	writeFile(t, src, "jp.txt", "9.9.9.9:443#JP\n")

	require.NoError(t, reconcile.Snapshot(src, dst))

	assert.Equal(t, "1.1.1.1:443#US\n", readFile(t, dst, "us.txt"))
	assert.Equal(t, "9.9.9.9:443#JP\n", readFile(t, dst, "jp.txt"))
}

func TestSnapshotReplacesPreviousSnapshot(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "backup")

	require.NoError(t, os.MkdirAll(dst, 0o755))
	writeFile(t, dst, "stale.txt", "0.0.0.0:443#XX\n")

	writeFile(t, src, "us.txt", "1.1.1.1:443#US\n")
	require.NoError(t, reconcile.Snapshot(src, dst))

	_, err := os.Stat(filepath.Join(dst, "stale.txt"))
	assert.True(t, os.IsNotExist(err), "previous snapshot should be discarded")
	assert.Equal(t, "1.1.1.1:443#US\n", readFile(t, dst, "us.txt"))
}

func TestSnapshotEmptySource(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "backup")
	require.NoError(t, reconcile.Snapshot(t.TempDir(), dst))

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
