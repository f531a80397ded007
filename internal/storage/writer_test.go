package storage

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/foam-notes/internal/errors"
	"github.com/dpshade/foam-notes/internal/logging"
)

func TestSafeWriter_CreatesWithParents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal", "2024", "note.md")

	w := NewSafeWriter(logging.Nop())
	require.NoError(t, w.Write(context.Background(), path, []byte("# Note\n"), false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Note\n", string(data))
}

func TestSafeWriter_ConflictLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	w := NewSafeWriter(logging.Nop())
	err := w.Write(context.Background(), path, []byte("replacement"), false)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConflict))
	assert.Equal(t, path, errors.GetAppError(err).Context["path"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestSafeWriter_OverwriteReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	w := NewSafeWriter(logging.Nop())
	require.NoError(t, w.Write(context.Background(), path, []byte("replacement"), true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "replacement", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not remain")
}

func TestSafeWriter_OverwriteKeepsMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not preserved on windows")
	}
	path := filepath.Join(t.TempDir(), "private.md")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0600))
	require.NoError(t, os.Chmod(path, 0600))

	w := NewSafeWriter(logging.Nop())
	require.NoError(t, w.Write(context.Background(), path, []byte("replacement"), true))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSafeWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "note.md")
	err := NewSafeWriter(logging.Nop()).Write(ctx, path, []byte("x"), false)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeIO))
	assert.NoFileExists(t, path)
}

func TestSafeWriter_ConcurrentCreateSingleWinner(t *testing.T) {
	const writers = 16
	path := filepath.Join(t.TempDir(), "race.md")
	w := NewSafeWriter(logging.Nop())

	var wg sync.WaitGroup
	results := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = w.Write(context.Background(), path, []byte("content"), false)
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.HasCode(err, errors.ErrCodeConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, writers-1, conflicts)
}
