package storage

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/dpshade/foam-notes/internal/errors"
)

// SafeWriter persists note content without clobbering existing files.
//
// Existence is decided by the write itself: a create-if-absent open
// (O_CREATE|O_EXCL) is the single source of truth, so two invocations
// racing for one path see exactly one success and one CONFLICT.
type SafeWriter struct {
	perm os.FileMode
	log  zerolog.Logger
}

// NewSafeWriter creates a writer producing files with 0644 permissions
func NewSafeWriter(log zerolog.Logger) *SafeWriter {
	return &SafeWriter{
		perm: 0644,
		log:  log.With().Str("component", "writer").Logger(),
	}
}

// Write stores content at path. With overwrite false an existing file yields
// a CONFLICT error and is left untouched. With overwrite true the file is
// replaced atomically through a temporary file in the same directory and
// keeps its permissions.
func (w *SafeWriter) Write(ctx context.Context, path string, content []byte, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return errors.IOError("write "+path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.IOError("create directory "+dir, err)
	}

	if overwrite {
		return w.replace(path, content)
	}
	return w.create(path, content)
}

func (w *SafeWriter) create(path string, content []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, w.perm)
	if err != nil {
		if stderrors.Is(err, fs.ErrExist) {
			w.log.Debug().Str("path", path).Msg("destination exists, refusing to overwrite")
			return errors.ConflictError(path)
		}
		return errors.IOError("create "+path, err)
	}

	_, writeErr := file.Write(content)
	closeErr := file.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		// Nothing partial may stay behind for a file we created.
		if rmErr := os.Remove(path); rmErr != nil {
			w.log.Warn().Err(rmErr).Str("path", path).Msg("failed to remove partially written file")
		}
		return errors.IOError("write "+path, writeErr)
	}

	w.log.Debug().Str("path", path).Int("bytes", len(content)).Msg("created file")
	return nil
}

func (w *SafeWriter) replace(path string, content []byte) error {
	perm := w.perm
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".foam-notes-*.tmp")
	if err != nil {
		return errors.IOError("create temporary file for "+path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		if rmErr := os.Remove(tmpName); rmErr != nil && !stderrors.Is(rmErr, fs.ErrNotExist) {
			w.log.Warn().Err(rmErr).Str("path", tmpName).Msg("failed to remove temporary file")
		}
	}

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		cleanup()
		return errors.IOError("write "+path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.IOError("write "+path, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return errors.IOError("chmod "+path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return errors.IOError("replace "+path, err)
	}

	w.log.Debug().Str("path", path).Int("bytes", len(content)).Msg("replaced file")
	return nil
}
