package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dj95/kdl-fmt/pkg/formatter"
)

// writeFileAtomic replaces path with data through a temporary file in the
// same directory, keeping the permission bits of the existing file. On
// failure path is left untouched.
func writeFileAtomic(path string, data []byte, logger *slog.Logger) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: stat '%s': %w", formatter.ErrIO, path, err)
	}

	dir := filepath.Dir(path)
	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temporary file in '%s': %w", formatter.ErrIO, dir, err)
	}
	tempFilePath := tempFile.Name()
	logger.Debug("Created temporary file", "temp_path", tempFilePath)

	closed := false
	renamed := false
	defer func() {
		if !closed {
			_ = tempFile.Close()
		}
		if !renamed {
			_ = os.Remove(tempFilePath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("%w: failed to write temporary file '%s': %w", formatter.ErrIO, tempFilePath, err)
	}
	if err := tempFile.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("%w: failed to set mode of '%s': %w", formatter.ErrIO, tempFilePath, err)
	}

	closed = true
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("%w: failed to close temporary file '%s' before rename: %w", formatter.ErrIO, tempFilePath, err)
	}

	if err := os.Rename(tempFilePath, path); err != nil {
		return fmt.Errorf("%w: failed to rename '%s' to '%s': %w", formatter.ErrIO, tempFilePath, path, err)
	}
	renamed = true
	return nil
}
