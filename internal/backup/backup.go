// Package backup snapshots a file-backed product store.
package backup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ErrBackupUnsupported is returned when the configured store is not a single file.
var ErrBackupUnsupported = errors.New("backup is only supported for file-backed stores")

const stampLayout = "20060102_150405"

// FileName returns the snapshot name for src taken at now, e.g.
// backup_20240131_093000.db.
func FileName(src string, now time.Time) string {
	return "backup_" + now.Format(stampLayout) + filepath.Ext(src)
}

// Snapshot copies src into dir under FileName and returns the new file's path.
// dir is created when missing.
func Snapshot(src, dir string, now time.Time) (string, error) {
	if src == "" {
		return "", ErrBackupUnsupported
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open store file: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	dst := filepath.Join(dir, FileName(src, now))
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to copy store file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}
	return dst, nil
}
