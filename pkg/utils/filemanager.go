// =============================================================================
// SDMX Catalog Flattener - File Manager Utility
// =============================================================================
//
// This module provides the file handling used when writing output:
//   - Parent directory creation
//   - Atomic replacement of the output file (temp file + rename)
//   - Optional backup of the previous output
//
// OUTPUT STRATEGY:
//   - Output is written to "<path>.<uuid>.tmp" next to the target
//   - The temp file is synced and renamed over the target on success
//   - On failure the temp file is removed and the target is left untouched
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureParentDir creates the directory that will contain path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// ATOMIC WRITE
// =============================================================================

// WriteFileAtomic creates or replaces the file at path with whatever write
// produces. Readers of path see either the old or the new content, never a
// partial file.
//
// PARAMETERS:
//   - path: The final file path.
//   - write: Writes the content to the temporary file.
//
// RETURNS:
//   - An error if writing, syncing or renaming fails. The temporary file is
//     removed in that case.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	if err := EnsureParentDir(path); err != nil {
		return err
	}

	tmpPath := TempPath(path)
	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	defer func() {
		if err != nil {
			_ = file.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := write(file); err != nil {
		return err
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

// TempPath returns a unique temporary file name next to path.
func TempPath(path string) string {
	return fmt.Sprintf("%s.%s.tmp", path, uuid.New().String())
}

// =============================================================================
// BACKUP
// =============================================================================

// BackupExisting copies an existing file at path to
// "<path>.<YYYYMMDD_HHMMSS>.bak" before it is overwritten.
//
// RETURNS:
//   - The backup path, or "" if there was nothing to back up.
//   - An error if copying fails.
func BackupExisting(path string, now time.Time) (string, error) {
	if !FileExists(path) {
		return "", nil
	}

	backupPath := fmt.Sprintf("%s.%s.bak", path, now.Format("20060102_150405"))
	if err := copyFile(path, backupPath); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", path, err)
	}

	return backupPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
