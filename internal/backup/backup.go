// Package backup protects an existing output file from being lost when a
// conversion overwrites it. The previous contents are copied aside before the
// write and put back if the write fails.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"translit/internal/errors"
)

// Manager handles backup and restoration of the output file.
type Manager struct {
	enabled bool
	now     func() time.Time
}

// NewBackupManager creates a Manager. A disabled manager makes every call a no-op.
func NewBackupManager(enabled bool) *Manager {
	return &Manager{
		enabled: enabled,
		now:     time.Now,
	}
}

// Enabled reports whether backups are taken.
func (bm *Manager) Enabled() bool {
	return bm.enabled
}

// BackupFile copies filePath to a timestamped sibling and returns the backup
// path. It returns an empty path when backups are disabled or when filePath
// does not exist yet, since there is nothing to preserve. An existing file at
// the backup path is never overwritten.
func (bm *Manager) BackupFile(filePath string) (string, error) {
	if !bm.enabled {
		return "", nil
	}

	srcFile, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.NewBackupError(filePath, "failed to open source file", err)
	}
	defer srcFile.Close()

	backupPath := generateBackupPath(filePath, bm.now())

	dstFile, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.NewBackupError(backupPath, "failed to create backup file", err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		_ = os.Remove(backupPath)
		return "", errors.NewBackupError(backupPath, "failed to copy file content", err)
	}
	if err := dstFile.Close(); err != nil {
		_ = os.Remove(backupPath)
		return "", errors.NewBackupError(backupPath, "failed to flush backup file", err)
	}

	if srcInfo, err := srcFile.Stat(); err == nil {
		_ = os.Chmod(backupPath, srcInfo.Mode())
	}

	return backupPath, nil
}

// RestoreFile overwrites originalPath with the contents of backupPath.
// An empty backupPath means no backup was taken and nothing is restored.
func (bm *Manager) RestoreFile(originalPath, backupPath string) (err error) {
	if backupPath == "" {
		return nil
	}

	srcFile, err := os.Open(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewBackupError(backupPath, "backup file not found", err)
		}
		return errors.NewBackupError(backupPath, "failed to open backup file", err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(originalPath)
	if err != nil {
		return errors.NewBackupError(originalPath, "failed to create original file", err)
	}
	defer func() {
		if cerr := dstFile.Close(); cerr != nil && err == nil {
			err = errors.NewBackupError(originalPath, "failed to flush restored file", cerr)
		}
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return errors.NewBackupError(originalPath, "failed to restore file content", err)
	}

	if backupInfo, err := srcFile.Stat(); err == nil {
		_ = os.Chmod(originalPath, backupInfo.Mode())
	}

	return nil
}

// CleanupBackup removes a backup file that is no longer needed.
func (bm *Manager) CleanupBackup(backupPath string) error {
	if backupPath == "" {
		return nil
	}

	err := os.Remove(backupPath)
	if err != nil && !os.IsNotExist(err) {
		return errors.NewBackupError(backupPath, "failed to remove backup file", err)
	}

	return nil
}

func generateBackupPath(originalPath string, at time.Time) string {
	dir := filepath.Dir(originalPath)
	base := filepath.Base(originalPath)
	timestamp := at.Format("20060102_150405.000")

	return filepath.Join(dir, fmt.Sprintf("%s.%s.bak", base, timestamp))
}
