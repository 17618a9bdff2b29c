// Package fsutil provides the filesystem helpers the downloader and
// playlist writer share: atomic writes via temp-file-then-rename and
// directory creation.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// EnsureDir creates a directory and all parents with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// TempPath returns a hidden sibling path for staging writes to dest. The
// uuid suffix keeps concurrent writers to the same destination apart.
func TempPath(dest string) string {
	dir, base := filepath.Split(dest)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.part", base, uuid.NewString()[:8]))
}

// WriteFileAtomic writes data to path so that a crash or interrupt never
// leaves a truncated file at path: the data is written to a temporary file
// in the same directory, synced, and renamed into place. On any failure the
// temporary file is removed and path is untouched.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := TempPath(path)

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, perm)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
