// Package fileutil holds the filesystem helpers shared by the cache and the
// dataset writers.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Directory and file permissions for everything the harvester writes.
const (
	DirPerm  = 0750
	FilePerm = 0640
)

// EnsureDir creates dir and its parents. It is a no-op if dir exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, DirPerm)
}

// WriteFileAtomic writes the output of write to path through a temporary
// file in the same directory, then renames it into place. Readers never see
// a partially written file, and a failed write leaves any previous file
// untouched.
func WriteFileAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()           //nolint:errcheck // already failing
			_ = os.Remove(tmp.Name()) //nolint:errcheck // best effort cleanup
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), FilePerm); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// WriteStringAtomic writes s to path atomically.
func WriteStringAtomic(path, s string) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}
