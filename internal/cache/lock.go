package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pmjdystats/pmjdy/internal/config"
	"github.com/pmjdystats/pmjdy/internal/fileutil"
)

// Lock is an exclusive claim on a data root, held through a lock file
// created with O_EXCL.
type Lock struct {
	path string
}

// AcquireLock claims dataDir for this process. It returns ErrLocked when the
// lock file already exists. A lock file left behind by a crashed run must be
// removed by hand; its content is the owner's PID.
func AcquireLock(dataDir string) (*Lock, error) {
	if err := fileutil.EnsureDir(dataDir); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheIO, err)
	}

	path := filepath.Join(dataDir, config.LockFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, fileutil.FilePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			owner, _ := os.ReadFile(path) //nolint:errcheck // informational only
			return nil, fmt.Errorf("%w: %s (pid %s)", ErrLocked, path, owner)
		}
		return nil, fmt.Errorf("%w: %w", ErrCacheIO, err)
	}
	defer f.Close()

	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		_ = os.Remove(path) //nolint:errcheck // best effort cleanup
		return nil, fmt.Errorf("%w: %w", ErrCacheIO, err)
	}
	return &Lock{path: path}, nil
}

// Release removes the lock file. It is safe to call more than once.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
