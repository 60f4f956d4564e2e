package cache

import "errors"

var (
	// ErrCacheIO is returned when a cache file or directory cannot be read
	// or written. It aborts a harvest run.
	ErrCacheIO = errors.New("page cache i/o error")

	// ErrLocked is returned by AcquireLock when another process holds the
	// data root.
	ErrLocked = errors.New("data directory is locked by another run")
)
