package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pmjdystats/pmjdy/internal/fileutil"
	"github.com/pmjdystats/pmjdy/internal/model"
)

// PageFetcher retrieves one archive page from the network.
// *archive.Client implements it.
type PageFetcher interface {
	FetchPage(ctx context.Context, date time.Time, session model.FormSession) (string, error)
}

// PageCache maps report dates to HTML files under a root directory.
type PageCache struct {
	root   string
	logger *slog.Logger
}

// Option configures a PageCache.
type Option func(*PageCache)

// WithLogger sets the logger used for hit/miss tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *PageCache) {
		c.logger = logger
	}
}

// New creates a PageCache rooted at root. The directory is created lazily
// on the first Put.
func New(root string, opts ...Option) *PageCache {
	c := &PageCache{root: root}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Root returns the cache directory.
func (c *PageCache) Root() string {
	return c.root
}

// Path returns the file that holds the page for date.
func (c *PageCache) Path(date time.Time) string {
	return filepath.Join(c.root, model.ISODate(date)+".html")
}

// Get returns the cached page for date. The boolean is false on a miss.
func (c *PageCache) Get(date time.Time) (string, bool, error) {
	data, err := os.ReadFile(c.Path(date))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %w", ErrCacheIO, err)
	}
	return string(data), true, nil
}

// Put stores the page for date, replacing any previous copy.
func (c *PageCache) Put(date time.Time, page string) error {
	if err := fileutil.EnsureDir(c.root); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheIO, err)
	}
	if err := fileutil.WriteStringAtomic(c.Path(date), page); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheIO, err)
	}
	return nil
}

// FetchOrLoad returns the page for date, from disk when cached and from
// fetcher otherwise. A fetched page is stored before it is returned, so each
// date reaches the network at most once.
func (c *PageCache) FetchOrLoad(ctx context.Context, date time.Time, session model.FormSession, fetcher PageFetcher) (string, model.PageSource, error) {
	page, ok, err := c.Get(date)
	if err != nil {
		return "", "", err
	}
	if ok {
		c.logger.Debug("reading cached page", "date", model.ISODate(date), "path", c.Path(date))
		return page, model.SourceCache, nil
	}

	c.logger.Debug("fetching page", "date", model.ISODate(date))
	page, err = fetcher.FetchPage(ctx, date, session)
	if err != nil {
		return "", "", err
	}
	if err := c.Put(date, page); err != nil {
		return "", "", err
	}
	return page, model.SourceNetwork, nil
}
