package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pmjdystats/pmjdy/internal/fileutil"
	"github.com/pmjdystats/pmjdy/internal/model"
)

// Consolidator merges the per-date CSV files into one master file.
type Consolidator struct {
	csvDir  string
	outPath string
	workers int
	logger  *slog.Logger
}

// Option configures a Consolidator.
type Option func(*Consolidator)

// WithWorkers bounds the number of files parsed at once.
func WithWorkers(n int) Option {
	return func(c *Consolidator) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Consolidator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConsolidator reads CSV files from csvDir and writes the merged result
// to outPath.
func NewConsolidator(csvDir, outPath string, opts ...Option) *Consolidator {
	c := &Consolidator{
		csvDir:  csvDir,
		outPath: outPath,
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Inputs returns the CSV files in the per-date directory sorted by name,
// which for ISO-dated files is chronological order.
func (c *Consolidator) Inputs() ([]string, error) {
	entries, err := os.ReadDir(c.csvDir)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(c.csvDir, e.Name()))
	}
	slices.Sort(files)
	return files, nil
}

// Consolidate rebuilds the master file from every per-date CSV file and
// returns its path. The master file is replaced atomically, so a failed run
// leaves the previous one in place.
func (c *Consolidator) Consolidate(ctx context.Context) (string, error) {
	files, err := c.Inputs()
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", c.csvDir, err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoInputs, c.csvDir)
	}

	sets := make([]*model.RecordSet, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rs, err := ReadCSV(path)
			if err != nil {
				return err
			}
			sets[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("failed to read per-date files: %w", err)
	}

	master := Merge(sets...)
	if err := fileutil.WriteFileAtomic(c.outPath, func(w io.Writer) error {
		return Encode(w, master)
	}); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", c.outPath, err)
	}

	c.logger.Info("master data created", "path", c.outPath, "files", len(files), "rows", master.Len())
	return c.outPath, nil
}

// Merge concatenates record sets. The header is the union of all headers in
// first-seen order; cells for columns a set lacks are blank. Rows are not
// deduplicated.
func Merge(sets ...*model.RecordSet) *model.RecordSet {
	header := make([]string, 0)
	index := make(map[string]int)
	for _, rs := range sets {
		for _, name := range rs.Header {
			if _, ok := index[name]; !ok {
				index[name] = len(header)
				header = append(header, name)
			}
		}
	}

	out := model.NewRecordSet(header)
	for _, rs := range sets {
		positions := make([]int, len(rs.Header))
		for i, name := range rs.Header {
			positions[i] = index[name]
		}
		for _, row := range rs.Rows {
			merged := make([]string, len(header))
			for i, v := range row {
				merged[positions[i]] = v
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}
