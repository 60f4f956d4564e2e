package walker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/pmjdystats/pmjdy/internal/archive"
	"github.com/pmjdystats/pmjdy/internal/cache"
	"github.com/pmjdystats/pmjdy/internal/config"
	"github.com/pmjdystats/pmjdy/internal/dataset"
	"github.com/pmjdystats/pmjdy/internal/extract"
	"github.com/pmjdystats/pmjdy/internal/fileutil"
	"github.com/pmjdystats/pmjdy/internal/model"
)

// Archive is the remote side of a harvest. *archive.Client implements it.
type Archive interface {
	FetchFormState(ctx context.Context) (string, model.FormSession, error)
	FetchPage(ctx context.Context, date time.Time, session model.FormSession) (string, error)
}

// Recorder stores the outcome of each date. *ledger.Ledger implements it.
type Recorder interface {
	Record(ctx context.Context, outcome model.PageOutcome) error
}

// Summary describes a finished walk.
type Summary struct {
	// Anchor is the first date processed, after snapping to the weekday.
	Anchor time.Time
	Cutoff time.Time

	// EndDateDetected is false when the landing page had no marker and
	// the walk started from today.
	EndDateDetected bool

	Dates       int
	Extracted   int
	Malformed   int
	FromCache   int
	FromNetwork int
	Records     int
}

// Walker walks the archive backward from its newest date.
type Walker struct {
	archive   Archive
	cache     *cache.PageCache
	extractor *extract.Extractor
	detector  *archive.EndDateDetector
	recorder  Recorder
	logger    *slog.Logger
	now       func() time.Time

	htmlDir string
	csvDir  string
	cutoff  time.Time
	step    int
	weekday time.Weekday
	strict  bool
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger sets the logger. It is also handed to the page cache and the
// extractor.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithRecorder records every processed date, typically into the ledger.
func WithRecorder(r Recorder) Option {
	return func(w *Walker) {
		w.recorder = r
	}
}

// WithClock replaces time.Now, which is used when the landing page has no
// end date.
func WithClock(now func() time.Time) Option {
	return func(w *Walker) {
		if now != nil {
			w.now = now
		}
	}
}

// New creates a Walker for cfg. cfg must be valid.
func New(cfg *config.Config, arc Archive, opts ...Option) (*Walker, error) {
	detector, err := archive.NewEndDateDetector(cfg.EndDatePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid end date pattern: %w", err)
	}

	w := &Walker{
		archive:  arc,
		detector: detector,
		logger:   slog.Default(),
		now:      time.Now,
		htmlDir:  cfg.HTMLDir(),
		csvDir:   cfg.CSVDir(),
		cutoff:   model.Day(cfg.Cutoff),
		step:     cfg.IntervalDays,
		weekday:  cfg.AnchorWeekday,
		strict:   cfg.StrictEndDate,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.cache = cache.New(w.htmlDir, cache.WithLogger(w.logger))
	w.extractor = extract.New(extract.WithLogger(w.logger))
	return w, nil
}

// Dates returns anchor, anchor-step, anchor-2*step, ... down to and
// including cutoff. It is empty when anchor is before cutoff.
func Dates(anchor, cutoff time.Time, step int) []time.Time {
	if step <= 0 {
		return nil
	}
	anchor, cutoff = model.Day(anchor), model.Day(cutoff)
	dates := make([]time.Time, 0)
	for d := anchor; !d.Before(cutoff); d = d.AddDate(0, 0, -step) {
		dates = append(dates, d)
	}
	return dates
}

// Anchor reads the end date from the landing page and snaps it back to the
// configured weekday. Without a marker it falls back to today, unless the
// walker is strict.
func (w *Walker) Anchor(landing string) (time.Time, bool, error) {
	end, ok := w.detector.Detect(landing)
	if !ok {
		if w.strict {
			return time.Time{}, false, ErrEndDateNotFound
		}
		end = model.Day(w.now())
		w.logger.Warn("end date not found on landing page, starting from today",
			"date", model.ISODate(end))
	}
	return model.PreviousWeekday(end, w.weekday), ok, nil
}

// Run performs the walk.
func (w *Walker) Run(ctx context.Context) (Summary, error) {
	for _, dir := range []string{w.htmlDir, w.csvDir} {
		if err := fileutil.EnsureDir(dir); err != nil {
			return Summary{}, fmt.Errorf("%w: %w", cache.ErrCacheIO, err)
		}
	}

	landing, session, err := w.archive.FetchFormState(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load form state: %w", err)
	}
	w.logger.Debug("form state loaded", "fields", session.Len())

	anchor, detected, err := w.Anchor(landing)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Anchor: anchor, Cutoff: w.cutoff, EndDateDetected: detected}
	w.logger.Info("walking archive",
		"from", model.ISODate(anchor),
		"to", model.ISODate(w.cutoff),
		"step_days", w.step)

	for _, date := range Dates(anchor, w.cutoff, w.step) {
		select {
		case <-ctx.Done():
			w.logger.Warn("walk cancelled", "date", model.ISODate(date), "reason", ctx.Err())
			return summary, ctx.Err()
		default:
		}

		outcome, err := w.process(ctx, date, session)
		if err != nil {
			return summary, err
		}
		summary.add(outcome)
	}

	w.logger.Info("Reached end of the tunnel",
		"dates", summary.Dates,
		"extracted", summary.Extracted,
		"malformed", summary.Malformed)
	return summary, nil
}

// process handles one date. Extraction failures are recorded and swallowed.
func (w *Walker) process(ctx context.Context, date time.Time, session model.FormSession) (model.PageOutcome, error) {
	iso := model.ISODate(date)

	page, source, err := w.cache.FetchOrLoad(ctx, date, session, w.archive)
	if err != nil {
		return model.PageOutcome{}, fmt.Errorf("failed to load page for %s: %w", iso, err)
	}

	outcome := model.PageOutcome{Date: date, Source: source}

	res, err := w.extractor.Extract(page, date)
	switch {
	case errors.Is(err, extract.ErrMalformedPage):
		w.logger.Error("page has no payload tables, skipping",
			"date", iso,
			"tables", res.Tables,
			"error", err)
		outcome.Status = model.StatusMalformed
		outcome.Tables = res.Tables
	case err != nil:
		return model.PageOutcome{}, fmt.Errorf("failed to extract %s: %w", iso, err)
	default:
		path := filepath.Join(w.csvDir, iso+".csv")
		if err := dataset.WriteCSV(path, res.Records); err != nil {
			return model.PageOutcome{}, fmt.Errorf("%w: %w", cache.ErrCacheIO, err)
		}
		w.logger.Debug("records written", "date", iso, "path", path, "rows", res.Records.Len())
		outcome.Status = model.StatusExtracted
		outcome.Tables = res.Tables
		outcome.Records = res.Records.Len()
		outcome.Levels = res.Records.Levels()
	}

	if w.recorder != nil {
		if err := w.recorder.Record(ctx, outcome); err != nil {
			return model.PageOutcome{}, fmt.Errorf("failed to record %s: %w", iso, err)
		}
	}
	return outcome, nil
}

func (s *Summary) add(o model.PageOutcome) {
	s.Dates++
	switch o.Status {
	case model.StatusExtracted:
		s.Extracted++
	case model.StatusMalformed:
		s.Malformed++
	}
	switch o.Source {
	case model.SourceCache:
		s.FromCache++
	case model.SourceNetwork:
		s.FromNetwork++
	}
	s.Records += o.Records
}
