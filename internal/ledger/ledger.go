package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pmjdystats/pmjdy/internal/model"
)

// FileName is the database file created inside the ledger directory.
const FileName = "ledger.db"

// Ledger stores one row per archive date.
type Ledger struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Options configures Ledger behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables write-ahead logging.
	EnableWAL bool
}

// DefaultOptions returns the options used by the harvest command.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the ledger in dir.
func Open(dir string, opts Options) (*Ledger, error) {
	dbPath := filepath.Join(dir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("ledger not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check ledger path: %w", err)
		}
	} else if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	l := &Ledger{db: db, dbPath: dbPath, now: time.Now}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := l.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return l, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Path returns the database file path.
func (l *Ledger) Path() string {
	return l.dbPath
}

func (l *Ledger) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		date TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		source TEXT NOT NULL,
		tables INTEGER NOT NULL DEFAULT 0,
		records INTEGER NOT NULL DEFAULT 0,
		levels TEXT NOT NULL DEFAULT '[]',
		updated_at TEXT NOT NULL,
		fetched_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_pages_status ON pages(status);
	`
	_, err := l.db.ExecContext(context.Background(), schema)
	return err
}

// Record stores the outcome for one date, replacing any earlier outcome.
// A zero UpdatedAt is set to the current time. The first fetch time is
// kept across later cache hits: a network outcome without FetchedAt is
// stamped with UpdatedAt, and an existing fetched_at is never replaced.
func (l *Ledger) Record(ctx context.Context, outcome model.PageOutcome) error {
	levels := outcome.Levels
	if levels == nil {
		levels = []string{}
	}
	levelsJSON, err := json.Marshal(levels)
	if err != nil {
		return fmt.Errorf("failed to serialize levels: %w", err)
	}

	updated := outcome.UpdatedAt
	if updated.IsZero() {
		updated = l.now()
	}

	var fetched sql.NullString
	switch {
	case !outcome.FetchedAt.IsZero():
		fetched = sql.NullString{String: outcome.FetchedAt.UTC().Format(time.RFC3339), Valid: true}
	case outcome.Source == model.SourceNetwork:
		fetched = sql.NullString{String: updated.UTC().Format(time.RFC3339), Valid: true}
	}

	query := `
	INSERT INTO pages (date, status, source, tables, records, levels, updated_at, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(date) DO UPDATE SET
		status = excluded.status,
		source = excluded.source,
		tables = excluded.tables,
		records = excluded.records,
		levels = excluded.levels,
		updated_at = excluded.updated_at,
		fetched_at = COALESCE(pages.fetched_at, excluded.fetched_at)
	`
	_, err = l.db.ExecContext(ctx, query,
		model.ISODate(outcome.Date),
		string(outcome.Status),
		string(outcome.Source),
		outcome.Tables,
		outcome.Records,
		string(levelsJSON),
		updated.UTC().Format(time.RFC3339),
		fetched,
	)
	if err != nil {
		return fmt.Errorf("failed to record page outcome: %w", err)
	}
	return nil
}

// Get returns the outcome recorded for date, or nil if there is none.
func (l *Ledger) Get(ctx context.Context, date time.Time) (*model.PageOutcome, error) {
	query := `
	SELECT date, status, source, tables, records, levels, updated_at, fetched_at
	FROM pages
	WHERE date = ?
	`
	outcome, err := scanOutcome(l.db.QueryRowContext(ctx, query, model.ISODate(date)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page outcome: %w", err)
	}
	return &outcome, nil
}

// List returns every recorded outcome, newest date first. A non-empty
// status restricts the result to that status.
func (l *Ledger) List(ctx context.Context, status model.PageStatus) ([]model.PageOutcome, error) {
	query := `
	SELECT date, status, source, tables, records, levels, updated_at, fetched_at
	FROM pages
	WHERE 1=1
	`
	args := make([]any, 0)
	if status != "" {
		query += " AND status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY date DESC"

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list page outcomes: %w", err)
	}
	defer rows.Close()

	results := make([]model.PageOutcome, 0)
	for rows.Next() {
		outcome, err := scanOutcome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page outcome: %w", err)
		}
		results = append(results, outcome)
	}
	return results, rows.Err()
}

// Totals summarizes the ledger.
type Totals struct {
	Pages       int
	Extracted   int
	Malformed   int
	FromCache   int
	FromNetwork int
	Records     int

	// Oldest and Newest span the recorded dates. Both are zero when the
	// ledger is empty.
	Oldest time.Time
	Newest time.Time
}

// Totals counts recorded outcomes by status and source.
func (l *Ledger) Totals(ctx context.Context) (Totals, error) {
	query := `
	SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN source = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN source = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(records), 0),
		COALESCE(MIN(date), ''),
		COALESCE(MAX(date), '')
	FROM pages
	`
	var (
		t              Totals
		oldest, newest string
	)
	err := l.db.QueryRowContext(ctx, query,
		string(model.StatusExtracted),
		string(model.StatusMalformed),
		string(model.SourceCache),
		string(model.SourceNetwork),
	).Scan(&t.Pages, &t.Extracted, &t.Malformed, &t.FromCache, &t.FromNetwork, &t.Records, &oldest, &newest)
	if err != nil {
		return Totals{}, fmt.Errorf("failed to count page outcomes: %w", err)
	}
	if oldest != "" {
		t.Oldest, _ = model.ParseISODate(oldest) //nolint:errcheck // dates are written by Record
		t.Newest, _ = model.ParseISODate(newest) //nolint:errcheck // dates are written by Record
	}
	return t, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOutcome(row rowScanner) (model.PageOutcome, error) {
	var (
		o                    model.PageOutcome
		date, status, source string
		levelsJSON, updated  string
		fetched              sql.NullString
	)
	if err := row.Scan(&date, &status, &source, &o.Tables, &o.Records, &levelsJSON, &updated, &fetched); err != nil {
		return model.PageOutcome{}, err
	}

	d, err := model.ParseISODate(date)
	if err != nil {
		return model.PageOutcome{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	o.Date = d
	o.Status = model.PageStatus(status)
	o.Source = model.PageSource(source)
	if err := json.Unmarshal([]byte(levelsJSON), &o.Levels); err != nil {
		return model.PageOutcome{}, fmt.Errorf("failed to parse levels: %w", err)
	}
	o.UpdatedAt = parseTimestamp(updated)
	if fetched.Valid {
		o.FetchedAt = parseTimestamp(fetched.String)
	}
	return o, nil
}

// timestampFormats lists the layouts updated_at may be stored in. Rows
// written by Record use RFC 3339; the others cover rows edited by hand
// with SQLite's datetime().
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
