package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/jsonlscan/internal/model"
)

// FileName is the database file name inside the database directory.
const FileName = "jsonlscan.db"

// HistoryDB stores analysis summaries.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// With CreateIfNotExists unset, a missing database is an error.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		digest TEXT,
		schema_fingerprint TEXT,
		rows_seen INTEGER NOT NULL,
		rows_parsed INTEGER NOT NULL,
		failed_lines INTEGER NOT NULL,
		unique_keys INTEGER NOT NULL,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_source ON analyses(source);
	CREATE INDEX IF NOT EXISTS idx_analyses_timestamp ON analyses(timestamp);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// Analysis is a stored summary.
type Analysis struct {
	// ID is the row id in the database.
	ID int64

	// Source identifies the analyzed input, usually its absolute path.
	Source string

	// Timestamp is when the analysis was saved (UTC).
	Timestamp time.Time

	// Summary is the decoded summary.
	Summary *model.Summary
}

// AnalysisMetadata describes a stored analysis without its summary.
type AnalysisMetadata struct {
	ID                int64
	Source            string
	Timestamp         time.Time
	Digest            string
	SchemaFingerprint string
	RowsSeen          int
	RowsParsed        int
	FailedLines       int
	UniqueKeys        int
}

// SaveAnalysis stores summary under source and returns the new id.
func (h *HistoryDB) SaveAnalysis(ctx context.Context, source string, summary *model.Summary) (int64, error) {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}

	query := `
	INSERT INTO analyses (source, digest, schema_fingerprint, rows_seen, rows_parsed, failed_lines, unique_keys, summary_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := h.db.ExecContext(ctx, query,
		source,
		summary.Digest,
		summary.SchemaFingerprint,
		summary.RowsSeen,
		summary.RowsParsed,
		summary.FailedLines,
		summary.UniqueKeyCount(),
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save analysis: %w", err)
	}

	return res.LastInsertId()
}

// RecentAnalyses returns up to limit analyses of source, newest first.
func (h *HistoryDB) RecentAnalyses(ctx context.Context, source string, limit int) ([]*Analysis, error) {
	query := `
	SELECT id, source, timestamp, summary_json FROM analyses
	WHERE source = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT ?
	`

	rows, err := h.db.QueryContext(ctx, query, source, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get analyses: %w", err)
	}
	defer rows.Close()

	var analyses []*Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}

	return analyses, rows.Err()
}

// LatestAnalysis returns the newest analysis of source, or nil when none
// is stored.
func (h *HistoryDB) LatestAnalysis(ctx context.Context, source string) (*Analysis, error) {
	analyses, err := h.RecentAnalyses(ctx, source, 1)
	if err != nil {
		return nil, err
	}
	if len(analyses) == 0 {
		return nil, nil
	}
	return analyses[0], nil
}

// AnalysisByID returns the analysis with the given id, or nil when it does
// not exist.
func (h *HistoryDB) AnalysisByID(ctx context.Context, id int64) (*Analysis, error) {
	query := `
	SELECT id, source, timestamp, summary_json FROM analyses
	WHERE id = ?
	`

	a, err := scanAnalysis(h.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListSources returns every source with stored analyses, sorted.
func (h *HistoryDB) ListSources(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT source FROM analyses
	ORDER BY source
	`

	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// History returns metadata for every analysis of source, newest first.
func (h *HistoryDB) History(ctx context.Context, source string) ([]AnalysisMetadata, error) {
	query := `
	SELECT id, source, timestamp, digest, schema_fingerprint, rows_seen, rows_parsed, failed_lines, unique_keys
	FROM analyses
	WHERE source = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := h.db.QueryContext(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []AnalysisMetadata
	for rows.Next() {
		var (
			meta        AnalysisMetadata
			timestamp   string
			digest      sql.NullString
			fingerprint sql.NullString
		)

		if err := rows.Scan(&meta.ID, &meta.Source, &timestamp, &digest, &fingerprint,
			&meta.RowsSeen, &meta.RowsParsed, &meta.FailedLines, &meta.UniqueKeys); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		meta.Digest = digest.String
		meta.SchemaFingerprint = fingerprint.String
		results = append(results, meta)
	}

	return results, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*Analysis, error) {
	var (
		a           Analysis
		timestamp   string
		summaryJSON string
	)

	if err := row.Scan(&a.ID, &a.Source, &timestamp, &summaryJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan analysis: %w", err)
	}

	var summary model.Summary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary %d: %w", a.ID, err)
	}

	a.Timestamp = parseTimestamp(timestamp)
	a.Summary = &summary
	return &a, nil
}

// timestampFormats are the formats SQLite may return, most specific first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp returns the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
