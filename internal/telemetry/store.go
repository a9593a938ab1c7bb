package telemetry

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	highlightEventsTable = "highlight_events"
	contentHashIndex     = "idx_highlight_events_content_hash"
)

// SessionStat is one recorded highlight pass.
type SessionStat struct {
	ContentHash  string
	Language     string
	BytesParsed  int
	SpansEmitted int
	CacheHit     bool
	Duration     time.Duration
	RecordedAt   time.Time
}

// ContentStats aggregates history for a single content hash.
type ContentStats struct {
	ContentHash  string
	Events       int
	CacheHits    int
	BytesParsed  int64
	SpansEmitted int64
}

// Store records highlighter session statistics keyed by a content hash of
// the buffer that was highlighted. Every RecordHighlight call stores its own
// event row; StatsForContent aggregates all rows sharing a content hash, so
// repeated highlighting of identical content (across sessions, across
// reopens) reads back as one history.
type Store struct {
	db      *sql.DB
	dialect Dialect
	schema  *SchemaBuilder
	query   *QueryBuilder
}

// Open opens a Store from a DSN. A DSN with no scheme, or scheme "sqlite"
// or "sqlite3", opens a sqlite file at the given path (or in-memory, for
// "" or ":memory:"); "postgres" or "postgresql" opens a postgres
// connection via the DSN as given.
func Open(ctx context.Context, dsn string) (*Store, error) {
	driver, dataSource, dialect, err := resolveDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dataSource)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", driver, err)
	}
	store, err := NewStore(ctx, db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func resolveDSN(dsn string) (driver, dataSource string, dialect Dialect, err error) {
	if dsn == "" || dsn == ":memory:" {
		return "sqlite", ":memory:", SQLiteDialect{}, nil
	}
	u, parseErr := url.Parse(dsn)
	if parseErr != nil {
		return "", "", nil, fmt.Errorf("telemetry: parse dsn: %w", parseErr)
	}
	switch u.Scheme {
	case "", "sqlite", "sqlite3", "file":
		path := dsn
		if u.Scheme != "" {
			switch {
			case u.Opaque != "":
				path = u.Opaque
			case u.Host != "":
				path = u.Host + u.Path
			default:
				path = u.Path
			}
		}
		return "sqlite", path, SQLiteDialect{}, nil
	case "postgres", "postgresql":
		return "postgres", dsn, PostgresDialect{}, nil
	default:
		return "", "", nil, fmt.Errorf("telemetry: unsupported dsn scheme %q", u.Scheme)
	}
}

// NewStore wraps an already-open *sql.DB, running schema setup.
func NewStore(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	schema := NewSchemaBuilder(db, dialect)
	if err := schema.RunInitStatements(ctx); err != nil {
		return nil, err
	}
	s := &Store{
		db:      db,
		dialect: dialect,
		schema:  schema,
		query:   NewQueryBuilder(db, dialect, highlightEventsTable),
	}
	if err := s.initSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	columns := []ColumnDef{
		{Name: "id", Type: "TEXT", PrimaryKey: true},
		{Name: "content_hash", Type: "TEXT", NotNull: true},
		{Name: "language", Type: "TEXT", NotNull: true},
		{Name: "bytes_parsed", Type: "INTEGER", NotNull: true},
		{Name: "spans_emitted", Type: "INTEGER", NotNull: true},
		{Name: "cache_hit", Type: "bool", NotNull: true},
		{Name: "duration_ms", Type: "INTEGER", NotNull: true},
		{Name: "created_at", Type: "timestamp", NotNull: true},
	}
	if err := s.schema.CreateTable(ctx, highlightEventsTable, columns); err != nil {
		return err
	}
	return s.schema.CreateIndex(ctx, highlightEventsTable, contentHashIndex, []string{"content_hash"}, false)
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// HashContent returns the content-address (hex-encoded SHA-256) for data.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// RecordHighlight records one highlighter pass against stat.ContentHash.
// Each call inserts a new event row; StatsForContent aggregates across all
// events recorded for a given content hash.
func (s *Store) RecordHighlight(ctx context.Context, stat SessionStat) error {
	recordedAt := stat.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	id := uuid.NewString()
	_, err := s.schema.Upsert(ctx, highlightEventsTable,
		[]string{"id", "content_hash", "language", "bytes_parsed", "spans_emitted", "cache_hit", "duration_ms", "created_at"},
		[]string{"id"},
		nil,
		id, stat.ContentHash, stat.Language, stat.BytesParsed, stat.SpansEmitted, stat.CacheHit, stat.Duration.Milliseconds(), recordedAt,
	)
	if err != nil {
		return fmt.Errorf("telemetry: record highlight: %w", err)
	}
	return nil
}

// StatsForContent aggregates every recorded event for contentHash.
func (s *Store) StatsForContent(ctx context.Context, contentHash string) (ContentStats, error) {
	rows, err := s.query.SelectWhere(ctx, []string{"bytes_parsed", "spans_emitted", "cache_hit"}, "content_hash", contentHash)
	if err != nil {
		return ContentStats{}, err
	}
	defer rows.Close()

	out := ContentStats{ContentHash: contentHash}
	for rows.Next() {
		var bytesParsed, spansEmitted int64
		var cacheHit bool
		if err := rows.Scan(&bytesParsed, &spansEmitted, &cacheHit); err != nil {
			return ContentStats{}, fmt.Errorf("telemetry: scan stats row: %w", err)
		}
		out.Events++
		out.BytesParsed += bytesParsed
		out.SpansEmitted += spansEmitted
		if cacheHit {
			out.CacheHits++
		}
	}
	if err := rows.Err(); err != nil {
		return ContentStats{}, fmt.Errorf("telemetry: iterate stats rows: %w", err)
	}
	return out, nil
}
