package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"castpipe/internal/config"
	"castpipe/internal/language"
)

// Store manages content record persistence backed by SQLite. Each row update
// is its own atomic operation; the pipeline never assumes cross-row
// transactions.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the content database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.ContentDir, "content.db")
	// Pragmas go in the DSN so modernc.org/sqlite applies them to every
	// pooled connection, not just the one that ran a PRAGMA statement.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

const recordColumns = "id, language, category, status, title, body, audio_file_path, streaming_m3u8, streaming_remote, content_url, review_decision, created_at, updated_at"

// Create inserts a new content row at draft.
func (s *Store) Create(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("record is nil")
	}
	if rec.ID == "" {
		return errors.New("record id required")
	}
	if rec.Status == "" {
		rec.Status = StatusDraft
	}
	if rec.ReviewDecision == "" {
		rec.ReviewDecision = DecisionPending
	}
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	timestamp := now.Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO content_records (`+recordColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		string(rec.Language),
		string(rec.Category),
		string(rec.Status),
		nullableString(rec.Title),
		nullableString(rec.Body),
		nullableString(rec.AudioFilePath),
		nullableString(rec.Streaming.M3U8),
		nullableString(rec.Streaming.Remote),
		nullableString(rec.ContentURL),
		string(rec.ReviewDecision),
		timestamp,
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert content record: %w", err)
	}
	return nil
}

// Get fetches one (id, language) row. It returns (nil, nil) when the row
// does not exist.
func (s *Store) Get(ctx context.Context, id string, lang language.Code) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM content_records WHERE id = ? AND language = ?`,
		id, string(lang),
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get content record: %w", err)
	}
	return rec, nil
}

// GetSource fetches the source-language row for a content id.
func (s *Store) GetSource(ctx context.Context, id string) (*Record, error) {
	return s.Get(ctx, id, language.Source())
}

// Update persists the full row. The (id, language) key is immutable.
func (s *Store) Update(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("record is nil")
	}
	rec.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE content_records
         SET category = ?, status = ?, title = ?, body = ?, audio_file_path = ?,
             streaming_m3u8 = ?, streaming_remote = ?, content_url = ?,
             review_decision = ?, updated_at = ?
         WHERE id = ? AND language = ?`,
		string(rec.Category),
		string(rec.Status),
		nullableString(rec.Title),
		nullableString(rec.Body),
		nullableString(rec.AudioFilePath),
		nullableString(rec.Streaming.M3U8),
		nullableString(rec.Streaming.Remote),
		nullableString(rec.ContentURL),
		string(rec.ReviewDecision),
		rec.UpdatedAt.Format(time.RFC3339Nano),
		rec.ID,
		string(rec.Language),
	)
	if err != nil {
		return fmt.Errorf("update content record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update content record: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update content record: no row for (%s, %s)", rec.ID, rec.Language)
	}
	return nil
}

// ListByID returns every language row for a content id, source first.
func (s *Store) ListByID(ctx context.Context, id string) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM content_records WHERE id = ? ORDER BY language`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("list by id: %w", err)
	}
	defer rows.Close()
	records, err := collectRecords(rows)
	if err != nil {
		return nil, err
	}
	// Source row leads regardless of collation.
	for i, rec := range records {
		if rec.IsSource() && i != 0 {
			records[0], records[i] = records[i], records[0]
			break
		}
	}
	return records, nil
}

// ListByStatus returns source-language rows matching any of the given
// statuses, ordered by creation time.
func (s *Store) ListByStatus(ctx context.Context, statuses ...Status) ([]*Record, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := ""
	args := make([]any, 0, len(statuses)+1)
	for i, status := range statuses {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
		args = append(args, string(status))
	}
	args = append(args, string(language.Source()))
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM content_records
         WHERE status IN (`+placeholders+`) AND language = ?
         ORDER BY created_at`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list by status: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListPending returns source-language rows eligible for pipeline processing:
// rows already mid-pipeline (past draft, not yet published) plus draft rows
// whose review decision is accepted. A draft row with a pending or rejected
// decision is never selected.
func (s *Store) ListPending(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM content_records
         WHERE language = ?
           AND ((status NOT IN (?, ?)) OR (status = ? AND review_decision = ?))
         ORDER BY created_at`,
		string(language.Source()),
		string(StatusDraft),
		string(StatusPublished),
		string(StatusDraft),
		string(DecisionAccepted),
	)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// Stats returns source-row counts per status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(1) FROM content_records WHERE language = ? GROUP BY status`,
		string(language.Source()),
	)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var statusStr string
		var count int
		if err := rows.Scan(&statusStr, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		if status, ok := ParseStatus(statusStr); ok {
			stats[status] = count
		}
	}
	return stats, rows.Err()
}
