package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"braindump/internal/notes"
	"braindump/internal/services"
)

const defaultListLimit = 20

// Entry is one recorded submission.
type Entry struct {
	ID          int64     `json:"id"`
	RequestID   string    `json:"request_id"`
	Text        string    `json:"text"`
	Tags        []string  `json:"tags"`
	AutoTagged  bool      `json:"auto_tagged"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Store persists submissions in SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "history", "open", "database path required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
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
func (s *Store) Path() string {
	return s.path
}

// Record stores a successful submission.
func (s *Store) Record(ctx context.Context, outcome notes.Outcome) error {
	requestID := outcome.RequestID
	if requestID == "" {
		if id, ok := services.RequestIDFromContext(ctx); ok {
			requestID = id
		} else {
			requestID = uuid.NewString()
		}
	}
	tags := outcome.Note.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions (request_id, text, tags_json, auto_tagged, submitted_at)
		 VALUES (?, ?, ?, ?, ?)`,
		requestID,
		outcome.Note.Text,
		string(tagsJSON),
		boolToInt(outcome.AutoTagged()),
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// List returns the most recent entries first. A non-positive limit uses
// the default page size.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, request_id, text, tags_json, auto_tagged, submitted_at
		 FROM submissions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return entries, nil
}

// Count returns the number of recorded submissions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM submissions").Scan(&count); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return count, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry       Entry
		tagsJSON    string
		autoTagged  int
		submittedAt string
	)
	if err := scanner.Scan(&entry.ID, &entry.RequestID, &entry.Text, &tagsJSON, &autoTagged, &submittedAt); err != nil {
		return Entry{}, fmt.Errorf("scan submission: %w", err)
	}
	if err := json.Unmarshal([]byte(tagsJSON), &entry.Tags); err != nil {
		return Entry{}, fmt.Errorf("decode tags for submission %d: %w", entry.ID, err)
	}
	entry.AutoTagged = autoTagged != 0
	ts, err := time.Parse(time.RFC3339Nano, submittedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse submitted_at for submission %d: %w", entry.ID, err)
	}
	entry.SubmittedAt = ts
	return entry, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
