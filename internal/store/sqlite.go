package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/CoderDill/chat-app-hedera/internal/keywords"
)

// SQLiteStore handles SQLite database operations.
// Matching follows the legacy substring semantics: a record matches when its
// joined keyword string contains the joined query terms.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./chat_history.db"
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./chat_history.db"
	}

	dsn := ":memory:"
	if dbPath != ":memory:" {
		// Ensure directory exists
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		dsn = dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		// every connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, unavailable("sqlite ping", err)
	}

	store := &SQLiteStore{db: db}

	// Initialize schema
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		keywords TEXT NOT NULL
	);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Driver returns the driver name.
func (s *SQLiteStore) Driver() string {
	return DriverSQLite
}

// Put inserts a new keyword row.
func (s *SQLiteStore) Put(ctx context.Context, id string, kws []string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, keywords) VALUES (?, ?)
	`, id, keywords.Join(kws))
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) &&
			(sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
				sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique) {
			return ErrDuplicateKey
		}
		return unavailable("sqlite insert", err)
	}
	return nil
}

// Query returns ids whose keyword string contains the joined terms. Matching
// uses LIKE, so ASCII letters compare case-insensitively.
func (s *SQLiteStore) Query(ctx context.Context, terms []string) ([]string, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if len(terms) == 0 {
		rows, err = s.db.QueryContext(ctx, `SELECT id FROM messages ORDER BY rowid`)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id FROM messages
			WHERE keywords LIKE ? ESCAPE '\'
			ORDER BY rowid
		`, likePattern(terms))
	}
	if err != nil {
		return nil, unavailable("sqlite query", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("sqlite query", err)
	}

	return ids, nil
}

// Count returns the total number of indexed messages.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	if err != nil {
		return 0, unavailable("sqlite count", err)
	}
	return count, nil
}
