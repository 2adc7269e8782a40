package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CoderDill/chat-app-hedera/internal/keywords"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// PostgresStore handles PostgreSQL database operations.
// Matching follows the same substring semantics as SQLiteStore.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
// The schema is expected to exist; see RunMigrations.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, unavailable("postgres ping", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Driver returns the driver name.
func (s *PostgresStore) Driver() string {
	return DriverPostgres
}

// Put inserts a new keyword row.
func (s *PostgresStore) Put(ctx context.Context, id string, kws []string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO messages (id, keywords) VALUES ($1, $2)
	`, id, keywords.Join(kws))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateKey
		}
		return unavailable("postgres insert", err)
	}
	return nil
}

// Query returns ids whose keyword string contains the joined terms,
// case-insensitively, oldest first.
func (s *PostgresStore) Query(ctx context.Context, terms []string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id FROM messages
		WHERE keywords ILIKE $1 ESCAPE '\'
		ORDER BY seq
	`, likePattern(terms))
	if err != nil {
		return nil, unavailable("postgres query", err)
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
		return nil, unavailable("postgres query", err)
	}

	return ids, nil
}

// Count returns the total number of indexed messages.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	if err != nil {
		return 0, unavailable("postgres count", err)
	}
	return count, nil
}
