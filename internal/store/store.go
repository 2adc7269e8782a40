package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/CoderDill/chat-app-hedera/internal/keywords"
)

var (
	// ErrDuplicateKey signals an insert under an identifier that already exists.
	ErrDuplicateKey = errors.New("duplicate message id")
	// ErrStoreUnavailable signals that the backing store could not be reached.
	ErrStoreUnavailable = errors.New("index store unavailable")
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverBleve    = "bleve"
)

// IndexStore persists the keyword index of ingested messages.
// Records are append-only: there is no update or delete.
type IndexStore interface {
	// Connection management
	Close() error
	Ping(ctx context.Context) error
	Driver() string

	// Put inserts the keyword list for id. It returns ErrDuplicateKey if id
	// is already indexed.
	Put(ctx context.Context, id string, keywords []string) error

	// Query returns the ids of records matching terms. An empty term list
	// matches every record.
	Query(ctx context.Context, terms []string) ([]string, error)

	// Count returns the number of indexed records.
	Count(ctx context.Context) (int64, error)
}

// unavailable wraps a backend error so callers can test for ErrStoreUnavailable.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches the joined terms anywhere in a stored keyword string.
// LIKE metacharacters in the terms are escaped with a backslash.
func likePattern(terms []string) string {
	return "%" + likeEscaper.Replace(keywords.Join(terms)) + "%"
}

// RedisClient returns the Redis client behind s, or nil when s is not backed
// by Redis.
func RedisClient(s IndexStore) *redis.Client {
	for {
		switch v := s.(type) {
		case *RedisStore:
			return v.Client()
		case interface{ Unwrap() IndexStore }:
			s = v.Unwrap()
		default:
			return nil
		}
	}
}
