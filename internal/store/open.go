package store

import (
	"context"
	"fmt"
	"time"

	"github.com/CoderDill/chat-app-hedera/internal/metrics"
)

// Options selects and configures an index store backend.
type Options struct {
	Driver      string
	SQLitePath  string
	BlevePath   string
	DatabaseURL string
	RedisURL    string
}

// Open constructs the backend named by opts.Driver, wrapped with latency
// metrics. PostgreSQL migrations are not applied here; see RunMigrations.
func Open(ctx context.Context, opts Options) (IndexStore, error) {
	var (
		s   IndexStore
		err error
	)
	switch opts.Driver {
	case DriverSQLite, "":
		s, err = NewSQLiteStore(ctx, opts.SQLitePath)
	case DriverPostgres:
		s, err = NewPostgresStore(ctx, opts.DatabaseURL)
	case DriverRedis:
		s, err = NewRedisStore(ctx, opts.RedisURL)
	case DriverBleve:
		s, err = NewBleveStore(opts.BlevePath)
	default:
		return nil, fmt.Errorf("unknown index driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s), nil
}

// Instrument records per-operation latency of s.
func Instrument(s IndexStore) IndexStore {
	return &instrumented{IndexStore: s}
}

type instrumented struct {
	IndexStore
}

func (s *instrumented) observe(op string, start time.Time) {
	metrics.IndexStoreLatency.WithLabelValues(s.Driver(), op).Observe(time.Since(start).Seconds())
}

func (s *instrumented) Put(ctx context.Context, id string, kws []string) error {
	defer s.observe("put", time.Now())
	return s.IndexStore.Put(ctx, id, kws)
}

func (s *instrumented) Query(ctx context.Context, terms []string) ([]string, error) {
	defer s.observe("query", time.Now())
	return s.IndexStore.Query(ctx, terms)
}

func (s *instrumented) Count(ctx context.Context) (int64, error) {
	defer s.observe("count", time.Now())
	return s.IndexStore.Count(ctx)
}

// Unwrap returns the instrumented store.
func (s *instrumented) Unwrap() IndexStore {
	return s.IndexStore
}
