package store

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/CoderDill/chat-app-hedera/internal/keywords"
)

const (
	allMessagesKey = "chat:messages"
	sequenceKey    = "chat:messages:seq"
)

// RedisStore indexes messages in Redis sorted sets, one per keyword.
// Matching is token-set membership: a record matches when it carries every
// query term.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, unavailable("redis ping", err)
	}

	return &RedisStore{client: client}, nil
}

// Client exposes the underlying client, shared with the rate limiter.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Driver returns the driver name.
func (s *RedisStore) Driver() string {
	return DriverRedis
}

// messageKey returns the key holding a message's joined keywords.
func messageKey(id string) string {
	return fmt.Sprintf("chat:message:%s", id)
}

// keywordKey returns the key for a keyword's sorted set of message ids.
func keywordKey(word string) string {
	return fmt.Sprintf("chat:keyword:%s", word)
}

// putScript inserts a message atomically. The sequence is taken before any
// write so a failing INCR leaves no trace, and the message key is written
// last so an interrupted insert can be retried under the same id.
//
// KEYS: message key, sequence key, all-messages set, keyword sets...
// ARGV: id, joined keywords
var putScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
local seq = redis.call('INCR', KEYS[2])
for i = 3, #KEYS do
	redis.call('ZADD', KEYS[i], seq, ARGV[1])
end
redis.call('SET', KEYS[1], ARGV[2])
return 1
`)

// Put indexes a message under each of its keywords.
func (s *RedisStore) Put(ctx context.Context, id string, kws []string) error {
	words := dedupe(kws)
	keys := make([]string, 0, 3+len(words))
	keys = append(keys, messageKey(id), sequenceKey, allMessagesKey)
	for _, word := range words {
		keys = append(keys, keywordKey(word))
	}

	created, err := putScript.Run(ctx, s.client, keys, id, keywords.Join(kws)).Int()
	if err != nil {
		return unavailable("redis put", err)
	}
	if created == 0 {
		return ErrDuplicateKey
	}
	return nil
}

// Query returns ids indexed under every term, oldest first.
func (s *RedisStore) Query(ctx context.Context, terms []string) ([]string, error) {
	words := dedupe(terms)

	var (
		ids []string
		err error
	)
	switch len(words) {
	case 0:
		ids, err = s.client.ZRange(ctx, allMessagesKey, 0, -1).Result()
	case 1:
		ids, err = s.client.ZRange(ctx, keywordKey(words[0]), 0, -1).Result()
	default:
		ids, err = s.intersect(ctx, words)
	}
	if err != nil {
		return nil, unavailable("redis query", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// intersect runs ZINTERSTORE into a scratch key inside one transaction.
func (s *RedisStore) intersect(ctx context.Context, words []string) ([]string, error) {
	keys := make([]string, len(words))
	for i, w := range words {
		keys[i] = keywordKey(w)
	}
	tempKey := "chat:search:tmp:" + ulid.Make().String()

	var rangeCmd *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZInterStore(ctx, tempKey, &redis.ZStore{
			Keys:      keys,
			Aggregate: "MIN",
		})
		rangeCmd = pipe.ZRange(ctx, tempKey, 0, -1)
		pipe.Del(ctx, tempKey)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rangeCmd.Val(), nil
}

// Count returns the total number of indexed messages.
func (s *RedisStore) Count(ctx context.Context) (int64, error) {
	n, err := s.client.ZCard(ctx, allMessagesKey).Result()
	if err != nil {
		return 0, unavailable("redis count", err)
	}
	return n, nil
}

// dedupe drops repeated words, keeping first occurrences.
func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	result := make([]string, 0, len(words))
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		result = append(result, w)
	}
	return result
}
