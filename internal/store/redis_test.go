package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStore(t *testing.T) {
	s, _ := newTestRedisStore(t)
	assert.Equal(t, DriverRedis, s.Driver())
	require.NoError(t, s.Ping(context.Background()))
	runIndexStoreSuite(t, s, storeCase{mode: tokenSetMatch, ordered: true})
}

func TestRedisStoreLayout(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "msg-1", []string{"ping", "ping", "Sample"}))

	stored, err := mr.Get(messageKey("msg-1"))
	require.NoError(t, err)
	assert.Equal(t, "ping,ping,Sample", stored)

	members, err := mr.ZMembers(keywordKey("ping"))
	require.NoError(t, err)
	assert.Equal(t, []string{"msg-1"}, members)

	// scratch keys from intersections are cleaned up
	_, err = s.Query(ctx, []string{"ping", "Sample"})
	require.NoError(t, err)
	for _, key := range mr.Keys() {
		assert.NotContains(t, key, "chat:search:tmp:")
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	s, mr := newTestRedisStore(t)
	mr.Close()

	ctx := context.Background()
	assert.ErrorIs(t, s.Put(ctx, "msg-1", []string{"hello"}), ErrStoreUnavailable)
	_, err := s.Query(ctx, []string{"hello"})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestNewRedisStoreBadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not-a-url")
	assert.Error(t, err)
}

func TestRedisStorePutFailureLeavesNoState(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(sequenceKey, "not-a-number"))

	err := s.Put(ctx, "msg-1", []string{"hello", "world"})
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.False(t, mr.Exists(messageKey("msg-1")))
	assert.False(t, mr.Exists(keywordKey("hello")))
	assert.False(t, mr.Exists(allMessagesKey))

	mr.Del(sequenceKey)
	require.NoError(t, s.Put(ctx, "msg-1", []string{"hello", "world"}))

	ids, err := s.Query(ctx, []string{"hello"})
	require.NoError(t, err)
	assert.Equal(t, []string{"msg-1"}, ids)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRedisClient(t *testing.T) {
	s, _ := newTestRedisStore(t)
	assert.Same(t, s.Client(), RedisClient(s))
	assert.Same(t, s.Client(), RedisClient(Instrument(s)))

	sq, err := NewSQLiteStore(context.Background(), ":memory:")
	require.NoError(t, err)
	defer sq.Close()
	assert.Nil(t, RedisClient(Instrument(sq)))
}
