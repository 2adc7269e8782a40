package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBleveStoreInMemory(t *testing.T) {
	s, err := NewBleveStore("")
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, DriverBleve, s.Driver())
	require.NoError(t, s.Ping(context.Background()))
	runIndexStoreSuite(t, s, storeCase{mode: tokenSetMatch, ordered: true})
}

func TestBleveStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.bleve")

	s, err := NewBleveStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "msg-1", []string{"hello", "world"}))
	require.NoError(t, s.Close())

	s, err = NewBleveStore(path)
	require.NoError(t, err)
	defer s.Close()

	assert.ErrorIs(t, s.Put(ctx, "msg-1", []string{"again"}), ErrDuplicateKey)
	require.NoError(t, s.Put(ctx, "msg-2", []string{"world"}))

	ids, err := s.Query(ctx, []string{"world"})
	require.NoError(t, err)
	assert.Equal(t, []string{"msg-1", "msg-2"}, ids)
}

func TestBleveStoreQueryDuringWrites(t *testing.T) {
	s, err := NewBleveStore("")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	const total = 50
	order := make([]string, total)
	for i := range order {
		order[i] = fmt.Sprintf("msg-%02d", i)
	}

	done := make(chan error, 1)
	go func() {
		for _, id := range order {
			if err := s.Put(ctx, id, []string{"shared"}); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	// Every snapshot is exactly the ids written so far, in write order.
	for finished := false; !finished; {
		select {
		case err := <-done:
			require.NoError(t, err)
			finished = true
		default:
		}
		ids, err := s.Query(ctx, []string{"shared"})
		require.NoError(t, err)
		require.LessOrEqual(t, len(ids), total)
		assert.Equal(t, order[:len(ids)], ids)
	}

	ids, err := s.Query(ctx, []string{"shared"})
	require.NoError(t, err)
	assert.Equal(t, order, ids)
}
