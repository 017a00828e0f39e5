package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callscribe-team/callscribe/internal/domain/entities"
)

func TestTryAcquireIsExclusive(t *testing.T) {
	store := NewMemoryProcessStore()
	ctx := context.Background()

	acquired, err := store.TryAcquire(ctx, "bot-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, acquired)

	again, err := store.TryAcquire(ctx, "bot-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	require.NoError(t, store.Release(ctx, "bot-1"))

	reacquired, err := store.TryAcquire(ctx, "bot-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, reacquired)
}

func TestTryAcquireConcurrentSingleWinner(t *testing.T) {
	store := NewMemoryProcessStore()
	ctx := context.Background()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.TryAcquire(ctx, "bot-race", time.Minute)
			assert.NoError(t, err)
			if ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestTryAcquireExpiredLockIsReacquirable(t *testing.T) {
	store := NewMemoryProcessStore()
	ctx := context.Background()

	acquired, err := store.TryAcquire(ctx, "bot-ttl", time.Millisecond)
	require.NoError(t, err)
	require.True(t, acquired)

	time.Sleep(5 * time.Millisecond)

	again, err := store.TryAcquire(ctx, "bot-ttl", time.Minute)
	require.NoError(t, err)
	assert.True(t, again)
}

func TestRecordLifecycle(t *testing.T) {
	store := NewMemoryProcessStore()
	ctx := context.Background()

	record, err := store.GetRecord(ctx, "bot-2")
	require.NoError(t, err)
	assert.Nil(t, record)

	put := entities.NewProcessRecord("bot-2", 1700000000000)
	require.NoError(t, store.PutRecord(ctx, put, time.Minute))

	got, err := store.GetRecord(ctx, "bot-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entities.ProcessStatusProcessing, got.Status)
	assert.Equal(t, int64(1700000000000), got.EventTimestamp)

	put.MarkCompleted()
	require.NoError(t, store.PutRecord(ctx, put, time.Minute))

	got, err = store.GetRecord(ctx, "bot-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entities.ProcessStatusCompleted, got.Status)

	require.NoError(t, store.DeleteRecord(ctx, "bot-2"))
	got, err = store.GetRecord(ctx, "bot-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordExpires(t *testing.T) {
	store := NewMemoryProcessStore()
	ctx := context.Background()

	require.NoError(t, store.PutRecord(ctx, entities.NewProcessRecord("bot-3", 0), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	got, err := store.GetRecord(ctx, "bot-3")
	require.NoError(t, err)
	assert.Nil(t, got)
}
