package xid

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStringIsUUID(t *testing.T) {
	a := NewString()
	b := NewString()

	_, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCounterStartsAboveSeedPerName(t *testing.T) {
	c := NewCounterFrom(1000)
	ctx := context.Background()

	first, err := c.Next(ctx, "inventory")
	require.NoError(t, err)
	second, _ := c.Next(ctx, "inventory")
	other, _ := c.Next(ctx, "customers")

	assert.Equal(t, int64(1001), first)
	assert.Equal(t, int64(1002), second)
	assert.Equal(t, int64(1001), other)
}

func TestCounterNeverRepeatsUnderConcurrency(t *testing.T) {
	c := NewCounterFrom(0)
	ctx := context.Background()

	const workers = 16
	const perWorker = 200

	var mu sync.Mutex
	seen := make(map[int64]struct{}, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id, _ := c.Next(ctx, "inventory")
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestCounterAdvanceNeverMovesBackwards(t *testing.T) {
	c := NewCounterFrom(1000)
	ctx := context.Background()

	require.NoError(t, c.Advance(ctx, "inventory", 5000))
	next, err := c.Next(ctx, "inventory")
	require.NoError(t, err)
	assert.Equal(t, int64(5001), next)

	require.NoError(t, c.Advance(ctx, "inventory", 10))
	next, _ = c.Next(ctx, "inventory")
	assert.Equal(t, int64(5002), next)

	// A floor below the seed leaves a fresh name at the seed.
	require.NoError(t, c.Advance(ctx, "customers", 3))
	next, _ = c.Next(ctx, "customers")
	assert.Equal(t, int64(1001), next)
}
