package forkjoin

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForkRunsStolenWorkConcurrently(t *testing.T) {
	pool := NewPool(4)
	var ran atomic.Bool

	fut, stolen := pool.Fork(func() error {
		ran.Store(true)
		return nil
	})
	require.True(t, stolen)
	require.NoError(t, fut.Wait())
	require.True(t, ran.Load())
}

func TestForkRunsInlineWhenSaturated(t *testing.T) {
	pool := NewPool(1)
	require.True(t, pool.TryAcquire())

	var ranBeforeReturn atomic.Bool
	fut, stolen := pool.Fork(func() error {
		ranBeforeReturn.Store(true)
		return nil
	})
	require.False(t, stolen)
	require.True(t, ranBeforeReturn.Load(), "inline fork must complete before Fork returns")
	require.NoError(t, fut.Wait())

	pool.Release()
}

func TestAcquireSucceedsAfterRelease(t *testing.T) {
	pool := NewPool(1)
	require.True(t, pool.TryAcquire())
	pool.Release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, pool.Acquire(ctx))
	pool.Release()
}
