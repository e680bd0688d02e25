package closer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseRunsInLIFOOrder(t *testing.T) {
	c := NewCloser(time.Second)

	var order []string
	c.Add("first", func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	})
	c.Add("second", func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestCloseReportsResourceName(t *testing.T) {
	c := NewCloser(time.Second)

	c.Add("redis client", func(ctx context.Context) error {
		return errors.New("connection already closed")
	})

	err := c.Close(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis client")
	assert.Contains(t, err.Error(), "connection already closed")
}

func TestCloseIsIdempotent(t *testing.T) {
	c := NewCloser(time.Second)

	var calls int32
	c.Add("counter", func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCloseForcesRemainingOnContextCancel(t *testing.T) {
	c := NewCloser(time.Second)

	c.Add("slow resource", func(ctx context.Context) error {
		time.Sleep(100 * time.Millisecond)
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Close(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown interrupted")
}
