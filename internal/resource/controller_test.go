package resource

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Workers(t *testing.T) {
	c := NewController(Config{Workers: 2})
	assert.Equal(t, int64(2), c.Workers())

	require.NoError(t, c.Acquire(context.Background()))
	require.NoError(t, c.Acquire(context.Background()))
	assert.False(t, c.TryAcquire())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Acquire(ctx), context.DeadlineExceeded)

	c.Release()
	assert.True(t, c.TryAcquire())
}

func TestController_DefaultWorkers(t *testing.T) {
	c := NewController(Config{})
	assert.Positive(t, c.Workers())
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	require.NoError(t, c.Acquire(context.Background()))
	assert.True(t, c.TryAcquire())
	c.Release()
	require.NoError(t, c.WaitUpload(context.Background(), 1<<20))
	assert.Positive(t, c.Workers())
}

func TestController_UploadLimit(t *testing.T) {
	c := NewController(Config{UploadBytesPerSec: 1000})

	// The initial burst covers one second of budget.
	require.NoError(t, c.WaitUpload(context.Background(), 1000))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.WaitUpload(ctx, 1000))
}

func TestThrottledWriter(t *testing.T) {
	var buf bytes.Buffer
	c := NewController(Config{UploadBytesPerSec: 1 << 20})
	w := NewThrottledWriter(context.Background(), &buf, c)

	n, err := w.Write([]byte("PF00001.1: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 13, n)
	assert.Equal(t, "PF00001.1: 0\n", buf.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	slow := NewThrottledWriter(ctx, &buf, NewController(Config{UploadBytesPerSec: 1}))
	_, err = slow.Write([]byte("xx"))
	assert.Error(t, err)
}
