package resource

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// Workers is the maximum number of concurrent shard reads or uploads.
	// If 0, defaults to GOMAXPROCS.
	Workers int64

	// UploadBytesPerSec caps upload throughput. If 0, unlimited.
	UploadBytesPerSec int64
}

// Controller hands out worker slots and upload bandwidth.
type Controller struct {
	cfg      Config
	workers  *semaphore.Weighted
	uploadRL *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.Workers <= 0 {
		cfg.Workers = int64(runtime.GOMAXPROCS(0))
	}

	c := &Controller{
		cfg:     cfg,
		workers: semaphore.NewWeighted(cfg.Workers),
	}
	if cfg.UploadBytesPerSec > 0 {
		c.uploadRL = rate.NewLimiter(rate.Limit(cfg.UploadBytesPerSec), int(min(cfg.UploadBytesPerSec, 1<<30)))
	}
	return c
}

// Workers returns the configured worker limit.
func (c *Controller) Workers() int64 {
	if c == nil {
		return int64(runtime.GOMAXPROCS(0))
	}
	return c.cfg.Workers
}

// Acquire reserves a worker slot, blocking until one is free or ctx is done.
func (c *Controller) Acquire(ctx context.Context) error {
	if c == nil {
		return ctx.Err()
	}
	return c.workers.Acquire(ctx, 1)
}

// TryAcquire reserves a worker slot without blocking.
func (c *Controller) TryAcquire() bool {
	if c == nil {
		return true
	}
	return c.workers.TryAcquire(1)
}

// Release returns a worker slot.
func (c *Controller) Release() {
	if c == nil {
		return
	}
	c.workers.Release(1)
}

// WaitUpload blocks until n bytes of upload budget are available.
func (c *Controller) WaitUpload(ctx context.Context, n int) error {
	if c == nil || c.uploadRL == nil || n <= 0 {
		return nil
	}
	burst := c.uploadRL.Burst()
	for n > 0 {
		chunk := min(n, burst)
		if err := c.uploadRL.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
