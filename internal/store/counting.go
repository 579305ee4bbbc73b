package store

import (
	"context"
	"sync/atomic"
)

// Counting wraps a Backend and counts reads and writes.
type Counting struct {
	Backend
	reads  atomic.Int64
	writes atomic.Int64
}

func NewCounting(b Backend) *Counting { return &Counting{Backend: b} }

func (c *Counting) Get(ctx context.Context, collection, id string) ([]byte, error) {
	c.reads.Add(1)
	return c.Backend.Get(ctx, collection, id)
}

func (c *Counting) Put(ctx context.Context, collection, id string, body []byte) error {
	c.writes.Add(1)
	return c.Backend.Put(ctx, collection, id, body)
}

func (c *Counting) Reads() int64  { return c.reads.Load() }
func (c *Counting) Writes() int64 { return c.writes.Load() }

// Reset clears the counters.
func (c *Counting) Reset() {
	c.reads.Store(0)
	c.writes.Store(0)
}
