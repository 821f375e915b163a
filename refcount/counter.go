package refcount

import (
	"math"
	"sync/atomic"
)

// Counter is an atomic reference counter starting at zero. The zero
// value is not usable; construct with New.
type Counter struct {
	n    atomic.Uint32
	drop func()
}

// New returns a Counter with count 0. drop, if non-nil, runs exactly
// once when a Decrement brings the count to 0.
func New(drop func()) *Counter {
	return &Counter{drop: drop}
}

// Load returns the current count. Intended for diagnostics and tests;
// the value may be stale by the time the caller observes it.
func (c *Counter) Load() uint32 {
	return c.n.Load()
}

// Increment adds one reference and returns the new count.
// It panics if the count would overflow.
func (c *Counter) Increment() uint32 {
	for {
		old := c.n.Load()
		if old == math.MaxUint32 {
			panic("refcount: reference count overflow")
		}
		if c.n.CompareAndSwap(old, old+1) {
			return old + 1
		}
	}
}

// Decrement removes one reference and returns the new count. It panics
// if the count is already 0. When the returned count is 0 the drop
// action has already run; the counter's owner must not be touched
// afterward. Only one Decrement can observe the terminal zero: the
// compare-and-swap from 1 to 0 succeeds for exactly one caller.
func (c *Counter) Decrement() uint32 {
	for {
		old := c.n.Load()
		if old == 0 {
			panic("refcount: reference count underflow")
		}
		if c.n.CompareAndSwap(old, old-1) {
			if old == 1 && c.drop != nil {
				c.drop()
			}
			return old - 1
		}
	}
}
