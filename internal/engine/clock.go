package engine

import "sync/atomic"

// Clock hands out invocation seq numbers. Seqs start at 1, never repeat
// and never go backwards, which is what traces and stored diagnostics
// are ordered by.
type Clock struct {
	last atomic.Int64
}

// NewClock returns a clock whose first seq is 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt returns a clock whose first seq is last+1.
func NewClockAt(last int64) *Clock {
	c := &Clock{}
	c.last.Store(last)
	return c
}

// Next stamps one invocation.
func (c *Clock) Next() int64 {
	return c.last.Add(1)
}

// Current is the last seq handed out, 0 before the first invocation.
func (c *Clock) Current() int64 {
	return c.last.Load()
}

// Advance moves the clock forward so the next seq is greater than seq.
// A seq at or below the current position is ignored.
func (c *Clock) Advance(seq int64) {
	for {
		cur := c.last.Load()
		if seq <= cur || c.last.CompareAndSwap(cur, seq) {
			return
		}
	}
}
