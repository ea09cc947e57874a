package filament

import "sync/atomic"

// poolCounters holds pool performance counters using lock-free atomic
// operations. Reads may observe slightly stale values, which is
// acceptable for metrics.
type poolCounters struct {
	gets     atomic.Int64 // Total Get calls
	puts     atomic.Int64 // Total Put calls
	misses   atomic.Int64 // Gets that constructed a new buffer
	discards atomic.Int64 // Puts rejected (buffer not valid)
	trims    atomic.Int64 // Puts that hard-reset an oversized buffer
}

// snapshot returns a point-in-time copy of the counters. Hits are
// derived as gets-misses: the pool's New func is the only place
// misses are recorded, so every remaining Get was a reuse.
func (c *poolCounters) snapshot() PoolMetrics {
	gets := c.gets.Load()
	misses := c.misses.Load()
	var hits int64
	if gets >= misses {
		hits = gets - misses
	}
	return PoolMetrics{
		Gets:     gets,
		Puts:     c.puts.Load(),
		Hits:     hits,
		Misses:   misses,
		Discards: c.discards.Load(),
		Trims:    c.trims.Load(),
	}
}

// reset zeroes all counters.
func (c *poolCounters) reset() {
	c.gets.Store(0)
	c.puts.Store(0)
	c.misses.Store(0)
	c.discards.Store(0)
	c.trims.Store(0)
}

// PoolMetrics is a point-in-time snapshot of a pool's counters.
// Values may not be perfectly consistent with each other under
// concurrent updates.
type PoolMetrics struct {
	Gets     int64 // Total Get/Acquire calls
	Puts     int64 // Total Put/Release calls
	Hits     int64 // Gets served by reuse (Gets - Misses)
	Misses   int64 // Gets that constructed a new buffer
	Discards int64 // Puts rejected because the buffer was not valid
	Trims    int64 // Puts that hard-reset an oversized buffer first
}

// HitRate returns the reuse rate as a percentage (0-100).
func (m PoolMetrics) HitRate() float64 {
	if m.Gets == 0 {
		return 0
	}
	return float64(m.Hits) / float64(m.Gets) * 100.0
}
