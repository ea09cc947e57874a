package filament

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// ShardedPool distributes buffer reuse across GOMAXPROCS shards to
// relieve sync.Pool and counter contention on high core counts.
//
// Design:
// - One shard per scheduler slot, selected by atomic round-robin
// - Shards padded to separate cache lines so counter updates on one
//   shard never false-share with a neighbor
// - Same retention policy as Pool (invalid discarded, oversized
//   hard-reset, retained buffers cleared)
//
// Prefer Pool unless profiles show contention on its inner sync.Pool
// or counters; a single Pool is smaller and its metrics are richer.
type ShardedPool struct {
	shards      []poolShard
	numShards   uint64
	cursor      atomic.Uint64
	maxRetained int
}

// poolShard is one sync.Pool plus its counters, padded so adjacent
// shards land on separate cache lines.
type poolShard struct {
	pool   sync.Pool
	gets   atomic.Int64
	misses atomic.Int64
	puts   atomic.Int64
	_      cpu.CacheLinePad
}

// NewShardedPool creates a sharded pool with one shard per GOMAXPROCS
// slot. cfg is interpreted exactly as NewPool interprets it.
func NewShardedPool(cfg PoolConfig) *ShardedPool {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	maxRetained := cfg.MaxRetainedCapacity
	if maxRetained == 0 {
		maxRetained = DefaultMaxRetainedCapacity
	}
	if maxRetained < InitialCapacity {
		maxRetained = InitialCapacity
	}
	sp := &ShardedPool{
		shards:      make([]poolShard, n),
		numShards:   uint64(n),
		maxRetained: maxRetained,
	}
	for i := range sp.shards {
		shard := &sp.shards[i]
		shard.pool.New = func() interface{} {
			shard.misses.Add(1)
			return New()
		}
	}
	return sp
}

// Get returns an empty, valid buffer from the next shard in
// round-robin order.
//
// Allocation behavior: 0 allocs/op on hit, 1 alloc/op on miss
func (sp *ShardedPool) Get() *Buffer {
	idx := sp.cursor.Add(1) % sp.numShards
	shard := &sp.shards[idx]
	shard.gets.Add(1)
	return shard.pool.Get().(*Buffer)
}

// Put returns b to the shard the cursor currently points at, keeping
// the shards evenly fed. Invalid buffers are discarded; retention
// follows Pool.Put.
//
// Allocation behavior: 0 allocs/op
func (sp *ShardedPool) Put(b *Buffer) {
	if b == nil || !b.IsValid() {
		return
	}
	idx := sp.cursor.Load() % sp.numShards
	shard := &sp.shards[idx]
	shard.puts.Add(1)
	if b.capacity() > sp.maxRetained {
		b.Reset()
	} else {
		b.Clear()
	}
	shard.pool.Put(b)
}

// Warmup pre-populates every shard with countPerShard buffers.
// Warmup allocations are recorded as misses on their shard.
//
// Example: Warmup(64) with 8 shards parks 512 buffers total.
func (sp *ShardedPool) Warmup(countPerShard int) {
	for i := range sp.shards {
		shard := &sp.shards[i]
		bufs := make([]*Buffer, 0, countPerShard)
		for j := 0; j < countPerShard; j++ {
			bufs = append(bufs, shard.pool.Get().(*Buffer))
		}
		for _, b := range bufs {
			shard.pool.Put(b)
		}
	}
}

// ShardedPoolStats reports shard traffic for monitoring.
type ShardedPoolStats struct {
	NumShards   int
	ShardGets   []int64 // Get calls served by each shard
	TotalGets   int64
	TotalMisses int64
	TotalPuts   int64
}

// Stats returns a snapshot of the shard counters. Lock-free and
// cheap, safe to call outside debugging paths.
func (sp *ShardedPool) Stats() ShardedPoolStats {
	stats := ShardedPoolStats{
		NumShards: int(sp.numShards),
		ShardGets: make([]int64, sp.numShards),
	}
	for i := range sp.shards {
		shard := &sp.shards[i]
		gets := shard.gets.Load()
		stats.ShardGets[i] = gets
		stats.TotalGets += gets
		stats.TotalMisses += shard.misses.Load()
		stats.TotalPuts += shard.puts.Load()
	}
	return stats
}
