// Package pool provides object pooling for windrose's hot read path.
// It offers a generic type-safe Pool[T] over sync.Pool with usage
// statistics, and a size-bucketed byte buffer pool that the chunk reader
// draws its raw read buffers from, keeping the aggregation loop free of
// per-iteration allocations.
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// It wraps sync.Pool with statistics tracking and automatic reset.
// The pool is safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	new   func() T
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
	}
}

// New creates a new typed pool with custom allocation and reset functions.
// The reset function, if non-nil, is called before an object is returned
// to the pool.
func New[T any](newFn func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{
		new:   newFn,
		reset: reset,
	}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return newFn()
	}
	return p
}

// Get retrieves an object from the pool, creating one if the pool is empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	return p.pool.Get().(T)
}

// Put returns an object to the pool for reuse.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns the total number of objects the pool has allocated and the
// number currently checked out.
func (p *Pool[T]) Stats() (allocated, inUse int64) {
	return atomic.LoadInt64(&p.stats.allocated), atomic.LoadInt64(&p.stats.inUse)
}

// BufferPool provides pooling for byte buffers of various sizes.
// It maintains separate pools for common buffer sizes, selecting the
// appropriate bucket based on requested size.
type BufferPool struct {
	pools []*Pool[[]byte]
	sizes []int
}

// NewBufferPool creates a buffer pool with power-of-2 size buckets from
// 4KB to 16MB. Requests larger than the largest bucket are allocated
// directly without pooling.
func NewBufferPool() *BufferPool {
	sizes := []int{
		4096,     // 4KB
		16384,    // 16KB
		65536,    // 64KB
		262144,   // 256KB
		1048576,  // 1MB
		4194304,  // 4MB
		16777216, // 16MB
	}

	pools := make([]*Pool[[]byte], len(sizes))
	for i, size := range sizes {
		size := size
		pools[i] = New(
			func() []byte {
				return make([]byte, size)
			},
			nil,
		)
	}

	return &BufferPool{
		pools: pools,
		sizes: sizes,
	}
}

// Get returns a buffer of at least the requested size from the pool.
// The returned buffer's length is set to the requested size; its capacity
// may be larger.
func (p *BufferPool) Get(size int) []byte {
	for i, s := range p.sizes {
		if s >= size {
			buf := p.pools[i].Get()
			return buf[:size]
		}
	}

	// Fallback to allocation for very large buffers
	return make([]byte, size)
}

// Put returns a buffer to the pool for reuse. Buffers whose capacity does
// not match a bucket are released to garbage collection.
func (p *BufferPool) Put(buf []byte) {
	size := cap(buf)

	for i, s := range p.sizes {
		if s == size {
			p.pools[i].Put(buf[:s])
			return
		}
	}
}

// GlobalBufferPool provides size-based byte buffer pooling for I/O operations.
var GlobalBufferPool = NewBufferPool()
