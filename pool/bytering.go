// File: pool/bytering.go
// Author: momentics <momentics@gmail.com>
//
// Fixed-capacity byte ring with copy-in/copy-out and claim/commit access.
// One producer and one consumer may run concurrently; head and tail are
// atomic and live on separate cache lines.

package pool

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-nus/api"
)

// Ensure compile-time interface compliance.
var _ api.ByteRing = (*ByteRing)(nil)

// ByteRing is a bounded byte FIFO. Capacity need not be a power of two.
type ByteRing struct {
	data    []byte
	size    uint64
	head    atomic.Uint64 // consumer cursor
	_       cpu.CacheLinePad
	tail    atomic.Uint64 // producer cursor
	_       cpu.CacheLinePad
	claimed int // bytes exposed by the outstanding Claim; consumer-owned
}

// NewByteRing allocates a ring holding up to capacity bytes.
func NewByteRing(capacity int) *ByteRing {
	if capacity <= 0 {
		panic("byte ring capacity must be positive")
	}
	return &ByteRing{
		data: make([]byte, capacity),
		size: uint64(capacity),
	}
}

// Put copies as many leading bytes of p as fit into free space.
func (r *ByteRing) Put(p []byte) int {
	head := r.head.Load()
	tail := r.tail.Load()
	free := r.size - (tail - head)
	n := uint64(len(p))
	if n > free {
		n = free
	}
	if n == 0 {
		return 0
	}
	idx := tail % r.size
	first := copy(r.data[idx:], p[:n])
	copy(r.data, p[first:n])
	r.tail.Store(tail + n)
	return int(n)
}

// Get moves up to len(p) oldest bytes into p.
func (r *ByteRing) Get(p []byte) int {
	if r.claimed != 0 {
		panic("byte ring: get while a claim is outstanding")
	}
	head := r.head.Load()
	tail := r.tail.Load()
	n := tail - head
	if uint64(len(p)) < n {
		n = uint64(len(p))
	}
	if n == 0 {
		return 0
	}
	idx := head % r.size
	first := copy(p[:n], r.data[idx:])
	copy(p[first:n], r.data)
	r.head.Store(head + n)
	return int(n)
}

// Claim returns a view of up to max contiguous queued bytes. The view stays
// valid until Commit. An empty claim needs no Commit.
func (r *ByteRing) Claim(max int) []byte {
	if r.claimed != 0 {
		panic("byte ring: claim while a previous claim is outstanding")
	}
	if max <= 0 {
		return nil
	}
	head := r.head.Load()
	tail := r.tail.Load()
	n := tail - head
	idx := head % r.size
	if run := r.size - idx; n > run {
		n = run
	}
	if uint64(max) < n {
		n = uint64(max)
	}
	r.claimed = int(n)
	return r.data[idx : idx+n]
}

// Commit removes n bytes of the outstanding claim. Committing more than was
// claimed means buffer bookkeeping is corrupt and panics.
func (r *ByteRing) Commit(n int) {
	if n < 0 || n > r.claimed {
		panic(fmt.Sprintf("byte ring: commit %d exceeds claimed %d", n, r.claimed))
	}
	r.claimed = 0
	r.head.Add(uint64(n))
}

// Len returns the number of queued bytes.
func (r *ByteRing) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Free returns the remaining space in bytes.
func (r *ByteRing) Free() int {
	return r.Cap() - r.Len()
}

// Cap returns the fixed capacity.
func (r *ByteRing) Cap() int {
	return int(r.size)
}
