// Package buddy implements a virtual buddy allocator.
//
// The allocator partitions an abstract span [0, total) by repeated
// halving and hands out (offset, size) pairs, it never touches real
// memory. Callers bind the returned ranges to whatever backing resource
// they own: a region of a larger []byte, a GPU heap, a file extent.
// The mem sub-package provides such a binding for in-process byte
// slabs.
//
// Allocation descends the partition tree and splits free partitions
// until the smallest power-of-two-derived partition that fits the
// request is reached, so granted sizes may exceed requested sizes
// (internal fragmentation). Freeing merges sibling partitions back
// together as far as possible (coalescing), which keeps external
// fragmentation low.
//
// A Buffer is not safe for concurrent use, the integrating application
// supplies mutual exclusion when it needs it.
package buddy

// Allocation is the handle returned by a successful Alloc. Size is the
// full size of the granted partition and may exceed the requested size.
// The handle is valid between the Alloc that produced it and the
// matching Free, and only while the owning Buffer is not closed.
type Allocation struct {
	Offset uint64
	Size   uint64

	node *node
	gen  uint64
}

// Buffer tracks how the span [0, total) is partitioned and occupied.
// The zero value is not usable, create instances with New.
type Buffer struct {
	root   *node
	nodes  int
	closed bool
}

// New creates a Buffer over the span [0, total). total is not required
// to be a power of two, but a non-power-of-two span wastes the
// remainder above the largest power of two reachable by halving.
func New(total uint64) (*Buffer, error) {
	if total == 0 {
		return nil, ErrInvalidSize
	}
	b := &Buffer{}
	b.root = &node{
		state: stateFree,
		size:  total,
	}
	b.nodes = 1
	return b, nil
}

// Alloc reserves the smallest free partition that fits size and returns
// its handle. Returns ErrNoSpace if no contiguous free partition is
// large enough, this is a normal outcome, not a caller error.
func (b *Buffer) Alloc(size uint64) (Allocation, error) {
	if b.closed {
		return Allocation{}, ErrClosed
	}
	if size == 0 {
		return Allocation{}, ErrInvalidSize
	}
	n, ok := b.allocNode(b.root, size)
	if !ok {
		return Allocation{}, ErrNoSpace
	}
	return Allocation{
		Offset: n.offset,
		Size:   n.size,
		node:   n,
		gen:    n.gen,
	}, nil
}

// Free returns an allocation's partition to the buffer and coalesces
// buddy partitions upward as far as possible. Handles that were already
// freed, or that came from another Buffer, are rejected with
// ErrStaleAllocation.
func (b *Buffer) Free(a Allocation) error {
	if b.closed {
		return ErrClosed
	}
	n := a.node
	if n == nil || n.state != stateOccupied || n.gen != a.gen || rootOf(n) != b.root {
		return ErrStaleAllocation
	}
	n.state = stateFree
	b.update(n)
	return nil
}

// Close releases every node in the partition tree. The buffer must not
// be used afterward, all operations on a closed buffer return
// ErrClosed.
func (b *Buffer) Close() error {
	if b.closed {
		return ErrClosed
	}
	b.closed = true
	b.release(b.root)
	b.root = nil
	return nil
}
