package mem

import (
	"sync"

	"github.com/jazzfool/buddy"
	"go.uber.org/zap"
)

// ArenaOption option to create Arena
type ArenaOption func(*Arena)

// WithArenaLogger set logger for Arena
func WithArenaLogger(logger *zap.Logger) ArenaOption {
	return func(a *Arena) {
		a.logger = logger
	}
}

// WithOffHeapSlab back the arena with anonymous mapped memory instead of
// the Go heap, on platforms that support it. Falls back to the heap
// elsewhere.
func WithOffHeapSlab() ArenaOption {
	return func(a *Arena) {
		a.options.offHeap = true
	}
}

// Arena is an Allocator over a single fixed-size slab. Placement is
// decided by a buddy partition tree, so every Allocate carves a
// power-of-two-derived region out of the slab and Free merges adjacent
// regions back together. The returned slices have len equal to the
// requested size and cap equal to the granted partition.
//
// The partition tree itself is single-threaded, Arena adds the mutual
// exclusion, so an Arena is safe for concurrent use.
type Arena struct {
	sync.Mutex

	logger *zap.Logger
	slab   []byte
	buf    *buddy.Buffer
	allocs map[*byte]buddy.Allocation
	closed bool

	options struct {
		offHeap bool
	}
}

// NewArena creates an Arena managing capacity bytes.
func NewArena(capacity int, opts ...ArenaOption) (*Arena, error) {
	if capacity <= 0 {
		return nil, buddy.ErrInvalidSize
	}

	a := &Arena{
		allocs: make(map[*byte]buddy.Allocation),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.adjust()

	buf, err := buddy.New(uint64(capacity))
	if err != nil {
		return nil, err
	}

	var slab []byte
	offHeap := a.options.offHeap && offHeapSupported
	if offHeap {
		slab, err = mapSlab(capacity)
		if err != nil {
			return nil, err
		}
	} else {
		slab = make([]byte, capacity)
	}

	a.slab = slab
	a.buf = buf
	a.options.offHeap = offHeap
	a.logger.Debug("arena created",
		zap.Int("capacity", capacity),
		zap.Bool("off-heap", offHeap))
	return a, nil
}

func (a *Arena) adjust() {
	a.logger = adjustLogger(a.logger).Named("arena")
}

// Allocate implements Allocator. Returns nil once no contiguous free
// region large enough remains, freeing earlier allocations makes the
// space reusable again.
func (a *Arena) Allocate(size int) []byte {
	if size <= 0 {
		return nil
	}

	a.Lock()
	defer a.Unlock()

	if a.closed {
		return nil
	}
	alloc, err := a.buf.Alloc(uint64(size))
	if err != nil {
		a.logger.Debug("arena allocation failed",
			zap.Int("size", size),
			zap.Error(err))
		return nil
	}

	data := a.slab[alloc.Offset : alloc.Offset+uint64(size) : alloc.Offset+alloc.Size]
	a.allocs[&data[0]] = alloc
	return data
}

// Free implements Allocator. data must start at the first byte of a
// slice returned by Allocate on this arena, anything else is ignored
// with a warning.
func (a *Arena) Free(data []byte) {
	if len(data) == 0 {
		return
	}

	a.Lock()
	defer a.Unlock()

	if a.closed {
		return
	}
	alloc, ok := a.allocs[&data[0]]
	if !ok {
		a.logger.Warn("free of a buffer not owned by this arena",
			zap.Int("len", len(data)))
		return
	}
	if err := a.buf.Free(alloc); err != nil {
		a.logger.Warn("arena free failed", zap.Error(err))
		return
	}
	delete(a.allocs, &data[0])
}

// Close releases the partition tree and the slab. Slices previously
// returned by Allocate must not be used afterward.
func (a *Arena) Close() error {
	a.Lock()
	defer a.Unlock()

	if a.closed {
		return buddy.ErrClosed
	}
	a.closed = true
	if err := a.buf.Close(); err != nil {
		return err
	}
	a.allocs = nil
	if a.options.offHeap {
		if err := unmapSlab(a.slab); err != nil {
			return err
		}
	}
	a.slab = nil
	a.logger.Debug("arena closed")
	return nil
}
