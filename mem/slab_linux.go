package mem

import (
	"golang.org/x/sys/unix"
)

const offHeapSupported = true

// mapSlab reserves size bytes of anonymous memory outside the Go heap.
// Large arenas kept off-heap do not add GC scan work.
func mapSlab(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
}

func unmapSlab(slab []byte) error {
	return unix.Munmap(slab)
}
