// Package mem binds the virtual partitions handed out by the buddy
// package to real in-process memory. It is the integrating-application
// side of the allocator: the buddy package decides where an allocation
// lives inside a span, this package owns the actual bytes.
package mem

// Allocator memory allocation for fixed byte buffers
type Allocator interface {
	// Allocate allocate a []byte with len(data) >= size, and the returned []byte
	// cannot be expanded in use. Returns nil if the allocator cannot satisfy
	// the request.
	Allocate(size int) []byte
	// Free free the allocated memory
	Free([]byte)
}

type nonReusableAllocator struct {
}

// NewNonReusableAllocator returns an Allocator that allocates from the
// Go heap and never reuses freed memory.
func NewNonReusableAllocator() Allocator {
	return &nonReusableAllocator{}
}

func (ma *nonReusableAllocator) Allocate(size int) []byte {
	return make([]byte, size)
}

func (ma *nonReusableAllocator) Free([]byte) {

}
