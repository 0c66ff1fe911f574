package buddy_test

import (
	"fmt"

	"github.com/jazzfool/buddy"
)

func Example() {
	// Partition a virtual 1KB span. No real memory is involved, the
	// returned ranges can be bound to any backing resource.
	b, _ := buddy.New(1024)
	defer b.Close()

	a1, _ := b.Alloc(30)  // rounds up to a 32 partition
	a2, _ := b.Alloc(200) // rounds up to a 256 partition

	fmt.Printf("a1: offset=%d size=%d\n", a1.Offset, a1.Size)
	fmt.Printf("a2: offset=%d size=%d\n", a2.Offset, a2.Size)

	b.Free(a1)
	b.Free(a2)

	// Both partitions coalesced back, the whole span fits again.
	full, _ := b.Alloc(1024)
	fmt.Printf("full: offset=%d size=%d\n", full.Offset, full.Size)

	// Output:
	// a1: offset=0 size=32
	// a2: offset=256 size=256
	// full: offset=0 size=1024
}
