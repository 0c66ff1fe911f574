package buddy

const (
	stateFree = iota
	stateSplit
	stateOccupied
	// stateReleased marks a node that has been unlinked from the tree,
	// either by coalescing or by Close. Any handle still pointing at it
	// is stale.
	stateReleased
)

// node covers the half-open range [offset, offset+size) of the span.
// A node is exactly one of free, split or occupied. Children of a split
// node are materialized lazily; an absent child is implicitly a free
// node covering its half of the parent's range.
type node struct {
	state  int
	offset uint64
	size   uint64
	// gen increments every time the node becomes occupied. A handle
	// carries the generation it was created under, so a handle whose
	// node was freed and re-occupied by a later allocation no longer
	// matches.
	gen    uint64
	left   *node
	right  *node
	parent *node
}

// newNode materializes a child covering the first (left) or second half
// of parent's range.
func (b *Buffer) newNode(parent *node, left bool) *node {
	n := &node{
		state:  stateFree,
		offset: parent.offset,
		size:   parent.size / 2,
		parent: parent,
	}
	if !left {
		n.offset += parent.size / 2
	}
	b.nodes++
	return n
}

// allocNode is the recursive descent. It prefers the left child at every
// level, so allocation always takes the lowest available offset first.
func (b *Buffer) allocNode(n *node, size uint64) (*node, bool) {
	switch n.state {
	case stateFree:
		if n.size/2 >= size {
			// Still profitable to split, only the left half is
			// materialized until the right half is actually needed.
			n.state = stateSplit
			n.left = b.newNode(n, true)
			return b.allocNode(n.left, size)
		}
		if n.size >= size {
			// Smallest viable partition.
			n.state = stateOccupied
			n.gen++
			return n, true
		}
		return nil, false
	case stateSplit:
		if n.size/2 < size {
			// No descendant can be bigger than half of this node.
			return nil, false
		}
		if n.left == nil {
			n.left = b.newNode(n, true)
			return b.allocNode(n.left, size)
		}
		if res, ok := b.allocNode(n.left, size); ok {
			return res, true
		}
		if n.right == nil {
			n.right = b.newNode(n, false)
			return b.allocNode(n.right, size)
		}
		return b.allocNode(n.right, size)
	default:
		return nil, false
	}
}

// update runs the coalescing fix-up upward from n. A split node whose
// children are all absent-or-free collapses back to a single free
// partition; the merge propagates as far up as possible and stops at the
// first ancestor that still holds an occupied or split descendant.
func (b *Buffer) update(n *node) {
	for {
		switch n.state {
		case stateFree:
			if n.parent == nil {
				return
			}
			n = n.parent
		case stateSplit:
			if busy(n.left) || busy(n.right) {
				return
			}
			if n.left != nil {
				b.release(n.left)
			}
			if n.right != nil {
				b.release(n.right)
			}
			n.state = stateFree
			if n.parent == nil {
				return
			}
			n = n.parent
		default:
			return
		}
	}
}

// busy reports whether a child blocks coalescing. An absent child is
// implicitly free.
func busy(n *node) bool {
	return n != nil && n.state != stateFree
}

// release destroys n's subtree post-order, clears the child pointer in
// n's parent and tags every released node so stale handles can be
// detected.
func (b *Buffer) release(n *node) {
	if n.left != nil {
		b.release(n.left)
	}
	if n.right != nil {
		b.release(n.right)
	}
	if p := n.parent; p != nil {
		if p.left == n {
			p.left = nil
		} else {
			p.right = nil
		}
		n.parent = nil
	}
	n.state = stateReleased
	b.nodes--
}

// rootOf walks parent links up to the tree root. Released nodes are
// unlinked, so they never reach a live root.
func rootOf(n *node) *node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}
