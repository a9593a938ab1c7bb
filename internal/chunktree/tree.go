package chunktree

import "fmt"

// FromSlice builds a chunk tree over data such that every leaf holds at
// most n bytes. n == 0 is a construction error (a programmer bug, per the
// core's error-handling design) and panics.
func FromSlice(data []byte, n int) *Node {
	invariant(n > 0, "chunktree: leaf bound N must be >= 1, got %d", n)
	return fromSlice(data, n)
}

func fromSlice(data []byte, n int) *Node {
	if len(data) <= n {
		return NewLeaf(data)
	}
	mid := len(data) / 2
	left := fromSlice(data[:mid], n)
	right := fromSlice(data[mid:], n)
	return newInternal(left, NewGap(0), right)
}

// Insert returns a new tree with data spliced in at index. index may exceed
// Len(t), in which case the gap between the old end and index is filled
// sparsely (O(1), storage-free) rather than erroring. The input tree t is
// left unchanged; only nodes along the insertion path are newly allocated.
func Insert(t *Node, index int, data []byte, n int) *Node {
	invariant(n > 0, "chunktree: leaf bound N must be >= 1, got %d", n)
	invariant(index >= 0, "chunktree: insert index must be >= 0, got %d", index)
	if len(data) == 0 {
		return t
	}

	length := t.Len()
	if index > length {
		return newInternal(t, NewGap(index-length), fromSlice(data, n))
	}
	return insert(t, index, data, n)
}

func insert(t *Node, index int, data []byte, n int) *Node {
	switch t.kind {
	case KindLeaf:
		prefix := fromSlice(t.bytes[:index], n)
		payload := fromSlice(data, n)
		suffix := fromSlice(t.bytes[index:], n)
		return newInternal(prefix, payload, suffix)

	case KindGap:
		return newInternal(NewGap(index), fromSlice(data, n), NewGap(t.gap-index))

	case KindInternal:
		leftLen := t.left.Len()
		midLen := t.mid.Len()

		switch {
		case index <= leftLen:
			return newInternal(insert(t.left, index, data, n), t.mid, t.right)
		case index <= leftLen+midLen:
			return newInternal(t.left, insert(t.mid, index-leftLen, data, n), t.right)
		default:
			return newInternal(t.left, t.mid, insert(t.right, index-leftLen-midLen, data, n))
		}

	default:
		panic(fmt.Sprintf("chunktree: unknown node kind %d", t.kind))
	}
}

// Remove returns a new tree with the byte range [start, end) deleted. The
// range may be empty (start >= end, a no-op) or extend past Len(t) (clamped
// silently). The input tree t is left unchanged.
func Remove(t *Node, start, end, n int) *Node {
	invariant(start >= 0, "chunktree: remove start must be >= 0, got %d", start)
	length := t.Len()
	if end > length {
		end = length
	}
	if start >= end {
		return t
	}
	return remove(t, start, end, n)
}

func remove(t *Node, start, end, n int) *Node {
	switch t.kind {
	case KindLeaf:
		prefix := fromSlice(t.bytes[:start], n)
		suffix := fromSlice(t.bytes[end:], n)
		return newInternal(prefix, NewGap(0), suffix)

	case KindGap:
		return NewGap(t.gap - (end - start))

	case KindInternal:
		leftLen := t.left.Len()
		midLen := t.mid.Len()

		newLeft := t.left
		if s, e, ok := clampRange(start, end, 0, leftLen); ok {
			newLeft = remove(t.left, s, e, n)
		}

		newMid := t.mid
		if s, e, ok := clampRange(start, end, leftLen, leftLen+midLen); ok {
			newMid = remove(t.mid, s, e, n)
		}

		newRight := t.right
		if s, e, ok := clampRange(start, end, leftLen+midLen, length(t)); ok {
			newRight = remove(t.right, s, e, n)
		}

		return newInternal(newLeft, newMid, newRight)

	default:
		panic(fmt.Sprintf("chunktree: unknown node kind %d", t.kind))
	}
}

func length(t *Node) int { return t.Len() }

// clampRange intersects [start,end) with a child's [childStart,childEnd)
// range and shifts the result into the child's own coordinate system. ok is
// false when the intersection is empty, meaning the child is unaffected.
func clampRange(start, end, childStart, childEnd int) (s, e int, ok bool) {
	s = start
	if s < childStart {
		s = childStart
	}
	e = end
	if e > childEnd {
		e = childEnd
	}
	if s >= e {
		return 0, 0, false
	}
	return s - childStart, e - childStart, true
}

func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
