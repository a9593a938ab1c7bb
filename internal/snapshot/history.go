// Package snapshot keeps a bounded history of whole-buffer content
// versions, each stored as a persistent chunk tree. It is the
// snapshot/undo-oriented alternative text store the core's chunk tree
// exists for (component B), as distinct from the piece-table's live-edit
// path (C+D): callers that want "what did this file look like N edits
// ago" push full-content snapshots here rather than replaying piece-tree
// deltas.
package snapshot

import (
	"fmt"

	"fresh/internal/chunktree"
)

// History is a ring of the most recent versions of some buffer's content,
// oldest first. It is not safe for concurrent use.
type History struct {
	leafSize int
	max      int
	versions []*chunktree.Node
}

// New returns an empty history. leafSize is the chunk tree's N (forwarded
// to chunktree.FromSlice on every Push); max is how many versions to
// retain before the oldest is evicted. Both must be >= 1.
func New(leafSize, max int) *History {
	if leafSize < 1 {
		panic(fmt.Sprintf("snapshot: leaf size must be >= 1, got %d", leafSize))
	}
	if max < 1 {
		panic(fmt.Sprintf("snapshot: max versions must be >= 1, got %d", max))
	}
	return &History{leafSize: leafSize, max: max}
}

// Push stores content as a new version, evicting the oldest retained
// version if the history is already at capacity. content is copied into
// the chunk tree's leaves by reference, not duplicated; callers must not
// mutate the slice afterward.
func (h *History) Push(content []byte) {
	h.versions = append(h.versions, chunktree.FromSlice(content, h.leafSize))
	if len(h.versions) > h.max {
		h.versions = h.versions[len(h.versions)-h.max:]
	}
}

// Len reports how many versions are currently retained.
func (h *History) Len() int {
	return len(h.versions)
}

// At renders the i'th retained version (0 is the oldest) back to a byte
// slice. It panics if i is out of range, since callers should always
// check Len first.
func (h *History) At(i int) []byte {
	if i < 0 || i >= len(h.versions) {
		panic(fmt.Sprintf("snapshot: index %d out of range, have %d versions", i, len(h.versions)))
	}
	return chunktree.Collect(h.versions[i], 0)
}

// Latest renders the most recently pushed version. ok is false if the
// history is empty.
func (h *History) Latest() (content []byte, ok bool) {
	if len(h.versions) == 0 {
		return nil, false
	}
	return h.At(len(h.versions) - 1), true
}
