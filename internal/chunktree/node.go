// Package chunktree implements the persistent ternary chunk tree: a rope
// variant whose leaves hold borrowed byte slices and whose explicit Gap
// nodes represent unwritten runs of a fill byte. Every operation returns a
// new tree; the input tree, and every subtree it shares with the result, is
// left unchanged. The tree never rebalances — its depth follows input
// shape, not rotations.
package chunktree

import "fmt"

// Kind discriminates the three node variants.
type Kind int

const (
	// KindLeaf holds a borrowed byte slice of length <= the tree's leaf bound.
	KindLeaf Kind = iota
	// KindGap represents a logical run of Size unspecified fill bytes.
	KindGap
	// KindInternal has three children and a cached total size.
	KindInternal
)

// Node is one node of a chunk tree. Treat it as immutable: every field is
// set once at construction and never modified afterward. Children are
// shared by reference across versions; callers must not mutate the Bytes
// slice of a leaf in place.
type Node struct {
	kind  Kind
	size  int // cached: len(Bytes) for a leaf, Size for a gap, sum of children for internal
	bytes []byte
	gap   int
	left  *Node
	mid   *Node
	right *Node
}

// Empty returns a zero-length leaf, the canonical empty tree.
func Empty() *Node {
	return &Node{kind: KindLeaf, bytes: nil, size: 0}
}

// NewLeaf wraps data as a single leaf node without checking it against any
// leaf bound; callers that need the bound respected should go through
// FromSlice instead.
func NewLeaf(data []byte) *Node {
	return &Node{kind: KindLeaf, bytes: data, size: len(data)}
}

// NewGap returns a gap node of the given size. size must be >= 0.
func NewGap(size int) *Node {
	if size < 0 {
		panic(fmt.Sprintf("chunktree: negative gap size %d", size))
	}
	return &Node{kind: KindGap, gap: size, size: size}
}

func newInternal(left, mid, right *Node) *Node {
	return &Node{
		kind:  KindInternal,
		left:  left,
		mid:   mid,
		right: right,
		size:  left.size + mid.size + right.size,
	}
}

// Len returns the tree's total byte length in O(1) via the cached size.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return n.size
}

// Kind reports which variant n is.
func (n *Node) Kind() Kind {
	return n.kind
}

// PieceKind discriminates the two stream elements Iter yields.
type PieceKind int

const (
	// DataPiece carries a borrowed byte slice.
	DataPiece PieceKind = iota
	// GapPiece carries the size of a logical fill run.
	GapPiece
)

// Piece is one element of the stream Iter produces: either a borrowed data
// slice or the size of a gap to be filled on demand.
type Piece struct {
	Kind    PieceKind
	Data    []byte
	GapSize int
}

// Iter returns the tree's content as a depth-first (left, mid, right)
// stream of data and gap pieces. Empty leaves and zero-sized gaps are
// suppressed.
func Iter(n *Node) []Piece {
	var out []Piece
	iterInto(n, &out)
	return out
}

func iterInto(n *Node, out *[]Piece) {
	if n == nil {
		return
	}
	switch n.kind {
	case KindLeaf:
		if len(n.bytes) > 0 {
			*out = append(*out, Piece{Kind: DataPiece, Data: n.bytes})
		}
	case KindGap:
		if n.gap > 0 {
			*out = append(*out, Piece{Kind: GapPiece, GapSize: n.gap})
		}
	case KindInternal:
		iterInto(n.left, out)
		iterInto(n.mid, out)
		iterInto(n.right, out)
	}
}

// Collect renders the tree to a single byte slice, filling gaps with
// gapByte repeated GapSize times.
func Collect(n *Node, gapByte byte) []byte {
	out := make([]byte, 0, n.Len())
	collectInto(n, gapByte, &out)
	return out
}

func collectInto(n *Node, gapByte byte, out *[]byte) {
	if n == nil {
		return
	}
	switch n.kind {
	case KindLeaf:
		*out = append(*out, n.bytes...)
	case KindGap:
		for i := 0; i < n.gap; i++ {
			*out = append(*out, gapByte)
		}
	case KindInternal:
		collectInto(n.left, gapByte, out)
		collectInto(n.mid, gapByte, out)
		collectInto(n.right, gapByte, out)
	}
}
