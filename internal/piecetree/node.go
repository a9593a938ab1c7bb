// Package piecetree implements the piece table: an ordered, persistent
// sequence of immutable pieces keyed by cumulative byte offset, with a
// secondary cumulation on line-feed counts. The underlying structure is a
// treap (a randomized, augmented binary search tree) so that split, merge,
// insert, and delete are all expected O(log n) and every operation shares
// unaffected subtrees with its input rather than copying them.
package piecetree

import (
	"fmt"
	"math/rand/v2"
)

// Piece names a contiguous byte window inside one arena, plus the number of
// '\n' bytes inside that window. Location is an opaque arena identifier —
// piecetree never reads or writes arena storage directly except through the
// Source passed to operations that need it.
type Piece struct {
	Location  int
	Offset    int
	Bytes     int
	LineFeeds int
}

// Source lets piecetree read the arena bytes a piece names, which it needs
// only when an edit splits an existing piece (to recompute each half's
// line-feed count) or a query needs to scan for a specific newline.
type Source interface {
	Read(location, offset, length int) ([]byte, error)
}

type node struct {
	piece    Piece
	priority uint64
	left     *node
	right    *node

	// subBytes and subLineFeeds are this node's piece plus both children's
	// cumulative totals; cached so descent is O(1) per level.
	subBytes     int
	subLineFeeds int
}

func newNode(piece Piece, priority uint64, left, right *node) *node {
	n := &node{piece: piece, priority: priority, left: left, right: right}
	n.subBytes = piece.Bytes + sizeBytes(left) + sizeBytes(right)
	n.subLineFeeds = piece.LineFeeds + lineFeeds(left) + lineFeeds(right)
	return n
}

func sizeBytes(n *node) int {
	if n == nil {
		return 0
	}
	return n.subBytes
}

func lineFeeds(n *node) int {
	if n == nil {
		return 0
	}
	return n.subLineFeeds
}

func nextPriority() uint64 {
	return rand.Uint64()
}

// merge joins two treaps whose keys (byte offsets) are entirely ordered:
// every element of left precedes every element of right.
func merge(left, right *node) *node {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	if left.priority > right.priority {
		return newNode(left.piece, left.priority, left.left, merge(left.right, right))
	}
	return newNode(right.piece, right.priority, merge(left, right.left), right.right)
}

// splitAt splits n at localOffset (a byte offset relative to n's own
// subtree) into (everything before localOffset, everything from localOffset
// on). When localOffset lands inside a piece's byte window, the piece
// itself is split via src, and the resulting halves get fresh random
// priorities (they are new pieces, not a shared node).
func splitAt(n *node, localOffset int, src Source) (*node, *node, error) {
	if n == nil {
		return nil, nil, nil
	}

	leftBytes := sizeBytes(n.left)
	if localOffset < leftBytes {
		l, r, err := splitAt(n.left, localOffset, src)
		if err != nil {
			return nil, nil, err
		}
		return l, newNode(n.piece, n.priority, r, n.right), nil
	}

	rel := localOffset - leftBytes
	switch {
	case rel == 0:
		return n.left, newNode(n.piece, n.priority, nil, n.right), nil
	case rel == n.piece.Bytes:
		return newNode(n.piece, n.priority, n.left, nil), n.right, nil
	case rel > n.piece.Bytes:
		l, r, err := splitAt(n.right, rel-n.piece.Bytes, src)
		if err != nil {
			return nil, nil, err
		}
		return newNode(n.piece, n.priority, n.left, l), r, nil
	default:
		leftPiece, rightPiece, err := splitPiece(src, n.piece, rel)
		if err != nil {
			return nil, nil, err
		}
		leftNode := newNode(leftPiece, nextPriority(), n.left, nil)
		rightNode := newNode(rightPiece, nextPriority(), nil, n.right)
		return leftNode, rightNode, nil
	}
}

// splitPiece divides p at the byte offset rel (relative to p's own window)
// into two pieces over the same arena, recomputing each half's line-feed
// count from the actual bytes.
func splitPiece(src Source, p Piece, rel int) (Piece, Piece, error) {
	leftBytes, err := src.Read(p.Location, p.Offset, rel)
	if err != nil {
		return Piece{}, Piece{}, fmt.Errorf("piecetree: split piece: %w", err)
	}
	leftLF := countByte(leftBytes, '\n')

	left := Piece{Location: p.Location, Offset: p.Offset, Bytes: rel, LineFeeds: leftLF}
	right := Piece{Location: p.Location, Offset: p.Offset + rel, Bytes: p.Bytes - rel, LineFeeds: p.LineFeeds - leftLF}
	return left, right, nil
}

// extendRec path-copies the ancestors of the piece that ends exactly at
// localOffset, growing that piece by deltaBytes/deltaLineFeeds in place of
// inserting a new node. ok is false if no piece boundary sits at localOffset.
func extendRec(n *node, localOffset, deltaBytes, deltaLF int) (*node, bool) {
	if n == nil {
		return nil, false
	}

	leftBytes := sizeBytes(n.left)
	if n.left != nil && localOffset <= leftBytes {
		newLeft, ok := extendRec(n.left, localOffset, deltaBytes, deltaLF)
		if !ok {
			return n, false
		}
		return newNode(n.piece, n.priority, newLeft, n.right), true
	}

	rel := localOffset - leftBytes
	switch {
	case rel == n.piece.Bytes:
		grown := n.piece
		grown.Bytes += deltaBytes
		grown.LineFeeds += deltaLF
		return newNode(grown, n.priority, n.left, n.right), true
	case rel > n.piece.Bytes:
		newRight, ok := extendRec(n.right, rel-n.piece.Bytes, deltaBytes, deltaLF)
		if !ok {
			return n, false
		}
		return newNode(n.piece, n.priority, n.left, newRight), true
	default:
		return n, false
	}
}

func countByte(data []byte, b byte) int {
	n := 0
	for _, c := range data {
		if c == b {
			n++
		}
	}
	return n
}

// nthIndex returns the index of the k-th (0-indexed) occurrence of b in
// data, or -1 if there are fewer than k+1 occurrences.
func nthIndex(data []byte, b byte, k int) int {
	for i, c := range data {
		if c == b {
			if k == 0 {
				return i
			}
			k--
		}
	}
	return -1
}
