package piecetree

import "fmt"

// Tree is an immutable piece sequence. The zero value is not useful;
// construct with New. Every mutating method returns a new Tree and leaves
// its receiver untouched, so a Tree held by a background reader (for
// instance a save-to-disk goroutine) stays stable across concurrent edits
// on the mainline.
type Tree struct {
	root *node
}

// New returns an empty piece tree.
func New() *Tree {
	return &Tree{}
}

// TotalBytes returns the document's total length in O(1).
func (t *Tree) TotalBytes() int {
	return sizeBytes(t.root)
}

// TotalLineFeeds returns the document's total '\n' count in O(1).
func (t *Tree) TotalLineFeeds() int {
	return lineFeeds(t.root)
}

// LineCount returns the number of lines, counting a trailing unterminated
// line: a document with zero line feeds has one line.
func (t *Tree) LineCount() int {
	return t.TotalLineFeeds() + 1
}

// Pieces returns the tree's pieces in document order.
func (t *Tree) Pieces() []Piece {
	var out []Piece
	inorder(t.root, &out)
	return out
}

func inorder(n *node, out *[]Piece) {
	if n == nil {
		return
	}
	inorder(n.left, out)
	*out = append(*out, n.piece)
	inorder(n.right, out)
}

// Insert returns a new tree with piece spliced in at offset. offset is
// clamped to [0, TotalBytes()]. A zero-length piece is a no-op.
func (t *Tree) Insert(src Source, offset int, piece Piece) (*Tree, error) {
	if piece.Bytes == 0 {
		return t, nil
	}
	total := t.TotalBytes()
	offset = clamp(offset, 0, total)

	l, r, err := splitAt(t.root, offset, src)
	if err != nil {
		return nil, fmt.Errorf("piecetree: insert at %d: %w", offset, err)
	}
	mid := newNode(piece, nextPriority(), nil, nil)
	return &Tree{root: merge(merge(l, mid), r)}, nil
}

// Delete returns a new tree with the byte range [offset, offset+length)
// removed. It silently no-ops when length <= 0 or offset is already at or
// past the end of the document, and clamps offset+length to TotalBytes().
func (t *Tree) Delete(src Source, offset, length int) (*Tree, error) {
	total := t.TotalBytes()
	if length <= 0 || offset >= total {
		return t, nil
	}
	if offset < 0 {
		offset = 0
	}
	if offset+length > total {
		length = total - offset
	}

	l, rest, err := splitAt(t.root, offset, src)
	if err != nil {
		return nil, fmt.Errorf("piecetree: delete at %d: %w", offset, err)
	}
	_, r, err := splitAt(rest, length, src)
	if err != nil {
		return nil, fmt.Errorf("piecetree: delete at %d: %w", offset, err)
	}
	return &Tree{root: merge(l, r)}, nil
}

// ExtendPieceEndingAt returns a new tree in which the piece that ends
// exactly at offset is grown by deltaBytes (and deltaLineFeeds newlines),
// path-copying that piece's ancestors rather than adding a new piece. The
// receiver is left unchanged. ok is false when no piece boundary
// sits at offset, in which case the caller should fall back to Insert.
func (t *Tree) ExtendPieceEndingAt(offset, deltaBytes, deltaLineFeeds int) (*Tree, bool) {
	newRoot, ok := extendRec(t.root, offset, deltaBytes, deltaLineFeeds)
	if !ok {
		return t, false
	}
	return &Tree{root: newRoot}, true
}

// PieceInfo locates the piece a byte offset falls inside.
type PieceInfo struct {
	Piece            Piece
	PieceStartOffset int
	IntraOffset      int
}

// FindByOffset returns the piece containing offset. offset == TotalBytes()
// resolves to the last piece with IntraOffset == its length, matching a
// cursor sitting at end-of-document.
func (t *Tree) FindByOffset(offset int) (PieceInfo, bool) {
	total := t.TotalBytes()
	if offset < 0 || offset > total {
		return PieceInfo{}, false
	}

	cur := t.root
	base := 0
	target := offset
	for cur != nil {
		leftBytes := sizeBytes(cur.left)
		if target < leftBytes {
			cur = cur.left
			continue
		}
		rel := target - leftBytes
		if rel < cur.piece.Bytes || (rel == cur.piece.Bytes && cur.right == nil) {
			return PieceInfo{Piece: cur.piece, PieceStartOffset: base + leftBytes, IntraOffset: rel}, true
		}
		base += leftBytes + cur.piece.Bytes
		target = rel - cur.piece.Bytes
		cur = cur.right
	}
	return PieceInfo{}, false
}

// Cursor is an offset-resolved handle into a specific Tree snapshot. It is
// invalidated by any subsequent edit to that snapshot's lineage.
type Cursor struct {
	Info PieceInfo
}

// CursorAtOffset resolves offset against t and returns a Cursor good for
// that snapshot only.
func (t *Tree) CursorAtOffset(offset int) (Cursor, bool) {
	info, ok := t.FindByOffset(offset)
	return Cursor{Info: info}, ok
}

// Position is a zero-indexed (line, column) pair, column counted in bytes
// from the start of the line.
type Position struct {
	Line   int
	Column int
}

// LineRange reports the byte range of a zero-indexed line: [Start, End).
// HasEnd is false for the document's last line, which has no terminator.
type LineRange struct {
	Start  int
	End    int
	HasEnd bool
}

// LineRange returns the byte range of line, or an error if line is out of
// [0, LineCount()).
func (t *Tree) LineRange(src Source, line int) (LineRange, error) {
	total := t.LineCount()
	if line < 0 || line >= total {
		return LineRange{}, fmt.Errorf("piecetree: line %d out of range [0,%d)", line, total)
	}

	start, err := t.lineStartOffset(src, line)
	if err != nil {
		return LineRange{}, err
	}
	if line == total-1 {
		return LineRange{Start: start, End: t.TotalBytes(), HasEnd: false}, nil
	}
	end, err := t.nthNewlineOffset(src, line)
	if err != nil {
		return LineRange{}, err
	}
	return LineRange{Start: start, End: end, HasEnd: true}, nil
}

// lineStartOffset returns the byte offset at which line begins.
func (t *Tree) lineStartOffset(src Source, line int) (int, error) {
	if line <= 0 {
		return 0, nil
	}
	pos, err := t.nthNewlineOffset(src, line-1)
	if err != nil {
		return 0, err
	}
	return pos + 1, nil
}

// nthNewlineOffset returns the absolute byte offset of the k-th (0-indexed)
// '\n' in the document.
func (t *Tree) nthNewlineOffset(src Source, k int) (int, error) {
	return nthNewlineOffsetNode(t.root, k, 0, src)
}

func nthNewlineOffsetNode(n *node, k, base int, src Source) (int, error) {
	if n == nil {
		return 0, fmt.Errorf("piecetree: newline index %d out of range", k)
	}
	leftLF := lineFeeds(n.left)
	if k < leftLF {
		return nthNewlineOffsetNode(n.left, k, base, src)
	}
	k -= leftLF
	leftBytes := sizeBytes(n.left)
	if k < n.piece.LineFeeds {
		data, err := src.Read(n.piece.Location, n.piece.Offset, n.piece.Bytes)
		if err != nil {
			return 0, fmt.Errorf("piecetree: read piece for newline scan: %w", err)
		}
		idx := nthIndex(data, '\n', k)
		if idx < 0 {
			return 0, fmt.Errorf("piecetree: line-feed count inconsistent with piece contents")
		}
		return base + leftBytes + idx, nil
	}
	k -= n.piece.LineFeeds
	return nthNewlineOffsetNode(n.right, k, base+leftBytes+n.piece.Bytes, src)
}

// OffsetToPosition converts a byte offset into a (line, column) pair.
// offset is clamped to [0, TotalBytes()].
func (t *Tree) OffsetToPosition(src Source, offset int) (Position, error) {
	offset = clamp(offset, 0, t.TotalBytes())

	line, err := t.lineFeedsBefore(src, offset)
	if err != nil {
		return Position{}, err
	}
	lineStart, err := t.lineStartOffset(src, line)
	if err != nil {
		return Position{}, err
	}
	return Position{Line: line, Column: offset - lineStart}, nil
}

// lineFeedsBefore counts '\n' bytes strictly before target.
func (t *Tree) lineFeedsBefore(src Source, target int) (int, error) {
	cur := t.root
	acc := 0
	for cur != nil {
		leftBytes := sizeBytes(cur.left)
		if target <= leftBytes {
			cur = cur.left
			continue
		}
		acc += lineFeeds(cur.left)
		rel := target - leftBytes
		if rel >= cur.piece.Bytes {
			acc += cur.piece.LineFeeds
			target = rel - cur.piece.Bytes
			cur = cur.right
			continue
		}
		data, err := src.Read(cur.piece.Location, cur.piece.Offset, rel)
		if err != nil {
			return 0, fmt.Errorf("piecetree: read piece for line count: %w", err)
		}
		return acc + countByte(data, '\n'), nil
	}
	return acc, nil
}

// PositionToOffset converts a (line, column) pair into a byte offset. The
// line is clamped to [0, LineCount()), and the column is clamped to the
// line's own length.
func (t *Tree) PositionToOffset(src Source, pos Position) (int, error) {
	totalLines := t.LineCount()
	line := clamp(pos.Line, 0, totalLines-1)

	lr, err := t.LineRange(src, line)
	if err != nil {
		return 0, err
	}
	col := clamp(pos.Column, 0, lr.End-lr.Start)
	return lr.Start + col, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
