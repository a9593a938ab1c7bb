// Package buffer implements the text buffer façade: the public surface the
// editor mainline, key-bindings layer, and highlighter actually call. It
// composes an arena.Pool (owns the bytes) with a piecetree.Tree (orders
// them into a document), and is the one place that knows both.
package buffer

import (
	"unicode/utf8"

	"fresh/internal/arena"
	"fresh/internal/piecetree"
)

// editArenaTag distinguishes the "add" arena (where typed/pasted bytes
// land) from original-content arenas, so Insert's append-coalescing check
// can tell whether a piece's home arena is safe to extend.
type editArenaTag int

// Buffer is the façade over an arena pool and a piece tree. The zero value
// is not usable; construct with New or Empty.
type Buffer struct {
	pool *arena.Pool
	tree *piecetree.Tree

	editArena   arena.ID
	hasEdit     bool
	editArenaOf map[arena.ID]editArenaTag
}

const (
	tagOriginal editArenaTag = iota
	tagEdit
)

// Empty returns a buffer with no content.
func Empty() *Buffer {
	return &Buffer{
		pool:        arena.New(),
		tree:        piecetree.New(),
		editArenaOf: make(map[arena.ID]editArenaTag),
	}
}

// New returns a buffer seeded with bytes as its sole, original-content
// piece.
func New(bytes []byte) *Buffer {
	b := Empty()
	if len(bytes) == 0 {
		return b
	}

	id := b.pool.NewArena(bytes)
	b.editArenaOf[id] = tagOriginal

	piece := piecetree.Piece{Location: int(id), Offset: 0, Bytes: len(bytes), LineFeeds: countByte(bytes, '\n')}
	tree, err := b.tree.Insert(b.source(), 0, piece)
	if err != nil {
		panic("buffer: insert into empty tree failed: " + err.Error())
	}
	b.tree = tree
	return b
}

// poolSource adapts *arena.Pool to piecetree.Source.
type poolSource struct{ pool *arena.Pool }

func (s poolSource) Read(location, offset, length int) ([]byte, error) {
	return s.pool.Read(arena.ID(location), offset, length)
}

func (b *Buffer) source() piecetree.Source {
	return poolSource{pool: b.pool}
}

// TotalBytes returns the document's length in bytes.
func (b *Buffer) TotalBytes() int {
	return b.tree.TotalBytes()
}

// LineCount returns the number of lines, counting a trailing unterminated
// line.
func (b *Buffer) LineCount() int {
	return b.tree.LineCount()
}

// GetAll returns the entire document as a fresh byte slice.
func (b *Buffer) GetAll() []byte {
	out, err := b.Slice(0, b.TotalBytes())
	if err != nil {
		return nil
	}
	return out
}

// Slice returns a copy of the byte range [offset, offset+length). Both
// bounds are clamped to the document's extent.
func (b *Buffer) Slice(offset, length int) ([]byte, error) {
	total := b.TotalBytes()
	offset = clampInt(offset, 0, total)
	end := clampInt(offset+length, offset, total)
	return b.sliceByWalk(offset, end)
}

// sliceByWalk walks pieces in order, tracking each piece's absolute start,
// and copies the overlap with [start, end).
func (b *Buffer) sliceByWalk(start, end int) ([]byte, error) {
	out := make([]byte, 0, end-start)
	cursor := 0
	for _, p := range b.tree.Pieces() {
		pieceStart := cursor
		pieceEnd := cursor + p.Bytes
		cursor = pieceEnd

		lo := maxInt(start, pieceStart)
		hi := minInt(end, pieceEnd)
		if lo >= hi {
			continue
		}
		data, err := b.pool.Read(arena.ID(p.Location), p.Offset+(lo-pieceStart), hi-lo)
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}

// Line returns the byte content of the zero-indexed line i, without its
// terminator, or nil, false if i >= LineCount().
func (b *Buffer) Line(i int) ([]byte, bool) {
	lr, err := b.tree.LineRange(b.source(), i)
	if err != nil {
		return nil, false
	}
	data, err := b.sliceByWalk(lr.Start, lr.End)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Cursor is an opaque handle returned by mutating operations, good only
// for the Buffer snapshot it was produced against.
type Cursor struct {
	Offset int
	inner  piecetree.Cursor
}

// Insert splices bytes in at offset and returns a cursor positioned after
// the inserted text. offset is clamped to [0, TotalBytes()]; an empty
// bytes is a no-op that still returns a valid cursor at offset.
func (b *Buffer) Insert(offset int, bytes []byte) Cursor {
	total := b.TotalBytes()
	offset = clampInt(offset, 0, total)
	if len(bytes) == 0 {
		return b.cursorAt(offset)
	}

	if b.tryCoalesce(offset, bytes) {
		return b.cursorAt(offset + len(bytes))
	}

	id := b.editArenaFor()
	arenaOffset, err := b.pool.Append(id, bytes)
	if err != nil {
		panic("buffer: append to edit arena failed: " + err.Error())
	}

	piece := piecetree.Piece{
		Location:  int(id),
		Offset:    arenaOffset,
		Bytes:     len(bytes),
		LineFeeds: countByte(bytes, '\n'),
	}
	tree, err := b.tree.Insert(b.source(), offset, piece)
	if err != nil {
		panic("buffer: insert failed: " + err.Error())
	}
	b.tree = tree
	return b.cursorAt(offset + len(bytes))
}

// tryCoalesce attempts to extend the piece ending exactly at offset rather
// than allocating a new piece, per the append-coalescing optimisation: the
// piece must live in an edit arena, end exactly at offset, and end exactly
// at that arena's current length (nothing else has appended to it since).
func (b *Buffer) tryCoalesce(offset int, bytes []byte) bool {
	if offset == 0 {
		return false
	}
	info, ok := b.tree.FindByOffset(offset - 1)
	if !ok {
		return false
	}
	id := arena.ID(info.Piece.Location)
	if b.editArenaOf[id] != tagEdit {
		return false
	}
	if info.PieceStartOffset+info.Piece.Bytes != offset {
		return false
	}
	if info.Piece.Offset+info.Piece.Bytes != b.pool.Len(id) {
		return false
	}

	if _, err := b.pool.Append(id, bytes); err != nil {
		return false
	}
	newTree, ok := b.tree.ExtendPieceEndingAt(offset, len(bytes), countByte(bytes, '\n'))
	if !ok {
		return false
	}
	b.tree = newTree
	return true
}

// editArenaFor returns the shared "add" arena new inserted text lands in,
// creating it on first use.
func (b *Buffer) editArenaFor() arena.ID {
	if !b.hasEdit {
		b.editArena = b.pool.NewArena(nil)
		b.editArenaOf[b.editArena] = tagEdit
		b.hasEdit = true
	}
	return b.editArena
}

// Delete removes the byte range [offset, offset+length). It silently
// no-ops when length <= 0 or offset >= TotalBytes(), and clamps
// offset+length to TotalBytes() otherwise.
func (b *Buffer) Delete(offset, length int) {
	tree, err := b.tree.Delete(b.source(), offset, length)
	if err != nil {
		panic("buffer: delete failed: " + err.Error())
	}
	b.tree = tree
}

// InsertAtPosition is a convenience wrapper around Insert using a (line,
// column) position instead of a byte offset.
func (b *Buffer) InsertAtPosition(pos piecetree.Position, bytes []byte) Cursor {
	offset, err := b.tree.PositionToOffset(b.source(), pos)
	if err != nil {
		offset = b.TotalBytes()
	}
	return b.Insert(offset, bytes)
}

// DeleteRange is a convenience wrapper around Delete using (line, column)
// positions instead of byte offsets.
func (b *Buffer) DeleteRange(from, to piecetree.Position) {
	start, err := b.tree.PositionToOffset(b.source(), from)
	if err != nil {
		return
	}
	end, err := b.tree.PositionToOffset(b.source(), to)
	if err != nil {
		return
	}
	if start > end {
		start, end = end, start
	}
	b.Delete(start, end-start)
}

// OffsetToPosition converts a byte offset into a (line, column) pair,
// clamped to the document's extent.
func (b *Buffer) OffsetToPosition(offset int) piecetree.Position {
	pos, err := b.tree.OffsetToPosition(b.source(), offset)
	if err != nil {
		return piecetree.Position{}
	}
	return pos
}

// PositionToOffset converts a (line, column) pair into a byte offset,
// clamped to the document's extent.
func (b *Buffer) PositionToOffset(pos piecetree.Position) int {
	offset, err := b.tree.PositionToOffset(b.source(), pos)
	if err != nil {
		return 0
	}
	return offset
}

// DeleteBackward deletes exactly one code point ending at p, finding the
// largest code-point boundary q < p and deleting [q, p). It is a no-op at
// p <= 0.
func (b *Buffer) DeleteBackward(p int) {
	if p <= 0 {
		return
	}
	p = clampInt(p, 0, b.TotalBytes())
	q := b.prevCodePointBoundary(p)
	b.Delete(q, p-q)
}

// DeleteForward deletes exactly one code point starting at p, finding the
// smallest code-point boundary q > p and deleting [p, q). It is a no-op at
// p >= TotalBytes().
func (b *Buffer) DeleteForward(p int) {
	total := b.TotalBytes()
	if p >= total {
		return
	}
	p = clampInt(p, 0, total)
	q := b.nextCodePointBoundary(p)
	b.Delete(p, q-p)
}

// prevCodePointBoundary returns the largest q < p such that q is a
// code-point boundary, scanning backward byte by byte.
func (b *Buffer) prevCodePointBoundary(p int) int {
	lookback := minInt(p, utf8.UTFMax)
	window, err := b.Slice(p-lookback, lookback)
	if err != nil || len(window) == 0 {
		return maxInt(0, p-1)
	}
	for i := len(window) - 1; i >= 0; i-- {
		if utf8.RuneStart(window[i]) {
			return p - (len(window) - i)
		}
	}
	return maxInt(0, p-1)
}

// nextCodePointBoundary returns the smallest q > p such that q is a
// code-point boundary, scanning forward from the byte at p.
func (b *Buffer) nextCodePointBoundary(p int) int {
	total := b.TotalBytes()
	window, err := b.Slice(p, minInt(utf8.UTFMax+1, total-p))
	if err != nil || len(window) == 0 {
		return minInt(total, p+1)
	}
	for i := 1; i < len(window); i++ {
		if utf8.RuneStart(window[i]) {
			return p + i
		}
	}
	return total
}

func (b *Buffer) cursorAt(offset int) Cursor {
	inner, _ := b.tree.CursorAtOffset(offset)
	return Cursor{Offset: offset, inner: inner}
}

func countByte(data []byte, c byte) int {
	n := 0
	for _, b := range data {
		if b == c {
			n++
		}
	}
	return n
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
