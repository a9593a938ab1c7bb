package piecetree

import (
	"fmt"
	"strings"
	"testing"
)

// memSource is a single fixed-content Source for tests: location 0 names
// the whole backing slice.
type memSource struct {
	data []byte
}

func (m memSource) Read(location, offset, length int) ([]byte, error) {
	if location != 0 {
		return nil, fmt.Errorf("memSource: unknown location %d", location)
	}
	if offset < 0 || length < 0 || offset+length > len(m.data) {
		return nil, fmt.Errorf("memSource: window [%d,%d) out of range (len %d)", offset, offset+length, len(m.data))
	}
	return m.data[offset : offset+length], nil
}

func render(t *testing.T, src memSource, tr *Tree) string {
	t.Helper()
	var b strings.Builder
	for _, p := range tr.Pieces() {
		data, err := src.Read(p.Location, p.Offset, p.Bytes)
		if err != nil {
			t.Fatalf("Read piece: %v", err)
		}
		b.Write(data)
	}
	return b.String()
}

func pieceFor(src memSource, text string, offset int) Piece {
	return Piece{Location: 0, Offset: offset, Bytes: len(text), LineFeeds: strings.Count(text, "\n")}
}

func TestInsertIntoEmpty(t *testing.T) {
	text := "hello\nworld"
	src := memSource{data: []byte(text)}
	tr := New()

	tr2, err := tr.Insert(src, 0, pieceFor(src, text, 0))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got := render(t, src, tr2); got != text {
		t.Fatalf("render = %q, want %q", got, text)
	}
	if tr2.TotalBytes() != len(text) {
		t.Fatalf("TotalBytes = %d, want %d", tr2.TotalBytes(), len(text))
	}
	if tr2.LineCount() != 2 {
		t.Fatalf("LineCount = %d, want 2", tr2.LineCount())
	}
	if tr.TotalBytes() != 0 {
		t.Fatal("original empty tree was mutated")
	}
}

func TestInsertSplitsExistingPiece(t *testing.T) {
	backing := []byte("helloworld INSERTED")
	src := memSource{data: backing}
	tr := New()

	tr, err := tr.Insert(src, 0, Piece{Location: 0, Offset: 0, Bytes: 10})
	if err != nil {
		t.Fatalf("Insert 1: %v", err)
	}
	tr, err = tr.Insert(src, 5, Piece{Location: 0, Offset: 11, Bytes: 8})
	if err != nil {
		t.Fatalf("Insert 2: %v", err)
	}

	want := "helloINSERTEDworld"
	if got := render(t, src, tr); got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}
}

func TestDeleteRange(t *testing.T) {
	text := "hello world"
	src := memSource{data: []byte(text)}
	tr, err := New().Insert(src, 0, pieceFor(src, text, 0))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	tr2, err := tr.Delete(src, 5, 6)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := render(t, src, tr2); got != "hello" {
		t.Fatalf("render = %q, want %q", got, "hello")
	}
	if got := render(t, src, tr); got != text {
		t.Fatal("original tree mutated by Delete")
	}
}

func TestDeletePastEndClamps(t *testing.T) {
	text := "abc"
	src := memSource{data: []byte(text)}
	tr, err := New().Insert(src, 0, pieceFor(src, text, 0))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	tr2, err := tr.Delete(src, 1, 1000)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := render(t, src, tr2); got != "a" {
		t.Fatalf("render = %q, want %q", got, "a")
	}
}

func TestExtendPieceEndingAt(t *testing.T) {
	backing := []byte("hello world")
	src := memSource{data: backing}
	tr, err := New().Insert(src, 0, Piece{Location: 0, Offset: 0, Bytes: 5})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	tr2, ok := tr.ExtendPieceEndingAt(5, 6, 0)
	if !ok {
		t.Fatal("ExtendPieceEndingAt returned ok=false")
	}
	if got := render(t, src, tr2); got != "hello world" {
		t.Fatalf("render = %q, want %q", got, "hello world")
	}
	if len(tr2.Pieces()) != 1 {
		t.Fatalf("expected extend to stay a single piece, got %d", len(tr2.Pieces()))
	}
}

func TestExtendPieceEndingAtWrongOffsetFails(t *testing.T) {
	backing := []byte("hello world")
	src := memSource{data: backing}
	tr, err := New().Insert(src, 0, Piece{Location: 0, Offset: 0, Bytes: 5})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, ok := tr.ExtendPieceEndingAt(3, 1, 0); ok {
		t.Fatal("ExtendPieceEndingAt should fail when offset is not a piece boundary")
	}
}

func TestFindByOffset(t *testing.T) {
	text := "abcdef"
	src := memSource{data: []byte(text)}
	tr, err := New().Insert(src, 0, pieceFor(src, text, 0))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	info, ok := tr.FindByOffset(3)
	if !ok {
		t.Fatal("FindByOffset(3) ok=false")
	}
	if info.IntraOffset != 3 {
		t.Fatalf("IntraOffset = %d, want 3", info.IntraOffset)
	}

	info, ok = tr.FindByOffset(tr.TotalBytes())
	if !ok {
		t.Fatal("FindByOffset(end) ok=false")
	}
	if info.IntraOffset != len(text) {
		t.Fatalf("IntraOffset at end = %d, want %d", info.IntraOffset, len(text))
	}
}

func TestLineRangeAndPositionRoundTrip(t *testing.T) {
	text := "one\ntwo\nthree"
	src := memSource{data: []byte(text)}
	tr, err := New().Insert(src, 0, pieceFor(src, text, 0))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if tr.LineCount() != 3 {
		t.Fatalf("LineCount = %d, want 3", tr.LineCount())
	}

	lr, err := tr.LineRange(src, 1)
	if err != nil {
		t.Fatalf("LineRange(1): %v", err)
	}
	if !lr.HasEnd || text[lr.Start:lr.End] != "two" {
		t.Fatalf("LineRange(1) = %+v, want %q", lr, "two")
	}

	lr, err = tr.LineRange(src, 2)
	if err != nil {
		t.Fatalf("LineRange(2): %v", err)
	}
	if lr.HasEnd || text[lr.Start:lr.End] != "three" {
		t.Fatalf("LineRange(2) = %+v, want %q (no terminator)", lr, "three")
	}

	for offset := 0; offset <= len(text); offset++ {
		pos, err := tr.OffsetToPosition(src, offset)
		if err != nil {
			t.Fatalf("OffsetToPosition(%d): %v", offset, err)
		}
		back, err := tr.PositionToOffset(src, pos)
		if err != nil {
			t.Fatalf("PositionToOffset(%+v): %v", pos, err)
		}
		if back != offset {
			t.Fatalf("offset %d -> pos %+v -> offset %d, want round trip", offset, pos, back)
		}
	}
}

func TestLineRangeOutOfRange(t *testing.T) {
	text := "abc"
	src := memSource{data: []byte(text)}
	tr, err := New().Insert(src, 0, pieceFor(src, text, 0))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := tr.LineRange(src, 5); err == nil {
		t.Fatal("LineRange(5) should fail, document has 1 line")
	}
}
