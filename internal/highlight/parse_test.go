package highlight

import (
	"reflect"
	"testing"

	"fresh/internal/grammar"
	"fresh/internal/scope"
)

type noopWarner struct{ warnings []string }

func (w *noopWarner) Warn(msg string, args ...any) {
	w.warnings = append(w.warnings, msg)
}

func TestScanLine(t *testing.T) {
	cases := []struct {
		data         string
		contentLen   int
		termLen      int
	}{
		{"abc\ndef", 3, 1},
		{"abc\r\ndef", 3, 2},
		{"abc\rdef", 3, 1},
		{"noterminator", 12, 0},
		{"", 0, 0},
	}
	for _, c := range cases {
		contentLen, termLen := scanLine([]byte(c.data))
		if contentLen != c.contentLen || termLen != c.termLen {
			t.Errorf("scanLine(%q) = (%d,%d), want (%d,%d)", c.data, contentLen, termLen, c.contentLen, c.termLen)
		}
	}
}

// Regression: CRLF terminators must not shift span offsets. The terminator
// itself (2 bytes for \r\n) is excluded from every span, same as a bare \n
// terminator (1 byte) would be.
func TestWalkLinesCRLFByteAccounting(t *testing.T) {
	window := []byte("foo\r\nbar\n")
	ops := []grammar.Op{
		{Offset: 0, Kind: grammar.OpPush, Scope: "keyword.x"},
		{Offset: 3, Kind: grammar.OpPop},
		{Offset: 5, Kind: grammar.OpPush, Scope: "string.x"},
		{Offset: 8, Kind: grammar.OpPop},
	}

	got := walkLines(window, ops, 0, &noopWarner{})
	want := []Span{
		{Start: 0, End: 3, Category: scope.Keyword},
		{Start: 5, End: 8, Category: scope.String},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("walkLines = %+v, want %+v", got, want)
	}
}

func TestWalkLinesAppliesBaseOffset(t *testing.T) {
	window := []byte("abc")
	ops := []grammar.Op{
		{Offset: 0, Kind: grammar.OpPush, Scope: "comment.line"},
		{Offset: 3, Kind: grammar.OpPop},
	}
	got := walkLines(window, ops, 100, &noopWarner{})
	want := []Span{{Start: 100, End: 103, Category: scope.Comment}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("walkLines(base=100) = %+v, want %+v", got, want)
	}
}

func TestWalkLinesNoMatchingScopeEmitsNoSpan(t *testing.T) {
	window := []byte("plain text")
	got := walkLines(window, nil, 0, &noopWarner{})
	if len(got) != 0 {
		t.Fatalf("walkLines(no ops) = %+v, want no spans (plain text is uncategorized)", got)
	}
}

func TestWalkLinesInvalidUTF8LineSkippedWithWarning(t *testing.T) {
	window := []byte{0xff, 0xfe, '\n', 'o', 'k'}
	w := &noopWarner{}
	got := walkLines(window, nil, 0, w)
	if len(got) != 0 {
		t.Fatalf("walkLines = %+v, want no spans", got)
	}
	if len(w.warnings) != 1 {
		t.Fatalf("expected exactly one warning for the invalid line, got %d", len(w.warnings))
	}
}
