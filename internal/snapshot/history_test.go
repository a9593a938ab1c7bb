package snapshot

import (
	"bytes"
	"testing"
)

func TestPushAndAtRoundTrip(t *testing.T) {
	h := New(4, 8)
	h.Push([]byte("version one"))
	h.Push([]byte("version two, a bit longer"))

	if got := h.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if got := h.At(0); !bytes.Equal(got, []byte("version one")) {
		t.Fatalf("At(0) = %q, want %q", got, "version one")
	}
	if got := h.At(1); !bytes.Equal(got, []byte("version two, a bit longer")) {
		t.Fatalf("At(1) = %q, want %q", got, "version two, a bit longer")
	}
}

func TestLatestOnEmptyHistory(t *testing.T) {
	h := New(4, 8)
	if _, ok := h.Latest(); ok {
		t.Fatal("Latest() on empty history reported ok=true")
	}
}

func TestLatestReturnsMostRecentPush(t *testing.T) {
	h := New(16, 8)
	h.Push([]byte("a"))
	h.Push([]byte("b"))
	h.Push([]byte("c"))

	got, ok := h.Latest()
	if !ok {
		t.Fatal("Latest() ok=false, want true")
	}
	if !bytes.Equal(got, []byte("c")) {
		t.Fatalf("Latest() = %q, want %q", got, "c")
	}
}

func TestPushEvictsOldestBeyondMax(t *testing.T) {
	h := New(4, 2)
	h.Push([]byte("one"))
	h.Push([]byte("two"))
	h.Push([]byte("three"))

	if got := h.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if got := h.At(0); !bytes.Equal(got, []byte("two")) {
		t.Fatalf("At(0) = %q, want %q (oldest should have been evicted)", got, "two")
	}
	if got := h.At(1); !bytes.Equal(got, []byte("three")) {
		t.Fatalf("At(1) = %q, want %q", got, "three")
	}
}

func TestNewPanicsOnInvalidLeafSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New(0, 8) did not panic")
		}
	}()
	New(0, 8)
}

func TestNewPanicsOnInvalidMax(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New(4, 0) did not panic")
		}
	}()
	New(4, 0)
}

func TestAtPanicsOutOfRange(t *testing.T) {
	h := New(4, 8)
	h.Push([]byte("only"))

	defer func() {
		if recover() == nil {
			t.Fatal("At(5) did not panic")
		}
	}()
	h.At(5)
}

func TestPushHandlesContentLargerThanLeafSize(t *testing.T) {
	h := New(4, 4)
	content := bytes.Repeat([]byte("x"), 97)
	h.Push(content)

	got, ok := h.Latest()
	if !ok {
		t.Fatal("Latest() ok=false, want true")
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("Latest() round-trip mismatch: got %d bytes, want %d", len(got), len(content))
	}
}
