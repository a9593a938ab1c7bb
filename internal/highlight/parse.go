package highlight

import (
	"context"
	"fmt"
	"unicode/utf8"

	"fresh/internal/buffer"
	"fresh/internal/grammar"
	"fresh/internal/scope"
)

// parseRegion reads [start, end) from buf, parses it once through the
// registered grammar, and walks it line-by-line with explicit CRLF
// detection to turn the parser's scope ops into byte-accurate spans. The
// line walk exists purely for byte accounting: off-the-shelf line
// splitters discard the terminator, which drifts offsets on CRLF content
// (see the property-10 regression test). The parse itself happens once
// over the whole window, since the grammar needs full-window context; the
// line walk only governs how spans are cut and how the cursor advances.
func (h *Highlighter) parseRegion(ctx context.Context, buf *buffer.Buffer, start, end int) ([]Span, error) {
	if start >= end {
		return nil, nil
	}

	window, err := buf.Slice(start, end-start)
	if err != nil {
		return nil, fmt.Errorf("highlight: read viewport window: %w", err)
	}

	parser, ok := h.registry.Lookup(h.language)
	if !ok {
		return nil, fmt.Errorf("highlight: no parser registered for language %q", h.language)
	}

	ops, err := parser.Parse(ctx, window)
	if err != nil {
		h.logger.Warn("grammar parse failed, returning empty spans", "language", h.language, "err", err)
		return nil, nil
	}

	return walkLines(window, ops, start, h.logger), nil
}

// walkLines scans window line-by-line, each time draining the ops that
// fall within that line, and emits spans with absolute offsets (window
// start + relative position). base is the absolute buffer offset window
// starts at.
func walkLines(window []byte, ops []grammar.Op, base int, logger warner) []Span {
	var spans []Span
	var stack []string
	opIdx := 0
	lineStart := 0

	for lineStart < len(window) {
		contentLen, termLen := scanLine(window[lineStart:])
		lineEnd := lineStart + contentLen // exclusive of terminator
		nextLineStart := lineEnd + termLen

		content := window[lineStart:lineEnd]
		if !utf8.Valid(content) {
			logger.Warn("invalid utf-8 in highlighted line, skipping", "offset", base+lineStart)
			lineStart = nextLineStart
			continue
		}

		prevOffset := lineStart
		for opIdx < len(ops) && ops[opIdx].Offset < nextLineStart {
			op := ops[opIdx]
			clamped := op.Offset
			if clamped > lineEnd {
				clamped = lineEnd
			}
			if clamped > prevOffset {
				if cat, ok := scope.StackToCategory(stack); ok {
					spans = append(spans, Span{Start: base + prevOffset, End: base + clamped, Category: cat})
				}
				prevOffset = clamped
			}

			switch op.Kind {
			case grammar.OpPush:
				stack = append(stack, op.Scope)
			case grammar.OpPop:
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			}
			opIdx++
		}

		if lineEnd > prevOffset {
			if cat, ok := scope.StackToCategory(stack); ok {
				spans = append(spans, Span{Start: base + prevOffset, End: base + lineEnd, Category: cat})
			}
		}

		lineStart = nextLineStart
	}

	return spans
}

// scanLine finds the next line terminator starting at the head of data and
// returns (content length excluding terminator, terminator length): 1 for
// a lone "\n" or "\r", 2 for "\r\n", 0 if data has no terminator at all.
func scanLine(data []byte) (contentLen, termLen int) {
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '\n':
			return i, 1
		case '\r':
			if i+1 < len(data) && data[i+1] == '\n' {
				return i, 2
			}
			return i, 1
		}
	}
	return len(data), 0
}

// warner is the subset of *slog.Logger the line walk needs, so tests can
// substitute a no-op without pulling in log/slog.
type warner interface {
	Warn(msg string, args ...any)
}
