package buffer

const wordScanWindow = 1000

// isWordChar reports whether b is an ASCII alphanumeric byte or underscore.
// Word navigation only classifies bytes this way; it is not Unicode-aware.
func isWordChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_'
}

// PrevWordBoundary returns the start of the word to the left of pos,
// scanning at most wordScanWindow bytes backward. Implementers should not
// fall back to a full-buffer scan when the window is exhausted; this is a
// documented heuristic, not a correctness property.
func (b *Buffer) PrevWordBoundary(pos int) int {
	if pos <= 0 {
		return 0
	}
	total := b.TotalBytes()
	pos = clampInt(pos, 0, total)

	start := maxInt(0, pos-wordScanWindow)
	window, err := b.Slice(start, pos-start)
	if err != nil || len(window) == 0 {
		return 0
	}

	newPos := len(window) - 1
	for newPos > 0 && !isWordChar(window[newPos]) {
		newPos--
	}
	for newPos > 0 {
		if isWordChar(window[newPos-1]) != isWordChar(window[newPos]) {
			break
		}
		newPos--
	}
	return start + newPos
}

// NextWordBoundary returns the start of the word to the right of pos,
// scanning at most wordScanWindow bytes forward.
func (b *Buffer) NextWordBoundary(pos int) int {
	total := b.TotalBytes()
	if pos >= total {
		return total
	}
	pos = clampInt(pos, 0, total)

	end := minInt(total, pos+wordScanWindow)
	window, err := b.Slice(pos, end-pos)
	if err != nil {
		return total
	}

	newPos := 0
	for newPos < len(window) && isWordChar(window[newPos]) {
		newPos++
	}
	for newPos < len(window) && !isWordChar(window[newPos]) {
		newPos++
	}
	return pos + newPos
}
