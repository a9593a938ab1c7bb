package highlight

import (
	"context"
	"log/slog"
	"sync"

	"fresh/internal/buffer"
	"fresh/internal/config"
	"fresh/internal/grammar"
	"fresh/internal/logging"
	"fresh/internal/scope"
)

// Color is an opaque value a Theme resolves a Category into. The core
// never interprets it; it only carries it from parser output to caller.
type Color string

// Theme is the external collaborator that resolves a Category into a
// renderable Color.
type Theme interface {
	Color(category scope.Category) Color
}

// ColoredSpan is one entry of HighlightViewport's result: a byte range and
// the color it should render in.
type ColoredSpan struct {
	Start int
	End   int
	Color Color
}

// cacheEntry is the highlighter's last computed parse, wholesale replaced
// on every cache miss.
type cacheEntry struct {
	rangeStart    int
	rangeEnd      int
	spans         []Span
	lastBufferLen int
}

// Highlighter resolves viewport byte ranges to colors, backed by a
// grammar registry and a single-entry cache keyed on parse range and
// buffer length. Its exported methods serialize on an internal mutex, so
// concurrent calls do not race on the cache; the buffer passed in is read
// without locking and must not be mutated during a call.
type Highlighter struct {
	mu sync.Mutex

	registry *grammar.Registry
	language string
	cfg      config.CoreConfig
	logger   *slog.Logger

	cache *cacheEntry
}

// New returns a Highlighter for language, backed by registry, using cfg's
// MaxParseBytes cap.
func New(registry *grammar.Registry, language string, cfg config.CoreConfig) *Highlighter {
	return &Highlighter{
		registry: registry,
		language: language,
		cfg:      cfg,
		logger:   logging.Default("highlight"),
	}
}

// HighlightViewport resolves [vpStart, vpEnd) to colored spans. On a cache
// hit (an existing parse covers the viewport and the buffer hasn't
// changed length since) it filters the cached spans; on a miss it
// reparses [vpStart-contextBytes, vpEnd+contextBytes), replaces the cache,
// and filters the fresh spans. Returns nil for an empty or oversize
// viewport rather than failing.
func (h *Highlighter) HighlightViewport(ctx context.Context, buf *buffer.Buffer, vpStart, vpEnd int, theme Theme, contextBytes int) []ColoredSpan {
	h.mu.Lock()
	defer h.mu.Unlock()

	total := buf.TotalBytes()
	vpStart = clampInt(vpStart, 0, total)
	vpEnd = clampInt(vpEnd, 0, total)
	if vpStart >= vpEnd {
		return nil
	}

	if h.cache != nil && h.cache.rangeStart <= vpStart && h.cache.rangeEnd >= vpEnd && h.cache.lastBufferLen == total {
		return h.resolve(filterOverlapping(h.cache.spans, vpStart, vpEnd), theme)
	}

	parseStart := maxInt(0, vpStart-contextBytes)
	parseEnd := minInt(total, vpEnd+contextBytes)
	if parseEnd-parseStart > h.cfg.MaxParseBytes {
		h.logger.Warn("viewport parse region exceeds cap, returning empty spans",
			"requested_bytes", parseEnd-parseStart, "max_parse_bytes", h.cfg.MaxParseBytes)
		return nil
	}

	spans, err := h.parseRegion(ctx, buf, parseStart, parseEnd)
	if err != nil {
		h.logger.Warn("parse region failed, returning empty spans", "err", err)
		return nil
	}
	spans = mergeAdjacentSpans(spans)

	h.cache = &cacheEntry{rangeStart: parseStart, rangeEnd: parseEnd, spans: spans, lastBufferLen: total}
	return h.resolve(filterOverlapping(spans, vpStart, vpEnd), theme)
}

func (h *Highlighter) resolve(spans []Span, theme Theme) []ColoredSpan {
	if len(spans) == 0 {
		return nil
	}
	out := make([]ColoredSpan, len(spans))
	for i, s := range spans {
		out[i] = ColoredSpan{Start: s.Start, End: s.End, Color: theme.Color(s.Category)}
	}
	return out
}

// InvalidateRange drops the cache if edit overlaps the cached parse range.
func (h *Highlighter) InvalidateRange(editStart, editEnd int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cache == nil {
		return
	}
	if editStart < h.cache.rangeEnd && h.cache.rangeStart < editEnd {
		h.cache = nil
	}
}

// InvalidateAll drops the cache unconditionally.
func (h *Highlighter) InvalidateAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cache = nil
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
