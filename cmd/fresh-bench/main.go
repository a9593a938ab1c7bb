// Command fresh-bench walks a directory tree, loads every recognized
// source file into the text-storage core, and drives the viewport
// highlighter across simulated scroll positions, reporting how long the
// pass took.
package main

import (
	"context"
	"flag"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	ignore "github.com/sabhiram/go-gitignore"

	"fresh/internal/buffer"
	"fresh/internal/config"
	"fresh/internal/grammar"
	"fresh/internal/highlight"
	"fresh/internal/logging"
	"fresh/internal/piecetree"
	"fresh/internal/scope"
	"fresh/internal/telemetry"
)

var logger *slog.Logger

const version = "0.1.0"

var extToLanguage = map[string]string{
	".go":  "go",
	".py":  "python",
	".js":  "javascript",
	".mjs": "javascript",
	".jsx": "javascript",
}

func main() {
	logger = logging.Default("fresh-bench")

	if len(os.Args) > 1 && (os.Args[1] == "version" || os.Args[1] == "-version") {
		fmt.Printf("fresh-bench v%s\n", version)
		return
	}

	fs := flag.NewFlagSet("fresh-bench", flag.ExitOnError)
	viewportLines := fs.Int("viewport-lines", 100, "simulated viewport size, in lines")
	contextBytes := fs.Int("context-bytes", 0, "override the default highlighter context window, in bytes")
	jsonOutput := fs.Bool("json", false, "emit machine-readable output regardless of TTY detection")
	statsDSN := fs.String("stats-dsn", "", "telemetry store DSN to record per-file stats into (sqlite path, sqlite://path, or postgres://...); empty disables recording")
	fs.Parse(os.Args[1:])

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	cfg, err := config.LoadCoreConfigFromEnv()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}
	if *contextBytes > 0 {
		cfg.DefaultContextBytes = *contextBytes
	}

	ctx := context.Background()
	var store *telemetry.Store
	if *statsDSN != "" {
		store, err = telemetry.Open(ctx, *statsDSN)
		if err != nil {
			logger.Error("open telemetry store", "err", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	matcher := loadIgnore(root)
	registry := grammar.NewRegistry()
	theme := plainTheme{}

	var filesScanned, bytesScanned, spansEmitted int
	started := time.Now()

	err = filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr == nil && matcher != nil && matcher.MatchesPath(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		lang, ok := extToLanguage[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}

		n, spans, err := benchFile(ctx, registry, theme, cfg, store, path, lang, *viewportLines)
		if err != nil {
			logger.Warn("skipping file", "path", path, "err", err)
			return nil
		}
		filesScanned++
		bytesScanned += n
		spansEmitted += spans
		return nil
	})
	if err != nil {
		logger.Error("walk failed", "err", err)
		os.Exit(1)
	}

	elapsed := time.Since(started)
	report(*jsonOutput, filesScanned, bytesScanned, spansEmitted, elapsed)
}

func benchFile(ctx context.Context, registry *grammar.Registry, theme highlight.Theme, cfg config.CoreConfig, store *telemetry.Store, path, lang string, viewportLines int) (bytesRead, spansEmitted int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}

	buf := buffer.New(data)
	h := highlight.New(registry, lang, cfg)

	started := time.Now()
	lineCount := buf.LineCount()
	for startLine := 0; startLine < lineCount; startLine += viewportLines {
		endLine := startLine + viewportLines
		if endLine > lineCount {
			endLine = lineCount
		}
		vpStart := buf.PositionToOffset(piecetree.Position{Line: startLine})
		vpEnd := buf.PositionToOffset(piecetree.Position{Line: endLine})
		if endLine >= lineCount {
			vpEnd = buf.TotalBytes()
		}

		spans := h.HighlightViewport(ctx, buf, vpStart, vpEnd, theme, cfg.DefaultContextBytes)
		spansEmitted += len(spans)
	}

	if store != nil {
		stat := telemetry.SessionStat{
			ContentHash:  telemetry.HashContent(data),
			Language:     lang,
			BytesParsed:  len(data),
			SpansEmitted: spansEmitted,
			Duration:     time.Since(started),
		}
		if err := store.RecordHighlight(ctx, stat); err != nil {
			logger.Warn("record telemetry", "path", path, "err", err)
		}
	}

	return len(data), spansEmitted, nil
}

func loadIgnore(root string) *ignore.GitIgnore {
	m, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return m
}

func report(jsonOutput bool, files, bytesScanned, spans int, elapsed time.Duration) {
	if !jsonOutput && isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Printf("scanned %d files (%s) in %s, %d spans emitted\n",
			files, humanize.Bytes(uint64(bytesScanned)), elapsed.Round(time.Millisecond), spans)
		return
	}
	fmt.Printf("{\"files\":%d,\"bytes\":%d,\"spans\":%d,\"elapsed_ns\":%d}\n", files, bytesScanned, spans, elapsed.Nanoseconds())
}

// plainTheme resolves every category to a fixed ANSI-ish label; fresh-bench
// cares about throughput, not rendering, so it needs only a Theme that
// satisfies the interface.
type plainTheme struct{}

func (plainTheme) Color(category scope.Category) highlight.Color {
	return highlight.Color(category.String())
}
