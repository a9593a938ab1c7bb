// Command fresh-watch demonstrates the external-edit-to-invalidate-cache
// flow: it loads a file into the text-storage core, watches it for
// writes, and on each external change reloads the buffer and invalidates
// the highlighter cache before reparsing. Each version it loads is also
// pushed onto a bounded snapshot history, the chunk-tree-backed store a
// real editor would use for undo rather than replaying piece-tree deltas.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"fresh/internal/buffer"
	"fresh/internal/config"
	"fresh/internal/grammar"
	"fresh/internal/highlight"
	"fresh/internal/logging"
	"fresh/internal/scope"
	"fresh/internal/snapshot"
)

// maxSnapshotVersions bounds how many past versions of the watched file
// fresh-watch keeps in memory.
const maxSnapshotVersions = 16

var logger *slog.Logger

var extToLanguage = map[string]string{
	".go":  "go",
	".py":  "python",
	".js":  "javascript",
	".mjs": "javascript",
	".jsx": "javascript",
}

func main() {
	logger = logging.Default("fresh-watch")

	fs := flag.NewFlagSet("fresh-watch", flag.ExitOnError)
	fs.Parse(os.Args[1:])
	if fs.NArg() < 1 {
		logger.Error("usage: fresh-watch <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg, err := config.LoadCoreConfigFromEnv()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	lang := extToLanguage[strings.ToLower(filepath.Ext(path))]
	if lang == "" {
		lang = "go"
	}

	registry := grammar.NewRegistry()
	theme := plainTheme{}
	ctx := context.Background()
	h := highlight.New(registry, lang, cfg)

	buf, err := load(path)
	if err != nil {
		logger.Error("initial read failed", "path", path, "err", err)
		os.Exit(1)
	}
	spans := h.HighlightViewport(ctx, buf, 0, buf.TotalBytes(), theme, cfg.DefaultContextBytes)
	logger.Info("initial parse", "path", path, "bytes", buf.TotalBytes(), "spans", len(spans))

	history := snapshot.New(cfg.LeafSize, maxSnapshotVersions)
	history.Push(buf.GetAll())

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("create watcher", "err", err)
		os.Exit(1)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		logger.Error("watch path", "path", path, "err", err)
		os.Exit(1)
	}

	logger.Info("watching for external edits", "path", path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			newBuf, err := load(path)
			if err != nil {
				logger.Warn("reload after edit failed", "path", path, "err", err)
				continue
			}
			buf = newBuf
			h.InvalidateAll()
			history.Push(buf.GetAll())

			spans := h.HighlightViewport(ctx, buf, 0, buf.TotalBytes(), theme, cfg.DefaultContextBytes)
			logger.Info("reparsed after external edit", "bytes", buf.TotalBytes(), "spans", len(spans), "history_versions", history.Len())

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", "err", watchErr)
		}
	}
}

func load(path string) (*buffer.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return buffer.New(data), nil
}

type plainTheme struct{}

func (plainTheme) Color(category scope.Category) highlight.Color {
	return highlight.Color(category.String())
}
