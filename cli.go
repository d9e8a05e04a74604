package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/metcalfc/skim/internal/config"
	"github.com/metcalfc/skim/internal/document"
	"github.com/metcalfc/skim/internal/state"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	errNoInput = errors.New("no input provided. Provide a file or pipe text to stdin")
	errNoText  = errors.New("no text to read")
)

// loadConfig reads the named settings file, or the default one when path
// is empty.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// readInput loads the named file, or Markdown from stdin when name is
// empty. It also returns the key the reading position is saved under.
func readInput(name string, stdin *os.File, logger *slog.Logger) (*document.Document, string, error) {
	var doc *document.Document
	var hash string

	if name != "" {
		var err error
		doc, err = document.Open(name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read file '%s': %w", name, err)
		}
		hash, err = state.ComputeHash(name)
		if err != nil {
			logger.Warn("hash file", slog.Any("err", err))
		}
	} else {
		stat, err := stdin.Stat()
		if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
			return nil, "", errNoInput
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("error reading stdin: %w", err)
		}
		doc = document.ParseMarkdown(data)
		if doc.Title == "" {
			doc.Title = "stdin"
		}
		hash = state.HashBytes(data)
	}

	if doc.WordCount() == 0 {
		return nil, "", errNoText
	}
	return doc, hash, nil
}

// openStore returns the saved-position store and the position to resume
// from, if any. With fresh set the saved position is dropped.
func openStore(hash string, fresh bool, logger *slog.Logger) (*state.StateStore, *state.Position) {
	store, err := state.NewStateStore()
	if err != nil {
		logger.Warn("state store unavailable", slog.Any("err", err))
		return nil, nil
	}
	if hash == "" {
		return store, nil
	}
	if fresh {
		if err := store.Clear(hash); err != nil {
			logger.Warn("clear position", slog.Any("err", err))
		}
		return store, nil
	}
	if pos, ok := store.GetPosition(hash); ok {
		return store, &pos
	}
	return store, nil
}

func printTOC(w io.Writer, doc *document.Document) {
	for _, h := range doc.Headings() {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", max(h.Level-1, 0)), h.Text)
	}
}

func printFormats(w io.Writer) {
	fmt.Fprintf(w, "\nFormats:\n")
	for _, f := range document.SupportedFormats() {
		fmt.Fprintf(w, "  %s\n", f)
	}
}
