package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileSource watches a single file. The parent directory is watched rather
// than the file itself because browsers and editors save by writing a new
// file and renaming it over the old one.
type FileSource struct {
	path   string
	logger *slog.Logger
}

func NewFileSource(path string, logger *slog.Logger) *FileSource {
	return &FileSource{path: filepath.Clean(path), logger: logger}
}

func (f *FileSource) Name() string { return f.path }

func (f *FileSource) Run(ctx context.Context, notify func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(f.path), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != f.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				f.logger.Debug("source changed", "path", f.path, "op", ev.Op.String())
				notify()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("watcher error", "path", f.path, "error", err)
		}
	}
}

func (f *FileSource) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSkip
	}
	return data, err
}
