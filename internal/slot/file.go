package slot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/geoboard/leaderboard/internal/geoguessr"
)

// FileStore persists the slot as a JSON file so it survives restarts.
// Writes go to a temp file in the same directory and are renamed into place.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Get(_ context.Context) (geoguessr.GameSummary, error) {
	var s geoguessr.GameSummary
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, ErrEmpty
	}
	if err != nil {
		return s, fmt.Errorf("reading slot: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decoding slot: %w", err)
	}
	return s, nil
}

func (f *FileStore) Set(_ context.Context, s geoguessr.GameSummary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding slot: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating slot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".slot-*")
	if err != nil {
		return fmt.Errorf("creating temp slot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing slot: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing slot: %w", err)
	}
	return nil
}

func (f *FileStore) Clear(_ context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing slot: %w", err)
	}
	return nil
}
