package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

type fileEntry struct {
	Value   string `json:"value"`
	Version int64  `json:"version"`
}

// FileKV persists the whole mapping as one JSON document, the closest Go
// rendering of the source's browser-local storage. Writes go through a temp
// file and rename so a crash mid-write never leaves a torn document.
type FileKV struct {
	mu      sync.Mutex
	path    string
	entries map[string]fileEntry
	logger  zerolog.Logger
}

func NewFileKV(path string, logger zerolog.Logger) (*FileKV, error) {
	kv := &FileKV{
		path:    path,
		entries: make(map[string]fileEntry),
		logger:  logger,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return kv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}

	// Malformed state is treated as empty, never as a fatal parse error.
	if err := json.Unmarshal(data, &kv.entries); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("store file is malformed, starting empty")
		kv.entries = make(map[string]fileEntry)
	}
	return kv, nil
}

func (f *FileKV) Get(_ context.Context, key string) (string, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[key]
	if !ok {
		return "", 0, nil
	}
	return e.Value, e.Version, nil
}

func (f *FileKV) Put(_ context.Context, key, value string, version int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	current := f.entries[key].Version
	if version != current {
		return 0, ErrVersionConflict
	}

	next := current + 1
	prev, had := f.entries[key]
	f.entries[key] = fileEntry{Value: value, Version: next}

	if err := f.flushLocked(); err != nil {
		if had {
			f.entries[key] = prev
		} else {
			delete(f.entries, key)
		}
		return 0, err
	}
	return next, nil
}

func (f *FileKV) flushLocked() error {
	data, err := json.MarshalIndent(f.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

func (f *FileKV) Close() error {
	return nil
}
