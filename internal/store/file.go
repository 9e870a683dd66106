package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// File persists the key-value state as a single JSON document on disk.
// Writes go to a temp file first and are swapped in with rename, so an
// interrupted write never corrupts the previous state.
type File struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// NewFile loads existing state from path, or starts empty if the file
// does not exist yet.
func NewFile(path string) (*File, error) {
	f := &File{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if err := json.Unmarshal(raw, &f.data); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[key], nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return f.flush()
}

func (f *File) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = make(map[string]string)
	return f.flush()
}

func (f *File) Close() error { return nil }

// flush writes the full document atomically. Caller holds f.mu.
func (f *File) flush() error {
	tmp := f.path + ".tmp"

	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f.data); err != nil {
		out.Close()
		return fmt.Errorf("encode state: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	return os.Rename(tmp, f.path)
}
