// Package jsonfile persists a ledger snapshot as a single JSON document.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"expensetracker/internal/core"
)

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the snapshot. A missing file is an empty ledger; undecodable
// content is reported as core.ErrCorruptData.
func (s *Store) Load(_ context.Context) (core.Snapshot, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.Snapshot{}.Normalize(), nil
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	var snap core.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: %s: %v", core.ErrCorruptData, s.path, err)
	}
	return snap.Normalize(), nil
}

// Save replaces the file atomically: the snapshot is written to a temp
// file in the same directory, synced, then renamed over the target.
func (s *Store) Save(_ context.Context, snap core.Snapshot) error {
	b, err := json.MarshalIndent(snap.Normalize(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	b = append(b, '\n')
	return writeAtomic(s.path, b)
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = bytes.NewReader(data).WriteTo(tmp); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
