// Package repository implements the append-only JSONL sink for interaction
// records. One record per line; every line parses independently.
package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Sink appends interaction records to per-kind JSONL files under one
// directory. Appends are serialized so concurrent records never interleave
// within a line.
type Sink struct {
	mu  sync.Mutex
	dir string
}

// NewSink creates the log directory if needed and returns the sink.
func NewSink(dir string) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create interaction log dir: %w", err)
	}
	return &Sink{dir: dir}, nil
}

// Dir returns the sink's base directory.
func (s *Sink) Dir() string {
	return s.dir
}

// Append marshals the record and durably appends it as one line to the
// named file. The record is on disk before Append returns.
func (s *Sink) Append(file string, record any) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal interaction record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, file)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append to %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	return nil
}
