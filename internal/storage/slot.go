// Package storage provides the durable slot abstraction the record stores
// persist into, plus the in-process change broadcast consumers subscribe to.
//
// A slot is a single named location holding one serialized collection. Stores
// read it once at construction and rewrite it wholesale on every mutation.
// Concurrent writers (several processes sharing a file or redis key) resolve
// last-write-wins; the admin surface is single-operator, so this is a
// documented limitation rather than an invariant.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Slot names, fixed per store type so the two collections never collide.
const (
	SlotReservations  = "reservations"
	SlotNotifications = "notifications"
)

// ErrNotFound keeps record lookups consistent across the reservation and
// notification stores.
var ErrNotFound = errors.New("record not found")

// Slot is one durable storage location. Load reports ok=false when the slot
// has never been written.
type Slot interface {
	Load(ctx context.Context) (data []byte, ok bool, err error)
	Save(ctx context.Context, data []byte) error
}

// FileSlot stores the collection as a single JSON file under a data
// directory. Saves go through a temp file and rename so readers never observe
// a partial write.
type FileSlot struct {
	dir  string
	name string
}

func NewFileSlot(dir, name string) *FileSlot {
	return &FileSlot{dir: dir, name: name}
}

func (s *FileSlot) path() string {
	return filepath.Join(s.dir, s.name+".json")
}

func (s *FileSlot) Load(_ context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read slot %s: %w", s.name, err)
	}
	return data, true, nil
}

func (s *FileSlot) Save(_ context.Context, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, s.name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("write slot %s: %w", s.name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write slot %s: %w", s.name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write slot %s: %w", s.name, err)
	}
	if err := os.Rename(tmp.Name(), s.path()); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write slot %s: %w", s.name, err)
	}
	return nil
}

// MemorySlot keeps the serialized collection in process memory. Used by tests
// and by surfaces that do not need cross-session durability.
type MemorySlot struct {
	mu      sync.Mutex
	data    []byte
	written bool
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Load(_ context.Context) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.written {
		return nil, false, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, true, nil
}

func (s *MemorySlot) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data[:0:0], data...)
	s.written = true
	return nil
}
