package save

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrSlotNotFound is returned when a named slot holds no save.
var ErrSlotNotFound = errors.New("save slot not found")

// ErrInvalidSlot is returned for slot names that are empty or contain
// path separators.
var ErrInvalidSlot = errors.New("invalid save slot name")

// Slot describes one stored save.
type Slot struct {
	Name      string
	UpdatedAt time.Time
}

// Store keeps serialized saves under slot names.
type Store interface {
	Put(ctx context.Context, slot string, data []byte) error
	Get(ctx context.Context, slot string) ([]byte, error)
	List(ctx context.Context) ([]Slot, error)
	Delete(ctx context.Context, slot string) error
	Close() error
}

// ValidSlot reports whether a slot name is usable.
func ValidSlot(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// FileStore keeps one JSON file per slot in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on
// the first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (f *FileStore) path(slot string) string {
	return filepath.Join(f.dir, slot+".json")
}

// Put writes a slot, replacing any previous contents.
func (f *FileStore) Put(_ context.Context, slot string, data []byte) error {
	if !ValidSlot(slot) {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("creating save dir: %w", err)
	}
	tmp := f.path(slot) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing slot %q: %w", slot, err)
	}
	if err := os.Rename(tmp, f.path(slot)); err != nil {
		return fmt.Errorf("writing slot %q: %w", slot, err)
	}
	return nil
}

// Get reads a slot.
func (f *FileStore) Get(_ context.Context, slot string) ([]byte, error) {
	if !ValidSlot(slot) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	data, err := os.ReadFile(f.path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrSlotNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %q: %w", slot, err)
	}
	return data, nil
}

// List returns every slot, most recently written first.
func (f *FileStore) List(_ context.Context) ([]Slot, error) {
	entries, err := os.ReadDir(f.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	var slots []Slot
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if e.IsDir() || !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		slots = append(slots, Slot{Name: name, UpdatedAt: info.ModTime()})
	}
	sortSlots(slots)
	return slots, nil
}

// Delete removes a slot.
func (f *FileStore) Delete(_ context.Context, slot string) error {
	if !ValidSlot(slot) {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	err := os.Remove(f.path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrSlotNotFound, slot)
	}
	return err
}

// Close is a no-op.
func (f *FileStore) Close() error { return nil }

func sortSlots(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].UpdatedAt.Equal(slots[j].UpdatedAt) {
			return slots[i].UpdatedAt.After(slots[j].UpdatedAt)
		}
		return slots[i].Name < slots[j].Name
	})
}
