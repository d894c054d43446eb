package face

import (
	"context"
	"sync"
)

// Memory is an in-memory registry. It preserves insertion order for stable
// enumeration and is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	order []string
	faces map[string]*record
}

type record struct {
	height *int
	parent string
}

// NewMemory creates an in-memory registry seeded with the given faces.
// Later duplicates replace earlier entries without changing their position.
func NewMemory(faces ...Face) *Memory {
	m := &Memory{faces: make(map[string]*record)}
	for _, f := range faces {
		m.Put(f)
	}
	return m
}

// Put adds or replaces a face.
func (m *Memory) Put(f Face) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.faces[f.Name]
	if !exists {
		rec = &record{}
		m.faces[f.Name] = rec
		m.order = append(m.order, f.Name)
	}
	if f.Height != nil {
		h := *f.Height
		rec.height = &h
	} else {
		rec.height = nil
	}
	rec.parent = f.Inherit
}

// List returns face names in insertion order.
func (m *Memory) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.order))
	copy(names, m.order)
	return names, nil
}

// Height returns the explicit height of a face, if it has one.
func (m *Memory) Height(ctx context.Context, name string) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, exists := m.faces[name]
	if !exists || rec.height == nil {
		return 0, false, nil
	}
	return *rec.height, true, nil
}

// SetHeight writes an explicit height. Unknown faces are a silent no-op.
func (m *Memory) SetHeight(ctx context.Context, name string, height int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.faces[name]
	if !exists {
		return nil
	}
	h := height
	rec.height = &h
	return nil
}

// Parent returns the inheritance parent of a face, if it has one.
func (m *Memory) Parent(ctx context.Context, name string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, exists := m.faces[name]
	if !exists || rec.parent == "" {
		return "", false, nil
	}
	return rec.parent, true, nil
}

// Ensure Memory implements Registry.
var _ Registry = (*Memory)(nil)
