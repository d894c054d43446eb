package face

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// File is a registry backed by a JSON snapshot on disk, typically a
// faces.json exported from the editor. The snapshot is loaded once at open;
// height writes update both the in-memory state and the file.
type File struct {
	mu    sync.Mutex
	path  string
	faces []Face
	index map[string]int
}

// fileSnapshot is the on-disk format.
type fileSnapshot struct {
	Faces []Face `json:"faces"`
}

// NewFile opens a file-backed registry. The file must exist and contain a
// valid snapshot; use WriteSnapshot to create one.
func NewFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read faces file: %w", err)
	}

	var snap fileSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse faces file %s: %w", path, err)
	}

	f := &File{path: path, index: make(map[string]int)}
	for _, entry := range snap.Faces {
		if _, dup := f.index[entry.Name]; dup {
			continue
		}
		f.index[entry.Name] = len(f.faces)
		f.faces = append(f.faces, entry)
	}
	return f, nil
}

// WriteSnapshot writes a snapshot file that NewFile can open.
func WriteSnapshot(path string, faces []Face) error {
	data, err := json.MarshalIndent(fileSnapshot{Faces: faces}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal faces: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write faces file: %w", err)
	}
	return nil
}

// List returns face names in file order.
func (f *File) List(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, len(f.faces))
	for i, entry := range f.faces {
		names[i] = entry.Name
	}
	return names, nil
}

// Height returns the explicit height of a face, if it has one.
func (f *File) Height(ctx context.Context, name string) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i, exists := f.index[name]
	if !exists || f.faces[i].Height == nil {
		return 0, false, nil
	}
	return *f.faces[i].Height, true, nil
}

// SetHeight writes an explicit height and persists the snapshot.
// Unknown faces are a silent no-op.
func (f *File) SetHeight(ctx context.Context, name string, height int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	i, exists := f.index[name]
	if !exists {
		return nil
	}
	h := height
	f.faces[i].Height = &h
	return f.persist()
}

// Parent returns the inheritance parent of a face, if it has one.
func (f *File) Parent(ctx context.Context, name string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i, exists := f.index[name]
	if !exists || f.faces[i].Inherit == "" {
		return "", false, nil
	}
	return f.faces[i].Inherit, true, nil
}

// persist writes the current state back to the snapshot file.
// Callers must hold f.mu.
func (f *File) persist() error {
	data, err := json.MarshalIndent(fileSnapshot{Faces: f.faces}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal faces: %w", err)
	}

	// Write-then-rename so a crash mid-write can't corrupt the snapshot.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write faces file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace faces file: %w", err)
	}
	return nil
}

// Path returns the snapshot file path.
func (f *File) Path() string {
	return f.path
}

// Ensure File implements Registry.
var _ Registry = (*File)(nil)
