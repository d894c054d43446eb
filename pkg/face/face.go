// Package face defines the face model and the registry adapter that the
// scaling engine operates against.
//
// A face is a named visual style owned by the host editor. Only two of its
// attributes matter here: an optional explicit height and an optional
// inheritance link to a parent face. Faces are never created or destroyed by
// facezoom - registries only read and rewrite explicit heights.
//
// # Backends
//
// The Registry interface has four implementations:
//   - memory: In-memory table for tests and the built-in demo set
//   - file: JSON snapshot (faces.json) exported by the editor
//   - redis: Redis-backed table for daemon mode with multiple clients
//   - mongo: MongoDB-backed table as the alternative remote store
//
// All backends treat SetHeight on an unknown face as a silent no-op, matching
// the host editor's behavior of ignoring writes to unregistered faces.
package face

import "context"

// Face is a snapshot of one registered face.
type Face struct {
	// Name uniquely identifies the face within the registry.
	Name string `json:"name"`

	// Height is the explicit height in editor units (roughly point size x10).
	// Nil means the face inherits its height.
	Height *int `json:"height,omitempty"`

	// Inherit names the parent face, or is empty for no inheritance link.
	// It is a lookup by name; the parent may not exist.
	Inherit string `json:"inherit,omitempty"`
}

// HasHeight reports whether the face carries an explicit height.
func (f Face) HasHeight() bool {
	return f.Height != nil
}

// Registry is the adapter between the scaling engine and wherever faces
// actually live. Enumeration order from List is stable within a single call
// but not guaranteed across calls.
type Registry interface {
	// List returns the names of all registered faces.
	List(ctx context.Context) ([]string, error)

	// Height returns the face's explicit height. ok is false when the face
	// does not exist or relies purely on inheritance.
	Height(ctx context.Context, name string) (height int, ok bool, err error)

	// SetHeight writes an explicit height. Writing to an unknown face is a
	// silent no-op.
	SetHeight(ctx context.Context, name string, height int) error

	// Parent returns the face this face inherits from. ok is false when the
	// face does not exist or has no inheritance link.
	Parent(ctx context.Context, name string) (parent string, ok bool, err error)
}

// Snapshot reads every face from the registry in enumeration order.
func Snapshot(ctx context.Context, reg Registry) ([]Face, error) {
	names, err := reg.List(ctx)
	if err != nil {
		return nil, err
	}

	faces := make([]Face, 0, len(names))
	for _, name := range names {
		f := Face{Name: name}
		if h, ok, err := reg.Height(ctx, name); err != nil {
			return nil, err
		} else if ok {
			f.Height = &h
		}
		if p, ok, err := reg.Parent(ctx, name); err != nil {
			return nil, err
		} else if ok {
			f.Inherit = p
		}
		faces = append(faces, f)
	}
	return faces, nil
}
