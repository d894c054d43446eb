package face

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func tempSnapshot(t *testing.T, faces []Face) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "faces.json")
	if err := WriteSnapshot(path, faces); err != nil {
		t.Fatalf("WriteSnapshot error: %v", err)
	}
	return path
}

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := tempSnapshot(t, []Face{
		{Name: "default", Height: intp(140)},
		{Name: "comment", Inherit: "default"},
		{Name: "mode-line", Height: intp(120)},
	})

	reg, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile error: %v", err)
	}

	names, err := reg.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	want := []string{"default", "comment", "mode-line"}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("List[%d] = %q, want %q", i, names[i], name)
		}
	}

	h, ok, _ := reg.Height(ctx, "default")
	if !ok || h != 140 {
		t.Errorf("Height(default) = %d, %v; want 140, true", h, ok)
	}
	p, ok, _ := reg.Parent(ctx, "comment")
	if !ok || p != "default" {
		t.Errorf("Parent(comment) = %q, %v; want default, true", p, ok)
	}
}

func TestFileSetHeightPersists(t *testing.T) {
	ctx := context.Background()
	path := tempSnapshot(t, []Face{{Name: "default", Height: intp(140)}})

	reg, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile error: %v", err)
	}
	if err := reg.SetHeight(ctx, "default", 168); err != nil {
		t.Fatalf("SetHeight error: %v", err)
	}

	// Reopen to prove the write reached disk.
	reopened, err := NewFile(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	h, ok, _ := reopened.Height(ctx, "default")
	if !ok || h != 168 {
		t.Errorf("Height after reopen = %d, %v; want 168, true", h, ok)
	}
}

func TestFileSetHeightUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	path := tempSnapshot(t, []Face{{Name: "default", Height: intp(140)}})

	reg, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile error: %v", err)
	}
	if err := reg.SetHeight(ctx, "ghost", 200); err != nil {
		t.Fatalf("SetHeight on unknown face should not error: %v", err)
	}

	names, _ := reg.List(ctx)
	if len(names) != 1 {
		t.Errorf("unknown-face write should not create a face, have %d", len(names))
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := NewFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("NewFile on a missing path should error")
	}
}

func TestFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faces.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFile(path); err == nil {
		t.Error("NewFile on malformed JSON should error")
	}
}
