package pipeline

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMemoryWriter(t *testing.T) {
	w := &MemoryWriter{}

	if _, err := w.ReadFile("missing.go"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("ReadFile(missing) error = %v, want fs.ErrNotExist", err)
	}

	data := []byte("package enums")
	if err := w.WriteFile("b.go", data); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data[0] = 'P'
	if err := w.WriteFile("a.go", []byte("a")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := w.ReadFile("b.go")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "package enums" {
		t.Errorf("ReadFile() = %q, want the content as written", got)
	}
	if diff := cmp.Diff([]string{"a.go", "b.go"}, w.Paths()); diff != "" {
		t.Errorf("Paths() mismatch (-want +got):\n%s", diff)
	}

	_ = w.WriteFile("a.go", []byte("again"))
	if w.Writes() != 3 {
		t.Errorf("Writes() = %d, want 3", w.Writes())
	}
}
