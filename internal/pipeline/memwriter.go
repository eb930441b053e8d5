package pipeline

import (
	"bytes"
	"io/fs"
	"slices"
	"sync"
)

// MemoryWriter keeps written files in memory. It implements Reader, so the
// pipeline's unchanged-file check works against it.
type MemoryWriter struct {
	mu     sync.RWMutex
	files  map[string][]byte
	writes int
}

var (
	_ Writer = (*MemoryWriter)(nil)
	_ Reader = (*MemoryWriter)(nil)
)

// WriteFile stores a copy of data.
func (m *MemoryWriter) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[path] = bytes.Clone(data)
	m.writes++
	return nil
}

// ReadFile returns the stored content, or an error wrapping fs.ErrNotExist.
func (m *MemoryWriter) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrNotExist}
	}
	return bytes.Clone(data), nil
}

// Paths returns the stored paths in sorted order.
func (m *MemoryWriter) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Writes returns how many WriteFile calls were made.
func (m *MemoryWriter) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.writes
}
