package source

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Source is a named input that can be opened for reading.
type Source interface {
	// Name identifies the source in reports and history.
	Name() string

	// Open returns a reader over the raw (possibly compressed) bytes.
	Open() (io.ReadCloser, error)
}

// FileSource reads from a file on disk.
type FileSource struct {
	path string
}

// NewFileSource creates a Source for the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the base name of the file.
func (s *FileSource) Name() string {
	return filepath.Base(s.path)
}

// Path returns the path the source was created with.
func (s *FileSource) Path() string {
	return s.path
}

// Open opens the file. Failures are returned as *FileAccessError.
func (s *FileSource) Open() (io.ReadCloser, error) {
	f, err := os.Open(s.path) //nolint:gosec // user-provided input path is intentional
	if err != nil {
		return nil, &FileAccessError{Path: s.path, Op: "open", Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, &FileAccessError{Path: s.path, Op: "open", Err: err}
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, &FileAccessError{Path: s.path, Op: "open", Err: errIsDirectory}
	}

	return f, nil
}

// MemorySource serves bytes held in memory. It is mainly useful for tests
// and for callers that already have the data.
type MemorySource struct {
	name string
	data []byte
}

// NewMemorySource creates a Source over the given lines joined by newlines.
func NewMemorySource(name string, lines ...string) *MemorySource {
	return NewMemorySourceBytes(name, []byte(strings.Join(lines, "\n")))
}

// NewMemorySourceBytes creates a Source over data.
func NewMemorySourceBytes(name string, data []byte) *MemorySource {
	return &MemorySource{name: name, data: data}
}

// Name returns the name given at construction.
func (s *MemorySource) Name() string {
	return s.name
}

// Open returns a reader over the in-memory data.
func (s *MemorySource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}
