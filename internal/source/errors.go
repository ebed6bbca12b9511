package source

import (
	"errors"
	"fmt"
)

var (
	// ErrFileAccess matches every *FileAccessError.
	ErrFileAccess = errors.New("file access error")

	// ErrUnknownCompression is returned for an unsupported compression name.
	ErrUnknownCompression = errors.New("unknown compression")
)

// FileAccessError reports that an input could not be opened or read.
type FileAccessError struct {
	// Path is the source name.
	Path string

	// Op is the failed operation: "open", "read" or "decompress".
	Op string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error so that errors.Is(err, fs.ErrNotExist)
// works as expected.
func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrFileAccess.
func (e *FileAccessError) Is(target error) bool {
	return target == ErrFileAccess
}
