package record

import (
	"errors"
	"fmt"

	"github.com/nao1215/jsonlscan/internal/model"
)

var (
	// ErrSyntax matches parse errors for lines that are not valid JSON.
	ErrSyntax = errors.New("invalid JSON")

	// ErrNotObject matches parse errors for valid JSON whose top level
	// is not an object.
	ErrNotObject = errors.New("top-level JSON value is not an object")
)

// ParseError describes why a line could not be parsed into an object.
type ParseError struct {
	// Kind classifies the failure.
	Kind model.FailureKind

	// Err is the underlying decoder error. It is nil for
	// model.FailureNotObject and may be nil for model.FailureSyntax.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.sentinel(), e.Err)
	}
	return e.sentinel().Error()
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrSyntax and ErrNotObject.
func (e *ParseError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *ParseError) sentinel() error {
	if e.Kind == model.FailureNotObject {
		return ErrNotObject
	}
	return ErrSyntax
}

// FailureKind extracts the failure kind from err.
// It returns model.FailureSyntax for errors that are not a *ParseError.
func FailureKind(err error) model.FailureKind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return model.FailureSyntax
}
