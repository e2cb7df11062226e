package pimapper

import (
	"errors"
	"fmt"
)

// Error kinds. Every typed error below matches one of these with errors.Is.
var (
	ErrValidation         = errors.New("pimapper: validation failed")
	ErrIndexOutOfRange    = errors.New("pimapper: index out of range")
	ErrNotFound           = errors.New("pimapper: not found")
	ErrMediaLoad          = errors.New("pimapper: media load failed")
	ErrDegenerateGeometry = errors.New("pimapper: degenerate quad geometry")
)

// ValidationError reports a rejected argument: a wrong vertex or texture
// coordinate count, an invalid mode, an unknown surface or source kind.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("pimapper: invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IndexError reports an index outside [0, Len). It is also a validation
// failure.
type IndexError struct {
	What  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("pimapper: %s index %d out of range [0, %d)", e.What, e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange || target == ErrValidation
}

// NotFoundError reports a media path that is not registered.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pimapper: media %q is not loaded", e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MediaLoadError reports a failure to open or decode a media file. The
// source is left unregistered.
type MediaLoadError struct {
	Path string
	Kind SourceType
	Err  error
}

func (e *MediaLoadError) Error() string {
	return fmt.Sprintf("pimapper: load %s %q: %v", e.Kind, e.Path, e.Err)
}

func (e *MediaLoadError) Is(target error) bool {
	return target == ErrMediaLoad
}

func (e *MediaLoadError) Unwrap() error {
	return e.Err
}

func checkIndex(what string, i, n int) error {
	if i < 0 || i >= n {
		return &IndexError{What: what, Index: i, Len: n}
	}
	return nil
}
