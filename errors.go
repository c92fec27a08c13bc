package iniconf

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax indicates a line that matches no grammar production.
	ErrSyntax = errors.New("syntax error")
	// ErrUnexpectedContinuation indicates a continuation line with no preceding key.
	ErrUnexpectedContinuation = errors.New("unexpected continuation line")
	// ErrUnterminatedQuote indicates a value whose quoted part is never closed.
	ErrUnterminatedQuote = errors.New("unterminated quoted value")
	// ErrNamespaceConflict indicates a key that is a section on one side and a value on the other.
	ErrNamespaceConflict = errors.New("value-namespace conflict")
	// ErrResource indicates a config file that could not be opened or decoded.
	ErrResource = errors.New("failed to read config")
	// ErrInvalidKey indicates an empty key or dotted path.
	ErrInvalidKey = errors.New("invalid key")
)

// SyntaxError reports a malformed line. Lineno is zero-based, Column is
// always 0 since errors are reported per line.
type SyntaxError struct {
	Filename string
	Lineno   int
	Column   int
	Text     string
	Err      error
}

func (e *SyntaxError) Error() string {
	msg := "invalid line"
	if e.Err != nil && !errors.Is(e.Err, ErrSyntax) {
		msg = e.Err.Error()
	}

	return fmt.Sprintf("%s:%d: %s: %q", e.Filename, e.Lineno+1, msg, e.Text)
}

// Unwrap returns both ErrSyntax and the underlying cause.
func (e *SyntaxError) Unwrap() []error {
	if e.Err == nil || e.Err == ErrSyntax { //nolint:errorlint
		return []error{ErrSyntax}
	}

	return []error{ErrSyntax, e.Err}
}

// NamespaceConflictError reports a key used both as a section and as a value.
// Origin is empty when the conflict came from a programmatic merge.
type NamespaceConflictError struct {
	Key    string
	Origin Origin
}

func (e *NamespaceConflictError) Error() string {
	if e.Origin.IsZero() {
		return fmt.Sprintf("%s: %q", ErrNamespaceConflict, e.Key)
	}

	return fmt.Sprintf("%s: %s: %q", e.Origin, ErrNamespaceConflict, e.Key)
}

func (e *NamespaceConflictError) Unwrap() error {
	return ErrNamespaceConflict
}

// ResourceError reports a config file that could not be opened or read.
type ResourceError struct {
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrResource, e.Path, e.Err)
}

// Unwrap returns both ErrResource and the underlying cause, so callers can
// test for fs.ErrNotExist.
func (e *ResourceError) Unwrap() []error {
	return []error{ErrResource, e.Err}
}
