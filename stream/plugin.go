package stream

import (
	"errors"
	"fmt"
	"io"
)

// Namespace is the namespace of the default stream plugins.
const Namespace = "holland.stream"

var (
	// ErrNoPlugin indicates that no plugin is registered for a method.
	ErrNoPlugin = errors.New("no stream plugin")
	// ErrOpen indicates that a plugin was found but failed to open the stream.
	ErrOpen = errors.New("failed to open stream")
	// ErrMode indicates an operation not supported by the mode a stream was opened with.
	ErrMode = errors.New("operation not supported in this mode")
)

// Mode selects whether a stream is opened for reading or writing.
type Mode int

const (
	// ModeRead opens an existing stream for reading.
	ModeRead Mode = iota
	// ModeWrite creates or truncates a stream for writing.
	ModeWrite
)

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "r"
	case ModeWrite:
		return "w"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Options are plugin specific settings, e.g. "level" for gzip.
type Options map[string]string

// Stream is an open file-like handle. Streams opened for reading fail
// writes with ErrMode and vice versa.
type Stream interface {
	io.Reader
	io.Writer
	io.Closer
}

// Info describes a stream a plugin would open.
type Info struct {
	Name        string
	Method      string
	Extension   string
	Description string
}

// Plugin opens streams.
type Plugin interface {
	Name() string
	Aliases() []string
	Open(name string, mode Mode, opts Options) (Stream, error)
	Info(name string, opts Options) Info
}

type readOnly struct {
	io.ReadCloser
}

func (readOnly) Write([]byte) (int, error) {
	return 0, ErrMode
}

type writeOnly struct {
	io.WriteCloser
}

func (writeOnly) Read([]byte) (int, error) {
	return 0, ErrMode
}
