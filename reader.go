package iniconf

import (
	"io"
	"os"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
)

// OpenFunc opens a named config source for reading.
type OpenFunc func(name string) (io.ReadCloser, error)

// Reader reads and parses config files. The zero value is ready to use and
// reads UTF-8 files from the local file system.
//
// The transform hooks are applied while parsing:
//   - KeyTransform to every key (default: unchanged)
//   - SectionTransform to every section name (default: unchanged)
//   - ValueTransform to the raw right-hand side of every assignment
//     (default: ExtractValue)
//
// Includes are read with the same Reader, so they share encoding, opener
// and transforms.
type Reader struct {
	Encoding         string
	Open             OpenFunc
	KeyTransform     func(string) string
	SectionTransform func(string) string
	ValueTransform   func(string) (string, error)
}

// NewReader returns a Reader with the default settings.
func NewReader() *Reader {
	return &Reader{
		Encoding: DefaultEncoding,
	}
}

func (r *Reader) keyTransform(k string) string {
	if r.KeyTransform == nil {
		return k
	}

	return r.KeyTransform(k)
}

func (r *Reader) sectionTransform(s string) string {
	if r.SectionTransform == nil {
		return s
	}

	return r.SectionTransform(s)
}

func (r *Reader) valueTransform(v string) (string, error) {
	if r.ValueTransform == nil {
		return ExtractValue(v)
	}

	return r.ValueTransform(v)
}

func (r *Reader) open(name string) (io.ReadCloser, error) {
	if r.Open == nil {
		return os.Open(name)
	}

	return r.Open(name)
}

// Read parses every file in order and merges the results, later files
// taking precedence. The first error stops the whole read; no partial
// result is returned.
func (r *Reader) Read(filenames ...string) (*Node, error) {
	main := New()
	for _, fn := range filenames {
		cfg, err := r.readFile(fn)
		if err != nil {
			return nil, err
		}
		if err := main.Merge(cfg); err != nil {
			return nil, err
		}
		debug.V(1).Log("merged config from %s", fn)
	}

	return main, nil
}

func (r *Reader) readFile(fn string) (*Node, error) {
	enc, err := lookupEncoding(r.Encoding)
	if err != nil {
		return nil, &ResourceError{Path: fn, Err: err}
	}

	fh, err := r.open(fn)
	if err != nil {
		return nil, &ResourceError{Path: fn, Err: err}
	}
	defer fh.Close() //nolint:errcheck

	debug.V(2).Log("reading config %s (encoding %s)", fn, r.Encoding)

	return r.Parse(fn, decodeReader(fh, enc))
}

// Read parses and merges the given files with a default Reader.
func Read(filenames ...string) (*Node, error) {
	return NewReader().Read(filenames...)
}

// Parse parses in with a default Reader. name is used for diagnostics and
// include resolution and may be empty.
func Parse(name string, in io.Reader) (*Node, error) {
	return NewReader().Parse(name, in)
}

// ParseString parses an in-memory config.
func ParseString(s string) (*Node, error) {
	return NewReader().Parse("", strings.NewReader(s))
}
