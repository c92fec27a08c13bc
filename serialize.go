package iniconf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
)

// LineSeparator is the platform line separator used by the default
// Serializer.
var LineSeparator = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}

	return "\n"
}()

// Formatter renders a key/value pair for output. Returning false drops the
// key from the output. The returned text is emitted verbatim after "key = ",
// use QuoteValue to keep values with comment characters, quotes or
// surrounding whitespace intact.
type Formatter interface {
	Format(key, value string) (string, bool)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(key, value string) (string, bool)

// Format calls f.
func (f FormatterFunc) Format(key, value string) (string, bool) {
	return f(key, value)
}

// DefaultFormatter renders every value so that it parses back unchanged.
type DefaultFormatter struct{}

// Format returns value, double-quoted if needed.
func (DefaultFormatter) Format(_, value string) (string, bool) {
	return QuoteValue(value), true
}

// Serializer renders a tree as config text. The output is normalized:
// comments, blank lines and continuation splits of the input are not
// preserved.
//
// Within a node all scalars are written first, in insertion order, followed
// by the sections in insertion order. Keys of the root thus never end up
// below a section header, but the relative order of scalars and sections
// in the tree is not kept. Lines, String and Write all follow this order.
//
// The text format has one level of sections. Sections nested deeper, which
// can only be built programmatically, are left out of the output.
type Serializer struct {
	Formatter     Formatter
	LineSeparator string
}

func (s *Serializer) formatter() Formatter {
	if s == nil || s.Formatter == nil {
		return DefaultFormatter{}
	}

	return s.Formatter
}

func (s *Serializer) sep() string {
	if s == nil || s.LineSeparator == "" {
		return LineSeparator
	}

	return s.LineSeparator
}

// Lines returns the output lines for n without separators.
func (s *Serializer) Lines(n *Node) []string {
	lines := make([]string, 0, n.Len()+8)

	return s.appendLines(lines, n, 0)
}

func (s *Serializer) appendLines(lines []string, n *Node, depth int) []string {
	f := s.formatter()
	for _, k := range n.Keys() {
		v, _ := n.Lookup(k)
		if v.IsSection() {
			continue
		}
		out, ok := f.Format(k, v.Text())
		if !ok {
			debug.V(3).Log("formatter dropped key %q", k)

			continue
		}
		lines = append(lines, fmt.Sprintf("%s = %s", k, out))
	}

	for _, k := range n.Keys() {
		v, _ := n.Lookup(k)
		if !v.IsSection() {
			continue
		}
		if depth > 0 {
			debug.V(1).Log("skipping nested section %q, only one level of sections can be written", k)

			continue
		}
		lines = append(lines, "["+k+"]")
		lines = s.appendLines(lines, v.Node(), depth+1)
		lines = append(lines, "")
	}

	return lines
}

// String renders n as a single string.
func (s *Serializer) String(n *Node) string {
	return strings.Join(s.Lines(n), s.sep())
}

// Write renders n to w.
func (s *Serializer) Write(w io.Writer, n *Node) error {
	out := s.String(n)
	if out != "" && !strings.HasSuffix(out, s.sep()) {
		out += s.sep()
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// String renders n with the default serializer.
func (n *Node) String() string {
	return (&Serializer{}).String(n)
}

// WriteTo renders n to w with the default serializer.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := (&Serializer{}).Write(cw, n)

	return cw.n, err
}

// WriteFile renders n to path using the named encoding (default utf8).
// The parent directory is created if needed.
func (n *Node) WriteFile(path, encoding string) error {
	return (&Serializer{}).WriteFile(path, encoding, n)
}

// WriteFile renders n to path using the named encoding.
func (s *Serializer) WriteFile(path, encoding string, n *Node) error {
	enc, err := lookupEncoding(encoding)
	if err != nil {
		return &ResourceError{Path: path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create directory %q for %q: %w", filepath.Dir(path), path, err)
	}

	fh, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return &ResourceError{Path: path, Err: err}
	}
	defer fh.Close() //nolint:errcheck

	ew := encodeWriter(fh, enc)
	if err := s.Write(ew, n); err != nil {
		return err
	}
	if err := ew.Close(); err != nil {
		return &ResourceError{Path: path, Err: err}
	}
	if err := fh.Close(); err != nil {
		return &ResourceError{Path: path, Err: err}
	}

	debug.V(1).Log("wrote config to %s", path)

	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}
