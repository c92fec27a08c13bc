package stream

import (
	"compress/gzip"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Gzip opens gzip-compressed files. The "level" option (1-9) sets the
// compression level for writing.
type Gzip struct{}

// Name implements Plugin.
func (Gzip) Name() string { return "gzip" }

// Aliases implements Plugin.
func (Gzip) Aliases() []string { return []string{"gz"} }

// Open implements Plugin.
func (Gzip) Open(name string, mode Mode, opts Options) (Stream, error) {
	switch mode {
	case ModeRead:
		fh, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		zr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()

			return nil, err
		}

		return readOnly{&gzipReader{Reader: zr, fh: fh}}, nil
	case ModeWrite:
		level := gzip.DefaultCompression
		if l, found := opts["level"]; found {
			n, err := strconv.Atoi(l)
			if err != nil {
				return nil, fmt.Errorf("invalid gzip level %q: %w", l, err)
			}
			level = n
		}
		fh, err := os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, err
		}
		zw, err := gzip.NewWriterLevel(fh, level)
		if err != nil {
			_ = fh.Close()

			return nil, err
		}

		return writeOnly{&gzipWriter{Writer: zw, fh: fh}}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrMode, mode)
	}
}

// Info implements Plugin.
func (g Gzip) Info(name string, opts Options) Info {
	return Info{
		Name:        name + ".gz",
		Method:      g.Name(),
		Extension:   ".gz",
		Description: fmt.Sprintf("Gzip: opts=%v", opts),
	}
}

type gzipReader struct {
	*gzip.Reader
	fh *os.File
}

func (g *gzipReader) Close() error {
	return errors.Join(g.Reader.Close(), g.fh.Close())
}

type gzipWriter struct {
	*gzip.Writer
	fh *os.File
}

func (g *gzipWriter) Close() error {
	return errors.Join(g.Writer.Close(), g.fh.Close())
}
