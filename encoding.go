package iniconf

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when no encoding is configured.
const DefaultEncoding = "utf8"

// lookupEncoding resolves a codec by its WHATWG label, e.g. "utf8",
// "latin1" or "utf-16le".
func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}

	return enc, nil
}

func isUTF8(enc encoding.Encoding) bool {
	return enc == unicode.UTF8
}

// decodeReader wraps r so that it yields UTF-8. UTF-8 input is validated
// instead of being silently repaired.
func decodeReader(r io.Reader, enc encoding.Encoding) io.Reader {
	if isUTF8(enc) {
		return transform.NewReader(r, encoding.UTF8Validator)
	}

	return transform.NewReader(r, enc.NewDecoder())
}

// encodeWriter wraps w so that UTF-8 written to it is stored with enc. The
// returned writer must be closed to flush.
func encodeWriter(w io.Writer, enc encoding.Encoding) io.WriteCloser {
	if isUTF8(enc) {
		return transform.NewWriter(w, encoding.UTF8Validator)
	}

	return transform.NewWriter(w, enc.NewEncoder())
}
