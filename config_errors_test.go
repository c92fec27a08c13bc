package iniconf

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReadMultipleFiles tests that later files take precedence.
func TestReadMultipleFiles(t *testing.T) {
	t.Parallel()

	td := t.TempDir()
	first := filepath.Join(td, "first.conf")
	second := filepath.Join(td, "second.conf")
	writeFile(t, first, "a = 1\nb = 1\n[s]\nx = 1\n")
	writeFile(t, second, "b = 2\n[s]\ny = 2\n")

	cfg, err := Read(first, second)
	require.NoError(t, err)

	for k, want := range map[string]string{"a": "1", "b": "2", "s.x": "1", "s.y": "2"} {
		got, _ := cfg.GetPath(k)
		assert.Equal(t, want, got, k)
	}

	o, _ := cfg.Origin("b")
	assert.Equal(t, second+":1", o.String())
	o, _ = cfg.Origin("a")
	assert.Equal(t, first+":1", o.String())
}

// TestReadNoFiles tests that reading nothing yields an empty tree.
func TestReadNoFiles(t *testing.T) {
	t.Parallel()

	cfg, err := Read()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Len())
}

// TestConfigFileNotFound tests behavior when a config file doesn't exist.
func TestConfigFileNotFound(t *testing.T) {
	t.Parallel()

	td := t.TempDir()
	good := filepath.Join(td, "good.conf")
	writeFile(t, good, "a = 1\n")

	cfg, err := Read(good, "/nonexistent/path/holland.conf", good)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.True(t, errors.Is(err, ErrResource))
}

// TestConfigPermissionDenied tests behavior when a config file is unreadable.
func TestConfigPermissionDenied(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("Permission test not reliable on Windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}

	td := t.TempDir()
	fn := filepath.Join(td, "locked.conf")
	writeFile(t, fn, "a = 1\n")
	require.NoError(t, os.Chmod(fn, 0o000))
	t.Cleanup(func() { _ = os.Chmod(fn, 0o644) })

	_, err := Read(fn)
	require.ErrorIs(t, err, fs.ErrPermission)
}

// TestReadStopsAtFirstSyntaxError tests that no partial result is returned.
func TestReadStopsAtFirstSyntaxError(t *testing.T) {
	t.Parallel()

	td := t.TempDir()
	bad := filepath.Join(td, "bad.conf")
	writeFile(t, bad, "a = 1\nnope\n")

	cfg, err := Read(bad, "/nonexistent/never-read.conf")
	require.ErrorIs(t, err, ErrSyntax)
	assert.False(t, errors.Is(err, ErrResource))
	assert.Nil(t, cfg)
}

// TestReadEncoding tests decoding files with a non-UTF-8 codec.
func TestReadEncoding(t *testing.T) {
	t.Parallel()

	td := t.TempDir()
	fn := filepath.Join(td, "latin1.conf")
	// "größe = weiß" in ISO-8859-1
	require.NoError(t, os.WriteFile(fn, []byte("gr\xf6\xdfe = wei\xdf\n"), 0o644))

	r := NewReader()
	r.Encoding = "latin1"
	cfg, err := r.Read(fn)
	require.NoError(t, err)

	v, found := cfg.Get("größe")
	assert.True(t, found)
	assert.Equal(t, "weiß", v)
}

// TestReadInvalidUTF8 tests that undecodable input is a resource error.
func TestReadInvalidUTF8(t *testing.T) {
	t.Parallel()

	td := t.TempDir()
	fn := filepath.Join(td, "bad-utf8.conf")
	require.NoError(t, os.WriteFile(fn, []byte("key = \xff\xfe\n"), 0o644))

	_, err := Read(fn)
	require.ErrorIs(t, err, ErrResource)
}

// TestReadUnknownEncoding tests that an unknown codec is reported.
func TestReadUnknownEncoding(t *testing.T) {
	t.Parallel()

	td := t.TempDir()
	fn := filepath.Join(td, "a.conf")
	writeFile(t, fn, "a = 1\n")

	r := NewReader()
	r.Encoding = "klingon-8"
	_, err := r.Read(fn)
	require.ErrorIs(t, err, ErrResource)
	assert.Contains(t, err.Error(), "klingon-8")
}

// TestZeroReader tests that the zero Reader uses the defaults.
func TestZeroReader(t *testing.T) {
	t.Parallel()

	td := t.TempDir()
	fn := filepath.Join(td, "a.conf")
	writeFile(t, fn, "a = 1 # c\n")

	var r Reader
	cfg, err := r.Read(fn)
	require.NoError(t, err)

	v, _ := cfg.Get("a")
	assert.Equal(t, "1", v)
}

// TestParseErrorEmptyInputs tests that blank inputs parse to empty trees.
func TestParseErrorEmptyInputs(t *testing.T) {
	t.Parallel()

	for name, content := range map[string]string{
		"empty file":      "",
		"only comments":   "; This is a comment\n# Another comment",
		"whitespace only": "   \n\t\n   ",
	} {
		cfg, err := ParseString(content)
		require.NoError(t, err, name)
		assert.Equal(t, 0, cfg.Len(), name)
	}
}
