package iniconf

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentReads tests that multiple goroutines can safely read from the same tree.
func TestConcurrentReads(t *testing.T) {
	t.Parallel()

	cfg := mustParse(t, "c", `[user]
name = John Doe
email = john@example.com
[core]
editor = vim
`)

	var wg sync.WaitGroup
	for g := range 10 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			for range 100 {
				switch id % 3 {
				case 0:
					v, ok := cfg.GetPath("user.name")
					assert.True(t, ok)
					assert.Equal(t, "John Doe", v)
				case 1:
					o, ok := cfg.OriginPath("core.editor")
					assert.True(t, ok)
					assert.Equal(t, "c:5", o.String())
				case 2:
					assert.NotEmpty(t, cfg.String())
				}
			}
		}(g)
	}

	wg.Wait()
}

// TestConcurrentRead tests that independent reads do not share state.
func TestConcurrentRead(t *testing.T) {
	t.Parallel()

	td := t.TempDir()
	paths := make([]string, 5)
	for i := range paths {
		paths[i] = filepath.Join(td, fmt.Sprintf("config%d.conf", i))
		writeFile(t, paths[i], fmt.Sprintf("[s]\nid = %d\n", i))
	}

	var wg sync.WaitGroup
	for i, p := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()

			cfg, err := Read(p)
			if !assert.NoError(t, err) {
				return
			}
			v, _ := cfg.GetPath("s.id")
			assert.Equal(t, fmt.Sprint(i), v)
		}()
	}

	wg.Wait()

	cfg, err := Read(paths...)
	require.NoError(t, err)
	v, _ := cfg.GetPath("s.id")
	assert.Equal(t, "4", v)
}
