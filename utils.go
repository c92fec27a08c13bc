package iniconf

import (
	"fmt"

	"github.com/gobwas/glob"
)

// globMatch matches s against pattern. '.' separates path components, so
// "*" stays within a section name while "**" crosses sections.
func globMatch(pattern, s string) (bool, error) {
	g, err := glob.Compile(pattern, '.')
	if err != nil {
		return false, err
	}

	return g.Match(s), nil
}

// Find returns the dotted paths of all scalars matching pattern, e.g.
// "mysql*.user" or "**.password", in serialization order.
func (n *Node) Find(pattern string) ([]string, error) {
	g, err := glob.Compile(pattern, '.')
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	var out []string
	n.walk("", func(path, _ string) {
		if g.Match(path) {
			out = append(out, path)
		}
	})

	return out, nil
}
