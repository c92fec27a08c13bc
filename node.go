package iniconf

import (
	"slices"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
)

// Node is an ordered mapping from keys to values plus the origin of each
// key. Sections are Nodes owned by their parent key.
//
// Insertion order only matters for serialization. Assigning an existing key
// overwrites its value in place and keeps its position.
//
// Note: Node is not safe for concurrent mutation. Concurrent read-only access
// is fine, callers that mutate a shared tree after parsing must synchronize.
type Node struct {
	keys   []string
	values map[string]Value
	origin map[string]Origin
}

// New returns an empty node.
func New() *Node {
	return &Node{
		values: make(map[string]Value, 8),
		origin: make(map[string]Origin, 8),
	}
}

func (n *Node) init() {
	if n.values == nil {
		n.values = make(map[string]Value, 8)
	}
	if n.origin == nil {
		n.origin = make(map[string]Origin, 8)
	}
}

// Len returns the number of keys in n.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}

	return len(n.keys)
}

// Keys returns the keys of n in insertion order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}

	return slices.Clone(n.keys)
}

// Lookup returns the value stored under key.
func (n *Node) Lookup(key string) (Value, bool) {
	if n == nil {
		return Value{}, false
	}
	v, found := n.values[key]

	return v, found
}

// Get returns the scalar stored under key. Sections are reported as not found.
func (n *Node) Get(key string) (string, bool) {
	v, found := n.Lookup(key)
	if !found || v.IsSection() {
		return "", false
	}

	return v.Text(), true
}

// Section returns the nested node stored under name.
func (n *Node) Section(name string) (*Node, bool) {
	v, found := n.Lookup(name)
	if !found || !v.IsSection() {
		return nil, false
	}

	return v.Node(), true
}

// Sections returns the names of all nested sections in insertion order.
func (n *Node) Sections() []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.keys))
	for _, k := range n.keys {
		if n.values[k].IsSection() {
			out = append(out, k)
		}
	}

	return out
}

// Put stores v under key, replacing any previous value in place.
func (n *Node) Put(key string, v Value) {
	n.init()
	if _, found := n.values[key]; !found {
		n.keys = append(n.keys, key)
	}
	n.values[key] = v
}

// Set stores a scalar under key.
func (n *Node) Set(key, value string) {
	n.Put(key, Scalar(value))
}

// SetSection stores child as the section name.
func (n *Node) SetSection(name string, child *Node) {
	n.Put(name, Section(child))
}

// Delete removes key and its origin. Missing keys are ignored.
func (n *Node) Delete(key string) {
	if n == nil {
		return
	}
	if _, found := n.values[key]; !found {
		return
	}
	delete(n.values, key)
	delete(n.origin, key)
	n.keys = slices.DeleteFunc(n.keys, func(k string) bool { return k == key })
}

// Origin returns where key was defined. Keys inserted programmatically have
// no origin.
func (n *Node) Origin(key string) (Origin, bool) {
	if n == nil {
		return Origin{}, false
	}
	o, found := n.origin[key]

	return o, found
}

// SetOrigin records where key was defined.
func (n *Node) SetOrigin(key string, o Origin) {
	n.init()
	n.origin[key] = o
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	c := New()
	if n == nil {
		return c
	}
	for _, k := range n.keys {
		v := n.values[k]
		if v.IsSection() {
			v = Section(v.Node().Clone())
		}
		c.Put(k, v)
	}
	for k, o := range n.origin {
		c.origin[k] = o
	}

	return c
}

// Equal reports whether n and other hold the same keys, values and section
// structure. Order and origins are ignored.
func (n *Node) Equal(other *Node) bool {
	if n.Len() != other.Len() {
		return false
	}
	for _, k := range n.Keys() {
		a, _ := n.Lookup(k)
		b, found := other.Lookup(k)
		if !found || a.Kind() != b.Kind() {
			return false
		}
		switch a.Kind() {
		case KindSection:
			if !a.Node().Equal(b.Node()) {
				return false
			}
		case KindScalar:
			if a.Text() != b.Text() {
				return false
			}
		}
	}

	return true
}

// findOrCreateSection returns the section key of n, creating it if needed.
// created reports whether a new section was added.
func (n *Node) findOrCreateSection(key string) (section *Node, created bool, err error) { //nolint:nonamedreturns
	v, found := n.Lookup(key)
	if !found {
		section = New()
		n.SetSection(key, section)

		return section, true, nil
	}
	if !v.IsSection() {
		return nil, false, &NamespaceConflictError{Key: key, Origin: n.origin[key]}
	}

	return v.Node(), false, nil
}

// Merge copies every key of src into n, overwriting existing values.
// Sections are merged recursively. The origins of src win over the
// origins of n.
//
// A key that is a section on one side and a scalar on the other aborts the
// merge with a *NamespaceConflictError. Changes made before the conflict are
// not rolled back.
func (n *Node) Merge(src *Node) error {
	if src == nil {
		return nil
	}
	n.init()

	for _, k := range src.keys {
		v := src.values[k]
		switch v.Kind() {
		case KindSection:
			section, _, err := n.findOrCreateSection(k)
			if err != nil {
				return err
			}
			if err := section.Merge(v.Node()); err != nil {
				return err
			}
		case KindScalar:
			if cur, found := n.values[k]; found && cur.IsSection() {
				return &NamespaceConflictError{Key: k, Origin: src.origin[k]}
			}
			n.Put(k, v)
		}
	}

	for k, o := range src.origin {
		n.origin[k] = o
	}

	return nil
}

// Meld copies the keys of src that are missing in n. Existing values are
// never replaced, sections are melded recursively. Origins are copied only
// for values that were written. Melding the same source twice has the same
// effect as melding it once.
func (n *Node) Meld(src *Node) error {
	if src == nil {
		return nil
	}
	n.init()

	for _, k := range src.keys {
		v := src.values[k]
		switch v.Kind() {
		case KindSection:
			section, created, err := n.findOrCreateSection(k)
			if err != nil {
				return err
			}
			if created {
				if o, found := src.origin[k]; found {
					n.origin[k] = o
				}
			}
			if err := section.Meld(v.Node()); err != nil {
				return err
			}
		case KindScalar:
			cur, found := n.values[k]
			if found && cur.IsSection() {
				return &NamespaceConflictError{Key: k, Origin: src.origin[k]}
			}
			if found {
				continue
			}
			n.Put(k, v)
			if o, found := src.origin[k]; found {
				n.origin[k] = o
			}
		}
	}

	return nil
}

// GetPath returns the scalar at a dotted path like "section.key". The last
// dot separates the key, so section names may contain dots.
func (n *Node) GetPath(path string) (string, bool) {
	node, key := n.resolvePath(path)
	if node == nil {
		return "", false
	}

	return node.Get(key)
}

// OriginPath returns the origin of the value at a dotted path.
func (n *Node) OriginPath(path string) (Origin, bool) {
	node, key := n.resolvePath(path)
	if node == nil {
		return Origin{}, false
	}

	return node.Origin(key)
}

// SetPath stores a scalar at a dotted path, creating the section if needed.
// A key that names a section is not replaced and returns a
// *NamespaceConflictError.
func (n *Node) SetPath(path, value string) error {
	section, key := splitPath(path)
	if key == "" {
		return ErrInvalidKey
	}
	target := n
	if section != "" {
		s, _, err := n.findOrCreateSection(section)
		if err != nil {
			return err
		}
		target = s
	}
	if cur, found := target.values[key]; found && cur.IsSection() {
		return &NamespaceConflictError{Key: key, Origin: target.origin[key]}
	}
	target.Set(key, value)
	debug.V(3).Log("set %q to %q", path, value)

	return nil
}

func (n *Node) resolvePath(path string) (*Node, string) {
	section, key := splitPath(path)
	if key == "" {
		return nil, ""
	}
	if section == "" {
		return n, key
	}
	s, found := n.Section(section)
	if !found {
		return nil, ""
	}

	return s, key
}

// Paths returns the dotted path of every scalar in the tree, in
// serialization order.
func (n *Node) Paths() []string {
	out := make([]string, 0, n.Len())
	n.walk("", func(path string, _ string) {
		out = append(out, path)
	})

	return out
}

// walk visits every scalar depth first. Scalars of a node come before its
// sections, matching the serializer.
func (n *Node) walk(prefix string, fn func(path, value string)) {
	if n == nil {
		return
	}
	for _, k := range n.keys {
		if v := n.values[k]; !v.IsSection() {
			fn(prefix+k, v.Text())
		}
	}
	for _, k := range n.keys {
		if v := n.values[k]; v.IsSection() {
			v.Node().walk(prefix+k+".", fn)
		}
	}
}

// ToMap returns a plain nested map view of n. Scalars become strings,
// sections become map[string]any.
func (n *Node) ToMap() map[string]any {
	out := make(map[string]any, n.Len())
	if n == nil {
		return out
	}
	for _, k := range n.keys {
		v := n.values[k]
		if v.IsSection() {
			out[k] = v.Node().ToMap()

			continue
		}
		out[k] = v.Text()
	}

	return out
}

func splitPath(path string) (section, key string) { //nolint:nonamedreturns
	path = strings.TrimSpace(path)
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return "", path
	}

	return path[:i], path[i+1:]
}
