package stream

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/gopasspw/gopass/pkg/set"
)

// Registry holds plugins by namespace. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string][]Plugin
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string][]Plugin, 4),
	}
}

// Default holds the builtin and gzip plugins in Namespace.
var Default = func() *Registry {
	r := NewRegistry()
	r.Register(Namespace, Builtin{})
	r.Register(Namespace, Gzip{})

	return r
}()

// Register adds p to namespace. A plugin with the same name replaces the
// previous one.
func (r *Registry) Register(namespace string, p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ps := r.plugins[namespace]
	for i, q := range ps {
		if q.Name() == p.Name() {
			ps[i] = p
			debug.V(1).Log("replaced stream plugin %s/%s", namespace, p.Name())

			return
		}
	}
	r.plugins[namespace] = append(ps, p)
	debug.V(2).Log("registered stream plugin %s/%s (aliases %v)", namespace, p.Name(), p.Aliases())
}

// Lookup returns the plugin registered in namespace under name or one of
// its aliases.
func (r *Registry) Lookup(namespace, name string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins[namespace] {
		if p.Name() == name {
			return p, nil
		}
	}
	for _, p := range r.plugins[namespace] {
		for _, a := range p.Aliases() {
			if a == name {
				return p, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s/%s", ErrNoPlugin, namespace, name)
}

// Plugins returns all plugins of namespace sorted by name.
func (r *Registry) Plugins(namespace string) []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]Plugin(nil), r.plugins[namespace]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })

	return out
}

// Methods returns the names and aliases of all plugins in namespace. These
// are valid methods for Open.
func (r *Registry) Methods(namespace string) []string {
	var out []string
	for _, p := range r.Plugins(namespace) {
		out = append(out, p.Name())
		out = append(out, p.Aliases()...)
	}

	return set.Sorted(out)
}

// Open opens filename with the plugin registered for method in Namespace.
// An empty method selects the builtin plugin.
func (r *Registry) Open(filename string, mode Mode, method string, opts Options) (Stream, error) {
	if method == "" {
		method = "builtin"
	}
	p, err := r.Lookup(Namespace, method)
	if err != nil {
		return nil, fmt.Errorf("no stream found for method %q: %w", method, err)
	}

	s, err := p.Open(filename, mode, opts)
	if err != nil {
		return nil, fmt.Errorf("%w %q with %s: %w", ErrOpen, filename, p.Name(), err)
	}
	debug.V(2).Log("opened %s (%s) with %s", filename, mode, p.Name())

	return s, nil
}

// Open opens filename with the Default registry.
func Open(filename string, mode Mode, method string, opts Options) (Stream, error) {
	return Default.Open(filename, mode, method, opts)
}

// AvailableMethods returns the methods of the Default registry.
func AvailableMethods() []string {
	return Default.Methods(Namespace)
}

// Wrapper returns a function that opens files relative to basedir with the
// given method and options.
func Wrapper(basedir, method string, opts Options) func(filename string, mode Mode) (Stream, error) {
	return func(filename string, mode Mode) (Stream, error) {
		return Open(filepath.Join(basedir, filename), mode, method, opts)
	}
}

// Opener returns a read-only open function for method, suitable as
// iniconf.Reader.Open.
func Opener(method string, opts Options) func(name string) (io.ReadCloser, error) {
	return func(name string) (io.ReadCloser, error) {
		return Open(name, ModeRead, method, opts)
	}
}
