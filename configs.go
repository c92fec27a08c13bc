package iniconf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gopasspw/gopass/pkg/appdir"
	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/gopasspw/gopass/pkg/set"
)

var (
	name        = "holland"
	localConfig = "holland.conf"
	envPrefix   = "HOLLAND_CONFIG"
)

// Configs combines the config files of one application from several scopes.
//
// Scope Priority (highest to lowest):
// 1. Environment variables (HOLLAND_CONFIG_*)
// 2. Local config (<workdir>/holland.conf)
// 3. Global/user config ($XDG_CONFIG_HOME/holland/holland.conf or ~/.holland.conf)
// 4. System config (/etc/holland/holland.conf)
// 5. Preset/built-in defaults
//
// Each scope is read with Reader, so includes, encodings and transforms
// apply to all file scopes alike.
//
// Usage:
//
//	cfg := NewConfigs()
//	if err := cfg.LoadAll("."); err != nil { ... }
//	dir, _ := cfg.Get("holland.backup_directory")
type Configs struct {
	Preset  *Node
	system  *Node
	global  *Node
	local   *Node
	env     *Node
	workdir string

	Name         string
	SystemConfig string
	GlobalConfig string
	LocalConfig  string
	EnvPrefix    string
	Reader       *Reader
}

// NewConfigs creates a Configs instance with the default locations. Nothing is
// loaded until LoadAll is called.
func NewConfigs() *Configs {
	return &Configs{
		Name:         name,
		SystemConfig: filepath.Join("/etc", name, name+".conf"),
		GlobalConfig: "." + name + ".conf",
		LocalConfig:  localConfig,
		EnvPrefix:    envPrefix,
		Reader:       NewReader(),
	}
}

// String implements fmt.Stringer for debugging.
func (cs *Configs) String() string {
	return fmt.Sprintf("Configs{Name: %s - Workdir: %s - Env: %s - System: %s - Global: %s - Local: %s}", cs.Name, cs.workdir, cs.EnvPrefix, cs.SystemConfig, cs.GlobalConfig, cs.LocalConfig)
}

func (cs *Configs) reader() *Reader {
	if cs.Reader == nil {
		cs.Reader = NewReader()
	}

	return cs.Reader
}

// LoadAll loads every scope. Missing files are skipped, any other error
// (syntax, namespace conflict, unreadable include) is returned and leaves
// the previously loaded scopes in place. workdir is optional; if empty the
// local scope is not loaded.
func (cs *Configs) LoadAll(workdir string) error {
	cs.workdir = workdir

	debug.Log("Loading configs for %s", cs.Name)

	system, err := cs.loadOptional(cs.SystemConfig)
	if err != nil {
		return err
	}

	global, err := cs.loadGlobalConfigs()
	if err != nil {
		return err
	}

	local := New()
	if workdir != "" {
		local, err = cs.loadOptional(filepath.Join(workdir, cs.LocalConfig))
		if err != nil {
			return err
		}
	}

	env, err := LoadConfigFromEnv(cs.EnvPrefix)
	if err != nil {
		return err
	}

	cs.system, cs.global, cs.local, cs.env = system, global, local, env

	return nil
}

// loadOptional reads fn, treating a missing file as an empty config.
func (cs *Configs) loadOptional(fn string) (*Node, error) {
	if fn == "" {
		return New(), nil
	}
	cfg, err := cs.reader().Read(fn)
	if err != nil {
		if isMissing(err, fn) {
			debug.V(1).Log("[%s] no config at %s: %s", cs.Name, fn, err)

			return New(), nil
		}

		return nil, err
	}
	debug.V(1).Log("[%s] loaded config from %s", cs.Name, fn)

	return cfg, nil
}

// isMissing reports whether err is caused by fn itself not existing. A
// missing include inside an existing file is a real error.
func isMissing(err error, fn string) bool {
	var re *ResourceError
	if !errors.As(err, &re) {
		return false
	}

	return re.Path == fn && errors.Is(err, fs.ErrNotExist)
}

func globalConfigFile(name string) string {
	// $XDG_CONFIG_HOME/<name>/<name>.conf
	return filepath.Join(appdir.New(name).UserConfig(), name+".conf")
}

// loadGlobalConfigs loads the first per-user config that exists.
func (cs *Configs) loadGlobalConfigs() (*Node, error) {
	locs := []string{
		globalConfigFile(cs.Name),
	}
	if cs.GlobalConfig != "" {
		// ~/.holland.conf
		locs = append(locs, filepath.Join(appdir.UserHome(), cs.GlobalConfig))
	}

	debug.V(1).Log("[%s] trying to find global configs in %v", cs.Name, locs)
	for _, p := range locs {
		if _, err := os.Stat(p); err != nil {
			debug.V(1).Log("[%s] no global config at %s: %s", cs.Name, p, err)

			continue
		}

		return cs.loadOptional(p)
	}

	debug.V(1).Log("[%s] no global config found", cs.Name)

	return New(), nil
}

// LoadConfigFromEnv builds an overlay from environment variables:
// <prefix>_COUNT holds the number of entries, <prefix>_KEY_<i> a dotted
// path ("section.key" or "key") and <prefix>_VALUE_<i> its value. A missing
// or invalid count yields an empty config.
func LoadConfigFromEnv(envPrefix string) (*Node, error) {
	c := New()

	count, err := strconv.Atoi(os.Getenv(envPrefix + "_COUNT"))
	if err != nil || count < 1 {
		return c, nil
	}

	for i := range count {
		keyVar := fmt.Sprintf("%s_KEY_%d", envPrefix, i)
		key := os.Getenv(keyVar)

		valVar := fmt.Sprintf("%s_VALUE_%d", envPrefix, i)
		value, found := os.LookupEnv(valVar)

		if key == "" || !found {
			debug.V(1).Log("ignoring incomplete env config %s", keyVar)

			return New(), nil
		}

		if err := c.SetPath(key, value); err != nil {
			return nil, fmt.Errorf("env config %s=%q: %w", keyVar, key, err)
		}
		section, skey := splitPath(key)
		target := c
		if section != "" {
			target, _ = c.Section(section)
		}
		target.SetOrigin(skey, Origin{File: "$" + keyVar})
		debug.V(3).Log("added %s from env", key)
	}

	return c, nil
}

// NewFromMap builds a tree from a nested map, e.g. for presets. Nested
// map[string]any values become sections, everything else is formatted as
// text. Keys are inserted in sorted order.
func NewFromMap(data map[string]any) *Node {
	n := New()
	for _, k := range set.SortedKeys(data) {
		switch v := data[k].(type) {
		case map[string]any:
			n.SetSection(k, NewFromMap(v))
		case map[string]string:
			s := New()
			for _, sk := range set.SortedKeys(v) {
				s.Set(sk, v[sk])
			}
			n.SetSection(k, s)
		case string:
			n.Set(k, v)
		default:
			n.Set(k, fmt.Sprint(v))
		}
	}

	return n
}

// Merged returns a new tree combining all scopes by priority. Presets only
// fill in keys that no scope defines.
func (cs *Configs) Merged() (*Node, error) {
	out := New()
	for _, c := range []*Node{cs.system, cs.global, cs.local, cs.env} {
		if err := out.Merge(c); err != nil {
			return nil, err
		}
	}
	if err := out.Meld(cs.Preset); err != nil {
		return nil, err
	}

	return out, nil
}

func (cs *Configs) byPriority() []*Node {
	return []*Node{
		cs.env,
		cs.local,
		cs.global,
		cs.system,
		cs.Preset,
	}
}

// Get returns the value of a dotted path from the first scope that has it.
func (cs *Configs) Get(path string) (string, bool) {
	for _, cfg := range cs.byPriority() {
		if v, found := cfg.GetPath(path); found {
			return v, true
		}
	}

	debug.V(3).Log("[%s] no value for %s found", cs.Name, path)

	return "", false
}

// GetFrom returns the value of a dotted path from the given scope. Valid
// scopes are env, local, global, system and preset.
func (cs *Configs) GetFrom(path, scope string) (string, bool) {
	switch strings.ToLower(scope) {
	case "env":
		return cs.env.GetPath(path)
	case "local":
		return cs.local.GetPath(path)
	case "global":
		return cs.global.GetPath(path)
	case "system":
		return cs.system.GetPath(path)
	case "preset":
		return cs.Preset.GetPath(path)
	default:
		debug.V(3).Log("[%s] unknown config scope %s for key %s", cs.Name, scope, path)

		return "", false
	}
}

// IsSet reports whether any scope defines path.
func (cs *Configs) IsSet(path string) bool {
	_, found := cs.Get(path)

	return found
}

// Keys returns the sorted dotted paths of all scopes.
func (cs *Configs) Keys() []string {
	keys := make([]string, 0, 128)
	for _, cfg := range cs.byPriority() {
		keys = append(keys, cfg.Paths()...)
	}

	return set.Sorted(keys)
}

// List returns all keys starting with prefix.
func (cs *Configs) List(prefix string) []string {
	return set.SortedFiltered(cs.Keys(), func(k string) bool {
		return strings.HasPrefix(k, prefix)
	})
}

// Match returns all keys matching a glob pattern, see Node.Find.
func (cs *Configs) Match(pattern string) ([]string, error) {
	if _, err := globMatch(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	return set.SortedFiltered(cs.Keys(), func(k string) bool {
		ok, _ := globMatch(pattern, k)

		return ok
	}), nil
}

// ListSections returns the sorted names of all sections.
func (cs *Configs) ListSections() []string {
	return set.SortedFiltered(set.Apply(cs.Keys(), func(k string) string {
		section, _ := splitPath(k)

		return section
	}), func(s string) bool {
		return s != ""
	})
}

// Origin returns where the effective value of path was defined.
func (cs *Configs) Origin(path string) (Origin, bool) {
	for _, cfg := range cs.byPriority() {
		if _, found := cfg.GetPath(path); found {
			return cfg.OriginPath(path)
		}
	}

	return Origin{}, false
}
