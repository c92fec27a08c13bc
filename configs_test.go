package iniconf

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every per-user location into a temp dir and returns it.
func isolate(t *testing.T) string {
	t.Helper()

	td := t.TempDir()
	t.Setenv("HOME", td)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(td, ".config"))
	t.Setenv("GOPASS_HOMEDIR", td)

	return td
}

func newTestConfigs(t *testing.T, td string) *Configs {
	t.Helper()

	cs := NewConfigs()
	cs.Name = "iniconf-test"
	cs.SystemConfig = filepath.Join(td, "etc", "system.conf")
	cs.GlobalConfig = ".iniconf-test.conf"
	cs.EnvPrefix = "INICONF_TEST"

	return cs
}

func TestConfigsDefaults(t *testing.T) {
	t.Parallel()

	cs := NewConfigs()
	assert.Equal(t, "holland", cs.Name)
	assert.Equal(t, filepath.Join("/etc", "holland", "holland.conf"), cs.SystemConfig)
	assert.Equal(t, "holland.conf", cs.LocalConfig)
	assert.Equal(t, "HOLLAND_CONFIG", cs.EnvPrefix)
	assert.Contains(t, cs.String(), "Name: holland")
}

func TestConfigsLoadAll(t *testing.T) {
	td := isolate(t)
	cs := newTestConfigs(t, td)

	workdir := filepath.Join(td, "work")
	writeFile(t, cs.SystemConfig, "[core]\nlevel = system\nsystem = only\n")
	writeFile(t, filepath.Join(td, cs.GlobalConfig), "[core]\nlevel = global\nglobal = only\n")
	writeFile(t, filepath.Join(workdir, cs.LocalConfig), "[core]\nlevel = local\n[mysql]\nuser = backup\n")

	t.Setenv("INICONF_TEST_COUNT", "1")
	t.Setenv("INICONF_TEST_KEY_0", "mysql.user")
	t.Setenv("INICONF_TEST_VALUE_0", "root")

	cs.Preset = NewFromMap(map[string]any{
		"core": map[string]any{
			"level":   "preset",
			"default": 42,
		},
	})

	require.NoError(t, cs.LoadAll(workdir))

	for path, want := range map[string]string{
		"core.level":   "local",
		"core.system":  "only",
		"core.global":  "only",
		"core.default": "42",
		"mysql.user":   "root",
	} {
		got, found := cs.Get(path)
		assert.True(t, found, path)
		assert.Equal(t, want, got, path)
	}

	v, found := cs.GetFrom("core.level", "system")
	assert.True(t, found)
	assert.Equal(t, "system", v)
	v, _ = cs.GetFrom("core.level", "GLOBAL")
	assert.Equal(t, "global", v)
	v, _ = cs.GetFrom("mysql.user", "local")
	assert.Equal(t, "backup", v)
	v, _ = cs.GetFrom("core.level", "preset")
	assert.Equal(t, "preset", v)
	_, found = cs.GetFrom("core.level", "nope")
	assert.False(t, found)

	assert.True(t, cs.IsSet("core.global"))
	assert.False(t, cs.IsSet("core.missing"))

	o, found := cs.Origin("core.level")
	assert.True(t, found)
	assert.Equal(t, filepath.Join(workdir, cs.LocalConfig)+":2", o.String())
	o, _ = cs.Origin("mysql.user")
	assert.Equal(t, "$INICONF_TEST_KEY_0", o.String())

	merged, err := cs.Merged()
	require.NoError(t, err)
	v, _ = merged.GetPath("core.level")
	assert.Equal(t, "local", v)
	v, _ = merged.GetPath("mysql.user")
	assert.Equal(t, "root", v)
	v, _ = merged.GetPath("core.default")
	assert.Equal(t, "42", v)

	assert.Equal(t, []string{"core.default", "core.global", "core.level", "core.system", "mysql.user"}, cs.Keys())
	assert.Equal(t, []string{"core.level"}, cs.List("core.l"))
	assert.Equal(t, []string{"mysql.user"}, cs.List("mysql."))
	assert.Equal(t, []string{"core", "mysql"}, cs.ListSections())

	matched, err := cs.Match("core.*l*")
	require.NoError(t, err)
	assert.Equal(t, []string{"core.default", "core.global", "core.level"}, matched)
}

func TestConfigsMissingFilesAreSkipped(t *testing.T) {
	td := isolate(t)
	cs := newTestConfigs(t, td)

	require.NoError(t, cs.LoadAll(filepath.Join(td, "no-such-workdir")))
	assert.Empty(t, cs.Keys())

	merged, err := cs.Merged()
	require.NoError(t, err)
	assert.Equal(t, 0, merged.Len())
}

func TestConfigsSyntaxErrorIsReported(t *testing.T) {
	td := isolate(t)
	cs := newTestConfigs(t, td)

	writeFile(t, cs.SystemConfig, "this is not valid\n")

	err := cs.LoadAll("")
	require.ErrorIs(t, err, ErrSyntax)
}

func TestConfigsMissingIncludeIsReported(t *testing.T) {
	td := isolate(t)
	cs := newTestConfigs(t, td)

	writeFile(t, cs.SystemConfig, "%include missing.conf\n")

	err := cs.LoadAll("")
	require.ErrorIs(t, err, ErrResource)
}

func TestConfigsXDGGlobalConfig(t *testing.T) {
	td := isolate(t)
	cs := newTestConfigs(t, td)

	p := globalConfigFile(cs.Name)
	if !strings.HasPrefix(p, td) {
		t.Skipf("user config dir %s is not isolated", p)
	}
	writeFile(t, p, "xdg = yes\n")
	writeFile(t, filepath.Join(td, cs.GlobalConfig), "xdg = no\n")

	require.NoError(t, cs.LoadAll(""))

	v, found := cs.GetFrom("xdg", "global")
	assert.True(t, found)
	assert.Equal(t, "yes", v, "the XDG location wins over the home dotfile")
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("INICONF_ENV_COUNT", "2")
	t.Setenv("INICONF_ENV_KEY_0", "top")
	t.Setenv("INICONF_ENV_VALUE_0", "1")
	t.Setenv("INICONF_ENV_KEY_1", "sect.key")
	t.Setenv("INICONF_ENV_VALUE_1", "")

	cfg, err := LoadConfigFromEnv("INICONF_ENV")
	require.NoError(t, err)
	assert.Equal(t, []string{"top", "sect.key"}, cfg.Paths())

	v, found := cfg.GetPath("sect.key")
	assert.True(t, found)
	assert.Empty(t, v)
}

func TestLoadConfigFromEnvIncomplete(t *testing.T) {
	t.Setenv("INICONF_BAD_COUNT", "2")
	t.Setenv("INICONF_BAD_KEY_0", "a")
	t.Setenv("INICONF_BAD_VALUE_0", "1")

	cfg, err := LoadConfigFromEnv("INICONF_BAD")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Len())

	cfg, err = LoadConfigFromEnv("INICONF_UNSET")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Len())
}

func TestNewFromMap(t *testing.T) {
	t.Parallel()

	n := NewFromMap(map[string]any{
		"b":    true,
		"a":    "x",
		"sect": map[string]string{"z": "1", "y": "2"},
	})

	assert.Equal(t, []string{"a", "b", "sect"}, n.Keys())
	v, _ := n.Get("b")
	assert.Equal(t, "true", v)
	s, found := n.Section("sect")
	require.True(t, found)
	assert.Equal(t, []string{"y", "z"}, s.Keys())
}

func TestLoadConfigFromEnvSectionConflict(t *testing.T) {
	t.Setenv("INICONF_CONFLICT_COUNT", "2")
	t.Setenv("INICONF_CONFLICT_KEY_0", "mysql.user")
	t.Setenv("INICONF_CONFLICT_VALUE_0", "backup")
	t.Setenv("INICONF_CONFLICT_KEY_1", "mysql")
	t.Setenv("INICONF_CONFLICT_VALUE_1", "yes")

	cfg, err := LoadConfigFromEnv("INICONF_CONFLICT")
	require.ErrorIs(t, err, ErrNamespaceConflict)
	assert.Nil(t, cfg)

	var nc *NamespaceConflictError
	require.ErrorAs(t, err, &nc)
	assert.Equal(t, "mysql", nc.Key)
}
