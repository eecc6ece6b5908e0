package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, ".", s.BaseDir)
	assert.Equal(t, "_templates", s.TemplatesDir)
	assert.Equal(t, "**/*.t", s.Pattern)
	assert.Equal(t, 4, s.Workers)
	assert.Equal(t, 30*time.Second, s.HookTimeout)
	assert.Equal(t, time.Duration(0), s.Timeout)
	assert.Equal(t, "sh", s.Shell)
	assert.False(t, s.AllowHooks)
	assert.NotNil(t, s.Vars)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scaffctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`base_dir: out
workers: 2
timeout: 1m
hook_timeout: 5s
allow_hooks: true
vars:
  appName: billing
  nested:
    apiVersion: v2
`), 0o644))

	v := viper.New()
	SetupViper(v, path)
	require.NoError(t, ReadConfig(v, true))

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "out", s.BaseDir)
	assert.Equal(t, 2, s.Workers)
	assert.Equal(t, time.Minute, s.Timeout)
	assert.Equal(t, 5*time.Second, s.HookTimeout)
	assert.True(t, s.AllowHooks)
	assert.Equal(t, "billing", s.Vars["appName"])
	nested, ok := s.Vars["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "v2", nested["apiVersion"])
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("SCAFFCTL_WORKERS", "8")
	t.Setenv("SCAFFCTL_BASE_DIR", "/tmp/gen")

	v := viper.New()
	SetupViper(v, filepath.Join(t.TempDir(), "none.yaml"))

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 8, s.Workers)
	assert.Equal(t, "/tmp/gen", s.BaseDir)
}

func TestReadConfig_Missing(t *testing.T) {
	v := viper.New()
	v.SetConfigName("does-not-exist")
	v.AddConfigPath(t.TempDir())
	assert.NoError(t, ReadConfig(v, false))

	v = viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, ReadConfig(v, true))
}

func TestValidate(t *testing.T) {
	s := &Settings{}
	ApplyDefaults(s)
	res, err := Validate(s)
	require.NoError(t, err)
	assert.True(t, res.Valid, res.Summary())

	s.Workers = -1
	s.Pattern = "[abc"
	res, err = Validate(s)
	require.NoError(t, err)
	assert.False(t, res.Valid)

	fields := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "workers")
	assert.Contains(t, fields, "pattern")
	assert.Contains(t, res.Summary(), "workers")

	_, err = Validate(nil)
	assert.Error(t, err)
}

func TestGetSchema(t *testing.T) {
	assert.Contains(t, string(GetSchema()), "hook_timeout")
}

func TestParseVars(t *testing.T) {
	tests := []struct {
		ext  string
		data string
	}{
		{".yaml", "name: demo\nport: 8080\n"},
		{".yml", "name: demo\nport: 8080\n"},
		{".json", `{"name": "demo", "port": 8080}`},
		{".toml", "name = \"demo\"\nport = 8080\n"},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			vars, err := ParseVars([]byte(tt.data), tt.ext)
			require.NoError(t, err)
			assert.Equal(t, "demo", vars["name"])
			assert.EqualValues(t, 8080, vars["port"])
		})
	}

	_, err := ParseVars([]byte("x"), ".ini")
	assert.ErrorContains(t, err, "unsupported vars file extension")

	_, err = ParseVars([]byte("{"), ".json")
	assert.Error(t, err)
}

func TestLoadVars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user:\n  role: admin\n"), 0o644))

	vars, err := LoadVars(path)
	require.NoError(t, err)
	user, ok := vars["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "admin", user["role"])

	_, err = LoadVars(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseSet(t *testing.T) {
	vars, err := ParseSet([]string{"name=billing", "app.port=8080", "app.debug=true", "app.label=v1.0 beta", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name":  "billing",
		"empty": "",
		"app": map[string]any{
			"port":  8080,
			"debug": true,
			"label": "v1.0 beta",
		},
	}, vars)

	for _, bad := range []string{"novalue", "=x", "a..b=c"} {
		_, err := ParseSet([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestMergeVars(t *testing.T) {
	base := map[string]any{"app": map[string]any{"name": "a", "port": 1}, "keep": true}
	override := map[string]any{"app": map[string]any{"name": "b"}}

	merged, err := MergeVars(base, nil, override)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"app":  map[string]any{"name": "b", "port": 1},
		"keep": true,
	}, merged)

	// Inputs are not mutated.
	assert.Equal(t, "a", base["app"].(map[string]any)["name"])
}
