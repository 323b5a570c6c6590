package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/swagger2ts/internal/emit"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault_IsValidOnceInputIsSet(t *testing.T) {
	t.Parallel()
	cfg := Default()
	assert.Error(t, cfg.Validate())

	cfg.Input = "spec.yaml"
	require.NoError(t, cfg.Validate())

	opts := cfg.EmitOptions()
	assert.Equal(t, emit.ClientFetch, opts.Client)
	assert.True(t, opts.ExportCore)
	assert.True(t, opts.ExportServices)
	assert.True(t, opts.UseOptions)
	assert.NoError(t, opts.Validate())
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "cfg.yaml", `
input: ./openapi.yaml
out: ./gen
client: Angular
name: ApiClient
use_options: false
services:
  operation-id: false
  response: response
types:
  enums: typescript
schemas: false
includeTags: "a, b,a"
dryRun: "yes"
`)
	cfg := Default()
	require.NoError(t, LoadFile(&cfg, path))
	cfg.Normalize()

	assert.Equal(t, "./openapi.yaml", cfg.Input)
	assert.Equal(t, "./gen", cfg.Output)
	assert.Equal(t, "angular", cfg.Client)
	assert.Equal(t, "ApiClient", cfg.Name)
	assert.False(t, cfg.UseOptions)
	assert.True(t, cfg.Services.Export)
	assert.False(t, cfg.Services.OperationID)
	assert.Equal(t, emit.ResponseFull, cfg.Services.Response)
	assert.Equal(t, emit.EnumsTypeScript, cfg.Types.Enums)
	assert.False(t, cfg.Schemas.Export)
	assert.Equal(t, []string{"a", "b"}, cfg.IncludeTags)
	assert.True(t, cfg.DryRun)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile_JSON(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "cfg.json", `{"input": "api.json", "types": {"enums": false}, "excludeTags": ["internal"]}`)
	cfg := Default()
	require.NoError(t, LoadFile(&cfg, path))
	assert.Equal(t, "api.json", cfg.Input)
	assert.Equal(t, emit.EnumsUnion, cfg.Types.Enums)
	assert.Equal(t, []string{"internal"}, cfg.ExcludeTags)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"unknown field":   "lang: go\n",
		"unknown nested":  "services:\n  flavor: x\n",
		"bad bool":        "force: maybe\n",
		"bad section":     "types: 3\n",
		"enums true":      "types:\n  enums: true\n",
		"bad yaml":        "input: [\n",
		"bad string type": "client: [a]\n",
	}
	for name, content := range tests {
		content := content
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			assert.Error(t, LoadFile(&cfg, writeFile(t, "cfg.yaml", content)))
		})
	}

	cfg := Default()
	assert.Error(t, LoadFile(&cfg, filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SWAGGER2TS_CLIENT", "axios")
	t.Setenv("SWAGGER2TS_USE_OPTIONS", "false")
	t.Setenv("SWAGGER2TS_SERVICES_OPERATION_ID", "false")
	t.Setenv("SWAGGER2TS_TYPES_ENUMS", "javascript")
	t.Setenv("SWAGGER2TS_EXCLUDE_TAGS", "internal,beta")

	cfg := Default()
	cfg.Input = "from-file.yaml"
	require.NoError(t, ApplyEnv(&cfg))

	assert.Equal(t, "from-file.yaml", cfg.Input)
	assert.Equal(t, "axios", cfg.Client)
	assert.False(t, cfg.UseOptions)
	assert.False(t, cfg.Services.OperationID)
	assert.True(t, cfg.Services.Export)
	assert.Equal(t, "javascript", cfg.Types.Enums)
	assert.Equal(t, []string{"internal", "beta"}, cfg.ExcludeTags)
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	t.Setenv("SWAGGER2TS_FORCE", "sometimes")
	cfg := Default()
	assert.Error(t, ApplyEnv(&cfg))
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"hey-api client", func(c *Config) { c.Client = "@hey-api/client-fetch" }, true},
		{"bare hey-api prefix", func(c *Config) { c.Client = "@hey-api/client-" }, false},
		{"unknown client", func(c *Config) { c.Client = "jquery" }, false},
		{"bad name", func(c *Config) { c.Name = "Api Client" }, false},
		{"bad response", func(c *Config) { c.Services.Response = "raw" }, false},
		{"bad enums", func(c *Config) { c.Types.Enums = "flags" }, false},
		{"bad schema type", func(c *Config) { c.Schemas.Type = "xml" }, false},
		{"no output", func(c *Config) { c.Output = "" }, false},
		{"known methods", func(c *Config) { c.Methods = []string{"get", "patch"} }, true},
		{"unknown method", func(c *Config) { c.Methods = []string{"fetch"} }, false},
		{"path pattern", func(c *Config) { c.Paths = []string{"^/pets/"} }, true},
		{"bad path pattern", func(c *Config) { c.Paths = []string{"(unclosed"} }, false},
		{"tag overlap", func(c *Config) {
			c.IncludeTags = []string{"a"}
			c.ExcludeTags = []string{"a"}
		}, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			cfg.Input = "spec.yaml"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	cfg := Config{
		Client:      " Axios ",
		Methods:     []string{" GET", "get", "Post "},
		IncludeTags: []string{" a", "", "a"},
	}
	cfg.Normalize()
	assert.Equal(t, "axios", cfg.Client)
	assert.Equal(t, []string{"get", "post"}, cfg.Methods)
	assert.Equal(t, []string{"a"}, cfg.IncludeTags)
}

func TestLevel(t *testing.T) {
	t.Parallel()
	cfg := Default()
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	cfg.LogLevel = "warn"
	assert.Equal(t, slog.LevelWarn, cfg.Level())
	cfg.Verbose = true
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestSampleYAMLParses(t *testing.T) {
	t.Parallel()
	cfg := Default()
	require.NoError(t, LoadFile(&cfg, writeFile(t, "sample.yaml", SampleYAML)))
	assert.Equal(t, Default(), cfg)
}
