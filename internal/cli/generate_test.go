package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/swagger2ts/internal/config"
)

// captureGenerate swaps the runner for one recording the resolved config.
// Tests using it must not run in parallel.
func captureGenerate(t *testing.T) **config.Config {
	t.Helper()
	captured := new(*config.Config)
	generateRunner = func(ctx context.Context, cfg *config.Config, streams Streams) error {
		*captured = cfg
		return nil
	}
	t.Cleanup(func() { generateRunner = runGenerate })
	return captured
}

func TestGenerateConfigFromFlags(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	captured := captureGenerate(t)

	root.SetArgs([]string{
		"--verbose",
		"generate",
		"--input", "spec.yaml",
		"--output", "./build",
		"--client", "axios",
		"--name", "ApiClient",
		"--use-options=false",
		"--operation-id=false",
		"--service-response", "response",
		"--enums", "typescript",
		"--schemas=false",
		"--include-tags", "foo,bar",
		"--exclude-tags", "baz",
		"--dry-run",
		"--force",
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	cfg := *captured
	if cfg == nil {
		t.Fatalf("expected config to be captured")
	}

	if cfg.Input != "spec.yaml" {
		t.Errorf("input mismatch: got %q", cfg.Input)
	}
	if cfg.Output != "./build" {
		t.Errorf("output mismatch: got %q", cfg.Output)
	}
	if cfg.Client != "axios" {
		t.Errorf("client mismatch: got %q", cfg.Client)
	}
	if cfg.Name != "ApiClient" {
		t.Errorf("name mismatch: got %q", cfg.Name)
	}
	if cfg.UseOptions {
		t.Errorf("expected use-options false")
	}
	if cfg.Services.OperationID {
		t.Errorf("expected operation-id false")
	}
	if cfg.Services.Response != "response" {
		t.Errorf("service response mismatch: got %q", cfg.Services.Response)
	}
	if cfg.Types.Enums != "typescript" {
		t.Errorf("enums mismatch: got %q", cfg.Types.Enums)
	}
	if cfg.Schemas.Export {
		t.Errorf("expected schemas disabled")
	}
	if !cfg.Services.Export || !cfg.Types.Export || !cfg.ExportCore {
		t.Errorf("untouched exports should keep their defaults: %+v", cfg)
	}
	if want := []string{"foo", "bar"}; !equalStringSlices(cfg.IncludeTags, want) {
		t.Errorf("include tags mismatch: got %v", cfg.IncludeTags)
	}
	if want := []string{"baz"}; !equalStringSlices(cfg.ExcludeTags, want) {
		t.Errorf("exclude tags mismatch: got %v", cfg.ExcludeTags)
	}
	if !cfg.DryRun {
		t.Errorf("expected dry-run true")
	}
	if !cfg.Force {
		t.Errorf("expected force true")
	}
	if !cfg.Verbose {
		t.Errorf("expected verbose true")
	}
}

func TestGenerateConfigPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	configContent := strings.TrimSpace(`input: config-spec.yaml
output: from-config
client: xhr
name: FromConfig
includeTags:
  - cfgFoo
excludeTags: cfgBar
types:
  enums: javascript
dryRun: true
force: false
verbose: true
`) + "\n"

	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SWAGGER2TS_CLIENT", "node")
	t.Setenv("SWAGGER2TS_NAME", "FromEnv")

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	captured := captureGenerate(t)

	root.SetArgs([]string{
		"--config", configPath,
		"generate",
		"--input", "flag-spec.yaml",
		"--name", "FromFlag",
		"--include-tags", "flagTag",
		"--dry-run=false",
		"--force",
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	cfg := *captured
	if cfg == nil {
		t.Fatalf("expected config to be captured")
	}

	if cfg.Input != "flag-spec.yaml" {
		t.Errorf("input: want %q got %q", "flag-spec.yaml", cfg.Input)
	}
	if cfg.Output != "from-config" {
		t.Errorf("output: want from-config got %q", cfg.Output)
	}
	if cfg.Client != "node" {
		t.Errorf("client: env should override the file, got %q", cfg.Client)
	}
	if cfg.Name != "FromFlag" {
		t.Errorf("name: flag should override env, got %q", cfg.Name)
	}
	if cfg.Types.Enums != "javascript" {
		t.Errorf("enums: want javascript got %q", cfg.Types.Enums)
	}
	if want := []string{"flagTag"}; !equalStringSlices(cfg.IncludeTags, want) {
		t.Errorf("include tags: want %v got %v", want, cfg.IncludeTags)
	}
	if want := []string{"cfgBar"}; !equalStringSlices(cfg.ExcludeTags, want) {
		t.Errorf("exclude tags: want %v got %v", want, cfg.ExcludeTags)
	}
	if cfg.DryRun {
		t.Errorf("expected dry-run false after flag override")
	}
	if !cfg.Force {
		t.Errorf("expected force true after flag override")
	}
	if !cfg.Verbose {
		t.Errorf("expected verbose true from config file")
	}
}

func TestGenerateConfigFromEnvConfigPath(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(configPath, []byte("input: env-config.yaml\nclient: angular\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configEnv, configPath)

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	captured := captureGenerate(t)
	root.SetArgs([]string{"generate"})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	cfg := *captured
	if cfg == nil {
		t.Fatalf("expected config to be captured")
	}
	if cfg.Input != "env-config.yaml" || cfg.Client != "angular" {
		t.Errorf("config file from %s not applied: %+v", configEnv, cfg)
	}
}

func TestGenerateConfigUnknownKey(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(configPath, []byte("unknown: value\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	root.SetArgs([]string{
		"--config", configPath,
		"generate",
		"--input", "spec.yaml",
	})

	err := root.Execute()
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestGenerateConfigValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing input", args: []string{"generate"}, want: "input"},
		{name: "unknown client", args: []string{"generate", "--input", "a.yaml", "--client", "jquery"}, want: "client"},
		{name: "bad name", args: []string{"generate", "--input", "a.yaml", "--name", "my client"}, want: "name"},
		{name: "bad enums", args: []string{"generate", "--input", "a.yaml", "--enums", "flags"}, want: "enums"},
		{name: "tag overlap", args: []string{"generate", "--input", "a.yaml", "--include-tags", "a", "--exclude-tags", "a"}, want: "tags"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			root := NewRootCmd()
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			root.SetArgs(tc.args)

			err := root.Execute()
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !errors.Is(err, ErrUsage) {
				t.Fatalf("expected usage error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
