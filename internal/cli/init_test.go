package cli

import (
    "bytes"
    "io"
    "os"
    "path/filepath"
    "strings"
    "testing"
)

func TestInit_WritesSampleConfig(t *testing.T) {
    t.Parallel()
    dir := t.TempDir()
    path := filepath.Join(dir, "config.yaml")

    root := NewRootCmd()
    root.SetOut(io.Discard)
    root.SetErr(io.Discard)
    root.SetArgs([]string{"init", "--out", path})

    if err := root.Execute(); err != nil {
        t.Fatalf("init execute: %v", err)
    }

    data, err := os.ReadFile(path)
    if err != nil {
        t.Fatalf("read config: %v", err)
    }
    s := string(data)
    if !strings.Contains(s, "swagger2ts configuration") {
        t.Fatalf("unexpected config contents: %s", s)
    }
}

func TestInit_ExistingWithoutForce(t *testing.T) {
    t.Parallel()
    dir := t.TempDir()
    path := filepath.Join(dir, "config.yaml")
    if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
        t.Fatalf("prewrite: %v", err)
    }

    root := NewRootCmd()
    root.SetOut(io.Discard)
    root.SetErr(io.Discard)
    root.SetArgs([]string{"init", "--out", path})

    err := root.Execute()
    if err == nil {
        t.Fatalf("expected error for existing file without --force")
    }
    if _, ok := err.(usageError); !ok {
        t.Fatalf("expected usage error, got %T: %v", err, err)
    }
}


func TestInit_ForceOverwritesAndReports(t *testing.T) {
    t.Parallel()
    dir := t.TempDir()
    path := filepath.Join(dir, "nested", "swagger2ts.yaml")
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        t.Fatalf("mkdir: %v", err)
    }
    if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
        t.Fatalf("prewrite: %v", err)
    }

    var stdout bytes.Buffer
    root := NewRootCmd()
    root.SetOut(&stdout)
    root.SetErr(io.Discard)
    root.SetArgs([]string{"init", "--out", path, "--force"})

    if err := root.Execute(); err != nil {
        t.Fatalf("init execute: %v", err)
    }
    if !strings.Contains(stdout.String(), "Wrote sample config to") {
        t.Fatalf("expected confirmation, got %q", stdout.String())
    }
    data, err := os.ReadFile(path)
    if err != nil {
        t.Fatalf("read config: %v", err)
    }
    if string(data) == "old" {
        t.Fatalf("expected file to be overwritten")
    }
}
