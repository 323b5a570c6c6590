package output

import (
    "bytes"
    "context"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/mark3labs/swagger2ts/internal/render"
)

func sampleFiles() []render.File {
    return []render.File{
        {Path: "types.gen.ts", Content: []byte("export type Pet = {};\n")},
        {Path: "core/OpenAPI.ts", Content: []byte("export const OpenAPI = {};\n")},
        {Path: "index.ts", Content: []byte("export * from './types.gen';\n")},
    }
}

func TestWrite_DryRun_Plan(t *testing.T) {
    t.Parallel()
    dir := t.TempDir()

    res, err := Write(context.Background(), sampleFiles(), Options{OutDir: dir, DryRun: true})
    if err != nil {
        t.Fatalf("write: %v", err)
    }
    want := []string{"core/OpenAPI.ts", "index.ts", "types.gen.ts"}
    if len(res.Planned) != len(want) {
        t.Fatalf("planned %d files, want %d", len(res.Planned), len(want))
    }
    for i, p := range want {
        if res.Planned[i].RelPath != p {
            t.Fatalf("planned[%d] = %s, want %s", i, res.Planned[i].RelPath, p)
        }
    }
    if entries, _ := os.ReadDir(dir); len(entries) != 0 {
        t.Fatalf("expected no files written on dry-run")
    }

    var buf bytes.Buffer
    PrintPlan(&buf, res)
    if !strings.Contains(buf.String(), "(3 files)") || !strings.Contains(buf.String(), "- core/OpenAPI.ts\n") {
        t.Fatalf("unexpected plan output: %s", buf.String())
    }
}

func TestWrite_WriteAndContents(t *testing.T) {
    t.Parallel()
    dir := filepath.Join(t.TempDir(), "gen")

    if _, err := Write(context.Background(), sampleFiles(), Options{OutDir: dir}); err != nil {
        t.Fatalf("write: %v", err)
    }
    data, err := os.ReadFile(filepath.Join(dir, "core", "OpenAPI.ts"))
    if err != nil {
        t.Fatalf("read core file: %v", err)
    }
    if string(data) != "export const OpenAPI = {};\n" {
        t.Fatalf("unexpected content: %q", data)
    }
    matches, _ := filepath.Glob(filepath.Join(dir, "*.tmp-*"))
    if len(matches) != 0 {
        t.Fatalf("temp files left behind: %v", matches)
    }
}

func TestWrite_NoForce_NonEmptyDir(t *testing.T) {
    t.Parallel()
    dir := t.TempDir()
    if err := os.WriteFile(filepath.Join(dir, "existing.txt"), []byte("x"), 0o600); err != nil {
        t.Fatalf("prewrite: %v", err)
    }
    if _, err := Write(context.Background(), sampleFiles(), Options{OutDir: dir}); err == nil {
        t.Fatalf("expected error on non-empty dir without force")
    }
    if _, err := Write(context.Background(), sampleFiles(), Options{OutDir: dir, Force: true}); err != nil {
        t.Fatalf("force write: %v", err)
    }
    if _, err := os.Stat(filepath.Join(dir, "existing.txt")); err != nil {
        t.Fatalf("existing file removed: %v", err)
    }
}

func TestWrite_RejectsEscapingPaths(t *testing.T) {
    t.Parallel()
    for _, p := range []string{"../evil.ts", "/abs.ts", "."} {
        _, err := Write(context.Background(), []render.File{{Path: p}}, Options{OutDir: t.TempDir(), DryRun: true})
        if err == nil {
            t.Fatalf("expected error for %q", p)
        }
    }
}

func TestWrite_DuplicatePath(t *testing.T) {
    t.Parallel()
    files := []render.File{{Path: "index.ts"}, {Path: "./index.ts"}}
    if _, err := Write(context.Background(), files, Options{OutDir: t.TempDir(), DryRun: true}); err == nil {
        t.Fatalf("expected duplicate path error")
    }
}

func TestWrite_CanceledContext(t *testing.T) {
    t.Parallel()
    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    if _, err := Write(ctx, sampleFiles(), Options{OutDir: t.TempDir()}); err == nil {
        t.Fatalf("expected context error")
    }
}

func TestWrite_RequiresOutDir(t *testing.T) {
    t.Parallel()
    if _, err := Write(context.Background(), sampleFiles(), Options{}); err == nil {
        t.Fatalf("expected error without out dir")
    }
}
