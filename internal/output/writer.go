// Package output persists rendered files under an output directory.
package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/swagger2ts/internal/render"
)

// Options controls how files are written.
type Options struct {
	OutDir string // required; target directory
	Force  bool   // write into a non-empty directory
	DryRun bool   // don't write, only plan
}

// PlannedFile describes a file the writer intends to write.
type PlannedFile struct {
	RelPath string
	Size    int
	Mode    os.FileMode
}

// Result returns the resolved output directory and the planned files.
type Result struct {
	OutDir  string
	Planned []PlannedFile
}

// Write plans files in path order and writes them unless opts.DryRun is
// set. Every path is checked before anything is written, so a bad plan
// leaves the directory untouched.
func Write(ctx context.Context, files []render.File, opts Options) (*Result, error) {
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output: OutDir is required")
	}
	abs, err := filepath.Abs(opts.OutDir)
	if err != nil {
		return nil, fmt.Errorf("resolve out dir: %w", err)
	}

	byPath := make(map[string][]byte, len(files))
	for _, f := range files {
		rel, err := cleanRel(f.Path)
		if err != nil {
			return nil, err
		}
		if _, dup := byPath[rel]; dup {
			return nil, fmt.Errorf("output: %s planned twice", rel)
		}
		byPath[rel] = f.Content
	}

	rels := make([]string, 0, len(byPath))
	for p := range byPath {
		rels = append(rels, p)
	}
	sort.Strings(rels)

	res := &Result{OutDir: abs, Planned: make([]PlannedFile, 0, len(rels))}
	for _, rel := range rels {
		res.Planned = append(res.Planned, PlannedFile{RelPath: rel, Size: len(byPath[rel]), Mode: 0o644})
	}

	if !opts.DryRun {
		if err := writeFiles(ctx, abs, rels, byPath, opts.Force); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// cleanRel rejects paths that would land outside the output directory.
func cleanRel(p string) (string, error) {
	clean := path.Clean(filepath.ToSlash(p))
	if clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("output: invalid path %q", p)
	}
	return clean, nil
}

func writeFiles(ctx context.Context, abs string, rels []string, files map[string][]byte, force bool) error {
	// Pre-flight: if directory exists and not empty and not force, error.
	if st, err := os.Stat(abs); err == nil && st.IsDir() && !force {
		entries, rerr := os.ReadDir(abs)
		if rerr == nil && len(entries) > 0 {
			return fmt.Errorf("output: directory %q is not empty (use --force to overwrite)", abs)
		}
	}
	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := filepath.Join(abs, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
		// atomic write via temp file + rename
		tmp := p + ".tmp-" + time.Now().Format("20060102150405")
		if err := os.WriteFile(tmp, files[rel], 0o644); err != nil {
			return fmt.Errorf("write temp %s: %w", rel, err)
		}
		if err := os.Rename(tmp, p); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("rename %s: %w", rel, err)
		}
	}
	return nil
}

// PrintPlan lists the planned files.
func PrintPlan(w io.Writer, res *Result) {
	fmt.Fprintf(w, "Planned writes to %s (%d files):\n", res.OutDir, len(res.Planned))
	for _, p := range res.Planned {
		fmt.Fprintf(w, "- %s\n", p.RelPath)
	}
}
