package emit

import "strings"

// File is one generated file: its imports and its statements in order.
type File struct {
	// Name is the path relative to the output directory, e.g. "types.gen.ts".
	Name    string
	Imports []Import
	Nodes   []Node
}

// NewFile returns an empty file.
func NewFile(name string) *File {
	return &File{Name: name}
}

// Add appends statements.
func (f *File) Add(nodes ...Node) {
	f.Nodes = append(f.Nodes, nodes...)
}

// IsEmpty reports whether the file has no statements. Imports alone do not
// count.
func (f *File) IsEmpty() bool {
	return len(f.Nodes) == 0
}

// AddImport merges names into the import from module. Each symbol is kept
// once per module; a later value import of a symbol first imported as a
// type widens it.
func (f *File) AddImport(module string, names ...ImportName) {
	if len(names) == 0 {
		return
	}
	idx := -1
	for i := range f.Imports {
		if f.Imports[i].Module == module {
			idx = i
			break
		}
	}
	if idx < 0 {
		f.Imports = append(f.Imports, Import{Module: module})
		idx = len(f.Imports) - 1
	}
	imp := &f.Imports[idx]
outer:
	for _, n := range names {
		for j := range imp.Names {
			if imp.Names[j].Name == n.Name && imp.Names[j].Alias == n.Alias {
				imp.Names[j].TypeOnly = imp.Names[j].TypeOnly && n.TypeOnly
				continue outer
			}
		}
		imp.Names = append(imp.Names, n)
	}
}

// Module is the specifier other generated files use to import f.
func (f *File) Module() string {
	return "./" + strings.TrimSuffix(f.Name, ".ts")
}
