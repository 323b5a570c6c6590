package render

import (
	"github.com/mark3labs/swagger2ts/internal/emit"
	"github.com/mark3labs/swagger2ts/internal/ir"
)

// File is one rendered file. Path is relative to the output directory and
// uses forward slashes.
type File struct {
	Path    string
	Content []byte
}

// Render prints every compiled file and adds the core runtime and client
// class the options ask for. Core files come first so a partial listing
// shows the runtime before the code depending on it.
func Render(out *emit.Output, client *ir.Client, opts emit.Options) ([]File, error) {
	var files []File
	if opts.HasCore() {
		core, err := Core(client, opts)
		if err != nil {
			return nil, err
		}
		files = append(files, core...)
	}
	if opts.Name != "" && opts.Client != emit.ClientFastify {
		cls, err := ClientClass(client, opts)
		if err != nil {
			return nil, err
		}
		files = append(files, cls)
	}
	for _, f := range out.Files {
		files = append(files, File{Path: f.Name, Content: Print(f)})
	}
	return files, nil
}
