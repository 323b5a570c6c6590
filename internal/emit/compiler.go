package emit

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mark3labs/swagger2ts/internal/ir"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

// Client flavors with special handling. Any other value is a plain
// browser/node flavor whose differences live in the core runtime files.
const (
	ClientFetch   = "fetch"
	ClientAngular = "angular"
	ClientFastify = "fastify"
	heyAPIPrefix  = "@hey-api/"
)

// Enum styles.
const (
	EnumsUnion      = ""
	EnumsTypeScript = "typescript"
	EnumsJavaScript = "javascript"
)

// Service return styles.
const (
	ResponseBody = "body"
	ResponseFull = "response"
)

// Schema styles.
const (
	SchemaJSON = "json"
	SchemaForm = "form"
)

// File names.
const (
	TypesFile    = "types.gen.ts"
	ServicesFile = "services.gen.ts"
	SchemasFile  = "schemas.gen.ts"
	IndexFile    = "index.ts"
)

// Options selects what is generated. The compiler never changes them.
type Options struct {
	Client          string
	Name            string
	UseOptions      bool
	ExportCore      bool
	ExportServices  bool
	ExportTypes     bool
	ExportSchemas   bool
	Enums           string
	ServiceResponse string
	SchemaType      string
}

func (o Options) heyAPI() bool { return strings.HasPrefix(o.Client, heyAPIPrefix) }

// HasCore reports whether the core runtime files are generated.
func (o Options) HasCore() bool {
	return o.ExportCore && !o.heyAPI() && o.Client != ClientFastify
}

// Validate reports option values the compiler does not know.
func (o Options) Validate() error {
	switch o.Enums {
	case EnumsUnion, EnumsTypeScript, EnumsJavaScript:
	default:
		return fmt.Errorf("unknown enum style %q", o.Enums)
	}
	switch o.ServiceResponse {
	case "", ResponseBody, ResponseFull:
	default:
		return fmt.Errorf("unknown service response %q", o.ServiceResponse)
	}
	switch o.SchemaType {
	case "", SchemaJSON, SchemaForm:
	default:
		return fmt.Errorf("unknown schema type %q", o.SchemaType)
	}
	if o.Client == "" {
		return fmt.Errorf("client is required")
	}
	return nil
}

// Output is the set of compiled files in write order.
type Output struct {
	Files []*File
}

// File returns the compiled file called name.
func (o *Output) File(name string) (*File, bool) {
	for _, f := range o.Files {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Compiler turns a Client into files.
type Compiler struct {
	opts   Options
	logger *slog.Logger
}

// NewCompiler returns a Compiler. A nil logger discards output.
func NewCompiler(opts Options, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Compiler{opts: opts, logger: logger.With("component", "emit")}
}

// Compile emits the types, services, schemas and index files. defs are the
// document definitions backing the schemas file. Files left without
// statements are dropped.
func (c *Compiler) Compile(client *ir.Client, defs []*spec.NamedSchema) (*Output, error) {
	if err := c.opts.Validate(); err != nil {
		return nil, err
	}

	var (
		out      Output
		types    *File
		services *File
		schemas  *File
	)
	c.checkReferences(client)
	if c.opts.ExportTypes {
		types = NewFile(TypesFile)
		c.types(client, types)
	}
	if c.opts.ExportServices && c.opts.Client != ClientFastify {
		services = NewFile(ServicesFile)
		c.services(client, services, types)
	}
	if c.opts.ExportSchemas {
		schemas = NewFile(SchemasFile)
		c.schemas(defs, schemas)
	}

	for _, f := range []*File{schemas, services, types} {
		if f != nil && !f.IsEmpty() {
			out.Files = append(out.Files, f)
		}
	}
	out.Files = append(out.Files, c.index(out.Files))

	for _, f := range out.Files {
		c.logger.Debug("compiled file", "file", f.Name, "nodes", len(f.Nodes), "imports", len(f.Imports))
	}
	return &out, nil
}

// checkReferences warns about references to models the client does not
// declare. They are still printed by name and fail to type-check.
func (c *Compiler) checkReferences(client *ir.Client) {
	visit := func(owner string) func(*ir.Model) {
		return func(m *ir.Model) {
			ref, ok := m.Export.(ir.ReferenceExport)
			if !ok || ref.Target.IsZero() {
				return
			}
			if _, found := ref.Target.Resolve(client); !found {
				c.logger.Warn("reference to undeclared model", "owner", owner, "target", ref.Target.Name)
			}
		}
	}
	for _, m := range client.Models {
		m.Walk(visit(m.Name))
	}
	for _, op := range client.Operations() {
		for _, p := range op.Parameters {
			p.Walk(visit(op.Name))
		}
		for _, r := range op.Results {
			r.Walk(visit(op.Name))
		}
		for _, r := range op.Errors {
			r.Walk(visit(op.Name))
		}
	}
}

// index re-exports the core runtime and every generated file.
func (c *Compiler) index(files []*File) *File {
	f := NewFile(IndexFile)
	if c.opts.Name != "" {
		f.Add(
			ExportNamed{Module: "./" + c.opts.Name, Names: []ImportName{{Name: c.opts.Name}}},
		)
	}
	if c.opts.HasCore() {
		if c.opts.Name != "" {
			f.Add(ExportNamed{Module: "./core/BaseHttpRequest", Names: []ImportName{{Name: "BaseHttpRequest"}}})
		}
		f.Add(
			ExportNamed{Module: "./core/ApiError", Names: []ImportName{{Name: "ApiError"}}},
			ExportNamed{Module: "./core/CancelablePromise", Names: []ImportName{{Name: "CancelablePromise"}, {Name: "CancelError"}}},
			ExportNamed{Module: "./core/OpenAPI", Names: []ImportName{{Name: "OpenAPI"}, {Name: "OpenAPIConfig", TypeOnly: true}}},
		)
	}
	for _, g := range files {
		f.Add(ExportAll{Module: g.Module()})
	}
	return f
}
