package resolve

import (
	"io"
	"log/slog"

	"github.com/mark3labs/swagger2ts/internal/ir"
	"github.com/mark3labs/swagger2ts/internal/naming"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

// Option configures an Assembler.
type Option func(*Assembler)

// WithOperationID names operations after their operationId when present.
func WithOperationID(on bool) Option {
	return func(a *Assembler) { a.useOperationID = on }
}

// WithLogger sets the logger for resolution diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// Assembler builds a Client from a document.
type Assembler struct {
	useOperationID bool
	logger         *slog.Logger
}

func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Assemble resolves every definition and operation of doc. Each call uses a
// fresh enum-name registry, so calls may run concurrently on different
// documents.
func (a *Assembler) Assemble(doc *spec.Document) (*ir.Client, error) {
	logger := a.logger.With("component", "resolve")
	r := NewResolver(doc, logger)
	r.useOperationID = a.useOperationID

	client := &ir.Client{
		Server:  Server(doc),
		Version: doc.Info.Version,
	}
	for _, def := range doc.Definitions {
		name := naming.EscapeReserved(naming.SanitizeTypeName(def.Name))
		m, err := r.Definition(name, def.Schema)
		if err != nil {
			return nil, err
		}
		client.Models = append(client.Models, m)
	}

	services, err := r.Services()
	if err != nil {
		return nil, err
	}
	client.Services = services

	reg := naming.NewRegistry()
	commitEnumNames(reg, client.Models, logger)
	client.EnumNames = reg.Names()
	client.Index()

	logger.Debug("assembled client",
		"models", len(client.Models),
		"services", len(client.Services),
		"enums", reg.Len())
	return client, nil
}

// commitEnumNames names top-level enums and the enums extracted from
// models, in declaration order. A name that is already taken, by another
// enum or by a top-level model other than the enum itself, leaves EnumName
// empty and the enum is printed inline.
func commitEnumNames(reg *naming.Registry, models []*ir.Model, logger *slog.Logger) {
	declared := make(map[string]struct{}, len(models))
	for _, m := range models {
		declared[m.Name] = struct{}{}
	}

	commit := func(m *ir.Model, own string) {
		if ident := naming.EnumIdent(m.Name); ident != own {
			if _, clash := declared[ident]; clash {
				logger.Debug("enum name shadows a model, inlining", "model", m.Name, "name", ident)
				return
			}
		}
		name, ok := naming.EnumName(reg, m.Name)
		if !ok {
			logger.Debug("enum name taken, inlining", "model", m.Name)
			return
		}
		m.EnumName = name
	}

	for _, m := range models {
		if m.IsEnum() {
			commit(m, m.Name)
		}
		ids := make(map[int]string, len(m.Enums))
		for _, e := range m.Enums {
			commit(e, "")
			if e.EnumID != 0 && e.EnumName != "" {
				ids[e.EnumID] = e.EnumName
			}
		}
		if len(ids) == 0 {
			continue
		}
		m.Walk(func(x *ir.Model) {
			if x.EnumID != 0 {
				x.EnumName = ids[x.EnumID]
			}
		})
	}
}
