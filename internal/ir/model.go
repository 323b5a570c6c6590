// Package ir holds the canonical, language-neutral representation of an
// API description: types, models, operations and services collected into a
// Client. Values are built by package resolve and read by package emit.
package ir

// Type is a resolved type expression.
type Type struct {
	// Type is the full rendered expression, e.g. "Link<string>".
	Type string
	// Base is the head symbol of the expression.
	Base string
	// Template is the single generic argument, empty when absent.
	Template string
	// Imports lists every named symbol the expression references, in order
	// of first occurrence. Duplicates are kept.
	Imports    []string
	IsNullable bool
}

// HasTemplate reports whether the expression carries a generic argument.
func (t Type) HasTemplate() bool { return t.Template != "" }

// Export is the kind of declaration a Model turns into. The set of
// implementations is closed; consumers switch over all of them.
type Export interface {
	isExport()
}

// CompositionKind distinguishes allOf, anyOf and oneOf.
type CompositionKind int

const (
	AllOf CompositionKind = iota
	AnyOf
	OneOf
)

func (k CompositionKind) String() string {
	switch k {
	case AllOf:
		return "all-of"
	case AnyOf:
		return "any-of"
	default:
		return "one-of"
	}
}

// Separator is the operator used between members when printed.
func (k CompositionKind) Separator() string {
	if k == AllOf {
		return " & "
	}
	return " | "
}

type (
	// InterfaceExport is an object with named properties.
	InterfaceExport struct{}
	// EnumExport is a closed set of literal values.
	EnumExport struct{}
	// CompositionExport combines its properties with Kind semantics.
	CompositionExport struct{ Kind CompositionKind }
	// ReferenceExport aliases another named model or a primitive. Target
	// is empty for primitives and generic instantiations.
	ReferenceExport struct{ Target RefHandle }
	// ArrayExport is a list of Link (or of the Base type when Link is nil).
	ArrayExport struct{}
	// DictionaryExport is a string-keyed map of Link (or Base).
	DictionaryExport struct{}
	// ConstExport is a single literal value.
	ConstExport struct{ Value any }
	// GenericExport is a primitive or opaque type with no structure.
	GenericExport struct{}
)

func (InterfaceExport) isExport()   {}
func (EnumExport) isExport()        {}
func (CompositionExport) isExport() {}
func (ReferenceExport) isExport()   {}
func (ArrayExport) isExport()       {}
func (DictionaryExport) isExport()  {}
func (ConstExport) isExport()       {}
func (GenericExport) isExport()     {}

// Enumerator is one member of an enum.
type Enumerator struct {
	Value       any
	CustomName  string
	Description string
}

// Model is the canonical shape of a named or inline schema.
type Model struct {
	Type

	Name        string
	Export      Export
	Description string
	Deprecated  bool
	Format      string
	Default     any

	// Link is the element model of arrays and the value model of
	// dictionaries when it has structure of its own. It is owned by this
	// model; named references never appear here, only their names.
	Link *Model

	Properties []*Model
	Enum       []Enumerator
	// Enums holds enum models extracted from composition branches, to be
	// emitted as siblings of this model.
	Enums []*Model
	// Refs names every definition this model references.
	Refs []string

	IsDefinition bool
	IsRequired   bool
	IsReadOnly   bool

	// EnumName is the exported enum name committed by the assembler. It
	// stays empty for enums whose standalone export was skipped.
	EnumName string
	// EnumID pairs a composition member with the sibling enum extracted
	// from it. Zero when the model is not part of such a pair.
	EnumID int
}

// IsEnum reports whether the model exports an enum.
func (m *Model) IsEnum() bool {
	_, ok := m.Export.(EnumExport)
	return ok
}

// EnumValues returns the literal values of the model's enumerators.
func (m *Model) EnumValues() []any {
	out := make([]any, len(m.Enum))
	for i, e := range m.Enum {
		out[i] = e.Value
	}
	return out
}

// Walk calls fn for m and every model nested in its properties and links.
// Extracted sibling enums are not visited.
func (m *Model) Walk(fn func(*Model)) {
	if m == nil {
		return
	}
	fn(m)
	for _, p := range m.Properties {
		p.Walk(fn)
	}
	m.Link.Walk(fn)
}

// AddRef records a referenced definition name once.
func (m *Model) AddRef(names ...string) {
	for _, n := range names {
		if n == "" {
			continue
		}
		found := false
		for _, r := range m.Refs {
			if r == n {
				found = true
				break
			}
		}
		if !found {
			m.Refs = append(m.Refs, n)
		}
	}
}

// AddImports appends symbols to the model's import list, keeping duplicates.
func (m *Model) AddImports(names ...string) {
	m.Imports = append(m.Imports, names...)
}

// RefHandle is a by-name pointer to a top-level model. It never owns the
// target, so cyclic schemas stay finite. The zero handle points nowhere.
type RefHandle struct {
	Name string
}

// IsZero reports whether the handle points nowhere.
func (h RefHandle) IsZero() bool { return h.Name == "" }

// Resolve looks the handle up in c.
func (h RefHandle) Resolve(c *Client) (*Model, bool) {
	if h.IsZero() {
		return nil, false
	}
	return c.Model(h.Name)
}
