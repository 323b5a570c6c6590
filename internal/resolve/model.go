package resolve

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mark3labs/swagger2ts/internal/ir"
	"github.com/mark3labs/swagger2ts/internal/naming"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

// IndexSignature is the property name used for additionalProperties next to
// named properties.
const IndexSignature = "[key: string]"

// Resolver expands schemas and path entries of one document. A Resolver
// carries per-run counters and must not be shared between runs.
type Resolver struct {
	doc    *spec.Document
	logger *slog.Logger

	useOperationID bool
	enumSeq        int
	// scope is the definition being resolved. It names extracted enums
	// whose parent has no name of its own.
	scope string
}

// NewResolver returns a Resolver for doc. A nil logger discards output.
func NewResolver(doc *spec.Document, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{doc: doc, logger: logger}
}

// Definition resolves the top-level schema called name.
func (r *Resolver) Definition(name string, s *spec.Schema) (*ir.Model, error) {
	r.scope = name
	defer func() { r.scope = "" }()
	return r.Model(s, true, name)
}

// Model expands s into a Model called name. References are recorded by name
// and never expanded, so cyclic schemas terminate. The only error is
// ErrUnsupportedRef.
func (r *Resolver) Model(s *spec.Schema, isDefinition bool, name string) (*ir.Model, error) {
	m := &ir.Model{
		Type:         ir.Type{Type: "unknown", Base: "unknown"},
		Name:         name,
		Export:       ir.GenericExport{},
		IsDefinition: isDefinition,
	}
	if s == nil {
		return m, nil
	}
	m.Description = s.Description
	m.Deprecated = s.Deprecated
	m.Format = s.Format
	m.Default = s.Default
	m.IsReadOnly = s.ReadOnly
	nullable := s.Nullable || s.HasType("null")

	var err error
	switch {
	case s.Ref != "":
		err = r.reference(m, s)
	case len(s.Enum) > 0 && !s.HasType("boolean"):
		r.enum(m, s)
	case len(s.AllOf) > 0:
		err = r.composition(m, s, ir.AllOf, s.AllOf)
	case len(s.AnyOf) > 0:
		err = r.composition(m, s, ir.AnyOf, s.AnyOf)
	case len(s.OneOf) > 0:
		err = r.composition(m, s, ir.OneOf, s.OneOf)
	case s.Items != nil && (s.HasType("array") || len(s.Types) == 0):
		err = r.array(m, s)
	case s.HasType("object") || len(s.Properties) > 0 || s.AdditionalProperties != nil || s.AdditionalPropertiesAllowed:
		err = r.object(m, s)
	case s.HasConst:
		constant(m, s)
	case len(s.Types) > 0:
		m.Type = Types(s.Types, s.Format)
	default:
		m.Type = Type("", s.Format)
	}
	if err != nil {
		return nil, err
	}
	m.IsNullable = m.IsNullable || nullable
	return m, nil
}

func (r *Resolver) reference(m *ir.Model, s *spec.Schema) error {
	t, err := schemaRefType(s.Ref)
	if err != nil {
		return err
	}
	export := ir.ReferenceExport{}
	if len(t.Imports) == 1 && t.Type == t.Imports[0] {
		export.Target = ir.RefHandle{Name: t.Type}
	}
	m.Export = export
	m.Type = t
	m.AddRef(t.Imports...)
	return nil
}

func (r *Resolver) enum(m *ir.Model, s *spec.Schema) {
	m.Export = ir.EnumExport{}

	seen := make(map[string]struct{}, len(s.Enum))
	var values []any
	numeric := true
	for i, v := range s.Enum {
		if v == nil {
			m.IsNullable = true
			continue
		}
		lit := naming.EnumValue(v, true)
		if _, dup := seen[lit]; dup {
			continue
		}
		seen[lit] = struct{}{}

		e := ir.Enumerator{Value: v}
		if i < len(s.EnumVarNames) {
			e.CustomName = s.EnumVarNames[i]
		}
		if i < len(s.EnumDescriptions) {
			e.Description = s.EnumDescriptions[i]
		}
		m.Enum = append(m.Enum, e)
		values = append(values, v)
		if _, ok := v.(string); ok {
			numeric = false
		}
	}

	if len(values) == 0 {
		m.Type = ir.Type{Type: "null", Base: "null", IsNullable: true}
		return
	}
	m.Type.Type = naming.EnumUnion(values)
	m.Type.Base = "string"
	if numeric {
		m.Type.Base = "number"
	}
}

// isNullLeaf reports whether s only says "null".
func isNullLeaf(s *spec.Schema) bool {
	return s != nil && s.Ref == "" && len(s.Types) == 1 && s.Types[0] == "null" &&
		len(s.Enum) == 0 && len(s.Properties) == 0 && !s.HasConst &&
		len(s.AllOf) == 0 && len(s.AnyOf) == 0 && len(s.OneOf) == 0
}

func isEmptyUnknown(m *ir.Model) bool {
	if m.Type.Type != "unknown" || len(m.Properties) > 0 || len(m.Enums) > 0 || m.Link != nil {
		return false
	}
	switch m.Export.(type) {
	case ir.InterfaceExport, ir.GenericExport:
		return true
	}
	return false
}

func (r *Resolver) composition(m *ir.Model, s *spec.Schema, kind ir.CompositionKind, branches []*spec.Schema) error {
	var (
		members []*ir.Model
		merged  []*ir.Model
		enumN   int
		seen    = make(map[string]struct{}, len(branches))
	)
	for _, b := range branches {
		if isNullLeaf(b) {
			m.IsNullable = true
			continue
		}
		child, err := r.Model(b, false, "")
		if err != nil {
			return err
		}
		if isEmptyUnknown(child) {
			continue
		}
		r.bubble(m, child)

		if isLeaf(child) {
			key := child.Type.Type + "|" + strconv.FormatBool(child.IsNullable)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}

		if child.IsEnum() {
			enumN++
			child.Name = r.extractEnum(m, child, r.nestedEnumName(m.Name, enumN)).Name
		}

		if _, ok := child.Export.(ir.InterfaceExport); ok && kind == ir.AllOf && len(child.Properties) > 0 {
			merged = append(merged, child.Properties...)
			continue
		}
		members = append(members, child)
	}

	if len(s.Properties) > 0 {
		obj, err := r.Model(&spec.Schema{
			Types:                       []string{"object"},
			Properties:                  s.Properties,
			Required:                    s.Required,
			AdditionalProperties:        s.AdditionalProperties,
			AdditionalPropertiesAllowed: s.AdditionalPropertiesAllowed,
		}, false, "")
		if err != nil {
			return err
		}
		r.bubble(m, obj)
		if kind == ir.AllOf {
			merged = append(merged, obj.Properties...)
		} else {
			members = append(members, obj)
		}
	}
	if len(merged) > 0 {
		members = append(members, &ir.Model{
			Type:       ir.Type{Type: "unknown", Base: "unknown"},
			Export:     ir.InterfaceExport{},
			Properties: merged,
		})
	}

	if len(members) == 0 {
		if m.IsNullable {
			m.Type = ir.Type{Type: "null", Base: "null", IsNullable: true}
		}
		return nil
	}

	parts := make([]string, len(members))
	for i, p := range members {
		parts[i] = p.Type.Type
	}
	joined := strings.Join(parts, kind.Separator())
	m.Export = ir.CompositionExport{Kind: kind}
	m.Type.Type, m.Type.Base = joined, joined
	m.Properties = members
	return nil
}

// isLeaf reports whether m is fully described by its printed type, so two
// members printing the same are the same member.
func isLeaf(m *ir.Model) bool {
	switch m.Export.(type) {
	case ir.ReferenceExport, ir.EnumExport, ir.ConstExport, ir.GenericExport:
		return true
	}
	return false
}

// extractEnum pairs child with a sibling copy on m called name. The sibling
// is emitted next to m's top-level owner and child then refers to it.
func (r *Resolver) extractEnum(m, child *ir.Model, name string) *ir.Model {
	r.enumSeq++
	sibling := *child
	sibling.Enum = append([]ir.Enumerator(nil), child.Enum...)
	sibling.Name = name
	sibling.EnumID = r.enumSeq
	child.EnumID = r.enumSeq
	m.Enums = append(m.Enums, &sibling)
	return &sibling
}

// nestedEnumName names the n-th enum extracted from the composition called
// parent, or from the enclosing definition when parent has no name.
func (r *Resolver) nestedEnumName(parent string, n int) string {
	if parent == "" {
		parent = r.scope
	}
	if parent == "" {
		return ""
	}
	name := parent + "Enum"
	if n > 1 {
		name += strconv.Itoa(n)
	}
	return name
}

// bubble lifts the imports, references and extracted enums of child onto m.
// Enums move rather than copy so every extracted enum has one owner.
func (r *Resolver) bubble(m, child *ir.Model) {
	m.AddImports(child.Imports...)
	m.AddRef(child.Refs...)
	m.Enums = append(m.Enums, child.Enums...)
	child.Enums = nil
}

func (r *Resolver) array(m *ir.Model, s *spec.Schema) error {
	m.Export = ir.ArrayExport{}
	if s.Items.Ref != "" {
		t, err := schemaRefType(s.Items.Ref)
		if err != nil {
			return err
		}
		m.Type = ir.Type{
			Type:     "Array<" + t.Type + ">",
			Base:     t.Base,
			Template: t.Template,
			Imports:  t.Imports,
		}
		m.AddRef(t.Imports...)
		return nil
	}

	child, err := r.Model(s.Items, false, "")
	if err != nil {
		return err
	}
	m.Link = child
	m.Type.Type = "Array<" + child.Type.Type + ">"
	m.Type.Base = child.Type.Base
	r.bubble(m, child)
	return nil
}

func (r *Resolver) object(m *ir.Model, s *spec.Schema) error {
	if len(s.Properties) == 0 && (s.AdditionalProperties != nil || s.AdditionalPropertiesAllowed) {
		return r.dictionary(m, s)
	}

	m.Export = ir.InterfaceExport{}
	for _, p := range s.Properties {
		child, err := r.Model(p.Schema, false, p.Name)
		if err != nil {
			return err
		}
		child.IsRequired = s.IsRequired(p.Name)
		r.bubble(m, child)
		if child.IsEnum() {
			r.extractEnum(m, child, r.nestedEnumName(p.Name, 1))
		}
		m.Properties = append(m.Properties, child)
	}

	if len(s.Properties) > 0 && (s.AdditionalProperties != nil || s.AdditionalPropertiesAllowed) {
		child, err := r.Model(s.AdditionalProperties, false, IndexSignature)
		if err != nil {
			return err
		}
		child.IsRequired = true
		r.bubble(m, child)
		m.Properties = append(m.Properties, child)
	}
	return nil
}

func (r *Resolver) dictionary(m *ir.Model, s *spec.Schema) error {
	m.Export = ir.DictionaryExport{}
	value := s.AdditionalProperties
	if value == nil {
		m.Type.Type = "Record<string, unknown>"
		return nil
	}
	if value.Ref != "" {
		t, err := schemaRefType(value.Ref)
		if err != nil {
			return err
		}
		m.Type = ir.Type{
			Type:     "Record<string, " + t.Type + ">",
			Base:     t.Base,
			Template: t.Template,
			Imports:  t.Imports,
		}
		m.AddRef(t.Imports...)
		return nil
	}

	child, err := r.Model(value, false, "")
	if err != nil {
		return err
	}
	m.Link = child
	m.Type.Type = "Record<string, " + child.Type.Type + ">"
	m.Type.Base = child.Type.Base
	r.bubble(m, child)
	return nil
}

func constant(m *ir.Model, s *spec.Schema) {
	m.Export = ir.ConstExport{Value: s.Const}
	lit := ConstLiteral(s.Const)
	m.Type.Type, m.Type.Base = lit, lit
}

// ConstLiteral prints a const value as a literal type.
func ConstLiteral(v any) string {
	switch c := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(c)
	case bool:
		return strconv.FormatBool(c)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	}
	return "unknown"
}
