package emit

import (
	"fmt"
	"strings"

	"github.com/mark3labs/swagger2ts/internal/ir"
	"github.com/mark3labs/swagger2ts/internal/naming"
)

const indexSignature = "[key: string]"

// ToType converts a model into the type expression printed wherever the
// model is used.
func ToType(m *ir.Model) TypeExpr {
	t := baseType(m)
	if m.IsNullable && !isNull(t) {
		if u, ok := t.(TypeUnion); ok {
			return append(u, TypeLiteral("null"))
		}
		return TypeUnion{t, TypeLiteral("null")}
	}
	return t
}

func isNull(t TypeExpr) bool {
	switch v := t.(type) {
	case TypeLiteral:
		return v == "null"
	case TypeRef:
		return v.Name == "null" && len(v.Args) == 0
	}
	return false
}

func baseType(m *ir.Model) TypeExpr {
	switch e := m.Export.(type) {
	case ir.InterfaceExport:
		if len(m.Properties) == 0 {
			return Ref("unknown")
		}
		return objectType(m.Properties)
	case ir.EnumExport:
		if m.EnumID != 0 && m.EnumName != "" {
			return Ref(m.EnumName)
		}
		return enumUnion(m)
	case ir.CompositionExport:
		members := make([]TypeExpr, 0, len(m.Properties))
		seen := make(map[string]struct{}, len(m.Properties))
		for _, p := range m.Properties {
			t := ToType(p)
			key := fmt.Sprintf("%#v", t)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			members = append(members, t)
		}
		if len(members) == 1 {
			return members[0]
		}
		if e.Kind == ir.AllOf {
			return TypeIntersection(members)
		}
		return TypeUnion(members)
	case ir.ArrayExport:
		if m.Link != nil {
			return Ref("Array", ToType(m.Link))
		}
		return Ref("Array", refType(m))
	case ir.DictionaryExport:
		if m.Link != nil {
			return Ref("Record", Ref("string"), ToType(m.Link))
		}
		return Ref("Record", Ref("string"), refType(m))
	case ir.ConstExport:
		return TypeLiteral(m.Type.Type)
	default:
		return plainType(m)
	}
}

func objectType(props []*ir.Model) TypeObject {
	out := make(TypeObject, 0, len(props))
	for _, p := range props {
		out = append(out, PropertySignature{
			Name:     p.Name,
			Type:     ToType(p),
			Optional: !p.IsRequired,
			ReadOnly: p.IsReadOnly,
			Verbatim: p.Name == indexSignature,
			Comment:  modelComment(p),
		})
	}
	return out
}

func enumUnion(m *ir.Model) TypeExpr {
	if len(m.Enum) == 0 {
		return TypeLiteral("null")
	}
	seen := make(map[string]struct{}, len(m.Enum))
	var out TypeUnion
	for _, e := range m.Enum {
		lit := naming.EnumValue(e.Value, true)
		if _, dup := seen[lit]; dup {
			continue
		}
		seen[lit] = struct{}{}
		out = append(out, TypeLiteral(lit))
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// refType is the element or value type of arrays and dictionaries without
// a Link.
func refType(m *ir.Model) TypeExpr {
	if m.Base == "" {
		return Ref("unknown")
	}
	if m.Base == "binary" {
		return binary()
	}
	if m.HasTemplate() {
		return Ref(m.Base, Ref(m.Template))
	}
	return Ref(m.Base)
}

func plainType(m *ir.Model) TypeExpr {
	switch {
	case m.Type.Type == "binary":
		return binary()
	case m.Type.Type == "null":
		return TypeLiteral("null")
	case m.HasTemplate():
		return Ref(m.Base, Ref(m.Template))
	case m.Type.Type == "":
		return Ref("unknown")
	case strings.Contains(m.Type.Type, " | "):
		var u TypeUnion
		for _, part := range strings.Split(m.Type.Type, " | ") {
			u = append(u, Ref(part))
		}
		return u
	}
	return Ref(m.Type.Type)
}

func binary() TypeExpr {
	return TypeUnion{Ref("Blob"), Ref("File")}
}

// modelComment is the doc comment of a model: its description and a
// deprecation marker.
func modelComment(m *ir.Model) []string {
	var out []string
	if m.Description != "" {
		out = append(out, escapeComment(m.Description))
	}
	if m.Deprecated {
		out = append(out, "@deprecated")
	}
	return out
}

func escapeComment(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "*/", "*\\/"), "/*", "/\\*")
}

func escapeDescription(s string) string {
	return strings.NewReplacer(`\`, `\\`, "`", "\\`", "${", "\\${").Replace(s)
}
