// Package resolve turns a decoded API description into the canonical ir
// Client: type tokens into Type descriptors, schemas into Models, path
// entries into Operations grouped by Service.
package resolve

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/mark3labs/swagger2ts/internal/ir"
	"github.com/mark3labs/swagger2ts/internal/naming"
)

var typeMappings = map[string]string{
	"any":       "unknown",
	"object":    "unknown",
	"array":     "unknown[]",
	"boolean":   "boolean",
	"byte":      "number",
	"double":    "number",
	"float":     "number",
	"int":       "number",
	"integer":   "number",
	"long":      "number",
	"number":    "number",
	"short":     "number",
	"char":      "string",
	"date":      "string",
	"date-time": "string",
	"password":  "string",
	"string":    "string",
	"file":      "binary",
	"null":      "null",
	"void":      "void",
}

// MappedType maps a primitive token to its target type. The second result
// is false for tokens outside the table. A binary format always maps to
// binary.
func MappedType(token, format string) (string, bool) {
	if format == "binary" {
		return "binary", true
	}
	t, ok := typeMappings[token]
	return t, ok
}

var (
	namespacePrefix = regexp.MustCompile(`^#/(definitions|parameters|responses|securityDefinitions|components/(schemas|parameters|responses|requestBodies|securitySchemes|headers))/`)
	templateSuffix  = regexp.MustCompile(`^(.*?)\[(.*)\]$`)
)

// stripNamespace removes the component location from a reference and
// decodes JSON pointer and percent escapes in the remaining name.
func stripNamespace(ref string) string {
	name := namespacePrefix.ReplaceAllString(strings.TrimSpace(ref), "")
	name = strings.NewReplacer("~1", "/", "~0", "~").Replace(name)
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	return name
}

// Type resolves a single raw type token: a primitive name, an `array[T]`
// marker, a reference path or a `Name[Template]` generic.
func Type(raw, format string) ir.Type {
	t := ir.Type{Type: "unknown", Base: "unknown"}

	if mapped, ok := MappedType(raw, format); ok {
		t.Type, t.Base = mapped, mapped
		return t
	}

	name := stripNamespace(raw)
	if m := templateSuffix.FindStringSubmatch(name); m != nil {
		outer := Type(naming.SanitizeTypeName(m[1]), "")
		inner := Type(naming.SanitizeTypeName(m[2]), "")
		if outer.Type == "unknown[]" {
			t.Type = inner.Type + "[]"
			t.Base = inner.Type
			t.Imports = append(t.Imports, inner.Imports...)
			return t
		}
		t.Type = outer.Type + "<" + inner.Type + ">"
		t.Base = outer.Type
		t.Template = inner.Type
		t.Imports = append(t.Imports, outer.Imports...)
		t.Imports = append(t.Imports, inner.Imports...)
		return t
	}

	if name != "" {
		name = naming.EscapeReserved(naming.SanitizeTypeName(name))
		t.Type, t.Base = name, name
		t.Imports = []string{name}
	}
	return t
}

// Types resolves a list of raw type tokens. "null" members are dropped and
// mark the result nullable; a single remaining member is returned as-is,
// several are joined into a union.
func Types(raw []string, format string) ir.Type {
	nullable := false
	var members []ir.Type
	for _, r := range raw {
		if r == "null" {
			nullable = true
			continue
		}
		members = append(members, Type(r, format))
	}

	switch len(members) {
	case 0:
		if nullable {
			return ir.Type{Type: "null", Base: "null", IsNullable: true}
		}
		return ir.Type{Type: "unknown", Base: "unknown"}
	case 1:
		t := members[0]
		t.IsNullable = t.IsNullable || nullable
		return t
	}

	var (
		parts   []string
		imports []string
		seen    = make(map[string]struct{}, len(members))
	)
	for _, m := range members {
		imports = append(imports, m.Imports...)
		if _, dup := seen[m.Type]; dup {
			continue
		}
		seen[m.Type] = struct{}{}
		parts = append(parts, m.Type)
	}
	joined := strings.Join(parts, " | ")
	return ir.Type{Type: joined, Base: joined, Imports: imports, IsNullable: nullable}
}
