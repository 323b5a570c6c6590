package emit

import (
	"math"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mark3labs/swagger2ts/internal/naming"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

// formStripped lists the keys dropped from schemas in the form style.
var formStripped = map[string]bool{
	"description":         true,
	"x-enum-descriptions": true,
	"x-enum-varnames":     true,
	"x-enumNames":         true,
}

// schemas emits one `$Name` const per definition, holding the definition
// as written in the document.
func (c *Compiler) schemas(defs []*spec.NamedSchema, f *File) {
	form := c.opts.SchemaType == SchemaForm
	for _, d := range defs {
		if d.Schema == nil || d.Schema.Node == nil {
			continue
		}
		f.Add(Const{
			Name:    "$" + naming.SanitizeIdentifier(d.Name),
			Value:   schemaExpr(d.Schema.Node, form),
			AsConst: true,
		})
	}
}

func schemaExpr(n *yaml.Node, form bool) Expr {
	switch n.Kind {
	case yaml.AliasNode:
		return schemaExpr(n.Alias, form)
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Ident("null")
		}
		return schemaExpr(n.Content[0], form)
	case yaml.MappingNode:
		obj := Object{Multiline: true}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if form && formStripped[key] {
				continue
			}
			obj.Props = append(obj.Props, Prop{Key: key, Value: schemaExpr(n.Content[i+1], form)})
		}
		return obj
	case yaml.SequenceNode:
		out := make(Array, 0, len(n.Content))
		for _, e := range n.Content {
			out = append(out, schemaExpr(e, form))
		}
		return out
	}
	return scalarExpr(n)
}

func scalarExpr(n *yaml.Node) Expr {
	switch n.ShortTag() {
	case "!!null":
		return Ident("null")
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return Ident(strconv.FormatBool(b))
		}
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return numberExpr(f)
		}
	}
	return String(n.Value)
}

// numberExpr prints f as a JavaScript number literal.
func numberExpr(f float64) Expr {
	switch {
	case math.IsNaN(f):
		return Ident("NaN")
	case math.IsInf(f, 1):
		return Ident("Infinity")
	case math.IsInf(f, -1):
		return Ident("-Infinity")
	}
	return Ident(strconv.FormatFloat(f, 'f', -1, 64))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
