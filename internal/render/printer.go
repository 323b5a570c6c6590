// Package render turns emitted node trees into TypeScript source text and
// renders the core runtime files from templates.
package render

import (
	"strings"

	"github.com/mark3labs/swagger2ts/internal/emit"
	"github.com/mark3labs/swagger2ts/internal/naming"
)

const indentUnit = "  "

// Print renders one emitted file as TypeScript source.
func Print(f *emit.File) []byte {
	p := &printer{}
	for _, imp := range f.Imports {
		p.importDecl(imp)
	}
	if len(f.Imports) > 0 && len(f.Nodes) > 0 {
		p.newline()
	}
	for i, n := range f.Nodes {
		if i > 0 && !isExport(n) {
			p.newline()
		}
		p.node(n)
	}
	return []byte(p.String())
}

func isExport(n emit.Node) bool {
	switch n.(type) {
	case emit.ExportAll, emit.ExportNamed:
		return true
	}
	return false
}

type printer struct {
	strings.Builder
	depth int
}

func (p *printer) indent() string { return strings.Repeat(indentUnit, p.depth) }

func (p *printer) line(s string) {
	p.WriteString(p.indent())
	p.WriteString(s)
	p.WriteByte('\n')
}

func (p *printer) newline() { p.WriteByte('\n') }

func (p *printer) comment(lines []string) {
	if len(lines) == 0 {
		return
	}
	p.line("/**")
	for _, l := range lines {
		for _, part := range strings.Split(l, "\n") {
			p.line(strings.TrimRight(" * "+part, " "))
		}
	}
	p.line(" */")
}

func (p *printer) importDecl(imp emit.Import) {
	if len(imp.Names) == 0 {
		return
	}
	p.line(clause("import", imp.Module, imp.Names))
}

// clause prints an import or named export. A clause whose symbols are all
// type-only is written as `import type`.
func clause(keyword, module string, names []emit.ImportName) string {
	allTypes := true
	for _, n := range names {
		allTypes = allTypes && n.TypeOnly
	}
	parts := make([]string, len(names))
	for i, n := range names {
		s := n.Name
		if n.Alias != "" {
			s += " as " + n.Alias
		}
		if n.TypeOnly && !allTypes {
			s = "type " + s
		}
		parts[i] = s
	}
	if allTypes {
		keyword += " type"
	}
	return keyword + " { " + strings.Join(parts, ", ") + " } from " + quote(module) + ";"
}

func (p *printer) node(n emit.Node) {
	switch v := n.(type) {
	case emit.TypeAlias:
		p.comment(v.Comment)
		p.line("export type " + v.Name + " = " + p.typeExpr(v.Type) + ";")
	case emit.Enum:
		p.comment(v.Comment)
		p.line("export enum " + v.Name + " {")
		p.depth++
		for _, m := range v.Members {
			p.comment(m.Comment)
			p.line(m.Key + " = " + p.expr(m.Value) + ",")
		}
		p.depth--
		p.line("}")
	case emit.Const:
		p.comment(v.Comment)
		s := "export const " + v.Name + " = " + p.expr(v.Value)
		if v.AsConst {
			s += " as const"
		}
		p.line(s + ";")
	case emit.Class:
		p.class(v)
	case emit.ExportAll:
		p.line("export * from " + quote(v.Module) + ";")
	case emit.ExportNamed:
		p.line(clause("export", v.Module, v.Names))
	}
}

func (p *printer) class(c emit.Class) {
	if d := c.Decorator; d != nil {
		args := make([]string, len(d.Args))
		for i, a := range d.Args {
			args[i] = p.expr(a)
		}
		p.line("@" + d.Name + "(" + strings.Join(args, ", ") + ")")
	}
	p.line("export class " + c.Name + " {")
	p.depth++
	if len(c.Constructor) > 0 {
		p.line("constructor(" + p.params(c.Constructor) + ") {}")
	}
	for i, m := range c.Methods {
		if i > 0 || len(c.Constructor) > 0 {
			p.newline()
		}
		p.comment(m.Comment)
		head := "public "
		if m.Static {
			head += "static "
		}
		p.line(head + m.Name + "(" + p.params(m.Params) + "): " + p.typeExpr(m.Returns) + " {")
		p.depth++
		args := make([]string, len(m.Return.Args))
		for j, a := range m.Return.Args {
			args[j] = p.expr(a)
		}
		p.line("return " + m.Return.Callee + "(" + strings.Join(args, ", ") + ");")
		p.depth--
		p.line("}")
	}
	p.depth--
	p.line("}")
}

func (p *printer) params(params []emit.Param) string {
	out := make([]string, len(params))
	for i, prm := range params {
		var b strings.Builder
		if prm.Access != "" {
			b.WriteString(prm.Access + " ")
		}
		if prm.ReadOnly {
			b.WriteString("readonly ")
		}
		b.WriteString(prm.Name)
		if prm.Optional && prm.Default == nil {
			b.WriteByte('?')
		}
		if prm.Type != nil {
			b.WriteString(": " + p.typeExpr(prm.Type))
		}
		if prm.Default != nil {
			b.WriteString(" = " + p.expr(prm.Default))
		}
		out[i] = b.String()
	}
	return strings.Join(out, ", ")
}

func (p *printer) expr(e emit.Expr) string {
	switch v := e.(type) {
	case emit.Ident:
		return string(v)
	case emit.String:
		return quote(string(v))
	case emit.Array:
		parts := make([]string, len(v))
		for i, x := range v {
			parts[i] = p.expr(x)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case emit.Object:
		return p.object(v)
	}
	return "undefined"
}

func (p *printer) object(o emit.Object) string {
	if len(o.Props) == 0 {
		return "{}"
	}
	if !o.Multiline {
		parts := make([]string, len(o.Props))
		for i, pr := range o.Props {
			parts[i] = p.prop(pr)
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	}

	var b strings.Builder
	b.WriteString("{\n")
	p.depth++
	for _, pr := range o.Props {
		if len(pr.Comment) > 0 {
			sub := &printer{depth: p.depth}
			sub.comment(pr.Comment)
			b.WriteString(sub.String())
		}
		b.WriteString(p.indent() + p.prop(pr) + ",\n")
	}
	p.depth--
	b.WriteString(p.indent() + "}")
	return b.String()
}

func (p *printer) prop(pr emit.Prop) string {
	if id, ok := pr.Value.(emit.Ident); ok && string(id) == pr.Key && naming.IsIdentifier(pr.Key) {
		return pr.Key
	}
	return propertyKey(pr.Key) + ": " + p.expr(pr.Value)
}

// Type precedence: a union inside an intersection needs parentheses.
const (
	precUnion = iota
	precIntersection
)

func (p *printer) typeExpr(t emit.TypeExpr) string {
	return p.typeAt(t, precUnion)
}

func (p *printer) typeAt(t emit.TypeExpr, prec int) string {
	switch v := t.(type) {
	case emit.TypeRef:
		if len(v.Args) == 0 {
			return v.Name
		}
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = p.typeExpr(a)
		}
		return v.Name + "<" + strings.Join(args, ", ") + ">"
	case emit.TypeLiteral:
		return string(v)
	case emit.TypeRaw:
		return string(v)
	case emit.TypeUnion:
		parts := make([]string, len(v))
		for i, x := range v {
			parts[i] = p.typeAt(x, precIntersection)
		}
		s := strings.Join(parts, " | ")
		if prec > precUnion && len(v) > 1 {
			return "(" + s + ")"
		}
		return s
	case emit.TypeIntersection:
		parts := make([]string, len(v))
		for i, x := range v {
			parts[i] = p.typeAt(x, precIntersection)
		}
		return strings.Join(parts, " & ")
	case emit.TypeObject:
		return p.typeObject(v)
	}
	return "unknown"
}

func (p *printer) typeObject(obj emit.TypeObject) string {
	if len(obj) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{\n")
	p.depth++
	for _, sig := range obj {
		if len(sig.Comment) > 0 {
			sub := &printer{depth: p.depth}
			sub.comment(sig.Comment)
			b.WriteString(sub.String())
		}
		b.WriteString(p.indent())
		if sig.ReadOnly {
			b.WriteString("readonly ")
		}
		if sig.Verbatim {
			b.WriteString(sig.Name)
		} else {
			b.WriteString(propertyKey(sig.Name))
		}
		if sig.Optional {
			b.WriteByte('?')
		}
		b.WriteString(": " + p.typeExpr(sig.Type) + ";\n")
	}
	p.depth--
	b.WriteString(p.indent() + "}")
	return b.String()
}

// propertyKey quotes keys that are neither identifiers nor plain numbers.
func propertyKey(key string) string {
	if naming.IsIdentifier(key) || isNumericKey(key) {
		return key
	}
	return quote(key)
}

func isNumericKey(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// quote returns s as a single-quoted string literal.
func quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}
