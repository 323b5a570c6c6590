// Package emit compiles a resolved ir.Client into per-file sequences of
// abstract TypeScript nodes. It never produces text; package render prints
// the nodes.
package emit

// Node is a top-level statement of a generated file.
type Node interface{ node() }

// ImportName is one symbol of an import or named export clause.
type ImportName struct {
	Name     string
	Alias    string
	TypeOnly bool
}

// Import is `import { ... } from 'Module'`.
type Import struct {
	Module string
	Names  []ImportName
}

// TypeAlias is `export type Name = Type`.
type TypeAlias struct {
	Name    string
	Type    TypeExpr
	Comment []string
}

// EnumMember is one key of a literal enum or a const object.
type EnumMember struct {
	Key     string
	Value   Expr
	Comment []string
}

// Enum is `export enum Name { ... }`.
type Enum struct {
	Name    string
	Members []EnumMember
	Comment []string
}

// Const is `export const Name = Value` with an optional `as const`.
type Const struct {
	Name    string
	Value   Expr
	AsConst bool
	Comment []string
}

// Param is a constructor or method parameter.
type Param struct {
	Name     string
	Type     TypeExpr
	Default  Expr
	Optional bool
	// Access is "public", "private" or empty.
	Access   string
	ReadOnly bool
}

// Call is `return Callee(Args...)`.
type Call struct {
	Callee string
	Args   []Expr
}

// Method is a class method returning the result of one call.
type Method struct {
	Name    string
	Static  bool
	Comment []string
	Params  []Param
	Returns TypeExpr
	Return  Call
}

// Decorator is `@Name(Args)`.
type Decorator struct {
	Name string
	Args []Expr
}

// Class is `export class Name { ... }`.
type Class struct {
	Name        string
	Decorator   *Decorator
	Constructor []Param
	Methods     []Method
}

// ExportAll is `export * from 'Module'`.
type ExportAll struct {
	Module string
}

// ExportNamed is `export { ... } from 'Module'`.
type ExportNamed struct {
	Module string
	Names  []ImportName
}

func (TypeAlias) node()   {}
func (Enum) node()        {}
func (Const) node()       {}
func (Class) node()       {}
func (ExportAll) node()   {}
func (ExportNamed) node() {}

// Expr is a value expression.
type Expr interface{ expr() }

type (
	// Ident is printed verbatim: identifiers, numbers, booleans, null and
	// member accesses such as data.id.
	Ident string
	// String is a single-quoted string literal.
	String string
	// Object is an object literal. Keys are quoted when needed.
	Object struct {
		Props     []Prop
		Multiline bool
	}
	// Array is an array literal.
	Array []Expr
)

// Prop is one entry of an Object. A Prop whose Value is Ident(Key) is
// printed in shorthand form.
type Prop struct {
	Key     string
	Value   Expr
	Comment []string
}

func (Ident) expr()  {}
func (String) expr() {}
func (Object) expr() {}
func (Array) expr()  {}

// TypeExpr is a type expression.
type TypeExpr interface{ typeExpr() }

type (
	// TypeRef is a named type with optional arguments, e.g. Array<Pet>.
	TypeRef struct {
		Name string
		Args []TypeExpr
	}
	// TypeLiteral is a literal type printed verbatim: 'a', 1, null, true.
	TypeLiteral string
	// TypeUnion is `A | B`.
	TypeUnion []TypeExpr
	// TypeIntersection is `A & B`.
	TypeIntersection []TypeExpr
	// TypeObject is an object type literal.
	TypeObject []PropertySignature
	// TypeRaw is printed verbatim.
	TypeRaw string
)

// PropertySignature is one member of a TypeObject. Verbatim keys, such as
// index signatures, are printed without quoting.
type PropertySignature struct {
	Name     string
	Type     TypeExpr
	Optional bool
	ReadOnly bool
	Verbatim bool
	Comment  []string
}

func (TypeRef) typeExpr()          {}
func (TypeLiteral) typeExpr()      {}
func (TypeUnion) typeExpr()        {}
func (TypeIntersection) typeExpr() {}
func (TypeObject) typeExpr()       {}
func (TypeRaw) typeExpr()          {}

// Ref is shorthand for a TypeRef without arguments.
func Ref(name string, args ...TypeExpr) TypeRef {
	return TypeRef{Name: name, Args: args}
}
