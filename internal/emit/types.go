package emit

import (
	"sort"
	"strings"

	"github.com/mark3labs/swagger2ts/internal/ir"
	"github.com/mark3labs/swagger2ts/internal/naming"
)

const (
	operationsTypeName  = "OperationsT"
	controllersTypeName = "Controllers"
)

func (c *Compiler) types(client *ir.Client, f *File) {
	for _, m := range client.Models {
		c.model(m, f)
	}
	if len(client.Services) == 0 {
		return
	}
	if c.opts.Client == ClientFastify {
		f.AddImport("fastify", ImportName{Name: "RouteHandler", TypeOnly: true})
		f.Add(operationsType(client.Services), controllersType())
		return
	}
	operationTypes(client.Services, f)
}

// model emits the declaration of a top-level model followed by the enums
// extracted from it. A top-level enum that lost its name is still declared,
// as a union.
func (c *Compiler) model(m *ir.Model, f *File) {
	if m.IsEnum() && m.EnumName != "" {
		c.enum(m, m.Name, f)
	} else {
		f.Add(TypeAlias{Name: typeName(m.Name), Type: ToType(m), Comment: modelComment(m)})
	}
	for _, e := range m.Enums {
		c.enum(e, e.EnumName, f)
	}
}

// enum emits an enum in the configured style. Enums without a committed
// name are skipped; their uses are printed inline.
func (c *Compiler) enum(m *ir.Model, alias string, f *File) {
	if m.EnumName == "" {
		c.logger.Debug("skipping enum without a name", "model", m.Name)
		return
	}
	comment := modelComment(m)

	members := make([]EnumMember, 0, len(m.Enum))
	for _, e := range m.Enum {
		member := EnumMember{Key: naming.EnumKey(e.Value, e.CustomName), Value: enumExpr(e.Value)}
		if e.Description != "" {
			member.Comment = []string{escapeComment(e.Description)}
		}
		members = append(members, member)
	}

	switch c.opts.Enums {
	case EnumsTypeScript:
		f.Add(Enum{Name: m.EnumName, Members: members, Comment: comment})
		if alias != m.EnumName {
			f.Add(TypeAlias{Name: typeName(alias), Type: Ref(m.EnumName)})
		}
		return
	case EnumsJavaScript:
		f.Add(TypeAlias{Name: typeName(alias), Type: enumUnion(m), Comment: comment})
		props := make([]Prop, len(members))
		for i, mem := range members {
			props[i] = Prop{Key: mem.Key, Value: mem.Value, Comment: mem.Comment}
		}
		f.Add(Const{Name: m.EnumName, Value: Object{Props: props, Multiline: true}, AsConst: true, Comment: comment})
	default:
		f.Add(TypeAlias{Name: typeName(alias), Type: enumUnion(m), Comment: comment})
	}
}

func enumExpr(v any) Expr {
	if s, ok := v.(string); ok {
		return String(s)
	}
	return Ident(naming.EnumValue(v, false))
}

// typeName keeps resolved names as they are referenced and only rewrites
// names that cannot be declared.
func typeName(name string) string {
	if naming.IsIdentifier(name) {
		return name
	}
	return naming.SanitizeIdentifier(name)
}

// DataTypeName is the name of the alias describing an operation's
// parameters.
func DataTypeName(op *ir.Operation) string {
	return naming.Pascal(op.Service) + naming.Pascal(op.Name) + "Data"
}

// ResponseTypeName is the name of the alias describing an operation's
// successful results.
func ResponseTypeName(op *ir.Operation) string {
	return naming.Pascal(op.Service) + naming.Pascal(op.Name) + "Response"
}

// operationTypes emits the Data and Response aliases the services import.
func operationTypes(services []*ir.Service, f *File) {
	seen := make(map[string]struct{})
	add := func(a TypeAlias) {
		if _, dup := seen[a.Name]; dup {
			return
		}
		seen[a.Name] = struct{}{}
		f.Add(a)
	}
	for _, svc := range services {
		for _, op := range svc.Operations {
			if len(op.Parameters) > 0 {
				props := make(TypeObject, 0, len(op.Parameters))
				for _, p := range op.Parameters {
					props = append(props, PropertySignature{
						Name:     p.Name,
						Type:     ToType(p.Model),
						Optional: !p.IsRequired,
						Comment:  modelComment(p.Model),
					})
				}
				add(TypeAlias{Name: DataTypeName(op), Type: props})
			}
			if len(op.Results) > 0 {
				add(TypeAlias{Name: ResponseTypeName(op), Type: resultsType(op.Results)})
			}
		}
	}
}

func resultsType(results []*ir.OperationResponse) TypeExpr {
	var members TypeUnion
	for _, r := range results {
		members = append(members, ToType(r.Model))
	}
	if len(members) == 1 {
		return members[0]
	}
	return members
}

// operationsType builds the OperationsT map: one entry per operation with
// its route parameters and replies keyed by status code.
func operationsType(services []*ir.Service) TypeAlias {
	var ops TypeObject
	seen := make(map[string]struct{})
	for _, svc := range services {
		for _, op := range svc.Operations {
			if _, dup := seen[op.Name]; dup {
				continue
			}
			var entry TypeObject
			if len(op.Parameters) > 0 {
				if len(op.ParametersPath) > 0 {
					entry = append(entry, requiredProp("Params", paramsObject(op.ParametersPath)))
				}
				if len(op.ParametersQuery) > 0 {
					entry = append(entry, requiredProp("Querystring", paramsObject(op.ParametersQuery)))
				}
				if len(op.ParametersHeader) > 0 {
					entry = append(entry, requiredProp("Header", paramsObject(op.ParametersHeader)))
				}
				if op.ParametersBody != nil {
					entry = append(entry, requiredProp("Body", paramsObject([]*ir.OperationParameter{op.ParametersBody})))
				}
			}
			if replies := replyObject(op); len(replies) > 0 {
				entry = append(entry, requiredProp("Reply", replies))
			}
			if len(entry) == 0 {
				continue
			}
			seen[op.Name] = struct{}{}
			ops = append(ops, requiredProp(op.Name, entry))
		}
	}

	var t TypeExpr = ops
	if len(ops) == 0 {
		t = Ref("unknown")
	}
	return TypeAlias{Name: operationsTypeName, Type: t}
}

func requiredProp(name string, t TypeExpr) PropertySignature {
	return PropertySignature{Name: name, Type: t}
}

func paramsObject(params []*ir.OperationParameter) TypeObject {
	sorted := append([]*ir.OperationParameter(nil), params...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	out := make(TypeObject, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, PropertySignature{
			Name:     p.Name,
			Type:     ToType(p.Model),
			Optional: !p.IsRequired,
			Comment:  modelComment(p.Model),
		})
	}
	return out
}

// replyObject keys results and errors by code. A later response with the
// same code replaces the earlier one in place.
func replyObject(op *ir.Operation) TypeObject {
	var out TypeObject
	index := make(map[string]int)
	for _, group := range [][]*ir.OperationResponse{op.Results, op.Errors} {
		for _, r := range group {
			sig := PropertySignature{
				Name:    r.Code.String(),
				Type:    ToType(r.Model),
				Comment: modelComment(r.Model),
			}
			if i, ok := index[sig.Name]; ok {
				out[i] = sig
				continue
			}
			index[sig.Name] = len(out)
			out = append(out, sig)
		}
	}
	return out
}

func controllersType() TypeAlias {
	return TypeAlias{
		Name: controllersTypeName,
		Type: TypeRaw("{ [OperationId in keyof " + operationsTypeName + "]: RouteHandler<{ [Param in keyof " +
			operationsTypeName + "[OperationId]]: " + operationsTypeName + "[OperationId][Param] extends { requestBody: infer Body; } ? Body : " +
			operationsTypeName + "[OperationId][Param]; }> }"),
	}
}
