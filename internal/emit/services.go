package emit

import (
	"fmt"
	"strings"

	"github.com/mark3labs/swagger2ts/internal/ir"
	"github.com/mark3labs/swagger2ts/internal/naming"
)

// ServiceClassName is the exported class name of a service.
func ServiceClassName(name string) string {
	return name + "Service"
}

func (c *Compiler) services(client *ir.Client, f *File, types *File) {
	var imports []string
	onImport := func(name string) { imports = append(imports, name) }
	for _, svc := range client.Services {
		f.Add(c.service(svc, onImport))
	}

	core := "./core/"
	if c.opts.heyAPI() {
		core = ""
	}
	module := func(file string) string {
		if core == "" {
			return c.opts.Client
		}
		return core + file
	}

	if c.opts.Client == ClientAngular {
		f.AddImport("@angular/core", ImportName{Name: "Injectable"})
		if c.opts.Name == "" {
			f.AddImport("@angular/common/http", ImportName{Name: "HttpClient"})
		}
		f.AddImport("rxjs", ImportName{Name: "Observable", TypeOnly: true})
	} else {
		f.AddImport(module("CancelablePromise"), ImportName{Name: "CancelablePromise", TypeOnly: true})
	}
	if c.opts.ServiceResponse == ResponseFull {
		f.AddImport("./core/ApiResult", ImportName{Name: "ApiResult", TypeOnly: true})
	}
	if c.opts.Name != "" {
		f.AddImport("./core/BaseHttpRequest", ImportName{Name: "BaseHttpRequest", TypeOnly: c.opts.Client != ClientAngular})
	} else {
		f.AddImport(module("OpenAPI"), ImportName{Name: "OpenAPI"})
		f.AddImport(module("request"), ImportName{Name: "request", Alias: "__request"})
	}

	if types != nil && !types.IsEmpty() && len(imports) > 0 {
		names := make([]ImportName, 0, len(imports))
		for _, n := range imports {
			names = append(names, ImportName{Name: n, TypeOnly: true})
		}
		f.AddImport(types.Module(), names...)
	}
}

func (c *Compiler) service(svc *ir.Service, onImport func(string)) Class {
	cls := Class{Name: ServiceClassName(svc.Name)}
	static := c.opts.Name == "" && c.opts.Client != ClientAngular
	for _, op := range svc.Operations {
		cls.Methods = append(cls.Methods, Method{
			Name:    op.Name,
			Static:  static,
			Comment: c.operationComment(op),
			Params:  c.operationParams(op, onImport),
			Returns: c.operationReturn(op, onImport),
			Return:  c.operationCall(op),
		})
	}

	switch {
	case c.opts.Name != "":
		cls.Constructor = []Param{{Name: "httpRequest", Type: Ref("BaseHttpRequest"), Access: "public", ReadOnly: true}}
	case c.opts.Client == ClientAngular:
		cls.Constructor = []Param{{Name: "http", Type: Ref("HttpClient"), Access: "public", ReadOnly: true}}
	}
	if c.opts.Client == ClientAngular {
		cls.Decorator = &Decorator{
			Name: "Injectable",
			Args: []Expr{Object{Props: []Prop{{Key: "providedIn", Value: String("root")}}}},
		}
	}
	return cls
}

func (c *Compiler) operationParams(op *ir.Operation, onImport func(string)) []Param {
	if len(op.Parameters) == 0 {
		return nil
	}
	data := DataTypeName(op)
	onImport(data)

	if c.opts.UseOptions {
		p := Param{Name: "data", Type: Ref(data)}
		optional := true
		for _, param := range op.Parameters {
			if param.IsRequired {
				optional = false
				break
			}
		}
		if optional {
			p.Default = Object{}
		}
		return []Param{p}
	}

	out := make([]Param, 0, len(op.Parameters))
	for _, param := range op.Parameters {
		p := Param{
			Name:     param.Name,
			Type:     TypeRaw(fmt.Sprintf("%s['%s']", data, param.Name)),
			Optional: !param.IsRequired,
		}
		if param.Default != nil {
			p.Default = literal(param.Default)
			p.Optional = false
		}
		out = append(out, p)
	}
	return out
}

func (c *Compiler) operationReturn(op *ir.Operation, onImport func(string)) TypeExpr {
	var t TypeExpr = Ref("void")
	if len(op.Results) > 0 {
		name := ResponseTypeName(op)
		onImport(name)
		t = Ref(name)
	}
	if c.opts.UseOptions && c.opts.ServiceResponse == ResponseFull {
		t = Ref("ApiResult", t)
	}
	if c.opts.Client == ClientAngular {
		return Ref("Observable", t)
	}
	return Ref("CancelablePromise", t)
}

func (c *Compiler) operationComment(op *ir.Operation) []string {
	var out []string
	if op.Deprecated {
		out = append(out, "@deprecated")
	}
	if op.Summary != "" {
		out = append(out, escapeComment(op.Summary))
	}
	if op.Description != "" {
		out = append(out, escapeComment(op.Description))
	}
	if len(op.Parameters) > 0 && c.opts.UseOptions {
		out = append(out, "@param data The data for the request.")
	}
	for _, p := range op.Parameters {
		prefix := "@param "
		if c.opts.UseOptions {
			prefix = "@param data."
		}
		out = append(out, strings.TrimSpace(prefix+p.Name+" "+escapeComment(p.Description)))
	}
	for _, r := range op.Results {
		out = append(out, strings.TrimSpace("@returns "+r.Type.Type+" "+escapeComment(r.Description)))
	}
	return append(out, "@throws ApiError")
}

// operationCall builds the request call of a service method.
func (c *Compiler) operationCall(op *ir.Operation) Call {
	opts := c.requestOptions(op)
	switch {
	case c.opts.Name != "":
		return Call{Callee: "this.httpRequest.request", Args: []Expr{opts}}
	case c.opts.Client == ClientAngular:
		return Call{Callee: "__request", Args: []Expr{Ident("OpenAPI"), Ident("this.http"), opts}}
	}
	return Call{Callee: "__request", Args: []Expr{Ident("OpenAPI"), opts}}
}

func (c *Compiler) requestOptions(op *ir.Operation) Object {
	value := func(name string) string {
		if c.opts.UseOptions {
			return "data." + name
		}
		return name
	}
	group := func(params []*ir.OperationParameter) Object {
		var obj Object
		for _, p := range params {
			obj.Props = append(obj.Props, Prop{Key: p.Prop, Value: Ident(value(p.Name))})
		}
		return obj
	}

	obj := Object{Multiline: true, Props: []Prop{
		{Key: "method", Value: String(op.Method)},
		{Key: "url", Value: String(op.Path)},
	}}
	add := func(key string, v Expr) { obj.Props = append(obj.Props, Prop{Key: key, Value: v}) }

	if len(op.ParametersPath) > 0 {
		add("path", group(op.ParametersPath))
	}
	if len(op.ParametersCookie) > 0 {
		add("cookies", group(op.ParametersCookie))
	}
	if len(op.ParametersHeader) > 0 {
		add("headers", group(op.ParametersHeader))
	}
	if len(op.ParametersQuery) > 0 {
		add("query", group(op.ParametersQuery))
	}
	if len(op.ParametersForm) > 0 {
		add("formData", group(op.ParametersForm))
	}
	if body := op.ParametersBody; body != nil {
		switch body.In {
		case ir.InFormData:
			add("formData", Ident(value(body.Name)))
		case ir.InBody:
			add("body", Ident(value(body.Name)))
		}
		if body.MediaType != "" {
			add("mediaType", String(body.MediaType))
		}
	}
	if op.ResponseHeader != "" {
		add("responseHeader", String(op.ResponseHeader))
	}
	if len(op.Errors) > 0 {
		errs := Object{Multiline: true}
		for _, e := range op.Errors {
			errs.Props = append(errs.Props, Prop{Key: e.Code.String(), Value: String(escapeDescription(e.Description))})
		}
		add("errors", errs)
	}
	return obj
}

// literal converts a decoded default value into an expression.
func literal(v any) Expr {
	switch x := v.(type) {
	case string:
		return String(x)
	case []any:
		out := make(Array, len(x))
		for i, e := range x {
			out[i] = literal(e)
		}
		return out
	case map[string]any:
		var obj Object
		for _, k := range sortedKeys(x) {
			obj.Props = append(obj.Props, Prop{Key: k, Value: literal(x[k])})
		}
		return obj
	case nil:
		return Ident("null")
	}
	return Ident(naming.EnumValue(v, false))
}
