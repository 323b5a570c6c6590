package resolve

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mark3labs/swagger2ts/internal/ir"
	"github.com/mark3labs/swagger2ts/internal/naming"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

var (
	apiVersionSegment = regexp.MustCompile(`[^/]*?\{api-version\}.*?/`)
	pathPlaceholder   = regexp.MustCompile(`\{(.*?)\}`)
	hasDigit          = regexp.MustCompile(`[0-9]+`)
)

// OperationName returns the method name of an operation. The operationId is
// used when preferred and present; otherwise the name is built from the
// method and the path.
func OperationName(path, method, operationID string, useOperationID bool) string {
	if useOperationID && operationID != "" {
		return naming.Camel(strings.TrimSpace(naming.SanitizeNamespaceIdentifier(operationID)))
	}
	p := apiVersionSegment.ReplaceAllString(path, "")
	p = pathPlaceholder.ReplaceAllString(p, "by-$1")
	p = strings.ReplaceAll(p, "/", "-")
	return naming.Camel(method + "-" + p)
}

// OperationParameterName turns a wire name such as "filter.someProperty"
// into a safe identifier ("filterSomeProperty").
func OperationParameterName(value string) string {
	clean := strings.TrimSpace(naming.SanitizeParameterName(value))
	return naming.EscapeReserved(naming.Camel(clean))
}

// ResponseCode parses a response key. "default" is kept; anything holding
// digits is read like a leading integer and made positive. The second result
// is false when the key cannot be used.
func ResponseCode(value string) (ir.ResponseCode, bool) {
	if value == "default" {
		return ir.DefaultCode, true
	}
	if !hasDigit.MatchString(value) {
		return ir.ResponseCode{}, false
	}

	s := strings.TrimLeft(value, " \t\r\n\v\f")
	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return ir.ResponseCode{}, false
	}
	n, err := strconv.Atoi(sign + s[:end])
	if err != nil {
		return ir.ResponseCode{}, false
	}
	if n < 0 {
		n = -n
	}
	return ir.Code(n), true
}

// OperationErrors keeps the numeric responses from 300 up that carry a
// description.
func OperationErrors(responses []*ir.OperationResponse) []*ir.OperationResponse {
	var out []*ir.OperationResponse
	for _, r := range responses {
		if r.Code.IsError() && r.Description != "" {
			out = append(out, r)
		}
	}
	return out
}

// OperationResults keeps "default" and 2xx responses, dropping any whose
// resolved shape equals an earlier one.
func OperationResults(responses []*ir.OperationResponse) []*ir.OperationResponse {
	var out []*ir.OperationResponse
	for _, r := range responses {
		if !r.Code.IsSuccess() {
			continue
		}
		dup := false
		for _, kept := range out {
			if sameShape(kept.Model, r.Model) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out
}

func sameShape(a, b *ir.Model) bool {
	equal := a.Type.Type == b.Type.Type && a.Base == b.Base && a.Template == b.Template
	if equal && a.Link != nil && b.Link != nil {
		return sameShape(a.Link, b.Link)
	}
	return equal
}

// ResponseHeader returns the name of the first response carried in a
// header, or "".
func ResponseHeader(responses []*ir.OperationResponse) string {
	for _, r := range responses {
		if r.In == ir.InHeader {
			return r.Name
		}
	}
	return ""
}

// Operation resolves one method of a path item for the named service.
func (r *Resolver) Operation(item *spec.PathItem, op *spec.Operation, service string) (*ir.Operation, error) {
	o := &ir.Operation{
		Name:        OperationName(item.Path, op.Method, op.OperationID, r.useOperationID),
		Service:     service,
		Method:      strings.ToUpper(op.Method),
		Path:        item.Path,
		Summary:     op.Summary,
		Description: op.Description,
		Deprecated:  op.Deprecated,
	}

	params, err := r.mergeParameters(op.Parameters, item.Parameters)
	if err != nil {
		return nil, err
	}
	for _, p := range params {
		if p.Name == "api-version" {
			continue
		}
		param, err := r.operationParameter(p)
		if err != nil {
			return nil, err
		}
		if param == nil {
			r.logger.Debug("skipping parameter", "operation", o.Name, "name", p.Name, "in", p.In)
			continue
		}
		o.AddParameter(param)
	}

	if op.RequestBody != nil {
		body, err := r.operationRequestBody(op.RequestBody)
		if err != nil {
			return nil, err
		}
		if body != nil {
			o.AddParameter(body)
		}
	}
	sortParameters(o.Parameters)

	var responses []*ir.OperationResponse
	for _, nr := range op.Responses {
		code, ok := ResponseCode(nr.Code)
		if !ok {
			r.logger.Debug("dropping response with unparsable code", "operation", o.Name, "code", nr.Code)
			continue
		}
		resp, err := r.operationResponse(nr.Response, code)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	o.Results = OperationResults(responses)
	o.Errors = OperationErrors(responses)
	o.ResponseHeader = ResponseHeader(o.Results)
	for _, res := range o.Results {
		o.Imports = append(o.Imports, res.Imports...)
	}
	return o, nil
}

// mergeParameters resolves references and returns the operation parameters
// followed by the path-level ones the operation does not override.
func (r *Resolver) mergeParameters(opParams, pathParams []*spec.Parameter) ([]*spec.Parameter, error) {
	var out []*spec.Parameter
	seen := make(map[string]struct{})
	for _, group := range [][]*spec.Parameter{opParams, pathParams} {
		for _, raw := range group {
			p, err := r.parameter(raw)
			if err != nil {
				return nil, err
			}
			key := p.In + "\x00" + p.Name
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, p)
		}
	}
	return out, nil
}

// operationParameter returns nil for locations with no target.
func (r *Resolver) operationParameter(p *spec.Parameter) (*ir.OperationParameter, error) {
	switch p.In {
	case ir.InPath, ir.InQuery, ir.InHeader, ir.InCookie, ir.InFormData, ir.InBody:
	default:
		return nil, nil
	}

	m, err := r.Model(p.Schema, false, OperationParameterName(p.Name))
	if err != nil {
		return nil, err
	}
	if p.Description != "" {
		m.Description = p.Description
	}
	m.Deprecated = m.Deprecated || p.Deprecated
	m.IsRequired = p.Required || p.In == ir.InPath
	m.IsNullable = m.IsNullable || p.Nullable
	return &ir.OperationParameter{Model: m, In: p.In, Prop: p.Name}, nil
}

var formMediaTypes = map[string]bool{
	"application/x-www-form-urlencoded": true,
	"multipart/form-data":               true,
}

func (r *Resolver) operationRequestBody(raw *spec.RequestBody) (*ir.OperationParameter, error) {
	body, err := r.requestBody(raw)
	if err != nil {
		return nil, err
	}
	mt := pickContent(body.Content)
	if mt == nil {
		return nil, nil
	}

	name := "requestBody"
	if body.BodyName != "" {
		name = body.BodyName
	}
	in := ir.InBody
	if formMediaTypes[mt.Type] {
		in, name = ir.InFormData, "formData"
	}

	m, err := r.Model(mt.Schema, false, name)
	if err != nil {
		return nil, err
	}
	if body.Description != "" {
		m.Description = body.Description
	}
	m.IsRequired = body.Required
	m.IsNullable = m.IsNullable || body.Nullable
	return &ir.OperationParameter{Model: m, In: in, Prop: name, MediaType: mt.Type}, nil
}

func (r *Resolver) operationResponse(raw *spec.Response, code ir.ResponseCode) (*ir.OperationResponse, error) {
	resp, err := r.response(raw)
	if err != nil {
		return nil, err
	}
	out := &ir.OperationResponse{Code: code, In: "response"}

	schema := resp.Schema
	if schema == nil {
		if mt := pickContent(resp.Content); mt != nil {
			schema = mt.Schema
		}
	}

	switch {
	case schema != nil:
		m, err := r.Model(schema, false, "")
		if err != nil {
			return nil, err
		}
		out.Model = m
	case len(resp.Headers) > 0:
		out.Model = &ir.Model{
			Type:   ir.Type{Type: "string", Base: "string"},
			Name:   resp.Headers[0],
			Export: ir.GenericExport{},
		}
		out.In = ir.InHeader
	default:
		t := "unknown"
		if code.Status == 204 {
			t = "void"
		}
		out.Model = &ir.Model{Type: ir.Type{Type: t, Base: t}, Export: ir.GenericExport{}}
	}
	out.Description = resp.Description
	return out, nil
}

var contentPreference = []string{
	"application/json-patch+json",
	"application/json",
	"text/json",
	"text/plain",
	"multipart/form-data",
	"multipart/mixed",
	"multipart/related",
	"multipart/batch",
}

// pickContent chooses the media type whose schema describes a body.
func pickContent(content []*spec.MediaType) *spec.MediaType {
	for _, want := range contentPreference {
		for _, mt := range content {
			if mt.Type == want && mt.Schema != nil {
				return mt
			}
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt
		}
	}
	return nil
}

// sortParameters moves required parameters without a default to the front,
// keeping declaration order otherwise.
func sortParameters(params []*ir.OperationParameter) {
	first := func(p *ir.OperationParameter) bool { return p.IsRequired && p.Default == nil }
	sort.SliceStable(params, func(i, j int) bool {
		return first(params[i]) && !first(params[j])
	})
}
