package ir

import "strconv"

// Parameter locations.
const (
	InPath     = "path"
	InQuery    = "query"
	InHeader   = "header"
	InCookie   = "cookie"
	InFormData = "formData"
	InBody     = "body"
)

// OperationParameter is a Model annotated with where the value travels.
type OperationParameter struct {
	*Model

	// In is the location: path, query, header, cookie, formData or body.
	In string
	// Prop is the name on the wire; Name is the sanitized identifier.
	Prop      string
	MediaType string
}

// ResponseCode is either a numeric HTTP status or "default".
type ResponseCode struct {
	Status    int
	IsDefault bool
}

// DefaultCode is the code of a "default" response.
var DefaultCode = ResponseCode{IsDefault: true}

// Code returns a numeric response code.
func Code(status int) ResponseCode { return ResponseCode{Status: status} }

func (c ResponseCode) String() string {
	if c.IsDefault {
		return "default"
	}
	return strconv.Itoa(c.Status)
}

// IsSuccess reports whether the code is "default" or in [200,300).
func (c ResponseCode) IsSuccess() bool {
	return c.IsDefault || (c.Status >= 200 && c.Status < 300)
}

// IsError reports whether the code is numeric and at least 300.
func (c ResponseCode) IsError() bool {
	return !c.IsDefault && c.Status >= 300
}

// OperationResponse is one declared response of an operation.
type OperationResponse struct {
	*Model

	Code ResponseCode
	// In is "header" when the response is carried in a header named by
	// Model.Name, otherwise "response".
	In string
}

// Operation is one path and method pair.
type Operation struct {
	Name        string
	Service     string
	Method      string
	Path        string
	Summary     string
	Description string
	Deprecated  bool

	Parameters       []*OperationParameter
	ParametersPath   []*OperationParameter
	ParametersQuery  []*OperationParameter
	ParametersHeader []*OperationParameter
	ParametersCookie []*OperationParameter
	ParametersForm   []*OperationParameter
	ParametersBody   *OperationParameter

	Results []*OperationResponse
	Errors  []*OperationResponse

	// ResponseHeader names the header carrying the result, if any.
	ResponseHeader string
	Imports        []string
}

// AddParameter appends p to the flat list and to the partition matching
// its location.
func (o *Operation) AddParameter(p *OperationParameter) {
	o.Parameters = append(o.Parameters, p)
	switch p.In {
	case InPath:
		o.ParametersPath = append(o.ParametersPath, p)
	case InQuery:
		o.ParametersQuery = append(o.ParametersQuery, p)
	case InHeader:
		o.ParametersHeader = append(o.ParametersHeader, p)
	case InCookie:
		o.ParametersCookie = append(o.ParametersCookie, p)
	case InFormData:
		if p.MediaType != "" {
			o.ParametersBody = p
		} else {
			o.ParametersForm = append(o.ParametersForm, p)
		}
	case InBody:
		o.ParametersBody = p
	}
	o.Imports = append(o.Imports, p.Imports...)
}

// Service groups operations sharing a tag.
type Service struct {
	Name       string
	Operations []*Operation
	Imports    []string
}

// DefaultServiceName is used for operations without tags.
const DefaultServiceName = "Default"
