package spec

import (
    "errors"
    "fmt"
    "strings"

    "gopkg.in/yaml.v3"
)

// ErrUnsupportedVersion is returned when a document declares neither
// `swagger: 2.x` nor `openapi: 3.x`.
var ErrUnsupportedVersion = errors.New("spec: unknown or unsupported OpenAPI/Swagger version")

// Dialect is the major version family of a document.
type Dialect int

const (
    Swagger2 Dialect = 2
    OpenAPI3 Dialect = 3
)

func (d Dialect) String() string {
    switch d {
    case Swagger2:
        return "swagger-2"
    case OpenAPI3:
        return "openapi-3"
    }
    return "unknown"
}

// Document is an API description decoded with its declaration order intact.
// Paths, operations, definitions and properties keep the order in which
// they appear in the source.
type Document struct {
    Dialect Dialect
    // Version is the raw `swagger` or `openapi` value.
    Version string
    Info    Info

    Servers  []Server
    Host     string
    BasePath string
    Schemes  []string
    Tags     []Tag

    Paths []*PathItem
    // Definitions holds v2 `definitions` or v3 `components.schemas`.
    Definitions []*NamedSchema

    Parameters    map[string]*Parameter
    Responses     map[string]*Response
    RequestBodies map[string]*RequestBody
}

type Info struct {
    Title       string `yaml:"title"`
    Description string `yaml:"description"`
    Version     string `yaml:"version"`
}

type Server struct {
    URL         string                    `yaml:"url"`
    Description string                    `yaml:"description"`
    Variables   map[string]ServerVariable `yaml:"variables"`
}

type ServerVariable struct {
    Default string `yaml:"default"`
}

type Tag struct {
    Name        string `yaml:"name"`
    Description string `yaml:"description"`
}

// PathItem is one entry under `paths`.
type PathItem struct {
    Path       string
    Parameters []*Parameter
    Operations []*Operation
}

// Operation is one HTTP method under a path.
type Operation struct {
    // Method is the lower-case HTTP method as declared.
    Method      string
    OperationID string
    Summary     string
    Description string
    Deprecated  bool
    Tags        []string
    Parameters  []*Parameter
    RequestBody *RequestBody
    Responses   []*NamedResponse
}

// Parameter is an operation or path parameter. For v2 documents the
// non-body parameter keywords (type, format, items, enum, default) are
// exposed through Schema as well.
type Parameter struct {
    Ref         string
    Name        string
    In          string
    Description string
    Required    bool
    Deprecated  bool
    Nullable    bool
    Schema      *Schema
}

type RequestBody struct {
    Ref         string
    Description string
    Required    bool
    Nullable    bool
    // BodyName is the `x-body-name` extension.
    BodyName string
    Content  []*MediaType
}

type MediaType struct {
    Type   string
    Schema *Schema
}

type NamedResponse struct {
    Code     string
    Response *Response
}

type Response struct {
    Ref         string
    Description string
    // Schema is the v2 response schema.
    Schema  *Schema
    Content []*MediaType
    // Headers lists declared response header names in order.
    Headers []string
}

// NamedSchema is a top-level definition.
type NamedSchema struct {
    Name   string
    Schema *Schema
}

// Property is a named member of an object schema.
type Property struct {
    Name   string
    Schema *Schema
}

// Schema keeps every keyword the resolvers consume. Node is the source
// node, used when the schema is re-emitted verbatim.
type Schema struct {
    Ref         string
    Types       []string
    Format      string
    Title       string
    Description string

    Enum             []any
    EnumVarNames     []string
    EnumDescriptions []string

    Const    any
    HasConst bool
    Default  any

    Nullable   bool
    ReadOnly   bool
    Deprecated bool

    Required   []string
    Properties []*Property
    // AdditionalProperties is set for a schema-valued keyword;
    // AdditionalPropertiesAllowed records `additionalProperties: true`.
    AdditionalProperties        *Schema
    AdditionalPropertiesAllowed bool

    Items *Schema
    AllOf []*Schema
    AnyOf []*Schema
    OneOf []*Schema

    Node *yaml.Node
}

// HasType reports whether t is one of the declared types.
func (s *Schema) HasType(t string) bool {
    for _, v := range s.Types {
        if v == t {
            return true
        }
    }
    return false
}

// IsRequired reports whether name appears in the schema's required list.
func (s *Schema) IsRequired(name string) bool {
    for _, r := range s.Required {
        if r == name {
            return true
        }
    }
    return false
}

// Parse decodes a YAML or JSON document. The version discriminant decides
// the dialect; anything else yields ErrUnsupportedVersion.
func Parse(data []byte) (*Document, error) {
    var root yaml.Node
    if err := yaml.Unmarshal(data, &root); err != nil {
        return nil, fmt.Errorf("parse spec: %w", err)
    }
    if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
        return nil, ErrUnsupportedVersion
    }
    var doc Document
    if err := root.Content[0].Decode(&doc); err != nil {
        return nil, err
    }
    return &doc, nil
}

type rawDocument struct {
    Swagger    string                  `yaml:"swagger"`
    OpenAPI    string                  `yaml:"openapi"`
    Info       Info                    `yaml:"info"`
    Servers    []Server                `yaml:"servers"`
    Host       string                  `yaml:"host"`
    BasePath   string                  `yaml:"basePath"`
    Schemes    []string                `yaml:"schemes"`
    Tags       []Tag                   `yaml:"tags"`
    Paths      yaml.Node               `yaml:"paths"`
    Defs       yaml.Node               `yaml:"definitions"`
    Parameters map[string]*Parameter   `yaml:"parameters"`
    Responses  map[string]*Response    `yaml:"responses"`
    Components struct {
        Schemas       yaml.Node               `yaml:"schemas"`
        Parameters    map[string]*Parameter   `yaml:"parameters"`
        Responses     map[string]*Response    `yaml:"responses"`
        RequestBodies map[string]*RequestBody `yaml:"requestBodies"`
    } `yaml:"components"`
}

func (d *Document) UnmarshalYAML(n *yaml.Node) error {
    if n.Kind != yaml.MappingNode {
        return ErrUnsupportedVersion
    }
    var raw rawDocument
    if err := n.Decode(&raw); err != nil {
        return err
    }
    switch {
    case strings.HasPrefix(strings.TrimSpace(raw.Swagger), "2."):
        d.Dialect, d.Version = Swagger2, raw.Swagger
    case strings.HasPrefix(strings.TrimSpace(raw.OpenAPI), "3."):
        d.Dialect, d.Version = OpenAPI3, raw.OpenAPI
    default:
        return ErrUnsupportedVersion
    }

    d.Info = raw.Info
    d.Servers = raw.Servers
    d.Host = raw.Host
    d.BasePath = raw.BasePath
    d.Schemes = raw.Schemes
    d.Tags = raw.Tags

    defs := &raw.Defs
    d.Parameters, d.Responses = raw.Parameters, raw.Responses
    if d.Dialect == OpenAPI3 {
        defs = &raw.Components.Schemas
        d.Parameters = raw.Components.Parameters
        d.Responses = raw.Components.Responses
        d.RequestBodies = raw.Components.RequestBodies
    }

    var err error
    if d.Definitions, err = decodeDefinitions(defs); err != nil {
        return fmt.Errorf("definitions: %w", err)
    }
    if d.Paths, err = decodePaths(&raw.Paths); err != nil {
        return fmt.Errorf("paths: %w", err)
    }
    return nil
}

func decodeDefinitions(n *yaml.Node) ([]*NamedSchema, error) {
    var out []*NamedSchema
    err := eachPair(n, func(key string, value *yaml.Node) error {
        s := new(Schema)
        if err := value.Decode(s); err != nil {
            return fmt.Errorf("%s: %w", key, err)
        }
        out = append(out, &NamedSchema{Name: key, Schema: s})
        return nil
    })
    return out, err
}

var httpMethods = map[string]struct{}{
    "get": {}, "put": {}, "post": {}, "delete": {},
    "options": {}, "head": {}, "patch": {}, "trace": {},
}

func decodePaths(n *yaml.Node) ([]*PathItem, error) {
    var out []*PathItem
    err := eachPair(n, func(path string, value *yaml.Node) error {
        item := &PathItem{Path: path}
        err := eachPair(value, func(key string, v *yaml.Node) error {
            if key == "parameters" {
                return v.Decode(&item.Parameters)
            }
            method := strings.ToLower(key)
            if _, ok := httpMethods[method]; !ok {
                return nil
            }
            op := &Operation{Method: method}
            if err := v.Decode(op); err != nil {
                return fmt.Errorf("%s %s: %w", method, path, err)
            }
            item.Operations = append(item.Operations, op)
            return nil
        })
        if err != nil {
            return err
        }
        out = append(out, item)
        return nil
    })
    return out, err
}

// eachPair walks a mapping node in declaration order. Absent or non-mapping
// nodes are treated as empty.
func eachPair(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
    if n == nil || n.Kind != yaml.MappingNode {
        return nil
    }
    for i := 0; i+1 < len(n.Content); i += 2 {
        if err := fn(n.Content[i].Value, n.Content[i+1]); err != nil {
            return err
        }
    }
    return nil
}

func (o *Operation) UnmarshalYAML(n *yaml.Node) error {
    var raw struct {
        OperationID string       `yaml:"operationId"`
        Summary     string       `yaml:"summary"`
        Description string       `yaml:"description"`
        Deprecated  bool         `yaml:"deprecated"`
        Tags        []string     `yaml:"tags"`
        Parameters  []*Parameter `yaml:"parameters"`
        RequestBody *RequestBody `yaml:"requestBody"`
        Responses   yaml.Node    `yaml:"responses"`
    }
    if err := n.Decode(&raw); err != nil {
        return err
    }
    o.OperationID = raw.OperationID
    o.Summary = raw.Summary
    o.Description = raw.Description
    o.Deprecated = raw.Deprecated
    o.Tags = raw.Tags
    o.Parameters = raw.Parameters
    o.RequestBody = raw.RequestBody
    return eachPair(&raw.Responses, func(code string, v *yaml.Node) error {
        r := new(Response)
        if err := v.Decode(r); err != nil {
            return fmt.Errorf("response %s: %w", code, err)
        }
        o.Responses = append(o.Responses, &NamedResponse{Code: code, Response: r})
        return nil
    })
}

func (p *Parameter) UnmarshalYAML(n *yaml.Node) error {
    var raw struct {
        Ref         string    `yaml:"$ref"`
        Name        string    `yaml:"name"`
        In          string    `yaml:"in"`
        Description string    `yaml:"description"`
        Required    bool      `yaml:"required"`
        Deprecated  bool      `yaml:"deprecated"`
        Nullable    bool      `yaml:"nullable"`
        XNullable   bool      `yaml:"x-nullable"`
        Schema      *Schema   `yaml:"schema"`
        Type        yaml.Node `yaml:"type"`
    }
    if err := n.Decode(&raw); err != nil {
        return err
    }
    p.Ref = raw.Ref
    p.Name = raw.Name
    p.In = raw.In
    p.Description = raw.Description
    p.Required = raw.Required
    p.Deprecated = raw.Deprecated
    p.Nullable = raw.Nullable || raw.XNullable
    p.Schema = raw.Schema
    // v2 non-body parameters declare their type inline.
    if p.Schema == nil && raw.Type.Kind != 0 {
        s := new(Schema)
        if err := n.Decode(s); err != nil {
            return err
        }
        s.Description = ""
        p.Schema = s
    }
    return nil
}

func (b *RequestBody) UnmarshalYAML(n *yaml.Node) error {
    var raw struct {
        Ref         string    `yaml:"$ref"`
        Description string    `yaml:"description"`
        Required    bool      `yaml:"required"`
        Nullable    bool      `yaml:"nullable"`
        BodyName    string    `yaml:"x-body-name"`
        Content     yaml.Node `yaml:"content"`
    }
    if err := n.Decode(&raw); err != nil {
        return err
    }
    b.Ref = raw.Ref
    b.Description = raw.Description
    b.Required = raw.Required
    b.Nullable = raw.Nullable
    b.BodyName = raw.BodyName
    var err error
    b.Content, err = decodeContent(&raw.Content)
    return err
}

func (r *Response) UnmarshalYAML(n *yaml.Node) error {
    var raw struct {
        Ref         string    `yaml:"$ref"`
        Description string    `yaml:"description"`
        Schema      *Schema   `yaml:"schema"`
        Content     yaml.Node `yaml:"content"`
        Headers     yaml.Node `yaml:"headers"`
    }
    if err := n.Decode(&raw); err != nil {
        return err
    }
    r.Ref = raw.Ref
    r.Description = raw.Description
    r.Schema = raw.Schema
    var err error
    if r.Content, err = decodeContent(&raw.Content); err != nil {
        return err
    }
    return eachPair(&raw.Headers, func(name string, _ *yaml.Node) error {
        r.Headers = append(r.Headers, name)
        return nil
    })
}

func decodeContent(n *yaml.Node) ([]*MediaType, error) {
    var out []*MediaType
    err := eachPair(n, func(mediaType string, v *yaml.Node) error {
        var raw struct {
            Schema *Schema `yaml:"schema"`
        }
        if err := v.Decode(&raw); err != nil {
            return fmt.Errorf("%s: %w", mediaType, err)
        }
        out = append(out, &MediaType{Type: mediaType, Schema: raw.Schema})
        return nil
    })
    return out, err
}

func (s *Schema) UnmarshalYAML(n *yaml.Node) error {
    s.Node = n
    if n.Kind != yaml.MappingNode {
        // `true` / `{}` shorthands and malformed fragments resolve to an
        // empty schema.
        return nil
    }
    var raw struct {
        Ref              string         `yaml:"$ref"`
        Type             yaml.Node      `yaml:"type"`
        Format           string         `yaml:"format"`
        Title            string         `yaml:"title"`
        Description      string         `yaml:"description"`
        Enum             []any          `yaml:"enum"`
        EnumVarNames     []string       `yaml:"x-enum-varnames"`
        EnumNames        []string       `yaml:"x-enumNames"`
        EnumDescriptions []string       `yaml:"x-enum-descriptions"`
        Const            yaml.Node      `yaml:"const"`
        Default          any            `yaml:"default"`
        Nullable         bool           `yaml:"nullable"`
        XNullable        bool           `yaml:"x-nullable"`
        ReadOnly         bool           `yaml:"readOnly"`
        Deprecated       bool           `yaml:"deprecated"`
        Required         yaml.Node      `yaml:"required"`
        Properties       yaml.Node      `yaml:"properties"`
        Additional       yaml.Node      `yaml:"additionalProperties"`
        Items            yaml.Node      `yaml:"items"`
        AllOf            []*Schema      `yaml:"allOf"`
        AnyOf            []*Schema      `yaml:"anyOf"`
        OneOf            []*Schema      `yaml:"oneOf"`
    }
    if err := n.Decode(&raw); err != nil {
        return err
    }

    s.Ref = raw.Ref
    s.Format = raw.Format
    s.Title = raw.Title
    s.Description = raw.Description
    s.Enum = raw.Enum
    s.EnumVarNames = raw.EnumVarNames
    if len(s.EnumVarNames) == 0 {
        s.EnumVarNames = raw.EnumNames
    }
    s.EnumDescriptions = raw.EnumDescriptions
    s.Default = raw.Default
    s.Nullable = raw.Nullable || raw.XNullable
    s.ReadOnly = raw.ReadOnly
    s.Deprecated = raw.Deprecated
    s.AllOf, s.AnyOf, s.OneOf = raw.AllOf, raw.AnyOf, raw.OneOf

    switch raw.Type.Kind {
    case yaml.ScalarNode:
        s.Types = []string{raw.Type.Value}
    case yaml.SequenceNode:
        if err := raw.Type.Decode(&s.Types); err != nil {
            return fmt.Errorf("type: %w", err)
        }
    }

    if raw.Const.Kind != 0 {
        s.HasConst = true
        if err := raw.Const.Decode(&s.Const); err != nil {
            return fmt.Errorf("const: %w", err)
        }
    }

    // A boolean `required` on a property is a common v2 mistake; only the
    // list form is meaningful on a schema.
    if raw.Required.Kind == yaml.SequenceNode {
        if err := raw.Required.Decode(&s.Required); err != nil {
            return fmt.Errorf("required: %w", err)
        }
    }

    err := eachPair(&raw.Properties, func(name string, v *yaml.Node) error {
        child := new(Schema)
        if err := v.Decode(child); err != nil {
            return fmt.Errorf("property %s: %w", name, err)
        }
        s.Properties = append(s.Properties, &Property{Name: name, Schema: child})
        return nil
    })
    if err != nil {
        return err
    }

    switch raw.Additional.Kind {
    case yaml.ScalarNode:
        var allowed bool
        if err := raw.Additional.Decode(&allowed); err == nil {
            s.AdditionalPropertiesAllowed = allowed
        }
    case yaml.MappingNode:
        s.AdditionalProperties = new(Schema)
        if err := raw.Additional.Decode(s.AdditionalProperties); err != nil {
            return fmt.Errorf("additionalProperties: %w", err)
        }
    }

    if raw.Items.Kind == yaml.MappingNode {
        s.Items = new(Schema)
        if err := raw.Items.Decode(s.Items); err != nil {
            return fmt.Errorf("items: %w", err)
        }
    }
    return nil
}
