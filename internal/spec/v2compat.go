package spec

import (
    "sort"
    "strings"

    "gopkg.in/yaml.v3"
)

// v2FixKind names a rewrite applied to a Swagger 2.0 document so that the
// kin-openapi converter accepts it. The rewrites only feed validation; the
// compiler always works on the document as written.
type v2FixKind string

const (
    // fixMergedBodies folds several `in: body` parameters into one object body.
    fixMergedBodies v2FixKind = "merged-body-parameters"
    // fixBodyToForm turns body parameters into formData when an operation mixes both.
    fixBodyToForm v2FixKind = "body-to-formdata"
    // fixFileType replaces `type: file` outside formData with a binary string.
    fixFileType v2FixKind = "file-type-outside-formdata"
)

type v2Fix struct {
    Path   string
    Method string
    Kind   v2FixKind
}

var v2Methods = []string{"get", "put", "post", "delete", "options", "head", "patch"}

// normalizeV2 applies every known rewrite to a v2 document and reports the
// operations it touched, in path then method order. On error the original
// bytes are returned with no fixes.
func normalizeV2(data []byte) ([]byte, []v2Fix, error) {
    var doc map[string]any
    if err := yaml.Unmarshal(data, &doc); err != nil {
        return data, nil, err
    }
    paths, ok := doc["paths"].(map[string]any)
    if !ok || len(paths) == 0 {
        return data, nil, nil
    }

    keys := make([]string, 0, len(paths))
    for k := range paths {
        keys = append(keys, k)
    }
    sort.Strings(keys)

    var fixes []v2Fix
    for _, path := range keys {
        item, ok := paths[path].(map[string]any)
        if !ok {
            continue
        }
        for _, method := range v2Methods {
            op, ok := operationMap(item, method)
            if !ok {
                continue
            }
            for _, kind := range fixV2Operation(op) {
                fixes = append(fixes, v2Fix{Path: path, Method: method, Kind: kind})
            }
        }
    }
    if len(fixes) == 0 {
        return data, nil, nil
    }

    out, err := yaml.Marshal(doc)
    if err != nil {
        return data, nil, err
    }
    return out, fixes, nil
}

// operationMap finds method in a path item regardless of key case.
func operationMap(item map[string]any, method string) (map[string]any, bool) {
    for k, v := range item {
        if strings.EqualFold(k, method) {
            op, ok := v.(map[string]any)
            return op, ok
        }
    }
    return nil, false
}

func fixV2Operation(op map[string]any) []v2FixKind {
    params, ok := op["parameters"].([]any)
    if !ok || len(params) == 0 {
        return nil
    }

    var (
        kinds   []v2FixKind
        bodies  int
        hasForm bool
    )
    for _, p := range params {
        pm, _ := p.(map[string]any)
        switch paramIn(pm) {
        case "body":
            bodies++
        case "formdata":
            hasForm = true
        }
    }

    switch {
    case bodies > 0 && hasForm:
        params = bodiesToForm(params)
        op["consumes"] = ensureConsumes(op["consumes"], "multipart/form-data")
        kinds = append(kinds, fixBodyToForm)
    case bodies > 1:
        params = mergeBodies(params)
        kinds = append(kinds, fixMergedBodies)
    }

    if replaceFileTypes(params) {
        kinds = append(kinds, fixFileType)
    }
    op["parameters"] = params
    return kinds
}

func paramIn(pm map[string]any) string {
    if pm == nil {
        return ""
    }
    return strings.ToLower(asString(pm["in"]))
}

// mergeBodies replaces every body parameter with a single leading body whose
// schema has one property per original parameter.
func mergeBodies(params []any) []any {
    props := map[string]any{}
    var required []any
    rest := make([]any, 0, len(params))
    for _, p := range params {
        pm, _ := p.(map[string]any)
        if paramIn(pm) != "body" {
            rest = append(rest, p)
            continue
        }
        name := paramName(pm)
        schema := schemaOf(pm)
        if schema == nil {
            schema = map[string]any{"type": "string"}
        }
        props[name] = schema
        if req, _ := pm["required"].(bool); req {
            required = append(required, name)
        }
    }

    schema := map[string]any{"type": "object", "properties": props}
    if len(required) > 0 {
        schema["required"] = required
    }
    merged := map[string]any{"in": "body", "name": "body", "schema": schema}
    if len(required) > 0 {
        merged["required"] = true
    }
    return append([]any{merged}, rest...)
}

func bodiesToForm(params []any) []any {
    out := make([]any, 0, len(params))
    for _, p := range params {
        pm, _ := p.(map[string]any)
        if paramIn(pm) == "body" {
            out = append(out, formField(pm))
            continue
        }
        out = append(out, p)
    }
    return out
}

// formField derives a formData parameter from a body parameter. Referenced
// or typeless schemas cannot be expressed as form fields and become strings.
func formField(pm map[string]any) map[string]any {
    out := map[string]any{"in": "formData", "name": paramName(pm)}
    if desc := asString(pm["description"]); desc != "" {
        out["description"] = desc
    }
    if req, ok := pm["required"].(bool); ok {
        out["required"] = req
    }

    typ := "string"
    if schema := schemaOf(pm); schema != nil {
        if t := asString(schema["type"]); t != "" && t != "object" {
            typ = t
            if items, ok := schema["items"].(map[string]any); ok {
                out["items"] = items
            }
            if f := asString(schema["format"]); f != "" {
                out["format"] = f
            }
        }
    }
    out["type"] = typ
    return out
}

func replaceFileTypes(params []any) bool {
    changed := false
    for _, p := range params {
        pm, _ := p.(map[string]any)
        if pm == nil || paramIn(pm) == "formdata" {
            continue
        }
        if asString(pm["type"]) == "file" {
            pm["type"] = "string"
            pm["format"] = "binary"
            changed = true
        }
        if schema, ok := pm["schema"].(map[string]any); ok && asString(schema["type"]) == "file" {
            schema["type"] = "string"
            schema["format"] = "binary"
            changed = true
        }
    }
    return changed
}

// schemaOf returns the body schema of a parameter, or one synthesized from
// its inline type.
func schemaOf(pm map[string]any) map[string]any {
    if schema, ok := pm["schema"].(map[string]any); ok {
        return schema
    }
    t := asString(pm["type"])
    if t == "" {
        return nil
    }
    m := map[string]any{"type": t}
    if items, ok := pm["items"].(map[string]any); ok {
        m["items"] = items
    }
    if f := asString(pm["format"]); f != "" {
        m["format"] = f
    }
    return m
}

func ensureConsumes(v any, mediaType string) []any {
    list, _ := v.([]any)
    for _, item := range list {
        if s, ok := item.(string); ok && s == mediaType {
            return list
        }
    }
    return append(list, mediaType)
}

func paramName(pm map[string]any) string {
    if name := asString(pm["name"]); name != "" {
        return name
    }
    return "field"
}

func asString(v any) string {
    if s, ok := v.(string); ok {
        return s
    }
    return ""
}
