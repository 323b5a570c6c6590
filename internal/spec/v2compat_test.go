package spec

import (
    "strings"
    "testing"
)

func fixKinds(fixes []v2Fix) []string {
    out := make([]string, 0, len(fixes))
    for _, f := range fixes {
        out = append(out, f.Method+" "+f.Path+" "+string(f.Kind))
    }
    return out
}

func TestNormalizeV2_MultipleBodyMerged(t *testing.T) {
    t.Parallel()
    in := []byte(`swagger: "2.0"
info: { title: t, version: "1.0.0" }
paths:
  /x:
    post:
      parameters:
      - in: body
        name: a
        required: true
        schema: { type: string }
      - in: body
        name: b
        schema: { type: integer }
      responses: { '200': { description: ok } }
`)
    out, fixes, err := normalizeV2(in)
    if err != nil { t.Fatalf("normalize: %v", err) }
    if got := fixKinds(fixes); len(got) != 1 || got[0] != "post /x merged-body-parameters" {
        t.Fatalf("unexpected fixes: %v", got)
    }
    s := string(out)
    if !strings.Contains(s, "in: body") || !strings.Contains(s, "name: body") {
        t.Fatalf("expected merged single body parameter, got:\n%s", s)
    }
    if strings.Count(s, "in: body") != 1 {
        t.Fatalf("expected exactly one body parameter, got:\n%s", s)
    }
}

func TestNormalizeV2_BodyAndFormData_ToFormData(t *testing.T) {
    t.Parallel()
    in := []byte(`swagger: "2.0"
info: { title: t, version: "1.0.0" }
paths:
  /upload:
    post:
      parameters:
      - in: body
        name: desc
        schema: { type: string }
      - in: formData
        name: file
        type: file
        required: true
      responses: { '200': { description: ok } }
`)
    out, fixes, err := normalizeV2(in)
    if err != nil { t.Fatalf("normalize: %v", err) }
    if got := fixKinds(fixes); len(got) != 1 || got[0] != "post /upload body-to-formdata" {
        t.Fatalf("unexpected fixes: %v", got)
    }
    s := string(out)
    if strings.Contains(s, "in: body") {
        t.Fatalf("expected no body params after conversion to formData, got:\n%s", s)
    }
    if !strings.Contains(s, "multipart/form-data") {
        t.Fatalf("expected consumes multipart/form-data, got:\n%s", s)
    }
    // formData files are valid v2 and stay untouched
    if !strings.Contains(s, "type: file") {
        t.Fatalf("expected formData file to be kept, got:\n%s", s)
    }
}

func TestNormalizeV2_FileOutsideFormData(t *testing.T) {
    t.Parallel()
    in := []byte(`swagger: "2.0"
info: { title: t, version: "1.0.0" }
paths:
  /b:
    put:
      parameters:
      - in: body
        name: payload
        schema: { type: file }
      responses: { '200': { description: ok } }
  /a:
    get:
      parameters:
      - in: query
        name: blob
        type: file
      responses: { '200': { description: ok } }
`)
    out, fixes, err := normalizeV2(in)
    if err != nil { t.Fatalf("normalize: %v", err) }
    got := fixKinds(fixes)
    want := []string{"get /a file-type-outside-formdata", "put /b file-type-outside-formdata"}
    if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
        t.Fatalf("fixes: want %v got %v", want, got)
    }
    s := string(out)
    if strings.Contains(s, "type: file") || !strings.Contains(s, "format: binary") {
        t.Fatalf("expected binary strings, got:\n%s", s)
    }
}

func TestNormalizeV2_UnchangedKeepsBytes(t *testing.T) {
    t.Parallel()
    in := []byte(`swagger: "2.0"
info: { title: t, version: "1.0.0" }
paths:
  /x:
    get:
      parameters:
      - in: query
        name: q
        type: string
      responses: { '200': { description: ok } }
`)
    out, fixes, err := normalizeV2(in)
    if err != nil { t.Fatalf("normalize: %v", err) }
    if len(fixes) != 0 {
        t.Fatalf("expected no fixes, got %v", fixKinds(fixes))
    }
    if string(out) != string(in) {
        t.Fatalf("expected original bytes back")
    }
}
