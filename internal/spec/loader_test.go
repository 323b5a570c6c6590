package spec

import (
    "context"
    "errors"
    "net/http"
    "net/http/httptest"
    "os"
    "path/filepath"
    "strings"
    "sync/atomic"
    "testing"
    "time"
)

func TestLoad_BlocksFileURL(t *testing.T) {
    t.Parallel()
    ctx := context.Background()
    _, err := Load(ctx, "file:///etc/hosts")
    if err == nil {
        t.Fatalf("expected error for file:// URL")
    }
    var se *SpecError
    if !errors.As(err, &se) {
        t.Fatalf("expected SpecError, got %T", err)
    }
    if se.Code != InputError {
        t.Fatalf("expected InputError, got %v", se.Code)
    }
}

func TestLoad_UnsupportedScheme(t *testing.T) {
    t.Parallel()
    ctx := context.Background()
    _, err := Load(ctx, "ftp://example.com/spec.yaml")
    if err == nil {
        t.Fatalf("expected error for unsupported scheme")
    }
    var se *SpecError
    if !errors.As(err, &se) || se.Code != InputError {
        t.Fatalf("expected InputError, got %v (%T)", err, err)
    }
}

func TestLoad_NetworkError(t *testing.T) {
    t.Parallel()
    // Unused port to provoke a quick network failure.
    url := "http://127.0.0.1:1/spec.yaml"
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    _, err := Load(ctx, url, WithHTTPTimeout(200*time.Millisecond), WithMaxRetries(2))
    if err == nil {
        t.Fatalf("expected network error")
    }
    var se *SpecError
    if !errors.As(err, &se) || se.Code != NetworkError {
        t.Fatalf("expected NetworkError, got %v (%T)", err, err)
    }
}

func TestLoad_V3_InvalidSpec(t *testing.T) {
    t.Parallel()
    dir := t.TempDir()
    path := filepath.Join(dir, "bad.yaml")
    content := strings.TrimSpace(`openapi: 3.0.0
info:
  title: Bad
  version: "1.0.0"
paths:
  "/pet":
    get:
      responses: {}
`) + "\n"
    if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
        t.Fatalf("write: %v", err)
    }

    ctx := context.Background()
    if _, err := Load(ctx, path); err != nil {
        t.Fatalf("permissive load should tolerate validation findings: %v", err)
    }
    _, err := Load(ctx, path, WithStrict(true))
    if err == nil {
        t.Fatalf("expected validation error for incomplete responses")
    }
    var se *SpecError
    if !errors.As(err, &se) {
        t.Fatalf("expected SpecError, got %T", err)
    }
    if se.Code != ValidationError && se.Code != ParseError { // parser version differences
        t.Fatalf("expected ValidationError/ParseError, got %v", se.Code)
    }
    if se.Location == "" {
        t.Fatalf("expected location to be set")
    }
}

func TestLoad_V2_Conversion_Success(t *testing.T) {
    t.Parallel()
    dir := t.TempDir()
    path := filepath.Join(dir, "swagger.yaml")
    content := strings.TrimSpace(`swagger: "2.0"
info:
  title: Sample
  version: "1.0.0"
paths:
  "/hello":
    get:
      responses:
        "200":
          description: ok
`) + "\n"
    if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
        t.Fatalf("write: %v", err)
    }

    ctx := context.Background()
    doc, err := Load(ctx, path)
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if doc == nil {
        t.Fatalf("expected doc")
    }
    if doc.Dialect != Swagger2 {
        t.Fatalf("expected swagger 2 dialect, got %v", doc.Dialect)
    }
    if len(doc.Paths) != 1 || doc.Paths[0].Path != "/hello" {
        t.Fatalf("expected /hello path, got %+v", doc.Paths)
    }
}

func TestLoad_V2_Conversion_Failure(t *testing.T) {
    t.Parallel()
    dir := t.TempDir()
    path := filepath.Join(dir, "swagger-bad.yaml")
    content := strings.TrimSpace(`swagger: "2.0"
paths: {}
`) + "\n"
    if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
        t.Fatalf("write: %v", err)
    }

    ctx := context.Background()
    _, err := Load(ctx, path, WithStrict(true))
    if err == nil {
        t.Fatalf("expected conversion error")
    }
    var se *SpecError
    if !errors.As(err, &se) {
        t.Fatalf("expected SpecError, got %T", err)
    }
    if se.Code != ConversionError && se.Code != ValidationError && se.Code != ParseError {
        t.Fatalf("expected ConversionError/ValidationError/ParseError, got %v", se.Code)
    }
}


func TestLoad_UnsupportedVersion(t *testing.T) {
    t.Parallel()
    dir := t.TempDir()
    path := filepath.Join(dir, "asyncapi.yaml")
    if err := os.WriteFile(path, []byte("asyncapi: 2.6.0\ninfo: { title: x, version: '1' }\n"), 0o600); err != nil {
        t.Fatalf("write: %v", err)
    }
    _, err := Load(context.Background(), path)
    if !errors.Is(err, ErrUnsupportedVersion) {
        t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
    }
    var se *SpecError
    if !errors.As(err, &se) || se.Code != ParseError {
        t.Fatalf("expected ParseError, got %v (%T)", err, err)
    }
}

func TestLoad_V3_FromHTTP(t *testing.T) {
    t.Parallel()
    body := `openapi: 3.0.3
info: { title: Remote, version: "1.0.0" }
paths:
  /ping:
    get:
      responses:
        "200": { description: pong }
`
    var attempts atomic.Int32
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if attempts.Add(1) == 1 {
            w.WriteHeader(http.StatusServiceUnavailable)
            return
        }
        _, _ = w.Write([]byte(body))
    }))
    defer srv.Close()

    doc, err := Load(context.Background(), srv.URL+"/openapi.yaml", WithBackoffBase(time.Millisecond))
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if doc.Dialect != OpenAPI3 || doc.Info.Title != "Remote" {
        t.Fatalf("unexpected document: %v %q", doc.Dialect, doc.Info.Title)
    }
    if n := attempts.Load(); n != 2 {
        t.Fatalf("expected a retry after 503, got %d attempts", n)
    }
}
