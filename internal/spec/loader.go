package spec

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "log/slog"
    "net/http"
    "net/url"
    "os"
    "path/filepath"
    "regexp"
    "strings"
    "time"

    openapi2 "github.com/getkin/kin-openapi/openapi2"
    "github.com/getkin/kin-openapi/openapi2conv"
    "github.com/getkin/kin-openapi/openapi3"
    "gopkg.in/yaml.v3"
)

// ErrorCode categorizes loader errors for clearer handling and messaging.
type ErrorCode string

const (
    InputError      ErrorCode = "InputError"
    NetworkError    ErrorCode = "NetworkError"
    ParseError      ErrorCode = "ParseError"
    ValidationError ErrorCode = "ValidationError"
    ConversionError ErrorCode = "ConversionError"
)

// SpecError is a structured error with optional location and JSON Pointer.
type SpecError struct {
    Code        ErrorCode
    Message     string
    Location    string // file path or URL
    JSONPointer string // e.g. "#/paths/~1pets/get"
    Cause       error
}

func (e *SpecError) Error() string { return e.Message }
func (e *SpecError) Unwrap() error { return e.Cause }

// Settings configures loader behavior.
type Settings struct {
    // HTTPTimeout bounds each HTTP request.
    HTTPTimeout time.Duration
    // MaxRetries for transient HTTP failures (>=500, 429, or network errors).
    MaxRetries int
    // BackoffBase is the base delay for exponential backoff.
    BackoffBase time.Duration
    // AllowFileRefs controls whether file:// refs are allowed while validating
    // external references. Always allowed when the root input is a local file.
    AllowFileRefs bool
    // Strict turns validation and conversion findings into errors. By
    // default they are logged and loading continues.
    Strict bool
    Logger *slog.Logger
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
    return Settings{
        HTTPTimeout: 10 * time.Second,
        MaxRetries:  3,
        BackoffBase: 200 * time.Millisecond,
        Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
    }
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option  { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option            { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option { return func(s *Settings) { s.BackoffBase = d } }
func WithAllowFileRefs(allow bool) Option    { return func(s *Settings) { s.AllowFileRefs = allow } }
func WithStrict(strict bool) Option          { return func(s *Settings) { s.Strict = strict } }

func WithLogger(l *slog.Logger) Option {
    return func(s *Settings) {
        if l != nil {
            s.Logger = l
        }
    }
}

// Load reads an API description from a filesystem path or an http/https
// URL, checks it with kin-openapi and decodes it into a Document.
//
// file:// URLs are blocked. Swagger 2.0 input is validated after conversion
// through openapi2conv; the returned Document keeps the v2 shape.
func Load(ctx context.Context, input string, opts ...Option) (*Document, error) {
    if strings.TrimSpace(input) == "" {
        return nil, &SpecError{Code: InputError, Message: "spec: input is empty"}
    }

    settings := DefaultSettings()
    for _, opt := range opts {
        opt(&settings)
    }
    log := settings.Logger.With("component", "spec")

    raw, location, isFile, err := readInput(ctx, input, settings)
    if err != nil {
        return nil, err
    }

    doc, err := Parse(raw)
    if err != nil {
        return nil, &SpecError{Code: ParseError, Message: err.Error(), Location: location, Cause: err}
    }
    log.Debug("document decoded",
        "location", location,
        "dialect", doc.Dialect.String(),
        "paths", len(doc.Paths),
        "definitions", len(doc.Definitions))

    if err := validate(ctx, doc.Dialect, raw, location, isFile, settings); err != nil {
        if settings.Strict {
            return nil, err
        }
        log.Warn("continuing despite validation findings", "location", location, "error", err)
    }
    return doc, nil
}

// readInput classifies input as URL or file path and returns its bytes.
func readInput(ctx context.Context, input string, settings Settings) ([]byte, string, bool, error) {
    u, uerr := url.Parse(input)
    isURL := uerr == nil && u.Scheme != "" && u.Host != ""

    if isURL {
        scheme := strings.ToLower(u.Scheme)
        if scheme == "file" {
            return nil, input, false, &SpecError{Code: InputError, Message: "spec: file:// URLs are blocked by default", Location: input}
        }
        if scheme != "http" && scheme != "https" {
            return nil, input, false, &SpecError{Code: InputError, Message: fmt.Sprintf("spec: unsupported URL scheme %q (only http/https allowed)", scheme), Location: input}
        }
        raw, err := fetchWithRetry(ctx, input, settings)
        if err != nil {
            return nil, input, false, &SpecError{Code: NetworkError, Message: fmt.Sprintf("fetch %s: %v", input, err), Location: input, Cause: err}
        }
        return raw, input, false, nil
    }

    abs, err := filepath.Abs(input)
    if err != nil {
        return nil, input, true, &SpecError{Code: InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: input, Cause: err}
    }
    raw, err := os.ReadFile(abs)
    if err != nil {
        return nil, abs, true, &SpecError{Code: InputError, Message: fmt.Sprintf("read file %s: %v", abs, err), Location: abs, Cause: err}
    }
    return raw, abs, true, nil
}

// validate runs kin-openapi over the raw bytes. Unresolved references are
// always tolerated since the resolvers only need reference names.
func validate(ctx context.Context, dialect Dialect, raw []byte, location string, isFile bool, settings Settings) error {
    loader := newLoader(settings, isFile)

    var doc *openapi3.T
    switch dialect {
    case OpenAPI3:
        var err error
        if isFile {
            doc, err = loader.LoadFromFile(location)
        } else {
            doc, err = loader.LoadFromData(raw)
        }
        if err != nil {
            return mapValidateOrParseErr(err, location)
        }
    case Swagger2:
        // Preprocess incompatible v2 constructs to improve conversion success.
        if fixed, fixes, _ := normalizeV2(raw); len(fixes) > 0 {
            for _, f := range fixes {
                settings.Logger.Debug("rewrote v2 operation for validation",
                    "location", location, "path", f.Path, "method", f.Method, "fix", string(f.Kind))
            }
            raw = fixed
        }
        converted, err := convertV2ToV3(raw)
        if err != nil {
            return &SpecError{Code: ConversionError, Message: fmt.Sprintf("convert v2→v3: %v", err), Location: location, Cause: err}
        }
        if err := loader.ResolveRefsIn(converted, nil); err != nil {
            settings.Logger.Debug("unresolved refs after conversion", "location", location, "error", err)
        }
        doc = converted
    default:
        return &SpecError{Code: ParseError, Message: ErrUnsupportedVersion.Error(), Location: location, Cause: ErrUnsupportedVersion}
    }

    if err := doc.Validate(ctx); err != nil && !canProceedDespiteValidation(err) {
        return mapValidateOrParseErr(err, location)
    }
    return nil
}

func newLoader(settings Settings, rootIsFile bool) *openapi3.Loader {
    loader := openapi3.NewLoader()
    loader.IsExternalRefsAllowed = true
    client := &http.Client{Timeout: settings.HTTPTimeout}
    // Allow file refs only when configured or when loading from a local file root.
    allowFile := settings.AllowFileRefs || rootIsFile
    loader.ReadFromURIFunc = func(l *openapi3.Loader, uri *url.URL) ([]byte, error) {
        switch strings.ToLower(uri.Scheme) {
        case "", "file":
            if !allowFile {
                return nil, fmt.Errorf("blocked file ref: %s", uri.String())
            }
            path := uri.Path
            if path == "" {
                path = uri.Opaque
            }
            return os.ReadFile(path)
        case "http", "https":
            req, err := http.NewRequest(http.MethodGet, uri.String(), nil)
            if err != nil {
                return nil, err
            }
            resp, err := client.Do(req)
            if err != nil {
                return nil, err
            }
            defer resp.Body.Close()
            if resp.StatusCode >= 400 {
                return nil, fmt.Errorf("http %d: %s", resp.StatusCode, uri.String())
            }
            return io.ReadAll(resp.Body)
        default:
            return nil, fmt.Errorf("unsupported ref scheme: %s", uri.Scheme)
        }
    }
    return loader
}

// convertV2ToV3 decodes v2 bytes (YAML or JSON) through the kin-openapi JSON
// codec and converts the result.
func convertV2ToV3(data []byte) (*openapi3.T, error) {
    var generic any
    if err := yaml.Unmarshal(data, &generic); err != nil {
        return nil, err
    }
    js, err := json.Marshal(jsonCompatible(generic))
    if err != nil {
        return nil, err
    }
    var v2 openapi2.T
    if err := json.Unmarshal(js, &v2); err != nil {
        return nil, err
    }
    return openapi2conv.ToV3(&v2)
}

// jsonCompatible rewrites maps with non-string keys, such as numeric
// response codes, so the value can be marshaled as JSON.
func jsonCompatible(v any) any {
    switch t := v.(type) {
    case map[string]any:
        for k, val := range t {
            t[k] = jsonCompatible(val)
        }
        return t
    case map[any]any:
        out := make(map[string]any, len(t))
        for k, val := range t {
            out[fmt.Sprint(k)] = jsonCompatible(val)
        }
        return out
    case []any:
        for i, val := range t {
            t[i] = jsonCompatible(val)
        }
        return t
    }
    return v
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
    client := &http.Client{Timeout: settings.HTTPTimeout}
    var lastErr error
    backoff := settings.BackoffBase
    if backoff <= 0 {
        backoff = 200 * time.Millisecond
    }
    attempts := settings.MaxRetries
    if attempts <= 0 {
        attempts = 1
    }
    for i := 0; i < attempts; i++ {
        req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
        if err != nil {
            return nil, err
        }
        resp, err := client.Do(req)
        if err == nil && resp.StatusCode < 300 {
            defer resp.Body.Close()
            return io.ReadAll(resp.Body)
        }
        if err != nil {
            lastErr = err
        } else {
            body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
            resp.Body.Close()
            if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
                return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
            }
            lastErr = fmt.Errorf("transient http error %d", resp.StatusCode)
        }
        settings.Logger.Debug("fetch attempt failed", "url", rawURL, "attempt", i+1, "error", lastErr)
        // Backoff before next attempt
        select {
        case <-ctx.Done():
            return nil, ctx.Err()
        case <-time.After(backoff):
        }
        backoff *= 2
    }
    if lastErr == nil {
        lastErr = errors.New("fetch failed")
    }
    return nil, lastErr
}

func mapValidateOrParseErr(err error, location string) error {
    pointer := extractJSONPointer(err)
    code := ValidationError
    // Heuristics: some loader errors are parse errors.
    lower := strings.ToLower(err.Error())
    if strings.Contains(lower, "parse") || strings.Contains(lower, "invalid character") || strings.Contains(lower, "unmarshal") {
        code = ParseError
    }
    return &SpecError{Code: code, Message: err.Error(), Location: location, JSONPointer: pointer, Cause: err}
}

var jsonPtrRe = regexp.MustCompile(`#/[^\s'\"]+`)

func extractJSONPointer(err error) string {
    if err == nil {
        return ""
    }
    // Unwrap MultiError and take the first for brevity.
    var me openapi3.MultiError
    if errors.As(err, &me) && len(me) > 0 {
        return extractJSONPointer(me[0])
    }
    var se *openapi3.SchemaError
    if errors.As(err, &se) {
        if parts := se.JSONPointer(); len(parts) > 0 {
            return "#/" + strings.Join(parts, "/")
        }
        if se.SchemaField != "" {
            return se.SchemaField
        }
    }
    // Fallback: parse from error message if a pointer literal appears.
    if m := jsonPtrRe.FindString(err.Error()); m != "" {
        return m
    }
    return ""
}

// canProceedDespiteValidation returns true for validation errors where a
// build can still proceed (e.g., unresolved $ref entries).
func canProceedDespiteValidation(err error) bool {
    if err == nil {
        return true
    }
    s := strings.ToLower(err.Error())
    return strings.Contains(s, "unresolved ref") || strings.Contains(s, "found unresolved ref")
}
