// Package config holds the generation options shared by the CLI and the
// compiler, merged from defaults, a config file, the environment and flags.
package config

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/mark3labs/swagger2ts/internal/emit"
	"github.com/mark3labs/swagger2ts/internal/naming"
)

// EnvPrefix prefixes every environment override, e.g. SWAGGER2TS_CLIENT.
const EnvPrefix = "SWAGGER2TS"

// Clients lists the client flavors that ship a core runtime. Any
// "@hey-api/client-*" value is accepted too.
var Clients = []string{"fetch", "xhr", "node", "axios", "angular", "fastify"}

// Services configures the services file.
type Services struct {
	Export      bool
	OperationID bool `split_words:"true"`
	Response    string
}

// Types configures the types file.
type Types struct {
	Export bool
	Enums  string
}

// Schemas configures the schemas file.
type Schemas struct {
	Export bool
	Type   string
}

// Config captures all inputs that influence generation. Environment
// variables are named after the fields: SWAGGER2TS_USE_OPTIONS,
// SWAGGER2TS_SERVICES_OPERATION_ID and so on.
type Config struct {
	Input       string
	Output      string
	Client      string
	Name        string
	UseOptions  bool `split_words:"true"`
	ExportCore  bool `split_words:"true"`
	Services    Services
	Types       Types
	Schemas     Schemas
	IncludeTags []string `split_words:"true"`
	ExcludeTags []string `split_words:"true"`
	Methods     []string
	Paths       []string
	DryRun      bool `split_words:"true"`
	Force       bool
	Verbose     bool
	LogLevel    string `split_words:"true"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Output:     "generated",
		Client:     emit.ClientFetch,
		UseOptions: true,
		ExportCore: true,
		Services: Services{
			Export:      true,
			OperationID: true,
			Response:    emit.ResponseBody,
		},
		Types:    Types{Export: true},
		Schemas:  Schemas{Export: true, Type: emit.SchemaJSON},
		LogLevel: "info",
	}
}

// ApplyEnv overrides cfg with the SWAGGER2TS_* variables that are set.
// Unset variables leave the current values alone.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("process environment: %w", err)
	}
	return nil
}

// Normalize trims string fields and cleans the tag lists.
func (c *Config) Normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Output = strings.TrimSpace(c.Output)
	c.Client = strings.ToLower(strings.TrimSpace(c.Client))
	c.Name = strings.TrimSpace(c.Name)
	c.Services.Response = strings.ToLower(strings.TrimSpace(c.Services.Response))
	c.Types.Enums = strings.ToLower(strings.TrimSpace(c.Types.Enums))
	c.Schemas.Type = strings.ToLower(strings.TrimSpace(c.Schemas.Type))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.IncludeTags = SanitizeTags(c.IncludeTags)
	c.ExcludeTags = SanitizeTags(c.ExcludeTags)
	for i, m := range c.Methods {
		c.Methods[i] = strings.ToLower(strings.TrimSpace(m))
	}
	c.Methods = SanitizeTags(c.Methods)
	c.Paths = SanitizeTags(c.Paths)
}

var httpMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input is required (set via flag, config file or %s_INPUT)", EnvPrefix)
	}
	if c.Output == "" {
		return fmt.Errorf("output directory is required")
	}
	if !knownClient(c.Client) {
		return fmt.Errorf("unsupported client %q (allowed: %s, @hey-api/client-*)", c.Client, strings.Join(Clients, ", "))
	}
	if c.Name != "" && !naming.IsIdentifier(c.Name) {
		return fmt.Errorf("name %q is not a valid class name", c.Name)
	}
	switch c.Services.Response {
	case emit.ResponseBody, emit.ResponseFull:
	default:
		return fmt.Errorf("unsupported services response %q (allowed: body, response)", c.Services.Response)
	}
	switch c.Types.Enums {
	case emit.EnumsUnion, emit.EnumsTypeScript, emit.EnumsJavaScript:
	default:
		return fmt.Errorf("unsupported enums style %q (allowed: typescript, javascript or empty)", c.Types.Enums)
	}
	switch c.Schemas.Type {
	case emit.SchemaJSON, emit.SchemaForm:
	default:
		return fmt.Errorf("unsupported schemas type %q (allowed: json, form)", c.Schemas.Type)
	}
	if overlap := intersect(c.IncludeTags, c.ExcludeTags); len(overlap) > 0 {
		return fmt.Errorf("include/exclude tags overlap: %s", strings.Join(overlap, ", "))
	}
	if unknown := subtract(c.Methods, httpMethods); len(unknown) > 0 {
		return fmt.Errorf("unsupported methods: %s", strings.Join(unknown, ", "))
	}
	for _, p := range c.Paths {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid path pattern %q: %w", p, err)
		}
	}
	return nil
}

func knownClient(client string) bool {
	if strings.HasPrefix(client, "@hey-api/client-") && len(client) > len("@hey-api/client-") {
		return true
	}
	for _, c := range Clients {
		if c == client {
			return true
		}
	}
	return false
}

// EmitOptions returns the compiler options selected by c.
func (c *Config) EmitOptions() emit.Options {
	return emit.Options{
		Client:          c.Client,
		Name:            c.Name,
		UseOptions:      c.UseOptions,
		ExportCore:      c.ExportCore,
		ExportServices:  c.Services.Export,
		ExportTypes:     c.Types.Export,
		ExportSchemas:   c.Schemas.Export,
		Enums:           c.Types.Enums,
		ServiceResponse: c.Services.Response,
		SchemaType:      c.Schemas.Type,
	}
}

// Level returns the slog level selected by Verbose or LogLevel.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SanitizeTags trims tags and drops empty and repeated entries.
func SanitizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a))
	for _, item := range a {
		set[item] = struct{}{}
	}
	var result []string
	for _, item := range b {
		if _, ok := set[item]; ok {
			result = append(result, item)
		}
	}
	return result
}

// subtract returns the entries of a missing from b.
func subtract(a, b []string) []string {
	var out []string
	for _, item := range a {
		found := false
		for _, want := range b {
			if item == want {
				found = true
				break
			}
		}
		if !found {
			out = append(out, item)
		}
	}
	return out
}
