package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile applies the YAML or JSON config file at path onto cfg. Keys are
// matched case-insensitively with dashes and underscores ignored, so
// useOptions, use_options and use-options are the same key.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}
	if err := apply(cfg, raw); err != nil {
		return fmt.Errorf("config file %q: %w", path, err)
	}
	return nil
}

func apply(cfg *Config, raw map[string]any) error {
	for key, value := range raw {
		var err error
		switch normalizeKey(key) {
		case "input":
			cfg.Input, err = valueAsString(value)
		case "output", "out":
			cfg.Output, err = valueAsString(value)
		case "client":
			cfg.Client, err = valueAsString(value)
		case "name":
			cfg.Name, err = valueAsString(value)
		case "useoptions":
			cfg.UseOptions, err = valueAsBool(value)
		case "exportcore":
			cfg.ExportCore, err = valueAsBool(value)
		case "services":
			err = section(value, &cfg.Services.Export, func(k string, v any) (err error) {
				switch k {
				case "export":
					cfg.Services.Export, err = valueAsBool(v)
				case "operationid":
					cfg.Services.OperationID, err = valueAsBool(v)
				case "response":
					cfg.Services.Response, err = valueAsString(v)
				default:
					err = errUnknown
				}
				return err
			})
		case "types":
			err = section(value, &cfg.Types.Export, func(k string, v any) (err error) {
				switch k {
				case "export":
					cfg.Types.Export, err = valueAsBool(v)
				case "enums":
					cfg.Types.Enums, err = enumStyle(v)
				default:
					err = errUnknown
				}
				return err
			})
		case "schemas":
			err = section(value, &cfg.Schemas.Export, func(k string, v any) (err error) {
				switch k {
				case "export":
					cfg.Schemas.Export, err = valueAsBool(v)
				case "type":
					cfg.Schemas.Type, err = valueAsString(v)
				default:
					err = errUnknown
				}
				return err
			})
		case "includetags":
			var list []string
			list, err = valueAsStringSlice(value)
			cfg.IncludeTags = SanitizeTags(list)
		case "excludetags":
			var list []string
			list, err = valueAsStringSlice(value)
			cfg.ExcludeTags = SanitizeTags(list)
		case "methods":
			cfg.Methods, err = valueAsStringSlice(value)
		case "paths":
			cfg.Paths, err = valueAsStringSlice(value)
		case "dryrun":
			cfg.DryRun, err = valueAsBool(value)
		case "force":
			cfg.Force, err = valueAsBool(value)
		case "verbose":
			cfg.Verbose, err = valueAsBool(value)
		case "loglevel":
			cfg.LogLevel, err = valueAsString(value)
		default:
			return fmt.Errorf("unknown field %q", key)
		}
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
	}
	return nil
}

var errUnknown = errors.New("unknown field")

// section applies a nested section. A bare boolean toggles the section's
// export flag.
func section(value any, export *bool, set func(key string, v any) error) error {
	switch val := value.(type) {
	case nil:
		return nil
	case bool:
		*export = val
		return nil
	case map[string]any:
		for k, v := range val {
			if err := set(normalizeKey(k), v); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("expected boolean or mapping, got %T", value)
	}
}

// enumStyle accepts false for the default union style.
func enumStyle(v any) (string, error) {
	if b, ok := v.(bool); ok {
		if b {
			return "", fmt.Errorf("expected typescript, javascript or false")
		}
		return "", nil
	}
	return valueAsString(v)
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		return splitAndTrim(val), nil
	case []any:
		items := make([]string, 0, len(val))
		for idx, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			if str != "" {
				items = append(items, str)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n", "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

// SampleYAML is a commented example config documenting available options.
const SampleYAML = `# swagger2ts configuration (YAML or JSON)
# All fields are optional. Environment variables (SWAGGER2TS_*) override
# config values and command-line flags override both.

# Path or URL to the Swagger/OpenAPI document (http/https or local file).
# input: ./openapi.yaml

# Output directory.
# output: ./generated

# HTTP client flavor: fetch, xhr, node, axios, angular, fastify or
# @hey-api/client-<name>.
# client: fetch

# Generate a client class with this name wrapping every service.
# name: ApiClient

# Pass operation parameters as one data object instead of positional
# arguments.
# useOptions: true

# Generate the core runtime (request, OpenAPI config, errors).
# exportCore: true

# services: false disables the services file.
# services:
#   export: true
#   operationId: true
#   response: body   # or "response" to return ApiResult

# types:
#   export: true
#   enums: typescript   # typescript, javascript, or false for unions

# schemas:
#   export: true
#   type: json   # or "form" to strip descriptions

# Only include operations with these tags (comma-separated or list).
# includeTags: [public]

# Exclude operations with these tags (comma-separated or list).
# excludeTags: [internal]

# Only include operations using these HTTP methods.
# methods: [get, post]

# Only include operations whose path matches one of these regular expressions.
# paths: ['^/pets']

# Preview planned outputs without writing files.
# dryRun: false

# Overwrite a non-empty output directory.
# force: false

# Log level: debug, info, warn or error. verbose forces debug.
# logLevel: info
# verbose: false
`
