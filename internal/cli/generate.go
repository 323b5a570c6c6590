package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mark3labs/swagger2ts/internal/config"
	"github.com/mark3labs/swagger2ts/internal/emit"
	"github.com/mark3labs/swagger2ts/internal/output"
	"github.com/mark3labs/swagger2ts/internal/render"
	"github.com/mark3labs/swagger2ts/internal/resolve"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

// configEnv names the config file when --config is not given.
const configEnv = config.EnvPrefix + "_CONFIG"

// Streams are where a command writes its results and its logs.
type Streams struct {
	Out io.Writer
	Err io.Writer
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a TypeScript client from an OpenAPI/Swagger document",
		Long: "Generate TypeScript types, services, schemas and the request runtime from an " +
			"OpenAPI 2.x or 3.x document. Options can be provided via flags, environment " +
			"variables (" + config.EnvPrefix + "_*), config files, or defaults.",
		Example: strings.TrimSpace(`  swagger2ts generate --input spec.yaml --output ./src/client
  swagger2ts generate -i https://example.com/openapi.json --client axios --name ApiClient
  swagger2ts --config swagger2ts.yaml generate --force --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg, Streams{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()})
		},
	}

	flags := cmd.Flags()
	flags.StringP("input", "i", "", "Path or URL to the Swagger/OpenAPI document")
	flags.StringP("output", "o", "", "Output directory (default \"generated\")")
	flags.String("client", "", "HTTP client flavor: "+strings.Join(config.Clients, ", ")+" or @hey-api/client-*")
	flags.String("name", "", "Generate a client class with this name")
	flags.Bool("use-options", true, "Pass operation parameters as one data object")
	flags.Bool("export-core", true, "Generate the core request runtime")
	flags.Bool("services", true, "Generate the services file")
	flags.Bool("operation-id", true, "Name service methods after operationId")
	flags.String("service-response", "", "Service return style: body or response")
	flags.Bool("types", true, "Generate the types file")
	flags.String("enums", "", "Enum style: typescript, javascript, or empty for unions")
	flags.Bool("schemas", true, "Generate the schemas file")
	flags.String("schema-type", "", "Schemas style: json or form")
	flags.StringSlice("include-tags", nil, "Only include operations with these tags")
	flags.StringSlice("exclude-tags", nil, "Exclude operations with these tags")
	flags.StringSlice("methods", nil, "Only include operations using these HTTP methods")
	flags.StringSlice("paths", nil, "Only include operations whose path matches one of these regular expressions")
	flags.Bool("dry-run", false, "Preview planned outputs without writing files")
	flags.Bool("force", false, "Write into a non-empty output directory")

	return cmd
}

// resolveGenerateConfig merges defaults, the config file, the environment
// and changed flags, in that order.
func resolveGenerateConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath == "" {
		configPath = strings.TrimSpace(os.Getenv(configEnv))
	}
	if configPath != "" {
		if err := config.LoadFile(&cfg, configPath); err != nil {
			return nil, newUsageError(err.Error())
		}
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return nil, newUsageError(err.Error())
	}
	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, newUsageError("generate: " + err.Error())
	}
	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *config.Config) error {
	strs := map[string]*string{
		"input":            &cfg.Input,
		"output":           &cfg.Output,
		"client":           &cfg.Client,
		"name":             &cfg.Name,
		"service-response": &cfg.Services.Response,
		"enums":            &cfg.Types.Enums,
		"schema-type":      &cfg.Schemas.Type,
		"log-level":        &cfg.LogLevel,
	}
	for name, dst := range strs {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = strings.TrimSpace(value)
	}

	bools := map[string]*bool{
		"use-options":  &cfg.UseOptions,
		"export-core":  &cfg.ExportCore,
		"services":     &cfg.Services.Export,
		"operation-id": &cfg.Services.OperationID,
		"types":        &cfg.Types.Export,
		"schemas":      &cfg.Schemas.Export,
		"dry-run":      &cfg.DryRun,
		"force":        &cfg.Force,
		"verbose":      &cfg.Verbose,
	}
	for name, dst := range bools {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = value
	}

	if flags.Changed("include-tags") {
		value, err := flags.GetStringSlice("include-tags")
		if err != nil {
			return err
		}
		cfg.IncludeTags = config.SanitizeTags(value)
	}
	if flags.Changed("exclude-tags") {
		value, err := flags.GetStringSlice("exclude-tags")
		if err != nil {
			return err
		}
		cfg.ExcludeTags = config.SanitizeTags(value)
	}
	if flags.Changed("methods") {
		value, err := flags.GetStringSlice("methods")
		if err != nil {
			return err
		}
		cfg.Methods = value
	}
	if flags.Changed("paths") {
		value, err := flags.GetStringSlice("paths")
		if err != nil {
			return err
		}
		cfg.Paths = value
	}
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// runGenerate loads, resolves, compiles and renders everything before the
// first file is written, so a failing run leaves the output untouched.
func runGenerate(ctx context.Context, cfg *config.Config, streams Streams) error {
	logger := newLogger(streams.Err, cfg.Level())

	// 1) Load the document (file or http/https URL) with validation
	doc, err := spec.Load(ctx, cfg.Input, spec.WithLogger(logger))
	if err != nil {
		// Map structured spec errors into friendly messages
		var se *spec.SpecError
		if errors.As(err, &se) {
			msg := se.Message
			if !strings.HasPrefix(msg, "spec:") {
				msg = "spec: " + msg
			}
			if se.Location != "" {
				msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
			}
			if se.JSONPointer != "" {
				msg = fmt.Sprintf("%s\nPointer: %s", msg, se.JSONPointer)
			}
			return newUsageError(msg)
		}
		return err
	}

	// 2) Apply tag, method and path filters
	doc = spec.Filter(doc,
		spec.WithIncludeTags(cfg.IncludeTags),
		spec.WithExcludeTags(cfg.ExcludeTags),
		spec.WithMethods(cfg.Methods),
		spec.WithPathPatterns(cfg.Paths),
	)

	// 3) Resolve the document into a client
	client, err := resolve.NewAssembler(
		resolve.WithOperationID(cfg.Services.OperationID),
		resolve.WithLogger(logger),
	).Assemble(doc)
	if err != nil {
		if errors.Is(err, resolve.ErrUnsupportedRef) {
			return newUsageError(fmt.Sprintf("resolve: %v", err))
		}
		return fmt.Errorf("resolve: %w", err)
	}

	// 4) Compile and render every file
	opts := cfg.EmitOptions()
	compiled, err := emit.NewCompiler(opts, logger).Compile(client, doc.Definitions)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	files, err := render.Render(compiled, client, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	// 5) Write, or print the plan
	res, err := output.Write(ctx, files, output.Options{
		OutDir: cfg.Output,
		Force:  cfg.Force,
		DryRun: cfg.DryRun,
	})
	if err != nil {
		return wrapOutputError(err, cfg.Output)
	}
	if cfg.DryRun {
		output.PrintPlan(streams.Out, res)
		return nil
	}
	logger.Info("generated client",
		"dir", res.OutDir,
		"files", len(res.Planned),
		"services", len(client.Services),
		"models", len(client.Models))
	return nil
}

func wrapOutputError(err error, outDir string) error {
	// Provide clearer guidance for common FS failures.
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "permission") || strings.Contains(lower, "read-only") || strings.Contains(lower, "mkdir") || strings.Contains(lower, "rename") || strings.Contains(lower, "not empty") {
		return newUsageError(fmt.Sprintf("output error for %s: %s\nHint: choose a different --output or use --force when appropriate.", outDir, msg))
	}
	return err
}
