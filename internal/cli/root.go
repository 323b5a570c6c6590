package cli

import (
    "context"
    "fmt"

    "github.com/spf13/cobra"
)

// Execute runs the swagger2ts CLI. Canceling ctx stops a running generate
// before its next file write.
func Execute(ctx context.Context) error {
    return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
    cmd := &cobra.Command{
        Use:           "swagger2ts",
        Short:         "Generate TypeScript clients from Swagger/OpenAPI specs",
        Long:          "swagger2ts compiles Swagger 2.0 and OpenAPI 3.x documents into TypeScript types, services, schemas and a request runtime.",
        SilenceErrors: true,
        SilenceUsage:  true,
        RunE: func(cmd *cobra.Command, args []string) error {
            return cmd.Help()
        },
    }

    cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML or JSON); defaults to $"+configEnv)
    cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging output")
    cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

    withUsageErrors(cmd)
    cmd.AddCommand(
        withUsageErrors(newGenerateCmd()),
        withUsageErrors(newInitCmd()),
    )
    return cmd
}

// withUsageErrors converts Cobra flag errors (like unknown flags) into
// usage errors that also show the command's help text.
func withUsageErrors(cmd *cobra.Command) *cobra.Command {
    cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
        return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
    })
    return cmd
}
