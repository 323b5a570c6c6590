package cli

import (
    "errors"
    "io"
    "strings"
    "testing"
)

func TestUnknownFlag_ShowsHelpAndUsageError(t *testing.T) {
    t.Parallel()
    for _, args := range [][]string{
        {"generate", "--unknown-flag"},
        {"init", "--lang", "go"},
        {"--nope"},
    } {
        args := args
        t.Run(strings.Join(args, " "), func(t *testing.T) {
            t.Parallel()
            root := NewRootCmd()
            root.SetOut(io.Discard)
            root.SetErr(io.Discard)
            root.SetArgs(args)

            err := root.Execute()
            if err == nil {
                t.Fatalf("expected error for unknown flag")
            }
            if _, ok := err.(usageError); !ok {
                t.Fatalf("expected usage error, got %T: %v", err, err)
            }
            if !strings.Contains(err.Error(), "unknown flag") || !strings.Contains(err.Error(), "Usage:") {
                t.Fatalf("unexpected error text: %v", err)
            }
            if ExitCode(err) != 2 {
                t.Fatalf("expected exit code 2, got %d", ExitCode(err))
            }
        })
    }
}

func TestExitCode(t *testing.T) {
    t.Parallel()
    if got := ExitCode(nil); got != 0 {
        t.Fatalf("nil: want 0 got %d", got)
    }
    if got := ExitCode(errors.New("boom")); got != 1 {
        t.Fatalf("plain error: want 1 got %d", got)
    }
}
