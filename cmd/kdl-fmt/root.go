package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dj95/kdl-fmt/internal/cli"
	"github.com/dj95/kdl-fmt/internal/cli/config"
	"github.com/dj95/kdl-fmt/internal/cli/ui"
	"github.com/dj95/kdl-fmt/internal/ctxlog"
	"github.com/dj95/kdl-fmt/pkg/formatter"
)

var (
	// These are set during build time using -ldflags
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errReported marks a failure whose diagnostic was already printed.
var errReported = errors.New("error already reported")

// newRootCmd builds the kdl-fmt command. Each call returns an independent
// command with its own flag set.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kdl-fmt [INPUT]",
		Short: "Formats KDL documents and converts them between KDL v1 and v2.",
		Long: `kdl-fmt reformats a KDL document with consistent indentation and
spacing, and optionally converts it between the KDL v1 and v2 grammars.

INPUT is a file path; omit it or pass "-" to read standard input. The result
is printed to standard output unless --in-place is given.

Defaults can be set per project in a .kdl-fmt.kdl file in the working
directory. Command line flags take precedence over it.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          cobra.RangeArgs(0, 1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runRoot,
	}
	cmd.SetVersionTemplate(`{{.Name}} version {{.Version}}` + "\n")
	config.DefineFlags(cmd.Flags())
	return cmd
}

// runRoot loads the configuration and formats one document. Failures are
// rendered here, where the color setting is known.
func runRoot(cmd *cobra.Command, args []string) error {
	stderr := cmd.ErrOrStderr()

	workDir, err := os.Getwd()
	if err != nil {
		ui.NewDiagnostics(stderr, "auto").Print(fmt.Errorf("%w: determining working directory: %w", formatter.ErrIO, err), "")
		return errReported
	}

	loaded, err := config.LoadAndValidate(workDir, args, cmd.Flags(), stderr)
	if err == nil {
		ctx := ctxlog.WithLogger(cmd.Context(), loaded.Logger)
		err = cli.Run(ctx, loaded, cli.Streams{
			In:  cmd.InOrStdin(),
			Out: cmd.OutOrStdout(),
		})
	}
	if err == nil {
		return nil
	}

	source := loaded.Config.Filename
	if errors.Is(err, formatter.ErrConfigDocumentInvalid) {
		source = filepath.Join(workDir, formatter.ProjectConfigFileName)
	}
	ui.NewDiagnostics(stderr, loaded.Settings.Color).Print(err, source)
	return errReported
}

// execute runs cmd and maps its outcome to a process exit code.
func execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if !errors.Is(err, errReported) {
		// Argument and flag errors from cobra.
		ui.NewDiagnostics(cmd.ErrOrStderr(), "auto").Print(err, "")
	}
	return 1
}

// Execute runs the root command until it finishes or the process is
// interrupted, and returns the exit code.
func Execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return execute(ctx, newRootCmd())
}
