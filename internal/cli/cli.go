package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vk/gridflow/internal/app"
	"github.com/vk/gridflow/internal/registry"
)

// IO groups the streams of one invocation.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Execute runs the command line. Every non-nil error it returns is an
// *ExitError.
func Execute(ctx context.Context, args []string, streams IO, modules ...registry.Module) error {
	root := NewRootCommand(streams, modules...)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return usageError(err)
}

// NewRootCommand builds the gridflow command tree. Modules replace the
// built-in task modules when given.
func NewRootCommand(streams IO, modules ...registry.Module) *cobra.Command {
	root := &cobra.Command{
		Use:   "gridflow",
		Short: "Run a workflow of tasks against many argument sets in parallel.",
		Long: `gridflow - a declarative workflow runner.

A workflow is a graph of steps declared in .hcl files. Every execution block
(or entry of an --args file) is one argument set; gridflow runs the workflow
once per argument set, in parallel, and reports the outcome of each run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.AddCommand(
		runCmd(modules),
		validateCmd(modules),
		workerCmd(modules),
	)
	return root
}

func runCmd(modules []registry.Module) *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "run [GRID_PATH...]",
		Short: "Run every execution of a workflow.",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd, v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromViper(v, args)
			if err != nil {
				return usageError(err)
			}

			a := app.NewApp(cmd.OutOrStdout(), cfg, modules...)
			report, err := a.Run(cmd.Context())
			if err != nil {
				return failure(err)
			}
			if bad := report.Failed + report.Cancelled; bad > 0 {
				return &ExitError{
					Code:    ExitFailure,
					Message: fmt.Sprintf("%d of %d runs did not succeed", bad, report.Total),
				}
			}
			return nil
		},
	}
	addRunFlags(cmd)
	return cmd
}

func validateCmd(modules []registry.Module) *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "validate [GRID_PATH...]",
		Short: "Check a workflow and print its execution order.",
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindFlags(cmd, v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.NewConfig(app.Config{
				Paths:     append(v.GetStringSlice(flagGrid), args...),
				Workers:   1,
				LogFormat: v.GetString(flagLogFormat),
				LogLevel:  v.GetString(flagLogLevel),
			})
			if err != nil {
				return usageError(err)
			}
			if err := app.NewApp(cmd.OutOrStdout(), cfg, modules...).Validate(cmd.Context()); err != nil {
				return failure(err)
			}
			return nil
		},
	}
	addGridFlag(cmd)
	addLogFlags(cmd)
	return cmd
}

// workerCmd serves one run for a parent using process isolation. Its stdout
// carries the response, so everything else goes to stderr.
func workerCmd(modules []registry.Module) *cobra.Command {
	return &cobra.Command{
		Use:    "worker",
		Short:  "Execute a single run requested on stdin.",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := &app.Config{Workers: 1, LogFormat: "json", LogLevel: "warn"}
			a := app.NewApp(cmd.ErrOrStderr(), cfg, modules...)
			if err := a.Worker(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
				return failure(err)
			}
			return nil
		},
	}
}
