package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/weft-lang/weft/internal/engine"
	"github.com/weft-lang/weft/internal/harness"
	"github.com/weft-lang/weft/internal/journal"
	"github.com/weft-lang/weft/internal/value"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Journal string
}

// RunReport is the run command's success payload.
type RunReport struct {
	Scenario string `json:"scenario"`
	Program  string `json:"program"`
	Steps    int64  `json:"steps"`

	// Error is the engine error code an expect_error scenario produced.
	Error string `json:"error,omitempty"`

	// FinalView is the canonical view after the last applied event.
	FinalView json.RawMessage `json:"final_view,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario against its fixture program",
		Long: `Run a scripted scenario: build the named fixture program, normalize,
apply every event in order, and check the scenario's assertions.

The run uses deterministic leaf-name and cell-ID generators, so repeated
runs of the same scenario produce identical views.

Example:
  weft run testdata/scenarios/shared_cell.yaml
  weft run testdata/scenarios/shared_cell.yaml --journal ./steps.db --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite step journal (optional)")

	return cmd
}

func runScenario(opts *RunOptions, path string, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	runOpts := []harness.Option{harness.WithLogger(logger)}

	if opts.Journal != "" {
		j, err := journal.Open(opts.Journal)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := j.Close(); closeErr != nil {
				logger.Error("error closing journal", "error", closeErr)
			}
		}()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		runOpts = append(runOpts, harness.WithRecorder(
			func(seq int64, ev engine.Event, view *engine.View) error {
				eventJSON, err := engine.MarshalEvent(ev)
				if err != nil {
					return err
				}
				viewJSON, err := view.MarshalJSON()
				if err != nil {
					return err
				}
				return j.Append(ctx, seq, eventJSON, viewJSON)
			}))
	}

	result, err := harness.Run(scenario, runOpts...)
	if err != nil {
		_ = formatter.Error("SCENARIO_FAILED", err.Error(), nil)
		return NewExitError(ExitFailure, "scenario failed")
	}

	report := RunReport{
		Scenario: scenario.Name,
		Program:  scenario.Program,
		Steps:    result.Session.Steps(),
	}
	if result.Err != nil {
		report.Error = string(engine.CodeOf(result.Err))
	}
	if n := len(result.Snapshots); n > 0 {
		report.FinalView = json.RawMessage(result.Snapshots[n-1])
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}
	return outputRunText(formatter, scenario, result, report)
}

func outputRunText(f *OutputFormatter, scenario *harness.Scenario, result *harness.Result, report RunReport) error {
	w := f.Writer

	fmt.Fprintf(w, "Scenario: %s\n", scenario.Name)
	fmt.Fprintf(w, "Program:  %s\n", scenario.Program)

	if report.Error != "" {
		fmt.Fprintf(w, "Outcome:  failed as expected with %s\n", report.Error)
		return nil
	}

	fmt.Fprintf(w, "Steps:    %d\n", report.Steps)
	if f.Verbose {
		for i, snap := range result.Snapshots {
			fmt.Fprintf(w, "  view[%d]: %s\n", i, snap)
		}
	} else if report.FinalView != nil {
		fmt.Fprintf(w, "View:     %s\n", report.FinalView)
	}
	if res, ok := result.Session.Result(); ok {
		fmt.Fprintf(w, "Result:   %s\n", value.String(res))
	}
	fmt.Fprintln(w, "Outcome:  ok")
	return nil
}
