package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weft-lang/weft/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Journal string
}

// TraceStep is one journal row in the trace output.
type TraceStep struct {
	Seq   int64           `json:"seq"`
	Event json.RawMessage `json:"event"`
	View  json.RawMessage `json:"view"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Journal string      `json:"journal"`
	Steps   []TraceStep `json:"steps"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Read back a recorded step journal",
		Long: `Read the step journal a previous run recorded: each applied input event
and the view the tree exposed afterwards, in application order.

Examples:
  weft trace --journal ./steps.db
  weft trace --journal ./steps.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite step journal (required)")
	_ = cmd.MarkFlagRequired("journal")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	j, err := journal.Open(opts.Journal)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	steps, err := j.Steps(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	result := TraceResult{Journal: opts.Journal}
	for _, s := range steps {
		result.Steps = append(result.Steps, TraceStep{
			Seq:   s.Seq,
			Event: json.RawMessage(s.Event),
			View:  json.RawMessage(s.View),
		})
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if len(result.Steps) == 0 {
		fmt.Fprintf(w, "No steps recorded in %s\n", opts.Journal)
		return nil
	}
	for _, s := range result.Steps {
		fmt.Fprintf(w, "[%d] %s\n", s.Seq, s.Event)
		if opts.Verbose {
			fmt.Fprintf(w, "     view: %s\n", s.View)
		}
	}
	fmt.Fprintf(w, "%d step(s)\n", len(result.Steps))
	return nil
}
