package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weft-lang/weft/internal/harness"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidationReport is the validate command's payload for one file.
type ValidationReport struct {
	Path     string `json:"path"`
	Scenario string `json:"scenario,omitempty"`
	Program  string `json:"program,omitempty"`
	Valid    bool   `json:"valid"`
	Error    string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario files against the scenario schema and the fixture
catalog. Nothing is executed; the command checks structure only.

Example:
  weft validate testdata/scenarios/*.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	reports := make([]ValidationReport, 0, len(paths))
	failed := 0
	for _, path := range paths {
		report := validateOne(path)
		if !report.Valid {
			failed++
		}
		reports = append(reports, report)
	}

	if opts.Format == "json" {
		if err := formatter.Success(reports); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		for _, r := range reports {
			if r.Valid {
				fmt.Fprintf(w, "ok    %s (%s -> %s)\n", r.Path, r.Scenario, r.Program)
			} else {
				fmt.Fprintf(w, "FAIL  %s: %s\n", r.Path, r.Error)
			}
		}
		fmt.Fprintf(w, "%d valid, %d invalid\n", len(reports)-failed, failed)
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d invalid scenario file(s)", failed))
	}
	return nil
}

func validateOne(path string) ValidationReport {
	report := ValidationReport{Path: path}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Scenario = scenario.Name
	report.Program = scenario.Program

	if _, ok := harness.LookupFixture(scenario.Program); !ok {
		report.Error = fmt.Sprintf("unknown fixture program %q (have: %v)",
			scenario.Program, harness.FixtureNames())
		return report
	}

	report.Valid = true
	return report
}
