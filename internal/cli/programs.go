package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weft-lang/weft/internal/harness"
)

// ProgramInfo describes one fixture program for listing.
type ProgramInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewProgramsCommand creates the programs command.
func NewProgramsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "programs",
		Short: "List the fixture programs scenarios can run against",
		Long: `List the fixture catalog. Scenario files reference these programs by
name in their program field.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrograms(rootOpts, cmd)
		},
	}

	return cmd
}

func runPrograms(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var infos []ProgramInfo
	for _, name := range harness.FixtureNames() {
		f, _ := harness.LookupFixture(name)
		infos = append(infos, ProgramInfo{Name: f.Name, Description: f.Description})
	}

	if opts.Format == "json" {
		return formatter.Success(infos)
	}

	for _, info := range infos {
		fmt.Fprintf(formatter.Writer, "%-16s %s\n", info.Name, info.Description)
	}
	return nil
}
