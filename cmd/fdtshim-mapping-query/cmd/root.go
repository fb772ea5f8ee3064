package cmd

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/fdtshim-mapping/internal/logging"
)

var (
	// Global flags
	verbose bool

	logger *log.Logger
)

// errNoMatch makes lookup exit non-zero without printing an error line.
var errNoMatch = errors.New("no matching dtb")

var rootCmd = &cobra.Command{
	Use:   "fdtshim-mapping-query",
	Short: "Inspect fdtshim mapping documents",
	Long: `Reads a mapping document written by fdtshim-mapping-generator and answers
the questions the boot shim would: which dtbs are selectable, which were left
out, and which dtb a board with a given compatible list gets.

Examples:
  fdtshim-mapping-query list mapping.dts                   # Show entries and warnings
  fdtshim-mapping-query list --json mapping.dts            # Same, as JSON
  fdtshim-mapping-query lookup mapping.dts pine64,pinephone-1.2 pine64,pinephone`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(cmd.ErrOrStderr(), verbose)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNoMatch) {
			logging.New(os.Stderr, false).Error(err.Error())
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
