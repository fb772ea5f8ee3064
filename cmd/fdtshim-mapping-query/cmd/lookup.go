package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/fdtshim-mapping/pkg/mapping/mapfile"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <mapping.dts> <compatible>...",
	Short: "Print the dtb the shim would pick for a board",
	Long: `Given a board's compatible strings in priority order, print the path of the
dtb whose main compatible matches first. Exits with status 1 when nothing
matches; a note is logged when the compatible was excluded as a duplicate.

Examples:
  fdtshim-mapping-query lookup mapping.dts pine64,pinephone-1.2 pine64,pinephone`,
	Args: cobra.MinimumNArgs(2),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	m, err := mapfile.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load mapping: %w", err)
	}

	board := args[1:]
	if entry, ok := m.Lookup(board...); ok {
		logger.Debug("matched", "node", entry.Node, "model", entry.Model)
		fmt.Fprintln(cmd.OutOrStdout(), entry.DTB)
		return nil
	}

	for _, compatible := range board {
		if w, ok := m.Excluded(compatible); ok {
			logger.Warn("compatible was excluded as a duplicate", "compatible", compatible, "dtbs", len(w.Paths))
		}
	}
	return errNoMatch
}
