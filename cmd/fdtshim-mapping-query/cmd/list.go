package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/fdtshim-mapping/pkg/mapping/mapfile"
)

var (
	outputJSON bool
)

var listCmd = &cobra.Command{
	Use:   "list <mapping.dts>",
	Short: "List the entries and warnings of a mapping",
	Long: `List every selectable dtb of a mapping with its model and compatible list,
followed by the dtbs that were excluded because they share a main compatible.

Examples:
  fdtshim-mapping-query list mapping.dts
  fdtshim-mapping-query list --json mapping.dts`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&outputJSON, "json", false,
		"output as JSON (for programmatic access)")
}

func runList(cmd *cobra.Command, args []string) error {
	logger.Debug("loading mapping", "file", args[0])

	m, err := mapfile.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load mapping: %w", err)
	}

	if outputJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(m)
	}

	outputHuman(cmd.OutOrStdout(), m)
	return nil
}

func outputHuman(w io.Writer, m *mapfile.Mapping) {
	fmt.Fprintf(w, "Schema version: %s\n", m.SchemaVersion)
	fmt.Fprintf(w, "Generator:      %s\n", m.Generator)
	fmt.Fprintf(w, "Entries:        %d\n", len(m.Entries))
	fmt.Fprintln(w)

	for _, e := range m.Entries {
		fmt.Fprintf(w, "%s\n", e.DTB)
		fmt.Fprintf(w, "  Model:      %s\n", e.Model)
		fmt.Fprintf(w, "  Compatible: %s\n", strings.Join(e.Compatibles, ", "))
		if verbose {
			fmt.Fprintf(w, "  Node:       %s\n", e.Node)
		}
	}

	if len(m.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Excluded (shared main compatible): %d\n", len(m.Warnings))
		for _, warning := range m.Warnings {
			fmt.Fprintf(w, "  %s\n", warning.Compatible)
			for _, path := range warning.Paths {
				fmt.Fprintf(w, "    - %s\n", path)
			}
		}
	}
}
