// Package cmd implements the fdtshim-mapping-generator command line.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/fdtshim-mapping/internal/logging"
	"github.com/OpenTraceLab/fdtshim-mapping/pkg/mapping"
)

// Execute runs the generator with the process arguments and exits.
func Execute() {
	os.Exit(Run(filepath.Base(os.Args[0]), os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes the generator and returns the process exit code. The mapping
// document and usage text go to stdout, log lines to stderr.
func Run(program string, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}
	logger := logging.New(stderr, false)
	root := newRootCmd(program, logger)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// cobra-level failure before our handlers ran
		logger.Error(err.Error())
		return ExitUsage
	}
	if exitErr.Err != nil {
		logger.Error(exitErr.Err.Error())
	}
	if exitErr.Code == ExitUsage {
		printUsage(stdout, program)
	}
	return exitErr.Code
}

func newRootCmd(program string, logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   program + " <path to dtbs output>",
		Short: "Generate the fdtshim dtb mapping from a directory of dtb files",
		Long: `Scans a directory tree for *.dtb files, reads the model and compatible
list of each and prints a dts mapping that lets fdtshim pick the dtb matching
a board's compatible string. Dtbs sharing a main compatible are left out and
listed in a warning comment.

Examples:
  fdtshim-mapping-generator out/arch/arm64/boot/dts > mapping.dts`,
		// -h, --help and /? are recognised by hand so the path argument is
		// never mistaken for a flag.
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		Args:               argCount,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, program, logger)
		},
	}
}

func argCount(_ *cobra.Command, args []string) error {
	switch {
	case len(args) < 1:
		return &ExitError{Code: ExitUsage, Err: errors.New("no argument provided")}
	case len(args) > 1:
		return &ExitError{Code: ExitUsage, Err: errors.New("too many arguments provided")}
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string, program string, logger *log.Logger) error {
	arg := args[0]

	if arg == "-h" || arg == "--help" || arg == "/?" {
		printUsage(cmd.OutOrStdout(), program)
		return nil
	}

	info, err := os.Stat(arg)
	if err != nil || !info.IsDir() {
		return &ExitError{Code: ExitNotDir, Err: fmt.Errorf("the given path %q is not valid or not a directory", arg)}
	}

	err = mapping.NewGenerator(logger).Generate(arg, cmd.OutOrStdout())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mapping.ErrTraversal):
		return &ExitError{Code: ExitTraversal, Err: err}
	default:
		return &ExitError{Code: ExitExtraction, Err: err}
	}
}

func printUsage(w io.Writer, program string) {
	fmt.Fprintf(w, "Usage: %s <path to dtbs output>\n", program)
}
