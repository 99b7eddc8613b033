package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for qbc.
// The root command itself converts; check and history are subcommands.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qbc [flags] <input>...",
		Short: "Batch convert Jupyter notebooks and Quarto documents",
		Long: `qbc converts many documents at once between Jupyter notebooks (.ipynb)
and Quarto markdown (.qmd) by running "quarto convert" on each of them
in parallel.

Inputs may be files, directories or glob patterns ("**" is supported).
Outputs are written under --output-path, mirroring the directory layout
below the common root of the inputs (or --input-root).

Configuration is loaded from .qbc/config.yaml if present, then from
QBC_* environment variables and an optional .env file.
CLI flags override both.

Examples:
  # Convert every notebook in a directory tree into ./site
  qbc -r -o site notebooks/

  # Convert Quarto documents back to notebooks
  qbc --qmd-to-ipynb docs/*.qmd

  # Only convert notebooks whose name starts with "lesson", renaming them
  qbc -m '^lesson_(\d+)/chapter-\1' notebooks/

  # Show what would be converted without running quarto
  qbc --dry-run -r notebooks/`,
		Version: Version,
		// Arbitrary inputs next to subcommands; an input named like a
		// subcommand needs a path prefix (./check).
		Args: cobra.ArbitraryArgs,
		// Errors are printed once by main
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runConvert(cmd, args)
		},
	}

	addConvertFlags(cmd)

	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// addConvertFlags registers the conversion flags on the root command.
func addConvertFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.BoolP("qmd-to-ipynb", "q", false, "Convert .qmd files to .ipynb (default is .ipynb to .qmd)")
	flags.StringP("match-replace-pattern", "m", "", "Only convert files whose name matches REGEX; REGEX/REPLACEMENT also renames them")
	flags.StringP("prefix", "p", "", "Prefix added to every output file name")
	flags.BoolP("keep-extension", "k", false, "Keep the source extension in the output name (a.ipynb -> a.ipynb.qmd)")
	flags.StringP("output-path", "o", ".", "Directory outputs are written under")
	flags.BoolP("recursive", "r", false, "Search directory inputs recursively")
	flags.String("input-root", "", "Directory the output layout is relative to (default: common root of inputs)")
	flags.Bool("strict-ext", false, "Ignore explicitly named files without the source extension")
	flags.IntP("max-workers", "j", 0, "Maximum parallel conversions (0 = number of CPUs)")
	flags.Duration("timeout", 0, "Per-file conversion timeout (e.g. 30s, 2m; 0 = none)")
	flags.Bool("dry-run", false, "Print the planned conversions without running the converter")
	flags.String("report", "", "Write a JSON report of the batch to this file")
	flags.Bool("fail-on-empty", false, "Exit with an error when no files match the inputs")
	flags.Bool("verbose", false, "Show every file result")
	flags.String("log-dir", "", "Directory for log files (default: .qbc/logs)")
	flags.String("config", "", "Path to config file (default: .qbc/config.yaml)")
	flags.Bool("no-history", false, "Do not record this batch in the run history")
}
