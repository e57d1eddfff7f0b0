package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gnolang/spfmt/pipeline"
)

var (
	fmtWrite bool
	fmtDiff  bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [paths...]",
	Short: "Expand, complete and format templates",
	Long: `Expands template function calls, declares missing prefixes known from the
prefix files and prints the templates in canonical form. Standard input is
read when no path is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFmt(cmd, args)
	},
}

func init() {
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write results back to the source files")
	fmtCmd.Flags().BoolVarP(&fmtDiff, "diff", "d", false, "Print unified diffs instead of the results")
}

func runFmt(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	config.Format = true
	return runWithConfig(cmd, config, args, modeFromFlags(fmtWrite, fmtDiff))
}

// runWithConfig builds an engine for config and runs it over args.
func runWithConfig(cmd *cobra.Command, config pipeline.Config, args []string, mode outputMode) error {
	// timeout is a global variable declared in root.go
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	engine, err := pipeline.New(config, logger)
	if err != nil {
		return err
	}

	s := streams{in: cmd.InOrStdin(), out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()}
	return runTemplates(ctx, logger, engine, config, args, s, mode)
}
