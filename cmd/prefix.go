package cmd

import (
	"github.com/spf13/cobra"
)

var (
	prefixFormat bool
	prefixWrite  bool
)

var prefixCmd = &cobra.Command{
	Use:   "prefix [paths...]",
	Short: "Declare prefixes that templates use without declaring",
	Long: `Adds a PREFIX declaration for every prefixed name a template uses but does
not declare, taking the namespace from the files given with --prefix-file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		config.Expand = false
		config.InsertPrefixes = true
		config.Format = prefixFormat
		return runWithConfig(cmd, config, args, modeFromFlags(prefixWrite, false))
	},
}

func init() {
	prefixCmd.Flags().BoolVar(&prefixFormat, "format", false, "Also format the completed templates")
	prefixCmd.Flags().BoolVarP(&prefixWrite, "write", "w", false, "Write results back to the source files")
}
