package cmd

import (
	"github.com/spf13/cobra"
)

var (
	expandFormat        bool
	expandWrite         bool
	expandMaxIterations int
)

var expandCmd = &cobra.Command{
	Use:   "expand [paths...]",
	Short: "Expand template function calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		config.Expand = true
		config.InsertPrefixes = false
		config.Format = expandFormat
		if cmd.Flags().Changed("max-iterations") {
			config.MaxIterations = expandMaxIterations
		}
		return runWithConfig(cmd, config, args, modeFromFlags(expandWrite, false))
	},
}

func init() {
	expandCmd.Flags().BoolVar(&expandFormat, "format", false, "Also format the expanded templates")
	expandCmd.Flags().BoolVarP(&expandWrite, "write", "w", false, "Write results back to the source files")
	expandCmd.Flags().IntVar(&expandMaxIterations, "max-iterations", 64, "Maximum number of expansion passes")
}
