package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnolang/spfmt/pipeline"
)

// initCmd: spfmt init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := initConfigurationFile(cfgFile)
		if err != nil {
			return fmt.Errorf("error initializing config file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created/updated: %s\n", path)
		return nil
	},
}

func initConfigurationFile(configurationPath string) (string, error) {
	if configurationPath == "" {
		configurationPath = pipeline.DefaultConfigFile
	}
	return configurationPath, pipeline.WriteConfig(configurationPath, pipeline.DefaultConfig())
}
