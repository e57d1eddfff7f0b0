package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/spfmt/pipeline"
)

const defaultTimeout = 5 * time.Minute

// ErrIssuesFound is returned when at least one template has issues. The
// issues themselves have already been printed.
var ErrIssuesFound = errors.New("issues found")

var (
	cfgFile     string
	timeout     time.Duration
	indent      int
	prefixFiles []string
	verbose     bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "spfmt [paths...]",
	Short:         "spfmt - expand and format SPARQL templates",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// no subcommand
		if len(args) == 0 {
			return cmd.Help()
		}
		// spfmt [path1 path2 ...] behaves like the fmt subcommand
		return runFmt(cmd, args)
	},
}

func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file (default "+pipeline.DefaultConfigFile+" if present)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Timeout for processing paths")
	rootCmd.PersistentFlags().IntVar(&indent, "indent", 2, "Indentation width of nested blocks")
	rootCmd.PersistentFlags().StringSliceVar(&prefixFiles, "prefix-file", nil, "File of PREFIX declarations used to complete templates (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(prefixCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadConfig reads the configuration file and applies the persistent flags
// given on the command line.
func loadConfig(cmd *cobra.Command) (pipeline.Config, error) {
	config := pipeline.DefaultConfig()

	path := cfgFile
	if path == "" {
		if _, err := os.Stat(pipeline.DefaultConfigFile); err == nil {
			path = pipeline.DefaultConfigFile
		}
	}
	if path != "" {
		var err error
		if config, err = pipeline.LoadConfig(path); err != nil {
			return config, err
		}
		logger.Debug("loaded configuration", zap.String("path", path))
	}

	if cmd.Flags().Changed("indent") {
		config.Indent = indent
	}
	config.PrefixFiles = append(config.PrefixFiles, prefixFiles...)
	return config, nil
}
