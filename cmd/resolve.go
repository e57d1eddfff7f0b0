package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnolang/spfmt/internal/prefix"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <alias...>",
	Short: "Print the URL an alias or prefixed name refers to",
	Long: `Resolves references such as github:user/repo/file@version,
version@github:user/repo/file or prefix:name to the URLs they denote.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		resolver := prefix.NewResolver()
		if err := resolver.LoadFiles(config.PrefixFiles); err != nil {
			return err
		}
		return resolveAliases(cmd.OutOrStdout(), resolver, args)
	},
}

func resolveAliases(w io.Writer, resolver *prefix.Resolver, aliases []string) error {
	for _, alias := range aliases {
		url, err := resolver.ExpandAlias(alias)
		if err != nil {
			return fmt.Errorf("cannot resolve %s: %w", alias, err)
		}
		fmt.Fprintln(w, url)
	}
	return nil
}
