package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/autoshop/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "autoshop",
		Short:   "Import shop transactions into the autoshop backend",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand(&verbose))
	rootCmd.AddCommand(newCacheCommand(&verbose))

	return rootCmd
}
