package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/autoshop/internal/dedup"
)

func newCacheCommand(verbose *bool) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the local import history",
	}
	cacheCmd.AddCommand(newCacheListCommand(verbose))
	cacheCmd.AddCommand(newCacheClearCommand(verbose))
	return cacheCmd
}

func newCacheListCommand(verbose *bool) *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the signatures of already imported transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openShop(repoDir, cmd.ErrOrStderr(), *verbose)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.cache.Load(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, sig := range s.cache.Signatures() {
				fmt.Fprintln(out, sig)
			}
			s.log.Debug("listed import history", "signatures", s.cache.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&repoDir, "repo", ".", "shop directory")
	return cmd
}

func newCacheClearCommand(verbose *bool) *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget local import history; the server check still prevents duplicates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openShop(repoDir, cmd.ErrOrStderr(), *verbose)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			// A corrupt value is exactly what clear is for.
			if err := s.cache.Load(ctx); err != nil {
				if !errors.Is(err, dedup.ErrCorrupt) {
					return err
				}
				s.log.Warn("discarding corrupt import history", "err", err)
			}
			n := s.cache.Len()
			s.cache.Reset()
			if err := s.cache.Persist(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d signatures\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&repoDir, "repo", ".", "shop directory")
	return cmd
}
