package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/rstfmt/rstfmt/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the fingerprint cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheStatsCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop all recorded fingerprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cachePath()
			if err != nil {
				return fmt.Errorf("get cache path: %w", err)
			}
			ok, err := afero.Exists(c.Fs, path)
			if err != nil {
				return err
			}
			if !ok {
				printInfo(c.Stdout, "Cache is empty")
				return nil
			}

			store, err := cache.NewFileStore(c.Fs, path)
			if err != nil {
				return err
			}
			n := store.Len()
			store.Clear()
			if err := store.Flush(cmd.Context()); err != nil {
				return err
			}
			printSuccess(c.Stdout, "Cleared %d cached fingerprints", n)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache manifest path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cachePath()
			if err != nil {
				return fmt.Errorf("get cache path: %w", err)
			}
			fmt.Fprintln(c.Stdout, path)
			return nil
		},
	}
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print cache entry count",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cachePath()
			if err != nil {
				return fmt.Errorf("get cache path: %w", err)
			}
			store, err := cache.NewFileStore(c.Fs, path)
			if err != nil {
				return err
			}
			printInfo(c.Stdout, "%d fingerprints recorded", store.Len())
			return nil
		},
	}
}
