package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/samplesize/pkg/cache"
	"github.com/matzehuels/samplesize/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			store, err := c.newCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				printInfo(w, "Cache is disabled")
				return nil
			}
			if err := clearer.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess(w, "Cleared cached results")
			switch s := store.(type) {
			case *cache.FileCache:
				printDetail(w, "Directory: %s", s.Dir())
			case *cache.RedisCache:
				printDetail(w, "Redis: %s (prefix %q)", c.Config.Cache.Redis.Addr, c.Config.Cache.Redis.Prefix)
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch c.Config.Cache.Backend {
			case config.BackendRedis:
				fmt.Fprintf(w, "redis://%s/%d %s\n", c.Config.Cache.Redis.Addr, c.Config.Cache.Redis.DB, c.Config.Cache.Redis.Prefix)
				return nil
			case config.BackendNone:
				printInfo(w, "Cache is disabled")
				return nil
			}
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(w, dir)
			return nil
		},
	}
}
