package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topodraw/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}

	cmd.PersistentFlags().String("cache", "file", "cache backend: file, none or a redis:// URL")

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}

			switch cfg.Cache {
			case "", "file":
			case "none", "off":
				printInfo("Caching is disabled")
				return nil
			default:
				printWarning("Only the file cache can be cleared; redis entries expire after %s", cfg.CacheTTL)
				return nil
			}
			if cfg.CacheDir == "" {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(cfg.CacheDir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer fc.Close()

			count, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			c.Logger.Debug("cleared cache", "dir", fc.Dir(), "entries", count)

			printSuccess("Cleared %d cached artifacts", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.CacheDir)
			return nil
		},
	}
}
