package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cmdtower/pkg/cache"
	"github.com/matzehuels/cmdtower/pkg/config"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached layouts and artifacts",
		Long: `Placements are cached by chain hash and placement box; exports by layout hash
and format. The backend is chosen by [cache] in the config file.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached layout and artifact",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withCache(cmd.Context(), c.clearCache)
			},
		},
		&cobra.Command{
			Use:   "prune",
			Short: "Remove expired entries from the file cache",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withCache(cmd.Context(), pruneCache)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the file cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := c.cacheDir()
				if err != nil {
					return fmt.Errorf("cache dir: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
	)
	return cmd
}

// withCache opens the configured backend, runs fn and closes it. Nothing
// runs when caching is disabled.
func (c *CLI) withCache(ctx context.Context, fn func(context.Context, cache.Cache) error) error {
	if c.Config.Cache.Backend == config.CacheNone {
		printInfo("Caching is disabled")
		return nil
	}
	ch, err := c.newCache(ctx, false)
	if err != nil {
		return err
	}
	defer ch.Close()
	return fn(ctx, ch)
}

func (c *CLI) clearCache(ctx context.Context, ch cache.Cache) error {
	clearer, ok := ch.(cache.Clearer)
	if !ok {
		return fmt.Errorf("%s cache cannot be cleared", c.Config.Cache.Backend)
	}
	if err := clearer.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	printSuccess("Cleared %s cache", c.Config.Cache.Backend)
	if fc, ok := ch.(*cache.FileCache); ok {
		printDetail("Directory: %s", fc.Dir())
	}
	return nil
}

// pruneCache only applies to the file cache; Redis expires keys itself.
func pruneCache(ctx context.Context, ch cache.Cache) error {
	fc, ok := ch.(*cache.FileCache)
	if !ok {
		printInfo("Only the file cache needs pruning")
		return nil
	}
	n, err := fc.Prune(ctx)
	if err != nil {
		return fmt.Errorf("prune cache: %w", err)
	}
	printSuccess("Removed %d expired entries", n)
	return nil
}
