package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codescape/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the symbol cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [folder]",
		Short: "Remove all cached symbols and references",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			cfg, err := c.loadConfig(dir)
			if err != nil {
				return err
			}
			store := c.newCache(cmd.Context(), cfg, false)
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if _, null := store.(*cache.NullCache); null || !ok {
				printInfo(c.Out, "Cache is disabled")
				return nil
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess(c.Out, "Cache cleared")
			switch s := store.(type) {
			case *cache.FileCache:
				printDetail(c.Out, "Directory: %s", s.Dir())
			case *cache.RedisCache:
				printDetail(c.Out, "Redis: %s", cfg.Cache.Redis)
			}
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path [folder]",
		Short: "Print the cache directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			cfg, err := c.loadConfig(dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, cfg.Cache.Dir)
			return nil
		},
	}
}
