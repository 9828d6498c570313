package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fractaldraw/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
		Long: `Rendered artifacts and grammar graphs are cached by curve, level and render
options. Expanded symbol strings are never cached.`,
	}

	var redisAddr string
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.clearCache(cmd.Context(), redisAddr)
		},
	}
	clearCmd.Flags().StringVar(&redisAddr, "redis", "", "clear a Redis cache at this address instead of the local one")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}

	cmd.AddCommand(clearCmd, pathCmd)
	return cmd
}

// clearCache empties the Redis cache at redisAddr, or the local file cache
// when redisAddr is empty.
func (c *CLI) clearCache(ctx context.Context, redisAddr string) error {
	var (
		target interface {
			cache.Cache
			cache.Clearer
		}
		where string
	)

	if redisAddr != "" {
		rc, err := c.redisCache(ctx, redisAddr)
		if err != nil {
			return err
		}
		target, where = rc, "Redis: "+redisAddr
	} else {
		dir, err := cacheDir()
		if err != nil {
			return fmt.Errorf("get cache dir: %w", err)
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			printInfo("Cache is empty")
			return nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return err
		}
		target, where = fc, "Directory: "+dir
	}
	defer target.Close()

	n, err := target.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	printSuccess("Cleared %d cached entries", n)
	printDetail("%s", where)
	return nil
}
