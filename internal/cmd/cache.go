package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tweetkit/tw/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached lookups",
		Long:  "Lookups such as an owner's lists for --match are cached for a few minutes. Set TW_NO_CACHE=1 to disable caching.",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached lookups",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir, err := cache.DefaultDir()
			if err != nil {
				return err
			}
			cache.ClearAll(dir)
			newFormatter(cmd).Message("Cache cleared.")
			return nil
		}),
	})
	return cmd
}
