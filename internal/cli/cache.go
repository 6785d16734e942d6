package cli

import (
	"fmt"

	"github.com/menulens/backend/internal/app"
	"github.com/spf13/cobra"
)

// NewCacheCommand creates the cache command group
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}
	cmd.AddCommand(newCacheClearCommand())
	return cmd
}

func newCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [key...]",
		Short: "Remove cached responses",
		Long: `Remove the given cache entries (for example periods/7 or items/7/2/2026-10),
or every cached response when no key is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			store := app.NewCacheStore(cfg.Cache)

			if len(args) == 0 {
				if err := store.Clear(); err != nil {
					return fmt.Errorf("clearing cache: %w", err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
				return nil
			}

			for _, key := range args {
				if err := store.Delete(key); err != nil {
					return fmt.Errorf("deleting %s: %w", key, err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", key)
			}
			return nil
		},
	}
}
