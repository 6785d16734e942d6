// Package cli provides the menuctl command-line interface.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/menulens/backend/config"
	"github.com/menulens/backend/internal/domain"
	"github.com/spf13/cobra"
)

// Version is set at build time
var Version = "1.0.0"

// configKey is used to store config in context
type configKey struct{}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "menuctl",
		Short: "MenuLens - campus dining menu ingestion",
		Long: `menuctl fetches campus dining menus from the meal-planning API
using the same cache, token handling and aggregation as the MenuLens server.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}

			cfg, err := config.LoadFile(cfgFile)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json)")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewLoadCommand())
	rootCmd.AddCommand(NewPeriodsCommand())
	rootCmd.AddCommand(NewCacheCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

func configFrom(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(configKey{}).(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "table", "json":
		return format, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table or json)", format)
}

// parseDate accepts yyyy-MM-dd or yyyy/MM/dd; empty means today
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	return domain.ParseDay(raw, time.Local)
}
