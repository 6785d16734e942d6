package cli

import (
	"fmt"

	"github.com/menulens/backend/internal/app"
	"github.com/spf13/cobra"
)

// NewPeriodsCommand creates the periods command
func NewPeriodsCommand() *cobra.Command {
	var locationID int

	cmd := &cobra.Command{
		Use:   "periods",
		Short: "List the active meal periods of a location",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			periods, err := app.NewClient(cfg).GetMealPeriods(cmd.Context(), locationID)
			if err != nil {
				return fmt.Errorf("fetching periods for location %d: %w", locationID, err)
			}

			if format == "json" {
				return renderJSON(cmd.OutOrStdout(), periods)
			}
			renderPeriodsTable(cmd.OutOrStdout(), periods)
			return nil
		},
	}

	cmd.Flags().IntVarP(&locationID, "location", "l", 0, "Location id")
	_ = cmd.MarkFlagRequired("location")
	return cmd
}
