package cli

import (
	"github.com/menulens/backend/internal/app"
	"github.com/spf13/cobra"
)

// NewLoadCommand creates the load command
func NewLoadCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the menu of every location for a day",
		Long: `Fetch meal periods for every configured location, then the items of
every period for the given day, and print the assembled menu.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			day, err := parseDate(date)
			if err != nil {
				return err
			}

			service := app.NewMenuService(cfg)
			service.Load(cmd.Context(), day)

			rows := menuRows(service.Locations(), service.Periods(), service.ItemsFor(day), day)
			if format == "json" {
				return renderJSON(cmd.OutOrStdout(), rows)
			}
			renderMenuTable(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Day to load, yyyy-MM-dd or yyyy/MM/dd (default today)")
	return cmd
}
