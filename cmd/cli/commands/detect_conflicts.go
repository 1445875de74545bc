package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calvertross/rosterd/pkg/core/services"
)

// DetectConflictsCmd creates the detectConflicts command
func DetectConflictsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "detectConflicts <schedule_id>",
		Short: "Audit a schedule's assignments for rule violations",
		Long:  "Report double-bookings, over-capacity slots, and assignments that conflict with availability or approved time off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conflicts, err := services.DetectConflicts(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			if len(conflicts) == 0 {
				fmt.Printf("\nNo conflicts found.\n\n")
				return nil
			}

			fmt.Printf("\nConflicts (%d):\n\n", len(conflicts))
			for _, c := range conflicts {
				who := c.ProfileID
				if who == "" {
					who = "-"
				}
				fmt.Printf("  [%s] %-26s %s %s: %s\n", c.Severity, c.Type, who, c.Date, c.Detail)
			}
			fmt.Println()

			return nil
		},
	}
}
