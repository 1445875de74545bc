package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calvertross/rosterd/pkg/core/services"
)

// ViewScheduleCmd creates the viewSchedule command
func ViewScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewSchedule <schedule_id>",
		Short: "Show a schedule's demand and assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			byStaff, _ := cmd.Flags().GetBool("by-staff")

			view, err := services.ViewSchedule(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\nSchedule %s (week of %s, %s)\n\n", view.ScheduleID, view.WeekStart, view.Status)

			if byStaff {
				if len(view.ByStaff) == 0 {
					fmt.Printf("No assignments yet.\n\n")
					return nil
				}
				for _, line := range view.ByStaff {
					fmt.Printf("  %-24s %-16s %s %s %s\n",
						line.StaffName, line.RoleName, line.Weekday, line.Date, line.Window)
				}
				fmt.Println()
				return nil
			}

			for _, line := range view.ByRole {
				marker := ""
				if line.Shortfall > 0 {
					marker = fmt.Sprintf("  (short %d)", line.Shortfall)
				}
				fmt.Printf("  %s %-10s %s %-16s %d/%d%s\n",
					line.Date, line.Weekday, line.Window, line.RoleName, line.Assigned, line.Required, marker)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("by-staff", false, "Group the view by staff member instead of role slot")

	return cmd
}
