package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calvertross/rosterd/pkg/core/model"
	"github.com/calvertross/rosterd/pkg/core/services"
)

// InstantiateWeekCmd creates the instantiateWeek command
func InstantiateWeekCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "instantiateWeek <requirement_template_id> <week_start>",
		Short: "Create a draft schedule for a week from a requirement template",
		Long:  "Copy a requirement template's weekly staffing matrix into a concrete draft schedule starting at week_start (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			templateID := args[0]
			weekStart, err := model.ParseDate(args[1])
			if err != nil {
				return fmt.Errorf("week_start must be YYYY-MM-DD: %w", err)
			}

			schedule, err := services.InstantiateWeek(app.Ctx, app.Database, app.Logger, templateID, weekStart)
			if err != nil {
				return err
			}

			fmt.Printf("\nSchedule created\n\n")
			fmt.Printf("Schedule ID: %s\n", schedule.ID)
			fmt.Printf("Week Start:  %s\n", schedule.WeekStart)
			fmt.Printf("Status:      %s\n\n", schedule.Status)

			for _, day := range schedule.Days {
				slotCount := 0
				for _, inst := range day.Shifts {
					slotCount += len(inst.Slots)
				}
				fmt.Printf("  %s (%s): %d shift(s), %d role slot(s)\n",
					day.Date, day.Date.Weekday(), len(day.Shifts), slotCount)
			}
			fmt.Println()

			return nil
		},
	}
}
