package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calvertross/rosterd/pkg/core/services"
)

// PublishScheduleCmd creates the publishSchedule command
func PublishScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishSchedule <schedule_id>",
		Short: "Publish a draft schedule, freezing its assignments",
		Long:  "Transition a draft schedule to published. Publishing is one-way; open shortfalls are allowed and logged.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, err := services.PublishSchedule(app.Ctx, app.Database, app.Locks, app.Logger, args[0])
			if err != nil {
				return fmt.Errorf("publish failed: %w", err)
			}

			fmt.Printf("\nSchedule published\n\n")
			fmt.Printf("Schedule ID: %s\n", schedule.ID)
			fmt.Printf("Week Start:  %s\n", schedule.WeekStart)
			fmt.Printf("Status:      %s\n\n", schedule.Status)

			return nil
		},
	}
}
