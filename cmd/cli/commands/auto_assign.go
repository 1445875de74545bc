package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calvertross/rosterd/pkg/core/services"
)

// AutoAssignCmd creates the autoAssign command
func AutoAssignCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autoAssign <schedule_id>",
		Short: "Run auto-assignment for a draft schedule",
		Long:  "Fill a draft schedule's role slots from staff availability, replacing any previous engine-made assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scheduleID := args[0]
			seed, _ := cmd.Flags().GetInt64("seed")

			app.Logger.Debug("autoAssign command",
				zap.String("schedule_id", scheduleID),
				zap.Int64("seed", seed))

			result, err := services.AutoAssign(app.Ctx, app.Database, app.Locks, app.Cfg, app.Logger, scheduleID, seed)
			if err != nil {
				return fmt.Errorf("auto-assignment failed: %w", err)
			}

			report := result.Report
			fmt.Printf("\nAuto-Assignment Results\n\n")
			fmt.Printf("Schedule ID:    %s\n", result.ScheduleID)
			fmt.Printf("Role Slots:     %d\n", report.SlotCount)
			fmt.Printf("Headcount:      %d assigned of %d required\n", report.AssignedCount, report.RequiredCount)
			fmt.Printf("Fill Rate:      %.1f%%\n", report.FillRate*100)
			fmt.Printf("Fairness Index: %.3f (lower is fairer)\n", report.FairnessIndex)
			fmt.Printf("Seed:           %d\n\n", report.Seed)

			if len(report.Shortfalls) > 0 {
				fmt.Printf("Shortfalls (%d):\n", len(report.Shortfalls))
				for _, s := range report.Shortfalls {
					fmt.Printf("  • %s %s %s: filled %d of %d\n",
						s.Date, s.Window, s.RoleName, s.Filled, s.Required)
				}
				fmt.Println()
			} else {
				fmt.Printf("All role slots fully staffed.\n\n")
			}

			return nil
		},
	}

	cmd.Flags().Int64("seed", 0, "Fix the tie-break seed for a reproducible run (0 = random)")

	return cmd
}
