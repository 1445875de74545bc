package db

import (
	"context"

	"github.com/calvertross/rosterd/pkg/core/engine"
	"github.com/calvertross/rosterd/pkg/core/model"
)

// Database aggregates every store operation the services need. Services
// declare their own narrow interfaces; this is the full surface the
// postgres implementation satisfies.
type Database interface {
	// Profiles
	GetProfiles(ctx context.Context, organizationID string) ([]model.Profile, error)

	// Roles and shift templates
	GetRoles(ctx context.Context, organizationID string) ([]model.Role, error)
	GetShiftTemplates(ctx context.Context, organizationID string) ([]model.ShiftTemplate, error)

	// Availability. InsertRecurringAvailability rejects entries that
	// overlap an existing entry for the same profile and weekday.
	GetRecurringAvailability(ctx context.Context, profileID string) ([]model.AvailabilityRecurring, error)
	InsertRecurringAvailability(ctx context.Context, entry model.AvailabilityRecurring) error
	InsertAvailabilityException(ctx context.Context, entry model.AvailabilityException) error
	InsertTimeOffRequest(ctx context.Context, req model.TimeOffRequest) error

	// Requirement templates
	GetRequirementTemplate(ctx context.Context, templateID string) (*model.RequirementTemplate, error)

	// Schedules
	InsertSchedule(ctx context.Context, schedule *model.Schedule) error
	GetSchedule(ctx context.Context, scheduleID string) (*model.Schedule, error)
	SetScheduleStatus(ctx context.Context, scheduleID string, from, to model.ScheduleStatus) error

	// Assignments and the engine read model
	GetScheduleSnapshot(ctx context.Context, scheduleID string) (*engine.Snapshot, error)
	ReplaceEngineAssignments(ctx context.Context, scheduleID string, assignments []model.Assignment) error
	InsertManualAssignment(ctx context.Context, scheduleID string, assignment model.Assignment) error
}
