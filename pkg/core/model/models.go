package model

import "time"

// AvailabilityStatus is the three-valued availability verdict for a profile
// and time window. Unavailable is a hard exclusion; Available and Preferred
// feed the scorer.
type AvailabilityStatus string

const (
	StatusUnavailable AvailabilityStatus = "unavailable"
	StatusAvailable   AvailabilityStatus = "available"
	StatusPreferred   AvailabilityStatus = "preferred"
)

func (s AvailabilityStatus) IsValid() bool {
	return s == StatusUnavailable || s == StatusAvailable || s == StatusPreferred
}

// ScheduleStatus is the lifecycle state of a schedule
type ScheduleStatus string

const (
	ScheduleDraft     ScheduleStatus = "draft"
	SchedulePublished ScheduleStatus = "published"
)

// TimeOffStatus is the approval state of a time-off request.
// Only approved requests constrain assignment.
type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "pending"
	TimeOffApproved TimeOffStatus = "approved"
	TimeOffDenied   TimeOffStatus = "denied"
)

// AssignmentSource records who created an assignment. Engine-made assignments
// are cleared and recreated on every auto-assign run; manual ones are kept.
type AssignmentSource string

const (
	SourceEngine AssignmentSource = "engine"
	SourceManual AssignmentSource = "manual"
)

// Profile represents a staff member belonging to an organization
type Profile struct {
	ID             string
	OrganizationID string
	FirstName      string
	LastName       string
	Active         bool
}

// FullName returns the profile's display name
func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Role is a named job function scoped to one organization
type Role struct {
	ID             string
	OrganizationID string
	Name           string
	Deleted        bool
}

// ShiftTemplate is a reusable named time window scoped to an organization
type ShiftTemplate struct {
	ID             string
	OrganizationID string
	Name           string
	Window         Window
}

// AvailabilityRecurring is a profile's weekly availability pattern entry.
// Multiple non-overlapping entries per weekday are allowed; overlapping
// entries are rejected at write time.
type AvailabilityRecurring struct {
	ID        string
	ProfileID string
	Weekday   time.Weekday
	Window    Window
	Status    AvailabilityStatus
}

// AvailabilityException overrides the recurring pattern for a specific date
type AvailabilityException struct {
	ID        string
	ProfileID string
	Date      Date
	Window    Window
	Status    AvailabilityStatus
	CreatedAt time.Time
}

// TimeOffRequest is a profile's request to be off for a date range, inclusive
// on both ends. Only approved requests are hard constraints.
type TimeOffRequest struct {
	ID        string
	ProfileID string
	StartDate Date
	EndDate   Date
	Status    TimeOffStatus
}

// Covers reports whether an approved request blocks the given date
func (r TimeOffRequest) Covers(d Date) bool {
	return r.Status == TimeOffApproved && r.StartDate <= d && d <= r.EndDate
}

// RequirementTemplate is a named weekly staffing matrix
type RequirementTemplate struct {
	ID             string
	OrganizationID string
	Name           string
	Items          []RequirementItem
}

// RequirementItem is one cell of the staffing matrix: how many of a role are
// needed on a weekday for a shift window
type RequirementItem struct {
	ID              string
	TemplateID      string
	Weekday         time.Weekday
	ShiftTemplateID string
	RoleID          string
	RequiredCount   int
}

// Schedule is one organization's staffing plan for one week
type Schedule struct {
	ID             string
	OrganizationID string
	WeekStart      Date
	Status         ScheduleStatus
	Days           []ScheduleDay
}

// ScheduleDay is one calendar date within a schedule
type ScheduleDay struct {
	ID         string
	ScheduleID string
	Date       Date
	Shifts     []ShiftInstance
}

// ShiftInstance is a concrete (date, window) pair owning role slots
type ShiftInstance struct {
	ID            string
	ScheduleDayID string
	Date          Date
	Window        Window
	Slots         []RoleSlot
}

// RoleSlot is the unit of staffing demand: one role on one shift instance
// with a required headcount
type RoleSlot struct {
	ID              string
	ShiftInstanceID string
	RoleID          string
	RoleName        string
	RequiredCount   int
}

// Assignment places a profile in a role slot
type Assignment struct {
	ID         string
	RoleSlotID string
	ProfileID  string
	Source     AssignmentSource
	AssignedAt time.Time
}
