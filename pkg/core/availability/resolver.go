package availability

import (
	"time"

	"go.uber.org/zap"

	"github.com/calvertross/rosterd/pkg/core/model"
)

// ProfileCalendar holds one profile's availability inputs: the recurring
// weekly pattern, date-specific exceptions, and time-off requests.
type ProfileCalendar struct {
	Recurring  []model.AvailabilityRecurring
	Exceptions []model.AvailabilityException
	TimeOff    []model.TimeOffRequest
}

// Resolver collapses a profile's recurring pattern, date exceptions and
// approved time-off into a single availability verdict for a (date, window)
// pair. It is a pure read over the calendars it was built with; it never
// touches persistence.
type Resolver struct {
	calendars map[string]ProfileCalendar
	logger    *zap.Logger
}

// NewResolver creates a resolver over a snapshot of profile calendars,
// keyed by profile ID
func NewResolver(calendars map[string]ProfileCalendar, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{calendars: calendars, logger: logger}
}

// Resolve returns the availability verdict for a profile on a date and
// time window.
//
// Precedence, highest first:
//  1. An approved time-off request covering the date: unavailable.
//  2. Exceptions for the date intersecting the window. The exception with
//     the narrowest intersection wins. Equally narrow exceptions with
//     conflicting statuses are a configuration error: a warning is logged
//     and the most recently created entry wins.
//  3. Recurring entries for the date's weekday intersecting the window.
//     The entry covering the largest share of the window wins; equal
//     coverage is broken by earlier start time.
//  4. No stated preference: unavailable.
func (r *Resolver) Resolve(profileID string, date model.Date, window model.Window) model.AvailabilityStatus {
	cal, ok := r.calendars[profileID]
	if !ok {
		return model.StatusUnavailable
	}

	for _, req := range cal.TimeOff {
		if req.Covers(date) {
			return model.StatusUnavailable
		}
	}

	if ex := r.matchException(cal, profileID, date, window); ex != nil {
		return ex.Status
	}

	if rec := matchRecurring(cal, date.Weekday(), window); rec != nil {
		return rec.Status
	}

	return model.StatusUnavailable
}

// matchException finds the most specific exception for the date and window.
// Narrower intersections are more specific.
func (r *Resolver) matchException(cal ProfileCalendar, profileID string, date model.Date, window model.Window) *model.AvailabilityException {
	var best *model.AvailabilityException
	var bestMinutes int

	for i := range cal.Exceptions {
		ex := &cal.Exceptions[i]
		if ex.Date != date {
			continue
		}
		inter, ok := ex.Window.Intersection(window)
		if !ok {
			continue
		}

		switch {
		case best == nil || inter.Minutes() < bestMinutes:
			best = ex
			bestMinutes = inter.Minutes()
		case inter.Minutes() == bestMinutes:
			if ex.Status != best.Status {
				cfgErr := &model.ConfigurationError{
					ProfileID: profileID,
					Date:      date,
					Detail:    "equally specific exceptions with conflicting statuses; most recently created wins",
				}
				r.logger.Warn("Conflicting availability exceptions",
					zap.String("profile_id", profileID),
					zap.String("date", date.String()),
					zap.String("window", window.String()),
					zap.Error(cfgErr))
			}
			if ex.CreatedAt.After(best.CreatedAt) {
				best = ex
			}
		}
	}

	return best
}

// matchRecurring finds the recurring entry that best covers the window on
// the given weekday. Entries are guaranteed non-overlapping by write-time
// validation, so the largest intersection identifies the dominant entry.
func matchRecurring(cal ProfileCalendar, weekday time.Weekday, window model.Window) *model.AvailabilityRecurring {
	var best *model.AvailabilityRecurring
	var bestMinutes int

	for i := range cal.Recurring {
		rec := &cal.Recurring[i]
		if rec.Weekday != weekday {
			continue
		}
		inter, ok := rec.Window.Intersection(window)
		if !ok {
			continue
		}
		if best == nil || inter.Minutes() > bestMinutes ||
			(inter.Minutes() == bestMinutes && rec.Window.Start < best.Window.Start) {
			best = rec
			bestMinutes = inter.Minutes()
		}
	}

	return best
}
