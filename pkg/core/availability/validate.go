package availability

import "github.com/calvertross/rosterd/pkg/core/model"

// ValidateRecurring checks a new recurring entry against a profile's
// existing entries before it is written. Overlapping entries for the same
// weekday are an input error, never resolved silently at assignment time.
func ValidateRecurring(entry model.AvailabilityRecurring, existing []model.AvailabilityRecurring) error {
	if !entry.Window.Valid() {
		return model.Validationf("recurring availability window %s is invalid", entry.Window)
	}
	if !entry.Status.IsValid() {
		return model.Validationf("unknown availability status %q", entry.Status)
	}

	for _, other := range existing {
		if other.ID == entry.ID || other.ProfileID != entry.ProfileID || other.Weekday != entry.Weekday {
			continue
		}
		if other.Window.Overlaps(entry.Window) {
			return model.Validationf(
				"recurring availability %s overlaps existing entry %s on %s",
				entry.Window, other.Window, entry.Weekday)
		}
	}

	return nil
}

// ValidateRecurringSet checks a full set of recurring entries for pairwise
// overlaps per profile and weekday. Used when loading bulk availability data.
func ValidateRecurringSet(entries []model.AvailabilityRecurring) error {
	for i := range entries {
		if err := ValidateRecurring(entries[i], entries[:i]); err != nil {
			return err
		}
	}
	return nil
}
