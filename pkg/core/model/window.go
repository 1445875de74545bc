package model

import (
	"fmt"
	"time"
)

// Clock is a time of day expressed as minutes since midnight.
type Clock int

// ParseClock parses a "15:04" formatted time of day
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Window is a same-day time window. Start is inclusive, End exclusive.
// Windows never cross midnight; End must be after Start.
type Window struct {
	Start Clock
	End   Clock
}

// ParseWindow parses a window from "15:04" formatted start and end times
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	w := Window{Start: s, End: e}
	if !w.Valid() {
		return Window{}, fmt.Errorf("invalid window %s-%s: end must be after start", start, end)
	}
	return w, nil
}

// Valid reports whether the window has positive length within one day
func (w Window) Valid() bool {
	return w.Start >= 0 && w.End <= 24*60 && w.Start < w.End
}

// Overlaps reports whether two windows share any time.
// Touching endpoints (one ends exactly when the other starts) do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start < other.End && other.Start < w.End
}

// Intersection returns the shared portion of two windows, if any
func (w Window) Intersection(other Window) (Window, bool) {
	out := Window{Start: max(w.Start, other.Start), End: min(w.End, other.End)}
	if out.Start >= out.End {
		return Window{}, false
	}
	return out, true
}

// Minutes returns the window length in minutes
func (w Window) Minutes() int {
	return int(w.End - w.Start)
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}
