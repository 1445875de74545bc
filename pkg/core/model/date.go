package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates throughout the system
const DateLayout = "2006-01-02"

// Date is a calendar date in "2006-01-02" format. The ISO layout makes
// lexicographic comparison equivalent to chronological comparison.
type Date string

// ParseDate validates a "2006-01-02" formatted date string
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(s), nil
}

// DateOf converts a time.Time to a Date, dropping the time portion
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Time returns the date at midnight UTC. Panics on a malformed Date;
// construct Dates through ParseDate or DateOf.
func (d Date) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		panic(fmt.Sprintf("malformed date %q: %v", string(d), err))
	}
	return t
}

// Weekday returns the day of week for the date
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) String() string {
	return string(d)
}
