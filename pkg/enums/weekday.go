package enums

import "fmt"

// Weekday tags meals and exercises with their day-of-week slot.
type Weekday string

const (
	WeekdayMonday    Weekday = "monday"
	WeekdayTuesday   Weekday = "tuesday"
	WeekdayWednesday Weekday = "wednesday"
	WeekdayThursday  Weekday = "thursday"
	WeekdayFriday    Weekday = "friday"
	WeekdaySaturday  Weekday = "saturday"
	WeekdaySunday    Weekday = "sunday"
)

var validWeekdays = []Weekday{
	WeekdayMonday,
	WeekdayTuesday,
	WeekdayWednesday,
	WeekdayThursday,
	WeekdayFriday,
	WeekdaySaturday,
	WeekdaySunday,
}

// String implements fmt.Stringer.
func (w Weekday) String() string {
	return string(w)
}

// IsValid reports whether the value is known.
func (w Weekday) IsValid() bool {
	for _, candidate := range validWeekdays {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWeekday converts raw input into a Weekday.
func ParseWeekday(value string) (Weekday, error) {
	for _, candidate := range validWeekdays {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid weekday %q", value)
}
