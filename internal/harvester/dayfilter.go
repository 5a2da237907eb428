package harvester

import (
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"sun":       time.Sunday,
	"monday":    time.Monday,
	"mon":       time.Monday,
	"tuesday":   time.Tuesday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"wednesday": time.Wednesday,
	"wed":       time.Wednesday,
	"thursday":  time.Thursday,
	"thu":       time.Thursday,
	"thurs":     time.Thursday,
	"friday":    time.Friday,
	"fri":       time.Friday,
	"saturday":  time.Saturday,
	"sat":       time.Saturday,
}

func ParseWeekday(value string) (time.Weekday, bool) {
	day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(value))]
	return day, ok
}

// ParseWeekdays returns the recognised days in input order, skipping
// duplicates and unknown names.
func ParseWeekdays(values []string) []time.Weekday {
	days := make([]time.Weekday, 0, len(values))
	seen := make(map[time.Weekday]bool, len(values))
	for _, value := range values {
		day, ok := ParseWeekday(value)
		if !ok || seen[day] {
			continue
		}
		seen[day] = true
		days = append(days, day)
	}
	return days
}

// AppliesOn reports whether a record runs on the given weekday. Records with
// no recognisable days run every day.
func AppliesOn(event RawEvent, day time.Weekday) bool {
	days := ParseWeekdays(event.Days)
	if len(days) == 0 {
		return true
	}
	for _, candidate := range days {
		if candidate == day {
			return true
		}
	}
	return false
}

func FilterDays(events []RawEvent, day time.Weekday) []RawEvent {
	filtered := make([]RawEvent, 0, len(events))
	for _, event := range events {
		if AppliesOn(event, day) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}
