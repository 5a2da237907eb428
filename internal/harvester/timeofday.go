package harvester

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

var ErrInvalidTime = errors.New("invalid time of day")

type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) Minutes() int {
	return ToMinutes(t.Hour, t.Minute)
}

// ParseTimeOfDay accepts only zero-padded 24-hour "HH:MM", the format the feed
// guarantees. Grouping is keyed on the raw strings, so "9:00" is rejected
// rather than silently treated as "09:00".
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	if len(value) != 5 || value[2] != ':' {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	hour, err := parseTwoDigits(value[:2])
	if err != nil || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	minute, err := parseTwoDigits(value[3:])
	if err != nil || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func parseTwoDigits(value string) (int, error) {
	if len(value) != 2 || value[0] < '0' || value[0] > '9' || value[1] < '0' || value[1] > '9' {
		return 0, fmt.Errorf("not two digits: %q", value)
	}
	return int(value[0]-'0')*10 + int(value[1]-'0'), nil
}

func ToMinutes(hour, minute int) int {
	return normalizeMinutes(hour*60 + minute)
}

func NowMinutes(now time.Time) int {
	return ToMinutes(now.Hour(), now.Minute())
}

// UTCToLocalMinutes anchors the UTC wall-clock fields on now's calendar day and
// reads the result back in now's location. For a fixed offset this is
// (utcMinutes + offset) mod 1440; across a DST change the offset in force at
// that instant is used.
func UTCToLocalMinutes(hour, minute int, now time.Time) int {
	utc := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	local := utc.In(now.Location())
	return ToMinutes(local.Hour(), local.Minute())
}

// IsWithinWindow reports whether now falls in [start, end), wrapping past
// midnight when start > end.
func IsWithinWindow(now, start, end int) bool {
	if start <= end {
		return now >= start && now < end
	}
	return now >= start || now < end
}

func MinutesUntil(target, now int) int {
	return normalizeMinutes(target - now)
}

func normalizeMinutes(minutes int) int {
	minutes %= minutesPerDay
	if minutes < 0 {
		minutes += minutesPerDay
	}
	return minutes
}

// endedToday matches a same-day window whose end has already passed.
func endedToday(now, start, end int) bool {
	return end < now && start < end
}

func FormatClock12(minutes int) string {
	minutes = normalizeMinutes(minutes)
	hour := minutes / 60
	minute := minutes % 60

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}

	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, suffix)
}

func ParseClock12(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	clock, period, ok := strings.Cut(trimmed, " ")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	hourPart, minutePart, ok := strings.Cut(clock, ":")
	if !ok || len(minutePart) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 1 || hour > 12 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	minute, err := parseTwoDigits(minutePart)
	if err != nil || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	hour %= 12
	switch strings.ToUpper(strings.TrimSpace(period)) {
	case "AM":
	case "PM":
		hour += 12
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	return hour*60 + minute, nil
}
