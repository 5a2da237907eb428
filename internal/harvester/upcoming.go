package harvester

import (
	"sort"
	"time"
)

func buildUpcoming(slots []localSlot, now int) []Entry {
	entries := make([]Entry, 0, len(slots))
	for _, slot := range slots {
		if endedToday(now, slot.start, slot.end) {
			continue
		}

		current := IsWithinWindow(now, slot.start, slot.end)
		wait := MinutesUntil(slot.start, now)
		if current {
			wait = MinutesUntil(slot.end, now)
		}

		entries = append(entries, Entry{
			Slot:         slot.slot,
			StartMinutes: slot.start,
			EndMinutes:   slot.end,
			Countdown:    CountdownFromMinutes(wait),
			IsCurrent:    current,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return clockSortKey(entries[i]) < clockSortKey(entries[j])
	})
	return entries
}

// clockSortKey orders by the displayed 12-hour start time read back as
// minute-of-day.
func clockSortKey(entry Entry) int {
	minutes, err := ParseClock12(entry.StartLabel())
	if err != nil {
		return entry.StartMinutes
	}
	return minutes
}

// withoutCurrent drops the highlighted slot from the list, but only when it was
// picked as current. A "next" highlight keeps its own list entry.
func withoutCurrent(entries []Entry, highlight *Entry) []Entry {
	if highlight == nil || !highlight.IsCurrent {
		return entries
	}

	filtered := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Start == highlight.Start && entry.End == highlight.End {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

// Upcoming returns every slot that has not ended today, with no highlight
// filtering, sorted by local start.
func Upcoming(slots []Slot, now time.Time) ([]Entry, error) {
	grouped := make([]groupedSlot, 0, len(slots))
	for _, slot := range slots {
		start, err := ParseTimeOfDay(slot.Start)
		if err != nil {
			return nil, err
		}
		end, err := ParseTimeOfDay(slot.End)
		if err != nil {
			return nil, err
		}
		grouped = append(grouped, groupedSlot{slot: slot, startUTC: start, endUTC: end})
	}
	return buildUpcoming(localize(grouped, now), NowMinutes(now)), nil
}
