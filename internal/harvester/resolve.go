package harvester

import "time"

type localSlot struct {
	slot  Slot
	start int
	end   int
}

func localize(grouped []groupedSlot, now time.Time) []localSlot {
	slots := make([]localSlot, 0, len(grouped))
	for _, item := range grouped {
		slots = append(slots, localSlot{
			slot:  item.slot,
			start: UTCToLocalMinutes(item.startUTC.Hour, item.startUTC.Minute, now),
			end:   UTCToLocalMinutes(item.endUTC.Hour, item.endUTC.Minute, now),
		})
	}
	return slots
}

// selectCurrentOrNext returns the first active slot, or failing that the slot
// with the smallest wait until start. Ties go to the earlier slot.
func selectCurrentOrNext(slots []localSlot, now int) (*Entry, bool) {
	for _, slot := range slots {
		if !IsWithinWindow(now, slot.start, slot.end) {
			continue
		}
		return &Entry{
			Slot:         slot.slot,
			StartMinutes: slot.start,
			EndMinutes:   slot.end,
			Countdown:    CountdownFromMinutes(MinutesUntil(slot.end, now)),
			IsCurrent:    true,
		}, true
	}

	var next *localSlot
	minDiff := minutesPerDay
	for i := range slots {
		slot := &slots[i]
		if endedToday(now, slot.start, slot.end) {
			continue
		}
		diff := MinutesUntil(slot.start, now)
		if diff < minDiff {
			minDiff = diff
			next = slot
		}
	}

	if next == nil {
		return nil, false
	}
	return &Entry{
		Slot:         next.slot,
		StartMinutes: next.start,
		EndMinutes:   next.end,
		Countdown:    CountdownFromMinutes(minDiff),
		IsCurrent:    false,
	}, false
}
