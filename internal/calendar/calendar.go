// Package calendar exports resolved event windows as a subscribable iCalendar
// feed.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/rbright/waybar-harvester/internal/harvester"
)

const (
	productID = "-//rbright//waybar-harvester//EN"
	uidDomain = "waybar-harvester"
)

var rruleWeekdays = [...]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

type Options struct {
	Name string
	Now  time.Time
	// Days restricts a slot, keyed by Slot.Key, to the given weekdays. Slots
	// without an entry repeat daily.
	Days map[string][]time.Weekday
}

// Build renders one recurring VEVENT per slot, anchored on the UTC date of
// opts.Now.
func Build(slots []harvester.Slot, opts Options) (string, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = harvester.DefaultEventName
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(fmt.Sprintf("%s windows", name))

	for _, slot := range slots {
		start, end, rule, err := occurrence(slot, now.UTC(), opts.Days[slot.Key()])
		if err != nil {
			return "", err
		}
		if start.IsZero() {
			continue
		}

		event := cal.AddEvent(UID(slot))
		event.SetDtStampTime(now.UTC())
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("%s (%s)", name, strings.Join(slot.Maps, ", ")))
		event.SetDescription(description(slot))
		event.SetProperty(ics.ComponentPropertyRrule, rule)
	}

	return cal.Serialize(), nil
}

func UID(slot harvester.Slot) string {
	return fmt.Sprintf("%s-%s@%s", slot.Start, slot.End, uidDomain)
}

// SlotDays collects the weekday restriction per slot key. A slot is left
// unrestricted as soon as one of its records carries no recognised days.
func SlotDays(events []harvester.RawEvent, name string) map[string][]time.Weekday {
	restricted := make(map[string]map[time.Weekday]bool)
	open := make(map[string]bool)

	for _, event := range events {
		if name != "" && event.Name != name {
			continue
		}
		days := harvester.ParseWeekdays(event.Days)
		for _, window := range event.Times {
			key := window.Start + "-" + window.End
			if len(days) == 0 {
				open[key] = true
				continue
			}
			if restricted[key] == nil {
				restricted[key] = make(map[time.Weekday]bool)
			}
			for _, day := range days {
				restricted[key][day] = true
			}
		}
	}

	result := make(map[string][]time.Weekday, len(restricted))
	for key, set := range restricted {
		if open[key] {
			continue
		}
		days := make([]time.Weekday, 0, len(set))
		for day := range set {
			days = append(days, day)
		}
		sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
		result[key] = days
	}
	return result
}

func occurrence(slot harvester.Slot, day time.Time, days []time.Weekday) (time.Time, time.Time, string, error) {
	startOfDay, err := harvester.ParseTimeOfDay(slot.Start)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	endOfDay, err := harvester.ParseTimeOfDay(slot.End)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}

	anchor := time.Date(day.Year(), day.Month(), day.Day(), startOfDay.Hour, startOfDay.Minute, 0, 0, time.UTC)
	option := rrule.ROption{Freq: rrule.DAILY, Dtstart: anchor}
	if len(days) > 0 {
		option.Freq = rrule.WEEKLY
		for _, weekday := range days {
			option.Byweekday = append(option.Byweekday, rruleWeekdays[weekday])
		}
	}

	rule, err := rrule.NewRRule(option)
	if err != nil {
		return time.Time{}, time.Time{}, "", fmt.Errorf("build recurrence for %s: %w", slot.Key(), err)
	}

	start := rule.After(anchor, true)
	if start.IsZero() {
		return time.Time{}, time.Time{}, "", nil
	}

	duration := time.Duration(harvester.MinutesUntil(endOfDay.Minutes(), startOfDay.Minutes())) * time.Minute
	return start, start.Add(duration), option.RRuleString(), nil
}

func description(slot harvester.Slot) string {
	lines := make([]string, 0, len(slot.Maps)+1)
	lines = append(lines, fmt.Sprintf("UTC %s to %s", slot.Start, slot.End))
	for i, name := range slot.Maps {
		icon := ""
		if i < len(slot.MapIcons) {
			icon = " " + slot.MapIcons[i]
		}
		lines = append(lines, name+icon)
	}
	return strings.Join(lines, "\n")
}
