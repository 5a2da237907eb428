package harvester

import (
	"fmt"
	"strings"
)

// NextEvent is the chat-friendly summary of a resolution.
type NextEvent struct {
	Text         string   `json:"text"`
	Map          string   `json:"map"`
	Maps         []string `json:"maps"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	HoursUntil   int      `json:"hoursUntil"`
	MinutesUntil int      `json:"minutesUntil"`
	IsCurrent    bool     `json:"isCurrent"`
}

// Summarize renders the highlighted slot. It reports false when nothing is
// current or upcoming.
func Summarize(result Result, name string) (NextEvent, bool) {
	if !result.Found() {
		return NextEvent{}, false
	}
	if strings.TrimSpace(name) == "" {
		name = DefaultEventName
	}

	entry := result.CurrentOrNext
	maps := append([]string(nil), entry.Maps...)
	mapLabel := strings.Join(maps, ", ")

	heading := fmt.Sprintf("🌾 *Next %s Event*", name)
	wait := fmt.Sprintf("⏳ %dh %dm", result.Countdown.Hours, result.Countdown.Minutes)
	if result.IsCurrent {
		heading = fmt.Sprintf("🌾 *%s Event Live*", name)
		wait = "⏳ Ends in " + result.Countdown.String()
	}

	text := heading + "\n\n" +
		fmt.Sprintf("📍 *%s*\n", mapLabel) +
		fmt.Sprintf("⏰ %s - %s\n", entry.StartLabel(), entry.EndLabel()) +
		wait

	return NextEvent{
		Text:         text,
		Map:          mapLabel,
		Maps:         maps,
		Start:        entry.StartLabel(),
		End:          entry.EndLabel(),
		HoursUntil:   result.Countdown.Hours,
		MinutesUntil: result.Countdown.Minutes,
		IsCurrent:    result.IsCurrent,
	}, true
}

// CountdownText is the short status line: "Ends in 30m" while a window is
// active, "in 1h 5m" or "Now" before the next one.
func CountdownText(entry Entry) string {
	if entry.IsCurrent {
		return "Ends in " + entry.Label()
	}
	label := entry.Label()
	if label == "Now" {
		return label
	}
	return "in " + label
}
