package server

import (
	"time"

	"github.com/rbright/waybar-harvester/internal/harvester"
)

type entryView struct {
	Start      string   `json:"start"`
	End        string   `json:"end"`
	LocalStart string   `json:"localStart"`
	LocalEnd   string   `json:"localEnd"`
	Maps       []string `json:"maps"`
	MapIcons   []string `json:"mapIcons"`
	Countdown  string   `json:"countdown"`
	IsCurrent  bool     `json:"isCurrent"`
}

type resolutionView struct {
	Event         string      `json:"event"`
	CurrentOrNext *entryView  `json:"currentOrNext"`
	IsCurrent     bool        `json:"isCurrent"`
	Countdown     string      `json:"countdown,omitempty"`
	Upcoming      []entryView `json:"upcoming"`
	EvaluatedAt   time.Time   `json:"evaluatedAt"`
	FetchedAt     time.Time   `json:"fetchedAt"`
	TimeZone      string      `json:"timeZone"`
}

func newEntryView(entry harvester.Entry) entryView {
	return entryView{
		Start:      entry.Start,
		End:        entry.End,
		LocalStart: entry.StartLabel(),
		LocalEnd:   entry.EndLabel(),
		Maps:       entry.Maps,
		MapIcons:   entry.MapIcons,
		Countdown:  harvester.CountdownText(entry),
		IsCurrent:  entry.IsCurrent,
	}
}

func newResolutionView(name string, result harvester.Result, fetchedAt time.Time) resolutionView {
	view := resolutionView{
		Event:       name,
		IsCurrent:   result.IsCurrent,
		Upcoming:    make([]entryView, 0, len(result.Upcoming)),
		EvaluatedAt: result.EvaluatedAt,
		FetchedAt:   fetchedAt.UTC(),
		TimeZone:    result.EvaluatedAt.Location().String(),
	}
	if result.Found() {
		highlight := newEntryView(*result.CurrentOrNext)
		view.CurrentOrNext = &highlight
		view.Countdown = highlight.Countdown
	}
	for _, entry := range result.Upcoming {
		view.Upcoming = append(view.Upcoming, newEntryView(entry))
	}
	return view
}
