package harvester

import "time"

const DefaultEventName = "Harvester"

type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RawEvent is one feed record: a single map's daily windows for a named event.
type RawEvent struct {
	Game        string       `json:"game"`
	Name        string       `json:"name"`
	Map         string       `json:"map"`
	Icon        string       `json:"icon"`
	Description string       `json:"description,omitempty"`
	Days        []string     `json:"days"`
	Times       []TimeWindow `json:"times"`
}

// Slot groups every map that shares the exact same UTC start/end strings.
type Slot struct {
	Start    string   `json:"start"`
	End      string   `json:"end"`
	Maps     []string `json:"maps"`
	MapIcons []string `json:"mapIcons"`
}

func (s Slot) Key() string {
	return s.Start + "-" + s.End
}

type Entry struct {
	Slot
	StartMinutes int       `json:"startMinutes"`
	EndMinutes   int       `json:"endMinutes"`
	Countdown    Countdown `json:"countdown"`
	IsCurrent    bool      `json:"isCurrent"`
}

func (e Entry) StartLabel() string {
	return FormatClock12(e.StartMinutes)
}

func (e Entry) EndLabel() string {
	return FormatClock12(e.EndMinutes)
}

// Label is the countdown text: remaining time for a current entry, time until
// start (or "Now") otherwise.
func (e Entry) Label() string {
	if e.IsCurrent {
		return e.Countdown.String()
	}
	return e.Countdown.NowOr()
}

type Result struct {
	CurrentOrNext *Entry    `json:"currentOrNext,omitempty"`
	IsCurrent     bool      `json:"isCurrent"`
	Countdown     Countdown `json:"countdown"`
	Upcoming      []Entry   `json:"upcoming"`
	EvaluatedAt   time.Time `json:"evaluatedAt"`
}

func (r Result) Found() bool {
	return r.CurrentOrNext != nil
}
