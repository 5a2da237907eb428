package harvester

import "time"

// Resolver turns feed records into the current-or-next window and the
// upcoming list. It holds no state between calls and is safe for concurrent
// use.
type Resolver struct {
	// Name selects records by event name. Empty keeps every record.
	Name string
	// RespectDayFilter drops records whose days list excludes the UTC
	// weekday of the evaluation instant. Windows are UTC times of day.
	RespectDayFilter bool
	IconBaseURL      string
	// Now supplies the evaluation instant; its location is the caller's
	// local clock. Defaults to time.Now.
	Now func() time.Time
}

func NewResolver(name string) *Resolver {
	return &Resolver{Name: name, IconBaseURL: DefaultIconBaseURL, Now: time.Now}
}

func (r *Resolver) Resolve(events []RawEvent) (Result, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return r.ResolveAt(events, now())
}

func (r *Resolver) ResolveAt(events []RawEvent, now time.Time) (Result, error) {
	if r.RespectDayFilter {
		events = FilterDays(events, now.UTC().Weekday())
	}

	grouped, err := groupSlots(events, r.Name, r.IconBaseURL)
	if err != nil {
		return Result{}, err
	}

	slots := localize(grouped, now)
	nowMinutes := NowMinutes(now)

	result := Result{EvaluatedAt: now, Upcoming: []Entry{}}
	highlight, current := selectCurrentOrNext(slots, nowMinutes)
	if highlight != nil {
		result.CurrentOrNext = highlight
		result.IsCurrent = current
		result.Countdown = highlight.Countdown
	}
	result.Upcoming = withoutCurrent(buildUpcoming(slots, nowMinutes), highlight)
	return result, nil
}

// Resolve is the functional form of Resolver.ResolveAt.
func Resolve(events []RawEvent, name string, now time.Time) (Result, error) {
	return NewResolver(name).ResolveAt(events, now)
}
