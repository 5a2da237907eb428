package waybar

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rbright/waybar-harvester/internal/harvester"
)

func resolveAt(t *testing.T, hour, minute int) harvester.Result {
	t.Helper()

	events := []harvester.RawEvent{
		{Name: "Harvester", Map: "Dam", Times: []harvester.TimeWindow{{Start: "10:00", End: "11:00"}}},
		{Name: "Harvester", Map: "Spaceport", Times: []harvester.TimeWindow{{Start: "14:00", End: "15:00"}}},
	}
	result, err := harvester.Resolve(events, harvester.DefaultEventName, time.Date(2026, 3, 9, hour, minute, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return result
}

func TestRender_Current(t *testing.T) {
	t.Parallel()

	result := resolveAt(t, 10, 30)
	out := Render(result, Options{FetchedAt: result.EvaluatedAt.Add(-2 * time.Minute)})

	if out.Text != "🌾 Ends in 30m" {
		t.Fatalf("text = %q", out.Text)
	}
	if out.Class != "current" {
		t.Fatalf("class = %q", out.Class)
	}
	for _, expected := range []string{
		"Harvester live: Dam",
		"10:00 AM - 11:00 AM (Ends in 30m)",
		"2:00 PM - 3:00 PM  Spaceport  in 3h 30m",
		"Updated: 2 minutes ago",
	} {
		if !strings.Contains(out.Tooltip, expected) {
			t.Fatalf("tooltip missing %q:\n%s", expected, out.Tooltip)
		}
	}
}

func TestRender_UpcomingStale(t *testing.T) {
	t.Parallel()

	out := Render(resolveAt(t, 9, 0), Options{Icon: "H", StaleError: "http 503"})

	if out.Text != "H in 1h 0m" {
		t.Fatalf("text = %q", out.Text)
	}
	if out.Class != "upcoming stale" {
		t.Fatalf("class = %q", out.Class)
	}
	if !strings.Contains(out.Tooltip, "Cached data (refresh failed): http 503") {
		t.Fatalf("tooltip missing stale line:\n%s", out.Tooltip)
	}
}

func TestRender_None(t *testing.T) {
	t.Parallel()

	out := Render(harvester.Result{}, Options{})
	if out.Class != "none" || out.Text != "🌾 --" {
		t.Fatalf("unexpected output: %+v", out)
	}
	if out.Tooltip != "No upcoming Harvester events" {
		t.Fatalf("tooltip = %q", out.Tooltip)
	}
}

func TestEncode_RenderError(t *testing.T) {
	t.Parallel()

	payload, err := Encode(RenderError("", " fetch event timers: http 500 "))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["class"] != "error" || decoded["tooltip"] != "fetch event timers: http 500" {
		t.Fatalf("decoded = %v", decoded)
	}
}

func TestUpcomingLines_Cap(t *testing.T) {
	t.Parallel()

	result := resolveAt(t, 9, 0)
	if got := UpcomingLines(result.Upcoming, 1); len(got) != 1 {
		t.Fatalf("expected 1 line, got %v", got)
	}
	if got := UpcomingLines(result.Upcoming, 0); len(got) != 2 {
		t.Fatalf("zero max means no cap, got %v", got)
	}
}
