package harvester

import (
	"reflect"
	"testing"
	"time"
)

func TestGroupSlots_MergesIdenticalWindows(t *testing.T) {
	t.Parallel()

	events := []RawEvent{
		harvesterEvent("Dam", "18:00", "19:00"),
		harvesterEvent("Buried City", "18:00", "19:00", "06:00", "07:00"),
		harvesterEvent("Dam", "18:00", "19:00"),
	}

	slots, err := GroupSlots(events, DefaultEventName, "")
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %+v", slots)
	}
	if slots[0].Key() != "06:00-07:00" {
		t.Fatalf("slots must be ordered by UTC start, got %s first", slots[0].Key())
	}
	if !reflect.DeepEqual(slots[1].Maps, []string{"Dam", "Buried City"}) {
		t.Fatalf("maps = %v, want first-seen order without duplicates", slots[1].Maps)
	}
	wantIcons := []string{
		"https://cdn.metaforge.app/arc-raiders/ui/dam.webp",
		"https://cdn.metaforge.app/arc-raiders/ui/buried-city.webp",
	}
	if !reflect.DeepEqual(slots[1].MapIcons, wantIcons) {
		t.Fatalf("icons = %v", slots[1].MapIcons)
	}
}

func TestGroupSlots_KeyIsLiteral(t *testing.T) {
	t.Parallel()

	events := []RawEvent{
		harvesterEvent("Dam", "10:00", "11:00"),
		harvesterEvent("Spaceport", "10:00", "11:30"),
	}
	slots, err := GroupSlots(events, DefaultEventName, "")
	if err != nil {
		t.Fatalf("group: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("different end strings must stay separate, got %+v", slots)
	}
}

func TestGroupSlots_Empty(t *testing.T) {
	t.Parallel()

	slots, err := GroupSlots(nil, DefaultEventName, "")
	if err != nil || len(slots) != 0 {
		t.Fatalf("expected no slots, got %+v (%v)", slots, err)
	}

	result, err := Resolve(nil, DefaultEventName, time.Now())
	if err != nil || result.Found() || result.Upcoming == nil {
		t.Fatalf("empty feed should resolve to an empty, non-nil upcoming list: %+v (%v)", result, err)
	}
}

func TestMapIconURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		name string
		want string
	}{
		{name: "Dam", want: "https://cdn.metaforge.app/arc-raiders/ui/dam.webp"},
		{name: "Blue Gate", want: "https://cdn.metaforge.app/arc-raiders/ui/blue-gate.webp"},
		{name: "Blue  Gate", want: "https://cdn.metaforge.app/arc-raiders/ui/blue--gate.webp"},
		{base: "https://example.test/icons/", name: "Stella Montis", want: "https://example.test/icons/stella-montis.webp"},
	}

	for _, tc := range tests {
		if got := MapIconURL(tc.base, tc.name); got != tc.want {
			t.Fatalf("MapIconURL(%q, %q) = %q, want %q", tc.base, tc.name, got, tc.want)
		}
	}
}

func TestFilterMapsAndNames(t *testing.T) {
	t.Parallel()

	events := []RawEvent{
		harvesterEvent("Dam", "10:00", "11:00"),
		harvesterEvent("Spaceport", "12:00", "13:00"),
		harvesterEvent("dam", "14:00", "15:00"),
	}

	if got := FilterMaps(events, nil); len(got) != 3 {
		t.Fatalf("empty selection must keep all records, got %d", len(got))
	}
	if got := FilterMaps(events, []string{" DAM "}); len(got) != 2 {
		t.Fatalf("selection is case-insensitive, got %d records", len(got))
	}
	if got := MapNames(events); !reflect.DeepEqual(got, []string{"Dam", "Spaceport", "dam"}) {
		t.Fatalf("MapNames = %v", got)
	}

	events[1].Name = "Night Raid"
	if got := FilterNamed(events, DefaultEventName); len(got) != 2 {
		t.Fatalf("FilterNamed kept %d records, want 2", len(got))
	}
	if got := FilterNamed(events, ""); len(got) != 3 {
		t.Fatalf("empty name must keep all records, got %d", len(got))
	}
}

func TestParseWeekdays(t *testing.T) {
	t.Parallel()

	got := ParseWeekdays([]string{"Mon", "monday", "FRI", "Funday", " sun "})
	want := []time.Weekday{time.Monday, time.Friday, time.Sunday}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseWeekdays = %v, want %v", got, want)
	}

	event := harvesterEvent("Dam", "10:00", "11:00")
	event.Days = []string{"Funday"}
	if !AppliesOn(event, time.Tuesday) {
		t.Fatalf("records without recognised days apply every day")
	}
}
