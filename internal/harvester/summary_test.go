package harvester

import (
	"strings"
	"testing"
	"time"
)

func TestSummarize_Next(t *testing.T) {
	t.Parallel()

	events := []RawEvent{
		harvesterEvent("Dam", "10:00", "11:00"),
		harvesterEvent("Spaceport", "10:00", "11:00"),
	}
	result, err := Resolve(events, DefaultEventName, at(8, 55, time.UTC))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	summary, ok := Summarize(result, DefaultEventName)
	if !ok {
		t.Fatalf("expected a summary")
	}
	want := "🌾 *Next Harvester Event*\n\n📍 *Dam, Spaceport*\n⏰ 10:00 AM - 11:00 AM\n⏳ 1h 5m"
	if summary.Text != want {
		t.Fatalf("text = %q, want %q", summary.Text, want)
	}
	if summary.HoursUntil != 1 || summary.MinutesUntil != 5 || summary.IsCurrent {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if got := CountdownText(*result.CurrentOrNext); got != "in 1h 5m" {
		t.Fatalf("countdown text = %q", got)
	}
}

func TestSummarize_Current(t *testing.T) {
	t.Parallel()

	result, err := Resolve([]RawEvent{harvesterEvent("Dam", "10:00", "11:00")}, DefaultEventName, at(10, 30, time.UTC))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	summary, ok := Summarize(result, "")
	if !ok || !summary.IsCurrent {
		t.Fatalf("expected current summary, got %+v", summary)
	}
	if !strings.HasSuffix(summary.Text, "⏳ Ends in 30m") || !strings.HasPrefix(summary.Text, "🌾 *Harvester Event Live*") {
		t.Fatalf("text = %q", summary.Text)
	}
	if got := CountdownText(*result.CurrentOrNext); got != "Ends in 30m" {
		t.Fatalf("countdown text = %q", got)
	}
}

func TestSummarize_NotFound(t *testing.T) {
	t.Parallel()

	if _, ok := Summarize(Result{}, DefaultEventName); ok {
		t.Fatalf("empty result must not summarize")
	}
	if got := CountdownText(Entry{}); got != "Now" {
		t.Fatalf("zero wait = %q, want Now", got)
	}
}
