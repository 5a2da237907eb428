package waybar

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rbright/waybar-harvester/internal/harvester"
)

const defaultIcon = "🌾"

type Output struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Class   string `json:"class"`
}

type Options struct {
	EventName string
	Icon      string
	MaxItems  int
	FetchedAt time.Time
	// StaleError is set when the result was built from a cached snapshot
	// because the refresh failed.
	StaleError string
}

func Render(result harvester.Result, opts Options) Output {
	icon := iconOrDefault(opts.Icon)

	classes := []string{"none"}
	text := fmt.Sprintf("%s --", icon)
	if result.Found() {
		classes[0] = "upcoming"
		if result.IsCurrent {
			classes[0] = "current"
		}
		text = fmt.Sprintf("%s %s", icon, harvester.CountdownText(*result.CurrentOrNext))
	}
	if strings.TrimSpace(opts.StaleError) != "" {
		classes = append(classes, "stale")
	}

	return Output{
		Text:    text,
		Tooltip: tooltip(result, opts),
		Class:   strings.Join(classes, " "),
	}
}

func RenderError(icon, message string) Output {
	return Output{
		Text:    fmt.Sprintf("%s !", iconOrDefault(icon)),
		Tooltip: strings.TrimSpace(message),
		Class:   "error",
	}
}

func Encode(output Output) ([]byte, error) {
	payload, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("marshal waybar output: %w", err)
	}
	return payload, nil
}

// UpcomingLines renders one line per entry, capped at max when max > 0.
func UpcomingLines(entries []harvester.Entry, max int) []string {
	if max > 0 && len(entries) > max {
		entries = entries[:max]
	}
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf(
			"%s - %s  %s  %s",
			entry.StartLabel(),
			entry.EndLabel(),
			strings.Join(entry.Maps, ", "),
			harvester.CountdownText(entry),
		))
	}
	return lines
}

func tooltip(result harvester.Result, opts Options) string {
	name := strings.TrimSpace(opts.EventName)
	if name == "" {
		name = harvester.DefaultEventName
	}

	var lines []string
	if result.Found() {
		entry := result.CurrentOrNext
		heading := fmt.Sprintf("Next %s: %s", name, strings.Join(entry.Maps, ", "))
		if result.IsCurrent {
			heading = fmt.Sprintf("%s live: %s", name, strings.Join(entry.Maps, ", "))
		}
		lines = append(lines,
			heading,
			fmt.Sprintf("%s - %s (%s)", entry.StartLabel(), entry.EndLabel(), harvester.CountdownText(*entry)),
		)
	} else {
		lines = append(lines, fmt.Sprintf("No upcoming %s events", name))
	}

	if upcoming := UpcomingLines(result.Upcoming, opts.MaxItems); len(upcoming) > 0 {
		lines = append(lines, "", "Upcoming:")
		lines = append(lines, upcoming...)
	}

	if !opts.FetchedAt.IsZero() {
		now := result.EvaluatedAt
		if now.IsZero() {
			now = time.Now()
		}
		lines = append(lines, "", fmt.Sprintf("Updated: %s", humanize.RelTime(opts.FetchedAt, now, "ago", "from now")))
	}

	if strings.TrimSpace(opts.StaleError) != "" {
		lines = append(lines, "", fmt.Sprintf("Cached data (refresh failed): %s", strings.TrimSpace(opts.StaleError)))
	}

	return strings.Join(lines, "\n")
}

func iconOrDefault(icon string) string {
	if strings.TrimSpace(icon) != "" {
		return icon
	}
	return defaultIcon
}
