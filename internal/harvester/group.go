package harvester

import (
	"fmt"
	"sort"
	"strings"
)

const DefaultIconBaseURL = "https://cdn.metaforge.app/arc-raiders/ui"

type flatWindow struct {
	start    string
	end      string
	startUTC TimeOfDay
	endUTC   TimeOfDay
	mapName  string
}

type groupedSlot struct {
	slot     Slot
	startUTC TimeOfDay
	endUTC   TimeOfDay
}

// GroupSlots flattens the matching records into (map, start, end) triples and
// merges triples with byte-identical start/end strings into one Slot.
func GroupSlots(events []RawEvent, name, iconBaseURL string) ([]Slot, error) {
	grouped, err := groupSlots(events, name, iconBaseURL)
	if err != nil {
		return nil, err
	}

	slots := make([]Slot, 0, len(grouped))
	for _, item := range grouped {
		slots = append(slots, item.slot)
	}
	return slots, nil
}

func groupSlots(events []RawEvent, name, iconBaseURL string) ([]groupedSlot, error) {
	if len(events) == 0 {
		return nil, nil
	}

	flat := make([]flatWindow, 0, len(events))
	for _, event := range events {
		if name != "" && event.Name != name {
			continue
		}
		for _, window := range event.Times {
			start, err := ParseTimeOfDay(window.Start)
			if err != nil {
				return nil, fmt.Errorf("%s on %s: start: %w", event.Name, event.Map, err)
			}
			end, err := ParseTimeOfDay(window.End)
			if err != nil {
				return nil, fmt.Errorf("%s on %s: end: %w", event.Name, event.Map, err)
			}
			flat = append(flat, flatWindow{
				start:    window.Start,
				end:      window.End,
				startUTC: start,
				endUTC:   end,
				mapName:  event.Map,
			})
		}
	}

	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].startUTC.Minutes() < flat[j].startUTC.Minutes()
	})

	index := make(map[string]int, len(flat))
	grouped := make([]groupedSlot, 0, len(flat))
	for _, window := range flat {
		key := window.start + "-" + window.end
		pos, ok := index[key]
		if !ok {
			pos = len(grouped)
			index[key] = pos
			grouped = append(grouped, groupedSlot{
				slot: Slot{
					Start:    window.start,
					End:      window.end,
					Maps:     []string{},
					MapIcons: []string{},
				},
				startUTC: window.startUTC,
				endUTC:   window.endUTC,
			})
		}

		slot := &grouped[pos].slot
		if containsString(slot.Maps, window.mapName) {
			continue
		}
		slot.Maps = append(slot.Maps, window.mapName)
		slot.MapIcons = append(slot.MapIcons, MapIconURL(iconBaseURL, window.mapName))
	}

	return grouped, nil
}

// MapIconURL derives the CDN image for a map: lower-cased name with every
// space replaced by "-".
func MapIconURL(baseURL, mapName string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultIconBaseURL
	}
	slug := strings.ReplaceAll(strings.ToLower(mapName), " ", "-")
	return base + "/" + slug + ".webp"
}

// FilterMaps keeps records for the selected maps. An empty selection keeps all.
func FilterMaps(events []RawEvent, maps []string) []RawEvent {
	if len(maps) == 0 {
		return events
	}

	selected := make(map[string]struct{}, len(maps))
	for _, name := range maps {
		selected[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	filtered := make([]RawEvent, 0, len(events))
	for _, event := range events {
		if _, ok := selected[strings.ToLower(strings.TrimSpace(event.Map))]; !ok {
			continue
		}
		filtered = append(filtered, event)
	}
	return filtered
}

// FilterNamed keeps records whose name matches exactly. Empty name keeps all.
func FilterNamed(events []RawEvent, name string) []RawEvent {
	if name == "" {
		return events
	}
	filtered := make([]RawEvent, 0, len(events))
	for _, event := range events {
		if event.Name == name {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// MapNames lists the distinct maps in feed order.
func MapNames(events []RawEvent) []string {
	names := make([]string, 0, len(events))
	for _, event := range events {
		name := strings.TrimSpace(event.Map)
		if name == "" || containsString(names, name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
