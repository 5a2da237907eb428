package state

import (
	"fmt"
	"html"
	"strings"

	"github.com/spf13/afero"

	"github.com/rbright/waybar-harvester/internal/harvester"
)

type MenuData struct {
	StatusLine string
	Highlight  *harvester.Entry
	Items      []harvester.Entry
}

func WriteMenu(fs afero.Fs, path string, data MenuData) error {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<interface>\n")
	b.WriteString("  <object class=\"GtkMenu\" id=\"menu\">\n")

	if data.Highlight != nil {
		prefix := "Next"
		if data.Highlight.IsCurrent {
			prefix = "Live"
		}
		label := fmt.Sprintf("%s: %s (%s)", prefix, mapsLabel(data.Highlight.Maps), harvester.CountdownText(*data.Highlight))
		writeMenuItem(&b, "highlight", label)
		writeSeparator(&b, "separator_highlight")
	}

	if len(data.Items) > 0 {
		for idx, item := range data.Items {
			label := fmt.Sprintf("%s - %s · %s · %s", item.StartLabel(), item.EndLabel(), mapsLabel(item.Maps), harvester.CountdownText(item))
			writeMenuItem(&b, fmt.Sprintf("slot_%d", idx+1), label)
		}
	} else {
		writeMenuItem(&b, "noop", fallback(data.StatusLine, "No upcoming Harvester events"))
	}

	writeSeparator(&b, "separator_actions")
	writeMenuItem(&b, "select_maps", "Select Maps…")
	writeMenuItem(&b, "refresh", "Refresh")

	b.WriteString("  </object>\n")
	b.WriteString("</interface>\n")

	return writeFileAtomically(fs, path, []byte(b.String()))
}

func writeMenuItem(b *strings.Builder, id, label string) {
	b.WriteString("    <child>\n")
	_, _ = fmt.Fprintf(b, "      <object class=\"GtkMenuItem\" id=\"%s\">\n", html.EscapeString(id))
	_, _ = fmt.Fprintf(b, "        <property name=\"label\">%s</property>\n", html.EscapeString(label))
	b.WriteString("      </object>\n")
	b.WriteString("    </child>\n")
}

func writeSeparator(b *strings.Builder, id string) {
	b.WriteString("    <child>\n")
	_, _ = fmt.Fprintf(b, "      <object class=\"GtkSeparatorMenuItem\" id=\"%s\" />\n", html.EscapeString(id))
	b.WriteString("    </child>\n")
}

func mapsLabel(maps []string) string {
	return fallback(strings.Join(maps, ", "), "Unknown map")
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}
