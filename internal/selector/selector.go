package selector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

var ErrSelectionCancelled = errors.New("map selection cancelled")

// SelectMaps shows a zenity checklist of maps and returns the ticked names.
func SelectMaps(ctx context.Context, maps []string, currentSelected map[string]bool) ([]string, error) {
	if len(maps) == 0 {
		return nil, fmt.Errorf("no maps available; run refresh first")
	}

	if !hasGraphicalSession() {
		return nil, fmt.Errorf("map selection requires a graphical session")
	}

	if _, err := exec.LookPath("zenity"); err != nil {
		return nil, fmt.Errorf("zenity is required for map selection")
	}

	cmd := exec.CommandContext(ctx, "zenity", zenityArgs(maps, currentSelected)...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return nil, ErrSelectionCancelled
		}
		return nil, fmt.Errorf("zenity selector failed: %w", err)
	}

	return normalizeNames(parseSelectionOutput(string(out))), nil
}

func hasGraphicalSession() bool {
	return strings.TrimSpace(os.Getenv("WAYLAND_DISPLAY")) != "" || strings.TrimSpace(os.Getenv("DISPLAY")) != ""
}

func zenityArgs(maps []string, currentSelected map[string]bool) []string {
	args := []string{
		"--list",
		"--checklist",
		"--title=Waybar Harvester Maps",
		"--text=Select maps to include in the Harvester module",
		"--modal",
		"--width=520",
		"--height=480",
		"--separator=\n",
		"--column=Use",
		"--column=Map",
	}

	for _, name := range maps {
		checked := "FALSE"
		if currentSelected[name] {
			checked = "TRUE"
		}
		args = append(args, checked, name)
	}
	return args
}

func parseSelectionOutput(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	parts := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '\n' || r == '|'
	})
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value == "" {
			continue
		}
		result = append(result, value)
	}
	return result
}

func normalizeNames(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	sort.Strings(result)
	return result
}
