package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Selection is the user's map filter. A missing file means every map; a
// saved empty list means none.
type Selection struct {
	SelectedMaps []string `json:"selectedMaps"`
	UpdatedAt    string   `json:"updatedAt,omitempty"`

	Exists bool `json:"-"`
}

func SaveSelection(fs afero.Fs, path string, maps []string) error {
	selection := Selection{
		SelectedMaps: normalizeNames(maps),
		UpdatedAt:    time.Now().UTC().Format(time.RFC3339),
		Exists:       true,
	}

	payload, err := json.MarshalIndent(selection, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal selection: %w", err)
	}
	return writeFileAtomically(fs, path, append(payload, '\n'))
}

func LoadSelection(fs afero.Fs, path string) (Selection, error) {
	raw, err := afero.ReadFile(orOS(fs), path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Selection{Exists: false}, nil
		}
		return Selection{}, fmt.Errorf("read selection file: %w", err)
	}

	if len(strings.TrimSpace(string(raw))) == 0 {
		return Selection{Exists: true}, nil
	}

	var selection Selection
	if err := json.Unmarshal(raw, &selection); err != nil {
		return Selection{}, fmt.Errorf("decode selection file: %w", err)
	}
	selection.Exists = true
	selection.SelectedMaps = normalizeNames(selection.SelectedMaps)
	return selection, nil
}

func normalizeNames(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	normalized := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}

	sort.Strings(normalized)
	return normalized
}
