package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// Notified remembers which slots already raised a desktop notification,
// keyed by slot key with the local date as value.
type Notified struct {
	Sent map[string]string `json:"sent"`
}

func (n *Notified) Seen(slotKey, day string) bool {
	return n.Sent[slotKey] == day
}

// Mark records slotKey for day and forgets entries from other days.
func (n *Notified) Mark(slotKey, day string) {
	for key, value := range n.Sent {
		if value != day {
			delete(n.Sent, key)
		}
	}
	if n.Sent == nil {
		n.Sent = make(map[string]string)
	}
	n.Sent[slotKey] = day
}

func LoadNotified(fs afero.Fs, path string) (*Notified, error) {
	raw, err := afero.ReadFile(orOS(fs), path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Notified{Sent: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("read notified file: %w", err)
	}

	var notified Notified
	if err := json.Unmarshal(raw, &notified); err != nil {
		return nil, fmt.Errorf("decode notified file: %w", err)
	}
	if notified.Sent == nil {
		notified.Sent = map[string]string{}
	}
	return &notified, nil
}

func SaveNotified(fs afero.Fs, path string, notified *Notified) error {
	payload, err := json.MarshalIndent(notified, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal notified: %w", err)
	}
	return writeFileAtomically(fs, path, append(payload, '\n'))
}
