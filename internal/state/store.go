package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/rbright/waybar-harvester/internal/harvester"
)

var ErrNotFound = errors.New("snapshot not found")

// Snapshot is the last feed response the presenter saw.
type Snapshot struct {
	FetchedAt time.Time            `json:"fetched_at"`
	Events    []harvester.RawEvent `json:"events"`
}

// Fresh reports whether the snapshot is younger than ttl at now.
func (s Snapshot) Fresh(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 || s.FetchedAt.IsZero() {
		return false
	}
	return now.Sub(s.FetchedAt) < ttl
}

type Store struct {
	fs   afero.Fs
	path string
}

func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: orOS(fs), path: path}
}

func (s *Store) Load() (*Snapshot, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read snapshot file %s: %w", s.path, err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot file %s: %w", s.path, err)
	}
	if snapshot.Events == nil {
		snapshot.Events = []harvester.RawEvent{}
	}
	return &snapshot, nil
}

func (s *Store) Save(events []harvester.RawEvent, fetchedAt time.Time) error {
	if events == nil {
		events = []harvester.RawEvent{}
	}
	snapshot := Snapshot{
		FetchedAt: fetchedAt.UTC(),
		Events:    events,
	}

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return writeFileAtomically(s.fs, s.path, append(payload, '\n'))
}
