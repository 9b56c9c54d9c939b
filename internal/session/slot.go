package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// slotFileName is the single durable entry holding the session snapshot.
const slotFileName = "auth-storage.json"

// snapshot is the persisted subset of the session. The loading flag is
// deliberately excluded so it can never survive a restart stuck true.
type snapshot struct {
	User          *User  `json:"user"`
	Token         string `json:"token"`
	RefreshToken  string `json:"refresh_token,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

// Slot persists the session snapshot to a single file under the state
// directory. Writes are full snapshot replacements, never merges.
type Slot struct {
	baseDir string
}

// NewSlot creates a slot under baseDir. If baseDir is empty, uses ~/.axiom.
func NewSlot(baseDir string) (*Slot, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".axiom")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	log.Debug().Str("baseDir", baseDir).Msg("session slot initialized")

	return &Slot{baseDir: baseDir}, nil
}

func (s *Slot) path() string {
	return filepath.Join(s.baseDir, slotFileName)
}

// Load reads the persisted snapshot. Returns (nil, nil) when no snapshot
// exists; a corrupt or unreadable file is an error the caller may treat as
// an absent snapshot.
func (s *Slot) Load() (*snapshot, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse session snapshot: %w", err)
	}

	return &snap, nil
}

// Save writes the snapshot atomically.
func (s *Slot) Save(snap snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}

	// Write to temp file first
	tempPath := s.path() + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session snapshot: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, s.path()); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}

	return nil
}

// Erase removes the persisted snapshot. Erasing an absent slot is a no-op.
func (s *Slot) Erase() error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to erase session snapshot: %w", err)
	}
	return nil
}
