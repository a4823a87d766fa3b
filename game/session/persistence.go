package session

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/wricardo/egyptian-spider/game/engine"
)

// ErrCorruptSession marks a persisted session record that cannot be decoded
var ErrCorruptSession = errors.New("corrupt session record")

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session record
	Save(data *PersistedSessionData) error

	// Load retrieves a session record by ID
	Load(id string) (*PersistedSessionData, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData represents the JSON structure for persisted sessions.
// Game is the engine's serialized {state, history}; settings live beside it.
type PersistedSessionData struct {
	ID             string          `json:"id"`
	ConfigName     string          `json:"config_name"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	Settings       engine.Settings `json:"settings"`
	Game           json.RawMessage `json:"game,omitempty"`
}

func decodeRecord(id string, raw []byte) (*PersistedSessionData, error) {
	var data PersistedSessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Join(ErrCorruptSession, err)
	}
	if data.ID == "" {
		data.ID = id
	}
	return &data, nil
}
