package service

import (
	"sync"
	"time"

	"github.com/wricardo/egyptian-spider/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string          `json:"id"`
	ConfigName     string          `json:"config_name"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	Settings       engine.Settings `json:"settings"`
	View           engine.View     `json:"view"`
}

// ActionResult contains the outcome of a game command
type ActionResult struct {
	Accepted bool        `json:"accepted"`
	Action   string      `json:"action"`
	Message  string      `json:"message"`
	View     engine.View `json:"view"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string          `json:"filename"`
	ConfigID    string          `json:"config_id"` // The identifier to use for session creation
	Name        string          `json:"name"`      // Display name
	Description string          `json:"description"`
	Settings    engine.Settings `json:"settings"`
}

// Session represents an active game session
type Session struct {
	ID        string
	ConfigID  string
	Engine    *engine.GameEngine
	Config    *engine.GameConfig
	CreatedAt time.Time

	mu             sync.Mutex
	lastAccessedAt time.Time
}

// Touch records an access
func (s *Session) Touch(at time.Time) {
	s.mu.Lock()
	s.lastAccessedAt = at
	s.mu.Unlock()
}

// LastAccessedAt returns the time of the latest access
func (s *Session) LastAccessedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}

// Info snapshots the session for transports
func (s *Session) Info() *SessionInfo {
	return &SessionInfo{
		ID:             s.ID,
		ConfigName:     s.ConfigID,
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.LastAccessedAt(),
		Settings:       s.Engine.Settings(),
		View:           s.Engine.View(),
	}
}
