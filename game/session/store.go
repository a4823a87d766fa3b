package session

import (
	"sync"

	"github.com/wricardo/egyptian-spider/game/engine"
)

// sessionStore adapts one session record to engine.Store. The record is
// written through to the persistence backend on every change.
type sessionStore struct {
	mu          sync.Mutex
	record      PersistedSessionData
	persistence SessionPersistence
}

func newSessionStore(record PersistedSessionData, persistence SessionPersistence) *sessionStore {
	return &sessionStore{record: record, persistence: persistence}
}

// Load decodes the saved game, or returns nil when the record holds none
func (s *sessionStore) Load() (*engine.SavedGame, error) {
	s.mu.Lock()
	game := s.record.Game
	s.mu.Unlock()

	if len(game) == 0 || string(game) == "null" {
		return nil, nil
	}
	return engine.DecodeSavedGame(game)
}

func (s *sessionStore) Save(saved engine.SavedGame) error {
	data, err := engine.EncodeSavedGame(saved)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record.Game = data
	return s.writeLocked()
}

func (s *sessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record.Game = nil
	return s.writeLocked()
}

// update changes the record metadata and writes it
func (s *sessionStore) update(fn func(*PersistedSessionData)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.record)
	return s.writeLocked()
}

func (s *sessionStore) snapshot() PersistedSessionData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

func (s *sessionStore) writeLocked() error {
	if s.persistence == nil {
		return nil
	}
	record := s.record
	return s.persistence.Save(&record)
}
