package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/egyptian-spider/game/engine"
	"github.com/wricardo/egyptian-spider/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

const maxSessionIDLength = 64

// Option configures a Manager
type Option func(*Manager)

// WithPersistence stores sessions in p
func WithPersistence(p SessionPersistence) Option {
	return func(m *Manager) { m.persistence = p }
}

// WithConfigs resolves the config ids of persisted sessions
func WithConfigs(configs service.ConfigManager) Option {
	return func(m *Manager) { m.configs = configs }
}

// WithLogger sets the manager logger; engines get a child logger per session
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithEngineOptions appends options to every engine the manager builds
func WithEngineOptions(opts ...engine.Option) Option {
	return func(m *Manager) { m.engineOpts = append(m.engineOpts, opts...) }
}

// Manager handles game session lifecycle
type Manager struct {
	sessions    map[string]*service.Session
	stores      map[string]*sessionStore
	persistence SessionPersistence
	configs     service.ConfigManager
	engineOpts  []engine.Option
	logger      *zap.Logger
	mu          sync.RWMutex

	listenersMu sync.RWMutex
	listeners   []func(sessionID string, view engine.View)
}

// NewManager creates a new session manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*service.Session),
		stores:   make(map[string]*sessionStore),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnChange registers a listener for every engine change of every session
func (m *Manager) OnChange(fn func(sessionID string, view engine.View)) {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) notify(sessionID string, view engine.View) {
	m.listenersMu.RLock()
	listeners := m.listeners
	m.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(sessionID, view)
	}
}

// Create creates a new session and deals its first game. An empty id gets a
// random 4-character id.
func (m *Manager) Create(id, configID string, config *engine.GameConfig) (*service.Session, error) {
	if id == "" {
		id = m.generateSessionID()
	}
	if !validSessionID(id) {
		return nil, ErrInvalidSessionID
	}

	now := time.Now()
	record := PersistedSessionData{
		ID:             id,
		ConfigName:     configID,
		CreatedAt:      now,
		LastAccessedAt: now,
		Settings:       config.Settings,
	}
	session, store, err := m.build(record, config)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.sessionExists(id) || (m.persistence != nil && m.persistence.Exists(id)) {
		m.mu.Unlock()
		session.Engine.Close()
		return nil, ErrSessionAlreadyExists
	}
	m.sessions[strings.ToLower(id)] = session
	m.stores[strings.ToLower(id)] = store
	m.mu.Unlock()

	if err := store.update(func(*PersistedSessionData) {}); err != nil {
		m.logger.Warn("failed to persist session", zap.String("session", id), zap.Error(err))
	}
	session.Engine.Initialize(record.Settings)

	return session, nil
}

// build wires an engine to a session record
func (m *Manager) build(record PersistedSessionData, config *engine.GameConfig) (*service.Session, *sessionStore, error) {
	cfg := *config
	cfg.Settings = record.Settings

	store := newSessionStore(record, m.persistence)
	opts := append([]engine.Option{
		engine.WithStore(store),
		engine.WithLogger(m.logger.With(zap.String("session", record.ID))),
	}, m.engineOpts...)

	eng, err := engine.NewEngine(&cfg, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create engine: %w", err)
	}

	id := record.ID
	eng.OnChange(func(view engine.View) { m.notify(id, view) })

	session := &service.Session{
		ID:        record.ID,
		ConfigID:  record.ConfigName,
		Engine:    eng,
		Config:    config,
		CreatedAt: record.CreatedAt,
	}
	session.Touch(record.LastAccessedAt)
	return session, store, nil
}

// Get retrieves a session by ID (case-insensitive), loading it from
// persistence when it is not in memory.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()

	if exists {
		return session, nil
	}

	if m.persistence != nil && m.persistence.Exists(id) {
		return m.load(id)
	}

	return nil, ErrSessionNotFound
}

// load restores a persisted session. A record that cannot be decoded is
// replaced with a fresh game under the same id.
func (m *Manager) load(id string) (*service.Session, error) {
	record, err := m.persistence.Load(id)
	corrupt := errors.Is(err, ErrCorruptSession)
	switch {
	case corrupt:
		m.logger.Warn("session record corrupt, starting fresh", zap.String("session", id), zap.Error(err))
		now := time.Now()
		record = &PersistedSessionData{ID: id, CreatedAt: now, LastAccessedAt: now}
	case err != nil:
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}

	config, configID := m.resolveConfig(record.ConfigName)
	record.ConfigName = configID
	if corrupt {
		record.Settings = config.Settings
	}

	session, store, err := m.build(*record, config)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if existing, ok := m.sessions[strings.ToLower(id)]; ok {
		m.mu.Unlock()
		session.Engine.Close()
		return existing, nil
	}
	m.sessions[strings.ToLower(id)] = session
	m.stores[strings.ToLower(id)] = store
	m.mu.Unlock()

	session.Engine.Resume()
	return session, nil
}

// resolveConfig maps a config id to a preset, falling back to the default
func (m *Manager) resolveConfig(configID string) (*engine.GameConfig, string) {
	if m.configs == nil {
		def := engine.DefaultGameConfig()
		if configID == "" {
			configID = def.Name
		}
		return def, configID
	}
	if configID != "" {
		config, err := m.configs.LoadConfig(configID)
		if err == nil {
			return config, configID
		}
		m.logger.Warn("session config unavailable, using default", zap.String("config", configID), zap.Error(err))
	}
	def := m.configs.GetDefault()
	if configID == "" {
		configID = strings.ToLower(def.Name)
	}
	return def, configID
}

// List returns all active sessions ordered by ID
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result
}

// Delete removes a session from memory and persistence
func (m *Manager) Delete(id string) error {
	inMemory := m.DeleteFromMemory(id) == nil

	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}

	if !inMemory {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteFromMemory removes a session from memory only and stops its engine
func (m *Manager) DeleteFromMemory(id string) error {
	key := strings.ToLower(id)

	m.mu.Lock()
	session, exists := m.sessions[key]
	delete(m.sessions, key)
	delete(m.stores, key)
	m.mu.Unlock()

	if !exists {
		return ErrSessionNotFound
	}
	session.Engine.Close()
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	session, store, err := m.lookup(id)
	if err != nil {
		return err
	}

	now := time.Now()
	session.Touch(now)
	if err := store.update(func(r *PersistedSessionData) { r.LastAccessedAt = now }); err != nil {
		m.logger.Warn("failed to persist session after access update", zap.String("session", id), zap.Error(err))
	}
	return nil
}

// Save writes a session's metadata and current settings
func (m *Manager) Save(id string) error {
	session, store, err := m.lookup(id)
	if err != nil {
		return err
	}

	settings := session.Engine.Settings()
	lastAccess := session.LastAccessedAt()
	return store.update(func(r *PersistedSessionData) {
		r.Settings = settings
		r.LastAccessedAt = lastAccess
	})
}

func (m *Manager) lookup(id string) (*service.Session, *sessionStore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := strings.ToLower(id)
	session, exists := m.sessions[key]
	if !exists {
		return nil, nil, ErrSessionNotFound
	}
	return session, m.stores[key], nil
}

// CleanupExpiredSessions unloads sessions that haven't been accessed in the
// given duration. Persisted copies are kept.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	var expired []*service.Session
	for key, session := range m.sessions {
		if session.LastAccessedAt().Before(cutoff) {
			expired = append(expired, session)
			delete(m.sessions, key)
			delete(m.stores, key)
		}
	}
	m.mu.Unlock()

	for _, session := range expired {
		session.Engine.Close()
	}
	if len(expired) > 0 {
		m.logger.Info("unloaded idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// LoadPersistedSessions loads all persisted sessions into memory
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}

	sessionIDs, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	loadedCount := 0
	for _, id := range sessionIDs {
		m.mu.RLock()
		_, exists := m.sessions[strings.ToLower(id)]
		m.mu.RUnlock()
		if exists {
			continue
		}

		if _, err := m.load(id); err != nil {
			m.logger.Warn("failed to load persisted session", zap.String("session", id), zap.Error(err))
			continue
		}
		loadedCount++
	}

	if loadedCount > 0 {
		m.logger.Info("loaded persisted sessions", zap.Int("count", loadedCount))
	}
	return nil
}

// SaveAllSessions saves all in-memory sessions to persistence
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil
	}

	errorCount := 0
	for _, session := range m.List() {
		if err := m.Save(session.ID); err != nil {
			m.logger.Warn("failed to save session", zap.String("session", session.ID), zap.Error(err))
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("failed to save %d sessions", errorCount)
	}
	return nil
}

// Close saves every session and stops their engines
func (m *Manager) Close() error {
	err := m.SaveAllSessions()

	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*service.Session)
	m.stores = make(map[string]*sessionStore)
	m.mu.Unlock()

	for _, session := range sessions {
		session.Engine.Close()
	}
	return err
}

// generateSessionID generates a random 4-character session ID not yet in use
func (m *Manager) generateSessionID() string {
	bytes := make([]byte, 2)
	for {
		rand.Read(bytes)
		id := hex.EncodeToString(bytes)

		m.mu.RLock()
		taken := m.sessionExists(id)
		m.mu.RUnlock()
		if !taken && (m.persistence == nil || !m.persistence.Exists(id)) {
			return id
		}
	}
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}

// validSessionID accepts letters, digits, '-' and '_'
func validSessionID(id string) bool {
	if id == "" || len(id) > maxSessionIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
