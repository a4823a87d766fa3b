package service

import (
	"context"
	"errors"

	"github.com/wricardo/egyptian-spider/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations; a rejected command is reported through ActionResult.Accepted
	NewGame(ctx context.Context, sessionID string, settings *engine.Settings) (*ActionResult, error)
	MoveCard(ctx context.Context, sessionID string, src engine.Source, dst engine.Target) (*ActionResult, error)
	DrawCards(ctx context.Context, sessionID string) (*ActionResult, error)
	AutoMoveToFoundation(ctx context.Context, sessionID, cardID string, src engine.Source) (*ActionResult, error)
	Undo(ctx context.Context, sessionID string) (*ActionResult, error)
	Advance(ctx context.Context, sessionID string, steps int) (*ActionResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.View, error)
	LegalMoves(ctx context.Context, sessionID string) ([]engine.Move, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, configID string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}
