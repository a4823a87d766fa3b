package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wricardo/egyptian-spider/game/engine"
)

// maxAdvanceSteps bounds a single Advance call; a deal plus a full
// auto-completion is well under it.
const maxAdvanceSteps = 512

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   *zap.Logger
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, logger *zap.Logger) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   logger,
	}
}

// CreateSession creates a new game session and deals its first game
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	var config *engine.GameConfig
	var err error
	configID := configName
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found, available configs: %v: %w", configName, configIDs, err)
				}
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.getConfigID(config.Name)
	}

	session, err := s.sessions.Create("", configID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session created", zap.String("session", session.ID), zap.String("config", configID))
	return session.Info(), nil
}

// getConfigID returns the config_id for a display name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Info(), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sess.Info())
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	s.logger.Info("session deleted", zap.String("session", sessionID))
	return nil
}

// NewGame deals a fresh game, optionally with new settings
func (s *gameServiceImpl) NewGame(ctx context.Context, sessionID string, settings *engine.Settings) (*ActionResult, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	active := session.Engine.Settings()
	if settings != nil {
		active = *settings
	}
	session.Engine.Initialize(active)

	if err := s.sessions.Save(sessionID); err != nil {
		s.logger.Warn("failed to save session settings", zap.String("session", sessionID), zap.Error(err))
	}
	return s.result(session, "new_game", true, "New game dealt"), nil
}

// MoveCard moves a run or a foundation card
func (s *gameServiceImpl) MoveCard(ctx context.Context, sessionID string, src engine.Source, dst engine.Target) (*ActionResult, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	ok := session.Engine.MoveCard(src, dst)
	return s.result(session, "move", ok, moveMessage(ok, src, dst)), nil
}

// DrawCards deals from the stock
func (s *gameServiceImpl) DrawCards(ctx context.Context, sessionID string) (*ActionResult, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	ok := session.Engine.DrawCards()
	msg := "Drew one card onto every unfinished column"
	if !ok {
		msg = "Cannot draw: the stock is empty, a deal is in progress, or every column is complete"
	}
	return s.result(session, "draw", ok, msg), nil
}

// AutoMoveToFoundation sends a column's top card to a foundation
func (s *gameServiceImpl) AutoMoveToFoundation(ctx context.Context, sessionID, cardID string, src engine.Source) (*ActionResult, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	ok := session.Engine.AutoMoveToFoundation(cardID, src)
	msg := fmt.Sprintf("Moved the top card of column %d to a foundation", src.Index)
	if !ok {
		msg = fmt.Sprintf("No foundation accepts the top card of column %d", src.Index)
	}
	return s.result(session, "auto_foundation", ok, msg), nil
}

// Undo reverts the most recent move
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*ActionResult, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	ok := session.Engine.Undo()
	msg := "Undid the last move"
	if !ok {
		msg = "Nothing to undo"
	}
	return s.result(session, "undo", ok, msg), nil
}

// Advance applies up to steps pending deal, draw or auto-complete steps
// without waiting for their timers. steps <= 0 drains the queue.
func (s *gameServiceImpl) Advance(ctx context.Context, sessionID string, steps int) (*ActionResult, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if steps <= 0 || steps > maxAdvanceSteps {
		steps = maxAdvanceSteps
	}

	applied := 0
	for applied < steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !session.Engine.Step() {
			break
		}
		applied++
	}
	return s.result(session, "advance", applied > 0, fmt.Sprintf("Applied %d pending steps", applied)), nil
}

// GetGameState returns the current view of a session
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.View, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	view := session.Engine.View()
	return &view, nil
}

// LegalMoves lists the moves currently accepted; empty while a deal or
// auto-completion runs.
func (s *gameServiceImpl) LegalMoves(ctx context.Context, sessionID string) ([]engine.Move, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Engine.Phase() != engine.PhaseReady {
		return []engine.Move{}, nil
	}
	moves := engine.LegalMoves(session.Engine.State(), session.Engine.Settings())
	if moves == nil {
		moves = []engine.Move{}
	}
	return moves, nil
}

// ListConfigs returns all available configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a configuration
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		s.logger.Debug("failed to update last access", zap.String("session", sessionID), zap.Error(err))
	}
	return session, nil
}

func (s *gameServiceImpl) result(session *Session, action string, accepted bool, message string) *ActionResult {
	if !accepted {
		s.logger.Debug("command rejected", zap.String("session", session.ID), zap.String("action", action))
	}
	return &ActionResult{
		Accepted: accepted,
		Action:   action,
		Message:  message,
		View:     session.Engine.View(),
	}
}

func moveMessage(ok bool, src engine.Source, dst engine.Target) string {
	from := fmt.Sprintf("%s %d", src.Kind, src.Index)
	if src.CardIndex != nil {
		from = fmt.Sprintf("%s %d card %d", src.Kind, src.Index, *src.CardIndex)
	}
	if ok {
		return fmt.Sprintf("Moved %s to %s %d", from, dst.Kind, dst.Index)
	}
	return fmt.Sprintf("Illegal move from %s to %s %d", from, dst.Kind, dst.Index)
}
