package engine

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/egyptian-spider/game/cards"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Lifecycle
	Initialize(settings Settings)
	Resume()
	Restore(saved SavedGame) error
	Close()

	// Commands; a false return means the command was rejected and nothing changed
	MoveCard(src Source, dst Target) bool
	DrawCards() bool
	AutoMoveToFoundation(cardID string, src Source) bool
	Undo() bool

	// Step applies one pending deal, draw or auto-complete step
	Step() bool

	// Queries
	State() *GameState
	View() View
	Phase() Phase
	IsDealing() bool
	CanUndo() bool
	IsWon() bool
	Settings() Settings
	GetConfig() *GameConfig

	// OnChange registers a listener called after every state change
	OnChange(fn func(View))
}

// Store persists the settled game between processes
type Store interface {
	// Load returns nil with a nil error when nothing was saved.
	Load() (*SavedGame, error)
	Save(saved SavedGame) error
	Clear() error
}

// Option configures a GameEngine
type Option func(*GameEngine)

// WithLogger sets the engine logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *GameEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStore sets the persistence adapter
func WithStore(store Store) Option {
	return func(e *GameEngine) {
		e.store = store
	}
}

// WithRand sets the random source used for shuffling
func WithRand(rng *rand.Rand) Option {
	return func(e *GameEngine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithTiming overrides the timing derived from the config
func WithTiming(timing Timing) Option {
	return func(e *GameEngine) {
		e.timing = timing
	}
}

// GameEngine implements the Engine interface. All mutations are serialized
// through mu; listeners run after mu is released.
type GameEngine struct {
	mu sync.Mutex

	config   *GameConfig
	settings Settings
	timing   Timing
	logger   *zap.Logger
	store    Store
	rng      *rand.Rand

	state   *GameState
	history *History
	phase   Phase

	scheduler

	closed    bool
	listeners []func(View)
}

// NewEngine creates a new game engine with the provided configuration.
// The engine starts idle; call Initialize or Resume to start playing.
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &GameEngine{
		config:   config,
		settings: config.Settings,
		timing:   config.Timing(),
		logger:   zap.NewNop(),
		rng:      rand.New(rand.NewSource(seed)),
		history:  NewHistory(nil),
		phase:    PhaseIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.String("config", config.Name))
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with default configuration
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	e, _ := NewEngine(DefaultGameConfig(), opts...)
	return e
}

// Initialize starts a fresh game, cancelling anything still scheduled
func (e *GameEngine) Initialize(settings Settings) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.initializeLocked(settings)
	e.unlockAndNotify(true)
}

func (e *GameEngine) initializeLocked(settings Settings) {
	e.cancelLocked()
	e.settings = settings
	e.history.Reset()
	if e.store != nil {
		if err := e.store.Clear(); err != nil {
			e.logger.Warn("failed to clear saved game", zap.Error(err))
		}
	}

	e.state = NewEmptyState()
	e.state.Stock = cards.NewShuffledDeck(e.rng)
	e.phase = PhaseDealing

	for _, t := range DealTargets() {
		e.enqueue(step{kind: stepDeal, column: t.Column, faceUp: t.FaceUp || settings.RevealAllCards})
	}
	e.enqueue(step{kind: stepSettle})

	e.logger.Debug("dealing new game",
		zap.Bool("reveal_all_cards", settings.RevealAllCards),
		zap.Bool("allow_any_card_to_empty_column", settings.AllowAnyCardToEmptyColumn))

	e.runLocked(true)
}

// Resume restores the saved game from the store, or starts a fresh one when
// nothing usable was saved.
func (e *GameEngine) Resume() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}

	var saved *SavedGame
	var err error
	if e.store != nil {
		saved, err = e.store.Load()
	}

	switch {
	case err != nil:
		e.logger.Warn("saved game unreadable, starting fresh", zap.Error(err))
		e.initializeLocked(e.settings)
	case saved == nil:
		e.initializeLocked(e.settings)
	default:
		if rerr := e.restoreLocked(*saved); rerr != nil {
			e.logger.Warn("saved game rejected, starting fresh", zap.Error(rerr))
			e.initializeLocked(e.settings)
		}
	}
	e.unlockAndNotify(true)
}

// Restore replaces the current game with a saved one after validating it
func (e *GameEngine) Restore(saved SavedGame) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	if err := e.restoreLocked(saved); err != nil {
		e.mu.Unlock()
		return err
	}
	e.unlockAndNotify(true)
	return nil
}

func (e *GameEngine) restoreLocked(saved SavedGame) error {
	if err := ValidateSavedGame(saved); err != nil {
		return err
	}

	e.cancelLocked()
	e.state = saved.State.Clone()
	e.history = NewHistory(cloneStates(saved.History))
	e.phase = PhaseReady
	e.logger.Debug("restored saved game",
		zap.Int("moves", e.state.Moves),
		zap.Int("history", e.history.Len()))

	e.persistLocked()
	e.checkAutoCompleteLocked()
	e.runLocked(false)
	return nil
}

// MoveCard moves a column run or a foundation's top card onto a target pile
func (e *GameEngine) MoveCard(src Source, dst Target) bool {
	e.mu.Lock()
	ok := e.acceptingLocked() && e.moveLocked(src, dst)
	if ok {
		e.afterMoveLocked()
	}
	e.unlockAndNotify(ok)
	return ok
}

func (e *GameEngine) moveLocked(src Source, dst Target) bool {
	moving, ok := e.state.PickUp(src)
	if !ok {
		return false
	}
	if src.Kind == dst.Kind && src.Index == dst.Index {
		return false
	}
	if !e.state.canPlace(moving, dst, e.settings) {
		return false
	}

	e.history.Push(e.state.Clone())
	e.state.removeFrom(src, len(moving))
	e.state.place(moving, dst)
	e.state.Moves++

	e.logger.Debug("card moved",
		zap.String("card", moving[0].String()),
		zap.Int("count", len(moving)),
		zap.String("from", string(src.Kind)), zap.Int("from_index", src.Index),
		zap.String("to", string(dst.Kind)), zap.Int("to_index", dst.Index))
	return true
}

// AutoMoveToFoundation sends a column's top card to the first foundation
// accepting it. A nil CardIndex refers to the top card.
func (e *GameEngine) AutoMoveToFoundation(cardID string, src Source) bool {
	e.mu.Lock()
	ok := e.acceptingLocked() && e.autoMoveLocked(cardID, src)
	if ok {
		e.afterMoveLocked()
	}
	e.unlockAndNotify(ok)
	return ok
}

func (e *GameEngine) autoMoveLocked(cardID string, src Source) bool {
	if src.Kind != PileColumn || !e.state.validColumn(src.Index) {
		return false
	}
	col := e.state.Columns[src.Index]
	if len(col) == 0 {
		return false
	}
	top := len(col) - 1
	if src.CardIndex != nil && *src.CardIndex != top {
		return false
	}
	card := col[top]
	if !card.FaceUp || (cardID != "" && card.ID != cardID) {
		return false
	}

	for f := range e.state.Foundations {
		if e.moveLocked(ColumnSource(src.Index, top), Target{Kind: PileFoundation, Index: f}) {
			return true
		}
	}
	return false
}

// DrawCards deals one face-up stock card onto every column that is not yet
// complete. The whole batch counts as a single move.
func (e *GameEngine) DrawCards() bool {
	e.mu.Lock()
	ok := e.acceptingLocked() && e.drawLocked()
	e.unlockAndNotify(ok)
	return ok
}

func (e *GameEngine) drawLocked() bool {
	if len(e.state.Stock) == 0 {
		return false
	}
	eligible := e.state.drawEligibleColumns()
	if len(eligible) == 0 {
		return false
	}

	e.history.Push(e.state.Clone())
	e.phase = PhaseDealing
	for i, col := range eligible {
		e.enqueue(step{kind: stepDraw, column: col, faceUp: true, countMove: i == 0})
	}
	e.enqueue(step{kind: stepSettle})
	e.logger.Debug("drawing from stock", zap.Int("columns", len(eligible)), zap.Int("stock", len(e.state.Stock)))

	e.runLocked(true)
	return true
}

// Undo restores the snapshot taken before the most recent move
func (e *GameEngine) Undo() bool {
	e.mu.Lock()
	ok := e.acceptingLocked() && e.history.Len() > 0
	if ok {
		e.state = e.history.Pop()
		e.logger.Debug("undo", zap.Int("moves", e.state.Moves), zap.Int("history", e.history.Len()))
		e.afterMoveLocked()
	}
	e.unlockAndNotify(ok)
	return ok
}

// Step applies the next pending step immediately, regardless of timing
func (e *GameEngine) Step() bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	e.stopTimerLocked()
	ok := e.stepLocked()
	e.runLocked(false)
	e.unlockAndNotify(ok)
	return ok
}

// Close cancels every scheduled step; the engine rejects all commands afterwards
func (e *GameEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.cancelLocked()
	e.closed = true
	e.listeners = nil
}

// State returns a copy of the current state, or nil before the first game
func (e *GameEngine) State() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// View returns the read-only projection of the engine
func (e *GameEngine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

// Phase returns the current scheduling phase
func (e *GameEngine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// IsDealing reports whether a deal or draw is in progress
func (e *GameEngine) IsDealing() bool {
	return e.Phase() == PhaseDealing
}

// CanUndo reports whether Undo would be accepted
func (e *GameEngine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase == PhaseReady && e.history.Len() > 0
}

// IsWon reports whether all cards are on the foundations
func (e *GameEngine) IsWon() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state != nil && e.state.IsWon()
}

// Settings returns the active rule settings
func (e *GameEngine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// GetConfig returns the current configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// OnChange registers a listener
func (e *GameEngine) OnChange(fn func(View)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

func (e *GameEngine) viewLocked() View {
	v := View{
		State:            e.state.Clone(),
		Phase:            e.phase,
		IsDealing:        e.phase == PhaseDealing,
		IsAutoCompleting: e.phase == PhaseAutoCompleting,
		CanUndo:          e.phase == PhaseReady && e.history.Len() > 0,
		HistorySize:      e.history.Len(),
	}
	if e.state != nil {
		v.IsWon = e.state.IsWon()
		v.StockCount = len(e.state.Stock)
		v.FoundationCount = e.state.FoundationCount()
	}
	return v
}

// acceptingLocked reports whether player commands are currently accepted
func (e *GameEngine) acceptingLocked() bool {
	return !e.closed && e.state != nil && e.phase == PhaseReady
}

// afterMoveLocked persists a settled change and starts auto-completion when due
func (e *GameEngine) afterMoveLocked() {
	e.persistLocked()
	e.checkAutoCompleteLocked()
	e.runLocked(false)
}

func (e *GameEngine) persistLocked() {
	if e.store == nil || e.state == nil || e.phase == PhaseDealing {
		return
	}
	saved := SavedGame{State: e.state.Clone(), History: e.history.Entries()}
	if err := e.store.Save(saved); err != nil {
		e.logger.Warn("failed to save game", zap.Error(err))
	}
}

// unlockAndNotify releases mu and then fans the new view out to listeners
func (e *GameEngine) unlockAndNotify(changed bool) {
	if !changed || len(e.listeners) == 0 {
		e.mu.Unlock()
		return
	}
	view := e.viewLocked()
	listeners := make([]func(View), len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(view)
	}
}

func cloneStates(states []*GameState) []*GameState {
	out := make([]*GameState, 0, len(states))
	for _, s := range states {
		out = append(out, s.Clone())
	}
	return out
}
