package engine

import (
	"time"

	"github.com/wricardo/egyptian-spider/game/cards"
)

const (
	// NumColumns is the number of tableau columns
	NumColumns = 9
	// NumFoundations is the number of foundation piles
	NumFoundations = 8
	// HistoryLimit is the number of undo snapshots kept
	HistoryLimit = 5

	// Validation constants
	MaxIntervalMS = 5000

	DefaultDealInterval         = 50 * time.Millisecond
	DefaultAutoCompleteInterval = 100 * time.Millisecond
)

// ColumnDepths is the number of cards dealt to each column
var ColumnDepths = [NumColumns]int{1, 2, 3, 4, 5, 4, 3, 2, 1}

// Phase is the engine's scheduling phase
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseDealing        Phase = "dealing"
	PhaseReady          Phase = "ready"
	PhaseAutoCompleting Phase = "auto_completing"
)

// PileKind identifies the kind of pile a move refers to
type PileKind string

const (
	PileColumn     PileKind = "column"
	PileFoundation PileKind = "foundation"
)

// Source identifies where moved cards are picked up. For a column the run is
// column[CardIndex:]; a foundation always yields its top card.
type Source struct {
	Kind      PileKind `json:"kind"`
	Index     int      `json:"index"`
	CardIndex *int     `json:"card_index,omitempty"`
}

// Target identifies the pile receiving moved cards
type Target struct {
	Kind  PileKind `json:"kind"`
	Index int      `json:"index"`
}

// ColumnSource is a convenience constructor for a column run starting at cardIndex
func ColumnSource(column, cardIndex int) Source {
	return Source{Kind: PileColumn, Index: column, CardIndex: &cardIndex}
}

// FoundationSource is a convenience constructor for a foundation's top card
func FoundationSource(foundation int) Source {
	return Source{Kind: PileFoundation, Index: foundation}
}

// Settings are the player-facing rule toggles
type Settings struct {
	RevealAllCards            bool `json:"reveal_all_cards" yaml:"reveal_all_cards"`
	AllowAnyCardToEmptyColumn bool `json:"allow_any_card_to_empty_column" yaml:"allow_any_card_to_empty_column"`
}

// Timing controls how staged steps are advanced
type Timing struct {
	DealInterval         time.Duration
	AutoCompleteInterval time.Duration

	// Manual disables timers; steps advance only through Step.
	Manual bool
}

// DefaultTiming mirrors the interactive animation speed
func DefaultTiming() Timing {
	return Timing{
		DealInterval:         DefaultDealInterval,
		AutoCompleteInterval: DefaultAutoCompleteInterval,
	}
}

// GameState represents the complete game state
type GameState struct {
	Columns     [][]cards.Card `json:"columns"`
	Foundations [][]cards.Card `json:"foundations"`
	Stock       []cards.Card   `json:"stock"`
	Moves       int            `json:"moves"`

	// Score is reserved and never updated by any rule.
	Score int `json:"score"`
}

// SavedGame is the serialized form handed to a Store
type SavedGame struct {
	State   *GameState   `json:"state"`
	History []*GameState `json:"history"`
}

// View is the read-only projection of the engine exposed to transports
type View struct {
	State            *GameState `json:"state"`
	Phase            Phase      `json:"phase"`
	IsDealing        bool       `json:"is_dealing"`
	IsAutoCompleting bool       `json:"is_auto_completing"`
	CanUndo          bool       `json:"can_undo"`
	IsWon            bool       `json:"is_won"`
	HistorySize      int        `json:"history_size"`
	StockCount       int        `json:"stock_count"`
	FoundationCount  int        `json:"foundation_count"`
}

// Move pairs a source and a target; produced by LegalMoves
type Move struct {
	Source Source `json:"source"`
	Target Target `json:"target"`
	Cards  int    `json:"cards"`
}
