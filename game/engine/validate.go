package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wricardo/egyptian-spider/game/cards"
)

var (
	// ErrCorruptState marks a saved game that cannot be played
	ErrCorruptState = errors.New("corrupt game state")
	// ErrEngineClosed is returned once Close has been called
	ErrEngineClosed = errors.New("engine closed")
)

// ValidateState checks the structural invariants of a settled state
func ValidateState(gs *GameState) error {
	if gs == nil {
		return fmt.Errorf("%w: state is missing", ErrCorruptState)
	}
	if len(gs.Columns) != NumColumns {
		return fmt.Errorf("%w: expected %d columns, got %d", ErrCorruptState, NumColumns, len(gs.Columns))
	}
	if len(gs.Foundations) != NumFoundations {
		return fmt.Errorf("%w: expected %d foundations, got %d", ErrCorruptState, NumFoundations, len(gs.Foundations))
	}
	if total := gs.TotalCards(); total != cards.DeckSize {
		return fmt.Errorf("%w: expected %d cards, got %d", ErrCorruptState, cards.DeckSize, total)
	}
	if gs.Moves < 0 {
		return fmt.Errorf("%w: negative move count %d", ErrCorruptState, gs.Moves)
	}

	seen := make(map[string]bool, cards.DeckSize)
	check := func(where string, pile []cards.Card) error {
		for i, c := range pile {
			if c.ID == "" {
				return fmt.Errorf("%w: %s card %d has no id", ErrCorruptState, where, i)
			}
			if seen[c.ID] {
				return fmt.Errorf("%w: duplicate card id %q", ErrCorruptState, c.ID)
			}
			seen[c.ID] = true
			if !c.Suit.Valid() || !c.Rank.Valid() || !c.BackColor.Valid() {
				return fmt.Errorf("%w: %s card %d is malformed", ErrCorruptState, where, i)
			}
		}
		return nil
	}

	for i, col := range gs.Columns {
		if err := check(fmt.Sprintf("column %d", i), col); err != nil {
			return err
		}
	}
	for i, f := range gs.Foundations {
		if err := check(fmt.Sprintf("foundation %d", i), f); err != nil {
			return err
		}
		for j, c := range f {
			if c.Rank != cards.Rank(j+1) || c.Suit != f[0].Suit {
				return fmt.Errorf("%w: foundation %d is not an ascending %s run", ErrCorruptState, i, f[0].Suit)
			}
		}
	}
	if err := check("stock", gs.Stock); err != nil {
		return err
	}
	return nil
}

// ValidateSavedGame checks the state and every history entry
func ValidateSavedGame(saved SavedGame) error {
	if err := ValidateState(saved.State); err != nil {
		return err
	}
	for i, h := range saved.History {
		if err := ValidateState(h); err != nil {
			return fmt.Errorf("history entry %d: %w", i, err)
		}
	}
	return nil
}

// EncodeSavedGame serializes a saved game to JSON
func EncodeSavedGame(saved SavedGame) ([]byte, error) {
	return json.Marshal(saved)
}

// DecodeSavedGame parses and validates a serialized saved game
func DecodeSavedGame(data []byte) (*SavedGame, error) {
	var saved SavedGame
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if err := ValidateSavedGame(saved); err != nil {
		return nil, err
	}
	return &saved, nil
}
