package engine

import (
	"github.com/wricardo/egyptian-spider/game/cards"
	"github.com/wricardo/egyptian-spider/game/rules"
)

// NewEmptyState returns nine empty columns, eight empty foundations and an empty stock
func NewEmptyState() *GameState {
	gs := &GameState{
		Columns:     make([][]cards.Card, NumColumns),
		Foundations: make([][]cards.Card, NumFoundations),
		Stock:       []cards.Card{},
	}
	for i := range gs.Columns {
		gs.Columns[i] = []cards.Card{}
	}
	for i := range gs.Foundations {
		gs.Foundations[i] = []cards.Card{}
	}
	return gs
}

// Clone returns a deep copy of the state
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	return &GameState{
		Columns:     clonePiles(gs.Columns),
		Foundations: clonePiles(gs.Foundations),
		Stock:       clonePile(gs.Stock),
		Moves:       gs.Moves,
		Score:       gs.Score,
	}
}

func clonePiles(piles [][]cards.Card) [][]cards.Card {
	out := make([][]cards.Card, len(piles))
	for i, p := range piles {
		out[i] = clonePile(p)
	}
	return out
}

func clonePile(pile []cards.Card) []cards.Card {
	out := make([]cards.Card, len(pile))
	copy(out, pile)
	return out
}

// TotalCards counts the cards across columns, foundations and stock
func (gs *GameState) TotalCards() int {
	total := len(gs.Stock) + rules.FoundationCardCount(gs.Foundations)
	for _, col := range gs.Columns {
		total += len(col)
	}
	return total
}

// FoundationCount counts the cards on the foundations
func (gs *GameState) FoundationCount() int {
	return rules.FoundationCardCount(gs.Foundations)
}

// IsWon reports whether every card reached a foundation
func (gs *GameState) IsWon() bool {
	return gs.FoundationCount() == cards.DeckSize
}

func (gs *GameState) validColumn(i int) bool {
	return i >= 0 && i < len(gs.Columns)
}

func (gs *GameState) validFoundation(i int) bool {
	return i >= 0 && i < len(gs.Foundations)
}

// PickUp returns a copy of the cards a source refers to. Face-down cards can
// never be picked up.
func (gs *GameState) PickUp(src Source) ([]cards.Card, bool) {
	switch src.Kind {
	case PileColumn:
		if !gs.validColumn(src.Index) || src.CardIndex == nil {
			return nil, false
		}
		col := gs.Columns[src.Index]
		start := *src.CardIndex
		if start < 0 || start >= len(col) {
			return nil, false
		}
		for _, c := range col[start:] {
			if !c.FaceUp {
				return nil, false
			}
		}
		return clonePile(col[start:]), true

	case PileFoundation:
		if !gs.validFoundation(src.Index) {
			return nil, false
		}
		f := gs.Foundations[src.Index]
		if len(f) == 0 {
			return nil, false
		}
		return []cards.Card{f[len(f)-1]}, true
	}
	return nil, false
}

// removeFrom drops the top n cards of the source pile and reveals a column's
// new top card.
func (gs *GameState) removeFrom(src Source, n int) {
	switch src.Kind {
	case PileColumn:
		col := gs.Columns[src.Index]
		gs.Columns[src.Index] = col[:len(col)-n]
		gs.revealTop(src.Index)
	case PileFoundation:
		f := gs.Foundations[src.Index]
		gs.Foundations[src.Index] = f[:len(f)-n]
	}
}

// revealTop turns a column's top card face-up
func (gs *GameState) revealTop(column int) {
	col := gs.Columns[column]
	if len(col) > 0 && !col[len(col)-1].FaceUp {
		col[len(col)-1].FaceUp = true
	}
}

// canPlace checks a move of picked-up cards onto target
func (gs *GameState) canPlace(moving []cards.Card, dst Target, settings Settings) bool {
	switch dst.Kind {
	case PileColumn:
		if !gs.validColumn(dst.Index) {
			return false
		}
		return rules.CanMoveToColumn(moving, gs.Columns[dst.Index], settings.AllowAnyCardToEmptyColumn)
	case PileFoundation:
		if !gs.validFoundation(dst.Index) || len(moving) != 1 {
			return false
		}
		return rules.CanMoveToFoundation(moving[0], gs.Foundations[dst.Index])
	}
	return false
}

// place appends cards to the target pile
func (gs *GameState) place(moving []cards.Card, dst Target) {
	switch dst.Kind {
	case PileColumn:
		gs.Columns[dst.Index] = append(gs.Columns[dst.Index], moving...)
	case PileFoundation:
		gs.Foundations[dst.Index] = append(gs.Foundations[dst.Index], moving...)
	}
}

// nextAutoMove finds the first column-top card (column order) with a legal
// foundation (foundation order).
func (gs *GameState) nextAutoMove() (column, foundation int, ok bool) {
	for c, col := range gs.Columns {
		if len(col) == 0 {
			continue
		}
		if f := rules.FirstFoundationFor(col[len(col)-1], gs.Foundations); f >= 0 {
			return c, f, true
		}
	}
	return -1, -1, false
}

// drawEligibleColumns lists the columns a stock draw deals onto
func (gs *GameState) drawEligibleColumns() []int {
	var eligible []int
	for i, col := range gs.Columns {
		if !rules.IsColumnComplete(col) {
			eligible = append(eligible, i)
		}
	}
	return eligible
}

// readyForAutoComplete reports whether no player decision remains
func (gs *GameState) readyForAutoComplete() bool {
	return len(gs.Stock) == 0 && rules.AllColumnsResolved(gs.Columns) && !gs.IsWon()
}
