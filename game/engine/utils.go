package engine

import "github.com/wricardo/egyptian-spider/game/rules"

// DealTarget is one position of the opening deal
type DealTarget struct {
	Column int
	FaceUp bool
}

// DealTargets lists the opening deal row by row: for each row, every column
// still short of its depth receives a card, face-up on its last row.
func DealTargets() []DealTarget {
	maxDepth := 0
	for _, d := range ColumnDepths {
		if d > maxDepth {
			maxDepth = d
		}
	}

	var targets []DealTarget
	for row := 0; row < maxDepth; row++ {
		for col, depth := range ColumnDepths {
			if row < depth {
				targets = append(targets, DealTarget{Column: col, FaceUp: row == depth-1})
			}
		}
	}
	return targets
}

// LegalMoves enumerates the moves MoveCard would accept on state
func LegalMoves(state *GameState, settings Settings) []Move {
	if state == nil {
		return nil
	}

	var moves []Move
	for c, col := range state.Columns {
		for start := len(col) - 1; start >= 0; start-- {
			src := ColumnSource(c, start)
			run, ok := state.PickUp(src)
			if !ok || !rules.IsDescendingSequence(run) {
				break
			}
			for t := range state.Columns {
				dst := Target{Kind: PileColumn, Index: t}
				if t != c && state.canPlace(run, dst, settings) {
					moves = append(moves, Move{Source: src, Target: dst, Cards: len(run)})
				}
			}
			if len(run) == 1 {
				if f := rules.FirstFoundationFor(run[0], state.Foundations); f >= 0 {
					moves = append(moves, Move{Source: src, Target: Target{Kind: PileFoundation, Index: f}, Cards: 1})
				}
			}
		}
	}

	for f := range state.Foundations {
		src := FoundationSource(f)
		card, ok := state.PickUp(src)
		if !ok {
			continue
		}
		for t := range state.Columns {
			dst := Target{Kind: PileColumn, Index: t}
			if state.canPlace(card, dst, settings) {
				moves = append(moves, Move{Source: src, Target: dst, Cards: 1})
			}
		}
	}
	return moves
}

// IsProductive reports whether a move makes progress. Column-to-foundation
// moves always do; a column move does when it exposes a hidden card or
// empties its column onto a non-empty one.
func IsProductive(state *GameState, m Move) bool {
	if m.Target.Kind == PileFoundation {
		return m.Source.Kind == PileColumn
	}
	if m.Source.Kind != PileColumn || m.Source.CardIndex == nil {
		return false
	}
	start := *m.Source.CardIndex
	col := state.Columns[m.Source.Index]
	if start == 0 {
		return len(state.Columns[m.Target.Index]) > 0
	}
	return !col[start-1].FaceUp
}
