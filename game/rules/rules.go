// Package rules holds the pure move-legality predicates of Egyptian Spider.
// Nothing here mutates its arguments.
package rules

import "github.com/wricardo/egyptian-spider/game/cards"

// IsDescendingSequence reports whether cards form a movable run: each card is
// exactly one rank below its predecessor and of the opposite color.
func IsDescendingSequence(run []cards.Card) bool {
	for i := 0; i+1 < len(run); i++ {
		current, next := run[i], run[i+1]
		if current.Rank != next.Rank+1 {
			return false
		}
		if current.Color() == next.Color() {
			return false
		}
	}
	return true
}

// CanMoveToColumn reports whether source may be placed on top of target.
// source[0] is the card that lands on the target's top card.
func CanMoveToColumn(source, target []cards.Card, allowAnyCardToEmptyColumn bool) bool {
	if len(source) == 0 || !IsDescendingSequence(source) {
		return false
	}

	lead := source[0]
	if len(target) == 0 {
		return allowAnyCardToEmptyColumn || lead.Rank == cards.King
	}

	top := target[len(target)-1]
	return top.Rank == lead.Rank+1 && top.Color() != lead.Color()
}

// CanMoveToFoundation reports whether card may be placed on foundation
func CanMoveToFoundation(card cards.Card, foundation []cards.Card) bool {
	if len(foundation) == 0 {
		return card.Rank == cards.Ace
	}
	top := foundation[len(foundation)-1]
	return card.Suit == top.Suit && card.Rank == top.Rank+1
}

// IsColumnComplete reports whether a column is fully resolved: non-empty,
// all face-up, based on a king and one descending alternating run.
func IsColumnComplete(column []cards.Card) bool {
	if len(column) == 0 {
		return false
	}
	for _, c := range column {
		if !c.FaceUp {
			return false
		}
	}
	if column[0].Rank != cards.King {
		return false
	}
	return IsDescendingSequence(column)
}

// AllColumnsResolved reports whether every column is empty or complete
func AllColumnsResolved(columns [][]cards.Card) bool {
	for _, col := range columns {
		if len(col) > 0 && !IsColumnComplete(col) {
			return false
		}
	}
	return true
}

// FoundationCardCount counts the cards across all foundations
func FoundationCardCount(foundations [][]cards.Card) int {
	total := 0
	for _, f := range foundations {
		total += len(f)
	}
	return total
}

// FirstFoundationFor returns the index of the first foundation accepting card, or -1
func FirstFoundationFor(card cards.Card, foundations [][]cards.Card) int {
	for i, f := range foundations {
		if CanMoveToFoundation(card, f) {
			return i
		}
	}
	return -1
}
