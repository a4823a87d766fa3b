package cards

import (
	"math/rand"

	"github.com/google/uuid"
)

const (
	// Packs is the number of full 52-card packs in a game
	Packs = 2
	// PackSize is the number of cards in one pack
	PackSize = 52
	// DeckSize is the total number of cards in play
	DeckSize = Packs * PackSize
)

// NewDeck builds the 104 face-down cards of a game. Pack 0 has red backs,
// pack 1 blue backs.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for pack := 0; pack < Packs; pack++ {
		back := RedBack
		if pack == 1 {
			back = BlueBack
		}
		for _, suit := range Suits {
			for _, rank := range Ranks {
				deck = append(deck, Card{
					ID:        uuid.NewString(),
					Suit:      suit,
					Rank:      rank,
					BackColor: back,
				})
			}
		}
	}
	return deck
}

// Shuffle permutes cards in place using Fisher-Yates from the last index down.
// A nil rng uses the global source.
func Shuffle(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.Intn(i + 1)
		} else {
			j = rand.Intn(i + 1)
		}
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// NewShuffledDeck returns a freshly built and shuffled deck
func NewShuffledDeck(rng *rand.Rand) []Card {
	deck := NewDeck()
	Shuffle(deck, rng)
	return deck
}
