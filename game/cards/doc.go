// Package cards defines the playing-card model used by Egyptian Spider.
//
// A game uses two full packs (104 cards). Every card carries a stable
// random identifier, a suit, a rank and the back color of the pack it came
// from. Only the face-up flag ever changes after a deck is built.
//
// Usage:
//
//	deck := cards.NewDeck()
//	cards.Shuffle(deck, rand.New(rand.NewSource(42)))
package cards
