package cards

import (
	"fmt"
	"strconv"
)

// Suit represents a card suit
type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Suits lists suits in deck construction order
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Valid reports whether s is one of the four suits
func (s Suit) Valid() bool {
	switch s {
	case Hearts, Diamonds, Clubs, Spades:
		return true
	}
	return false
}

// Symbol returns the unicode suit symbol
func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	}
	return "?"
}

// Color is the face color of a card
type Color string

const (
	Red   Color = "red"
	Black Color = "black"
)

// BackColor is the back color of a pack
type BackColor string

const (
	RedBack  BackColor = "red"
	BlueBack BackColor = "blue"
)

// Valid reports whether b is one of the two pack colors
func (b BackColor) Valid() bool {
	return b == RedBack || b == BlueBack
}

// Rank is a card rank valued 1 (ace) through 13 (king)
type Rank int

const (
	Ace   Rank = 1
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

// Ranks lists ranks in ascending order
var Ranks = []Rank{Ace, 2, 3, 4, 5, 6, 7, 8, 9, 10, Jack, Queen, King}

// Valid reports whether r is within A..K
func (r Rank) Valid() bool {
	return r >= Ace && r <= King
}

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	if r > Ace && r < Jack {
		return strconv.Itoa(int(r))
	}
	return fmt.Sprintf("Rank(%d)", int(r))
}

// ParseRank parses the textual rank used in saved games ("A", "2".."10", "J", "Q", "K")
func ParseRank(s string) (Rank, error) {
	switch s {
	case "A":
		return Ace, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 2 || n > 10 {
		return 0, fmt.Errorf("invalid rank %q", s)
	}
	return Rank(n), nil
}

// MarshalText encodes the rank as its face text
func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a face text rank
func (r *Rank) UnmarshalText(text []byte) error {
	parsed, err := ParseRank(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Card is a single playing card. FaceUp is the only field the engine mutates.
type Card struct {
	ID        string    `json:"id"`
	Suit      Suit      `json:"suit"`
	Rank      Rank      `json:"rank"`
	FaceUp    bool      `json:"face_up"`
	BackColor BackColor `json:"back_color"`
}

// Color derives the face color from the suit
func (c Card) Color() Color {
	if c.Suit == Hearts || c.Suit == Diamonds {
		return Red
	}
	return Black
}

// String renders the card face, e.g. "10♥"
func (c Card) String() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// Label renders the card as a player would see it
func (c Card) Label() string {
	if !c.FaceUp {
		return "##"
	}
	return c.String()
}
