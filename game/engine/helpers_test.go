package engine

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wricardo/egyptian-spider/game/cards"
)

// picker hands out specific cards of a fresh deck so tests can lay out
// complete 104-card states.
type picker struct {
	t         *testing.T
	remaining []cards.Card
}

func newPicker(t *testing.T) *picker {
	return &picker{t: t, remaining: cards.NewDeck()}
}

func (p *picker) take(suit cards.Suit, rank cards.Rank, faceUp bool) cards.Card {
	p.t.Helper()
	for i, c := range p.remaining {
		if c.Suit == suit && c.Rank == rank {
			p.remaining = append(p.remaining[:i:i], p.remaining[i+1:]...)
			c.FaceUp = faceUp
			return c
		}
	}
	p.t.Fatalf("no %s of %s left", rank, suit)
	return cards.Card{}
}

func (p *picker) up(suit cards.Suit, rank cards.Rank) cards.Card {
	p.t.Helper()
	return p.take(suit, rank, true)
}

func (p *picker) down(suit cards.Suit, rank cards.Rank) cards.Card {
	p.t.Helper()
	return p.take(suit, rank, false)
}

// foundation builds an ace-up run of suit through rank
func (p *picker) foundation(suit cards.Suit, through cards.Rank) []cards.Card {
	p.t.Helper()
	var pile []cards.Card
	for r := cards.Ace; r <= through; r++ {
		pile = append(pile, p.up(suit, r))
	}
	return pile
}

// stock returns every card not yet taken
func (p *picker) stock() []cards.Card {
	out := p.remaining
	p.remaining = nil
	return out
}

// wonReadyState has every suit built to ten on the foundations and the
// court cards standing in eight complete columns.
func wonReadyState(t *testing.T) *GameState {
	p := newPicker(t)
	gs := NewEmptyState()
	f := 0
	for pack := 0; pack < cards.Packs; pack++ {
		for _, s := range cards.Suits {
			gs.Foundations[f] = p.foundation(s, 10)
			f++
		}
	}
	for pack := 0; pack < cards.Packs; pack++ {
		base := pack * 4
		gs.Columns[base+0] = []cards.Card{p.up(cards.Hearts, cards.King), p.up(cards.Spades, cards.Queen), p.up(cards.Hearts, cards.Jack)}
		gs.Columns[base+1] = []cards.Card{p.up(cards.Spades, cards.King), p.up(cards.Hearts, cards.Queen), p.up(cards.Spades, cards.Jack)}
		gs.Columns[base+2] = []cards.Card{p.up(cards.Diamonds, cards.King), p.up(cards.Clubs, cards.Queen), p.up(cards.Diamonds, cards.Jack)}
		gs.Columns[base+3] = []cards.Card{p.up(cards.Clubs, cards.King), p.up(cards.Diamonds, cards.Queen), p.up(cards.Clubs, cards.Jack)}
	}
	gs.Stock = p.stock()
	require.Empty(t, gs.Stock)
	return gs
}

func newTestEngine(t *testing.T, opts ...Option) *GameEngine {
	t.Helper()
	base := []Option{
		WithTiming(Timing{}),
		WithLogger(zaptest.NewLogger(t)),
		WithRand(rand.New(rand.NewSource(42))),
	}
	e, err := NewEngine(DefaultGameConfig(), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func restore(t *testing.T, e *GameEngine, gs *GameState) {
	t.Helper()
	require.NoError(t, e.Restore(SavedGame{State: gs}))
}

func columnSizes(gs *GameState) []int {
	sizes := make([]int, len(gs.Columns))
	for i, col := range gs.Columns {
		sizes[i] = len(col)
	}
	return sizes
}

func requireInvariants(t *testing.T, gs *GameState) {
	t.Helper()
	require.Equal(t, cards.DeckSize, gs.TotalCards())
	require.NoError(t, ValidateState(gs))
}

// memStore is an in-memory Store
type memStore struct {
	mu      sync.Mutex
	saved   *SavedGame
	loadErr error
	saves   int
	clears  int
}

func (m *memStore) Load() (*SavedGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.saved, nil
}

func (m *memStore) Save(saved SavedGame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = &saved
	m.saves++
	return nil
}

func (m *memStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = nil
	m.clears++
	return nil
}

func (m *memStore) snapshot() (*SavedGame, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved, m.saves
}
