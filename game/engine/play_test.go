package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRandomPlay_KeepsInvariants plays seeded random games through the public
// commands and checks the card layout after every one of them.
func TestRandomPlay_KeepsInvariants(t *testing.T) {
	const (
		games    = 60
		commands = 300
	)

	for game := 0; game < games; game++ {
		rng := rand.New(rand.NewSource(int64(game)))
		settings := Settings{AllowAnyCardToEmptyColumn: game%2 == 1}

		e := newTestEngine(t, WithRand(rand.New(rand.NewSource(int64(1000+game)))))
		e.Initialize(settings)
		requireInvariants(t, e.State())

		for i := 0; i < commands && !e.IsWon(); i++ {
			before := e.State()
			moves := LegalMoves(before, settings)

			var accepted bool
			switch roll := rng.Intn(10); {
			case roll < 7 && len(moves) > 0:
				m := moves[rng.Intn(len(moves))]
				accepted = e.MoveCard(m.Source, m.Target)
				require.True(t, accepted, "game %d: legal move %+v rejected", game, m)
			case roll < 9:
				accepted = e.DrawCards()
			default:
				e.Undo()
			}

			after := e.State()
			requireInvariants(t, after)
			require.Equal(t, PhaseReady, e.Phase(), "game %d: unsettled after command %d", game, i)

			// With stock left no auto-complete follows, so undo must return the
			// exact pre-command state.
			if accepted && len(after.Stock) > 0 && rng.Intn(4) == 0 {
				require.True(t, e.Undo())
				require.Equal(t, before, e.State(), "game %d: undo after command %d", game, i)
			}
		}
	}
}

func TestOnChange_ListenersAddedDuringNotify(t *testing.T) {
	e := newTestEngine(t)

	var first, second, late int
	e.OnChange(func(View) {
		first++
		if first == 1 {
			e.OnChange(func(View) { late++ })
		}
	})
	e.OnChange(func(View) { second++ })

	e.Initialize(Settings{})
	assert.Equal(t, first, second)
	assert.Equal(t, 0, late, "a listener added mid-notify waits for the next change")

	require.True(t, e.DrawCards())
	assert.Equal(t, first, second)
	assert.Positive(t, late)
}
