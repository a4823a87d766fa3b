package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/egyptian-spider/game/cards"
)

func TestNewEngine_InvalidConfig(t *testing.T) {
	_, err := NewEngine(&GameConfig{Name: "broken"})
	assert.Error(t, err)

	_, err = NewEngine(nil)
	assert.Error(t, err)
}

func TestNewEngine_StartsIdle(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, PhaseIdle, e.Phase())
	assert.Nil(t, e.State())
	assert.False(t, e.DrawCards())
	assert.False(t, e.Undo())
	assert.False(t, e.MoveCard(ColumnSource(0, 0), Target{Kind: PileColumn, Index: 1}))
}

func TestInitialize_DealsPyramid(t *testing.T) {
	e := newTestEngine(t)
	e.Initialize(Settings{})

	gs := e.State()
	require.NotNil(t, gs)
	assert.Equal(t, PhaseReady, e.Phase())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 4, 3, 2, 1}, columnSizes(gs))
	assert.Len(t, gs.Stock, 79)
	assert.Equal(t, 0, gs.Moves)
	assert.Equal(t, 0, gs.Score)
	assert.False(t, e.CanUndo())
	requireInvariants(t, gs)

	for c, col := range gs.Columns {
		for i, card := range col {
			assert.Equal(t, i == len(col)-1, card.FaceUp, "column %d card %d", c, i)
		}
	}
	for _, card := range gs.Stock {
		assert.False(t, card.FaceUp)
	}
}

func TestInitialize_RevealAllCards(t *testing.T) {
	e := newTestEngine(t)
	e.Initialize(Settings{RevealAllCards: true})

	gs := e.State()
	for _, col := range gs.Columns {
		for _, card := range col {
			assert.True(t, card.FaceUp)
		}
	}
	assert.True(t, e.Settings().RevealAllCards)
}

func TestInitialize_SameSeedSameDeal(t *testing.T) {
	a := newTestEngine(t)
	b := newTestEngine(t)
	a.Initialize(Settings{})
	b.Initialize(Settings{})

	sa, sb := a.State(), b.State()
	for c := range sa.Columns {
		for i := range sa.Columns[c] {
			assert.Equal(t, sa.Columns[c][i].String(), sb.Columns[c][i].String())
		}
	}
}

func TestManualTiming_StepsThroughDeal(t *testing.T) {
	e := newTestEngine(t, WithTiming(Timing{Manual: true}))
	e.Initialize(Settings{})

	assert.Equal(t, PhaseDealing, e.Phase())
	assert.True(t, e.IsDealing())
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0, 0, 0}, columnSizes(e.State()))
	assert.Len(t, e.State().Stock, cards.DeckSize)

	// Commands are rejected mid-deal.
	assert.False(t, e.DrawCards())
	assert.False(t, e.Undo())
	assert.False(t, e.MoveCard(ColumnSource(0, 0), Target{Kind: PileFoundation, Index: 0}))

	// First row reaches every column in order.
	for i := 0; i < NumColumns; i++ {
		require.True(t, e.Step())
	}
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1, 1, 1, 1}, columnSizes(e.State()))
	assert.Equal(t, cards.DeckSize, e.State().TotalCards())

	for i := NumColumns; i < 25; i++ {
		require.True(t, e.Step())
	}
	assert.Equal(t, PhaseDealing, e.Phase())

	require.True(t, e.Step())
	assert.Equal(t, PhaseReady, e.Phase())
	assert.False(t, e.Step())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 4, 3, 2, 1}, columnSizes(e.State()))
}

func TestMoveCard_ColumnToFoundationRevealsTop(t *testing.T) {
	p := newPicker(t)
	gs := NewEmptyState()
	gs.Columns[0] = []cards.Card{p.down(cards.Clubs, 5), p.up(cards.Hearts, cards.Ace)}
	gs.Stock = p.stock()

	e := newTestEngine(t)
	restore(t, e, gs)

	ok := e.MoveCard(ColumnSource(0, 1), Target{Kind: PileFoundation, Index: 0})
	require.True(t, ok)

	after := e.State()
	assert.Equal(t, 1, after.Moves)
	assert.Equal(t, 1, e.View().HistorySize)
	require.Len(t, after.Columns[0], 1)
	assert.True(t, after.Columns[0][0].FaceUp)
	require.Len(t, after.Foundations[0], 1)
	assert.Equal(t, cards.Ace, after.Foundations[0][0].Rank)
	assert.True(t, e.CanUndo())
	requireInvariants(t, after)
}

func TestMoveCard_RunBetweenColumns(t *testing.T) {
	p := newPicker(t)
	gs := NewEmptyState()
	gs.Columns[0] = []cards.Card{p.down(cards.Clubs, 2), p.up(cards.Hearts, 9), p.up(cards.Spades, 8)}
	gs.Columns[1] = []cards.Card{p.up(cards.Spades, 10)}
	gs.Stock = p.stock()

	e := newTestEngine(t)
	restore(t, e, gs)

	require.True(t, e.MoveCard(ColumnSource(0, 1), Target{Kind: PileColumn, Index: 1}))

	after := e.State()
	assert.Equal(t, []string{"10♠", "9♥", "8♠"}, labels(after.Columns[1]))
	assert.Equal(t, []string{"2♣"}, labels(after.Columns[0]))
	assert.Equal(t, 1, after.Moves)
}

func TestMoveCard_Rejections(t *testing.T) {
	p := newPicker(t)
	gs := NewEmptyState()
	gs.Columns[0] = []cards.Card{p.up(cards.Spades, 10)}
	gs.Columns[1] = []cards.Card{p.up(cards.Clubs, 9)}
	gs.Columns[2] = []cards.Card{p.down(cards.Hearts, 9), p.up(cards.Diamonds, 5)}
	gs.Columns[3] = []cards.Card{p.up(cards.Hearts, 5)}
	gs.Stock = p.stock()

	e := newTestEngine(t)
	restore(t, e, gs)
	before := e.State()

	tests := []struct {
		name string
		src  Source
		dst  Target
	}{
		{"same color", ColumnSource(1, 0), Target{Kind: PileColumn, Index: 0}},
		{"missing card index", Source{Kind: PileColumn, Index: 1}, Target{Kind: PileColumn, Index: 0}},
		{"card index out of range", ColumnSource(1, 3), Target{Kind: PileColumn, Index: 0}},
		{"negative card index", ColumnSource(1, -1), Target{Kind: PileColumn, Index: 0}},
		{"column out of range", ColumnSource(12, 0), Target{Kind: PileColumn, Index: 0}},
		{"target out of range", ColumnSource(1, 0), Target{Kind: PileColumn, Index: 9}},
		{"face-down pickup", ColumnSource(2, 0), Target{Kind: PileColumn, Index: 0}},
		{"non-king to empty column", ColumnSource(3, 0), Target{Kind: PileColumn, Index: 5}},
		{"non-ace to empty foundation", ColumnSource(3, 0), Target{Kind: PileFoundation, Index: 0}},
		{"empty foundation source", FoundationSource(0), Target{Kind: PileColumn, Index: 0}},
		{"unknown kind", Source{Kind: "stock"}, Target{Kind: PileColumn, Index: 0}},
		{"onto itself", ColumnSource(0, 0), Target{Kind: PileColumn, Index: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, e.MoveCard(tt.src, tt.dst))
			assert.Equal(t, before, e.State())
			assert.Equal(t, 0, e.View().HistorySize)
		})
	}
}

func TestMoveCard_MultiCardToFoundationRejected(t *testing.T) {
	p := newPicker(t)
	gs := NewEmptyState()
	gs.Columns[0] = []cards.Card{p.up(cards.Spades, 2), p.up(cards.Hearts, cards.Ace)}
	gs.Stock = p.stock()

	e := newTestEngine(t)
	restore(t, e, gs)

	assert.False(t, e.MoveCard(ColumnSource(0, 0), Target{Kind: PileFoundation, Index: 0}))
}

func TestMoveCard_AnyCardToEmptyColumn(t *testing.T) {
	p := newPicker(t)
	gs := NewEmptyState()
	gs.Columns[0] = []cards.Card{p.up(cards.Hearts, 5)}
	gs.Stock = p.stock()

	strict := newTestEngine(t)
	restore(t, strict, gs.Clone())
	assert.False(t, strict.MoveCard(ColumnSource(0, 0), Target{Kind: PileColumn, Index: 4}))

	cfg := DefaultGameConfig()
	cfg.Settings.AllowAnyCardToEmptyColumn = true
	relaxed, err := NewEngine(cfg, WithTiming(Timing{}))
	require.NoError(t, err)
	t.Cleanup(relaxed.Close)
	restore(t, relaxed, gs.Clone())
	assert.True(t, relaxed.MoveCard(ColumnSource(0, 0), Target{Kind: PileColumn, Index: 4}))
}

func TestMoveCard_FromFoundationRemovesCard(t *testing.T) {
	p := newPicker(t)
	gs := NewEmptyState()
	gs.Foundations[0] = p.foundation(cards.Spades, 5)
	gs.Columns[0] = []cards.Card{p.up(cards.Hearts, 6)}
	gs.Stock = p.stock()

	e := newTestEngine(t)
	restore(t, e, gs)

	require.True(t, e.MoveCard(FoundationSource(0), Target{Kind: PileColumn, Index: 0}))

	after := e.State()
	assert.Len(t, after.Foundations[0], 4)
	assert.Equal(t, []string{"6♥", "5♠"}, labels(after.Columns[0]))
	requireInvariants(t, after)
}

func TestUndo_RestoresPriorStates(t *testing.T) {
	p := newPicker(t)
	gs := NewEmptyState()
	gs.Columns[0] = []cards.Card{p.up(cards.Hearts, cards.Ace)}
	gs.Columns[1] = []cards.Card{p.up(cards.Spades, cards.Ace)}
	gs.Columns[2] = []cards.Card{p.up(cards.Hearts, 2)}
	gs.Stock = p.stock()

	e := newTestEngine(t)
	restore(t, e, gs)
	assert.False(t, e.Undo())

	moves := []struct {
		src Source
		dst Target
	}{
		{ColumnSource(0, 0), Target{Kind: PileFoundation, Index: 0}},
		{ColumnSource(2, 0), Target{Kind: PileFoundation, Index: 0}},
		{ColumnSource(1, 0), Target{Kind: PileFoundation, Index: 1}},
	}
	var before []*GameState
	for _, m := range moves {
		before = append(before, e.State())
		require.True(t, e.MoveCard(m.src, m.dst))
	}
	assert.Equal(t, 3, e.State().Moves)

	for i := len(before) - 1; i >= 0; i-- {
		require.True(t, e.Undo())
		assert.Equal(t, before[i], e.State())
	}
	assert.False(t, e.Undo())
	assert.False(t, e.CanUndo())
}

func TestHistory_CappedAtFive(t *testing.T) {
	p := newPicker(t)
	gs := NewEmptyState()
	for c := 0; c < 6; c++ {
		gs.Columns[c] = []cards.Card{p.up(cards.Suits[c%4], cards.Ace)}
	}
	gs.Stock = p.stock()

	e := newTestEngine(t)
	restore(t, e, gs)

	for c := 0; c < 6; c++ {
		require.True(t, e.MoveCard(ColumnSource(c, 0), Target{Kind: PileFoundation, Index: c}))
	}
	assert.Equal(t, HistoryLimit, e.View().HistorySize)

	for i := 0; i < HistoryLimit; i++ {
		require.True(t, e.Undo())
	}
	assert.False(t, e.Undo())
	// The oldest snapshot was evicted; one ace stays on its foundation.
	assert.Equal(t, 1, e.State().Moves)
	assert.Equal(t, 1, e.State().FoundationCount())
}

func TestDrawCards_SingleMoveBatch(t *testing.T) {
	p := newPicker(t)
	gs := NewEmptyState()
	gs.Columns[0] = []cards.Card{p.up(cards.Spades, cards.King)}
	gs.Columns[1] = []cards.Card{p.up(cards.Hearts, 5)}
	gs.Stock = p.stock()
	stock := len(gs.Stock)

	e := newTestEngine(t)
	restore(t, e, gs)
	before := e.State()

	require.True(t, e.DrawCards())
	assert.Equal(t, PhaseReady, e.Phase())

	after := e.State()
	assert.Equal(t, 1, after.Moves)
	assert.Equal(t, 1, e.View().HistorySize)
	assert.Len(t, after.Stock, stock-8)
	assert.Len(t, after.Columns[0], 1, "complete column is skipped")
	assert.Len(t, after.Columns[1], 2)
	for c := 1; c < NumColumns; c++ {
		col := after.Columns[c]
		assert.True(t, col[len(col)-1].FaceUp)
	}
	// Cards come off the front of the stock in column order.
	assert.Equal(t, before.Stock[0].ID, after.Columns[1][1].ID)
	assert.Equal(t, before.Stock[1].ID, after.Columns[2][0].ID)
	requireInvariants(t, after)

	require.True(t, e.Undo())
	assert.Equal(t, before, e.State())
}

func TestDrawCards_AfterDeal(t *testing.T) {
	e := newTestEngine(t)
	e.Initialize(Settings{})

	require.True(t, e.DrawCards())
	gs := e.State()
	assert.Equal(t, 1, gs.Moves)
	assert.Less(t, len(gs.Stock), 79)
	requireInvariants(t, gs)
}

func TestDrawCards_ManualGuardsUntilSettled(t *testing.T) {
	p := newPicker(t)
	gs := NewEmptyState()
	gs.Columns[0] = []cards.Card{p.up(cards.Hearts, cards.Ace)}
	gs.Stock = p.stock()

	e := newTestEngine(t, WithTiming(Timing{Manual: true}))
	restore(t, e, gs)

	require.True(t, e.DrawCards())
	assert.True(t, e.IsDealing())
	assert.False(t, e.DrawCards())
	assert.False(t, e.Undo())
	assert.False(t, e.MoveCard(ColumnSource(0, 0), Target{Kind: PileFoundation, Index: 0}))

	require.True(t, e.Step())
	assert.Equal(t, 1, e.State().Moves)
	for e.Step() {
	}
	assert.Equal(t, PhaseReady, e.Phase())
	assert.Equal(t, 1, e.State().Moves)
	assert.True(t, e.CanUndo())
}

func TestAutoComplete_DrainsToWin(t *testing.T) {
	e := newTestEngine(t)
	restore(t, e, wonReadyState(t))

	gs := e.State()
	assert.True(t, e.IsWon())
	assert.Equal(t, cards.DeckSize, gs.FoundationCount())
	assert.Equal(t, 24, gs.Moves)
	assert.Equal(t, PhaseReady, e.Phase())
	for _, col := range gs.Columns {
		assert.Empty(t, col)
	}
	requireInvariants(t, gs)

	// Nothing is left to draw or move.
	assert.False(t, e.DrawCards())
	assert.True(t, e.View().IsWon)
}

func TestAutoComplete_ManualSteps(t *testing.T) {
	e := newTestEngine(t, WithTiming(Timing{Manual: true}))
	restore(t, e, wonReadyState(t))

	assert.Equal(t, PhaseAutoCompleting, e.Phase())
	assert.True(t, e.View().IsAutoCompleting)
	assert.False(t, e.Undo())
	assert.False(t, e.AutoMoveToFoundation("", Source{Kind: PileColumn, Index: 0}))

	require.True(t, e.Step())
	assert.Equal(t, 81, e.State().FoundationCount())

	steps := 1
	for e.Step() {
		steps++
	}
	assert.Equal(t, 24, steps)
	assert.True(t, e.IsWon())
	assert.Equal(t, PhaseReady, e.Phase())
}

func TestAutoComplete_TriggeredByMove(t *testing.T) {
	p := newPicker(t)
	gs := NewEmptyState()
	gs.Foundations[0] = p.foundation(cards.Hearts, cards.Jack)
	f := 1
	for pack := 0; pack < cards.Packs; pack++ {
		for _, s := range cards.Suits {
			if pack == 0 && s == cards.Hearts {
				continue
			}
			gs.Foundations[f] = p.foundation(s, cards.King)
			f++
		}
	}
	gs.Columns[0] = []cards.Card{p.up(cards.Hearts, cards.King)}
	gs.Columns[1] = []cards.Card{p.up(cards.Hearts, cards.Queen)}
	gs.Stock = p.stock()
	require.Empty(t, gs.Stock)

	e := newTestEngine(t)
	restore(t, e, gs)
	assert.False(t, e.IsWon())
	assert.Equal(t, PhaseReady, e.Phase())

	require.True(t, e.AutoMoveToFoundation(gs.Columns[1][0].ID, Source{Kind: PileColumn, Index: 1}))
	assert.True(t, e.IsWon())
	assert.Equal(t, 2, e.State().Moves)
}

func TestAutoMoveToFoundation(t *testing.T) {
	p := newPicker(t)
	gs := NewEmptyState()
	gs.Columns[0] = []cards.Card{p.down(cards.Clubs, 5), p.up(cards.Hearts, cards.Ace)}
	gs.Columns[1] = []cards.Card{p.up(cards.Clubs, 3)}
	gs.Foundations[0] = p.foundation(cards.Spades, 2)
	gs.Stock = p.stock()
	aceID := gs.Columns[0][1].ID

	e := newTestEngine(t)
	restore(t, e, gs)

	assert.False(t, e.AutoMoveToFoundation("not-the-top", Source{Kind: PileColumn, Index: 0}))
	assert.False(t, e.AutoMoveToFoundation(aceID, ColumnSource(0, 0)))
	assert.False(t, e.AutoMoveToFoundation(aceID, FoundationSource(0)))
	assert.False(t, e.AutoMoveToFoundation("", Source{Kind: PileColumn, Index: 1}), "3♣ has no foundation")

	require.True(t, e.AutoMoveToFoundation(aceID, ColumnSource(0, 1)))
	after := e.State()
	assert.Len(t, after.Foundations[1], 1, "first empty foundation receives the ace")
	assert.True(t, after.Columns[0][0].FaceUp)
	assert.Equal(t, 1, after.Moves)
	assert.Equal(t, 1, e.View().HistorySize)
}

func TestTimedDealSettles(t *testing.T) {
	e := newTestEngine(t, WithTiming(Timing{DealInterval: time.Millisecond, AutoCompleteInterval: time.Millisecond}))
	e.Initialize(Settings{})

	assert.Eventually(t, func() bool { return e.Phase() == PhaseReady }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 4, 3, 2, 1}, columnSizes(e.State()))
}

func TestTimedAutoComplete(t *testing.T) {
	e := newTestEngine(t, WithTiming(Timing{AutoCompleteInterval: time.Millisecond}))
	restore(t, e, wonReadyState(t))

	assert.Eventually(t, e.IsWon, 2*time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return e.Phase() == PhaseReady }, time.Second, 5*time.Millisecond)
}

func TestInitialize_CancelsPendingDeal(t *testing.T) {
	e := newTestEngine(t, WithTiming(Timing{DealInterval: time.Hour}))

	e.Initialize(Settings{})
	first := e.State()
	assert.Equal(t, PhaseDealing, e.Phase())
	assert.Equal(t, []int{1, 0, 0, 0, 0, 0, 0, 0, 0}, columnSizes(first), "first card lands immediately")

	e.Initialize(Settings{})
	second := e.State()
	assert.Equal(t, []int{1, 0, 0, 0, 0, 0, 0, 0, 0}, columnSizes(second))
	assert.NotEqual(t, first.Columns[0][0].ID, second.Columns[0][0].ID)

	require.True(t, e.Step())
	assert.Equal(t, []int{1, 1, 0, 0, 0, 0, 0, 0, 0}, columnSizes(e.State()))
}

func TestClose_StopsScheduledSteps(t *testing.T) {
	e := newTestEngine(t, WithTiming(Timing{DealInterval: 5 * time.Millisecond}))
	e.Initialize(Settings{})
	e.Close()

	dealt := columnSizes(e.State())
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, dealt, columnSizes(e.State()))

	assert.False(t, e.Step())
	e.Initialize(Settings{})
	assert.Equal(t, dealt, columnSizes(e.State()))
	assert.ErrorIs(t, e.Restore(SavedGame{}), ErrEngineClosed)
}

func TestStore_SavesSettledStates(t *testing.T) {
	store := &memStore{}
	e := newTestEngine(t, WithStore(store), WithTiming(Timing{Manual: true}))

	e.Initialize(Settings{})
	assert.Equal(t, 1, store.clears)
	for i := 0; i < 25; i++ {
		require.True(t, e.Step())
	}
	_, saves := store.snapshot()
	assert.Equal(t, 0, saves, "nothing is saved mid-deal")

	require.True(t, e.Step())
	saved, saves := store.snapshot()
	require.Equal(t, 1, saves)
	assert.Equal(t, e.State(), saved.State)
	assert.Empty(t, saved.History)

	require.True(t, e.DrawCards())
	require.True(t, e.Step())
	_, saves = store.snapshot()
	assert.Equal(t, 1, saves)

	for e.Step() {
	}
	saved, saves = store.snapshot()
	assert.Equal(t, 2, saves)
	assert.Equal(t, e.State(), saved.State)
	assert.Len(t, saved.History, 1)
}

func TestResume_RestoresSavedGame(t *testing.T) {
	p := newPicker(t)
	gs := NewEmptyState()
	gs.Columns[0] = []cards.Card{p.down(cards.Clubs, 5), p.up(cards.Hearts, cards.Ace)}
	gs.Stock = p.stock()
	gs.Moves = 7

	store := &memStore{saved: &SavedGame{State: gs, History: []*GameState{gs.Clone()}}}
	e := newTestEngine(t, WithStore(store))
	e.Resume()

	assert.Equal(t, PhaseReady, e.Phase())
	assert.Equal(t, gs, e.State())
	assert.Equal(t, 1, e.View().HistorySize)
	assert.True(t, e.CanUndo())
	assert.Equal(t, 0, store.clears)
}

func TestResume_FallsBackToFreshGame(t *testing.T) {
	corrupt := NewEmptyState()
	corrupt.Stock = cards.NewDeck()
	corrupt.Stock[1].ID = corrupt.Stock[0].ID

	tests := []struct {
		name  string
		store *memStore
	}{
		{"nothing saved", &memStore{}},
		{"unreadable", &memStore{loadErr: errors.New("disk on fire")}},
		{"duplicate ids", &memStore{saved: &SavedGame{State: corrupt}}},
		{"missing state", &memStore{saved: &SavedGame{}}},
		{"corrupt history", &memStore{saved: &SavedGame{State: wonReadyState(t), History: []*GameState{NewEmptyState()}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, WithStore(tt.store))
			e.Resume()

			gs := e.State()
			require.NotNil(t, gs)
			assert.Equal(t, PhaseReady, e.Phase())
			assert.Equal(t, []int{1, 2, 3, 4, 5, 4, 3, 2, 1}, columnSizes(gs))
			assert.Equal(t, 0, gs.Moves)
			assert.Equal(t, 1, tt.store.clears)
			requireInvariants(t, gs)
		})
	}
}

func TestRestore_RejectsCorruptState(t *testing.T) {
	e := newTestEngine(t)
	e.Initialize(Settings{})
	before := e.State()

	gs := before.Clone()
	gs.Stock = gs.Stock[1:]
	err := e.Restore(SavedGame{State: gs})
	assert.ErrorIs(t, err, ErrCorruptState)
	assert.Equal(t, before, e.State())
}

func TestOnChange_ReceivesViews(t *testing.T) {
	p := newPicker(t)
	gs := NewEmptyState()
	gs.Columns[0] = []cards.Card{p.up(cards.Hearts, cards.Ace)}
	gs.Stock = p.stock()

	e := newTestEngine(t)
	var views []View
	e.OnChange(func(v View) { views = append(views, v) })

	restore(t, e, gs)
	require.Len(t, views, 1)

	assert.False(t, e.MoveCard(ColumnSource(0, 0), Target{Kind: PileColumn, Index: 3}))
	require.Len(t, views, 1, "rejected commands do not notify")

	require.True(t, e.MoveCard(ColumnSource(0, 0), Target{Kind: PileFoundation, Index: 2}))
	require.Len(t, views, 2)
	assert.Equal(t, 1, views[1].State.Moves)
	assert.Equal(t, 1, views[1].FoundationCount)
	assert.True(t, views[1].CanUndo)
	assert.Equal(t, len(gs.Stock), views[1].StockCount)
}

func labels(pile []cards.Card) []string {
	out := make([]string, len(pile))
	for i, c := range pile {
		out[i] = c.String()
	}
	return out
}
