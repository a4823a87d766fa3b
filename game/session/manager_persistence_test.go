package session

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/egyptian-spider/game/config"
	"github.com/wricardo/egyptian-spider/game/engine"
)

func TestManagerWithPersistence(t *testing.T) {
	dir := t.TempDir()
	persistence, err := NewFilePersistence(dir)
	require.NoError(t, err)
	configs, err := config.NewManager("../../configs")
	require.NoError(t, err)

	first := NewManager(WithPersistence(persistence), WithConfigs(configs),
		WithEngineOptions(engine.WithTiming(engine.Timing{})))
	relaxed, err := configs.LoadConfig("relaxed")
	require.NoError(t, err)

	sess, err := first.Create("game1", "relaxed", relaxed)
	require.NoError(t, err)
	require.True(t, sess.Engine.DrawCards())
	want := sess.Engine.State()
	require.NoError(t, first.Close())

	t.Run("resumes saved game", func(t *testing.T) {
		second := newTestManager(t, WithPersistence(persistence), WithConfigs(configs))

		loaded, err := second.Get("game1")
		require.NoError(t, err)
		assert.Equal(t, "relaxed", loaded.ConfigID)
		assert.Equal(t, want, loaded.Engine.State())
		assert.True(t, loaded.Engine.CanUndo())
		assert.True(t, loaded.Engine.Settings().AllowAnyCardToEmptyColumn)

		require.True(t, loaded.Engine.Undo())
		assert.Equal(t, 0, loaded.Engine.State().Moves)
	})

	t.Run("settings saved beside the game", func(t *testing.T) {
		third := newTestManager(t, WithPersistence(persistence), WithConfigs(configs))
		loaded, err := third.Get("game1")
		require.NoError(t, err)

		loaded.Engine.Initialize(engine.Settings{RevealAllCards: true})
		require.NoError(t, third.Save("game1"))

		record, err := persistence.Load("game1")
		require.NoError(t, err)
		assert.True(t, record.Settings.RevealAllCards)
		assert.False(t, record.Settings.AllowAnyCardToEmptyColumn)
		require.NoError(t, third.Close())

		fourth := newTestManager(t, WithPersistence(persistence), WithConfigs(configs))
		reloaded, err := fourth.Get("game1")
		require.NoError(t, err)
		assert.True(t, reloaded.Engine.Settings().RevealAllCards)
		assert.Equal(t, loaded.Engine.State(), reloaded.Engine.State())
	})

	t.Run("load persisted sessions", func(t *testing.T) {
		other := NewManager(WithPersistence(persistence), WithEngineOptions(engine.WithTiming(engine.Timing{})))
		_, err := other.Create("game2", "classic", engine.DefaultGameConfig())
		require.NoError(t, err)
		require.NoError(t, other.Close())

		m := newTestManager(t, WithPersistence(persistence), WithConfigs(configs))
		require.NoError(t, m.LoadPersistedSessions())
		assert.Equal(t, 2, m.Count())
	})

	t.Run("delete removes the file", func(t *testing.T) {
		m := newTestManager(t, WithPersistence(persistence), WithConfigs(configs))
		require.NoError(t, m.Delete("game2"))
		assert.False(t, persistence.Exists("game2"))
		_, err := m.Get("game2")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("duplicate of a persisted id", func(t *testing.T) {
		m := newTestManager(t, WithPersistence(persistence))
		_, err := m.Create("game1", "classic", engine.DefaultGameConfig())
		assert.ErrorIs(t, err, ErrSessionAlreadyExists)
	})
}

func TestManager_CorruptGameStartsFresh(t *testing.T) {
	dir := t.TempDir()
	persistence, err := NewFilePersistence(dir)
	require.NoError(t, err)

	require.NoError(t, persistence.Save(&PersistedSessionData{
		ID:         "bad",
		ConfigName: "missing-preset",
		Game:       []byte(`{"state":{"columns":[],"foundations":[],"stock":[]},"history":[]}`),
	}))

	m := newTestManager(t, WithPersistence(persistence))
	sess, err := m.Get("bad")
	require.NoError(t, err)
	assert.Equal(t, engine.PhaseReady, sess.Engine.Phase())
	assert.Equal(t, pyramid, columnSizes(sess.Engine.State()))

	record, err := persistence.Load("bad")
	require.NoError(t, err)
	_, err = engine.DecodeSavedGame(record.Game)
	assert.NoError(t, err, "the fresh deal replaced the corrupt game")
}

func TestManager_CorruptRecordStartsFresh(t *testing.T) {
	dir := t.TempDir()
	persistence, err := NewFilePersistence(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(persistence.Path("junk"), []byte("\x00\x01 definitely not json"), 0644))

	m := newTestManager(t, WithPersistence(persistence))
	sess, err := m.Get("junk")
	require.NoError(t, err)
	assert.Equal(t, "junk", sess.ID)
	assert.Equal(t, pyramid, columnSizes(sess.Engine.State()))

	record, err := persistence.Load("junk")
	require.NoError(t, err)
	assert.Equal(t, "junk", record.ID)
}

func TestManager_ReloadsMixedCaseID(t *testing.T) {
	dir := t.TempDir()
	persistence, err := NewFilePersistence(dir)
	require.NoError(t, err)

	m := newTestManager(t, WithPersistence(persistence))
	sess := createSession(t, m, "ABCD")
	require.True(t, sess.Engine.DrawCards())
	want := sess.Engine.State()
	require.NoError(t, m.Save("ABCD"))

	require.NoError(t, m.DeleteFromMemory("ABCD"))
	assert.Equal(t, 0, m.Count())

	loaded, err := m.Get("abcd")
	require.NoError(t, err)
	assert.Equal(t, want, loaded.Engine.State())

	_, err = m.Get("AbCd")
	assert.NoError(t, err)
	assert.Equal(t, 1, m.Count())
}
