package session

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wricardo/egyptian-spider/game/engine"
	"github.com/wricardo/egyptian-spider/game/service"
)

func testConfig() *engine.GameConfig {
	return &engine.GameConfig{
		Name:        "Test",
		Description: "Test configuration",
	}
}

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	base := []Option{
		WithLogger(zaptest.NewLogger(t)),
		WithEngineOptions(engine.WithTiming(engine.Timing{})),
	}
	m := NewManager(append(base, opts...)...)
	t.Cleanup(func() { m.Close() })
	return m
}

func createSession(t *testing.T, m *Manager, id string) *service.Session {
	t.Helper()
	sess, err := m.Create(id, "test", testConfig())
	require.NoError(t, err)
	return sess
}

func columnSizes(gs *engine.GameState) []int {
	sizes := make([]int, len(gs.Columns))
	for i, col := range gs.Columns {
		sizes[i] = len(col)
	}
	return sizes
}

var pyramid = []int{1, 2, 3, 4, 5, 4, 3, 2, 1}
