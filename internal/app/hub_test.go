package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bowling/internal/config"
	"bowling/internal/domain"
	"bowling/internal/repository"
	"bowling/internal/repository/memory"
)

func newTestHub(t *testing.T) *GameHub {
	t.Helper()

	hub := NewGameHub(config.Default().Game, memory.NewResultRepository(), zap.NewNop())
	t.Cleanup(hub.Close)

	return hub
}

func TestGameHub_CreateAndGet(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateGame("The Dude")
	require.NoError(t, err)

	code := session.GetGameID()
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, strings.ContainsRune(GameCodeChars, c), "unexpected char %q", c)
	}

	got, err := hub.GetSession(code)
	require.NoError(t, err)
	assert.Same(t, session, got)
	assert.Equal(t, "The Dude", got.GetBowler())
	assert.Equal(t, 1, hub.GetSessionCount())

	_, err = hub.GetSession("NOPE99")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestGameHub_CreateRejectsEmptyBowler(t *testing.T) {
	hub := newTestHub(t)

	_, err := hub.CreateGame(" ")
	assert.ErrorIs(t, err, domain.ErrEmptyBowler)
	assert.Zero(t, hub.GetSessionCount())
}

func TestGameHub_DeleteSession(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateGame("Walter")
	require.NoError(t, err)

	require.NoError(t, hub.DeleteSession(session.GetGameID()))
	assert.Zero(t, hub.GetSessionCount())
	assert.ErrorIs(t, hub.DeleteSession(session.GetGameID()), domain.ErrGameNotFound)
}

func TestGameHub_TotalRollCount(t *testing.T) {
	hub := newTestHub(t)

	a, err := hub.CreateGame("A")
	require.NoError(t, err)
	b, err := hub.CreateGame("B")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = a.RecordRoll(1)
		require.NoError(t, err)
	}
	_, err = b.RecordRoll(10)
	require.NoError(t, err)

	assert.Equal(t, 4, hub.GetTotalRollCount())
}

func TestGameHub_CleanupStaleGames(t *testing.T) {
	hub := newTestHub(t)

	idle, err := hub.CreateGame("Idle")
	require.NoError(t, err)
	watched, err := hub.CreateGame("Watched")
	require.NoError(t, err)
	watched.RegisterClient("c1", newFakeClient("c1"))

	removed := hub.cleanupStaleGames(time.Now())
	assert.Zero(t, removed)

	removed = hub.cleanupStaleGames(time.Now().Add(3 * time.Hour))
	assert.Equal(t, 1, removed)

	_, err = hub.GetSession(idle.GetGameID())
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
	_, err = hub.GetSession(watched.GetGameID())
	assert.NoError(t, err)
}

func TestGameHub_Results(t *testing.T) {
	hub := newTestHub(t)
	ctx := context.Background()

	session, err := hub.CreateGame("Bunny")
	require.NoError(t, err)
	for i := 0; i < 21; i++ {
		_, err = session.RecordRoll(5)
		require.NoError(t, err)
	}

	result, err := session.Finish(ctx)
	require.NoError(t, err)
	assert.Equal(t, 150, result.Score)

	got, err := hub.GetResult(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, session.GetGameID(), got.GameID)

	top, err := hub.TopResults(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)

	_, err = hub.GetResult(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrResultNotFound)
}

func TestGameHub_CloseIsIdempotent(t *testing.T) {
	hub := NewGameHub(config.Default().Game, memory.NewResultRepository(), zap.NewNop())

	_, err := hub.CreateGame("Jackie")
	require.NoError(t, err)

	hub.Close()
	hub.Close()
	assert.Zero(t, hub.GetSessionCount())
}
