package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame_RequiresBowler(t *testing.T) {
	_, err := NewGame("ABC123", "   ")
	assert.ErrorIs(t, err, ErrEmptyBowler)

	g, err := NewGame("ABC123", "  Dude ")
	require.NoError(t, err)
	assert.Equal(t, "Dude", g.Bowler)
	assert.Equal(t, StatusInProgress, g.Status)
}

func TestGame_Finish(t *testing.T) {
	g, err := NewGame("ABC123", "Walter")
	require.NoError(t, err)

	_, err = g.Finish()
	require.ErrorIs(t, err, ErrIncompleteGame)
	assert.False(t, g.IsFinished())

	for i := 0; i < 12; i++ {
		require.NoError(t, g.Record(10))
	}

	score, err := g.Finish()
	require.NoError(t, err)
	assert.Equal(t, 300, score)
	assert.True(t, g.IsFinished())

	assert.ErrorIs(t, g.Record(3), ErrGameFinished)
	assert.Equal(t, 12, g.RollCount())

	_, err = g.Finish()
	assert.ErrorIs(t, err, ErrGameFinished)
}

func TestGame_Scorecard(t *testing.T) {
	g, err := NewGame("ABC123", "Donny")
	require.NoError(t, err)

	require.NoError(t, g.Record(5))
	require.NoError(t, g.Record(5))
	require.NoError(t, g.Record(5))

	card := g.Scorecard()
	assert.False(t, card.Complete)
	assert.Nil(t, card.Score)
	require.Len(t, card.Frames, 1)
	assert.Equal(t, 15, card.Frames[0].Total)

	for i := 0; i < 17; i++ {
		require.NoError(t, g.Record(0))
	}

	card = g.Scorecard()
	assert.True(t, card.Complete)
	require.NotNil(t, card.Score)
	assert.Equal(t, 20, *card.Score)
	assert.Equal(t, StatusInProgress, card.Status)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, StatusInProgress.CanTransitionTo(StatusFinished))
	assert.False(t, StatusFinished.CanTransitionTo(StatusInProgress))
	assert.False(t, StatusFinished.CanTransitionTo(StatusFinished))
}
