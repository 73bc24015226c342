package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bowling/internal/model"
	"bowling/internal/repository"
)

func newTestRepo(t *testing.T) repository.ResultRepository {
	t.Helper()

	repo, err := NewResultRepository(filepath.Join(t.TempDir(), "results", "bowling.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo
}

func TestResultRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	finished := time.Date(2024, 5, 1, 20, 30, 0, 0, time.UTC)
	result := &model.Result{
		ID:         "r1",
		GameID:     "LANE42",
		Bowler:     "Maude",
		Rolls:      []int{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10},
		Score:      300,
		FinishedAt: finished,
	}
	require.NoError(t, repo.Save(ctx, result))

	got, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, result.GameID, got.GameID)
	assert.Equal(t, result.Bowler, got.Bowler)
	assert.Equal(t, result.Rolls, got.Rolls)
	assert.Equal(t, 300, got.Score)
	assert.True(t, finished.Equal(got.FinishedAt))

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrResultNotFound)
}

func TestResultRepository_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	result := &model.Result{ID: "r1", GameID: "G", Bowler: "Jesus", Rolls: []int{}, Score: 10, FinishedAt: time.Now()}
	require.NoError(t, repo.Save(ctx, result))

	result.Score = 99
	require.NoError(t, repo.Save(ctx, result))

	got, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 99, got.Score)
}

func TestResultRepository_Top(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	base := time.Now()
	for _, r := range []*model.Result{
		{ID: "low", GameID: "G1", Bowler: "A", Rolls: []int{0}, Score: 50, FinishedAt: base},
		{ID: "late", GameID: "G2", Bowler: "B", Rolls: []int{0}, Score: 200, FinishedAt: base.Add(time.Hour)},
		{ID: "early", GameID: "G3", Bowler: "C", Rolls: []int{0}, Score: 200, FinishedAt: base},
	} {
		require.NoError(t, repo.Save(ctx, r))
	}

	top, err := repo.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "early", top[0].ID)
	assert.Equal(t, "late", top[1].ID)

	all, err := repo.Top(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "low", all[2].ID)
}
