package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertracker/internal/statistics"
)

// Runs against a scratch database named by POKERTRACKER_TEST_DSN.
func TestPGStore(t *testing.T) {
	dsn := os.Getenv("POKERTRACKER_TEST_DSN")
	if dsn == "" {
		t.Skip("POKERTRACKER_TEST_DSN not set")
	}
	ctx := context.Background()
	s, err := OpenPostgres(ctx, dsn, 2, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	existing, err := s.ListGames(ctx)
	require.NoError(t, err)
	for _, info := range existing {
		require.NoError(t, s.DeleteGame(ctx, info.ID))
	}

	for i, id := range []string{"pg-a", "pg-b", "pg-c"} {
		require.NoError(t, s.SaveGame(ctx, testSave(t, id, i)))
	}
	infos, err := s.ListGames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"pg-c", "pg-b"}, ids(infos))

	got, err := s.LoadGame(ctx, "pg-b")
	require.NoError(t, err)
	assert.Equal(t, "Game pg-b", got.Name)

	_, err = s.LoadGame(ctx, "pg-a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteGame(ctx, "pg-a"), ErrNotFound)

	require.NoError(t, s.SaveStats(ctx, statistics.Snapshot{
		Players: []statistics.PlayerStats{{PlayerName: "Bob", TotalProfit: -15}},
	}))
	stats, err := s.LoadStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats.Players, 1)
	assert.Equal(t, -15, stats.Players[0].TotalProfit)
}
