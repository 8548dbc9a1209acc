package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertracker/internal/game"
	"github.com/lox/pokertracker/internal/statistics"
)

var epoch = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

func testSave(t *testing.T, id string, minutes int) Save {
	t.Helper()
	g, err := game.New(game.Config{Name: "Game " + id}, game.WithIDGenerator(func() string { return id }))
	require.NoError(t, err)
	_, err = g.AddPlayer("Alice")
	require.NoError(t, err)
	return Save{
		ID:      g.ID(),
		Name:    g.Name(),
		SavedAt: epoch.Add(time.Duration(minutes) * time.Minute),
		Game:    g.Snapshot(),
	}
}

func newFileStore(t *testing.T, maxSaves int) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), maxSaves, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ids(infos []SaveInfo) []string {
	out := make([]string, len(infos))
	for i, info := range infos {
		out[i] = info.ID
	}
	return out
}

func TestFileStoreSaveAndLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newFileStore(t, 3)

	save := testSave(t, "g1", 0)
	require.NoError(t, s.SaveGame(ctx, save))

	got, err := s.LoadGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, save.Name, got.Name)
	assert.True(t, save.SavedAt.Equal(got.SavedAt))
	assert.Equal(t, save.Game.Players, got.Game.Players)

	restored, err := game.Restore(got.Game)
	require.NoError(t, err)
	assert.Equal(t, "g1", restored.ID())

	infos, err := s.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 1, infos[0].Players)
}

func TestFileStoreEvictsOldest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newFileStore(t, 3)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.SaveGame(ctx, testSave(t, id, i)))
	}
	// Resaving an existing game never evicts.
	require.NoError(t, s.SaveGame(ctx, testSave(t, "a", 10)))
	infos, err := s.ListGames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, ids(infos))

	require.NoError(t, s.SaveGame(ctx, testSave(t, "d", 11)))
	infos, err = s.ListGames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "a", "c"}, ids(infos))

	_, err = s.LoadGame(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreKeepsCapacityWhenSavingAnOldGame(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newFileStore(t, 2)

	require.NoError(t, s.SaveGame(ctx, testSave(t, "a", 10)))
	require.NoError(t, s.SaveGame(ctx, testSave(t, "b", 20)))
	// A restored game can carry a timestamp older than everything stored.
	require.NoError(t, s.SaveGame(ctx, testSave(t, "c", 0)))

	infos, err := s.ListGames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, ids(infos))
}

func TestFileStoreDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newFileStore(t, 3)

	require.NoError(t, s.SaveGame(ctx, testSave(t, "a", 0)))
	require.NoError(t, s.DeleteGame(ctx, "a"))
	assert.ErrorIs(t, s.DeleteGame(ctx, "a"), ErrNotFound)

	infos, err := s.ListGames(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newFileStore(t, 3)

	for _, id := range []string{"", "../escape", "a/b", ".hidden"} {
		_, err := s.LoadGame(ctx, id)
		assert.Error(t, err, id)
		assert.NotErrorIs(t, err, ErrNotFound, id)
	}
}

func TestFileStoreSkipsCorruptSaves(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newFileStore(t, 3)

	require.NoError(t, s.SaveGame(ctx, testSave(t, "a", 0)))
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, gamesDir, "broken.json"), []byte("{"), 0o644))

	infos, err := s.ListGames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(infos))
}

func TestFileStoreStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newFileStore(t, 3)

	_, err := s.LoadStats(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	stats := statistics.Snapshot{
		Players: []statistics.PlayerStats{{PlayerName: "Alice", HandsWon: 2, TotalProfit: 40, StartingStack: 1000}},
	}
	require.NoError(t, s.SaveStats(ctx, stats))

	got, err := s.LoadStats(ctx)
	require.NoError(t, err)
	require.Len(t, got.Players, 1)
	assert.Equal(t, "Alice", got.Players[0].PlayerName)
	assert.Equal(t, 40, got.Players[0].TotalProfit)
}

func TestNewFileStoreRejectsZeroCapacity(t *testing.T) {
	t.Parallel()
	_, err := NewFileStore(t.TempDir(), 0, nil)
	assert.Error(t, err)
}
