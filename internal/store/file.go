package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/pokertracker/internal/fileutil"
	"github.com/lox/pokertracker/internal/statistics"
)

const (
	gamesDir  = "games"
	statsFile = "stats.json"
)

// FileStore keeps each save as a JSON file under dir/games and the
// statistics in dir/stats.json. Writes are atomic.
type FileStore struct {
	dir      string
	maxSaves int
	logger   *log.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store rooted at dir keeping at most maxSaves games.
func NewFileStore(dir string, maxSaves int, logger *log.Logger) (*FileStore, error) {
	if maxSaves < 1 {
		return nil, fmt.Errorf("max saves must be at least 1, got %d", maxSaves)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := os.MkdirAll(filepath.Join(dir, gamesDir), 0o755); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	return &FileStore{dir: dir, maxSaves: maxSaves, logger: logger}, nil
}

func (s *FileStore) gamePath(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid save id %q", id)
	}
	return filepath.Join(s.dir, gamesDir, id+".json"), nil
}

// SaveGame writes save, evicting the oldest saves of other games when the
// store is full.
func (s *FileStore) SaveGame(ctx context.Context, save Save) error {
	path, err := s.gamePath(save.ID)
	if err != nil {
		return err
	}
	if err := fileutil.WriteJSON(path, save, 0o644); err != nil {
		return fmt.Errorf("save game %s: %w", save.ID, err)
	}

	saves, err := s.ListGames(ctx)
	if err != nil {
		return err
	}
	others := slices.DeleteFunc(saves, func(info SaveInfo) bool { return info.ID == save.ID })
	// The save just written takes one of the slots whatever its age.
	for _, old := range others[min(len(others), s.maxSaves-1):] {
		s.logger.Debug("Evicting saved game", "id", old.ID, "name", old.Name, "savedAt", old.SavedAt)
		if err := s.DeleteGame(ctx, old.ID); err != nil {
			return err
		}
	}
	return nil
}

// LoadGame reads the save for id.
func (s *FileStore) LoadGame(ctx context.Context, id string) (Save, error) {
	path, err := s.gamePath(id)
	if err != nil {
		return Save{}, err
	}
	var save Save
	if err := fileutil.ReadJSON(path, &save); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Save{}, fmt.Errorf("saved game %s: %w", id, ErrNotFound)
		}
		return Save{}, err
	}
	return save, nil
}

// ListGames returns every readable save, newest first. Unreadable files are
// logged and skipped.
func (s *FileStore) ListGames(ctx context.Context) ([]SaveInfo, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, gamesDir))
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	var infos []SaveInfo
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		var save Save
		if err := fileutil.ReadJSON(filepath.Join(s.dir, gamesDir, name), &save); err != nil {
			s.logger.Warn("Skipping unreadable save", "file", name, "err", err)
			continue
		}
		infos = append(infos, save.Info())
	}
	slices.SortFunc(infos, func(a, b SaveInfo) int {
		if c := b.SavedAt.Compare(a.SavedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return infos, nil
}

// DeleteGame removes the save for id.
func (s *FileStore) DeleteGame(ctx context.Context, id string) error {
	path, err := s.gamePath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("saved game %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete save %s: %w", id, err)
	}
	return nil
}

// SaveStats replaces the statistics record.
func (s *FileStore) SaveStats(ctx context.Context, stats statistics.Snapshot) error {
	if err := fileutil.WriteJSON(filepath.Join(s.dir, statsFile), stats, 0o644); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

// LoadStats reads the statistics record.
func (s *FileStore) LoadStats(ctx context.Context) (statistics.Snapshot, error) {
	var stats statistics.Snapshot
	if err := fileutil.ReadJSON(filepath.Join(s.dir, statsFile), &stats); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return statistics.Snapshot{}, fmt.Errorf("stats: %w", ErrNotFound)
		}
		return statistics.Snapshot{}, err
	}
	return stats, nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
