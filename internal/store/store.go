// Package store persists saved games and player statistics.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/lox/pokertracker/internal/game"
	"github.com/lox/pokertracker/internal/statistics"
)

// ErrNotFound is returned when a save or stats record does not exist.
var ErrNotFound = errors.New("not found")

// Save is a game snapshot written at a point in time. A game has at most one
// save; saving again replaces it.
type Save struct {
	ID      string        `json:"id"` // Game id
	Name    string        `json:"name"`
	SavedAt time.Time     `json:"savedAt"`
	Game    game.Snapshot `json:"game"`
}

// SaveInfo summarises a save without its snapshot.
type SaveInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SavedAt    time.Time `json:"savedAt"`
	HandNumber int       `json:"handNumber"`
	Players    int       `json:"players"`
}

// Info summarises s.
func (s Save) Info() SaveInfo {
	return SaveInfo{
		ID:         s.ID,
		Name:       s.Name,
		SavedAt:    s.SavedAt,
		HandNumber: s.Game.HandNumber,
		Players:    len(s.Game.Players),
	}
}

// Store keeps a bounded set of saved games and one statistics record.
// ListGames returns the newest save first. Saving a new game when the store
// is full evicts the oldest.
type Store interface {
	SaveGame(ctx context.Context, save Save) error
	LoadGame(ctx context.Context, id string) (Save, error)
	ListGames(ctx context.Context) ([]SaveInfo, error)
	DeleteGame(ctx context.Context, id string) error
	SaveStats(ctx context.Context, stats statistics.Snapshot) error
	LoadStats(ctx context.Context) (statistics.Snapshot, error)
	Close() error
}
