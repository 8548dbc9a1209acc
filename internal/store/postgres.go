package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lox/pokertracker/internal/statistics"
)

//go:embed schema.sql
var schema embed.FS

// PGStore keeps saves and statistics in Postgres.
type PGStore struct {
	pool     *pgxpool.Pool
	maxSaves int
	logger   *log.Logger
}

var _ Store = (*PGStore)(nil)

// OpenPostgres connects to dsn and applies the schema.
func OpenPostgres(ctx context.Context, dsn string, maxSaves int, logger *log.Logger) (*PGStore, error) {
	if maxSaves < 1 {
		return nil, fmt.Errorf("max saves must be at least 1, got %d", maxSaves)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	s := &PGStore{pool: pool, maxSaves: maxSaves, logger: logger}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PGStore) migrate(ctx context.Context) error {
	sql, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SaveGame upserts save and trims the table to the newest saves.
func (s *PGStore) SaveGame(ctx context.Context, save Save) error {
	snapshot, err := json.Marshal(save.Game)
	if err != nil {
		return fmt.Errorf("encode save %s: %w", save.ID, err)
	}
	info := save.Info()
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO saved_games (id, name, saved_at, hand_number, players, snapshot)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE
			   SET name = EXCLUDED.name,
			       saved_at = EXCLUDED.saved_at,
			       hand_number = EXCLUDED.hand_number,
			       players = EXCLUDED.players,
			       snapshot = EXCLUDED.snapshot
		`, info.ID, info.Name, info.SavedAt, info.HandNumber, info.Players, snapshot); err != nil {
			return fmt.Errorf("save game %s: %w", save.ID, err)
		}
		tag, err := tx.Exec(ctx, `
			DELETE FROM saved_games
			 WHERE id <> $1
			   AND id NOT IN (
			       SELECT id FROM saved_games WHERE id <> $1
			        ORDER BY saved_at DESC, id LIMIT $2)
		`, save.ID, s.maxSaves-1)
		if err != nil {
			return fmt.Errorf("evict saves: %w", err)
		}
		if n := tag.RowsAffected(); n > 0 {
			s.logger.Debug("Evicted saved games", "count", n)
		}
		return nil
	})
}

// LoadGame reads the save for id.
func (s *PGStore) LoadGame(ctx context.Context, id string) (Save, error) {
	save := Save{ID: id}
	var snapshot []byte
	err := s.pool.QueryRow(ctx, `
		SELECT name, saved_at, snapshot FROM saved_games WHERE id = $1
	`, id).Scan(&save.Name, &save.SavedAt, &snapshot)
	if errors.Is(err, pgx.ErrNoRows) {
		return Save{}, fmt.Errorf("saved game %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Save{}, fmt.Errorf("load game %s: %w", id, err)
	}
	if err := json.Unmarshal(snapshot, &save.Game); err != nil {
		return Save{}, fmt.Errorf("decode save %s: %w", id, err)
	}
	return save, nil
}

// ListGames returns every save, newest first.
func (s *PGStore) ListGames(ctx context.Context) ([]SaveInfo, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, saved_at, hand_number, players
		  FROM saved_games
		 ORDER BY saved_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	infos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (SaveInfo, error) {
		var info SaveInfo
		err := row.Scan(&info.ID, &info.Name, &info.SavedAt, &info.HandNumber, &info.Players)
		return info, err
	})
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	return infos, nil
}

// DeleteGame removes the save for id.
func (s *PGStore) DeleteGame(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM saved_games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete save %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saved game %s: %w", id, ErrNotFound)
	}
	return nil
}

// SaveStats replaces the statistics record.
func (s *PGStore) SaveStats(ctx context.Context, stats statistics.Snapshot) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO player_stats (id, snapshot, updated_at) VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = now()
	`, data)
	if err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

// LoadStats reads the statistics record.
func (s *PGStore) LoadStats(ctx context.Context) (statistics.Snapshot, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT snapshot FROM player_stats WHERE id = 1`).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return statistics.Snapshot{}, fmt.Errorf("stats: %w", ErrNotFound)
	}
	if err != nil {
		return statistics.Snapshot{}, fmt.Errorf("load stats: %w", err)
	}
	var stats statistics.Snapshot
	if err := json.Unmarshal(data, &stats); err != nil {
		return statistics.Snapshot{}, fmt.Errorf("decode stats: %w", err)
	}
	return stats, nil
}

// Close releases the connection pool.
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}
