package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lox/pokertracker/internal/gameid"
	"github.com/lox/pokertracker/internal/history"
	"github.com/lox/pokertracker/internal/statistics"
	"github.com/lox/pokertracker/internal/store"
)

// ExportCmd writes a saved game's hands as a TOML hand history.
type ExportCmd struct {
	ID  string `arg:"" help:"Game id"`
	Out string `short:"o" help:"Output file (default: stdout)" type:"path"`
}

func (cmd ExportCmd) Validate() error {
	return gameid.Validate(cmd.ID)
}

func (cmd ExportCmd) Run(g *Globals) error {
	ctx := context.Background()
	e, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	var save store.Save
	var stats statistics.Snapshot
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		save, err = e.store.LoadGame(egCtx, cmd.ID)
		return err
	})
	eg.Go(func() error {
		var err error
		stats, err = e.store.LoadStats(egCtx)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	})
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("export %s: %w", cmd.ID, err)
	}

	hands := history.Build(save.Game, stats.Hands)
	if len(hands) == 0 {
		return fmt.Errorf("no recorded hands for game %s", cmd.ID)
	}

	var w io.Writer = os.Stdout
	if cmd.Out != "" {
		f, err := os.Create(cmd.Out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := history.Encode(w, time.Now(), hands); err != nil {
		return err
	}
	e.logger.Info("Exported hand history", "game", cmd.ID, "hands", len(hands), "out", cmd.Out)
	return nil
}
