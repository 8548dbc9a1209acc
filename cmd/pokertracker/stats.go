package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/lox/pokertracker/internal/statistics"
	"github.com/lox/pokertracker/internal/store"
)

// StatsCmd prints the stored player statistics.
type StatsCmd struct {
	Last int `short:"n" help:"Only count the last N hands (0 = all)"`
}

func (cmd StatsCmd) Run(g *Globals) error {
	ctx := context.Background()
	e, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	snap, err := e.store.LoadStats(ctx)
	if errors.Is(err, store.ErrNotFound) {
		fmt.Println(e.display.Stats(nil))
		return nil
	} else if err != nil {
		return err
	}

	tracker := statistics.NewTracker(statistics.WithLogger(e.logger))
	tracker.Restore(snap)
	players := tracker.Players()
	if cmd.Last > 0 {
		players = tracker.Historical(cmd.Last)
	}
	fmt.Println(e.display.Stats(players))
	return nil
}
