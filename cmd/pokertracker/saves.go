package main

import (
	"context"
	"fmt"

	"github.com/lox/pokertracker/internal/gameid"
)

// SavesCmd groups the saved game commands.
type SavesCmd struct {
	List   SavesListCmd   `cmd:"" default:"1" help:"List saved games, newest first"`
	Delete SavesDeleteCmd `cmd:"" help:"Delete a saved game"`
}

type SavesListCmd struct{}

func (cmd SavesListCmd) Run(g *Globals) error {
	ctx := context.Background()
	e, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	infos, err := e.store.ListGames(ctx)
	if err != nil {
		return err
	}
	fmt.Println(e.display.Saves(infos))
	return nil
}

type SavesDeleteCmd struct {
	ID string `arg:"" help:"Game id"`
}

func (cmd SavesDeleteCmd) Validate() error {
	return gameid.Validate(cmd.ID)
}

func (cmd SavesDeleteCmd) Run(g *Globals) error {
	ctx := context.Background()
	e, err := g.open(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.store.DeleteGame(ctx, cmd.ID); err != nil {
		return fmt.Errorf("delete %s: %w", cmd.ID, err)
	}
	e.logger.Info("Deleted saved game", "id", cmd.ID)
	return nil
}
