package session

import (
	"fmt"

	"github.com/lox/pokertracker/internal/game"
)

// CommandKind names a state-changing operation on a game.
type CommandKind string

const (
	CommandAddPlayer    CommandKind = "add_player"
	CommandRemovePlayer CommandKind = "remove_player"
	CommandMoveSeat     CommandKind = "move_seat"
	CommandSetDealer    CommandKind = "set_dealer"
	CommandSitOut       CommandKind = "sit_out"
	CommandSitIn        CommandKind = "sit_in"
	CommandEditStack    CommandKind = "edit_stack"
	CommandRebuy        CommandKind = "rebuy"
	CommandStartHand    CommandKind = "start_hand"
	CommandAction       CommandKind = "action"
	CommandEndRound     CommandKind = "end_round"
	CommandEndHand      CommandKind = "end_hand"
)

// Command is one journaled operation. Replaying a session's commands in
// order against its base snapshot reproduces the live game.
type Command struct {
	Kind       CommandKind         `json:"kind"`
	PlayerID   string              `json:"playerId,omitempty"`
	Name       string              `json:"name,omitempty"`
	Seat       int                 `json:"seat,omitempty"`
	Amount     int                 `json:"amount,omitempty"`
	Action     game.ActionType     `json:"action,omitempty"`
	PotWinners map[string][]string `json:"potWinners,omitempty"`
}

type result struct {
	player        game.Player
	distributions []game.Distribution
}

// apply runs c against g. AddPlayer commands are completed with the id the
// game minted so a replay seats the same player.
func apply(g *game.Game, c *Command) (result, error) {
	var r result
	var err error
	switch c.Kind {
	case CommandAddPlayer:
		opts := []game.SeatOption{game.WithSeat(c.Seat), game.WithStack(c.Amount)}
		if c.PlayerID != "" {
			opts = append(opts, game.WithPlayerID(c.PlayerID))
		}
		r.player, err = g.AddPlayer(c.Name, opts...)
		if err == nil {
			c.PlayerID = r.player.ID
		}
	case CommandRemovePlayer:
		err = g.RemovePlayer(c.PlayerID)
	case CommandMoveSeat:
		err = g.MovePlayerSeat(c.PlayerID, c.Seat)
	case CommandSetDealer:
		err = g.SetDealerButton(c.PlayerID)
	case CommandSitOut:
		err = g.SitOut(c.PlayerID)
	case CommandSitIn:
		err = g.SitIn(c.PlayerID)
	case CommandEditStack:
		err = g.SetStack(c.PlayerID, c.Amount)
	case CommandRebuy:
		err = g.Rebuy(c.PlayerID, c.Amount)
	case CommandStartHand:
		err = g.StartHand()
	case CommandAction:
		err = g.PerformAction(c.PlayerID, c.Action, c.Amount)
	case CommandEndRound:
		err = g.EndRound()
	case CommandEndHand:
		r.distributions, err = g.EndHandWithPots(c.PotWinners)
	default:
		err = fmt.Errorf("unknown command %q", c.Kind)
	}
	return r, err
}
