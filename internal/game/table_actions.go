package game

import "fmt"

// PerformAction applies a player's decision. For BET and RAISE amount is the
// total the player's bet for the round is brought to, not the increment; it
// is ignored for the other actions. A rejected action leaves the game as it
// was.
func (g *Game) PerformAction(playerID string, action ActionType, amount int) error {
	defer g.flush()

	if g.status != StatusInProgress {
		return fmt.Errorf("no betting while %s: %w", g.status, ErrInvalidState)
	}
	player, index := g.findPlayer(playerID)
	if player == nil {
		return fmt.Errorf("player %s: %w", playerID, ErrNotFound)
	}
	if index != g.currentPlayerIndex {
		current := g.players[g.currentPlayerIndex]
		return fmt.Errorf("%s acted but %s is to act: %w", player.Name, current.Name, ErrTurn)
	}
	if !player.CanAct() {
		return fmt.Errorf("%s is %s: %w", player.Name, player.Status, ErrInvalidState)
	}

	before := g.actionContext(player)
	bc := g.betContext(player)

	var recorded int
	switch action {
	case ActionCheck:
		if bc.CallAmount() > 0 {
			return fmt.Errorf("cannot check, %d to call: %w", bc.CallAmount(), ErrIllegalAction)
		}
	case ActionBet:
		if err := ValidateBet(g.limit, bc, amount); err != nil {
			return err
		}
		player.Bet(amount)
		g.pots.AddBet(player.ID, amount)
		g.currentBet = amount
		g.reopenAction(player)
		recorded = amount
	case ActionCall:
		owed := bc.CallAmount()
		if owed <= 0 {
			return fmt.Errorf("nothing to call: %w", ErrIllegalAction)
		}
		if owed >= player.Stack {
			recorded = g.allIn(player)
			action = ActionAllIn
			break
		}
		player.Bet(owed)
		g.pots.AddBet(player.ID, owed)
		recorded = owed
	case ActionRaise:
		if err := ValidateRaise(g.limit, bc, amount); err != nil {
			return err
		}
		committed := player.Bet(amount - player.CurrentBet)
		g.pots.AddBet(player.ID, committed)
		g.currentBet = amount
		g.reopenAction(player)
		recorded = amount
	case ActionFold:
		player.Fold()
	case ActionAllIn:
		if player.Stack == 0 {
			return fmt.Errorf("%s has no chips: %w", player.Name, ErrIllegalAction)
		}
		recorded = g.allIn(player)
	default:
		return fmt.Errorf("action %q: %w", action, ErrIllegalAction)
	}

	player.HasActed = true
	if g.currentRound == 0 && putsMoneyIn(action) {
		player.HasActedVoluntarily = true
	}
	g.recordAction(player, action, recorded)

	g.logger.Debug("Player action",
		"hand", g.handNumber,
		"player", player.Name,
		"action", action,
		"amount", recorded,
		"pot", g.pots.TotalPot())
	g.emit(ActionEvent{
		HandNumber: g.handNumber,
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Action:     action,
		Amount:     recorded,
		Before:     before,
		PotAfter:   g.pots.TotalPot(),
		timestamp:  g.clock.Now(),
	})

	g.afterAction()
	return nil
}

// afterAction ends the hand, closes betting or passes the turn.
func (g *Game) afterAction() {
	remaining := g.playersInHand()
	if len(remaining) == 1 {
		winner := remaining[0]
		g.pots.CreateSidePots(g.players)
		distributions, err := distribute(g.pots.pots, map[string][]string{DefaultPotKey: {winner.ID}})
		if err != nil {
			// Leave the pots for the caller to award.
			g.logger.Warn("Could not award uncontested pot", "hand", g.handNumber, "winner", winner.Name, "err", err)
			g.status = StatusHandComplete
			return
		}
		g.payout(distributions, true)
		return
	}

	if g.bettingClosed(true) {
		g.showdown()
		return
	}

	g.moveToNextPlayer()
	if g.IsRoundComplete() {
		g.endRound()
	}
}

func (g *Game) allIn(p *Player) int {
	amount := p.AllIn()
	g.pots.AddBet(p.ID, amount)
	if p.CurrentBet > g.currentBet {
		g.currentBet = p.CurrentBet
		g.reopenAction(p)
	}
	return amount
}

// reopenAction makes every other active player act again.
func (g *Game) reopenAction(aggressor *Player) {
	for _, p := range g.players {
		if p != aggressor && p.Status == StatusActive {
			p.HasActed = false
		}
	}
}

func (g *Game) moveToNextPlayer() {
	if next := g.nextIndex(g.currentPlayerIndex, canAct); next >= 0 {
		g.currentPlayerIndex = next
	}
}

// playersInHand returns players who have not folded, sat out or busted.
func (g *Game) playersInHand() []*Player {
	var out []*Player
	for _, p := range g.players {
		switch p.Status {
		case StatusActive, StatusAllIn:
			out = append(out, p)
		case StatusFolded, StatusSittingOut, StatusEliminated:
		default:
			panic(fmt.Sprintf("game: unknown player status %q", p.Status))
		}
	}
	return out
}

func putsMoneyIn(action ActionType) bool {
	switch action {
	case ActionBet, ActionCall, ActionRaise, ActionAllIn:
		return true
	}
	return false
}

func (g *Game) recordAction(p *Player, action ActionType, amount int) {
	rec := ActionRecord{
		HandNumber: g.handNumber,
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Action:     action,
		Amount:     amount,
		Round:      g.currentRound,
		Pot:        g.pots.TotalPot(),
		Timestamp:  g.clock.Now(),
	}
	g.actionHistory = append(g.actionHistory, rec)
	p.RecordAction(rec)
}

func (g *Game) actionContext(p *Player) ActionContext {
	return ActionContext{
		Status:              p.Status,
		Stack:               p.Stack,
		PlayerBet:           p.CurrentBet,
		CurrentBet:          g.currentBet,
		BigBlind:            g.config.BigBlind,
		Round:               g.currentRound,
		IsBigBlind:          p.IsBigBlind,
		HasActedVoluntarily: p.HasActedVoluntarily,
	}
}

func (g *Game) betContext(p *Player) BetContext {
	return BetContext{
		Stack:      p.Stack,
		PlayerBet:  p.CurrentBet,
		CurrentBet: g.currentBet,
		Pot:        g.pots.TotalPot(),
		MinBet:     g.config.MinBet,
		MinRaise:   g.config.MinRaise,
	}
}

// ValidActions returns the actions open to the player whose turn it is, with
// the legal amount range for each.
func (g *Game) ValidActions() []ValidAction {
	if g.status != StatusInProgress {
		return nil
	}
	player := g.players[g.currentPlayerIndex]
	if !player.CanAct() {
		return nil
	}
	bc := g.betContext(player)
	owed := bc.CallAmount()

	actions := []ValidAction{{Action: ActionFold}}
	switch {
	case owed == 0:
		actions = append(actions, ValidAction{Action: ActionCheck})
	case owed < player.Stack:
		actions = append(actions, ValidAction{Action: ActionCall, MinAmount: owed, MaxAmount: owed})
	}

	if bc.CurrentBet == 0 {
		if lo, hi := bc.MinBetAmount(), g.limit.MaxBet(bc); lo > 0 && lo <= hi {
			actions = append(actions, ValidAction{Action: ActionBet, MinAmount: lo, MaxAmount: hi})
		}
	} else if lo, hi := bc.MinRaiseTo(), g.limit.MaxRaiseTo(bc); lo <= hi && lo-bc.PlayerBet <= bc.Stack {
		actions = append(actions, ValidAction{Action: ActionRaise, MinAmount: lo, MaxAmount: hi})
	}

	if player.Stack > 0 {
		total := player.Stack + player.CurrentBet
		actions = append(actions, ValidAction{Action: ActionAllIn, MinAmount: total, MaxAmount: total})
	}
	return actions
}
