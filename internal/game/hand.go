package game

import (
	"fmt"
	"maps"
	"slices"
)

func isContender(p *Player) bool { return p.InHand() }

func canAct(p *Player) bool { return p.CanAct() }

func notEliminated(p *Player) bool { return p.Status != StatusEliminated }

// StartHand resets the table for a new hand, posts antes and blinds and seats
// the first player to act.
func (g *Game) StartHand() error {
	defer g.flush()

	if g.status != StatusWaiting {
		return fmt.Errorf("cannot start a hand while %s: %w", g.status, ErrInvalidState)
	}
	if n := g.countPlayers(isContender); n < 2 {
		return fmt.Errorf("need at least 2 players to start, have %d: %w", n, ErrInvalidState)
	}

	g.handNumber++
	g.status = StatusInProgress
	g.currentRound = 0
	g.currentBet = 0
	g.pots.Reset()
	for _, p := range g.players {
		p.ResetForNewHand()
		p.IsSmallBlind = false
		p.IsBigBlind = false
	}

	// The button only needs placing on the first hand; after that EndHand
	// has already moved it.
	if slices.ContainsFunc(g.players, func(p *Player) bool { return p.IsDealer }) {
		g.syncDealerPosition()
	} else {
		g.moveDealerButton()
	}

	seats := g.seats()
	g.postForcedBets()
	g.determineFirstActor()

	dealer := g.players[g.dealerPosition]
	g.logger.Debug("Hand started",
		"hand", g.handNumber,
		"dealer", dealer.Name,
		"pot", g.pots.TotalPot(),
		"first", g.players[g.currentPlayerIndex].Name)
	g.emit(HandStartedEvent{
		GameID:     g.id,
		HandNumber: g.handNumber,
		Seats:      seats,
		DealerID:   dealer.ID,
		SmallBlind: g.config.SmallBlind,
		BigBlind:   g.config.BigBlind,
		Ante:       g.config.Ante,
		timestamp:  g.clock.Now(),
	})

	// Forced bets can leave nobody able to act, or one player with nobody
	// left to bet against.
	if g.countPlayers(canAct) == 0 || g.bettingClosed(false) {
		g.showdown()
	}
	return nil
}

// postForcedBets collects antes then blinds. Heads-up the dealer posts the
// small blind.
func (g *Game) postForcedBets() {
	if g.config.Ante > 0 {
		for _, p := range g.players {
			if !p.InHand() {
				continue
			}
			if amount := p.PostAnte(g.config.Ante); amount > 0 {
				g.pots.AddBet(p.ID, amount)
				g.recordAction(p, ActionPostAnte, amount)
			}
		}
	}

	sb, bb := g.blindPositions()
	g.postBlind(g.players[sb], g.config.SmallBlind, true)
	g.postBlind(g.players[bb], g.config.BigBlind, false)
	g.currentBet = g.config.BigBlind
}

// blindPositions walks contenders from the button.
func (g *Game) blindPositions() (sb, bb int) {
	if g.countPlayers(isContender) == 2 {
		sb = g.dealerPosition
		if !isContender(g.players[sb]) {
			sb = g.nextIndex(sb, isContender)
		}
	} else {
		sb = g.nextIndex(g.dealerPosition, isContender)
	}
	bb = g.nextIndex(sb, isContender)
	return sb, bb
}

func (g *Game) postBlind(p *Player, amount int, small bool) {
	posted := p.Bet(amount)
	if posted == 0 {
		return
	}
	g.pots.AddBet(p.ID, posted)
	if small {
		p.IsSmallBlind = true
	} else {
		p.IsBigBlind = true
	}
	g.recordAction(p, ActionPostBlind, posted)
}

// determineFirstActor seats the first player of a betting round. Pre-flop
// that is the small blind heads-up and the player after the big blind
// otherwise; later rounds start left of the button.
func (g *Game) determineFirstActor() {
	if g.currentRound == 0 {
		sb, bb := g.blindPositions()
		first := sb
		if g.countPlayers(isContender) > 2 {
			first = g.nextIndex(bb, isContender)
		}
		if !canAct(g.players[first]) {
			if next := g.nextIndex(first, canAct); next >= 0 {
				first = next
			}
		}
		g.currentPlayerIndex = first
		return
	}

	if next := g.nextIndex(g.dealerPosition, canAct); next >= 0 {
		g.currentPlayerIndex = next
		return
	}
	g.currentPlayerIndex = g.dealerPosition
}

// IsRoundComplete reports whether the current betting round is over.
func (g *Game) IsRoundComplete() bool {
	var active []*Player
	allIn := 0
	for _, p := range g.players {
		switch p.Status {
		case StatusActive:
			active = append(active, p)
		case StatusAllIn:
			allIn++
		case StatusFolded, StatusSittingOut, StatusEliminated:
		default:
			panic(fmt.Sprintf("game: unknown player status %q", p.Status))
		}
	}

	switch len(active) {
	case 0:
		return true
	case 1:
		return allIn == 0 || active[0].HasActed
	}
	for _, p := range active {
		if !p.HasActed || p.CurrentBet != g.currentBet {
			return false
		}
	}
	return true
}

// bettingClosed reports whether no further betting is possible: everyone
// left is all-in, or the only player with chips has covered every all-in.
// requireActed demands that lone player has acted this round.
func (g *Game) bettingClosed(requireActed bool) bool {
	var active []*Player
	maxAllIn, allIn := 0, 0
	for _, p := range g.players {
		switch p.Status {
		case StatusActive:
			active = append(active, p)
		case StatusAllIn:
			allIn++
			maxAllIn = max(maxAllIn, p.CurrentBet)
		}
	}

	switch {
	case len(active) == 0 && allIn > 1:
		return true
	case len(active) == 1 && allIn > 0:
		return active[0].CurrentBet >= maxAllIn && (active[0].HasActed || !requireActed)
	}
	return false
}

// showdown skips the remaining rounds; the hand waits for winners.
func (g *Game) showdown() {
	g.currentRound = g.config.TotalRounds
	g.status = StatusHandComplete
	g.pots.CreateSidePots(g.players)
	g.logger.Debug("Betting closed", "hand", g.handNumber, "pot", g.pots.TotalPot())
}

// EndRound closes the current betting round and opens the next, or completes
// the hand after the last round.
func (g *Game) EndRound() error {
	defer g.flush()
	if g.status != StatusInProgress {
		return fmt.Errorf("no betting round while %s: %w", g.status, ErrInvalidState)
	}
	g.endRound()
	return nil
}

func (g *Game) endRound() {
	ended := g.currentRound
	g.currentRound++

	if g.currentRound >= g.config.TotalRounds {
		g.status = StatusHandComplete
		g.pots.CreateSidePots(g.players)
		g.logger.Debug("Final round complete", "hand", g.handNumber, "pot", g.pots.TotalPot())
		return
	}
	if g.bettingClosed(false) {
		g.showdown()
		return
	}

	for _, p := range g.players {
		p.ResetForNewRound()
	}
	g.currentBet = 0
	if slices.ContainsFunc(g.players, func(p *Player) bool { return p.Status == StatusAllIn }) {
		g.pots.CreateSidePots(g.players)
	}
	g.determineFirstActor()

	g.logger.Debug("Round ended", "hand", g.handNumber, "round", ended, "pot", g.pots.TotalPot())
	g.emit(RoundEndedEvent{
		HandNumber: g.handNumber,
		Round:      ended,
		Pot:        g.pots.TotalPot(),
		timestamp:  g.clock.Now(),
	})
}

// EndHand pays every pot to winnerIDs, skipping designees not eligible for a
// given pot, and prepares the table for the next hand.
func (g *Game) EndHand(winnerIDs []string) ([]Distribution, error) {
	return g.EndHandWithPots(map[string][]string{DefaultPotKey: winnerIDs})
}

// EndHandWithPots pays each pot to the winners listed under its id, or under
// DefaultPotKey when it has no entry. The game is unchanged on error.
func (g *Game) EndHandWithPots(potWinners map[string][]string) ([]Distribution, error) {
	defer g.flush()

	if g.status != StatusInProgress && g.status != StatusHandComplete {
		return nil, fmt.Errorf("no hand to end while %s: %w", g.status, ErrInvalidState)
	}
	for _, key := range slices.Sorted(maps.Keys(potWinners)) {
		for _, id := range potWinners[key] {
			if p, _ := g.findPlayer(id); p == nil {
				return nil, fmt.Errorf("winner %s: %w", id, ErrNotFound)
			}
		}
	}

	pots := g.pots.pots
	if !g.pots.Current() {
		pots = g.pots.computePots(g.players)
	}
	for key := range potWinners {
		if key != DefaultPotKey && !slices.ContainsFunc(pots, func(p Pot) bool { return p.ID == key }) {
			return nil, fmt.Errorf("pot %q: %w", key, ErrNotFound)
		}
	}
	distributions, err := distribute(pots, potWinners)
	if err != nil {
		return nil, err
	}

	g.pots.pots = pots
	g.pots.computed = true
	g.payout(distributions, false)
	return distributions, nil
}

// payout credits winners and returns the table to waiting. uncontested is set
// when everyone else folded.
func (g *Game) payout(distributions []Distribution, uncontested bool) {
	var winners []string
	for _, d := range distributions {
		for _, share := range d.Payouts {
			if p, _ := g.findPlayer(share.PlayerID); p != nil {
				p.AddChips(share.Amount)
			}
			if !slices.Contains(winners, share.PlayerID) {
				winners = append(winners, share.PlayerID)
			}
		}
		g.logger.Debug("Pot awarded", "hand", g.handNumber, "pot", d.PotID, "amount", d.Amount, "winners", d.Winners)
	}

	g.status = StatusWaiting
	g.currentRound = 0
	g.currentBet = 0
	g.pots.Reset()
	for _, p := range g.players {
		p.ResetForNewHand()
		p.IsSmallBlind = false
		p.IsBigBlind = false
	}
	g.moveDealerButton()

	g.logger.Debug("Hand ended", "hand", g.handNumber, "winners", winners)
	g.emit(HandEndedEvent{
		HandNumber:    g.handNumber,
		Winners:       winners,
		Distributions: distributions,
		Uncontested:   uncontested,
		Seats:         g.seats(),
		timestamp:     g.clock.Now(),
	})
}

// moveDealerButton passes the button to the next seat that is not eliminated.
func (g *Game) moveDealerButton() {
	if g.countPlayers(isContender) == 0 {
		return
	}
	next := g.nextIndex(g.dealerPosition, notEliminated)
	if next < 0 {
		return
	}
	for _, p := range g.players {
		p.IsDealer = false
	}
	g.dealerPosition = next
	g.players[next].IsDealer = true
}
