// Package history exports completed hands as TOML hand histories.
package history

import (
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lox/pokertracker/internal/game"
	"github.com/lox/pokertracker/internal/statistics"
)

// HandHistory is one hand in an export. Per-player lists follow Players.
type HandHistory struct {
	Game            string   `toml:"game"`
	Table           string   `toml:"table,omitempty"`
	Hand            int      `toml:"hand"`
	Time            string   `toml:"time,omitempty"`
	BettingLimit    string   `toml:"betting_limit"`
	MinBet          int      `toml:"min_bet"`
	Players         []string `toml:"players"`
	Antes           []int    `toml:"antes"`
	Blinds          []int    `toml:"blinds"`
	StartingStacks  []int    `toml:"starting_stacks"`
	FinishingStacks []int    `toml:"finishing_stacks"`
	Profits         []int    `toml:"profits"`
	Winners         []string `toml:"winners"`
	Pot             int      `toml:"pot"`
	Uncontested     bool     `toml:"uncontested,omitempty"`
	Actions         []string `toml:"actions"`
}

// Export is the document written by Encode.
type Export struct {
	Exported string        `toml:"exported,omitempty"`
	Hands    []HandHistory `toml:"hand"`
}

// Build joins the tracker's hand records with the action log of the game in
// snap. Hands recorded for other games are skipped.
func Build(snap game.Snapshot, hands []statistics.Hand) []HandHistory {
	byHand := make(map[int][]game.ActionRecord)
	for _, rec := range snap.ActionHistory {
		byHand[rec.HandNumber] = append(byHand[rec.HandNumber], rec)
	}

	var out []HandHistory
	for _, h := range hands {
		if h.GameID != "" && h.GameID != snap.ID {
			continue
		}
		out = append(out, buildHand(snap, h, byHand[h.HandNumber]))
	}
	return out
}

func buildHand(snap game.Snapshot, h statistics.Hand, actions []game.ActionRecord) HandHistory {
	n := len(h.Players)
	hh := HandHistory{
		Game:            snap.ID,
		Table:           snap.Config.Name,
		Hand:            h.HandNumber,
		BettingLimit:    string(snap.Config.BettingLimit),
		MinBet:          snap.Config.MinBet,
		Players:         make([]string, n),
		Antes:           make([]int, n),
		Blinds:          make([]int, n),
		StartingStacks:  make([]int, n),
		FinishingStacks: make([]int, n),
		Profits:         make([]int, n),
		Winners:         h.Winners,
		Pot:             h.Pot,
		Uncontested:     h.Uncontested,
		Actions:         []string{},
	}
	if !h.Timestamp.IsZero() {
		hh.Time = h.Timestamp.UTC().Format(time.RFC3339)
	}

	index := make(map[string]int, n)
	for i, p := range h.Players {
		index[p.PlayerID] = i
		hh.Players[i] = p.PlayerName
		hh.StartingStacks[i] = p.StackBefore
		hh.FinishingStacks[i] = p.StackBefore + p.Profit
		hh.Profits[i] = p.Profit
	}

	round, high := 0, 0
	bets := make([]int, n) // chips in front of each player this round
	for _, rec := range actions {
		i, ok := index[rec.PlayerID]
		if !ok {
			continue
		}
		if rec.Round != round {
			round, high = rec.Round, 0
			clear(bets)
			hh.Actions = append(hh.Actions, fmt.Sprintf("# round %d", round))
		}
		switch rec.Action {
		case game.ActionPostAnte:
			hh.Antes[i] += rec.Amount
			continue
		case game.ActionPostBlind:
			hh.Blinds[i] += rec.Amount
			bets[i] += rec.Amount
			high = max(high, bets[i])
			continue
		}

		action, total := rec.Action, bets[i]
		switch action {
		case game.ActionBet, game.ActionRaise:
			total = rec.Amount
		case game.ActionCall, game.ActionAllIn:
			total += rec.Amount
		}
		// An all-in that does not raise is a call.
		if action == game.ActionAllIn && total <= high {
			action = game.ActionCall
		}
		bets[i] = total
		high = max(high, total)
		if line, ok := FormatAction(i, action, total); ok {
			hh.Actions = append(hh.Actions, line)
		}
	}
	return hh
}

// FormatAction renders an action in hand-history notation: "p1 f" for a
// fold, "p2 cc" for a check or call and "p3 cbr 120" for a bet, raise or
// all-in to a total of 120. Forced bets are reported false.
func FormatAction(index int, action game.ActionType, total int) (string, bool) {
	player := fmt.Sprintf("p%d", index+1)
	switch action {
	case game.ActionFold:
		return player + " f", true
	case game.ActionCheck, game.ActionCall:
		return player + " cc", true
	case game.ActionBet, game.ActionRaise, game.ActionAllIn:
		if total <= 0 {
			return "", false
		}
		return fmt.Sprintf("%s cbr %d", player, total), true
	case game.ActionPostBlind, game.ActionPostAnte:
		return "", false
	}
	return fmt.Sprintf("# %s %s %d", player, action, total), true
}

// Encode writes hands to w as TOML.
func Encode(w io.Writer, exported time.Time, hands []HandHistory) error {
	doc := Export{Hands: hands}
	if !exported.IsZero() {
		doc.Exported = exported.UTC().Format(time.RFC3339)
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode hand history: %w", err)
	}
	return nil
}

// Decode reads an export written by Encode.
func Decode(r io.Reader) (Export, error) {
	var doc Export
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return Export{}, fmt.Errorf("decode hand history: %w", err)
	}
	return doc, nil
}
