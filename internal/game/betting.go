package game

import (
	"fmt"
	"strings"
)

// GameStatus is the hand state machine position.
type GameStatus string

const (
	StatusWaiting      GameStatus = "waiting"
	StatusInProgress   GameStatus = "in_progress"
	StatusHandComplete GameStatus = "hand_complete"
	// Paused and Finished are reserved; nothing in the hand loop enters them.
	StatusPaused   GameStatus = "paused"
	StatusFinished GameStatus = "finished"
)

func (s GameStatus) String() string {
	return string(s)
}

// Valid reports whether s is a known game status.
func (s GameStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusInProgress, StatusHandComplete, StatusPaused, StatusFinished:
		return true
	}
	return false
}

// ActionType represents a player action
type ActionType string

const (
	ActionCheck     ActionType = "check"
	ActionBet       ActionType = "bet"
	ActionCall      ActionType = "call"
	ActionRaise     ActionType = "raise"
	ActionFold      ActionType = "fold"
	ActionAllIn     ActionType = "all_in"
	ActionPostBlind ActionType = "post_blind"
	ActionPostAnte  ActionType = "post_ante"
)

func (a ActionType) String() string {
	return string(a)
}

// Voluntary reports whether the action is a decision a player makes on their
// turn, as opposed to a forced blind or ante.
func (a ActionType) Voluntary() bool {
	switch a {
	case ActionCheck, ActionBet, ActionCall, ActionRaise, ActionFold, ActionAllIn:
		return true
	}
	return false
}

// ParseAction converts user input to an ActionType
func ParseAction(s string) (ActionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "check", "k":
		return ActionCheck, nil
	case "bet", "b":
		return ActionBet, nil
	case "call", "c":
		return ActionCall, nil
	case "raise", "r":
		return ActionRaise, nil
	case "fold", "f":
		return ActionFold, nil
	case "allin", "all_in", "all-in", "a":
		return ActionAllIn, nil
	}
	return "", fmt.Errorf("unknown action %q: %w", s, ErrIllegalAction)
}

// BettingLimit selects how large bets and raises may be.
type BettingLimit string

const (
	NoLimit    BettingLimit = "no_limit"
	PotLimit   BettingLimit = "pot_limit"
	FixedLimit BettingLimit = "fixed_limit"
)

func (l BettingLimit) String() string {
	return string(l)
}

// ParseBettingLimit accepts the canonical names plus the usual short forms.
func ParseBettingLimit(s string) (BettingLimit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "no_limit", "no-limit", "nl":
		return NoLimit, nil
	case "pot_limit", "pot-limit", "pl":
		return PotLimit, nil
	case "fixed_limit", "fixed-limit", "limit", "fl":
		return FixedLimit, nil
	}
	return "", fmt.Errorf("unknown betting limit %q", s)
}

// ValidAction describes one action open to the current player and the legal
// amount range. For BET and RAISE the amounts are totals for the round.
type ValidAction struct {
	Action    ActionType `json:"action"`
	MinAmount int        `json:"minAmount"`
	MaxAmount int        `json:"maxAmount"`
}
