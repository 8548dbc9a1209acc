package game

import (
	"fmt"
	"time"
)

// PlayerStatus is a seat's state within the current hand.
type PlayerStatus string

const (
	StatusActive     PlayerStatus = "active"
	StatusFolded     PlayerStatus = "folded"
	StatusAllIn      PlayerStatus = "all_in"
	StatusSittingOut PlayerStatus = "sitting_out"
	StatusEliminated PlayerStatus = "eliminated"
)

// Valid reports whether s is one of the known statuses.
func (s PlayerStatus) Valid() bool {
	switch s {
	case StatusActive, StatusFolded, StatusAllIn, StatusSittingOut, StatusEliminated:
		return true
	}
	return false
}

// CanAct reports whether a player in this status may be given the turn.
func (s PlayerStatus) CanAct() bool {
	switch s {
	case StatusActive:
		return true
	case StatusFolded, StatusAllIn, StatusSittingOut, StatusEliminated:
		return false
	}
	panic(fmt.Sprintf("game: unknown player status %q", string(s)))
}

// InHand reports whether a player in this status still contests the pot.
func (s PlayerStatus) InHand() bool {
	switch s {
	case StatusActive, StatusAllIn:
		return true
	case StatusFolded, StatusSittingOut, StatusEliminated:
		return false
	}
	panic(fmt.Sprintf("game: unknown player status %q", string(s)))
}

// ActionRecord is one entry of a player's or the game's action history.
type ActionRecord struct {
	HandNumber int        `json:"handNumber"`
	PlayerID   string     `json:"playerId"`
	PlayerName string     `json:"playerName"`
	Action     ActionType `json:"action"`
	Amount     int        `json:"amount"`
	Round      int        `json:"round"`
	Pot        int        `json:"pot"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Player is a seat at the table and its betting state for the current hand.
type Player struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Seat       int          `json:"seatNumber"`
	Stack      int          `json:"stack"`
	CurrentBet int          `json:"currentBet"` // Chips committed this betting round
	Status     PlayerStatus `json:"status"`
	HasActed   bool         `json:"hasActed"`

	// Position flags are recomputed every hand.
	IsDealer     bool `json:"isDealer"`
	IsSmallBlind bool `json:"isSmallBlind"`
	IsBigBlind   bool `json:"isBigBlind"`

	HasActedVoluntarily bool           `json:"hasActedVoluntarily"`
	Actions             []ActionRecord `json:"actionHistory"`
}

func newPlayer(id, name string, seat, stack int) *Player {
	p := &Player{
		ID:     id,
		Name:   name,
		Seat:   seat,
		Stack:  stack,
		Status: StatusActive,
	}
	if stack == 0 {
		p.Status = StatusEliminated
	}
	return p
}

// CanAct returns true if the player may be given the turn
func (p *Player) CanAct() bool {
	return p.Status.CanAct()
}

// InHand returns true if the player still contests the pot
func (p *Player) InHand() bool {
	return p.Status.InHand()
}

// Bet moves up to amount chips from the stack into the current round's bet and
// returns the amount actually moved. A player whose stack reaches zero is all-in.
func (p *Player) Bet(amount int) int {
	actual := min(amount, p.Stack)
	if actual <= 0 {
		return 0
	}
	p.Stack -= actual
	p.CurrentBet += actual
	if p.Stack == 0 {
		p.Status = StatusAllIn
	}
	return actual
}

// PostAnte takes up to amount chips as dead money. Antes do not count toward
// the player's bet for the round.
func (p *Player) PostAnte(amount int) int {
	actual := min(amount, p.Stack)
	if actual <= 0 {
		return 0
	}
	p.Stack -= actual
	if p.Stack == 0 {
		p.Status = StatusAllIn
	}
	return actual
}

// Fold gives up the hand.
func (p *Player) Fold() {
	p.Status = StatusFolded
}

// AllIn commits the entire stack and returns the amount moved.
func (p *Player) AllIn() int {
	amount := p.Stack
	p.CurrentBet += amount
	p.Stack = 0
	p.Status = StatusAllIn
	return amount
}

// AddChips credits winnings or a rebuy.
func (p *Player) AddChips(amount int) {
	p.Stack += amount
}

// ResetForNewHand clears per-hand state. A player without chips is eliminated
// and stays that way until chips are added back; a player sitting out keeps
// sitting out.
func (p *Player) ResetForNewHand() {
	p.CurrentBet = 0
	p.HasActed = false
	p.HasActedVoluntarily = false
	p.Actions = nil
	switch {
	case p.Stack == 0:
		p.Status = StatusEliminated
	case p.Status == StatusSittingOut:
	default:
		p.Status = StatusActive
	}
}

// ResetForNewRound clears per-round state.
func (p *Player) ResetForNewRound() {
	p.CurrentBet = 0
	p.HasActed = false
}

// RecordAction appends to the player's action history for this hand.
func (p *Player) RecordAction(rec ActionRecord) {
	p.Actions = append(p.Actions, rec)
}

func (p *Player) clone() *Player {
	c := *p
	c.Actions = append([]ActionRecord(nil), p.Actions...)
	return &c
}
