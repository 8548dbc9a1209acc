package game

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SeatOption configures a player being added to the table.
type SeatOption func(*seatOptions)

type seatOptions struct {
	seat  int // 0 picks the lowest free seat
	stack int // 0 uses the table's starting stack
	id    string
}

// WithSeat seats the player at seat n (1-based).
func WithSeat(n int) SeatOption {
	return func(o *seatOptions) { o.seat = n }
}

// WithStack overrides the starting stack.
func WithStack(n int) SeatOption {
	return func(o *seatOptions) { o.stack = n }
}

// WithPlayerID uses id instead of minting a new one. Replays use this so a
// rebuilt game keeps the ids callers already hold.
func WithPlayerID(id string) SeatOption {
	return func(o *seatOptions) { o.id = id }
}

// AddPlayer seats a new player. The second player seated becomes the dealer
// if nobody holds the button yet.
func (g *Game) AddPlayer(name string, opts ...SeatOption) (Player, error) {
	if err := g.betweenHands(); err != nil {
		return Player{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, fmt.Errorf("player name is empty: %w", ErrInvalidAmount)
	}
	if len(g.players) >= g.config.MaxPlayers {
		return Player{}, fmt.Errorf("table is full (%d players): %w", g.config.MaxPlayers, ErrCapacity)
	}

	o := seatOptions{stack: g.config.StartingStack}
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case o.stack < 0:
		return Player{}, fmt.Errorf("stack %d: %w", o.stack, ErrInvalidAmount)
	case o.stack == 0:
		o.stack = g.config.StartingStack
	}

	if o.seat == 0 {
		o.seat = g.nextAvailableSeat()
	} else if err := g.checkSeat(o.seat); err != nil {
		return Player{}, err
	}
	if g.seatTaken(o.seat) {
		return Player{}, fmt.Errorf("seat %d is taken: %w", o.seat, ErrCapacity)
	}

	if o.id == "" {
		o.id = g.newID()
	} else if p, _ := g.findPlayer(o.id); p != nil {
		return Player{}, fmt.Errorf("player id %s already seated: %w", o.id, ErrInvalidAmount)
	}

	player := newPlayer(o.id, name, o.seat, o.stack)
	g.players = append(g.players, player)
	g.sortPlayersBySeat()

	if len(g.players) >= 2 && !slices.ContainsFunc(g.players, func(p *Player) bool { return p.IsDealer }) {
		g.players[1].IsDealer = true
	}
	g.syncDealerPosition()

	g.logger.Debug("Player added", "player", name, "seat", o.seat, "stack", o.stack)
	return *player.clone(), nil
}

// RemovePlayer takes a player off the table between hands.
func (g *Game) RemovePlayer(id string) error {
	if err := g.betweenHands(); err != nil {
		return err
	}
	player, index := g.findPlayer(id)
	if player == nil {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}

	g.players = slices.Delete(g.players, index, index+1)

	switch {
	case len(g.players) == 0:
		g.dealerPosition = 0
	case player.IsDealer:
		// The seat that followed the removed dealer takes the button.
		g.dealerPosition = (index - 1 + len(g.players)) % len(g.players)
		if next := g.nextIndex(g.dealerPosition, notEliminated); next >= 0 {
			g.players[next].IsDealer = true
			g.dealerPosition = next
		}
	default:
		g.syncDealerPosition()
	}
	if g.dealerPosition >= len(g.players) {
		g.dealerPosition = 0
	}
	if g.currentPlayerIndex >= len(g.players) {
		g.currentPlayerIndex = 0
	}

	g.logger.Debug("Player removed", "player", player.Name)
	return nil
}

// MovePlayerSeat moves a player to seat, swapping with anyone sitting there.
func (g *Game) MovePlayerSeat(id string, seat int) error {
	if err := g.betweenHands(); err != nil {
		return err
	}
	player, _ := g.findPlayer(id)
	if player == nil {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	if err := g.checkSeat(seat); err != nil {
		return err
	}

	for _, p := range g.players {
		if p.Seat == seat {
			p.Seat = player.Seat
		}
	}
	player.Seat = seat
	g.sortPlayersBySeat()
	g.syncDealerPosition()
	return nil
}

// SetDealerButton gives the button to a player.
func (g *Game) SetDealerButton(id string) error {
	if err := g.betweenHands(); err != nil {
		return err
	}
	_, index := g.findPlayer(id)
	if index < 0 {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	for _, p := range g.players {
		p.IsDealer = false
	}
	g.players[index].IsDealer = true
	g.dealerPosition = index
	return nil
}

// SitOut excludes a player from upcoming hands without removing them.
func (g *Game) SitOut(id string) error {
	if err := g.betweenHands(); err != nil {
		return err
	}
	player, _ := g.findPlayer(id)
	if player == nil {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	if player.Status == StatusEliminated {
		return fmt.Errorf("%s has no chips: %w", player.Name, ErrInvalidState)
	}
	player.Status = StatusSittingOut
	return nil
}

// SitIn returns a sitting-out player to play.
func (g *Game) SitIn(id string) error {
	if err := g.betweenHands(); err != nil {
		return err
	}
	player, _ := g.findPlayer(id)
	if player == nil {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	if player.Status != StatusSittingOut {
		return fmt.Errorf("%s is %s, not sitting out: %w", player.Name, player.Status, ErrInvalidState)
	}
	player.Status = StatusActive
	return nil
}

// SetStack overwrites a player's stack between hands. A zero stack
// eliminates the player; chips bring an eliminated player back.
func (g *Game) SetStack(id string, stack int) error {
	if err := g.betweenHands(); err != nil {
		return err
	}
	if stack < 0 {
		return fmt.Errorf("stack %d: %w", stack, ErrInvalidAmount)
	}
	player, _ := g.findPlayer(id)
	if player == nil {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}

	player.Stack = stack
	switch {
	case stack == 0:
		player.Status = StatusEliminated
	case player.Status == StatusEliminated:
		player.Status = StatusActive
	}
	g.logger.Debug("Stack edited", "player", player.Name, "stack", stack)
	return nil
}

// Rebuy adds chips to a player between hands.
func (g *Game) Rebuy(id string, amount int) error {
	if err := g.betweenHands(); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("rebuy of %d: %w", amount, ErrInvalidAmount)
	}
	player, _ := g.findPlayer(id)
	if player == nil {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}

	player.AddChips(amount)
	if player.Status == StatusEliminated {
		player.Status = StatusActive
	}
	g.logger.Debug("Rebuy", "player", player.Name, "amount", amount, "stack", player.Stack)
	return nil
}

func (g *Game) checkSeat(seat int) error {
	if seat < 1 || seat > g.config.MaxPlayers {
		return fmt.Errorf("seat %d is not between 1 and %d: %w", seat, g.config.MaxPlayers, ErrInvalidAmount)
	}
	return nil
}

func (g *Game) seatTaken(seat int) bool {
	return slices.ContainsFunc(g.players, func(p *Player) bool { return p.Seat == seat })
}

func (g *Game) nextAvailableSeat() int {
	for seat := 1; seat <= g.config.MaxPlayers; seat++ {
		if !g.seatTaken(seat) {
			return seat
		}
	}
	return 0
}

func (g *Game) sortPlayersBySeat() {
	slices.SortFunc(g.players, func(a, b *Player) int { return cmp.Compare(a.Seat, b.Seat) })
}

func (g *Game) syncDealerPosition() {
	if i := slices.IndexFunc(g.players, func(p *Player) bool { return p.IsDealer }); i >= 0 {
		g.dealerPosition = i
	}
}
