package game

import (
	"fmt"
	"slices"
)

// Snapshot is the serializable state of a Game. Contributions are an ordered
// list of pairs so the form survives any encoding.
type Snapshot struct {
	ID                 string         `json:"id"`
	Config             Config         `json:"config"`
	Status             GameStatus     `json:"status"`
	Players            []Player       `json:"players"`
	DealerPosition     int            `json:"dealerPosition"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	CurrentRound       int            `json:"currentRound"`
	CurrentBet         int            `json:"currentBet"`
	HandNumber         int            `json:"handNumber"`
	Pots               []Pot          `json:"pots"`
	PotsCurrent        bool           `json:"potsCurrent"`
	Contributions      []Contribution `json:"contributions"`
	ActionHistory      []ActionRecord `json:"actionHistory"`
}

// Snapshot returns a deep copy of the game's state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		ID:                 g.id,
		Config:             g.config,
		Status:             g.status,
		Players:            g.Players(),
		DealerPosition:     g.dealerPosition,
		CurrentPlayerIndex: g.currentPlayerIndex,
		CurrentRound:       g.currentRound,
		CurrentBet:         g.currentBet,
		HandNumber:         g.handNumber,
		Pots:               g.pots.Pots(),
		PotsCurrent:        g.pots.Current(),
		Contributions:      g.pots.Contributions(),
		ActionHistory:      g.ActionHistory(),
	}
}

// TotalChips returns stacks plus contributions.
func (s Snapshot) TotalChips() int {
	total := 0
	for _, p := range s.Players {
		total += p.Stack
	}
	for _, c := range s.Contributions {
		total += c.Amount
	}
	return total
}

// Restore rebuilds a Game from a snapshot. Snapshots written before the
// dealer flag was stored get the button from DealerPosition.
func Restore(s Snapshot, opts ...Option) (*Game, error) {
	cfg := s.Config.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("restore config: %w", err)
	}
	if !s.Status.Valid() {
		return nil, fmt.Errorf("restore: unknown game status %q: %w", s.Status, ErrInvalidState)
	}
	limit, _ := NewLimit(cfg.BettingLimit)

	g := &Game{
		id:                 s.ID,
		config:             cfg,
		limit:              limit,
		status:             s.Status,
		pots:               NewPotManager(),
		dealerPosition:     s.DealerPosition,
		currentPlayerIndex: s.CurrentPlayerIndex,
		currentRound:       s.CurrentRound,
		currentBet:         s.CurrentBet,
		handNumber:         s.HandNumber,
		actionHistory:      slices.Clone(s.ActionHistory),
	}
	g.applyOptions(opts)
	if g.id == "" {
		g.id = g.newID()
	}

	for i := range s.Players {
		p := s.Players[i].clone()
		switch {
		case !p.Status.Valid():
			return nil, fmt.Errorf("restore player %s: unknown status %q: %w", p.Name, p.Status, ErrInvalidState)
		case p.Stack < 0 || p.CurrentBet < 0:
			return nil, fmt.Errorf("restore player %s: negative chips: %w", p.Name, ErrInvalidAmount)
		case p.ID == "":
			return nil, fmt.Errorf("restore player %s: missing id: %w", p.Name, ErrInvalidState)
		}
		g.players = append(g.players, p)
	}
	g.sortPlayersBySeat()

	for _, c := range s.Contributions {
		if c.Amount < 0 {
			return nil, fmt.Errorf("restore contribution for %s: %w", c.PlayerID, ErrInvalidAmount)
		}
		g.pots.AddBet(c.PlayerID, c.Amount)
	}
	if len(s.Pots) > 0 {
		g.pots.pots = make([]Pot, len(s.Pots))
		for i, p := range s.Pots {
			p.Eligible = slices.Clone(p.Eligible)
			g.pots.pots[i] = p
		}
		g.pots.computed = s.PotsCurrent
	}

	if n := len(g.players); n > 0 {
		if g.dealerPosition < 0 || g.dealerPosition >= n {
			g.dealerPosition = 0
		}
		if g.currentPlayerIndex < 0 || g.currentPlayerIndex >= n {
			g.currentPlayerIndex = 0
		}
		if slices.ContainsFunc(g.players, func(p *Player) bool { return p.IsDealer }) {
			g.syncDealerPosition()
		} else if n >= 2 {
			g.players[g.dealerPosition].IsDealer = true
		}
	}

	if g.status == StatusInProgress && len(g.players) < 2 {
		return nil, fmt.Errorf("restore: hand in progress with %d players: %w", len(g.players), ErrInvalidState)
	}
	return g, nil
}
