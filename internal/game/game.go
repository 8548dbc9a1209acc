package game

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokertracker/internal/gameid"
)

// Config holds the table settings a Game is created with. Zero values are
// replaced by defaults.
type Config struct {
	Name          string       `json:"name"`
	MaxPlayers    int          `json:"maxPlayers"`
	StartingStack int          `json:"startingStack"`
	SmallBlind    int          `json:"smallBlind"`
	BigBlind      int          `json:"bigBlind"`
	Ante          int          `json:"ante"`
	BettingLimit  BettingLimit `json:"bettingLimit"`
	MinBet        int          `json:"minBet"`
	MinRaise      int          `json:"minRaise"`
	TotalRounds   int          `json:"totalRounds"` // Betting rounds per hand
}

// DefaultConfig returns the standard home-game settings.
func DefaultConfig() Config {
	return Config{
		MaxPlayers:    10,
		StartingStack: 1000,
		SmallBlind:    5,
		BigBlind:      10,
		BettingLimit:  NoLimit,
		MinBet:        10,
		MinRaise:      10,
		TotalRounds:   4,
	}
}

// WithDefaults fills zero fields. MinBet and MinRaise default to the big blind.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.MaxPlayers == 0 {
		c.MaxPlayers = d.MaxPlayers
	}
	if c.StartingStack == 0 {
		c.StartingStack = d.StartingStack
	}
	if c.SmallBlind == 0 {
		c.SmallBlind = d.SmallBlind
	}
	if c.BigBlind == 0 {
		c.BigBlind = d.BigBlind
	}
	if c.BettingLimit == "" {
		c.BettingLimit = d.BettingLimit
	}
	if c.MinBet == 0 {
		c.MinBet = c.BigBlind
	}
	if c.MinRaise == 0 {
		c.MinRaise = c.BigBlind
	}
	if c.TotalRounds == 0 {
		c.TotalRounds = d.TotalRounds
	}
	return c
}

// Validate rejects settings no hand can be played with.
func (c Config) Validate() error {
	switch {
	case c.MaxPlayers < 2:
		return fmt.Errorf("max players must be at least 2, got %d: %w", c.MaxPlayers, ErrInvalidAmount)
	case c.StartingStack <= 0:
		return fmt.Errorf("starting stack must be positive, got %d: %w", c.StartingStack, ErrInvalidAmount)
	case c.SmallBlind < 0 || c.BigBlind <= 0:
		return fmt.Errorf("blinds %d/%d: %w", c.SmallBlind, c.BigBlind, ErrInvalidAmount)
	case c.BigBlind < c.SmallBlind:
		return fmt.Errorf("big blind %d is smaller than small blind %d: %w", c.BigBlind, c.SmallBlind, ErrInvalidAmount)
	case c.Ante < 0:
		return fmt.Errorf("ante must not be negative, got %d: %w", c.Ante, ErrInvalidAmount)
	case c.MinBet <= 0 || c.MinRaise <= 0:
		return fmt.Errorf("min bet %d and min raise %d must be positive: %w", c.MinBet, c.MinRaise, ErrInvalidAmount)
	case c.TotalRounds < 1:
		return fmt.Errorf("total rounds must be at least 1, got %d: %w", c.TotalRounds, ErrInvalidAmount)
	}
	if _, err := NewLimit(c.BettingLimit); err != nil {
		return err
	}
	return nil
}

// Option configures a Game during creation.
type Option func(*Game)

// WithLogger sets the logger used for hand lifecycle debug output.
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// WithClock sets the clock used to timestamp actions and events.
func WithClock(clock quartz.Clock) Option {
	return func(g *Game) { g.clock = clock }
}

// WithIDGenerator overrides how game and player ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(g *Game) { g.newID = newID }
}

// WithEventBus publishes game events to bus.
func WithEventBus(bus EventBus) Option {
	return func(g *Game) { g.bus = bus }
}

// NewID returns a short time-ordered id.
func NewID() string {
	return gameid.New()
}

// Game is a table and the state machine for the hand being played on it. A
// Game is not safe for concurrent use.
type Game struct {
	id     string
	config Config
	limit  Limit
	status GameStatus

	players            []*Player // sorted by seat
	pots               *PotManager
	dealerPosition     int
	currentPlayerIndex int
	currentRound       int
	currentBet         int
	handNumber         int
	actionHistory      []ActionRecord

	logger  *log.Logger
	clock   quartz.Clock
	newID   func() string
	bus     EventBus
	pending []GameEvent
}

// New creates a game in the waiting state with no players.
func New(cfg Config, opts ...Option) (*Game, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	limit, _ := NewLimit(cfg.BettingLimit)

	g := &Game{
		config: cfg,
		limit:  limit,
		status: StatusWaiting,
		pots:   NewPotManager(),
	}
	g.applyOptions(opts)
	g.id = g.newID()
	if g.config.Name == "" {
		g.config.Name = "Game " + g.clock.Now().Format("2006-01-02 15:04")
	}
	return g, nil
}

func (g *Game) applyOptions(opts []Option) {
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	if g.clock == nil {
		g.clock = quartz.NewReal()
	}
	if g.newID == nil {
		g.newID = NewID
	}
}

// ID returns the game's unique id.
func (g *Game) ID() string { return g.id }

// Name returns the game's display name.
func (g *Game) Name() string { return g.config.Name }

// Config returns the settings the game was created with.
func (g *Game) Config() Config { return g.config }

// Limit returns the betting-limit variant in force.
func (g *Game) Limit() BettingLimit { return g.limit.Kind() }

// Status returns the current state machine position.
func (g *Game) Status() GameStatus { return g.status }

// HandNumber returns the number of hands started.
func (g *Game) HandNumber() int { return g.handNumber }

// CurrentRound returns the 0-indexed betting round.
func (g *Game) CurrentRound() int { return g.currentRound }

// CurrentBet returns the amount every player must match this round.
func (g *Game) CurrentBet() int { return g.currentBet }

// DealerPosition returns the dealer's index into Players.
func (g *Game) DealerPosition() int { return g.dealerPosition }

// CurrentPlayerIndex returns the index into Players of the player to act.
func (g *Game) CurrentPlayerIndex() int { return g.currentPlayerIndex }

// TotalPot returns the chips committed this hand.
func (g *Game) TotalPot() int { return g.pots.TotalPot() }

// Pots returns the most recently computed pot list.
func (g *Game) Pots() []Pot { return g.pots.Pots() }

// Contribution returns a player's chips committed this hand.
func (g *Game) Contribution(playerID string) int { return g.pots.Contribution(playerID) }

// ActionHistory returns every action recorded since the game was created.
func (g *Game) ActionHistory() []ActionRecord { return slices.Clone(g.actionHistory) }

// Players returns copies of the seated players in seat order.
func (g *Game) Players() []Player {
	out := make([]Player, len(g.players))
	for i, p := range g.players {
		out[i] = *p.clone()
	}
	return out
}

// Player returns a copy of the player with the given id.
func (g *Game) Player(id string) (Player, bool) {
	p, _ := g.findPlayer(id)
	if p == nil {
		return Player{}, false
	}
	return *p.clone(), true
}

// CurrentPlayer returns a copy of the player whose turn it is. It reports
// false outside of a betting round.
func (g *Game) CurrentPlayer() (Player, bool) {
	if g.status != StatusInProgress || g.currentPlayerIndex < 0 || g.currentPlayerIndex >= len(g.players) {
		return Player{}, false
	}
	return *g.players[g.currentPlayerIndex].clone(), true
}

// Dealer returns a copy of the player holding the button.
func (g *Game) Dealer() (Player, bool) {
	for _, p := range g.players {
		if p.IsDealer {
			return *p.clone(), true
		}
	}
	return Player{}, false
}

// TotalChips returns every chip in play: stacks plus the pot.
func (g *Game) TotalChips() int {
	total := g.pots.TotalPot()
	for _, p := range g.players {
		total += p.Stack
	}
	return total
}

// ValidateChipConservation checks that no chips were created or lost
func (g *Game) ValidateChipConservation(expectedTotal int) error {
	if actual := g.TotalChips(); actual != expectedTotal {
		return fmt.Errorf("chip conservation violated: expected %d, got %d (difference: %d)",
			expectedTotal, actual, actual-expectedTotal)
	}
	return nil
}

func (g *Game) findPlayer(id string) (*Player, int) {
	for i, p := range g.players {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// nextIndex walks clockwise from index from (exclusive) and returns the first
// index whose player satisfies match, or -1. The walk wraps back to from.
func (g *Game) nextIndex(from int, match func(*Player) bool) int {
	n := len(g.players)
	if n == 0 {
		return -1
	}
	for step := 1; step <= n; step++ {
		i := ((from+step)%n + n) % n
		if match(g.players[i]) {
			return i
		}
	}
	return -1
}

func (g *Game) countPlayers(match func(*Player) bool) int {
	n := 0
	for _, p := range g.players {
		if match(p) {
			n++
		}
	}
	return n
}

func (g *Game) seats() []SeatInfo {
	out := make([]SeatInfo, len(g.players))
	for i, p := range g.players {
		out[i] = SeatInfo{PlayerID: p.ID, Name: p.Name, Seat: p.Seat, Stack: p.Stack, Status: p.Status}
	}
	return out
}

func (g *Game) betweenHands() error {
	if g.status == StatusInProgress || g.status == StatusHandComplete {
		return fmt.Errorf("hand %d is %s: %w", g.handNumber, g.status, ErrInvalidState)
	}
	return nil
}

func (g *Game) emit(event GameEvent) {
	g.pending = append(g.pending, event)
}

// flush publishes events queued by the last operation once the game is
// consistent again.
func (g *Game) flush() {
	events := g.pending
	g.pending = nil
	if g.bus == nil {
		return
	}
	for _, event := range events {
		g.bus.Publish(event)
	}
}
