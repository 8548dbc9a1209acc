// Package session wraps a game with locking, undo, statistics and
// persistence for callers that share it.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokertracker/internal/game"
	"github.com/lox/pokertracker/internal/statistics"
	"github.com/lox/pokertracker/internal/store"
)

// DefaultMaxUndo is how many commands can be undone.
const DefaultMaxUndo = 50

var (
	// ErrNothingToUndo is returned by Undo when the journal is empty.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNoStore is returned by Persist when the session has no store.
	ErrNoStore = errors.New("no store configured")
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for the session and its game.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithClock sets the clock for the game and save timestamps.
func WithClock(clock quartz.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithIDGenerator overrides how the game mints ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Session) { s.newID = newID }
}

// WithStore sets where Persist writes.
func WithStore(st store.Store) Option {
	return func(s *Session) { s.store = st }
}

// WithMaxUndo bounds the undo journal.
func WithMaxUndo(n int) Option {
	return func(s *Session) { s.maxUndo = n }
}

// WithStats seeds the session's tracker.
func WithStats(snap statistics.Snapshot) Option {
	return func(s *Session) { s.statsBase = snap }
}

// Session owns a game and serialises access to it. Every successful change
// is journaled so it can be undone. Event subscribers run while the session
// lock is held and must not call back into the session.
type Session struct {
	mu      sync.Mutex
	game    *game.Game
	bus     *game.SimpleEventBus
	tracker *statistics.Tracker
	store   store.Store

	base      game.Snapshot
	statsBase statistics.Snapshot
	journal   []Command
	maxUndo   int

	logger *log.Logger
	clock  quartz.Clock
	newID  func() string
}

func newSession(opts []Option) *Session {
	s := &Session{bus: game.NewEventBus(), maxUndo: DefaultMaxUndo}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}
	if s.maxUndo < 1 {
		s.maxUndo = DefaultMaxUndo
	}
	s.tracker = statistics.NewTracker(statistics.WithLogger(s.logger))
	s.tracker.Restore(s.statsBase)
	s.bus.Subscribe(s.tracker)
	return s
}

// New starts a session on a new game.
func New(cfg game.Config, opts ...Option) (*Session, error) {
	s := newSession(opts)
	g, err := game.New(cfg, s.gameOptions(s.bus, s.logger)...)
	if err != nil {
		return nil, err
	}
	s.game = g
	s.base = g.Snapshot()
	return s, nil
}

// Resume starts a session on a saved game.
func Resume(snap game.Snapshot, opts ...Option) (*Session, error) {
	s := newSession(opts)
	g, err := game.Restore(snap, s.gameOptions(s.bus, s.logger)...)
	if err != nil {
		return nil, err
	}
	s.game = g
	s.base = g.Snapshot()
	return s, nil
}

// Load resumes the save id from st, along with the stored statistics.
func Load(ctx context.Context, st store.Store, id string, opts ...Option) (*Session, error) {
	var save store.Save
	var stats statistics.Snapshot

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		save, err = st.LoadGame(ctx, id)
		return err
	})
	eg.Go(func() error {
		var err error
		stats, err = st.LoadStats(ctx)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return Resume(save.Game, append(opts, WithStore(st), WithStats(stats))...)
}

func (s *Session) gameOptions(bus game.EventBus, logger *log.Logger) []game.Option {
	opts := []game.Option{
		game.WithEventBus(bus),
		game.WithLogger(logger),
		game.WithClock(s.clock),
	}
	if s.newID != nil {
		opts = append(opts, game.WithIDGenerator(s.newID))
	}
	return opts
}

// Subscribe adds a subscriber to the game's events.
func (s *Session) Subscribe(sub game.EventSubscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.Subscribe(sub)
}

func (s *Session) exec(c Command) (result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := apply(s.game, &c)
	if err != nil {
		return r, err
	}
	s.journal = append(s.journal, c)
	if len(s.journal) > s.maxUndo {
		s.foldOldest()
	}
	return r, nil
}

// foldOldest moves the oldest journaled command into the base snapshot.
func (s *Session) foldOldest() {
	g, stats, err := s.replay(s.journal[:1])
	if err != nil {
		s.logger.Warn("Could not fold command into base", "kind", s.journal[0].Kind, "err", err)
		return
	}
	s.base = g.Snapshot()
	s.statsBase = stats.Snapshot()
	s.journal = s.journal[1:]
}

// replay rebuilds the game and statistics from the base snapshot. Replayed
// events only reach the scratch tracker.
func (s *Session) replay(cmds []Command) (*game.Game, *statistics.Tracker, error) {
	stats := statistics.NewTracker()
	stats.Restore(s.statsBase)
	bus := game.NewEventBus()
	bus.Subscribe(stats)

	g, err := game.Restore(s.base, s.gameOptions(bus, log.New(io.Discard))...)
	if err != nil {
		return nil, nil, err
	}
	for i := range cmds {
		c := cmds[i]
		if _, err := apply(g, &c); err != nil {
			return nil, nil, fmt.Errorf("replay %s: %w", c.Kind, err)
		}
	}
	return g, stats, nil
}

// Undo reverts the most recent command.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.journal)
	if n == 0 {
		return ErrNothingToUndo
	}
	g, stats, err := s.replay(s.journal[:n-1])
	if err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	live, err := game.Restore(g.Snapshot(), s.gameOptions(s.bus, s.logger)...)
	if err != nil {
		return fmt.Errorf("undo: %w", err)
	}

	undone := s.journal[n-1]
	s.game = live
	s.tracker.Restore(stats.Snapshot())
	s.journal = s.journal[:n-1]
	s.logger.Debug("Undid command", "kind", undone.Kind, "remaining", len(s.journal))
	return nil
}

// UndoDepth returns how many commands can currently be undone.
func (s *Session) UndoDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.journal)
}

// AddPlayer seats a player. Zero seat and stack pick the lowest free seat
// and the table's starting stack.
func (s *Session) AddPlayer(name string, seat, stack int) (game.Player, error) {
	r, err := s.exec(Command{Kind: CommandAddPlayer, Name: name, Seat: seat, Amount: stack})
	return r.player, err
}

// RemovePlayer takes a player off the table.
func (s *Session) RemovePlayer(id string) error {
	_, err := s.exec(Command{Kind: CommandRemovePlayer, PlayerID: id})
	return err
}

// MovePlayerSeat moves a player, swapping with anyone in the seat.
func (s *Session) MovePlayerSeat(id string, seat int) error {
	_, err := s.exec(Command{Kind: CommandMoveSeat, PlayerID: id, Seat: seat})
	return err
}

// SetDealerButton gives a player the button.
func (s *Session) SetDealerButton(id string) error {
	_, err := s.exec(Command{Kind: CommandSetDealer, PlayerID: id})
	return err
}

// SitOut excludes a player from upcoming hands.
func (s *Session) SitOut(id string) error {
	_, err := s.exec(Command{Kind: CommandSitOut, PlayerID: id})
	return err
}

// SitIn returns a player to play.
func (s *Session) SitIn(id string) error {
	_, err := s.exec(Command{Kind: CommandSitIn, PlayerID: id})
	return err
}

// EditStack corrects a player's stack between hands.
func (s *Session) EditStack(id string, stack int) error {
	_, err := s.exec(Command{Kind: CommandEditStack, PlayerID: id, Amount: stack})
	return err
}

// Rebuy adds chips to a player between hands.
func (s *Session) Rebuy(id string, amount int) error {
	_, err := s.exec(Command{Kind: CommandRebuy, PlayerID: id, Amount: amount})
	return err
}

// StartHand deals the next hand.
func (s *Session) StartHand() error {
	_, err := s.exec(Command{Kind: CommandStartHand})
	return err
}

// Act applies a betting action for the player to act.
func (s *Session) Act(playerID string, action game.ActionType, amount int) error {
	_, err := s.exec(Command{Kind: CommandAction, PlayerID: playerID, Action: action, Amount: amount})
	return err
}

// EndRound closes the current betting round.
func (s *Session) EndRound() error {
	_, err := s.exec(Command{Kind: CommandEndRound})
	return err
}

// EndHand pays every pot to winners.
func (s *Session) EndHand(winners []string) ([]game.Distribution, error) {
	return s.EndHandWithPots(map[string][]string{game.DefaultPotKey: winners})
}

// EndHandWithPots pays each pot to its listed winners.
func (s *Session) EndHandWithPots(potWinners map[string][]string) ([]game.Distribution, error) {
	r, err := s.exec(Command{Kind: CommandEndHand, PotWinners: potWinners})
	return r.distributions, err
}

// Snapshot returns the game's current state.
func (s *Session) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// ValidActions returns the choices open to the player to act.
func (s *Session) ValidActions() []game.ValidAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.ValidActions()
}

// Tracker returns the session's statistics.
func (s *Session) Tracker() *statistics.Tracker {
	return s.tracker
}

// Persist writes the game and statistics to the store concurrently.
func (s *Session) Persist(ctx context.Context) (store.SaveInfo, error) {
	s.mu.Lock()
	st := s.store
	save := store.Save{
		ID:      s.game.ID(),
		Name:    s.game.Name(),
		SavedAt: s.clock.Now(),
		Game:    s.game.Snapshot(),
	}
	stats := s.tracker.Snapshot()
	s.mu.Unlock()

	if st == nil {
		return store.SaveInfo{}, ErrNoStore
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return st.SaveGame(ctx, save) })
	eg.Go(func() error { return st.SaveStats(ctx, stats) })
	if err := eg.Wait(); err != nil {
		return store.SaveInfo{}, err
	}
	s.logger.Info("Game saved", "id", save.ID, "name", save.Name, "hand", save.Game.HandNumber)
	return save.Info(), nil
}
