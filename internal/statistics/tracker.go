// Package statistics derives per-player session statistics from game events.
package statistics

import (
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/pokertracker/internal/game"
)

// DefaultMaxHistory bounds the hand records a Tracker keeps.
const DefaultMaxHistory = 1000

// PlayerStats is the running tally for one player, keyed by name so it
// survives a player being removed and re-added.
type PlayerStats struct {
	PlayerName    string      `json:"playerName"`
	VPIP          VPIP        `json:"vpip"`
	HandsWon      int         `json:"handsWon"`
	TotalProfit   int         `json:"totalProfit"`
	StartingStack int         `json:"startingStack"`
	Actions       ActionStats `json:"actionStats"`
	Results       Results     `json:"results"`
}

// ROI returns profit as a percentage of the first stack seen.
func (s PlayerStats) ROI() float64 {
	if s.StartingStack == 0 {
		return 0
	}
	return float64(s.TotalProfit) / float64(s.StartingStack) * 100
}

// WinRate returns the percentage of hands played that were won.
func (s PlayerStats) WinRate() float64 {
	return percent(s.HandsWon, s.VPIP.HandsPlayed, 1)
}

func (s PlayerStats) clone() PlayerStats {
	s.Results = s.Results.clone()
	return s
}

// HandRecord is one player's line in a completed hand.
type HandRecord struct {
	PlayerID    string      `json:"playerId"`
	PlayerName  string      `json:"playerName"`
	StackBefore int         `json:"stackBefore"`
	Profit      int         `json:"profit"`
	Won         bool        `json:"won"`
	VPIP        bool        `json:"vpip"`
	Actions     ActionStats `json:"actionStats"`
}

// Hand is a completed hand as the tracker saw it.
type Hand struct {
	GameID      string       `json:"gameId"`
	HandNumber  int          `json:"handNumber"`
	Timestamp   time.Time    `json:"timestamp"`
	Winners     []string     `json:"winners"` // Names
	Pot         int          `json:"pot"`
	BigBlind    int          `json:"bigBlind"`
	Uncontested bool         `json:"uncontested"`
	Players     []HandRecord `json:"players"`
}

// Snapshot is the serializable state of a Tracker.
type Snapshot struct {
	Players    []PlayerStats `json:"players"`
	Hands      []Hand        `json:"hands"`
	InProgress *Hand         `json:"inProgress,omitempty"`
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the tracker's logger.
func WithLogger(logger *log.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

// WithMaxHistory bounds the number of hands kept.
func WithMaxHistory(n int) Option {
	return func(t *Tracker) { t.maxHistory = n }
}

// Tracker subscribes to a game's events and keeps player statistics and a
// bounded hand history. It is safe for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	players    map[string]*PlayerStats
	hands      []Hand
	current    *Hand // hand in progress; Winners and profits are unset
	maxHistory int
	logger     *log.Logger
}

var _ game.EventSubscriber = (*Tracker)(nil)

// NewTracker returns an empty tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		players:    make(map[string]*PlayerStats),
		maxHistory: DefaultMaxHistory,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.New(io.Discard)
	}
	if t.maxHistory <= 0 {
		t.maxHistory = DefaultMaxHistory
	}
	return t
}

// OnEvent implements game.EventSubscriber.
func (t *Tracker) OnEvent(event game.GameEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch e := event.(type) {
	case game.HandStartedEvent:
		t.handStarted(e)
	case game.ActionEvent:
		t.action(e)
	case game.HandEndedEvent:
		t.handEnded(e)
	}
}

func (t *Tracker) stats(name string, stack int) *PlayerStats {
	s, ok := t.players[name]
	if !ok {
		s = &PlayerStats{PlayerName: name, StartingStack: stack}
		t.players[name] = s
	}
	return s
}

func (t *Tracker) handStarted(e game.HandStartedEvent) {
	h := &Hand{
		GameID:     e.GameID,
		HandNumber: e.HandNumber,
		Timestamp:  e.Timestamp(),
		BigBlind:   e.BigBlind,
	}
	for _, seat := range e.Seats {
		if seat.Status != game.StatusActive {
			continue
		}
		h.Players = append(h.Players, HandRecord{
			PlayerID:    seat.PlayerID,
			PlayerName:  seat.Name,
			StackBefore: seat.Stack,
		})
		s := t.stats(seat.Name, seat.Stack)
		s.VPIP.HandsPlayed++
		s.VPIP.Update(false)
	}
	t.current = h
}

func (t *Tracker) action(e game.ActionEvent) {
	if t.current == nil || t.current.HandNumber != e.HandNumber {
		return
	}
	rec := t.current.record(e.PlayerID)
	if rec == nil {
		return
	}
	s := t.stats(rec.PlayerName, rec.StackBefore)
	rec.Actions.Record(e.Before, e.Action)
	s.Actions.Record(e.Before, e.Action)

	if !rec.VPIP && !e.Before.HasActedVoluntarily && IsVPIPAction(e.Before, e.Action) {
		rec.VPIP = true
		s.VPIP.Update(true)
	}
}

func (t *Tracker) handEnded(e game.HandEndedEvent) {
	hand := t.current
	t.current = nil
	if hand == nil || hand.HandNumber != e.HandNumber {
		t.logger.Warn("Hand ended without a matching start", "hand", e.HandNumber)
		return
	}

	after := make(map[string]int, len(e.Seats))
	for _, seat := range e.Seats {
		after[seat.PlayerID] = seat.Stack
	}
	for _, d := range e.Distributions {
		hand.Pot += d.Amount
	}
	hand.Uncontested = e.Uncontested

	for i := range hand.Players {
		rec := &hand.Players[i]
		if stack, ok := after[rec.PlayerID]; ok {
			rec.Profit = stack - rec.StackBefore
		}
		rec.Won = slices.Contains(e.Winners, rec.PlayerID)
		if rec.Won {
			hand.Winners = append(hand.Winners, rec.PlayerName)
		}

		s := t.stats(rec.PlayerName, rec.StackBefore)
		s.TotalProfit += rec.Profit
		if rec.Won {
			s.HandsWon++
		}
		s.Results.Add(handResult(*rec, *hand))
	}

	t.hands = append(t.hands, *hand)
	if over := len(t.hands) - t.maxHistory; over > 0 {
		t.hands = slices.Delete(t.hands, 0, over)
	}
	t.logger.Debug("Hand recorded", "hand", hand.HandNumber, "winners", hand.Winners, "pot", hand.Pot)
}

func (h *Hand) record(playerID string) *HandRecord {
	for i := range h.Players {
		if h.Players[i].PlayerID == playerID {
			return &h.Players[i]
		}
	}
	return nil
}

func handResult(rec HandRecord, hand Hand) HandResult {
	r := HandResult{
		Uncontested: hand.Uncontested,
		PotChips:    hand.Pot,
		BigBlind:    hand.BigBlind,
	}
	if hand.BigBlind > 0 {
		r.NetBB = float64(rec.Profit) / float64(hand.BigBlind)
	}
	return r
}

// Player returns the statistics for name.
func (t *Tracker) Player(name string) (PlayerStats, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.players[name]
	if !ok {
		return PlayerStats{}, false
	}
	return s.clone(), true
}

// Players returns every player's statistics sorted by name.
func (t *Tracker) Players() []PlayerStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]PlayerStats, 0, len(t.players))
	for _, name := range slices.Sorted(maps.Keys(t.players)) {
		out = append(out, t.players[name].clone())
	}
	return out
}

// Hands returns the recorded hands, oldest first.
func (t *Tracker) Hands() []Hand {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneHands(t.hands)
}

// Historical recomputes player statistics from the last n recorded hands, or
// all of them when n is not positive. VPIP is rounded to one decimal place.
func (t *Tracker) Historical(n int) []PlayerStats {
	t.mu.Lock()
	hands := t.hands
	if n > 0 && n < len(hands) {
		hands = hands[len(hands)-n:]
	}
	hands = cloneHands(hands)
	t.mu.Unlock()

	byName := make(map[string]*PlayerStats)
	for _, hand := range hands {
		for _, rec := range hand.Players {
			s, ok := byName[rec.PlayerName]
			if !ok {
				s = &PlayerStats{PlayerName: rec.PlayerName, StartingStack: rec.StackBefore}
				byName[rec.PlayerName] = s
			}
			s.VPIP.HandsPlayed++
			if rec.VPIP {
				s.VPIP.HandsVoluntarilyPlayed++
			}
			if rec.Won {
				s.HandsWon++
			}
			s.TotalProfit += rec.Profit
			s.Actions.Merge(rec.Actions)
			s.Results.Add(handResult(rec, hand))
		}
	}

	out := make([]PlayerStats, 0, len(byName))
	for _, name := range slices.Sorted(maps.Keys(byName)) {
		s := byName[name]
		s.VPIP.Percent = percent(s.VPIP.HandsVoluntarilyPlayed, s.VPIP.HandsPlayed, 1)
		out = append(out, *s)
	}
	return out
}

// Reset clears all statistics and history.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.players = make(map[string]*PlayerStats)
	t.hands = nil
	t.current = nil
}

// Snapshot returns a copy of the tracker's state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Snapshot{Hands: cloneHands(t.hands)}
	if t.current != nil {
		s.InProgress = &cloneHands([]Hand{*t.current})[0]
	}
	for _, name := range slices.Sorted(maps.Keys(t.players)) {
		s.Players = append(s.Players, t.players[name].clone())
	}
	return s
}

// Restore replaces the tracker's state with s.
func (t *Tracker) Restore(s Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.players = make(map[string]*PlayerStats, len(s.Players))
	for _, p := range s.Players {
		p := p.clone()
		t.players[p.PlayerName] = &p
	}
	t.hands = cloneHands(s.Hands)
	if over := len(t.hands) - t.maxHistory; over > 0 {
		t.hands = t.hands[over:]
	}
	t.current = nil
	if s.InProgress != nil {
		t.current = &cloneHands([]Hand{*s.InProgress})[0]
	}
}

func cloneHands(hands []Hand) []Hand {
	out := make([]Hand, len(hands))
	for i, h := range hands {
		h.Winners = slices.Clone(h.Winners)
		h.Players = slices.Clone(h.Players)
		out[i] = h
	}
	return out
}
