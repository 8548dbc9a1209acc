package history

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertracker/internal/game"
	"github.com/lox/pokertracker/internal/statistics"
)

func newTrackedGame(t *testing.T, stacks ...int) (*game.Game, *statistics.Tracker, []string) {
	t.Helper()
	tracker := statistics.NewTracker()
	bus := game.NewEventBus()
	bus.Subscribe(tracker)
	n := 0
	g, err := game.New(game.Config{Name: "Friday"},
		game.WithEventBus(bus),
		game.WithClock(quartz.NewMock(t)),
		game.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
	require.NoError(t, err)

	var ids []string
	for i, name := range []string{"Alice", "Bob", "Carol"} {
		p, err := g.AddPlayer(name, game.WithStack(stacks[i]))
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	return g, tracker, ids
}

func TestBuildFoldOut(t *testing.T) {
	t.Parallel()

	g, tracker, ids := newTrackedGame(t, 1000, 1000, 1000)
	alice, bob, carol := ids[0], ids[1], ids[2]
	require.NoError(t, g.StartHand())
	for _, step := range []struct {
		id     string
		action game.ActionType
		amount int
	}{
		{bob, game.ActionCall, 0},
		{carol, game.ActionCall, 0},
		{alice, game.ActionCheck, 0},
		{carol, game.ActionBet, 10},
		{alice, game.ActionFold, 0},
		{bob, game.ActionFold, 0},
	} {
		require.NoError(t, g.PerformAction(step.id, step.action, step.amount))
	}

	hands := Build(g.Snapshot(), tracker.Hands())
	require.Len(t, hands, 1)
	h := hands[0]
	assert.Equal(t, "Friday", h.Table)
	assert.Equal(t, 1, h.Hand)
	assert.Equal(t, "no_limit", h.BettingLimit)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, h.Players)
	assert.Equal(t, []int{10, 0, 5}, h.Blinds)
	assert.Equal(t, []int{0, 0, 0}, h.Antes)
	assert.Equal(t, []int{990, 990, 1020}, h.FinishingStacks)
	assert.Equal(t, []int{-10, -10, 20}, h.Profits)
	assert.Equal(t, []string{"Carol"}, h.Winners)
	assert.Equal(t, 40, h.Pot)
	assert.True(t, h.Uncontested)
	assert.Equal(t, []string{
		"p2 cc", "p3 cc", "p1 cc",
		"# round 1",
		"p3 cbr 10", "p1 f", "p2 f",
	}, h.Actions)
}

func TestBuildSidePots(t *testing.T) {
	t.Parallel()

	g, tracker, ids := newTrackedGame(t, 100, 50, 150)
	alice, bob, carol := ids[0], ids[1], ids[2]
	require.NoError(t, g.StartHand())
	require.NoError(t, g.PerformAction(bob, game.ActionAllIn, 0))
	require.NoError(t, g.PerformAction(carol, game.ActionRaise, 100))
	require.NoError(t, g.PerformAction(alice, game.ActionCall, 0))
	_, err := g.EndHandWithPots(map[string][]string{game.MainPotID: {bob}, "side-1": {carol}})
	require.NoError(t, err)

	hands := Build(g.Snapshot(), tracker.Hands())
	require.Len(t, hands, 1)
	h := hands[0]
	assert.Equal(t, []string{"p2 cbr 50", "p3 cbr 100", "p1 cc"}, h.Actions)
	assert.Equal(t, []int{-100, 100, 0}, h.Profits)
	assert.False(t, h.Uncontested)
	assert.Equal(t, 250, h.Pot)
}

func TestBuildSkipsOtherGames(t *testing.T) {
	t.Parallel()

	snap := game.Snapshot{ID: "this"}
	hands := []statistics.Hand{{GameID: "other", HandNumber: 1}, {GameID: "this", HandNumber: 2}}
	got := Build(snap, hands)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Hand)
}

func TestFormatAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		index  int
		action game.ActionType
		total  int
		want   string
		ok     bool
	}{
		{0, game.ActionFold, 0, "p1 f", true},
		{1, game.ActionCheck, 0, "p2 cc", true},
		{3, game.ActionCall, 50, "p4 cc", true},
		{0, game.ActionRaise, 120, "p1 cbr 120", true},
		{1, game.ActionBet, 40, "p2 cbr 40", true},
		{2, game.ActionRaise, 0, "", false},
		{0, game.ActionAllIn, 350, "p1 cbr 350", true},
		{0, game.ActionPostBlind, 5, "", false},
		{1, game.ActionPostAnte, 1, "", false},
		{2, game.ActionType("straddle"), 20, "# p3 straddle 20", true},
	}
	for _, tt := range tests {
		got, ok := FormatAction(tt.index, tt.action, tt.total)
		assert.Equal(t, tt.ok, ok, "%s", tt.action)
		assert.Equal(t, tt.want, got, "%s", tt.action)
	}
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	hands := []HandHistory{{
		Game:            "g1",
		Table:           "Friday",
		Hand:            3,
		BettingLimit:    "pot_limit",
		MinBet:          10,
		Players:         []string{"Alice", "Bob"},
		Antes:           []int{0, 0},
		Blinds:          []int{5, 10},
		StartingStacks:  []int{500, 500},
		FinishingStacks: []int{510, 490},
		Profits:         []int{10, -10},
		Winners:         []string{"Alice"},
		Pot:             20,
		Actions:         []string{"p1 cc", "p2 cc"},
	}}

	var buf bytes.Buffer
	exported := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)
	require.NoError(t, Encode(&buf, exported, hands))
	assert.True(t, strings.Contains(buf.String(), "[[hand]]"), buf.String())
	assert.Contains(t, buf.String(), `exported = "2024-03-01T23:00:00Z"`)

	doc, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T23:00:00Z", doc.Exported)
	assert.Equal(t, hands, doc.Hands)

	_, err = Decode(strings.NewReader("hand = ["))
	assert.Error(t, err)
}
