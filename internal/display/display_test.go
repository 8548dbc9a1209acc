package display

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertracker/internal/game"
	"github.com/lox/pokertracker/internal/statistics"
	"github.com/lox/pokertracker/internal/store"
)

func plain() *Display {
	return New(&bytes.Buffer{}, false)
}

func lineWith(t *testing.T, out, substr string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	t.Fatalf("no line containing %q in:\n%s", substr, out)
	return ""
}

func startedGame(t *testing.T) (*game.Game, []string) {
	t.Helper()
	n := 0
	g, err := game.New(game.Config{Name: "friday"},
		game.WithClock(quartz.NewMock(t)),
		game.WithIDGenerator(func() string { n++; return fmt.Sprintf("p-%d", n) }),
	)
	require.NoError(t, err)
	var ids []string
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		p, err := g.AddPlayer(name)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	require.NoError(t, g.StartHand())
	return g, ids
}

func TestTableShowsSeatsAndTurn(t *testing.T) {
	t.Parallel()

	g, _ := startedGame(t)
	out := plain().Table(g.Snapshot())

	assert.NotContains(t, out, "\x1b[", "plain output has no escape codes")
	assert.Contains(t, out, "friday")
	assert.Contains(t, out, "hand 1")
	assert.Contains(t, out, "round 1/4")
	assert.Contains(t, out, "blinds 5/10")
	assert.Contains(t, out, "pot 15")

	bob := lineWith(t, out, "Bob")
	assert.True(t, strings.HasPrefix(bob, ">"), "Bob is first to act: %q", bob)
	assert.True(t, strings.HasSuffix(bob, "D"))
	assert.True(t, strings.HasSuffix(lineWith(t, out, "Carol"), "SB"))

	alice := lineWith(t, out, "Alice")
	assert.True(t, strings.HasSuffix(alice, "BB"))
	assert.Contains(t, alice, "990")
}

func TestTableShowsPots(t *testing.T) {
	t.Parallel()

	g, ids := startedGame(t)
	require.NoError(t, g.PerformAction(ids[1], game.ActionAllIn, 0))
	require.NoError(t, g.PerformAction(ids[2], game.ActionCall, 0))
	require.NoError(t, g.PerformAction(ids[0], game.ActionCall, 0))
	require.Equal(t, game.StatusHandComplete, g.Status())

	out := plain().Table(g.Snapshot())
	main := lineWith(t, out, game.MainPotID+" 3000")
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		assert.Contains(t, main, name)
	}
	assert.NotContains(t, out, "round", "no round once betting is closed")
}

func TestValidActions(t *testing.T) {
	t.Parallel()

	g, _ := startedGame(t)
	out := plain().ValidActions("Bob", g.ValidActions())
	assert.True(t, strings.HasPrefix(out, "Bob to act: fold"))
	assert.Contains(t, out, "call 10")
	assert.Contains(t, out, "all_in 1000")

	assert.Empty(t, plain().ValidActions("Bob", nil))
}

func TestDistributions(t *testing.T) {
	t.Parallel()

	players := []game.Player{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}}
	out := plain().Distributions(players, []game.Distribution{
		{PotID: game.MainPotID, Amount: 31, Winners: []string{"a", "b"}, Payouts: []game.Payout{
			{PlayerID: "a", Amount: 16}, {PlayerID: "b", Amount: 15},
		}},
		{PotID: "side-1", Amount: 40, Winners: []string{"b"}, Payouts: []game.Payout{{PlayerID: "b", Amount: 40}}},
	})
	assert.Equal(t, "main 31: Alice +16, Bob +15\nside-1 40: Bob +40\n", out)
}

func TestStats(t *testing.T) {
	t.Parallel()

	d := plain()
	assert.Equal(t, "no hands recorded", d.Stats(nil))

	winner := statistics.PlayerStats{PlayerName: "Alice", HandsWon: 2, TotalProfit: 150, StartingStack: 1000}
	winner.VPIP.HandsPlayed = 4
	winner.VPIP.Percent = 50
	loser := statistics.PlayerStats{PlayerName: "Bob", TotalProfit: -150, StartingStack: 1000}
	loser.VPIP.HandsPlayed = 4

	out := d.Stats([]statistics.PlayerStats{winner, loser})
	alice := lineWith(t, out, "Alice")
	assert.Contains(t, alice, "50.0%")
	assert.Contains(t, alice, "+150")
	assert.Contains(t, alice, "15.0%")
	assert.Contains(t, lineWith(t, out, "Bob"), "-150")
}

func TestSavesAndMessages(t *testing.T) {
	t.Parallel()

	d := plain()
	assert.Equal(t, "no saved games", d.Saves(nil))

	out := d.Saves([]store.SaveInfo{{ID: "g-1", Name: "friday", SavedAt: time.Now(), HandNumber: 12, Players: 5}})
	line := lineWith(t, out, "g-1")
	assert.Contains(t, line, "friday")
	assert.Contains(t, line, "hand 12")
	assert.Contains(t, line, "5 players")

	assert.Equal(t, "error: boom", d.Error(errors.New("boom")))
	assert.Equal(t, "saved", d.Info("saved"))
}
