package game

import (
	"fmt"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"
)

var testNames = []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank"}

// sequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// newTestGame seats one player per stack in seats 1..n and returns their ids
// in seat order.
func newTestGame(t *testing.T, cfg Config, stacks ...int) (*Game, []string) {
	t.Helper()
	g, err := New(cfg,
		WithClock(quartz.NewMock(t)),
		WithIDGenerator(sequentialIDs("p")),
	)
	require.NoError(t, err)

	ids := make([]string, len(stacks))
	for i, stack := range stacks {
		p, err := g.AddPlayer(testNames[i], WithSeat(i+1), WithStack(stack))
		require.NoError(t, err)
		ids[i] = p.ID
	}
	return g, ids
}

func mustPlayer(t *testing.T, g *Game, id string) Player {
	t.Helper()
	p, ok := g.Player(id)
	require.True(t, ok, "player %s not found", id)
	return p
}

func mustAct(t *testing.T, g *Game, id string, action ActionType, amount int) {
	t.Helper()
	require.NoError(t, g.PerformAction(id, action, amount))
}

func currentID(t *testing.T, g *Game) string {
	t.Helper()
	p, ok := g.CurrentPlayer()
	require.True(t, ok, "no current player (status %s)", g.Status())
	return p.ID
}

type recordingSubscriber struct {
	events []GameEvent
}

func (r *recordingSubscriber) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}

func (r *recordingSubscriber) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}
