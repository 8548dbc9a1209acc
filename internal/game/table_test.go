package game

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPlayer(t *testing.T) {
	t.Parallel()

	g, err := New(Config{MaxPlayers: 3}, WithClock(quartz.NewMock(t)), WithIDGenerator(sequentialIDs("id")))
	require.NoError(t, err)

	alice, err := g.AddPlayer("Alice")
	require.NoError(t, err)
	assert.Equal(t, 1, alice.Seat)
	assert.Equal(t, 1000, alice.Stack)
	assert.Equal(t, StatusActive, alice.Status)
	assert.False(t, alice.IsDealer, "one player has no dealer")

	carol, err := g.AddPlayer("Carol", WithSeat(3), WithStack(500))
	require.NoError(t, err)
	assert.Equal(t, 500, carol.Stack)
	assert.True(t, mustPlayer(t, g, carol.ID).IsDealer, "second player seated takes the button")
	assert.Equal(t, 1, g.DealerPosition())

	_, err = g.AddPlayer("Zed", WithSeat(3))
	assert.ErrorIs(t, err, ErrCapacity)
	_, err = g.AddPlayer("Zed", WithSeat(4))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = g.AddPlayer("Zed", WithStack(-5))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = g.AddPlayer("  ")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	bob, err := g.AddPlayer("Bob")
	require.NoError(t, err)
	assert.Equal(t, 2, bob.Seat, "lowest free seat")
	assert.True(t, mustPlayer(t, g, carol.ID).IsDealer)
	assert.Equal(t, 2, g.DealerPosition(), "dealer index follows the seat sort")

	_, err = g.AddPlayer("Dave")
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Len(t, g.Players(), 3)
}

func TestAddPlayerWithID(t *testing.T) {
	t.Parallel()

	g, _ := newTestGame(t, Config{}, 100)
	p, err := g.AddPlayer("Bob", WithPlayerID("bob"))
	require.NoError(t, err)
	assert.Equal(t, "bob", p.ID)

	_, err = g.AddPlayer("Bobby", WithPlayerID("bob"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMovePlayerSeatSwaps(t *testing.T) {
	t.Parallel()

	g, ids := newTestGame(t, Config{}, 100, 100, 100)
	alice, carol := ids[0], ids[2]
	require.NoError(t, g.SetDealerButton(alice))

	require.NoError(t, g.MovePlayerSeat(alice, 3))
	assert.Equal(t, 3, mustPlayer(t, g, alice).Seat)
	assert.Equal(t, 1, mustPlayer(t, g, carol).Seat)

	players := g.Players()
	assert.Equal(t, carol, players[0].ID)
	assert.Equal(t, alice, players[2].ID)
	assert.Equal(t, 2, g.DealerPosition())

	assert.ErrorIs(t, g.MovePlayerSeat(alice, 0), ErrInvalidAmount)
	assert.ErrorIs(t, g.MovePlayerSeat("ghost", 2), ErrNotFound)
}

func TestSetDealerButton(t *testing.T) {
	t.Parallel()

	g, ids := newTestGame(t, Config{}, 100, 100)
	require.NoError(t, g.SetDealerButton(ids[0]))

	players := g.Players()
	assert.True(t, players[0].IsDealer)
	assert.False(t, players[1].IsDealer)
	assert.Equal(t, 0, g.DealerPosition())
	assert.ErrorIs(t, g.SetDealerButton("ghost"), ErrNotFound)
}

func TestSeatingRejectedDuringHand(t *testing.T) {
	t.Parallel()

	g, ids := newTestGame(t, Config{}, 100, 100, 100)
	require.NoError(t, g.StartHand())
	before := g.Snapshot()

	_, err := g.AddPlayer("Dave")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.ErrorIs(t, g.RemovePlayer(ids[0]), ErrInvalidState)
	assert.ErrorIs(t, g.MovePlayerSeat(ids[0], 5), ErrInvalidState)
	assert.ErrorIs(t, g.SetDealerButton(ids[0]), ErrInvalidState)
	assert.ErrorIs(t, g.SetStack(ids[0], 500), ErrInvalidState)
	assert.ErrorIs(t, g.Rebuy(ids[0], 500), ErrInvalidState)
	assert.ErrorIs(t, g.SitOut(ids[0]), ErrInvalidState)
	assert.Equal(t, before, g.Snapshot())
}

func TestRemoveDealerPassesButtonToNextSeat(t *testing.T) {
	t.Parallel()

	g, ids := newTestGame(t, Config{}, 100, 100, 100)
	bob, carol := ids[1], ids[2]
	require.True(t, mustPlayer(t, g, bob).IsDealer)

	require.NoError(t, g.RemovePlayer(bob))
	assert.ErrorIs(t, g.RemovePlayer(bob), ErrNotFound)
	require.NoError(t, g.StartHand())
	assert.True(t, mustPlayer(t, g, carol).IsDealer)
}

func TestButtonStaysWithSuccessorAfterDealerRemoval(t *testing.T) {
	t.Parallel()

	t.Run("another player leaves", func(t *testing.T) {
		t.Parallel()
		g, ids := newTestGame(t, Config{}, 100, 100, 100, 100)
		alice, carol, dave := ids[0], ids[2], ids[3]
		require.NoError(t, g.SetDealerButton(carol))

		require.NoError(t, g.RemovePlayer(carol))
		assert.True(t, mustPlayer(t, g, dave).IsDealer)
		require.NoError(t, g.RemovePlayer(alice))
		require.NoError(t, g.StartHand())

		dealer, ok := g.Dealer()
		require.True(t, ok)
		assert.Equal(t, "Dave", dealer.Name)
	})

	t.Run("another player moves", func(t *testing.T) {
		t.Parallel()
		g, ids := newTestGame(t, Config{}, 100, 100, 100, 100)
		alice, carol, dave := ids[0], ids[2], ids[3]
		require.NoError(t, g.SetDealerButton(carol))

		require.NoError(t, g.RemovePlayer(carol))
		require.NoError(t, g.MovePlayerSeat(alice, 6))
		require.NoError(t, g.StartHand())

		dealer, ok := g.Dealer()
		require.True(t, ok)
		assert.Equal(t, "Dave", dealer.Name)
		assert.Equal(t, dave, dealer.ID)
	})

	t.Run("last dealer leaves", func(t *testing.T) {
		t.Parallel()
		g, ids := newTestGame(t, Config{}, 100, 100, 100)
		alice, carol := ids[0], ids[2]
		require.NoError(t, g.SetDealerButton(carol))

		// Wraps around to the first seat.
		require.NoError(t, g.RemovePlayer(carol))
		assert.True(t, mustPlayer(t, g, alice).IsDealer)
		assert.Equal(t, 0, g.DealerPosition())
	})
}

func TestStackEditsAndRebuys(t *testing.T) {
	t.Parallel()

	g, ids := newTestGame(t, Config{}, 100, 100)
	alice := ids[0]

	require.NoError(t, g.SetStack(alice, 0))
	assert.Equal(t, StatusEliminated, mustPlayer(t, g, alice).Status)
	assert.ErrorIs(t, g.StartHand(), ErrInvalidState)

	require.NoError(t, g.Rebuy(alice, 250))
	p := mustPlayer(t, g, alice)
	assert.Equal(t, 250, p.Stack)
	assert.Equal(t, StatusActive, p.Status)

	require.NoError(t, g.SetStack(alice, 80))
	assert.Equal(t, 80, mustPlayer(t, g, alice).Stack)

	assert.ErrorIs(t, g.SetStack(alice, -1), ErrInvalidAmount)
	assert.ErrorIs(t, g.Rebuy(alice, 0), ErrInvalidAmount)
	assert.ErrorIs(t, g.Rebuy("ghost", 10), ErrNotFound)
}

func TestSitOutAndIn(t *testing.T) {
	t.Parallel()

	g, ids := newTestGame(t, Config{}, 100, 100, 100)
	carol := ids[2]

	require.NoError(t, g.SitOut(carol))
	require.NoError(t, g.StartHand())
	assert.Equal(t, StatusSittingOut, mustPlayer(t, g, carol).Status)
	assert.False(t, mustPlayer(t, g, carol).IsSmallBlind)
	assert.False(t, mustPlayer(t, g, carol).IsBigBlind)

	cur := currentID(t, g)
	require.NoError(t, g.PerformAction(cur, ActionFold, 0))
	require.Equal(t, StatusWaiting, g.Status())
	assert.Equal(t, StatusSittingOut, mustPlayer(t, g, carol).Status, "sitting out survives the hand reset")

	require.NoError(t, g.SitIn(carol))
	assert.Equal(t, StatusActive, mustPlayer(t, g, carol).Status)
	assert.ErrorIs(t, g.SitIn(carol), ErrInvalidState)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cfg := Config{}.WithDefaults()
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())

	withBB := Config{BigBlind: 40, SmallBlind: 20}.WithDefaults()
	assert.Equal(t, 40, withBB.MinBet)
	assert.Equal(t, 40, withBB.MinRaise)

	bad := []Config{
		{MaxPlayers: 1},
		{SmallBlind: 20, BigBlind: 10},
		{Ante: -1},
		{StartingStack: -100},
		{MinRaise: -2},
		{BettingLimit: "spread"},
	}
	for _, c := range bad {
		_, err := New(c)
		assert.Error(t, err, "%+v", c)
	}
}
