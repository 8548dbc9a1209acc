package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerBetClampsToStack(t *testing.T) {
	t.Parallel()

	p := newPlayer("p", "Alice", 1, 30)
	assert.Equal(t, 20, p.Bet(20))
	assert.Equal(t, 10, p.Stack)
	assert.Equal(t, StatusActive, p.Status)

	assert.Equal(t, 10, p.Bet(50), "bet is clamped to the remaining stack")
	assert.Equal(t, 0, p.Stack)
	assert.Equal(t, 30, p.CurrentBet)
	assert.Equal(t, StatusAllIn, p.Status)

	assert.Equal(t, 0, p.Bet(10))
}

func TestPlayerAllIn(t *testing.T) {
	t.Parallel()

	p := newPlayer("p", "Bob", 2, 75)
	p.Bet(5)
	assert.Equal(t, 70, p.AllIn())
	assert.Equal(t, 75, p.CurrentBet)
	assert.Equal(t, 0, p.Stack)
	assert.Equal(t, StatusAllIn, p.Status)
}

func TestPlayerPostAnteIsDeadMoney(t *testing.T) {
	t.Parallel()

	p := newPlayer("p", "Carol", 3, 100)
	assert.Equal(t, 5, p.PostAnte(5))
	assert.Equal(t, 95, p.Stack)
	assert.Equal(t, 0, p.CurrentBet)
}

func TestPlayerResetForNewHand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stack  int
		status PlayerStatus
		want   PlayerStatus
	}{
		{"folded player comes back", 50, StatusFolded, StatusActive},
		{"all-in winner comes back", 80, StatusAllIn, StatusActive},
		{"busted player is eliminated", 0, StatusAllIn, StatusEliminated},
		{"eliminated player stays out", 0, StatusEliminated, StatusEliminated},
		{"sitting out is kept", 100, StatusSittingOut, StatusSittingOut},
		{"sitting out without chips is eliminated", 0, StatusSittingOut, StatusEliminated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &Player{Stack: tt.stack, Status: tt.status, CurrentBet: 20, HasActed: true, HasActedVoluntarily: true}
			p.RecordAction(ActionRecord{Action: ActionCall})
			p.ResetForNewHand()

			assert.Equal(t, tt.want, p.Status)
			assert.Zero(t, p.CurrentBet)
			assert.False(t, p.HasActed)
			assert.False(t, p.HasActedVoluntarily)
			assert.Empty(t, p.Actions)
		})
	}
}

func TestPlayerStatusPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status PlayerStatus
		canAct bool
		inHand bool
	}{
		{StatusActive, true, true},
		{StatusAllIn, false, true},
		{StatusFolded, false, false},
		{StatusSittingOut, false, false},
		{StatusEliminated, false, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.canAct, tt.status.CanAct(), tt.status)
		assert.Equal(t, tt.inHand, tt.status.InHand(), tt.status)
		assert.True(t, tt.status.Valid())
	}

	unknown := PlayerStatus("napping")
	assert.False(t, unknown.Valid())
	assert.Panics(t, func() { unknown.CanAct() })
	assert.Panics(t, func() { unknown.InHand() })
}
