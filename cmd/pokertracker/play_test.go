package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertracker/internal/display"
	"github.com/lox/pokertracker/internal/game"
	"github.com/lox/pokertracker/internal/session"
	"github.com/lox/pokertracker/internal/store"
)

func newShell(t *testing.T, st store.Store) (*shell, *bytes.Buffer) {
	t.Helper()
	opts := []session.Option{session.WithClock(quartz.NewMock(t))}
	if st != nil {
		opts = append(opts, session.WithStore(st))
	}
	sess, err := session.New(game.Config{Name: "Friday"}, opts...)
	require.NoError(t, err)

	var out bytes.Buffer
	return &shell{sess: sess, display: display.New(&out, false), out: &out}, &out
}

func script(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestShellPlaysHands(t *testing.T) {
	t.Parallel()

	st, err := store.NewFileStore(t.TempDir(), 3, log.New(io.Discard))
	require.NoError(t, err)
	sh, out := newShell(t, st)

	err = sh.run(context.Background(), script(
		"add Alice",
		"add Bob",
		"add Carol",
		"start",
		"call",
		"call",
		"check",
		"bet 10",
		"fold",
		"fold",
		"frobnicate",
		"bet",
		"start",
		"call",
		"call",
		"check",
		"win bob",
		"save",
		"quit",
		"add Dave",
	))
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, `error: unknown command "frobnicate", try help`)
	assert.Contains(t, output, "error: usage: bet N")
	assert.Contains(t, output, "main 30: Bob +30")
	assert.Contains(t, output, "saved Friday as ")

	snap := sh.sess.Snapshot()
	assert.Equal(t, 2, snap.HandNumber)
	assert.Len(t, snap.Players, 3, "nothing runs after quit")
	assert.Equal(t, 3000, snap.TotalChips())

	profits := map[string]int{}
	for _, p := range sh.sess.Tracker().Players() {
		profits[p.PlayerName] = p.TotalProfit
	}
	assert.Equal(t, map[string]int{"Alice": -20, "Bob": 10, "Carol": 10}, profits)

	saves, err := st.ListGames(context.Background())
	require.NoError(t, err)
	require.Len(t, saves, 1)
	assert.Equal(t, 2, saves[0].HandNumber)
}

func TestShellPlayerCommands(t *testing.T) {
	t.Parallel()

	sh, out := newShell(t, nil)
	require.NoError(t, sh.run(context.Background(), script(
		"add Alice 3 500",
		"add Bob",
		"rebuy alice 250",
		"stack bob 800",
		"seat bob 5",
		"dealer alice",
		"sitout bob",
		"add Carol",
		"undo",
		"save",
	)))

	assert.Contains(t, out.String(), "error: "+session.ErrNoStore.Error())

	snap := sh.sess.Snapshot()
	require.Len(t, snap.Players, 2)
	alice, bob := snap.Players[0], snap.Players[1]
	assert.Equal(t, 3, alice.Seat)
	assert.Equal(t, 750, alice.Stack)
	assert.True(t, alice.IsDealer)
	assert.Equal(t, 5, bob.Seat)
	assert.Equal(t, 800, bob.Stack)
	assert.Equal(t, game.StatusSittingOut, bob.Status)
}

func TestShellRejectsBadInput(t *testing.T) {
	t.Parallel()

	sh, _ := newShell(t, nil)
	ctx := context.Background()
	tests := []struct {
		line string
		err  string
	}{
		{"add", "usage: add NAME [SEAT] [STACK]"},
		{"add Alice x", `seat "x" is not a number`},
		{"remove Nobody", `no player named "Nobody"`},
		{"stack Alice", "usage: stack NAME N"},
		{"check now", "usage: check"},
		{"call", "no hand in progress"},
		{"raise lots", `amount "lots" is not a number`},
		{"win", "usage: win NAME..."},
		{"potwin main", `"main" is not POT=NAME,...`},
		{"undo", session.ErrNothingToUndo.Error()},
	}
	for _, tt := range tests {
		_, err := sh.exec(ctx, tt.line)
		require.Error(t, err, tt.line)
		assert.Contains(t, err.Error(), tt.err, tt.line)
	}

	quit, err := sh.exec(ctx, "   ")
	assert.NoError(t, err)
	assert.False(t, quit)

	quit, err = sh.exec(ctx, "EXIT")
	assert.NoError(t, err)
	assert.True(t, quit)
}

func TestShellStopsWhenCancelled(t *testing.T) {
	t.Parallel()

	sh, _ := newShell(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, w := io.Pipe()
	defer w.Close()
	assert.ErrorIs(t, sh.run(ctx, r), context.Canceled)
}
