package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lox/pokertracker/cmd/pokertracker/shared"
	"github.com/lox/pokertracker/internal/display"
	"github.com/lox/pokertracker/internal/game"
	"github.com/lox/pokertracker/internal/gameid"
	"github.com/lox/pokertracker/internal/session"
)

// PlayCmd runs the interactive command loop.
type PlayCmd struct {
	Table string `short:"t" help:"Table from the configuration file (default: first)"`
	Load  string `short:"l" help:"Resume a saved game by id"`
}

func (cmd PlayCmd) Validate() error {
	if cmd.Load == "" {
		return nil
	}
	return gameid.Validate(cmd.Load)
}

func (cmd PlayCmd) Run(g *Globals) error {
	e, err := g.open(context.Background())
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := shared.SetupSignalHandler(e.logger)
	defer cancel()

	var sess *session.Session
	if cmd.Load != "" {
		sess, err = session.Load(ctx, e.store, cmd.Load, session.WithLogger(e.logger))
		if err != nil {
			return fmt.Errorf("load %s: %w", cmd.Load, err)
		}
	} else {
		table, ok := e.file.Table(cmd.Table)
		if !ok {
			return fmt.Errorf("no table %q in %s", cmd.Table, g.Config)
		}
		cfg, err := table.GameConfig()
		if err != nil {
			return err
		}
		if sess, err = session.New(cfg, session.WithLogger(e.logger), session.WithStore(e.store)); err != nil {
			return err
		}
		for _, p := range e.file.Players {
			if _, err := sess.AddPlayer(p.Name, p.Seat, p.Stack); err != nil {
				return fmt.Errorf("seat %s: %w", p.Name, err)
			}
		}
	}

	sh := &shell{sess: sess, display: e.display, out: os.Stdout}
	err = sh.run(ctx, os.Stdin)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if len(sess.Snapshot().Players) > 0 {
		if _, saveErr := sess.Persist(context.Background()); saveErr != nil {
			return errors.Join(err, saveErr)
		}
	}
	return err
}

const shellHelp = `commands:
  add NAME [SEAT] [STACK]   seat a player
  remove NAME               remove a player
  seat NAME SEAT            move a player
  dealer NAME               give a player the button
  sitout NAME | sitin NAME  skip or rejoin upcoming hands
  stack NAME N              correct a stack between hands
  rebuy NAME N              add chips between hands
  start                     start the next hand
  check | call | fold | allin
  bet N | raise N           amounts are the total for the round
  next                      close the betting round
  win NAME...               award every pot
  potwin POT=NAME,... ...   award pots separately, e.g. main=alice side-1=bob
  undo | save | status | stats | help | quit`

var shellActions = map[string]game.ActionType{
	"check": game.ActionCheck,
	"call":  game.ActionCall,
	"fold":  game.ActionFold,
	"allin": game.ActionAllIn,
}

// shell reads commands for a session one line at a time.
type shell struct {
	sess    *session.Session
	display *display.Display
	out     io.Writer
}

func (sh *shell) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	sh.status()
	for {
		fmt.Fprint(sh.out, "> ")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return ctx.Err()
				}
			}
			quit, err := sh.exec(ctx, line)
			if err != nil {
				fmt.Fprintln(sh.out, sh.display.Error(err))
				continue
			}
			if quit {
				return nil
			}
		}
	}
}

// exec runs one command line and reports whether the loop should stop.
func (sh *shell) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	var err error
	switch name {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(sh.out, shellHelp)
		return false, nil
	case "stats":
		fmt.Fprintln(sh.out, sh.display.Stats(sh.sess.Tracker().Players()))
		return false, nil
	case "status":
	case "save":
		info, err := sh.sess.Persist(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(sh.out, sh.display.Info(fmt.Sprintf("saved %s as %s", info.Name, info.ID)))
		return false, nil
	case "undo":
		err = sh.sess.Undo()
	case "add":
		err = sh.add(args)
	case "remove", "dealer", "sitout", "sitin":
		err = sh.playerCommand(name, args)
	case "seat", "stack", "rebuy":
		err = sh.playerAmountCommand(name, args)
	case "start":
		err = sh.sess.StartHand()
	case "check", "call", "fold", "allin":
		if len(args) != 0 {
			return false, fmt.Errorf("usage: %s", name)
		}
		err = sh.act(shellActions[name], 0)
	case "bet", "raise":
		err = sh.actAmount(game.ActionType(name), args)
	case "next":
		err = sh.sess.EndRound()
	case "win":
		err = sh.win(args)
	case "potwin":
		err = sh.potWin(args)
	default:
		return false, fmt.Errorf("unknown command %q, try help", name)
	}
	if err != nil {
		return false, err
	}
	sh.status()
	return false, nil
}

func (sh *shell) status() {
	snap := sh.sess.Snapshot()
	fmt.Fprintln(sh.out, sh.display.Table(snap))
	if snap.Status == game.StatusInProgress {
		current := snap.Players[snap.CurrentPlayerIndex]
		fmt.Fprintln(sh.out, sh.display.ValidActions(current.Name, sh.sess.ValidActions()))
	}
}

func (sh *shell) add(args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return errors.New("usage: add NAME [SEAT] [STACK]")
	}
	var seat, stack int
	var err error
	if len(args) > 1 {
		if seat, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("seat %q is not a number", args[1])
		}
	}
	if len(args) > 2 {
		if stack, err = strconv.Atoi(args[2]); err != nil {
			return fmt.Errorf("stack %q is not a number", args[2])
		}
	}
	_, err = sh.sess.AddPlayer(args[0], seat, stack)
	return err
}

func (sh *shell) playerCommand(name string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s NAME", name)
	}
	id, err := sh.playerID(args[0])
	if err != nil {
		return err
	}
	switch name {
	case "remove":
		return sh.sess.RemovePlayer(id)
	case "dealer":
		return sh.sess.SetDealerButton(id)
	case "sitout":
		return sh.sess.SitOut(id)
	default:
		return sh.sess.SitIn(id)
	}
}

func (sh *shell) playerAmountCommand(name string, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: %s NAME N", name)
	}
	id, err := sh.playerID(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%q is not a number", args[1])
	}
	switch name {
	case "seat":
		return sh.sess.MovePlayerSeat(id, n)
	case "stack":
		return sh.sess.EditStack(id, n)
	default:
		return sh.sess.Rebuy(id, n)
	}
}

func (sh *shell) actAmount(action game.ActionType, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s N", action)
	}
	amount, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("amount %q is not a number", args[0])
	}
	return sh.act(action, amount)
}

// act applies action for whoever is to act.
func (sh *shell) act(action game.ActionType, amount int) error {
	snap := sh.sess.Snapshot()
	if snap.Status != game.StatusInProgress {
		return errors.New("no hand in progress")
	}
	return sh.sess.Act(snap.Players[snap.CurrentPlayerIndex].ID, action, amount)
}

func (sh *shell) win(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: win NAME...")
	}
	ids, err := sh.playerIDs(args)
	if err != nil {
		return err
	}
	players := sh.sess.Snapshot().Players
	distributions, err := sh.sess.EndHand(ids)
	if err != nil {
		return err
	}
	fmt.Fprint(sh.out, sh.display.Distributions(players, distributions))
	return nil
}

func (sh *shell) potWin(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: potwin POT=NAME,... ...")
	}
	potWinners := make(map[string][]string, len(args))
	for _, arg := range args {
		pot, names, ok := strings.Cut(arg, "=")
		if !ok || pot == "" || names == "" {
			return fmt.Errorf("%q is not POT=NAME,...", arg)
		}
		ids, err := sh.playerIDs(strings.Split(names, ","))
		if err != nil {
			return err
		}
		potWinners[pot] = ids
	}
	players := sh.sess.Snapshot().Players
	distributions, err := sh.sess.EndHandWithPots(potWinners)
	if err != nil {
		return err
	}
	fmt.Fprint(sh.out, sh.display.Distributions(players, distributions))
	return nil
}

// playerID resolves a player by name, ignoring case, or by id.
func (sh *shell) playerID(ref string) (string, error) {
	for _, p := range sh.sess.Snapshot().Players {
		if strings.EqualFold(p.Name, ref) || p.ID == ref {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("no player named %q", ref)
}

func (sh *shell) playerIDs(refs []string) ([]string, error) {
	ids := make([]string, len(refs))
	for i, ref := range refs {
		id, err := sh.playerID(ref)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
