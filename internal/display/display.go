// Package display renders game state for the terminal.
package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/pokertracker/internal/game"
	"github.com/lox/pokertracker/internal/statistics"
	"github.com/lox/pokertracker/internal/store"
)

// Display formats snapshots, stats and messages for w's terminal.
type Display struct {
	renderer *lipgloss.Renderer
	styles   styles
}

// New returns a Display for w. With color off, or when w is not a
// terminal, output is plain text.
func New(w io.Writer, color bool) *Display {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Display{renderer: r, styles: newStyles(r)}
}

// Table renders the seats, bets and pots of snap.
func (d *Display) Table(snap game.Snapshot) string {
	var b strings.Builder

	title := fmt.Sprintf("%s  hand %d  %s", snap.Config.Name, snap.HandNumber, snap.Status)
	if snap.Status == game.StatusInProgress {
		title += fmt.Sprintf("  round %d/%d", snap.CurrentRound+1, snap.Config.TotalRounds)
	}
	b.WriteString(d.styles.header.Render(title))
	b.WriteString("\n")
	b.WriteString(d.styles.label.Render(fmt.Sprintf("blinds %d/%d  ante %d  %s  bet %d  pot %d",
		snap.Config.SmallBlind, snap.Config.BigBlind, snap.Config.Ante,
		snap.Config.BettingLimit, snap.CurrentBet, potTotal(snap))))
	b.WriteString("\n\n")

	nameWidth := 4
	for _, p := range snap.Players {
		nameWidth = max(nameWidth, lipgloss.Width(p.Name))
	}
	b.WriteString(d.styles.label.Render(fmt.Sprintf("  %-4s %-*s %8s %6s  %-11s %s",
		"seat", nameWidth, "name", "stack", "bet", "status", "")))
	b.WriteString("\n")

	for i, p := range snap.Players {
		marker := " "
		if snap.Status == game.StatusInProgress && i == snap.CurrentPlayerIndex {
			marker = ">"
		}
		line := fmt.Sprintf("%s %-4d %-*s %8d %6d  %-11s %s",
			marker, p.Seat, nameWidth, p.Name, p.Stack, p.CurrentBet, p.Status, positions(p))
		b.WriteString(d.playerStyle(p, marker == ">").Render(strings.TrimRight(line, " ")))
		b.WriteString("\n")
	}

	if len(snap.Pots) > 0 {
		b.WriteString("\n")
		names := playerNames(snap.Players)
		for _, pot := range snap.Pots {
			eligible := make([]string, len(pot.Eligible))
			for i, id := range pot.Eligible {
				eligible[i] = names[id]
			}
			b.WriteString(d.styles.pot.Render(fmt.Sprintf("%s %d", pot.ID, pot.Amount)))
			b.WriteString(d.styles.label.Render(" " + strings.Join(eligible, ", ")))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (d *Display) playerStyle(p game.Player, current bool) lipgloss.Style {
	switch {
	case current:
		return d.styles.current
	case p.Status == game.StatusAllIn:
		return d.styles.allIn
	case p.Status == game.StatusFolded, p.Status == game.StatusSittingOut, p.Status == game.StatusEliminated:
		return d.styles.folded
	}
	return d.styles.player
}

func positions(p game.Player) string {
	var tags []string
	if p.IsDealer {
		tags = append(tags, "D")
	}
	if p.IsSmallBlind {
		tags = append(tags, "SB")
	}
	if p.IsBigBlind {
		tags = append(tags, "BB")
	}
	return strings.Join(tags, " ")
}

func potTotal(snap game.Snapshot) int {
	total := 0
	for _, c := range snap.Contributions {
		total += c.Amount
	}
	return total
}

func playerNames(players []game.Player) map[string]string {
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	return names
}

// ValidActions renders the choices open to the player to act.
func (d *Display) ValidActions(name string, actions []game.ValidAction) string {
	if len(actions) == 0 {
		return ""
	}
	parts := make([]string, len(actions))
	for i, a := range actions {
		switch {
		case a.MinAmount == 0:
			parts[i] = string(a.Action)
		case a.MinAmount == a.MaxAmount:
			parts[i] = fmt.Sprintf("%s %d", a.Action, a.MinAmount)
		default:
			parts[i] = fmt.Sprintf("%s %d-%d", a.Action, a.MinAmount, a.MaxAmount)
		}
	}
	return d.styles.actions.Render(fmt.Sprintf("%s to act: %s", name, strings.Join(parts, " | ")))
}

// Distributions renders how pots were paid out.
func (d *Display) Distributions(players []game.Player, distributions []game.Distribution) string {
	names := playerNames(players)
	var b strings.Builder
	for _, dist := range distributions {
		shares := make([]string, len(dist.Payouts))
		for i, p := range dist.Payouts {
			shares[i] = fmt.Sprintf("%s +%d", names[p.PlayerID], p.Amount)
		}
		b.WriteString(d.styles.success.Render(fmt.Sprintf("%s %d: %s", dist.PotID, dist.Amount, strings.Join(shares, ", "))))
		b.WriteString("\n")
	}
	return b.String()
}

// Stats renders a table of player statistics.
func (d *Display) Stats(stats []statistics.PlayerStats) string {
	if len(stats) == 0 {
		return d.styles.info.Render("no hands recorded")
	}
	nameWidth := 6
	for _, s := range stats {
		nameWidth = max(nameWidth, lipgloss.Width(s.PlayerName))
	}
	var b strings.Builder
	b.WriteString(d.styles.header.Render(fmt.Sprintf("%-*s %6s %5s %7s %8s %7s %8s",
		nameWidth, "player", "hands", "won", "vpip", "profit", "roi", "bb/hand")))
	b.WriteString("\n")
	for _, s := range stats {
		style := d.styles.player
		if s.TotalProfit > 0 {
			style = d.styles.success
		} else if s.TotalProfit < 0 {
			style = d.styles.err
		}
		b.WriteString(style.Render(fmt.Sprintf("%-*s %6d %5d %6.1f%% %+8d %6.1f%% %+8.2f",
			nameWidth, s.PlayerName, s.VPIP.HandsPlayed, s.HandsWon, s.VPIP.Percent,
			s.TotalProfit, s.ROI(), s.Results.Mean())))
		b.WriteString("\n")
	}
	return b.String()
}

// Saves renders a list of saved games.
func (d *Display) Saves(infos []store.SaveInfo) string {
	if len(infos) == 0 {
		return d.styles.info.Render("no saved games")
	}
	var b strings.Builder
	for _, info := range infos {
		b.WriteString(d.styles.player.Render(fmt.Sprintf("%s  %-20s hand %-4d %d players  %s",
			info.ID, info.Name, info.HandNumber, info.Players, info.SavedAt.Local().Format(time.DateTime))))
		b.WriteString("\n")
	}
	return b.String()
}

// Error renders an error message.
func (d *Display) Error(err error) string {
	return d.styles.err.Render("error: " + err.Error())
}

// Info renders an informational message.
func (d *Display) Info(msg string) string {
	return d.styles.info.Render(msg)
}
