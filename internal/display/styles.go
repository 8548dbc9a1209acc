package display

import "github.com/charmbracelet/lipgloss"

type styles struct {
	header  lipgloss.Style
	label   lipgloss.Style
	current lipgloss.Style
	player  lipgloss.Style
	folded  lipgloss.Style
	allIn   lipgloss.Style
	pot     lipgloss.Style
	actions lipgloss.Style
	success lipgloss.Style
	err     lipgloss.Style
	info    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1),
		label: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		current: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		player: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")),
		folded: r.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Faint(true),
		allIn: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		pot: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		actions: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")),
		success: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		err: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		info: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")),
	}
}
