package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer animation for the OFFYBOX logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "O F F Y B O X" as a slow wave of blue light.
// Deep navy (#1a2a4a) -> bright sky (#60a5fa).
func renderShimmerLogo(frame int) string {
	const text = "OFFYBOX"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		r := clampByte(26 + b*(96-26))
		g := clampByte(42 + b*(165-42))
		bl := clampByte(74 + b*(250-74))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += "  "
		}
	}
	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base styles
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a5fa"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a5fa")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f0944a")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#606878")).
			Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	// Status colours shared by tenants, locations, modules and users.
	statusColors = map[string]lipgloss.Color{
		"active":      lipgloss.Color("#4ade80"),
		"ACTIVE":      lipgloss.Color("#4ade80"),
		"inactive":    lipgloss.Color("#8890a0"),
		"INACTIVE":    lipgloss.Color("#8890a0"),
		"open":        lipgloss.Color("#60a5fa"),
		"in-progress": lipgloss.Color("#f0944a"),
		"resolved":    lipgloss.Color("#4ade80"),
		"closed":      lipgloss.Color("#606878"),
	}

	priorityColors = map[string]lipgloss.Color{
		"low":    lipgloss.Color("#8890a0"),
		"medium": lipgloss.Color("#60a5fa"),
		"high":   lipgloss.Color("#f0944a"),
		"urgent": lipgloss.Color("#e06060"),
	}
)

// StatusStyle returns the colour for a record or ticket status.
func StatusStyle(status string) lipgloss.Style {
	if c, ok := statusColors[status]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return dimStyle
}

// PriorityStyle returns the colour for a ticket priority.
func PriorityStyle(priority string) lipgloss.Style {
	if c, ok := priorityColors[priority]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(priority == "urgent")
	}
	return dimStyle
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins help entries with the standard spacing.
func helpBar(entries ...string) string {
	return " " + strings.Join(entries, "  ")
}

// helpView renders the keyboard reference overlay.
func helpView() string {
	title := titleStyle.Render("O F F Y B O X   A D M I N")
	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	sections := []struct {
		name string
		keys []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"0", "dashboard"},
			{"1-9", "tenants, mappings, countries, states, cities, areas, modules, tickets, users"},
			{"R", "register a support user"},
			{"L", "sign out"},
			{"q", "quit"},
		}},
		{"Lists", []struct{ key, desc string }{
			{"j/k", "move"},
			{"r", "refresh from the server"},
			{"n", "new record"},
			{"e", "edit selected"},
			{"d", "delete selected (y to confirm)"},
			{"c", "copy selected id"},
			{"t", "toggle user status"},
		}},
		{"Forms", []struct{ key, desc string }{
			{"tab", "next field"},
			{"h/l", "cycle options"},
			{"ctrl+s", "save"},
			{"esc", "cancel"},
		}},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n", title)
	for _, s := range sections {
		fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render(s.name))
		for _, k := range s.keys {
			fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-8s", k.key)), descStyle.Render(k.desc))
		}
	}
	return b.String()
}
