package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

func printHelp(w io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#60a5fa")).
		Bold(true).
		Render("O F F Y B O X   A D M I N")

	sub := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Tenants, locations, modules, tickets and support users.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"offyadmin", "Open the admin console (interactive TUI)"},
		{"offyadmin login [email]", "Sign in (password from OFFYBOX_PASSWORD or stdin)"},
		{"offyadmin logout", "Clear the stored session"},
		{"offyadmin forgot-password", "Send a reset link to an email"},
		{"offyadmin whoami", "Show the signed-in operator"},
		{"offyadmin sync", "Refresh every list from the server"},
		{"offyadmin --version", "Show version"},
		{"offyadmin help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n  %s\n\n  Commands:\n", title, sub)
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-26s", c.cmd)), descStyle.Render(c.desc))
	}
	env := descStyle.Render("Settings come from OFFYBOX_* environment variables or a .env file.")
	fmt.Fprintf(w, "\n  %s\n\n", env)
}

func printSignedOut(w io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#60a5fa")).
		Bold(true).
		Render("OFFYBOX")

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("Not signed in. To sign in: offyadmin login")

	fmt.Fprintf(w, "\n%s\n\n%s\n\n", title, hint)
}
