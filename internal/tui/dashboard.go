package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/offybox/offyadmin/internal/store"
	"github.com/offybox/offyadmin/pkg/domain"
)

// dashboardView renders who is signed in and how much each store holds.
func dashboardView(sess domain.Session, counts []store.Count, now time.Time) string {
	var b strings.Builder

	b.WriteString(" " + titleStyle.Render("Dashboard") + "\n\n")
	name := sess.DisplayName()
	if name == "" {
		name = "signed in"
	}
	b.WriteString(" " + selectedStyle.Render(name))
	if sess.Email != "" && sess.Email != name {
		b.WriteString("  " + metaStyle.Render(sess.Email))
	}
	b.WriteString("\n")

	exp := formatExpiry(sess.Expiry(), now)
	if sess.Expired(now) {
		b.WriteString(" " + warnStyle.Render("session expired, requests will sign you out") + "\n")
	} else {
		b.WriteString(" " + dimStyle.Render(exp) + "\n")
	}
	b.WriteString("\n")

	width := 0
	for _, c := range counts {
		width = max(width, len(c.Name))
	}
	for i, c := range counts {
		key := metaStyle.Render(fmt.Sprintf("%d", i+1))
		fmt.Fprintf(&b, " %s  %s  %s\n", key, normalStyle.Render(padRight(c.Name, width)), accentStyle.Render(fmt.Sprintf("%4d", c.N)))
	}
	return b.String()
}
