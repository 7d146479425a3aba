package tui

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// formatExpiry renders time remaining on a session.
func formatExpiry(exp, now time.Time) string {
	if exp.IsZero() {
		return "no expiry"
	}
	d := exp.Sub(now)
	switch {
	case d <= 0:
		return "expired"
	case d < time.Hour:
		return fmt.Sprintf("expires in %dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("expires in %dh", int(d.Hours()))
	default:
		return fmt.Sprintf("expires in %dd", int(d.Hours()/24))
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return "…"
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads or truncates s to exactly width runes.
func padRight(s string, width int) string {
	s = truncStr(s, width)
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + spaces(width-n)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
