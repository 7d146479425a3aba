package tui

import (
	"strings"
	"unicode/utf8"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 2000

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			return appendInput(text, key)
		}
		return text
	}
}

// appendInput adds typed or pasted runes, dropping newlines and clamping to
// maxInputLen.
func appendInput(text string, in string) string {
	in = strings.NewReplacer("\r", "", "\n", "", "\t", " ").Replace(in)
	room := maxInputLen - utf8.RuneCountInString(text)
	if room <= 0 || in == "" {
		return text
	}
	runes := []rune(in)
	if len(runes) > room {
		runes = runes[:room]
	}
	return text + string(runes)
}

// mask hides a secret value for display.
func mask(s string) string {
	return strings.Repeat("•", utf8.RuneCountInString(s))
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}
