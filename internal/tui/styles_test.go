package tui

import (
	"strings"
	"testing"
)

func TestStatusStyleKnownStatus(t *testing.T) {
	statuses := []string{"active", "inactive", "ACTIVE", "INACTIVE", "open", "in-progress", "resolved", "closed"}

	for _, status := range statuses {
		t.Run(status, func(t *testing.T) {
			rendered := StatusStyle(status).Render(status)
			if !strings.Contains(rendered, status) {
				t.Errorf("StatusStyle(%q).Render(%q) = %q, want to contain %q", status, status, rendered, status)
			}
		})
	}
}

func TestStatusStyleUnknownFallback(t *testing.T) {
	rendered := StatusStyle("archived").Render("archived")
	if !strings.Contains(rendered, "archived") {
		t.Errorf("StatusStyle fallback did not render text: %q", rendered)
	}
}

func TestPriorityStyle(t *testing.T) {
	for _, p := range []string{"low", "medium", "high", "urgent", "unknown"} {
		t.Run(p, func(t *testing.T) {
			if rendered := PriorityStyle(p).Render(p); !strings.Contains(rendered, p) {
				t.Errorf("PriorityStyle(%q) rendered %q", p, rendered)
			}
		})
	}
}

func TestIsPriority(t *testing.T) {
	if !isPriority("urgent") {
		t.Error("urgent should be a priority")
	}
	if isPriority("active") {
		t.Error("active should not be a priority")
	}
}

func TestRenderShimmerLogoContainsLetters(t *testing.T) {
	for _, frame := range []int{0, 7, 1000} {
		logo := renderShimmerLogo(frame)
		for _, r := range "OFFYBOX" {
			if !strings.ContainsRune(logo, r) {
				t.Errorf("frame %d: logo %q missing %q", frame, logo, r)
			}
		}
	}
}

func TestHelpViewListsGlobalKeys(t *testing.T) {
	out := helpView()
	for _, want := range []string{"dashboard", "register", "sign out", "ctrl+s", "copy selected id"} {
		if !strings.Contains(out, want) {
			t.Errorf("helpView missing %q", want)
		}
	}
}

func TestHelpBarJoinsEntries(t *testing.T) {
	out := helpBar(helpEntry("n", "new"), helpEntry("d", "delete"))
	if !strings.Contains(out, "new") || !strings.Contains(out, "delete") {
		t.Errorf("helpBar = %q", out)
	}
}

func TestHelpEntryFormat(t *testing.T) {
	result := helpEntry("q", "quit")
	if !strings.Contains(result, "q") {
		t.Errorf("helpEntry('q','quit') does not contain key 'q': %q", result)
	}
	if !strings.Contains(result, "quit") {
		t.Errorf("helpEntry('q','quit') does not contain label 'quit': %q", result)
	}
}

func TestHelpEntryMultipleKeys(t *testing.T) {
	tests := []struct {
		key   string
		label string
	}{
		{"j/k", "nav"},
		{"enter", "save"},
		{"esc", "cancel"},
		{"ctrl+s", "submit"},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			result := helpEntry(tc.key, tc.label)
			if !strings.Contains(result, tc.key) {
				t.Errorf("helpEntry(%q, %q) missing key", tc.key, tc.label)
			}
			if !strings.Contains(result, tc.label) {
				t.Errorf("helpEntry(%q, %q) missing label", tc.key, tc.label)
			}
		})
	}
}
