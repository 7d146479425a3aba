package tui

import (
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestRouterShowLoginSendsOnce(t *testing.T) {
	r := NewRouter()
	var mu sync.Mutex
	var got []tea.Msg
	r.attach(func(msg tea.Msg) {
		mu.Lock()
		got = append(got, msg)
		mu.Unlock()
	})

	if r.OnLoginScreen() {
		t.Fatal("new router should not be on the login screen")
	}
	r.ShowLogin()
	if !r.OnLoginScreen() {
		t.Error("ShowLogin should mark the login screen")
	}
	if len(got) != 1 {
		t.Fatalf("sent %d messages, want 1", len(got))
	}
	if _, ok := got[0].(sessionExpiredMsg); !ok {
		t.Errorf("sent %T, want sessionExpiredMsg", got[0])
	}
}

func TestRouterShowLoginBeforeAttach(t *testing.T) {
	r := NewRouter()
	r.ShowLogin()
	if !r.OnLoginScreen() {
		t.Error("flag should be set even without a program")
	}
}
