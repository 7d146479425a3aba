package tui

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// sessionExpiredMsg tells the App the backend ended the session.
type sessionExpiredMsg struct{}

// Router lets the request pipeline move the operator to the login screen
// from any goroutine. It implements client.Navigator.
type Router struct {
	onLogin atomic.Bool

	mu   sync.Mutex
	send func(tea.Msg)
}

func NewRouter() *Router {
	return &Router{}
}

// Attach connects the router to a running program.
func (r *Router) Attach(p *tea.Program) {
	r.attach(p.Send)
}

func (r *Router) attach(send func(tea.Msg)) {
	r.mu.Lock()
	r.send = send
	r.mu.Unlock()
}

// OnLoginScreen reports whether the login screen is showing.
func (r *Router) OnLoginScreen() bool {
	return r.onLogin.Load()
}

// ShowLogin asks the App to switch to the login screen.
func (r *Router) ShowLogin() {
	r.onLogin.Store(true)
	r.mu.Lock()
	send := r.send
	r.mu.Unlock()
	if send != nil {
		send(sessionExpiredMsg{})
	}
}

func (r *Router) setOnLogin(v bool) {
	r.onLogin.Store(v)
}
