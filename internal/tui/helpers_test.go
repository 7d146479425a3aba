package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/offybox/offyadmin/internal/session"
	"github.com/offybox/offyadmin/internal/storage"
	"github.com/offybox/offyadmin/internal/store"
	"github.com/offybox/offyadmin/pkg/client"
	"github.com/offybox/offyadmin/pkg/domain"
)

// fakeAuthAPI stands in for the backend's auth endpoints.
type fakeAuthAPI struct {
	mu       sync.Mutex
	loginErr error
	forgot   []string
	created  []domain.UserProfile
}

func (f *fakeAuthAPI) Login(_ context.Context, email, _ string) (*client.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &client.LoginResponse{
		Token: "tok-1",
		User:  client.LoginUser{ID: "u1", FirstName: "Ada", LastName: "Ops", Email: email},
	}, nil
}

func (f *fakeAuthAPI) CreateUser(_ context.Context, p domain.UserProfile) (*domain.SupportUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	return &domain.SupportUser{ID: "42", FirstName: p.FirstName, LastName: p.LastName, Email: p.Email, Status: p.Status}, nil
}

func (f *fakeAuthAPI) ForgotPassword(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgot = append(f.forgot, email)
	return nil
}

type testEnv struct {
	app    App
	api    *fakeAuthAPI
	auth   *session.Manager
	stores *store.Set
	router *Router
}

// newTestApp builds an App over local stores. signedIn seeds a session.
func newTestApp(t *testing.T, signedIn bool) testEnv {
	t.Helper()
	kv := storage.NewMemoryKV()
	st := session.NewStore(kv, nil)
	if signedIn {
		err := st.Set(context.Background(), domain.Session{UserID: "u0", FirstName: "Grace", Email: "grace@offybox.io", Token: "tok-0"})
		if err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}
	api := &fakeAuthAPI{}
	auth := session.NewManager(st, api, nil)
	stores := store.NewSet(nil, kv, nil, nil)
	router := NewRouter()

	a := NewApp(Deps{Auth: auth, Stores: stores, Router: router, Version: "test"})
	a.width = 100
	a.height = 40
	return testEnv{app: a, api: api, auth: auth, stores: stores, router: router}
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText feeds s to m one key at a time.
func typeText(a App, s string) App {
	for _, r := range s {
		model, _ := a.Update(runeKey(string(r)))
		a = model.(App)
	}
	return a
}

func send(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	model, cmd := a.Update(msg)
	app, ok := model.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", model)
	}
	return app, cmd
}

// runCmd executes cmd and returns its message, failing on nil.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	return cmd()
}
