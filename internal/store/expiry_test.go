package store

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/offybox/offyadmin/internal/session"
	"github.com/offybox/offyadmin/pkg/client"
	"github.com/offybox/offyadmin/pkg/domain"
)

type recordingNav struct {
	onLogin atomic.Bool
	shown   atomic.Int32
}

func (n *recordingNav) OnLoginScreen() bool { return n.onLogin.Load() }

func (n *recordingNav) ShowLogin() {
	n.shown.Add(1)
	n.onLogin.Store(true)
}

func TestTickets_FetchAll401EndsSession(t *testing.T) {
	b, srv := newBackend(t)
	before := []domain.Ticket{{ID: "1", Subject: "DB down", Status: "open", Priority: "high"}}
	b.reply("GET /tickets", http.StatusOK, before)

	kv := newKV()
	st := session.NewStore(kv, nil)
	if err := st.Set(context.Background(), domain.Session{UserID: "u1", Token: "T1"}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	nav := &recordingNav{}
	c := client.New(srv.URL, st, client.WithNavigator(nav))
	set := NewSet(c, kv, nil, nil)
	ctx := context.Background()

	if err := set.Tickets.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}

	b.reply("GET /tickets", http.StatusUnauthorized, map[string]string{"error": "token expired"})
	err := set.Tickets.FetchAll(ctx)
	if !client.IsKind(err, client.KindSessionExpired) {
		t.Fatalf("kind = %v, want session_expired", client.KindOf(err))
	}
	if st.Current().IsAuthenticated() {
		t.Error("session not cleared")
	}
	if got := set.Tickets.List(); len(got) != 1 || got[0].ID != "1" {
		t.Errorf("tickets = %+v, want the pre-call collection", got)
	}
	if nav.shown.Load() != 1 {
		t.Errorf("ShowLogin calls = %d, want 1", nav.shown.Load())
	}

	// later 401s carry no token and never redirect again
	_ = set.Tickets.FetchAll(ctx)
	if nav.shown.Load() != 1 {
		t.Errorf("ShowLogin calls = %d after second 401, want 1", nav.shown.Load())
	}
}

func TestSet_LoadSaveCounts(t *testing.T) {
	kv := newKV()
	set := NewSet(nil, kv, nil, nil)
	ctx := context.Background()
	if _, err := set.Modules.Create(ctx, domain.Module{Name: "Chat", Code: "CHT", Status: "active"}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := set.Locations.Countries.Create(ctx, domain.Country{Name: "India", Code: "IN", Status: "active"}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := set.SaveAll(ctx); err != nil {
		t.Fatalf("SaveAll() error: %v", err)
	}

	fresh := NewSet(nil, kv, nil, nil)
	if err := fresh.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	counts := map[string]int{}
	for _, c := range fresh.Counts() {
		counts[c.Name] = c.N
	}
	if counts["modules"] != 1 || counts["countries"] != 1 || counts["tickets"] != 0 {
		t.Errorf("counts = %v", counts)
	}
	if len(fresh.Counts()) != 9 {
		t.Errorf("got %d collections, want 9", len(fresh.Counts()))
	}
}
