package store

import (
	"time"

	"go.uber.org/zap"

	"github.com/offybox/offyadmin/internal/storage"
	"github.com/offybox/offyadmin/pkg/domain"
)

// NewTickets builds the ticket store. Tickets copy the tenant's name.
func NewTickets(api Doer, kv storage.KV, log *zap.Logger, tenants *Tenants, local map[string]bool) *Collection[domain.Ticket] {
	return NewCollection(Resource{
		Name: "tickets", Path: "/tickets", StorageKey: "ticket-storage", Local: local["tickets"],
	}, api, kv, log, Hooks[domain.Ticket]{
		Prepare: func(t domain.Ticket) (domain.Ticket, error) {
			name, err := parentName(tenants.Collection, t.TenantID, "tenant", tenantName)
			t.TenantName = name
			return t, err
		},
		PreparePatch: func(p domain.Patch) (domain.Patch, error) {
			return withParentName(p, "tenantId", "tenantName", "tenant", tenants.Collection, tenantName)
		},
		OnLocalCreate: func(t domain.Ticket, now time.Time) domain.Ticket {
			t.CreatedAt = now.UTC().Format(time.RFC3339)
			t.UpdatedAt = t.CreatedAt
			return t
		},
		OnLocalUpdate: func(t domain.Ticket, now time.Time) domain.Ticket {
			t.UpdatedAt = now.UTC().Format(time.RFC3339)
			return t
		},
	})
}

// NewModules builds the feature-module store.
func NewModules(api Doer, kv storage.KV, log *zap.Logger, local map[string]bool) *Collection[domain.Module] {
	return NewCollection(Resource{
		Name: "modules", Path: "/modules", StorageKey: "module-storage", Local: local["modules"],
	}, api, kv, log, Hooks[domain.Module]{})
}
