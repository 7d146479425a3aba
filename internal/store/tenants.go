package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/offybox/offyadmin/internal/storage"
	"github.com/offybox/offyadmin/pkg/domain"
)

// Tenants holds tenants and the client-side tenant-to-resource mappings.
type Tenants struct {
	*Collection[domain.Tenant]
	Mappings *Collection[domain.TenantMapping]
	log      *zap.Logger
}

func NewTenants(api Doer, kv storage.KV, log *zap.Logger, local map[string]bool) *Tenants {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Tenants{log: log}
	t.Collection = NewCollection(Resource{
		Name:       "tenants",
		Path:       "/tenants",
		StorageKey: "tenant-storage",
		Local:      local["tenants"],
	}, api, kv, log, Hooks[domain.Tenant]{
		OnLocalCreate: func(rec domain.Tenant, now time.Time) domain.Tenant {
			rec.CreatedAt = now.Format(time.DateOnly)
			return rec
		},
	})
	t.Mappings = NewCollection(Resource{
		Name:       "tenant-mappings",
		Path:       "/tenant-mappings",
		StorageKey: "tenant-mapping-storage",
		Local:      local["tenant-mappings"],
	}, api, kv, log, Hooks[domain.TenantMapping]{
		Prepare: func(m domain.TenantMapping) (domain.TenantMapping, error) {
			name, err := parentName(t.Collection, m.TenantID, "tenant", tenantName)
			m.TenantName = name
			return m, err
		},
		PreparePatch: func(p domain.Patch) (domain.Patch, error) {
			return withParentName(p, "tenantId", "tenantName", "tenant", t.Collection, tenantName)
		},
	})
	return t
}

// Delete removes the tenant and then every mapping that references it.
func (t *Tenants) Delete(ctx context.Context, id string) error {
	if err := t.Collection.Delete(ctx, id); err != nil {
		return err
	}
	n := t.Mappings.RemoveWhere(ctx, func(m domain.TenantMapping) bool { return m.TenantID == id })
	if n > 0 {
		t.log.Info("removed tenant mappings", zap.String("tenant_id", id), zap.Int("count", n))
	}
	return nil
}

// AddMapping maps a resource to a tenant, copying the tenant's name.
func (t *Tenants) AddMapping(ctx context.Context, m domain.TenantMapping) (domain.TenantMapping, error) {
	return t.Mappings.Create(ctx, m)
}

// DeleteMapping removes one mapping.
func (t *Tenants) DeleteMapping(ctx context.Context, id string) error {
	return t.Mappings.Delete(ctx, id)
}

// MappingsFor returns the mappings of one tenant.
func (t *Tenants) MappingsFor(tenantID string) []domain.TenantMapping {
	var out []domain.TenantMapping
	for _, m := range t.Mappings.List() {
		if m.TenantID == tenantID {
			out = append(out, m)
		}
	}
	return out
}

func tenantName(t domain.Tenant) string { return t.Name }

// parentName looks up the display name of a parent record. An empty id
// yields an empty name; an unknown id is an error.
func parentName[P domain.Entity](parents *Collection[P], id, label string, name func(P) string) (string, error) {
	if id == "" {
		return "", nil
	}
	p, ok := parents.Get(id)
	if !ok {
		return "", fmt.Errorf("unknown %s %q", label, id)
	}
	return name(p), nil
}

// withParentName refreshes the cached parent name when a patch changes the
// parent id.
func withParentName[P domain.Entity](p domain.Patch, idKey, nameKey, label string, parents *Collection[P], name func(P) string) (domain.Patch, error) {
	if !p.Has(idKey) {
		return p, nil
	}
	id, ok := p.String(idKey)
	if !ok {
		return p, fmt.Errorf("%s must be a string", idKey)
	}
	n, err := parentName(parents, id, label, name)
	if err != nil {
		return p, err
	}
	out := p.Without()
	out[nameKey] = n
	return out, nil
}
