package store

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/offybox/offyadmin/internal/storage"
	"github.com/offybox/offyadmin/pkg/domain"
)

// Set is every domain store the application works with.
type Set struct {
	Tenants   *Tenants
	Locations *Locations
	Modules   *Collection[domain.Module]
	Tickets   *Collection[domain.Ticket]
	Users     *Users
}

// Count is the size of one collection.
type Count struct {
	Name string
	N    int
}

// NewSet wires every store. local names resources kept without a backend;
// a nil api makes every resource local.
func NewSet(api API, kv storage.KV, log *zap.Logger, local map[string]bool) *Set {
	var doer Doer
	if api != nil {
		doer = api
	}
	tenants := NewTenants(doer, kv, log, local)
	return &Set{
		Tenants:   tenants,
		Locations: NewLocations(doer, kv, log, local),
		Modules:   NewModules(doer, kv, log, local),
		Tickets:   NewTickets(doer, kv, log, tenants, local),
		Users:     NewUsers(api, kv, log, local),
	}
}

type persister interface {
	Name() string
	Load(ctx context.Context) error
	Save(ctx context.Context) error
	FetchAll(ctx context.Context) error
	Len() int
}

func (s *Set) all() []persister {
	return []persister{
		s.Tenants.Collection,
		s.Tenants.Mappings,
		s.Locations.Countries,
		s.Locations.States,
		s.Locations.Cities,
		s.Locations.Areas,
		s.Modules,
		s.Tickets,
		s.Users.Collection,
	}
}

// LoadAll rehydrates every store from its snapshot.
func (s *Set) LoadAll(ctx context.Context) error {
	var errs []error
	for _, p := range s.all() {
		if err := p.Load(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SaveAll snapshots every store.
func (s *Set) SaveAll(ctx context.Context) error {
	var errs []error
	for _, p := range s.all() {
		if err := p.Save(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FetchAll refreshes every store, parents before children so cached parent
// names resolve.
func (s *Set) FetchAll(ctx context.Context) error {
	var errs []error
	for _, p := range s.all() {
		if err := p.FetchAll(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Counts reports the size of every collection, in display order.
func (s *Set) Counts() []Count {
	all := s.all()
	out := make([]Count, 0, len(all))
	for _, p := range all {
		out = append(out, Count{Name: p.Name(), N: p.Len()})
	}
	return out
}

// ParseLocal turns a list of resource names into a lookup set.
func ParseLocal(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		if n != "" {
			out[n] = true
		}
	}
	return out
}
