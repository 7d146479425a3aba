package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/offybox/offyadmin/internal/session"
	"github.com/offybox/offyadmin/internal/store"
	"github.com/offybox/offyadmin/pkg/domain"
)

// column is one list column.
type column struct {
	title string
	width int
}

// row is one rendered list line plus the id it stands for.
type row struct {
	id     string
	cells  []string
	status string
}

// resource adapts one domain store to the list and form screens.
type resource interface {
	name() string
	title() string
	columns() []column
	rows() []row
	fields(editing bool) []formField
	values(id string) map[string]string
	fetch(ctx context.Context) error
	create(ctx context.Context, values map[string]string) error
	update(ctx context.Context, id string, patch domain.Patch) error
	remove(ctx context.Context, id string) error
	loading() bool
	errMsg() string
}

// collectionResource is the generic resource over a store.Collection.
type collectionResource[T domain.Entity] struct {
	label  string
	coll   *store.Collection[T]
	cols   []column
	toRow  func(T) row
	form   []formField
	editOf func(editing bool, fields []formField) []formField

	createFn func(ctx context.Context, draft T) error
	removeFn func(ctx context.Context, id string) error
}

func (r *collectionResource[T]) name() string      { return r.coll.Name() }
func (r *collectionResource[T]) title() string     { return r.label }
func (r *collectionResource[T]) columns() []column { return r.cols }
func (r *collectionResource[T]) loading() bool     { return r.coll.Loading() }
func (r *collectionResource[T]) errMsg() string    { return r.coll.Err() }

func (r *collectionResource[T]) rows() []row {
	items := r.coll.List()
	out := make([]row, 0, len(items))
	for _, it := range items {
		out = append(out, r.toRow(it))
	}
	return out
}

func (r *collectionResource[T]) fields(editing bool) []formField {
	if r.editOf != nil {
		return r.editOf(editing, r.form)
	}
	return r.form
}

// values returns the record's fields as strings keyed by JSON name.
func (r *collectionResource[T]) values(id string) map[string]string {
	rec, ok := r.coll.Get(id)
	if !ok {
		return nil
	}
	m, err := domain.MergeMap(rec, nil)
	if err != nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}

func (r *collectionResource[T]) fetch(ctx context.Context) error {
	return r.coll.FetchAll(ctx)
}

func (r *collectionResource[T]) create(ctx context.Context, values map[string]string) error {
	var zero T
	draft, err := domain.Merge(zero, toPatch(values))
	if err != nil {
		return err
	}
	if r.createFn != nil {
		return r.createFn(ctx, draft)
	}
	_, err = r.coll.Create(ctx, draft)
	return err
}

func (r *collectionResource[T]) update(ctx context.Context, id string, patch domain.Patch) error {
	_, err := r.coll.Update(ctx, id, patch)
	return err
}

func (r *collectionResource[T]) remove(ctx context.Context, id string) error {
	if r.removeFn != nil {
		return r.removeFn(ctx, id)
	}
	return r.coll.Delete(ctx, id)
}

func toPatch(values map[string]string) domain.Patch {
	p := make(domain.Patch, len(values))
	for k, v := range values {
		p[k] = v
	}
	return p
}

// changed returns the fields whose value differs from before.
func changed(before, after map[string]string) domain.Patch {
	p := domain.Patch{}
	for k, v := range after {
		if before[k] != v {
			p[k] = v
		}
	}
	return p
}

// usersResource adds account creation and status toggling.
type usersResource struct {
	*collectionResource[domain.SupportUser]
	users *store.Users
}

func (r *usersResource) create(ctx context.Context, values map[string]string) error {
	_, err := r.users.CreateProfile(ctx, domain.UserProfile{
		FirstName: values["first_name"],
		LastName:  values["last_name"],
		Email:     values["email"],
		Phone:     values["phone"],
		Password:  values["password"],
		Status:    values["status"],
	})
	return err
}

func (r *usersResource) toggle(ctx context.Context, id string) error {
	_, err := r.users.ToggleStatus(ctx, id)
	return err
}

// toggler is implemented by resources whose records can be switched on and off.
type toggler interface {
	toggle(ctx context.Context, id string) error
}

var statusField = formField{key: "status", label: "status", options: domain.RecordStatuses}

// newResources builds the nine list screens in tab order.
func newResources(set *store.Set) []resource {
	tenants := set.Tenants
	loc := set.Locations

	return []resource{
		&collectionResource[domain.Tenant]{
			label: "Tenants",
			coll:  tenants.Collection,
			cols:  []column{{"name", 22}, {"domain", 24}, {"status", 9}, {"created", 10}},
			toRow: func(t domain.Tenant) row {
				return row{id: t.ID, cells: []string{t.Name, t.Domain, t.Status, t.CreatedAt}, status: t.Status}
			},
			form: []formField{
				{key: "name", label: "name"},
				{key: "domain", label: "domain"},
				{key: "description", label: "description", optional: true},
				statusField,
			},
			removeFn: tenants.Delete,
		},
		&collectionResource[domain.TenantMapping]{
			label: "Tenant mappings",
			coll:  tenants.Mappings,
			cols:  []column{{"tenant", 20}, {"type", 10}, {"resource id", 18}, {"resource", 20}},
			toRow: func(m domain.TenantMapping) row {
				return row{id: m.ID, cells: []string{m.TenantName, m.ResourceType, m.ResourceID, m.ResourceName}}
			},
			form: []formField{
				{key: "tenantId", label: "tenant id"},
				{key: "resourceType", label: "resource type", options: domain.ResourceTypes},
				{key: "resourceId", label: "resource id"},
				{key: "resourceName", label: "resource name", optional: true},
			},
			createFn: func(ctx context.Context, m domain.TenantMapping) error {
				_, err := tenants.AddMapping(ctx, m)
				return err
			},
			removeFn: tenants.DeleteMapping,
		},
		&collectionResource[domain.Country]{
			label: "Countries",
			coll:  loc.Countries,
			cols:  []column{{"name", 24}, {"code", 6}, {"status", 9}},
			toRow: func(c domain.Country) row {
				return row{id: c.ID, cells: []string{c.Name, c.Code, c.Status}, status: c.Status}
			},
			form: []formField{
				{key: "name", label: "name"},
				{key: "code", label: "code"},
				statusField,
			},
		},
		&collectionResource[domain.State]{
			label: "States",
			coll:  loc.States,
			cols:  []column{{"name", 24}, {"country", 20}, {"status", 9}},
			toRow: func(s domain.State) row {
				return row{id: s.ID, cells: []string{s.Name, s.CountryName, s.Status}, status: s.Status}
			},
			form: []formField{
				{key: "name", label: "name"},
				{key: "countryId", label: "country id"},
				statusField,
			},
		},
		&collectionResource[domain.City]{
			label: "Cities",
			coll:  loc.Cities,
			cols:  []column{{"name", 24}, {"state", 20}, {"status", 9}},
			toRow: func(c domain.City) row {
				return row{id: c.ID, cells: []string{c.Name, c.StateName, c.Status}, status: c.Status}
			},
			form: []formField{
				{key: "name", label: "name"},
				{key: "stateId", label: "state id"},
				statusField,
			},
		},
		&collectionResource[domain.Area]{
			label: "Areas",
			coll:  loc.Areas,
			cols:  []column{{"name", 22}, {"city", 18}, {"pincode", 8}, {"status", 9}},
			toRow: func(a domain.Area) row {
				return row{id: a.ID, cells: []string{a.Name, a.CityName, a.Pincode, a.Status}, status: a.Status}
			},
			form: []formField{
				{key: "name", label: "name"},
				{key: "cityId", label: "city id"},
				{key: "pincode", label: "pincode", optional: true},
				statusField,
			},
		},
		&collectionResource[domain.Module]{
			label: "Modules",
			coll:  set.Modules,
			cols:  []column{{"name", 22}, {"code", 10}, {"status", 9}, {"description", 28}},
			toRow: func(m domain.Module) row {
				return row{id: m.ID, cells: []string{m.Name, m.Code, m.Status, m.Description}, status: m.Status}
			},
			form: []formField{
				{key: "name", label: "name"},
				{key: "code", label: "code"},
				{key: "description", label: "description", optional: true},
				{key: "icon", label: "icon", optional: true},
				statusField,
			},
		},
		&collectionResource[domain.Ticket]{
			label: "Tickets",
			coll:  set.Tickets,
			cols:  []column{{"subject", 28}, {"tenant", 16}, {"status", 11}, {"priority", 8}},
			toRow: func(t domain.Ticket) row {
				return row{id: t.ID, cells: []string{t.Subject, t.TenantName, t.Status, t.Priority}, status: t.Status}
			},
			form: []formField{
				{key: "subject", label: "subject"},
				{key: "description", label: "description", optional: true},
				{key: "tenantId", label: "tenant id", optional: true},
				{key: "status", label: "status", options: domain.TicketStatuses},
				{key: "priority", label: "priority", options: domain.TicketPriorities},
			},
		},
		newUsersResource(set.Users),
	}
}

func newUsersResource(users *store.Users) *usersResource {
	return &usersResource{
		users: users,
		collectionResource: &collectionResource[domain.SupportUser]{
			label: "Support users",
			coll:  users.Collection,
			cols:  []column{{"name", 22}, {"email", 26}, {"phone", 14}, {"status", 9}},
			toRow: func(u domain.SupportUser) row {
				return row{id: u.ID, cells: []string{u.FullName(), u.Email, u.Phone, u.Status}, status: u.Status}
			},
			form: userProfileFields,
			editOf: func(editing bool, fields []formField) []formField {
				if !editing {
					return fields
				}
				// Password changes are not part of an edit.
				out := make([]formField, 0, len(fields))
				for _, f := range fields {
					if f.key != "password" {
						out = append(out, f)
					}
				}
				return out
			},
		},
	}
}

var userProfileFields = []formField{
	{key: "first_name", label: "first name"},
	{key: "last_name", label: "last name"},
	{key: "email", label: "email"},
	{key: "phone", label: "phone", optional: true},
	{key: "password", label: "password", secret: true},
	{key: "status", label: "status", options: domain.UserStatuses},
}

// registerForm is the form behind the register screen.
func registerForm(auth *session.Manager) formDef {
	return formDef{
		id:     "register",
		title:  "Register a support user",
		fields: userProfileFields,
		submit: func(ctx context.Context, v map[string]string) (string, error) {
			u, err := auth.Register(ctx, domain.UserProfile{
				FirstName: v["first_name"],
				LastName:  v["last_name"],
				Email:     v["email"],
				Phone:     v["phone"],
				Password:  v["password"],
				Status:    v["status"],
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("created %s (%s)", strings.TrimSpace(u.FullName()), u.Email), nil
		},
	}
}
