package store

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/offybox/offyadmin/internal/storage"
	"github.com/offybox/offyadmin/pkg/client"
	"github.com/offybox/offyadmin/pkg/domain"
)

// API is the backend surface the stores need. Account creation has its own
// call because the pipeline treats its 401 as a rejection, not an expiry.
type API interface {
	Doer
	CreateUser(ctx context.Context, p domain.UserProfile) (*domain.SupportUser, error)
}

// Users is the support-team store. The backend takes updates as a full
// record posted to the collection path; a "password" key in the update patch
// is passed through to that body.
type Users struct {
	*Collection[domain.SupportUser]
	api API

	currentMu sync.Mutex
	current   *domain.SupportUser
}

func NewUsers(api API, kv storage.KV, log *zap.Logger, local map[string]bool) *Users {
	var doer Doer
	if api != nil {
		doer = api
	}
	u := &Users{api: api}
	u.Collection = NewCollection(Resource{
		Name:       "users",
		Path:       "/support/users",
		StorageKey: "user-storage",
		Update:     UpdatePostWithID,
		Local:      local["users"],
	}, doer, kv, log, Hooks[domain.SupportUser]{
		UpdateBody: func(existing domain.SupportUser, p domain.Patch) (any, error) {
			body, err := domain.MergeMap(existing, p.Without("created_at", "updated_at"))
			if err != nil {
				return nil, err
			}
			// An empty password keeps the current one.
			if pw, ok := body["password"].(string); ok && pw == "" {
				delete(body, "password")
			}
			body["id"] = existing.ID
			return body, nil
		},
	})
	return u
}

// CreateProfile registers a new support user and adds it to the list.
func (u *Users) CreateProfile(ctx context.Context, p domain.UserProfile) (domain.SupportUser, error) {
	if p.Status == "" {
		p.Status = domain.UserActive
	}
	p.Email = strings.TrimSpace(p.Email)
	if err := domain.Validate(p); err != nil {
		u.begin()
		return domain.SupportUser{}, u.fail("Create", client.NewValidationError(err))
	}
	if u.Local() {
		return u.Collection.Create(ctx, domain.SupportUser{
			FirstName: p.FirstName, LastName: p.LastName, Email: p.Email, Phone: p.Phone, Status: p.Status,
		})
	}

	u.begin()
	created, err := u.api.CreateUser(ctx, p)
	if err != nil {
		return domain.SupportUser{}, u.fail("Create", err)
	}
	u.succeed(ctx, func() { u.items = append(u.items, *created) })
	return *created, nil
}

// FetchByID loads one user into CurrentUser and refreshes it in the list.
func (u *Users) FetchByID(ctx context.Context, id string) (domain.SupportUser, error) {
	u.begin()
	if u.Local() {
		rec, ok := u.Get(id)
		if !ok {
			return rec, u.fail("FetchByID", fmt.Errorf("%w: %s", ErrNotFound, id))
		}
		u.setCurrent(rec)
		u.succeed(ctx, nil)
		return rec, nil
	}
	var rec domain.SupportUser
	if err := u.api.Do(ctx, http.MethodGet, u.res.Path+"/"+url.PathEscape(id), nil, &rec); err != nil {
		return rec, u.fail("FetchByID", err)
	}
	u.setCurrent(rec)
	u.succeed(ctx, func() { u.replace(id, rec) })
	return rec, nil
}

// CurrentUser returns the user last loaded by FetchByID.
func (u *Users) CurrentUser() (domain.SupportUser, bool) {
	u.currentMu.Lock()
	defer u.currentMu.Unlock()
	if u.current == nil {
		return domain.SupportUser{}, false
	}
	return *u.current, true
}

func (u *Users) setCurrent(rec domain.SupportUser) {
	u.currentMu.Lock()
	u.current = &rec
	u.currentMu.Unlock()
}

// ToggleStatus flips a user between ACTIVE and INACTIVE.
func (u *Users) ToggleStatus(ctx context.Context, id string) (domain.SupportUser, error) {
	existing, ok := u.Get(id)
	if !ok {
		u.begin()
		return existing, u.fail("ToggleStatus", fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	next := domain.UserInactive
	if existing.Status != domain.UserActive {
		next = domain.UserActive
	}
	if u.Local() {
		return u.Update(ctx, id, domain.Patch{"status": next})
	}

	u.begin()
	var rec domain.SupportUser
	if err := u.api.Do(ctx, http.MethodPatch, u.res.Path+"/"+url.PathEscape(id), domain.Patch{"status": next}, &rec); err != nil {
		return existing, u.fail("ToggleStatus", err)
	}
	if rec.ID == "" {
		rec = existing
		rec.Status = next
	}
	u.succeed(ctx, func() { u.replace(id, rec) })
	return rec, nil
}
