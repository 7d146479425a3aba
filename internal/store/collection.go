// Package store holds the in-memory domain collections the admin screens work
// on. Each collection mirrors one backend resource and snapshots itself to
// durable storage after every successful change.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/offybox/offyadmin/internal/storage"
	"github.com/offybox/offyadmin/pkg/client"
	"github.com/offybox/offyadmin/pkg/domain"
)

// ErrNotFound is returned when an id is not in the collection.
var ErrNotFound = errors.New("store: record not found")

// Doer sends a request through the authenticated pipeline.
type Doer interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// UpdateStyle is how a backend accepts updates.
type UpdateStyle int

const (
	// UpdatePut sends the patch as PUT path/{id}.
	UpdatePut UpdateStyle = iota
	// UpdatePatch sends the patch as PATCH path/{id}.
	UpdatePatch
	// UpdatePostWithID posts the full record, id included, to path.
	UpdatePostWithID
)

// Resource describes one backend collection.
type Resource struct {
	Name       string
	Path       string
	StorageKey string
	Update     UpdateStyle
	// Local resources never touch the backend.
	Local bool
}

// Hooks customise a collection per entity.
type Hooks[T domain.Entity] struct {
	// Prepare runs on every draft before validation.
	Prepare func(draft T) (T, error)
	// PreparePatch runs on every patch before it is sent or merged.
	PreparePatch func(p domain.Patch) (domain.Patch, error)
	// UpdateBody builds the request body for an update. Defaults to the patch.
	UpdateBody func(existing T, p domain.Patch) (any, error)
	// OnLocalCreate and OnLocalUpdate stamp records kept without a backend.
	OnLocalCreate func(rec T, now time.Time) T
	OnLocalUpdate func(rec T, now time.Time) T
}

// Collection is the generic domain store.
type Collection[T domain.Entity] struct {
	res   Resource
	api   Doer
	kv    storage.KV
	log   *zap.Logger
	hooks Hooks[T]
	now   func() time.Time

	mu      sync.Mutex
	items   []T
	loading bool
	errMsg  string
}

func NewCollection[T domain.Entity](res Resource, api Doer, kv storage.KV, log *zap.Logger, hooks Hooks[T]) *Collection[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collection[T]{
		res:   res,
		api:   api,
		kv:    kv,
		log:   log.With(zap.String("store", res.Name)),
		hooks: hooks,
		now:   time.Now,
		items: []T{},
	}
}

// Name returns the resource name.
func (c *Collection[T]) Name() string { return c.res.Name }

// Local reports whether the collection is kept without a backend.
func (c *Collection[T]) Local() bool { return c.res.Local || c.api == nil }

// List returns a copy of the collection.
func (c *Collection[T]) List() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Get returns the record with id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Loading reports whether an operation is in flight.
func (c *Collection[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the message of the last failed operation, "" after a success.
func (c *Collection[T]) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// FetchAll replaces the collection with the backend's. On failure the
// current records are kept.
func (c *Collection[T]) FetchAll(ctx context.Context) error {
	c.begin()
	if c.Local() {
		c.succeed(ctx, nil)
		return nil
	}
	var items []T
	if err := c.api.Do(ctx, http.MethodGet, c.res.Path, nil, (*listResponse[T])(&items)); err != nil {
		return c.fail("FetchAll", err)
	}
	if items == nil {
		items = []T{}
	}
	c.succeed(ctx, func() { c.items = items })
	return nil
}

// Create validates draft and adds it. Remote resources append the backend's
// record; local ones get a timestamp id.
func (c *Collection[T]) Create(ctx context.Context, draft T) (T, error) {
	var zero T
	c.begin()
	var err error
	if c.hooks.Prepare != nil {
		if draft, err = c.hooks.Prepare(draft); err != nil {
			return zero, c.fail("Create", client.NewValidationError(err))
		}
	}
	if err := domain.Validate(draft); err != nil {
		return zero, c.fail("Create", client.NewValidationError(err))
	}

	if c.Local() {
		now := c.now()
		rec, err := domain.Merge(draft, domain.Patch{"id": c.nextLocalID(now)})
		if err != nil {
			return zero, c.fail("Create", err)
		}
		if c.hooks.OnLocalCreate != nil {
			rec = c.hooks.OnLocalCreate(rec, now)
		}
		c.succeed(ctx, func() { c.items = append(c.items, rec) })
		return rec, nil
	}

	var created T
	if err := c.api.Do(ctx, http.MethodPost, c.res.Path, draft, &created); err != nil {
		return zero, c.fail("Create", err)
	}
	// The backend assigns ids, so an empty body leaves nothing to add.
	if created.EntityID() == "" {
		return zero, c.fail("Create", &client.Error{Kind: client.KindServer, Message: "create response carried no record"})
	}
	c.succeed(ctx, func() { c.items = append(c.items, created) })
	return created, nil
}

// Update applies patch to the record with id. Remote resources replace the
// record with the backend's representation; local ones merge in place.
func (c *Collection[T]) Update(ctx context.Context, id string, patch domain.Patch) (T, error) {
	var zero T
	c.begin()
	existing, ok := c.Get(id)
	if !ok {
		return zero, c.fail("Update", fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	patch = patch.Without("id")
	var err error
	if c.hooks.PreparePatch != nil {
		if patch, err = c.hooks.PreparePatch(patch); err != nil {
			return zero, c.fail("Update", client.NewValidationError(err))
		}
	}
	merged, err := domain.Merge(existing, patch)
	if err != nil {
		return zero, c.fail("Update", client.NewValidationError(err))
	}
	if err := domain.Validate(merged); err != nil {
		return zero, c.fail("Update", client.NewValidationError(err))
	}

	if c.Local() {
		if c.hooks.OnLocalUpdate != nil {
			merged = c.hooks.OnLocalUpdate(merged, c.now())
		}
		c.succeed(ctx, func() { c.replace(id, merged) })
		return merged, nil
	}

	body := any(patch)
	if c.hooks.UpdateBody != nil {
		if body, err = c.hooks.UpdateBody(existing, patch); err != nil {
			return zero, c.fail("Update", err)
		}
	}
	method, path := http.MethodPut, c.res.Path+"/"+url.PathEscape(id)
	switch c.res.Update {
	case UpdatePatch:
		method = http.MethodPatch
	case UpdatePostWithID:
		method, path = http.MethodPost, c.res.Path
	}
	var updated T
	if err := c.api.Do(ctx, method, path, body, &updated); err != nil {
		return zero, c.fail("Update", err)
	}
	// Some backends answer an update with an empty body.
	if updated.EntityID() == "" {
		updated = merged
	}
	c.succeed(ctx, func() { c.replace(id, updated) })
	return updated, nil
}

// Delete removes the record with id.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.begin()
	if _, ok := c.Get(id); !ok && c.Local() {
		return c.fail("Delete", fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	if !c.Local() {
		if err := c.api.Do(ctx, http.MethodDelete, c.res.Path+"/"+url.PathEscape(id), nil, nil); err != nil {
			return c.fail("Delete", err)
		}
	}
	c.succeed(ctx, func() {
		c.items = slices.DeleteFunc(c.items, func(it T) bool { return it.EntityID() == id })
	})
	return nil
}

// RemoveWhere drops every record matching fn without contacting the backend
// and returns how many were removed.
func (c *Collection[T]) RemoveWhere(ctx context.Context, fn func(T) bool) int {
	c.mu.Lock()
	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, fn)
	removed := before - len(c.items)
	c.mu.Unlock()
	if removed > 0 {
		c.persist(ctx)
	}
	return removed
}

// Load rehydrates the collection from its snapshot. A missing snapshot leaves
// it empty.
func (c *Collection[T]) Load(ctx context.Context) error {
	if c.kv == nil {
		return nil
	}
	data, err := c.kv.Get(ctx, c.res.StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store.%s.Load: %w", c.res.Name, err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("store.%s.Load: decode: %w", c.res.Name, err)
	}
	if items == nil {
		items = []T{}
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

// Save writes the collection's snapshot.
func (c *Collection[T]) Save(ctx context.Context) error {
	if c.kv == nil {
		return nil
	}
	c.mu.Lock()
	data, err := json.Marshal(c.items)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("store.%s.Save: encode: %w", c.res.Name, err)
	}
	if err := c.kv.Put(ctx, c.res.StorageKey, data); err != nil {
		return fmt.Errorf("store.%s.Save: %w", c.res.Name, err)
	}
	return nil
}

func (c *Collection[T]) begin() {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()
}

// succeed applies mutate, clears the loading flag and error, then snapshots.
func (c *Collection[T]) succeed(ctx context.Context, mutate func()) {
	c.mu.Lock()
	if mutate != nil {
		mutate()
	}
	c.loading = false
	c.errMsg = ""
	c.mu.Unlock()
	if mutate != nil {
		c.persist(ctx)
	}
}

// fail records err for display and leaves the records as they were.
func (c *Collection[T]) fail(op string, err error) error {
	c.mu.Lock()
	c.loading = false
	c.errMsg = client.Message(err)
	c.mu.Unlock()
	c.log.Warn("store operation failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("store.%s.%s: %w", c.res.Name, op, err)
}

func (c *Collection[T]) persist(ctx context.Context) {
	if err := c.Save(ctx); err != nil {
		c.log.Warn("persist snapshot", zap.Error(err))
	}
}

func (c *Collection[T]) replace(id string, rec T) {
	if i := c.indexOf(id); i >= 0 {
		c.items[i] = rec
		return
	}
	c.items = append(c.items, rec)
}

// indexOf must be called with mu held.
func (c *Collection[T]) indexOf(id string) int {
	return slices.IndexFunc(c.items, func(it T) bool { return it.EntityID() == id })
}

// nextLocalID returns a millisecond timestamp id not yet in use.
func (c *Collection[T]) nextLocalID(now time.Time) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ms := now.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if c.indexOf(id) < 0 {
			return id
		}
		ms++
	}
}

// listResponse decodes either a bare JSON array or a {"data": [...]} envelope.
type listResponse[T any] []T

func (l *listResponse[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("[")) || bytes.Equal(data, []byte("null")) {
		return json.Unmarshal(data, (*[]T)(l))
	}
	var env struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	*l = env.Data
	return nil
}
