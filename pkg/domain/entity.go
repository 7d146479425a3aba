package domain

import (
	"encoding/json"
	"fmt"
)

// Entity is a record held by a domain store.
type Entity interface {
	EntityID() string
}

// Patch is a partial update keyed by JSON field name.
type Patch map[string]any

// Without returns a copy of p with the given keys removed.
func (p Patch) Without(keys ...string) Patch {
	out := make(Patch, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Has reports whether the patch sets key.
func (p Patch) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns the patch value for key when it is a string.
func (p Patch) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// MergeMap flattens base to its JSON object form and overlays p on it.
func MergeMap(base any, p Patch) (map[string]any, error) {
	raw, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("domain.MergeMap: marshal base: %w", err)
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("domain.MergeMap: base is not an object: %w", err)
	}
	for k, v := range p {
		m[k] = v
	}
	return m, nil
}

// Merge applies p over base with the semantics of {...base, ...p}. Keys the
// target type does not know are dropped.
func Merge[T any](base T, p Patch) (T, error) {
	var out T
	m, err := MergeMap(base, p)
	if err != nil {
		return out, err
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return out, fmt.Errorf("domain.Merge: marshal: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("domain.Merge: %w", err)
	}
	return out, nil
}
