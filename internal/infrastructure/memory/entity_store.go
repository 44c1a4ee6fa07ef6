package memory

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/oksasatya/my-maps-api/internal/domain/store"
)

type record struct {
	key   *store.Key
	props store.Properties
}

// EntityStore is a process-local store.EntityStore. Query results come back
// in insertion order.
type EntityStore struct {
	mu     sync.RWMutex
	nextID int64
	order  []string
	byKey  map[string]*record
}

func NewEntityStore() *EntityStore {
	return &EntityStore{byKey: make(map[string]*record)}
}

func (s *EntityStore) Insert(_ context.Context, key *store.Key, props store.Properties) (*store.Key, error) {
	if key == nil || key.Kind == "" {
		return nil, fmt.Errorf("insert: invalid key %q", key.String())
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	k := copyKey(key)
	if k.Incomplete() {
		s.nextID++
		k.ID = s.nextID
	} else if _, ok := s.byKey[k.String()]; ok {
		return nil, fmt.Errorf("insert %s: %w", k, store.ErrDuplicateKey)
	} else if k.ID > s.nextID {
		s.nextID = k.ID
	}
	s.byKey[k.String()] = &record{key: k, props: store.Normalize(props)}
	s.order = append(s.order, k.String())
	return copyKey(k), nil
}

func (s *EntityStore) Update(_ context.Context, key *store.Key, props store.Properties) error {
	if key.Incomplete() {
		return fmt.Errorf("update: %w", store.ErrNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byKey[key.String()]
	if !ok {
		return fmt.Errorf("update %s: %w", key, store.ErrNotFound)
	}
	rec.props = store.Normalize(props)
	return nil
}

func (s *EntityStore) Query(_ context.Context, q store.Query) ([]store.Entity, error) {
	for _, f := range q.Filters {
		if f.Op != store.OpEqual {
			return nil, fmt.Errorf("query %s: %q: %w", q.Kind, f.Op, store.ErrUnsupportedFilter)
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Entity, 0)
	for _, id := range s.order {
		rec := s.byKey[id]
		if rec.key.Kind != q.Kind {
			continue
		}
		if q.Ancestor != nil && !rec.key.HasAncestor(q.Ancestor) {
			continue
		}
		if !matches(rec.props, q.Filters) {
			continue
		}
		out = append(out, store.Entity{Key: copyKey(rec.key), Properties: copyProps(rec.props)})
	}
	return out, nil
}

func matches(p store.Properties, filters []store.Filter) bool {
	for _, f := range filters {
		v, ok := p[f.Field]
		if !ok || !reflect.DeepEqual(v, store.NormalizeValue(f.Value)) {
			return false
		}
	}
	return true
}

func copyKey(k *store.Key) *store.Key {
	if k == nil {
		return nil
	}
	return &store.Key{Kind: k.Kind, ID: k.ID, Parent: copyKey(k.Parent)}
}

func copyProps(p store.Properties) store.Properties {
	out := make(store.Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

var _ store.EntityStore = (*EntityStore)(nil)
