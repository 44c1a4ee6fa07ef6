package datastore

import (
	"context"
	"errors"
	"fmt"

	gds "cloud.google.com/go/datastore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oksasatya/my-maps-api/internal/domain/store"
)

// Datastore rejects indexed string values above this size.
const maxIndexedBytes = 1500

type EntityStore struct {
	client *gds.Client
}

func NewEntityStore(client *gds.Client) *EntityStore {
	return &EntityStore{client: client}
}

func (s *EntityStore) Insert(ctx context.Context, key *store.Key, props store.Properties) (*store.Key, error) {
	pl := toPropertyList(props)
	keys, err := s.client.Mutate(ctx, gds.NewInsert(toDSKey(key), &pl))
	if err != nil {
		return nil, fmt.Errorf("datastore insert %s: %w", key, classify(err))
	}
	if len(keys) == 0 || keys[0] == nil {
		return key, nil
	}
	return fromDSKey(keys[0]), nil
}

func (s *EntityStore) Update(ctx context.Context, key *store.Key, props store.Properties) error {
	if key.Incomplete() {
		return fmt.Errorf("datastore update: %w", store.ErrNotFound)
	}
	pl := toPropertyList(props)
	if _, err := s.client.Mutate(ctx, gds.NewUpdate(toDSKey(key), &pl)); err != nil {
		return fmt.Errorf("datastore update %s: %w", key, classify(err))
	}
	return nil
}

func (s *EntityStore) Query(ctx context.Context, q store.Query) ([]store.Entity, error) {
	dq, err := toDSQuery(q)
	if err != nil {
		return nil, err
	}
	var rows []gds.PropertyList
	keys, err := s.client.GetAll(ctx, dq, &rows)
	if err != nil {
		return nil, fmt.Errorf("datastore query %s: %w", q.Kind, classify(err))
	}
	out := make([]store.Entity, 0, len(keys))
	for i, k := range keys {
		out = append(out, store.Entity{Key: fromDSKey(k), Properties: fromPropertyList(rows[i])})
	}
	return out, nil
}

func toDSQuery(q store.Query) (*gds.Query, error) {
	dq := gds.NewQuery(q.Kind)
	for _, f := range q.Filters {
		if f.Op != store.OpEqual {
			return nil, fmt.Errorf("datastore query %s: %q: %w", q.Kind, f.Op, store.ErrUnsupportedFilter)
		}
		dq = dq.FilterField(f.Field, f.Op, store.NormalizeValue(f.Value))
	}
	if q.Ancestor != nil {
		dq = dq.Ancestor(toDSKey(q.Ancestor))
	}
	return dq, nil
}

func toDSKey(k *store.Key) *gds.Key {
	if k == nil {
		return nil
	}
	parent := toDSKey(k.Parent)
	if k.Incomplete() {
		return gds.IncompleteKey(k.Kind, parent)
	}
	return gds.IDKey(k.Kind, k.ID, parent)
}

func fromDSKey(k *gds.Key) *store.Key {
	if k == nil {
		return nil
	}
	return &store.Key{Kind: k.Kind, ID: k.ID, Parent: fromDSKey(k.Parent)}
}

func toPropertyList(p store.Properties) gds.PropertyList {
	pl := make(gds.PropertyList, 0, len(p))
	for name, v := range store.Normalize(p) {
		prop := gds.Property{Name: name, Value: v}
		if s, ok := v.(string); ok && len(s) > maxIndexedBytes {
			prop.NoIndex = true
		}
		pl = append(pl, prop)
	}
	return pl
}

func fromPropertyList(pl gds.PropertyList) store.Properties {
	out := make(store.Properties, len(pl))
	for _, p := range pl {
		out[p.Name] = p.Value
	}
	return out
}

// classify maps client and gRPC errors onto the store sentinels.
func classify(err error) error {
	var multi gds.MultiError
	if errors.As(err, &multi) {
		for _, e := range multi {
			if e != nil {
				err = e
				break
			}
		}
	}
	if errors.Is(err, gds.ErrNoSuchEntity) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}
	switch status.Code(err) {
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %w", store.ErrDuplicateKey, err)
	case codes.NotFound:
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}
	return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
}

var _ store.EntityStore = (*EntityStore)(nil)
