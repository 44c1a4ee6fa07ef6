package store

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

var (
	ErrNotFound          = errors.New("entity not found")
	ErrDuplicateKey      = errors.New("entity key already exists")
	ErrUnavailable       = errors.New("entity store unavailable")
	ErrUnsupportedFilter = errors.New("unsupported filter operator")
	ErrBlobWrite         = errors.New("blob write failed")
)

// OpEqual is the only filter operator the backends are required to support.
const OpEqual = "="

// Key identifies an entity. A zero ID marks an incomplete key whose id is
// assigned by the store on insert.
type Key struct {
	Kind   string
	ID     int64
	Parent *Key
}

// NewKey builds a complete key, optionally nested under parent.
func NewKey(kind string, id int64, parent *Key) *Key {
	return &Key{Kind: kind, ID: id, Parent: parent}
}

// IncompleteKey builds a key the store will assign an id to.
func IncompleteKey(kind string, parent *Key) *Key {
	return &Key{Kind: kind, Parent: parent}
}

func (k *Key) Incomplete() bool { return k == nil || k.ID == 0 }

// Equal compares the full ancestor path.
func (k *Key) Equal(o *Key) bool {
	if k == nil || o == nil {
		return k == o
	}
	return k.Kind == o.Kind && k.ID == o.ID && k.Parent.Equal(o.Parent)
}

// HasAncestor reports whether a is k itself or one of its parents.
func (k *Key) HasAncestor(a *Key) bool {
	for cur := k; cur != nil; cur = cur.Parent {
		if cur.Equal(a) {
			return true
		}
	}
	return false
}

// String renders the path as kind/id segments, e.g. "user/42/timeline/7".
func (k *Key) String() string {
	if k == nil {
		return ""
	}
	seg := k.Kind + "/" + strconv.FormatInt(k.ID, 10)
	if k.Parent == nil {
		return seg
	}
	return k.Parent.String() + "/" + seg
}

// Properties is the field set of an entity.
type Properties map[string]any

type Entity struct {
	Key        *Key
	Properties Properties
}

type Filter struct {
	Field string
	Op    string
	Value any
}

type Query struct {
	Kind     string
	Filters  []Filter
	Ancestor *Key
}

// NewQuery starts a query over kind.
func NewQuery(kind string) Query { return Query{Kind: kind} }

// Filter appends an equality-style filter; op is validated by the backend.
func (q Query) Filter(field, op string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: strings.TrimSpace(op), Value: value})
	return q
}

// WithAncestor scopes the query to entities under key.
func (q Query) WithAncestor(key *Key) Query {
	q.Ancestor = key
	return q
}

// EntityStore is the hierarchical key/value store the repositories persist into.
type EntityStore interface {
	// Insert creates the entity and returns its (possibly newly assigned) key.
	Insert(ctx context.Context, key *Key, props Properties) (*Key, error)
	// Update replaces every property of an existing entity.
	Update(ctx context.Context, key *Key, props Properties) error
	Query(ctx context.Context, q Query) ([]Entity, error)
}

// BlobStore holds binary objects addressable by a public URL.
type BlobStore interface {
	Write(ctx context.Context, name string, data []byte, contentType string) error
	PublicURL(name string) string
}
