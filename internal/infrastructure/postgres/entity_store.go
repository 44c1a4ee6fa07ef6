package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/my-maps-api/internal/domain/store"
)

const uniqueViolation = "23505"

// DBTX is the subset of pgxpool.Pool the entity store needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EntityStore keeps entities in a single JSONB table. Each row stores the
// full path of its parent key so ancestor queries match every descendant.
type EntityStore struct {
	db DBTX
}

func NewEntityStore(db DBTX) *EntityStore {
	return &EntityStore{db: db}
}

func (s *EntityStore) Insert(ctx context.Context, key *store.Key, props store.Properties) (*store.Key, error) {
	data, err := json.Marshal(store.Normalize(props))
	if err != nil {
		return nil, fmt.Errorf("postgres insert %s: encode: %w", key, err)
	}
	parent := key.Parent.String()

	var row pgx.Row
	if key.Incomplete() {
		row = s.db.QueryRow(ctx, `
			INSERT INTO entities (kind, parent_path, data)
			VALUES ($1, $2, $3)
			RETURNING id
		`, key.Kind, parent, data)
	} else {
		row = s.db.QueryRow(ctx, `
			INSERT INTO entities (kind, id, parent_path, data)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, key.Kind, key.ID, parent, data)
	}

	var id int64
	if err := row.Scan(&id); err != nil {
		return nil, fmt.Errorf("postgres insert %s: %w", key, classify(err))
	}
	return store.NewKey(key.Kind, id, key.Parent), nil
}

func (s *EntityStore) Update(ctx context.Context, key *store.Key, props store.Properties) error {
	if key.Incomplete() {
		return fmt.Errorf("postgres update: %w", store.ErrNotFound)
	}
	data, err := json.Marshal(store.Normalize(props))
	if err != nil {
		return fmt.Errorf("postgres update %s: encode: %w", key, err)
	}
	res, err := s.db.Exec(ctx, `
		UPDATE entities
		SET data = $1, updated_at = now()
		WHERE kind = $2 AND id = $3 AND parent_path = $4
	`, data, key.Kind, key.ID, key.Parent.String())
	if err != nil {
		return fmt.Errorf("postgres update %s: %w", key, classify(err))
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("postgres update %s: %w", key, store.ErrNotFound)
	}
	return nil
}

func (s *EntityStore) Query(ctx context.Context, q store.Query) ([]store.Entity, error) {
	sql, args, err := buildSelect(q)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres query %s: %w", q.Kind, classify(err))
	}
	defer rows.Close()

	out := make([]store.Entity, 0)
	for rows.Next() {
		var (
			id     int64
			parent string
			data   []byte
		)
		if err := rows.Scan(&id, &parent, &data); err != nil {
			return nil, fmt.Errorf("postgres query %s: %w", q.Kind, classify(err))
		}
		props, err := decodeProps(data)
		if err != nil {
			return nil, fmt.Errorf("postgres query %s: decode: %w", q.Kind, err)
		}
		pk, err := parsePath(parent)
		if err != nil {
			return nil, fmt.Errorf("postgres query %s: %w", q.Kind, err)
		}
		out = append(out, store.Entity{Key: store.NewKey(q.Kind, id, pk), Properties: props})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres query %s: %w", q.Kind, classify(err))
	}
	return out, nil
}

func buildSelect(q store.Query) (string, []any, error) {
	var sb strings.Builder
	args := []any{q.Kind}
	sb.WriteString("SELECT id, parent_path, data FROM entities WHERE kind = $1")

	if q.Ancestor != nil {
		path := q.Ancestor.String()
		args = append(args, path, escapeLike(path)+"/%")
		fmt.Fprintf(&sb, " AND (parent_path = $%d OR parent_path LIKE $%d)", len(args)-1, len(args))
	}
	for _, f := range q.Filters {
		if f.Op != store.OpEqual {
			return "", nil, fmt.Errorf("postgres query %s: %q: %w", q.Kind, f.Op, store.ErrUnsupportedFilter)
		}
		v, err := json.Marshal(store.NormalizeValue(f.Value))
		if err != nil {
			return "", nil, fmt.Errorf("postgres query %s: encode filter %s: %w", q.Kind, f.Field, err)
		}
		args = append(args, f.Field, string(v))
		fmt.Fprintf(&sb, " AND data -> $%d = $%d::jsonb", len(args)-1, len(args))
	}
	sb.WriteString(" ORDER BY id")
	return sb.String(), args, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// parsePath turns "user/42/timeline/7" back into a key chain.
func parsePath(path string) (*store.Key, error) {
	if path == "" {
		return nil, nil
	}
	parts := strings.Split(path, "/")
	if len(parts)%2 != 0 {
		return nil, fmt.Errorf("malformed key path %q", path)
	}
	var k *store.Key
	for i := 0; i < len(parts); i += 2 {
		id, err := strconv.ParseInt(parts[i+1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed key path %q: %w", path, err)
		}
		k = store.NewKey(parts[i], id, k)
	}
	return k, nil
}

func decodeProps(data []byte) (store.Properties, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return store.Normalize(raw), nil
}

func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %w", store.ErrDuplicateKey, err)
	}
	return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
}

var _ store.EntityStore = (*EntityStore)(nil)
