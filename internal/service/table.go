package service

import (
	"context"
	"fmt"

	"github.com/RSSNext/Folo-sub005/internal/store"
)

// Hydratable loads persisted rows into the paired store.
type Hydratable interface {
	Hydrate(ctx context.Context) error
}

// Resetable clears both the repository and the store.
type Resetable interface {
	Reset(ctx context.Context) error
}

type tableRepository[V any] interface {
	UpsertMany(ctx context.Context, values []V) error
	GetAll(ctx context.Context) ([]V, error)
	BulkDelete(ctx context.Context, ids []string) error
	Reset(ctx context.Context) error
}

// table pairs a repository with its store so every write reaches both.
// The repository is written first; the store only changes once that succeeded.
type table[V store.Keyed] struct {
	name      string
	repo      tableRepository[V]
	coll      *store.Collection[V]
	normalize func(V) V
}

func newTable[V store.Keyed](name string, repo tableRepository[V], coll *store.Collection[V], normalize func(V) V) *table[V] {
	return &table[V]{name: name, repo: repo, coll: coll, normalize: normalize}
}

func (t *table[V]) Hydrate(ctx context.Context) error {
	rows, err := t.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("hydrate %s: %w", t.name, err)
	}
	t.coll.Replace(rows)
	return nil
}

func (t *table[V]) Reset(ctx context.Context) error {
	if err := t.repo.Reset(ctx); err != nil {
		return fmt.Errorf("reset %s: %w", t.name, err)
	}
	t.coll.Reset()
	return nil
}

func (t *table[V]) upsert(ctx context.Context, values ...V) error {
	if len(values) == 0 {
		return nil
	}
	if t.normalize != nil {
		normalized := make([]V, len(values))
		for i, v := range values {
			normalized[i] = t.normalize(v)
		}
		values = normalized
	}
	if err := t.repo.UpsertMany(ctx, values); err != nil {
		return fmt.Errorf("upsert %s: %w", t.name, err)
	}
	t.coll.Upsert(values...)
	return nil
}

func (t *table[V]) delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := t.repo.BulkDelete(ctx, keys); err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	t.coll.Delete(keys...)
	return nil
}

func (t *table[V]) get(key string) (V, bool) {
	return t.coll.Get(key)
}

// snapshot captures the current values of keys. The returned Restore writes
// back values that existed and deletes keys that did not.
func (t *table[V]) snapshot(keys ...string) Restore {
	state := t.coll.GetState()
	var present []V
	var absent []string
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if v, ok := state[k]; ok {
			present = append(present, v)
		} else {
			absent = append(absent, k)
		}
	}
	return func(ctx context.Context) error {
		if err := t.delete(ctx, absent...); err != nil {
			return err
		}
		if len(present) == 0 {
			return nil
		}
		if err := t.repo.UpsertMany(ctx, present); err != nil {
			return fmt.Errorf("restore %s: %w", t.name, err)
		}
		t.coll.Upsert(present...)
		return nil
	}
}
