// Package repository implements the domain repositories on top of kv.Store.
// Every collection lives under one key and every mutation is a single
// kv.Mutate call, so concurrent writers never lose each other's updates.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv"
)

// collection is a typed view of the JSON array stored under key.
type collection[T any] struct {
	store    kv.Store
	key      string
	idOf     func(*T) string
	notFound error
}

func newCollection[T any](store kv.Store, key string, idOf func(*T) string, notFound error) collection[T] {
	return collection[T]{store: store, key: key, idOf: idOf, notFound: notFound}
}

func (c collection[T]) all(ctx context.Context) ([]T, error) {
	return kv.Load[T](ctx, c.store, c.key)
}

func (c collection[T]) find(ctx context.Context, id string) (*T, error) {
	items, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := lo.Find(items, func(it T) bool { return c.idOf(&it) == id })
	if !ok {
		return nil, c.notFound
	}
	return &item, nil
}

func (c collection[T]) filter(ctx context.Context, keep func(*T) bool) ([]T, error) {
	items, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Filter(items, func(it T, _ int) bool { return keep(&it) }), nil
}

// insert appends item after guard accepted every stored item. guard may be nil.
func (c collection[T]) insert(ctx context.Context, item T, guard func(existing *T) error) error {
	return kv.Mutate(ctx, c.store, c.key, func(items []T) ([]T, error) {
		if guard != nil {
			for i := range items {
				if err := guard(&items[i]); err != nil {
					return nil, err
				}
			}
		}
		return append(items, item), nil
	})
}

// modify applies fn to the item with id and returns the stored result.
func (c collection[T]) modify(ctx context.Context, id string, fn func(*T) error) (*T, error) {
	var updated T
	err := kv.Mutate(ctx, c.store, c.key, func(items []T) ([]T, error) {
		_, idx, ok := lo.FindIndexOf(items, func(it T) bool { return c.idOf(&it) == id })
		if !ok {
			return nil, c.notFound
		}
		if err := fn(&items[idx]); err != nil {
			return nil, err
		}
		updated = items[idx]
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

var errUnchanged = errors.New("unchanged")

// modifyEach applies fn to every item and returns the ones it changed. Nothing
// is written when fn changes nothing.
func (c collection[T]) modifyEach(ctx context.Context, fn func(*T) bool) ([]T, error) {
	var changed []T
	err := kv.Mutate(ctx, c.store, c.key, func(items []T) ([]T, error) {
		changed = changed[:0]
		for i := range items {
			if fn(&items[i]) {
				changed = append(changed, items[i])
			}
		}
		if len(changed) == 0 {
			return nil, errUnchanged
		}
		return items, nil
	})
	if err != nil && !errors.Is(err, errUnchanged) {
		return nil, err
	}
	return changed, nil
}

func (c collection[T]) remove(ctx context.Context, id string) error {
	return kv.Mutate(ctx, c.store, c.key, func(items []T) ([]T, error) {
		_, idx, ok := lo.FindIndexOf(items, func(it T) bool { return c.idOf(&it) == id })
		if !ok {
			return nil, c.notFound
		}
		return append(items[:idx], items[idx+1:]...), nil
	})
}

// newID returns a time-ordered UUIDv7 string.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Clock lets tests pin timestamps written by repositories.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
