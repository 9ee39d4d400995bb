// Package kvtest holds the behaviour every kv.Store driver must share.
package kvtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv"
)

type item struct {
	ID string `json:"id"`
	N  int    `json:"n"`
}

// Run exercises s. The store must start empty.
func Run(t *testing.T, s kv.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		if _, err := s.Get(ctx, "missing"); !errors.Is(err, kv.ErrNotFound) {
			t.Fatalf("Get() error = %v, want ErrNotFound", err)
		}
		items, err := kv.Load[item](ctx, s, "missing")
		if err != nil || items == nil || len(items) != 0 {
			t.Fatalf("Load() = %v, %v; want empty", items, err)
		}
	})

	t.Run("put get delete", func(t *testing.T) {
		if err := kv.Save(ctx, s, "roundtrip", []item{{ID: "a", N: 1}}); err != nil {
			t.Fatal(err)
		}
		items, err := kv.Load[item](ctx, s, "roundtrip")
		if err != nil || len(items) != 1 || items[0].ID != "a" {
			t.Fatalf("Load() = %v, %v", items, err)
		}
		if err := s.Delete(ctx, "roundtrip"); err != nil {
			t.Fatal(err)
		}
		if ok, err := kv.Exists(ctx, s, "roundtrip"); err != nil || ok {
			t.Fatalf("Exists() after delete = %v, %v", ok, err)
		}
	})

	t.Run("aborted update writes nothing", func(t *testing.T) {
		boom := errors.New("boom")
		err := kv.Mutate(ctx, s, "aborted", func(items []item) ([]item, error) {
			return append(items, item{ID: "x"}), boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Mutate() error = %v", err)
		}
		if ok, _ := kv.Exists(ctx, s, "aborted"); ok {
			t.Fatal("aborted update was written")
		}
	})

	t.Run("seed if absent", func(t *testing.T) {
		wrote, err := kv.SeedIfAbsent(ctx, s, "seeded", []item{{ID: "first"}})
		if err != nil || !wrote {
			t.Fatalf("first SeedIfAbsent() = %v, %v", wrote, err)
		}
		wrote, err = kv.SeedIfAbsent(ctx, s, "seeded", []item{{ID: "second"}})
		if err != nil || wrote {
			t.Fatalf("second SeedIfAbsent() = %v, %v", wrote, err)
		}
		items, _ := kv.Load[item](ctx, s, "seeded")
		if len(items) != 1 || items[0].ID != "first" {
			t.Fatalf("items = %v", items)
		}
	})

	t.Run("concurrent mutate", func(t *testing.T) {
		const writers = 20
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- kv.Mutate(ctx, s, "counter", func(items []item) ([]item, error) {
					return append(items, item{ID: fmt.Sprint(i), N: i}), nil
				})
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatal(err)
			}
		}
		items, err := kv.Load[item](ctx, s, "counter")
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != writers {
			t.Fatalf("items = %d, want %d; an update was lost", len(items), writers)
		}
	})

	t.Run("corrupt payload", func(t *testing.T) {
		if err := s.Put(ctx, "corrupt", []byte(`{"shape":"object"}`)); err != nil {
			t.Fatal(err)
		}
		_, err := kv.Load[item](ctx, s, "corrupt")
		var derr *kv.DecodeError
		if !errors.As(err, &derr) || derr.Key != "corrupt" {
			t.Fatalf("Load() error = %v, want *DecodeError", err)
		}
	})
}
