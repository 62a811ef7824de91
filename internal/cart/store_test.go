package cart_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"gallerist/internal/cart"
	"gallerist/internal/testsupport"
)

func TestStorePersistsAcrossReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	c, store, err := cart.OpenCart(ctx, cfg)
	if err != nil {
		t.Fatalf("OpenCart: %v", err)
	}
	for _, url := range []string{"http://m/media/2.jpg", "http://m/media/1.jpg", "http://m/media/3.jpg"} {
		if _, err := c.Add(url); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if _, err := c.Remove("http://m/media/1.jpg"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, _ := testsupport.MustOpenCart(t, cfg)
	want := []string{"http://m/media/2.jpg", "http://m/media/3.jpg"}
	if got := reopened.URLs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("reopened cart = %v, want %v", got, want)
	}
	for _, entry := range reopened.List() {
		if entry.AddedAt.IsZero() {
			t.Fatalf("expected added_at to round-trip for %s", entry.URL)
		}
	}
}

func TestStoreClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	c, store := testsupport.MustOpenCart(t, cfg)
	if _, err := c.Add("a"); err != nil {
		t.Fatal(err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty store, got %v", entries)
	}
}

func TestOpenFailsWhileLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.MustOpenCartStore(t, cfg)

	if _, err := cart.Open(cfg); !errors.Is(err, cart.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestEventsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCartStore(t, cfg)
	ctx := context.Background()

	if err := store.RecordEvent(ctx, cart.EventMaterialized, "jean", 4); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordEvent(ctx, cart.EventConfirmed, "client@example.com", 2); err != nil {
		t.Fatal(err)
	}

	events, err := store.Events(ctx, 1)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 1 || events[0].Kind != cart.EventConfirmed || events[0].ItemCount != 2 {
		t.Fatalf("unexpected events %+v", events)
	}
	all, err := store.Events(ctx, 0)
	if err != nil || len(all) != 2 {
		t.Fatalf("Events(0) = %d, %v", len(all), err)
	}
}
