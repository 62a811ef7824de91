package testsupport

import (
	"context"
	"testing"

	"gallerist/internal/cart"
	"gallerist/internal/config"
)

// MustOpenCartStore opens a cart.Store for tests and registers cleanup.
func MustOpenCartStore(t testing.TB, cfg *config.Config) *cart.Store {
	t.Helper()

	store, err := cart.Open(cfg)
	if err != nil {
		t.Fatalf("cart.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustOpenCart opens the persistent cart for tests and registers cleanup.
func MustOpenCart(t testing.TB, cfg *config.Config) (*cart.Cart, *cart.Store) {
	t.Helper()

	c, store, err := cart.OpenCart(context.Background(), cfg)
	if err != nil {
		t.Fatalf("cart.OpenCart: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return c, store
}
