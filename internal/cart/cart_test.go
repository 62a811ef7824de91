package cart_test

import (
	"errors"
	"reflect"
	"testing"

	"gallerist/internal/cart"
)

type failingPersister struct{ err error }

func (f failingPersister) Append(cart.Entry) error { return f.err }
func (f failingPersister) Delete(string) error     { return f.err }
func (f failingPersister) Clear() error            { return f.err }

func TestAddIsIdempotent(t *testing.T) {
	c := cart.New(nil)

	added, err := c.Add("http://m/media/a.jpg")
	if err != nil || !added {
		t.Fatalf("first add = %v, %v", added, err)
	}
	added, err = c.Add("http://m/media/a.jpg")
	if err != nil || added {
		t.Fatalf("second add = %v, %v; want no-op", added, err)
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1", c.Size())
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	c := cart.New(nil)
	for _, url := range []string{"c", "a", "b", "a"} {
		if _, err := c.Add(url); err != nil {
			t.Fatal(err)
		}
	}
	if got := c.URLs(); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("URLs = %v", got)
	}
	list := c.List()
	list[0].URL = "mutated"
	if c.URLs()[0] != "c" {
		t.Fatal("List must return a copy")
	}
}

func TestRemoveAndContains(t *testing.T) {
	c := cart.New(nil, cart.Entry{URL: "a"}, cart.Entry{URL: "b"}, cart.Entry{URL: "a"})
	if c.Size() != 2 {
		t.Fatalf("seed should dedupe, size = %d", c.Size())
	}
	n, err := c.Remove("a")
	if err != nil || n != 1 {
		t.Fatalf("Remove = %d, %v", n, err)
	}
	if c.Contains("a") || !c.Contains("b") {
		t.Fatalf("unexpected membership: %v", c.URLs())
	}
	if n, _ := c.Remove("missing"); n != 0 {
		t.Fatalf("removing absent url returned %d", n)
	}
}

func TestToggle(t *testing.T) {
	c := cart.New(nil)
	in, err := c.Toggle("x")
	if err != nil || !in {
		t.Fatalf("toggle on = %v, %v", in, err)
	}
	in, err = c.Toggle("x")
	if err != nil || in {
		t.Fatalf("toggle off = %v, %v", in, err)
	}
}

func TestAddRejectsBlank(t *testing.T) {
	if _, err := cart.New(nil).Add("  "); !errors.Is(err, cart.ErrEmptyURL) {
		t.Fatalf("expected ErrEmptyURL, got %v", err)
	}
}

func TestPersisterFailureLeavesCartUnchanged(t *testing.T) {
	boom := errors.New("disk gone")
	c := cart.New(failingPersister{err: boom}, cart.Entry{URL: "a"})

	if _, err := c.Add("b"); !errors.Is(err, boom) {
		t.Fatalf("Add error = %v", err)
	}
	if _, err := c.Remove("a"); !errors.Is(err, boom) {
		t.Fatalf("Remove error = %v", err)
	}
	if err := c.Clear(); !errors.Is(err, boom) {
		t.Fatalf("Clear error = %v", err)
	}
	if got := c.URLs(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("cart changed despite failures: %v", got)
	}
}
