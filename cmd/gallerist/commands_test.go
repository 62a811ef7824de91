package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gallerist/internal/cart"
	"gallerist/internal/submission"
)

func TestListRootAndFolder(t *testing.T) {
	env := setupCLITestEnv(t)

	root := decodeJSON[listOutput](t, env.run(t, "ls", "--day", testDay, "--json"))
	if root.Root != "date/05_03_2024" || root.Path != root.Root {
		t.Fatalf("unexpected root listing %+v", root)
	}
	var names []string
	for _, e := range root.Entries {
		names = append(names, e.Name)
	}
	if !reflect.DeepEqual(names, []string{"sf", "nb"}) {
		t.Fatalf("root entries = %v", names)
	}

	sf := decodeJSON[listOutput](t, env.run(t, "ls", "sf", "--day", testDay, "--json"))
	if len(sf.Entries) != 4 || sf.Entries[3].Name != "jean" || !sf.Entries[3].Folder {
		t.Fatalf("unexpected sf listing %+v", sf.Entries)
	}
	if sf.Entries[0].URL != "http://media.test/media/date/05_03_2024/sf/1.jpg" {
		t.Fatalf("unexpected url %q", sf.Entries[0].URL)
	}

	table := env.run(t, "ls", "sf", "--day", testDay)
	requireContains(t, table, "jean/")
	requireContains(t, table, "2.jpg")
}

func TestListRejectsClientFolder(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"ls", "sf/jean", "--day", testDay}, env.configPath); err == nil {
		t.Fatal("expected ls on a client folder to fail")
	}
	if _, _, err := runCLI(t, []string{"ls", "missing", "--day", testDay}, env.configPath); err == nil {
		t.Fatal("expected ls on an unknown folder to fail")
	}
}

func TestReviewAddsToCart(t *testing.T) {
	env := setupCLITestEnv(t)

	out := decodeJSON[reviewOutput](t, env.run(t, "review", "sf/jean", "--day", testDay, "--add", "--json"))
	if out.Folder != "jean" || out.Added != 1 {
		t.Fatalf("unexpected review %+v", out)
	}
	want := []string{"http://media.test/media/date/05_03_2024/sf/jean/4.jpg"}
	if !reflect.DeepEqual(out.URLs, want) {
		t.Fatalf("urls = %v", out.URLs)
	}

	entries := decodeJSON[[]cart.Entry](t, env.run(t, "cart", "list", "--json"))
	if len(entries) != 1 || entries[0].URL != want[0] {
		t.Fatalf("cart = %+v", entries)
	}

	if _, _, err := runCLI(t, []string{"review", "sf", "--day", testDay}, env.configPath); err == nil {
		t.Fatal("expected review above client depth to fail")
	}
}

func TestSelectMaterializesRange(t *testing.T) {
	env := setupCLITestEnv(t)

	out := decodeJSON[selectOutput](t, env.run(t, "select", "--day", testDay, "--path", "sf", "--client", "marie", "3.jpg", "1.jpg", "--json"))
	want := []string{
		"http://media.test/media/date/05_03_2024/sf/marie/1.jpg",
		"http://media.test/media/date/05_03_2024/sf/marie/2.jpg",
		"http://media.test/media/date/05_03_2024/sf/marie/3.jpg",
	}
	if out.Folder != "marie" || !reflect.DeepEqual(out.URLs, want) {
		t.Fatalf("unexpected select output %+v", out)
	}

	reqs := env.backend.Requests()
	if len(reqs) != 1 || reqs[0].Endpoint != "create-client" || reqs[0].RequestID == "" {
		t.Fatalf("unexpected backend requests %+v", reqs)
	}
	files, _ := reqs[0].Body["files"].([]any)
	if len(files) != 3 || files[0] != "/media/date/05_03_2024/sf/1.jpg" {
		t.Fatalf("files sent = %v", files)
	}

	events := decodeJSON[[]cart.Event](t, env.run(t, "history", "--json"))
	if len(events) != 1 || events[0].Kind != cart.EventMaterialized || events[0].Detail != "marie" || events[0].ItemCount != 3 {
		t.Fatalf("history = %+v", events)
	}
}

func TestSelectErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"select", "--day", testDay, "--path", "sf", "1.jpg", "2.jpg"}, env.configPath); err == nil {
		t.Fatal("expected missing --client to fail")
	}
	if _, _, err := runCLI(t, []string{"select", "--day", testDay, "--path", "sf", "--client", "x", "1.jpg", "5.jpg"}, env.configPath); err == nil {
		t.Fatal("expected asset outside the folder to fail")
	}

	env.backend.FailCreate("Nom du client ou fichiers manquants")
	_, _, err := runCLI(t, []string{"select", "--day", testDay, "--path", "sf", "--client", "x", "1.jpg", "2.jpg"}, env.configPath)
	if err == nil || err.Error() != "Nom du client ou fichiers manquants" {
		t.Fatalf("expected verbatim backend message, got %v", err)
	}
}

func TestCartEditing(t *testing.T) {
	env := setupCLITestEnv(t)

	out := env.run(t, "cart", "add", "http://m/a.jpg", "http://m/b.jpg", "http://m/a.jpg", "http://m/c.jpg")
	requireContains(t, out, "Added 3, skipped 1")

	out = env.run(t, "cart", "remove", "2")
	requireContains(t, out, "Removed 1; 2 in cart")

	entries := decodeJSON[[]cart.Entry](t, env.run(t, "cart", "list", "--json"))
	if len(entries) != 2 || entries[0].URL != "http://m/a.jpg" || entries[1].URL != "http://m/c.jpg" {
		t.Fatalf("cart = %+v", entries)
	}

	if _, _, err := runCLI(t, []string{"cart", "remove", "9"}, env.configPath); err == nil {
		t.Fatal("expected out-of-range position to fail")
	}

	out = env.run(t, "cart", "clear")
	requireContains(t, out, "Cart cleared (2 removed)")
	requireContains(t, env.run(t, "cart", "list"), "Cart is empty")

	events := decodeJSON[[]cart.Event](t, env.run(t, "history", "--json"))
	if len(events) != 1 || events[0].Kind != cart.EventDiscarded || events[0].ItemCount != 2 {
		t.Fatalf("history = %+v", events)
	}
}

func TestConfirmDeliversAndEmptiesCart(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"confirm", "--email", "client@example.com"}, env.configPath); err == nil || err.Error() != "cart is empty" {
		t.Fatalf("expected empty cart error, got %v", err)
	}

	env.run(t, "cart", "add", "http://m/a.jpg", "http://m/b.jpg")
	if _, _, err := runCLI(t, []string{"confirm"}, env.configPath); err == nil {
		t.Fatal("expected missing email to fail")
	}

	res := decodeJSON[submission.Confirmed](t, env.run(t, "confirm", "--email", "client@example.com", "--json"))
	if res.Count != 2 || res.Email != "client@example.com" {
		t.Fatalf("unexpected confirm result %+v", res)
	}
	requireContains(t, env.run(t, "cart", "list"), "Cart is empty")

	events := decodeJSON[[]cart.Event](t, env.run(t, "history", "--json"))
	if len(events) != 1 || events[0].Kind != cart.EventConfirmed || events[0].Detail != "client@example.com" {
		t.Fatalf("history = %+v", events)
	}
}

func TestConfirmFailureKeepsCart(t *testing.T) {
	env := setupCLITestEnv(t)
	env.run(t, "cart", "add", "http://m/a.jpg")
	env.backend.FailConfirm("Erreur lors de la copie")

	_, _, err := runCLI(t, []string{"confirm", "--email", "client@example.com"}, env.configPath)
	if err == nil || err.Error() != "Erreur lors de la copie" {
		t.Fatalf("expected verbatim error, got %v", err)
	}
	entries := decodeJSON[[]cart.Entry](t, env.run(t, "cart", "list", "--json"))
	if len(entries) != 1 {
		t.Fatalf("cart must be kept, got %+v", entries)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out := env.run(t, "config", "validate")
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.backend.URL())

	target := filepath.Join(t.TempDir(), "config.toml")
	out = env.run(t, "config", "init", "--path", target)
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}
