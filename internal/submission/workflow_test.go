package submission_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"gallerist/internal/backend"
	"gallerist/internal/services"
	"gallerist/internal/submission"
	"gallerist/internal/testsupport"
)

func newWorkflow(t *testing.T) (*submission.Workflow, *testsupport.FakeBackend) {
	t.Helper()
	fb := testsupport.NewFakeBackend(t)
	cfg := testsupport.NewConfig(t, testsupport.WithBackendURL(fb.URL()))
	client, err := backend.New(cfg, nil)
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	return submission.New(client, cfg.Backend.MediaRoot, nil), fb
}

func TestMaterializeRewritesReturnedPaths(t *testing.T) {
	wf, fb := newWorkflow(t)
	rng := []string{"/media/date/05_03_2024/sf/2.jpg", "/media/date/05_03_2024/sf/3.jpg"}

	got, err := wf.Materialize(context.Background(), "  jean ", rng)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	want := []string{
		"http://media.test/media/date/05_03_2024/sf/jean/2.jpg",
		"http://media.test/media/date/05_03_2024/sf/jean/3.jpg",
	}
	if !reflect.DeepEqual(got.URLs, want) {
		t.Fatalf("urls = %v, want %v", got.URLs, want)
	}
	if got.Folder != "jean" {
		t.Fatalf("folder = %q", got.Folder)
	}
	if reqs := fb.Requests(); len(reqs) != 1 || reqs[0].Body["client"] != "jean" {
		t.Fatalf("expected trimmed client name on the wire, got %+v", reqs)
	}
	if wf.Busy() {
		t.Fatal("busy flag must be released")
	}
}

func TestMaterializeNormalizesClientName(t *testing.T) {
	wf, fb := newWorkflow(t)
	decomposed := "Ame\u0301lie"
	if _, err := wf.Materialize(context.Background(), decomposed, []string{"/media/date/05_03_2024/sf/1.jpg"}); err != nil {
		t.Fatal(err)
	}
	if got := fb.Requests()[0].Body["client"]; got != "Am\u00e9lie" {
		t.Fatalf("client = %q, want NFC form", got)
	}
}

func TestMaterializeValidatesLocally(t *testing.T) {
	wf, fb := newWorkflow(t)
	tests := []struct {
		name   string
		client string
		rng    []string
	}{
		{"blank name", "   ", []string{"/media/a.jpg"}},
		{"slash", "a/b", []string{"/media/a.jpg"}},
		{"no range", "jean", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := wf.Materialize(context.Background(), tt.client, tt.rng)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if n := len(fb.Requests()); n != 0 {
		t.Fatalf("validation failures must not reach the service, got %d requests", n)
	}
}

func TestMaterializeBackendErrorIsVerbatim(t *testing.T) {
	wf, fb := newWorkflow(t)
	fb.FailCreate("Dossier déjà existant")
	_, err := wf.Materialize(context.Background(), "jean", []string{"/media/a.jpg"})
	if services.UserMessage(err) != "Dossier déjà existant" {
		t.Fatalf("unexpected message %q", services.UserMessage(err))
	}
}

type stubBackend struct {
	create  backend.CreateClientResult
	confirm backend.ConfirmCartResult
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (s *stubBackend) CreateClientFolder(ctx context.Context, client string, files []string) (backend.CreateClientResult, error) {
	if s.entered != nil {
		close(s.entered)
	}
	if s.block != nil {
		<-s.block
	}
	return s.create, s.err
}

func (s *stubBackend) ConfirmCart(ctx context.Context, email string, files []string) (backend.ConfirmCartResult, error) {
	return s.confirm, s.err
}

func TestMaterializeFolderName(t *testing.T) {
	tests := []struct {
		name string
		res  backend.CreateClientResult
		want string
	}{
		{"explicit field", backend.CreateClientResult{Folder: "studio-jean", Files: []string{"/srv/media/date/x/sf/jean/1.jpg"}}, "studio-jean"},
		{"derived from path", backend.CreateClientResult{Files: []string{"/srv/media/date/x/sf/jean/1.jpg"}}, "jean"},
		{"typed name", backend.CreateClientResult{Files: []string{"/srv/media/1.jpg"}}, "marie"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := submission.New(&stubBackend{create: tt.res}, "https://cdn/", nil)
			got, err := wf.Materialize(context.Background(), "marie", []string{"/media/a.jpg"})
			if err != nil {
				t.Fatal(err)
			}
			if got.Folder != tt.want {
				t.Fatalf("folder = %q, want %q", got.Folder, tt.want)
			}
		})
	}
}

func TestMaterializeEmptyFilesIsError(t *testing.T) {
	wf := submission.New(&stubBackend{create: backend.CreateClientResult{Message: "ok"}}, "https://cdn", nil)
	_, err := wf.Materialize(context.Background(), "jean", []string{"/media/a.jpg"})
	if !errors.Is(err, services.ErrBackend) || services.UserMessage(err) != "no images returned" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestMaterializeRejectsPathWithoutMediaMarker(t *testing.T) {
	wf := submission.New(&stubBackend{create: backend.CreateClientResult{Files: []string{"/srv/files/a.jpg"}}}, "https://cdn", nil)
	if _, err := wf.Materialize(context.Background(), "jean", []string{"/media/a.jpg"}); !errors.Is(err, services.ErrBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestBusyFlagRejectsConcurrentRequests(t *testing.T) {
	stub := &stubBackend{
		create:  backend.CreateClientResult{Files: []string{"/srv/media/d/sf/jean/1.jpg"}},
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}
	wf := submission.New(stub, "https://cdn", nil)

	done := make(chan error, 1)
	go func() {
		_, err := wf.Materialize(context.Background(), "jean", []string{"/media/a.jpg"})
		done <- err
	}()
	<-stub.entered

	if !wf.Busy() {
		t.Fatal("expected busy while request is in flight")
	}
	if _, err := wf.ConfirmCart(context.Background(), "a@b.c", []string{"x"}); !errors.Is(err, services.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if _, err := wf.Begin(); !errors.Is(err, services.ErrBusy) {
		t.Fatalf("expected ErrBusy from Begin, got %v", err)
	}

	close(stub.block)
	if err := <-done; err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	release, err := wf.Begin()
	if err != nil {
		t.Fatalf("Begin after completion: %v", err)
	}
	release()
	release()
	if wf.Busy() {
		t.Fatal("release must clear busy")
	}
}

func TestConfirmCart(t *testing.T) {
	wf, fb := newWorkflow(t)
	urls := []string{"http://media.test/media/a.jpg", "http://media.test/media/b.jpg"}

	got, err := wf.ConfirmCart(context.Background(), " client@example.com ", urls)
	if err != nil {
		t.Fatalf("ConfirmCart: %v", err)
	}
	if got.Count != 2 || got.Email != "client@example.com" {
		t.Fatalf("unexpected result %+v", got)
	}
	if reqs := fb.Requests(); len(reqs) != 1 || reqs[0].Body["email"] != "client@example.com" {
		t.Fatalf("unexpected requests %+v", reqs)
	}
}

func TestConfirmCartValidation(t *testing.T) {
	wf, fb := newWorkflow(t)
	if _, err := wf.ConfirmCart(context.Background(), "", []string{"x"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty email, got %v", err)
	}
	_, err := wf.ConfirmCart(context.Background(), "a@b.c", nil)
	if !errors.Is(err, services.ErrValidation) || services.UserMessage(err) != "cart is empty" {
		t.Fatalf("expected empty cart error, got %v", err)
	}
	if len(fb.Requests()) != 0 {
		t.Fatal("validation failures must not reach the service")
	}
}

func TestConfirmCartFailureIsVerbatim(t *testing.T) {
	wf, fb := newWorkflow(t)
	fb.FailConfirm("Erreur lors de la copie")
	_, err := wf.ConfirmCart(context.Background(), "a@b.c", []string{"x"})
	if services.UserMessage(err) != "Erreur lors de la copie" {
		t.Fatalf("unexpected message %q", services.UserMessage(err))
	}
	if wf.Busy() {
		t.Fatal("busy flag must be released after failure")
	}
}

func TestConfirmCartAcceptsCopiedOnlyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"copied":["/media/validated/a@b.c/x.jpg"]}`))
	}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithBackendURL(srv.URL))
	client, err := backend.New(cfg, nil)
	if err != nil {
		t.Fatalf("backend.New: %v", err)
	}
	wf := submission.New(client, cfg.Backend.MediaRoot, nil)

	got, err := wf.ConfirmCart(context.Background(), "a@b.c", []string{"http://media.test/media/x.jpg"})
	if err != nil {
		t.Fatalf("ConfirmCart: %v", err)
	}
	want := submission.Confirmed{Email: "a@b.c", Count: 1, Copied: []string{"/media/validated/a@b.c/x.jpg"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ConfirmCart = %+v, want %+v", got, want)
	}
}

func TestConfirmCartWithOptionalFields(t *testing.T) {
	wf, fb := newWorkflow(t)
	fb.ConfirmFlags = true
	got, err := wf.ConfirmCart(context.Background(), "a@b.c", []string{"x", "y"})
	if err != nil || got.Count != 2 || got.Email != "a@b.c" {
		t.Fatalf("unexpected result %+v err=%v", got, err)
	}
}

func TestConfirmCartExplicitRejection(t *testing.T) {
	rejected := false
	wf := submission.New(&stubBackend{confirm: backend.ConfirmCartResult{Success: &rejected}}, "https://cdn", nil)
	if _, err := wf.ConfirmCart(context.Background(), "a@b.c", []string{"x"}); !errors.Is(err, services.ErrBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if wf.Busy() {
		t.Fatal("busy flag must be released after rejection")
	}
}
