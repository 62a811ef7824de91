package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"
)

// FakeRecord mirrors one entry of the asset listing.
type FakeRecord struct {
	Path   string `json:"path"`
	Folder string `json:"folder"`
}

// FakeRequest captures a POST body received by FakeBackend.
type FakeRequest struct {
	Endpoint  string
	RequestID string
	Body      map[string]any
}

// FakeBackend is an in-process asset service. Materialize moves files into
// <origin>/<client>/<name> under StorageRoot the same way the real service
// does, and confirm-cart echoes the files back as copied.
type FakeBackend struct {
	Server       *httptest.Server
	StorageRoot  string
	// ConfirmFlags adds the optional success and email fields to
	// confirm-cart responses; by default only copied is returned.
	ConfirmFlags bool

	mu         sync.Mutex
	records    []FakeRecord
	requests   []FakeRequest
	listCalls  int
	confirmErr string
	createErr  string
	listStatus int
}

// NewFakeBackend starts a server seeded with records and registers cleanup.
func NewFakeBackend(t testing.TB, records ...FakeRecord) *FakeBackend {
	t.Helper()

	fb := &FakeBackend{StorageRoot: "/usr/src/app/media", records: append([]FakeRecord(nil), records...)}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/albums/liste/", fb.handleList)
	mux.HandleFunc("/api/albums/create-client/", fb.handleCreate)
	mux.HandleFunc("/api/albums/confirm-cart/", fb.handleConfirm)
	fb.Server = httptest.NewServer(mux)
	t.Cleanup(fb.Server.Close)
	return fb
}

// URL returns the server base URL.
func (fb *FakeBackend) URL() string { return fb.Server.URL }

// SetRecords replaces the listing returned by subsequent list calls.
func (fb *FakeBackend) SetRecords(records ...FakeRecord) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.records = append([]FakeRecord(nil), records...)
}

// FailConfirm makes confirm-cart answer with {"error": message}.
func (fb *FakeBackend) FailConfirm(message string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.confirmErr = message
}

// FailCreate makes create-client answer 400 with {"error": message}.
func (fb *FakeBackend) FailCreate(message string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.createErr = message
}

// FailList makes the listing answer with the given HTTP status.
func (fb *FakeBackend) FailList(status int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.listStatus = status
}

// Requests returns the POST requests received so far.
func (fb *FakeBackend) Requests() []FakeRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]FakeRequest(nil), fb.requests...)
}

// ListCalls returns the number of listing requests served.
func (fb *FakeBackend) ListCalls() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.listCalls
}

func (fb *FakeBackend) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	fb.mu.Lock()
	fb.listCalls++
	status := fb.listStatus
	records := append([]FakeRecord(nil), fb.records...)
	fb.mu.Unlock()

	if status != 0 {
		http.Error(w, "listing unavailable", status)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (fb *FakeBackend) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, ok := fb.capture(w, r, "create-client")
	if !ok {
		return
	}
	fb.mu.Lock()
	failure := fb.createErr
	fb.mu.Unlock()
	if failure != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": failure})
		return
	}

	client, _ := body["client"].(string)
	files, _ := body["files"].([]any)
	if client == "" || len(files) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Nom du client ou fichiers manquants"})
		return
	}
	moved := make([]string, 0, len(files))
	for _, f := range files {
		name, _ := f.(string)
		rel := strings.TrimPrefix(name, "/media/")
		dir, base := path.Split(rel)
		moved = append(moved, path.Join(fb.StorageRoot, dir, client, base))
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Sous-dossier '" + client + "' créé",
		"files":   moved,
	})
}

func (fb *FakeBackend) handleConfirm(w http.ResponseWriter, r *http.Request) {
	body, ok := fb.capture(w, r, "confirm-cart")
	if !ok {
		return
	}
	fb.mu.Lock()
	failure := fb.confirmErr
	fb.mu.Unlock()
	if failure != "" {
		writeJSON(w, http.StatusOK, map[string]string{"error": failure})
		return
	}
	resp := map[string]any{"copied": body["files"]}
	fb.mu.Lock()
	if fb.ConfirmFlags {
		resp["success"] = true
		resp["email"] = body["email"]
	}
	fb.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (fb *FakeBackend) capture(w http.ResponseWriter, r *http.Request, endpoint string) (map[string]any, bool) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return nil, false
	}
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return nil, false
	}
	fb.mu.Lock()
	fb.requests = append(fb.requests, FakeRequest{Endpoint: endpoint, RequestID: r.Header.Get("X-Request-ID"), Body: body})
	fb.mu.Unlock()
	return body, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
