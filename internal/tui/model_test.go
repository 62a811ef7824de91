package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gallerist/internal/assets"
	"gallerist/internal/backend"
	"gallerist/internal/browser"
	"gallerist/internal/cart"
	"gallerist/internal/poller"
	"gallerist/internal/submission"
	"gallerist/internal/testsupport"
)

const root = "date/05_03_2024"

type recordedEvent struct {
	kind   cart.EventKind
	detail string
	count  int
}

type eventLog struct {
	events []recordedEvent
}

func (e *eventLog) RecordEvent(_ context.Context, kind cart.EventKind, detail string, count int) error {
	e.events = append(e.events, recordedEvent{kind, detail, count})
	return nil
}

type harness struct {
	model     Model
	events    *eventLog
	refreshes int
	backend   *testsupport.FakeBackend
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fb := testsupport.NewFakeBackend(t)
	cfg := testsupport.NewConfig(t, testsupport.WithBackendURL(fb.URL()))
	client, err := backend.New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	h := &harness{events: &eventLog{}, backend: fb}
	session := browser.NewSession(browser.Options{Root: root, ClientDepth: 4, MediaRoot: cfg.Backend.MediaRoot}, cart.New(nil))
	h.model = New(Options{
		Session:  session,
		Workflow: submission.New(client, cfg.Backend.MediaRoot, nil),
		Refresh:  func() { h.refreshes++ },
		Events:   h.events,
	})
	h.send(snapshotMsg(poller.Snapshot{Records: records(), Scope: root, FetchedAt: time.Now()}))
	return h
}

func records() []assets.Record {
	return []assets.Record{
		{Path: "/media/date/05_03_2024/sf/1.jpg", Folder: "date/05_03_2024/sf"},
		{Path: "/media/date/05_03_2024/sf/2.jpg", Folder: "date/05_03_2024/sf"},
		{Path: "/media/date/05_03_2024/sf/3.jpg", Folder: "date/05_03_2024/sf"},
		{Path: "/media/date/05_03_2024/sf/jean/4.jpg", Folder: "date/05_03_2024/sf/jean"},
		{Path: "/media/date/05_03_2024/nb/5.jpg", Folder: "date/05_03_2024/nb"},
	}
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) press(keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = h.send(k)
	}
	return cmd
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// settle runs a submission command and feeds its result back.
func (h *harness) settle(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case materializedMsg, confirmedMsg, failedMsg:
			h.send(msg)
			return
		}
	}
	t.Fatal("no submission result produced")
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	back  = tea.KeyMsg{Type: tea.KeyBackspace}
)

func TestMaterializeThenConfirmFlow(t *testing.T) {
	h := newHarness(t)
	s := h.model.Session()

	h.press(enter)
	if s.Current() != root+"/sf" {
		t.Fatalf("expected to descend into sf, at %q", s.Current())
	}

	h.press(space, down, space)
	if s.Prompt().Kind != browser.PromptClientFolder {
		t.Fatalf("expected client folder prompt, got %v", s.Prompt().Kind)
	}

	h.typeText("jean")
	cmd := h.press(enter)
	if !h.model.busy {
		t.Fatal("expected busy while materializing")
	}
	h.press(esc)
	if !s.Prompt().Open() {
		t.Fatal("materialize prompt cannot be dismissed while busy")
	}
	h.settle(t, cmd)

	review := s.Review()
	if review == nil || review.Folder() != "jean" || review.Len() != 2 {
		t.Fatalf("expected review of jean with 2 urls, got %+v", review)
	}
	if review.URLs()[0] != "http://media.test/media/date/05_03_2024/sf/jean/1.jpg" {
		t.Fatalf("unexpected url %q", review.URLs()[0])
	}
	if h.refreshes != 1 {
		t.Fatalf("expected an immediate refresh, got %d", h.refreshes)
	}

	h.press(runes("a"), runes("l"), runes("a"))
	if s.Cart().Size() != 2 {
		t.Fatalf("cart size = %d", s.Cart().Size())
	}

	h.press(runes("c"))
	if s.Prompt().Kind != browser.PromptConfirmCart {
		t.Fatal("expected confirm dialog")
	}
	h.typeText("client@example.com")
	h.settle(t, h.press(enter))

	if s.Cart().Size() != 0 || s.Prompt().Open() || s.Review() != nil || !s.AtRoot() {
		t.Fatal("confirm success clears the cart and reloads from the root")
	}
	if h.refreshes != 2 {
		t.Fatalf("expected reload refresh, got %d", h.refreshes)
	}
	if len(h.events.events) != 2 || h.events.events[0].kind != cart.EventMaterialized || h.events.events[1] != (recordedEvent{cart.EventConfirmed, "client@example.com", 2}) {
		t.Fatalf("unexpected history %+v", h.events.events)
	}
}

func TestConfirmFailureKeepsCartAndDialog(t *testing.T) {
	h := newHarness(t)
	s := h.model.Session()
	if _, err := s.Cart().Add("http://media.test/media/a.jpg"); err != nil {
		t.Fatal(err)
	}
	h.backend.FailConfirm("Erreur lors de la copie")

	h.press(runes("c"))
	h.typeText("client@example.com")
	h.settle(t, h.press(enter))

	if p := s.Prompt(); p.Kind != browser.PromptConfirmCart || p.Notice != "Erreur lors de la copie" {
		t.Fatalf("expected notice in open dialog, got %+v", p)
	}
	if s.Cart().Size() != 1 {
		t.Fatal("failure keeps the cart")
	}
	if !strings.Contains(h.model.View(), "Erreur lors de la copie") {
		t.Fatal("notice not rendered")
	}
}

func TestConfirmDialogDismissibleWhileBusy(t *testing.T) {
	h := newHarness(t)
	s := h.model.Session()
	if _, err := s.Cart().Add("http://media.test/media/a.jpg"); err != nil {
		t.Fatal(err)
	}
	h.press(runes("c"))
	h.typeText("client@example.com")
	cmd := h.press(enter)
	h.press(esc)
	if s.Prompt().Open() {
		t.Fatal("confirm dialog can be closed while busy")
	}
	h.settle(t, cmd)
	if s.Cart().Size() != 0 {
		t.Fatal("late success still clears the cart")
	}
}

func TestDiscardOrder(t *testing.T) {
	h := newHarness(t)
	s := h.model.Session()
	if _, err := s.Cart().Add("http://media.test/media/a.jpg"); err != nil {
		t.Fatal(err)
	}
	h.press(runes("c"), tea.KeyMsg{Type: tea.KeyCtrlD})
	if s.Cart().Size() != 0 || s.Prompt().Open() {
		t.Fatal("discard empties the cart and closes the dialog")
	}
	if len(h.events.events) != 1 || h.events.events[0].kind != cart.EventDiscarded || h.events.events[0].count != 1 {
		t.Fatalf("unexpected history %+v", h.events.events)
	}
}

func TestSnapshotHandling(t *testing.T) {
	h := newHarness(t)
	s := h.model.Session()
	h.press(enter)

	h.send(snapshotMsg(poller.Snapshot{Err: errors.New("offline")}))
	if s.RefreshError() == nil || len(s.Items()) == 0 {
		t.Fatal("failed snapshot keeps previous items")
	}
	if !strings.Contains(h.model.View(), "refresh failed") {
		t.Fatal("refresh failure not shown")
	}

	h.send(snapshotMsg(poller.Snapshot{Scope: "date/06_03_2024", FetchedAt: time.Now()}))
	if s.Root() != "date/06_03_2024" || !s.AtRoot() {
		t.Fatalf("expected rebase to new day, root=%q current=%q", s.Root(), s.Current())
	}
}

func TestBackAndReviewAtClientDepth(t *testing.T) {
	h := newHarness(t)
	s := h.model.Session()
	h.press(enter)
	// sf: 1.jpg 2.jpg 3.jpg jean/
	h.press(down, down, down, enter)
	if r := s.Review(); r == nil || r.Folder() != "jean" {
		t.Fatalf("expected review at client depth, got %+v", r)
	}
	h.press(esc)
	if s.Review() != nil || s.Current() != root+"/sf" {
		t.Fatal("esc returns to the gallery")
	}
	h.press(back)
	if !s.AtRoot() {
		t.Fatalf("expected root, at %q", s.Current())
	}
	h.press(back)
	if !s.AtRoot() {
		t.Fatal("cannot ascend past the root")
	}
}

func TestSnapshotSinkKeepsNewest(t *testing.T) {
	sink, ch := SnapshotSink()
	sink(poller.Snapshot{Scope: "a"})
	sink(poller.Snapshot{Scope: "b"})
	if got := <-ch; got.Scope != "b" {
		t.Fatalf("expected newest snapshot, got %q", got.Scope)
	}
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra snapshot %+v", extra)
	default:
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		n, cursor, height int
		start, end        int
	}{
		{5, 0, 10, 0, 5},
		{20, 0, 5, 0, 5},
		{20, 10, 5, 8, 13},
		{20, 19, 5, 15, 20},
	}
	for _, tt := range tests {
		start, end := window(tt.n, tt.cursor, tt.height)
		if start != tt.start || end != tt.end {
			t.Errorf("window(%d,%d,%d) = %d,%d want %d,%d", tt.n, tt.cursor, tt.height, start, end, tt.start, tt.end)
		}
	}
}
