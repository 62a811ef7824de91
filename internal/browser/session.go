package browser

import (
	"fmt"
	"strings"
	"time"

	"gallerist/internal/assets"
	"gallerist/internal/cart"
	"gallerist/internal/services"
)

// Options configures a Session.
type Options struct {
	Root        string
	ClientDepth int
	MediaRoot   string
}

// Session is the state of one browsing session.
type Session struct {
	nav       Navigation
	mediaRoot string
	records   []assets.Record
	selection Selection
	review    *Review
	prompt    Prompt
	cart      *cart.Cart

	status      string
	refreshedAt time.Time
	refreshErr  error
	reloads     int
}

// NewSession starts at the root with no records. A nil cart gets an
// in-memory one.
func NewSession(opts Options, c *cart.Cart) *Session {
	if c == nil {
		c = cart.New(nil)
	}
	return &Session{
		nav:       NewNavigation(opts.Root, opts.ClientDepth),
		mediaRoot: strings.TrimRight(opts.MediaRoot, "/"),
		cart:      c,
	}
}

func (s *Session) Current() string { return s.nav.Current() }

func (s *Session) Root() string { return s.nav.Root() }

func (s *Session) AtRoot() bool { return s.nav.AtRoot() }

func (s *Session) Selection() Selection { return s.selection }

func (s *Session) Prompt() Prompt { return s.prompt }

func (s *Session) Cart() *cart.Cart { return s.cart }

// Review returns the active review, or nil in gallery mode.
func (s *Session) Review() *Review { return s.review }

// Status returns the last informational message.
func (s *Session) Status() string { return s.status }

// RefreshedAt returns when the last successful refresh was applied.
func (s *Session) RefreshedAt() time.Time { return s.refreshedAt }

// RefreshError returns the last refresh failure, cleared on success.
func (s *Session) RefreshError() error { return s.refreshErr }

// Reloads counts forced reloads, which callers answer with an immediate
// refresh.
func (s *Session) Reloads() int { return s.reloads }

// Records returns the current record set.
func (s *Session) Records() []assets.Record { return s.records }

// Items returns the nodes visible at the current path.
func (s *Session) Items() []assets.Node {
	return assets.EntriesAt(s.nav.Current(), s.records)
}

// VisibleLeaves returns the record paths of the visible leaves.
func (s *Session) VisibleLeaves() []string {
	return assets.Leaves(s.Items())
}

// URL resolves a listed record path to its browser URL.
func (s *Session) URL(recordPath string) string {
	return assets.ResolveURL(s.mediaRoot, recordPath)
}

// ApplyRefresh replaces the record set wholesale. Navigation, selection and
// the cart are left alone; a path that no longer resolves simply shows no
// items.
func (s *Session) ApplyRefresh(records []assets.Record, at time.Time) {
	s.records = records
	s.refreshedAt = at
	s.refreshErr = nil
}

// RefreshFailed records a failed refresh while keeping the previous records.
func (s *Session) RefreshFailed(err error) {
	s.refreshErr = err
}

// Rebase moves the root scope, keeping the path when it still applies.
func (s *Session) Rebase(root string) {
	before := s.nav.Current()
	s.nav.Rebase(root)
	if s.nav.Current() != before {
		s.selection = Selection{}
	}
}

// Descend opens a visible folder. At client depth it enters review mode with
// every asset under the folder instead of moving.
func (s *Session) Descend(name string) (Descent, error) {
	if s.prompt.Open() {
		return Descent{}, ErrPromptOpen
	}
	if !s.folderVisible(name) {
		return Descent{}, fmt.Errorf("%w: %q", ErrUnknownFolder, name)
	}
	d, err := s.nav.Descend(name, s.records)
	if err != nil {
		return Descent{}, err
	}
	if d.Review {
		s.review = newReview(d.Folder, assets.ResolveAll(s.mediaRoot, d.Records))
		return d, nil
	}
	s.selection = Selection{}
	return d, nil
}

func (s *Session) folderVisible(name string) bool {
	for _, n := range s.Items() {
		if n.Folder && n.Name == name {
			return true
		}
	}
	return false
}

// Ascend goes to the parent folder and clears the selection. It is a no-op
// at the root.
func (s *Session) Ascend() bool {
	if s.prompt.Open() {
		return false
	}
	if !s.nav.Ascend() {
		return false
	}
	s.selection = Selection{}
	return true
}

// Click feeds one leaf click into the selection. When it finalizes a range
// the client-folder prompt opens. Clicks are rejected while any prompt is
// open.
func (s *Session) Click(path string) (Selection, error) {
	if s.prompt.Open() {
		return s.selection, ErrPromptOpen
	}
	next, err := s.selection.Click(path, s.VisibleLeaves())
	if err != nil {
		return s.selection, err
	}
	s.selection = next
	if next.State() == Finalized {
		s.prompt = Prompt{Kind: PromptClientFolder}
	}
	return next, nil
}

// ClearSelection returns the selection to Idle.
func (s *Session) ClearSelection() {
	s.selection = Selection{}
}

// OpenConfirm opens the confirm-cart dialog.
func (s *Session) OpenConfirm() {
	s.prompt = Prompt{Kind: PromptConfirmCart}
}

// CancelPrompt closes the open dialog. The finalized range is kept, so the
// next click starts a new selection.
func (s *Session) CancelPrompt() {
	s.prompt = Prompt{}
}

// Reject shows a notice in the open prompt, or as the status line when no
// prompt is open. State is otherwise unchanged.
func (s *Session) Reject(err error) {
	msg := services.UserMessage(err)
	if s.prompt.Open() {
		s.prompt.Notice = msg
		return
	}
	s.status = msg
}

// DiscardOrder empties the cart and closes the confirm dialog.
func (s *Session) DiscardOrder() error {
	if err := s.cart.Clear(); err != nil {
		return err
	}
	s.prompt = Prompt{}
	s.status = "order cancelled; cart emptied"
	return nil
}

// PendingRange returns the finalized range awaiting a client name.
func (s *Session) PendingRange() ([]string, error) {
	rng := s.selection.Range()
	if len(rng) == 0 {
		return nil, ErrNoSelection
	}
	return rng, nil
}

// ApplyMaterialized enters review mode on a freshly created client folder and
// closes the prompt.
func (s *Session) ApplyMaterialized(folder string, urls []string, message string) {
	s.review = newReview(folder, urls)
	s.prompt = Prompt{}
	s.selection = Selection{}
	s.status = message
}

// ApplyConfirmed empties the cart after a successful confirmation and forces
// a full reload: back to the root, out of review, selection cleared.
func (s *Session) ApplyConfirmed(copied int, email string) error {
	if err := s.cart.Clear(); err != nil {
		return err
	}
	s.prompt = Prompt{}
	s.review = nil
	s.selection = Selection{}
	s.nav.Reset()
	s.reloads++
	s.status = fmt.Sprintf("%d file(s) copied for %s", copied, email)
	return nil
}

// CloseReview returns to the gallery. The cart is kept.
func (s *Session) CloseReview() {
	s.review = nil
}

// AddCurrentToCart adds the URL under the review cursor.
func (s *Session) AddCurrentToCart() (bool, error) {
	if s.review == nil {
		return false, ErrNoReview
	}
	url, ok := s.review.Current()
	if !ok {
		return false, nil
	}
	return s.cart.Add(url)
}

// ToggleCurrentInCart adds or removes the URL under the review cursor and
// reports whether it is in the cart afterwards.
func (s *Session) ToggleCurrentInCart() (bool, error) {
	if s.review == nil {
		return false, ErrNoReview
	}
	url, ok := s.review.Current()
	if !ok {
		return false, nil
	}
	return s.cart.Toggle(url)
}
