package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"gallerist/internal/browser"
	"gallerist/internal/cart"
	"gallerist/internal/logging"
	"gallerist/internal/poller"
	"gallerist/internal/services"
	"gallerist/internal/submission"
)

const (
	opMaterialize = "materialize"
	opConfirm     = "confirm cart"
)

// EventRecorder keeps the order history.
type EventRecorder interface {
	RecordEvent(ctx context.Context, kind cart.EventKind, detail string, itemCount int) error
}

// Options wires a Model to its collaborators. Session and Workflow are
// required; the rest may be nil.
type Options struct {
	Session   *browser.Session
	Workflow  *submission.Workflow
	Snapshots <-chan poller.Snapshot
	Refresh   func()
	Events    EventRecorder
	Logger    *slog.Logger
	Context   context.Context
}

// Model is the Bubble Tea model for a browsing session.
type Model struct {
	ctx       context.Context
	session   *browser.Session
	workflow  *submission.Workflow
	snapshots <-chan poller.Snapshot
	refresh   func()
	events    EventRecorder
	logger    *slog.Logger

	keys    keyMap
	help    help.Model
	input   textinput.Model
	spinner spinner.Model

	cursor int
	busy   bool
	width  int
	height int
}

// New builds the model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	refresh := opts.Refresh
	if refresh == nil {
		refresh = func() {}
	}

	ti := textinput.New()
	ti.CharLimit = 128
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		session:   opts.Session,
		workflow:  opts.Workflow,
		snapshots: opts.Snapshots,
		refresh:   refresh,
		events:    opts.Events,
		logger:    logging.NewComponentLogger(opts.Logger, "tui"),
		keys:      defaultKeyMap(),
		help:      help.New(),
		input:     ti,
		spinner:   sp,
		width:     80,
		height:    24,
	}
}

// Session exposes the session the model drives.
func (m Model) Session() *browser.Session { return m.session }

func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.snapshots)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = min(60, max(10, msg.Width-12))
		return m, nil

	case snapshotMsg:
		m.applySnapshot(poller.Snapshot(msg))
		return m, waitForSnapshot(m.snapshots)

	case materializedMsg:
		m.busy = false
		res := msg.result
		m.session.ApplyMaterialized(res.Folder, res.URLs, res.Message)
		m.record(cart.EventMaterialized, res.Folder, len(res.URLs))
		m.resetInput()
		m.refresh()
		return m, nil

	case confirmedMsg:
		m.busy = false
		res := msg.result
		if err := m.session.ApplyConfirmed(res.Count, res.Email); err != nil {
			m.session.Reject(err)
			return m, nil
		}
		m.record(cart.EventConfirmed, res.Email, res.Count)
		m.resetInput()
		m.cursor = 0
		m.refresh()
		return m, nil

	case failedMsg:
		m.busy = false
		m.logger.Debug("submission rejected", logging.String("operation", msg.operation), logging.Error(msg.err))
		m.session.Reject(msg.err)
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.session.Prompt().Open() {
			return m.updatePrompt(msg)
		}
		if m.session.Review() != nil {
			return m.updateReview(msg)
		}
		return m.updateGallery(msg)
	}
	return m, nil
}

func (m *Model) applySnapshot(snap poller.Snapshot) {
	if snap.Err != nil {
		m.session.RefreshFailed(snap.Err)
		return
	}
	if snap.Scope != "" && snap.Scope != m.session.Root() {
		m.session.Rebase(snap.Scope)
	}
	m.session.ApplyRefresh(snap.Records, snap.FetchedAt)
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.session.Items())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) updateGallery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.session.Items()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if m.cursor >= len(items) {
			return m, nil
		}
		item := items[m.cursor]
		if item.Folder {
			d, err := m.session.Descend(item.Name)
			if err != nil {
				m.session.Reject(err)
				return m, nil
			}
			if !d.Review {
				m.cursor = 0
			}
			return m, nil
		}
		return m.click(item.Record.Path)
	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(items) && !items[m.cursor].Folder {
			return m.click(items[m.cursor].Record.Path)
		}
	case key.Matches(msg, m.keys.Back):
		if m.session.Ascend() {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.Clear):
		m.session.ClearSelection()
	case key.Matches(msg, m.keys.Cart):
		return m.openConfirm()
	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
	}
	return m, nil
}

func (m Model) click(path string) (tea.Model, tea.Cmd) {
	sel, err := m.session.Click(path)
	if err != nil {
		m.session.Reject(err)
		return m, nil
	}
	if sel.State() == browser.Finalized {
		m.input.Reset()
		m.input.Placeholder = "client name"
		cmd := m.input.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) openConfirm() (tea.Model, tea.Cmd) {
	m.session.OpenConfirm()
	m.input.Reset()
	m.input.Placeholder = "client email"
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	review := m.session.Review()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Prev):
		review.Prev()
	case key.Matches(msg, m.keys.Next):
		review.Next()
	case key.Matches(msg, m.keys.Close):
		m.session.CloseReview()
		m.clampCursor()
	case key.Matches(msg, m.keys.Add):
		if _, err := m.session.AddCurrentToCart(); err != nil {
			m.session.Reject(err)
		}
	case key.Matches(msg, m.keys.Toggle):
		if _, err := m.session.ToggleCurrentInCart(); err != nil {
			m.session.Reject(err)
		}
	case key.Matches(msg, m.keys.Cart):
		return m.openConfirm()
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind := m.session.Prompt().Kind
	switch {
	case key.Matches(msg, m.keys.Cancel):
		// The materialize prompt stays up until its request settles.
		if m.busy && kind == browser.PromptClientFolder {
			return m, nil
		}
		m.session.CancelPrompt()
		m.resetInput()
		return m, nil

	case kind == browser.PromptConfirmCart && key.Matches(msg, m.keys.Discard):
		if m.busy {
			return m, nil
		}
		count := m.session.Cart().Size()
		if err := m.session.DiscardOrder(); err != nil {
			m.session.Reject(err)
			return m, nil
		}
		m.record(cart.EventDiscarded, "", count)
		m.resetInput()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.busy {
			return m, nil
		}
		switch kind {
		case browser.PromptClientFolder:
			rng, err := m.session.PendingRange()
			if err != nil {
				m.session.Reject(err)
				return m, nil
			}
			m.busy = true
			return m, tea.Batch(m.materializeCmd(m.input.Value(), rng), m.spinner.Tick)
		case browser.PromptConfirmCart:
			m.busy = true
			return m, tea.Batch(m.confirmCmd(m.input.Value(), m.session.Cart().URLs()), m.spinner.Tick)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) resetInput() {
	m.input.Reset()
	m.input.Blur()
}

func (m Model) requestContext() context.Context {
	return services.WithRequestID(m.ctx, uuid.NewString())
}

func (m Model) materializeCmd(client string, rng []string) tea.Cmd {
	ctx := services.WithPath(m.requestContext(), m.session.Current())
	wf := m.workflow
	return func() tea.Msg {
		res, err := wf.Materialize(ctx, client, rng)
		if err != nil {
			return failedMsg{operation: opMaterialize, err: err}
		}
		return materializedMsg{result: res}
	}
}

func (m Model) confirmCmd(email string, urls []string) tea.Cmd {
	ctx := m.requestContext()
	wf := m.workflow
	return func() tea.Msg {
		res, err := wf.ConfirmCart(ctx, email, urls)
		if err != nil {
			return failedMsg{operation: opConfirm, err: err}
		}
		return confirmedMsg{result: res}
	}
}

func (m Model) record(kind cart.EventKind, detail string, count int) {
	if m.events == nil {
		return
	}
	if err := m.events.RecordEvent(m.ctx, kind, detail, count); err != nil {
		logging.WarnWithContext(m.logger, "order history not recorded", "history_write_failed",
			logging.Error(err),
			logging.String("event", string(kind)),
			logging.String(logging.FieldImpact, "history view will miss this entry"),
		)
	}
}
