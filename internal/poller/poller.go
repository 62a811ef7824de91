package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"gallerist/internal/assets"
	"gallerist/internal/logging"
)

// DefaultInterval is used when New receives a non-positive interval.
const DefaultInterval = 5 * time.Second

// Fetcher returns the complete asset listing.
type Fetcher interface {
	ListAssets(ctx context.Context) ([]assets.Record, error)
}

// FetchFunc adapts a function to Fetcher.
type FetchFunc func(ctx context.Context) ([]assets.Record, error)

func (f FetchFunc) ListAssets(ctx context.Context) ([]assets.Record, error) { return f(ctx) }

// Snapshot is the outcome of one tick.
type Snapshot struct {
	Records   []assets.Record
	Scope     string
	FetchedAt time.Time
	Err       error
}

// Poller refreshes the listing in the background.
type Poller struct {
	fetch    Fetcher
	interval time.Duration
	scope    func() string
	sink     func(Snapshot)
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	kick    chan struct{}
}

// New builds a poller. scope is consulted on every tick so a root that moves
// with the calendar day is picked up without a restart; a nil scope keeps
// every record.
func New(fetch Fetcher, interval time.Duration, scope func() string, sink func(Snapshot), logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if scope == nil {
		scope = func() string { return "" }
	}
	if sink == nil {
		sink = func(Snapshot) {}
	}
	return &Poller{
		fetch:    fetch,
		interval: interval,
		scope:    scope,
		sink:     sink,
		logger:   logging.NewComponentLogger(logger, "poller"),
		now:      time.Now,
	}
}

// Interval returns the tick interval.
func (p *Poller) Interval() time.Duration { return p.interval }

// Start fetches immediately and then on every tick until ctx is cancelled or
// Stop is called.
func (p *Poller) Start(ctx context.Context) error {
	if p == nil || p.fetch == nil {
		return errors.New("poller has no fetcher")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return errors.New("poller already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true
	p.kick = make(chan struct{}, 1)

	p.wg.Add(1)
	go p.loop(runCtx, p.kick)
	return nil
}

// Stop cancels the loop and waits for it to exit. No sink call happens after
// Stop returns. Calling Stop on a stopped poller does nothing.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	cancel := p.cancel
	p.running = false
	p.cancel = nil
	p.mu.Unlock()

	cancel()
	p.wg.Wait()
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// RefreshNow asks for an extra fetch ahead of the next tick. Requests made
// while one is already pending collapse into it.
func (p *Poller) RefreshNow() {
	p.mu.Lock()
	kick := p.kick
	running := p.running
	p.mu.Unlock()
	if !running {
		return
	}
	select {
	case kick <- struct{}{}:
	default:
	}
}

func (p *Poller) loop(ctx context.Context, kick <-chan struct{}) {
	defer p.wg.Done()

	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		case <-kick:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	snap := Poll(ctx, p.fetch, p.scope())
	if ctx.Err() != nil {
		return
	}
	snap.FetchedAt = p.now()
	if snap.Err != nil {
		logging.WarnWithContext(p.logger, "asset refresh failed; keeping previous listing", "refresh_failed",
			logging.Error(snap.Err),
			logging.String(logging.FieldErrorHint, "check backend.base_url and that the asset service is running"),
			logging.String(logging.FieldImpact, "gallery shows the last successful listing"),
		)
	} else {
		p.logger.Debug("asset refresh applied",
			logging.Int("records", len(snap.Records)),
			logging.String("scope", snap.Scope),
		)
	}
	p.sink(snap)
}

// Poll performs a single fetch filtered to scope. It is what each tick runs
// and is also used directly by one-shot commands.
func Poll(ctx context.Context, fetch Fetcher, scope string) Snapshot {
	records, err := fetch.ListAssets(ctx)
	if err != nil {
		return Snapshot{Scope: scope, FetchedAt: time.Now(), Err: err}
	}
	return Snapshot{
		Records:   assets.FilterScope(records, scope),
		Scope:     scope,
		FetchedAt: time.Now(),
	}
}
