package notifications

import (
	"context"
	"log/slog"
	"sync"

	"gallerist/internal/cart"
	"gallerist/internal/logging"
)

// History persists order events.
type History interface {
	RecordEvent(ctx context.Context, kind cart.EventKind, detail string, itemCount int) error
}

// Recorder writes each event to History and then announces it through a
// Service. Announcements run in the background; call Wait before exit.
type Recorder struct {
	history  History
	notifier Service
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewRecorder wraps history. A nil notifier behaves like a disabled one.
func NewRecorder(history History, notifier Service, logger *slog.Logger) *Recorder {
	if notifier == nil {
		notifier = noopService{}
	}
	return &Recorder{
		history:  history,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "notifications"),
	}
}

// RecordEvent persists the event and queues its notification. Only the
// history write can fail the call.
func (r *Recorder) RecordEvent(ctx context.Context, kind cart.EventKind, detail string, itemCount int) error {
	if r.history != nil {
		if err := r.history.RecordEvent(ctx, kind, detail, itemCount); err != nil {
			return err
		}
	}
	if !Enabled(r.notifier) {
		return nil
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		// The push outlives the request that triggered it.
		pushCtx := context.WithoutCancel(ctx)
		if err := r.announce(pushCtx, kind, detail, itemCount); err != nil {
			logging.WarnWithContext(r.logger, "notification not delivered", "notify_failed",
				logging.String("event", string(kind)),
				logging.Error(err),
				logging.String(logging.FieldImpact, "operator will not get a push for this order event"),
				logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
			)
		}
	}()
	return nil
}

// Wait blocks until queued notifications finish.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

func (r *Recorder) announce(ctx context.Context, kind cart.EventKind, detail string, count int) error {
	switch kind {
	case cart.EventMaterialized:
		return r.notifier.NotifyClientFolder(ctx, detail, count)
	case cart.EventConfirmed:
		return r.notifier.NotifyCartConfirmed(ctx, detail, count)
	case cart.EventDiscarded:
		return r.notifier.NotifyCartDiscarded(ctx, count)
	default:
		return nil
	}
}
