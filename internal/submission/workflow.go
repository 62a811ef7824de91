package submission

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/text/unicode/norm"

	"gallerist/internal/assets"
	"gallerist/internal/backend"
	"gallerist/internal/logging"
	"gallerist/internal/services"
)

const component = "submission"

// Backend is the part of the asset service the workflow needs.
type Backend interface {
	CreateClientFolder(ctx context.Context, client string, files []string) (backend.CreateClientResult, error)
	ConfirmCart(ctx context.Context, email string, files []string) (backend.ConfirmCartResult, error)
}

// Materialized describes a freshly created client folder.
type Materialized struct {
	Folder  string   `json:"folder"`
	URLs    []string `json:"urls"`
	Message string   `json:"message,omitempty"`
}

// Confirmed describes an accepted cart.
type Confirmed struct {
	Email  string   `json:"email"`
	Count  int      `json:"count"`
	Copied []string `json:"copied"`
}

// Workflow submits selections and carts.
type Workflow struct {
	api       Backend
	mediaRoot string
	logger    *slog.Logger
	busy      atomic.Bool
}

// New builds a workflow that rewrites returned paths under mediaRoot.
func New(api Backend, mediaRoot string, logger *slog.Logger) *Workflow {
	return &Workflow{
		api:       api,
		mediaRoot: strings.TrimRight(mediaRoot, "/"),
		logger:    logging.NewComponentLogger(logger, component),
	}
}

// Busy reports whether a request is in flight.
func (w *Workflow) Busy() bool { return w.busy.Load() }

// Begin claims the busy flag. The returned release must be called once the
// request finishes.
func (w *Workflow) Begin() (func(), error) {
	if !w.busy.CompareAndSwap(false, true) {
		return nil, services.Wrap(services.ErrBusy, component, "begin", "", nil)
	}
	var once atomic.Bool
	return func() {
		if once.CompareAndSwap(false, true) {
			w.busy.Store(false)
		}
	}, nil
}

// NormalizeClientName trims and NFC-normalizes a typed client name.
func NormalizeClientName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Materialize asks the service to move rng into a folder named client and
// returns the browser URLs of the moved files.
func (w *Workflow) Materialize(ctx context.Context, client string, rng []string) (Materialized, error) {
	name := NormalizeClientName(client)
	if name == "" {
		return Materialized{}, services.Wrap(services.ErrValidation, component, "materialize", "enter a client name", nil)
	}
	if strings.Contains(name, "/") {
		return Materialized{}, services.Wrap(services.ErrValidation, component, "materialize", "client name cannot contain '/'", nil)
	}
	if len(rng) == 0 {
		return Materialized{}, services.Wrap(services.ErrValidation, component, "materialize", "select a range of images first", nil)
	}

	release, err := w.Begin()
	if err != nil {
		return Materialized{}, err
	}
	defer release()

	logger := logging.WithContext(ctx, w.logger).With(logging.String(logging.FieldClient, name))
	res, err := w.api.CreateClientFolder(ctx, name, rng)
	if err != nil {
		logging.WarnWithContext(logger, "client folder creation failed", "materialize_failed",
			logging.Error(err),
			logging.Int("files", len(rng)),
			logging.String(logging.FieldImpact, "selection kept; operator can retry"),
		)
		return Materialized{}, err
	}
	if len(res.Files) == 0 {
		return Materialized{}, services.Wrap(services.ErrBackend, component, "materialize", "no images returned", nil)
	}

	urls := make([]string, 0, len(res.Files))
	for _, file := range res.Files {
		u, err := assets.Rewrite(w.mediaRoot, file)
		if err != nil {
			return Materialized{}, services.Wrap(services.ErrBackend, component, "materialize", "asset service returned a path outside the media root", err)
		}
		urls = append(urls, u)
	}

	folder := strings.TrimSpace(res.Folder)
	if folder == "" {
		folder = assets.ClientFolderName(res.Files)
	}
	if folder == "" {
		folder = name
	}

	logger.Info("client folder created",
		logging.String("folder", folder),
		logging.Int("files", len(urls)),
	)
	return Materialized{Folder: folder, URLs: urls, Message: res.Message}, nil
}

// ConfirmCart submits urls for delivery to email.
func (w *Workflow) ConfirmCart(ctx context.Context, email string, urls []string) (Confirmed, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Confirmed{}, services.Wrap(services.ErrValidation, component, "confirm cart", "enter the client email", nil)
	}
	if len(urls) == 0 {
		return Confirmed{}, services.Wrap(services.ErrValidation, component, "confirm cart", "cart is empty", nil)
	}

	release, err := w.Begin()
	if err != nil {
		return Confirmed{}, err
	}
	defer release()

	logger := logging.WithContext(ctx, w.logger)
	res, err := w.api.ConfirmCart(ctx, email, urls)
	if err != nil {
		logging.WarnWithContext(logger, "cart confirmation failed", "confirm_failed",
			logging.Error(err),
			logging.Int("files", len(urls)),
			logging.String(logging.FieldImpact, "cart kept; operator can retry"),
		)
		return Confirmed{}, err
	}
	if res.Success != nil && !*res.Success {
		return Confirmed{}, services.Wrap(services.ErrBackend, component, "confirm cart", "asset service did not accept the cart", nil)
	}
	if res.Email != "" {
		email = res.Email
	}

	logger.Info("cart confirmed",
		logging.Int("copied", len(res.Copied)),
		logging.Int("files", len(urls)),
	)
	return Confirmed{Email: email, Count: len(res.Copied), Copied: res.Copied}, nil
}
