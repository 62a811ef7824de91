package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gallerist/internal/assets"
	"gallerist/internal/backend"
	"gallerist/internal/browser"
	"gallerist/internal/cart"
	"gallerist/internal/config"
	"gallerist/internal/logging"
	"gallerist/internal/notifications"
	"gallerist/internal/poller"
	"gallerist/internal/services"
	"gallerist/internal/submission"
)

type commandContext struct {
	configFlag *string
	sessionID  string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		sessionID:  uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// logger builds the session logger. quiet keeps console output off stderr.
func (c *commandContext) logger(quiet bool) (*slog.Logger, error) {
	return logging.NewFromConfig(c.configValue(), c.sessionID, quiet)
}

func (c *commandContext) backendClient(logger *slog.Logger) (*backend.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return backend.New(cfg, logger)
}

func (c *commandContext) workflow(logger *slog.Logger) (*submission.Workflow, error) {
	client, err := c.backendClient(logger)
	if err != nil {
		return nil, err
	}
	return submission.New(client, c.configValue().Backend.MediaRoot, logger), nil
}

func (c *commandContext) withCart(ctx context.Context, fn func(*cart.Cart, *cart.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	items, store, err := cart.OpenCart(ctx, cfg)
	if err != nil {
		if errors.Is(err, cart.ErrLocked) {
			return fmt.Errorf("%w; close the running browser first", err)
		}
		return err
	}
	defer store.Close()
	return fn(items, store)
}

// recorder wraps store so recorded order events are also pushed to ntfy.
// Callers must Wait before returning.
func (c *commandContext) recorder(store *cart.Store, logger *slog.Logger) *notifications.Recorder {
	return notifications.NewRecorder(store, notifications.NewService(c.configValue()), logger)
}

// withCartView is withCart for commands that only display cart membership.
// When another session holds the cart they proceed with an empty one.
func (c *commandContext) withCartView(ctx context.Context, fn func(*cart.Cart) error) error {
	err := c.withCart(ctx, func(items *cart.Cart, _ *cart.Store) error {
		return fn(items)
	})
	if errors.Is(err, cart.ErrLocked) {
		return fn(cart.New(nil))
	}
	return err
}

// scope resolves the root scope for day, or for today when day is empty.
func (c *commandContext) scope(day string) (string, error) {
	cfg := c.configValue()
	day = strings.TrimSpace(day)
	if day == "" {
		return cfg.RootScope(time.Now()), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, day, time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid --day %q (want YYYY-MM-DD): %w", day, err)
	}
	return cfg.RootScope(t), nil
}

// loadSession fetches the listing once and returns a session rooted at the
// scope for day.
func (c *commandContext) loadSession(ctx context.Context, day string, logger *slog.Logger, items *cart.Cart) (*browser.Session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	root, err := c.scope(day)
	if err != nil {
		return nil, err
	}
	client, err := c.backendClient(logger)
	if err != nil {
		return nil, err
	}
	ctx = services.WithRequestID(ctx, uuid.NewString())
	snap := poller.Poll(ctx, client, root)
	if snap.Err != nil {
		return nil, snap.Err
	}
	session := browser.NewSession(browser.Options{
		Root:        root,
		ClientDepth: cfg.Browse.ClientDepth,
		MediaRoot:   cfg.Backend.MediaRoot,
	}, items)
	session.ApplyRefresh(snap.Records, snap.FetchedAt)
	return session, nil
}

// walk descends through a slash-separated path relative to the root. It stops
// early when a segment opens review mode and reports whether it did.
func walk(session *browser.Session, rel string) (bool, error) {
	rel = strings.Trim(strings.TrimSpace(rel), "/")
	if rel == "" {
		return false, nil
	}
	segments := strings.Split(rel, "/")
	for i, name := range segments {
		d, err := session.Descend(name)
		if err != nil {
			return false, fmt.Errorf("open %q: %w", assets.Join(session.Current(), name), err)
		}
		if d.Review {
			if i != len(segments)-1 {
				return true, fmt.Errorf("%q is a client folder; %q cannot be opened below it", d.Target, strings.Join(segments[i+1:], "/"))
			}
			return true, nil
		}
	}
	return false, nil
}

func userError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, services.ErrTransport) || errors.Is(err, services.ErrBackend) || errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrBusy) {
		return errors.New(services.UserMessage(err))
	}
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
