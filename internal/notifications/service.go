package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gallerist/internal/config"
)

const userAgent = "gallerist/0.1"

// Service sends operator-facing notifications.
type Service interface {
	NotifyClientFolder(ctx context.Context, folder string, images int) error
	NotifyCartConfirmed(ctx context.Context, email string, images int) error
	NotifyCartDiscarded(ctx context.Context, images int) error
	TestNotification(ctx context.Context) error
}

// NewService builds an ntfy-backed service, or a no-op one when the topic is
// empty.
func NewService(cfg *config.Config) Service {
	if cfg == nil || strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
		return noopService{}
	}
	return &ntfyService{
		endpoint: strings.TrimSpace(cfg.Notifications.NtfyTopic),
		client:   &http.Client{Timeout: cfg.NotificationTimeout()},
	}
}

// Enabled reports whether svc actually delivers anything.
func Enabled(svc Service) bool {
	_, noop := svc.(noopService)
	return svc != nil && !noop
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyClientFolder(ctx context.Context, folder string, images int) error {
	return n.send(ctx, message{
		title: "Gallerist - Client Folder",
		body:  fmt.Sprintf("📁 %s: %s", strings.TrimSpace(folder), plural(images, "image")),
		tags:  []string{"gallerist", "folder", "created"},
	})
}

func (n *ntfyService) NotifyCartConfirmed(ctx context.Context, email string, images int) error {
	return n.send(ctx, message{
		title:    "Gallerist - Order Delivered",
		body:     fmt.Sprintf("✅ %s sent to %s", plural(images, "image"), strings.TrimSpace(email)),
		tags:     []string{"gallerist", "cart", "confirmed"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyCartDiscarded(ctx context.Context, images int) error {
	return n.send(ctx, message{
		title:    "Gallerist - Order Discarded",
		body:     fmt.Sprintf("🗑️ Cart with %s discarded", plural(images, "image")),
		tags:     []string{"gallerist", "cart", "discarded"},
		priority: "low",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, message{
		title:    "Gallerist - Test",
		body:     "🧪 Notification system test",
		tags:     []string{"gallerist", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Title", msg.title)
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

type noopService struct{}

func (noopService) NotifyClientFolder(context.Context, string, int) error  { return nil }
func (noopService) NotifyCartConfirmed(context.Context, string, int) error { return nil }
func (noopService) NotifyCartDiscarded(context.Context, int) error         { return nil }
func (noopService) TestNotification(context.Context) error                 { return nil }
