package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateBrowse(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateNotifications()
}

func (c *Config) validateBackend() error {
	for key, raw := range map[string]string{
		"backend.base_url":   c.Backend.BaseURL,
		"backend.media_root": c.Backend.MediaRoot,
	} {
		parsed, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("%s must be an http or https URL, got %q", key, raw)
		}
		if parsed.Host == "" {
			return fmt.Errorf("%s must include a host", key)
		}
	}
	if c.Backend.RequestTimeout <= 0 {
		return errors.New("backend.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateBrowse() error {
	if err := ensurePositiveMap(map[string]int{
		"browse.client_depth":  c.Browse.ClientDepth,
		"browse.poll_interval": c.Browse.PollInterval,
	}); err != nil {
		return err
	}
	if strings.Contains(c.Browse.RootTemplate, "//") {
		return fmt.Errorf("browse.root_template must not contain empty segments: %q", c.Browse.RootTemplate)
	}
	rootDepth := strings.Count(c.Browse.RootTemplate, "/") + 1
	if c.Browse.ClientDepth <= rootDepth {
		return fmt.Errorf("browse.client_depth (%d) must be deeper than the root template (%d segments)", c.Browse.ClientDepth, rootDepth)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic == "" {
		return nil
	}
	parsed, err := url.Parse(topic)
	if err != nil {
		return fmt.Errorf("notifications.ntfy_topic: %w", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic must be a full topic URL, got %q", topic)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
