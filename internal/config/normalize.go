package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBackend()
	c.normalizeBrowse()
	c.normalizeLogging()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeBackend() {
	if value, ok := os.LookupEnv("GALLERIST_BACKEND_URL"); ok && strings.TrimSpace(value) != "" {
		c.Backend.BaseURL = value
	}
	c.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(c.Backend.BaseURL), "/")
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = defaultBaseURL
	}

	c.Backend.MediaRoot = strings.TrimSpace(c.Backend.MediaRoot)
	if c.Backend.MediaRoot == "" {
		if value, ok := os.LookupEnv("GALLERIST_MEDIA_ROOT"); ok {
			c.Backend.MediaRoot = strings.TrimSpace(value)
		}
	}
	if c.Backend.MediaRoot == "" {
		c.Backend.MediaRoot = c.Backend.BaseURL
	}
	c.Backend.MediaRoot = strings.TrimRight(c.Backend.MediaRoot, "/")

	c.Backend.ListPath = normalizeEndpoint(c.Backend.ListPath, defaultListPath)
	c.Backend.CreateClientPath = normalizeEndpoint(c.Backend.CreateClientPath, defaultCreateClientPath)
	c.Backend.ConfirmCartPath = normalizeEndpoint(c.Backend.ConfirmCartPath, defaultConfirmCartPath)
	if c.Backend.RequestTimeout == 0 {
		c.Backend.RequestTimeout = defaultRequestTimeout
	}
}

func normalizeEndpoint(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	if !strings.HasPrefix(value, "/") {
		value = "/" + value
	}
	return value
}

func (c *Config) normalizeBrowse() {
	c.Browse.RootTemplate = strings.Trim(strings.TrimSpace(c.Browse.RootTemplate), "/")
	if c.Browse.RootTemplate == "" {
		c.Browse.RootTemplate = defaultRootTemplate
	}
	if c.Browse.ClientDepth == 0 {
		c.Browse.ClientDepth = defaultClientDepth
	}
	if c.Browse.PollInterval == 0 {
		c.Browse.PollInterval = defaultPollInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}
