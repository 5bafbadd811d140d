package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeServer(); err != nil {
		return err
	}
	if err := c.normalizeSession(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.Capture.DefaultTags = strings.TrimSpace(c.Capture.DefaultTags)
	return c.normalizeLogging()
}

func (c *Config) normalizeServer() error {
	if value, ok := os.LookupEnv("BRAINDUMP_SERVER"); ok && strings.TrimSpace(value) != "" {
		c.Server.BaseURL = value
	}
	c.Server.BaseURL = strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/")
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = defaultServerBaseURL
	}
	if c.Server.TimeoutSeconds <= 0 {
		c.Server.TimeoutSeconds = defaultServerTimeoutSeconds
	}
	c.Server.UserAgent = strings.TrimSpace(c.Server.UserAgent)
	if c.Server.UserAgent == "" {
		c.Server.UserAgent = defaultServerUserAgent
	}
	return nil
}

func (c *Config) normalizeSession() error {
	var err error
	if strings.TrimSpace(c.Session.Path) == "" {
		c.Session.Path = defaultSessionPath
	}
	if c.Session.Path, err = expandPath(c.Session.Path); err != nil {
		return fmt.Errorf("session.path: %w", err)
	}
	c.Session.Username = strings.TrimSpace(c.Session.Username)
	if c.Session.Username == "" {
		if value, ok := os.LookupEnv("BRAINDUMP_USERNAME"); ok {
			c.Session.Username = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
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
	if strings.TrimSpace(c.Logging.Dir) != "" {
		var err error
		if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
	}
	return nil
}
