package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"braindump/internal/api"
	"braindump/internal/autotag"
	"braindump/internal/capability"
	"braindump/internal/config"
	"braindump/internal/history"
	"braindump/internal/logging"
	"braindump/internal/notes"
	"braindump/internal/session"
)

var errNotLoggedIn = errors.New("not logged in; run `braindump login` first")

type commandContext struct {
	configFlag *string
	serverFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	clientOnce sync.Once
	client     *api.Client
	session    *session.Manager
	clientErr  error

	history *history.Store
}

func newCommandContext(configFlag, serverFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		serverFlag: serverFlag,
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
		if c.serverFlag != nil {
			if server := strings.TrimRight(strings.TrimSpace(*c.serverFlag), "/"); server != "" {
				cfg.Server.BaseURL = server
				if err := cfg.Validate(); err != nil {
					c.configErr = err
					return
				}
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// ensureClient builds the HTTP client and session manager, restoring any
// persisted session into the cookie jar.
func (c *commandContext) ensureClient() (*api.Client, *session.Manager, error) {
	c.clientOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.clientErr = err
			return
		}
		logger, err := c.ensureLogger()
		if err != nil {
			c.clientErr = err
			return
		}
		client, err := api.NewClient(api.Config{
			BaseURL:   cfg.Server.BaseURL,
			Timeout:   cfg.RequestTimeout(),
			UserAgent: cfg.Server.UserAgent,
		}, api.WithLogger(logger))
		if err != nil {
			c.clientErr = err
			return
		}
		store := session.NewFileStore(cfg.Session.Path, cfg.SessionLockPath())
		manager := session.NewManager(client, store, logger)
		if _, err := manager.Restore(); err != nil {
			logging.WarnWithContext(logger, "ignoring unreadable session", "session_restore_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "login required"),
			)
		}
		c.client = client
		c.session = manager
	})
	return c.client, c.session, c.clientErr
}

// requireSession returns the client only when a session exists.
func (c *commandContext) requireSession() (*api.Client, *session.Manager, error) {
	client, manager, err := c.ensureClient()
	if err != nil {
		return nil, nil, err
	}
	if !manager.LoggedIn() {
		return nil, nil, errNotLoggedIn
	}
	return client, manager, nil
}

func (c *commandContext) openHistory() (*history.Store, error) {
	if c.history != nil {
		return c.history, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	c.history = store
	return store, nil
}

func (c *commandContext) newOrchestrator(client *api.Client, observer notes.Observer) (*notes.Orchestrator, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	opts := []notes.Option{notes.WithObserver(observer)}
	store, err := c.openHistory()
	if err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "submissions will not be recorded locally"),
		)
	} else if store != nil {
		opts = append(opts, notes.WithRecorder(store))
	}
	return notes.NewOrchestrator(client, autotag.NewResolver(client, logger), logger, opts...), nil
}

// resolveCapabilities only contacts the service when auto-tagging is wanted.
func (c *commandContext) resolveCapabilities(cmd *cobra.Command, client *api.Client, useLLM bool) (capability.Capabilities, error) {
	if !useLLM {
		return capability.Capabilities{}, nil
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return capability.Capabilities{}, err
	}
	return capability.NewResolver(client, logger).Resolve(cmd.Context()), nil
}

func (c *commandContext) close() error {
	if c.history == nil {
		return nil
	}
	err := c.history.Close()
	c.history = nil
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
