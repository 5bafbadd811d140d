package session

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"braindump/internal/api"
	"braindump/internal/logging"
	"braindump/internal/services"
)

// Client is the transport a Manager signs in through. *api.Client satisfies it.
type Client interface {
	api.Sender
	Cookies() []*http.Cookie
	SetCookies([]*http.Cookie)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Manager tracks whether the user is signed in.
type Manager struct {
	client Client
	store  Store
	logger *slog.Logger

	mu          sync.Mutex
	loggedIn    bool
	username    string
	subscribers []chan bool
}

// NewManager constructs a Manager. A nil store disables persistence.
func NewManager(client Client, store Store, logger *slog.Logger) *Manager {
	return &Manager{
		client: client,
		store:  store,
		logger: logging.NewComponentLogger(logger, "session"),
	}
}

// LoggedIn reports the current flag.
func (m *Manager) LoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loggedIn
}

// Username returns the account name of the current session, if known.
func (m *Manager) Username() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.username
}

// Subscribe returns a channel that receives the flag after every change.
// Slow readers only see the latest value.
func (m *Manager) Subscribe() <-chan bool {
	ch := make(chan bool, 1)
	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()
	return ch
}

// Login posts the credentials and reports whether the service accepted them.
// Only an explicit success flips the flag; every failure is logged and
// leaves the session signed out.
func (m *Manager) Login(ctx context.Context, username, password string) bool {
	ctx = services.WithComponent(ctx, "session")
	logger := logging.WithContext(ctx, m.logger).With(logging.String("username", username))

	value, err := m.client.Send(ctx, http.MethodPost, api.PathLogin, credentials{Username: username, Password: password}, false)
	if err != nil {
		logging.WarnWithContext(logger, "login request failed", "login_failed",
			logging.Error(err),
			logging.ErrorKind(err),
			logging.String(logging.FieldImpact, "session remains signed out"),
		)
		return false
	}
	if !value.Success() {
		kind := "application"
		if !value.Present() {
			kind = "malformed_response"
		}
		logging.WarnWithContext(logger, "login rejected", "login_rejected",
			logging.String(logging.FieldErrorKind, kind),
			logging.String(logging.FieldErrorHint, "check username and password"),
			logging.String(logging.FieldImpact, "session remains signed out"),
		)
		return false
	}

	m.persist(logger, username)
	m.set(true, username)
	logger.Info("logged in")
	return true
}

// Restore loads persisted cookies into the transport. It reports whether a
// session was found.
func (m *Manager) Restore() (bool, error) {
	if m.store == nil {
		return false, nil
	}
	state, err := m.store.Load()
	if err != nil {
		return false, services.Wrap(services.ErrConfiguration, "session", "restore", "load session state", err)
	}
	live := state.Live(time.Now())
	if len(live) == 0 {
		if !state.Empty() {
			m.logger.Debug("persisted session expired", logging.Args(logging.String("username", state.Username))...)
		}
		return false, nil
	}
	m.client.SetCookies(toHTTP(live))
	m.set(true, state.Username)
	m.logger.Debug("session restored", logging.Args(
		logging.String("username", state.Username),
		logging.String("saved_at", state.SavedAt.Format(time.RFC3339)),
	)...)
	return true, nil
}

// Logout forgets the session locally. The service is not contacted.
func (m *Manager) Logout() error {
	expired := make([]*http.Cookie, 0)
	for _, c := range m.client.Cookies() {
		expired = append(expired, &http.Cookie{Name: c.Name, Path: c.Path, MaxAge: -1})
	}
	m.client.SetCookies(expired)

	if m.store != nil {
		if err := m.store.Clear(); err != nil {
			return services.Wrap(services.ErrConfiguration, "session", "logout", "clear session state", err)
		}
	}
	m.set(false, "")
	return nil
}

func (m *Manager) persist(logger *slog.Logger, username string) {
	if m.store == nil {
		return
	}
	cookies := toStored(m.client.Cookies())
	if len(cookies) == 0 {
		logger.Debug("login succeeded without a session cookie; nothing to persist")
		return
	}
	state := State{Username: strings.TrimSpace(username), Cookies: cookies, SavedAt: time.Now().UTC()}
	if err := m.store.Save(state); err != nil {
		logging.WarnWithContext(logger, "failed to persist session", "session_persist_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "login will not survive this invocation"),
		)
	}
}

func (m *Manager) set(loggedIn bool, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loggedIn = loggedIn
	m.username = username
	for _, ch := range m.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- loggedIn
	}
}
