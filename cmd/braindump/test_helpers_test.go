package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"braindump/internal/api"
	"braindump/internal/config"
)

// fakeService imitates the note service endpoints the CLI talks to.
type fakeService struct {
	t *testing.T

	mu        sync.Mutex
	notes     []map[string]any
	aiCalls   int
	prefCalls int
}

const sessionToken = "token-abc"

func (s *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	authed := false
	if c, err := r.Cookie("session"); err == nil && c.Value == sessionToken {
		authed = true
	}

	switch r.URL.Path {
	case api.PathLogin:
		var body map[string]string
		assert.NoError(s.t, json.NewDecoder(r.Body).Decode(&body))
		if body["username"] == "ada" && body["password"] == "secret" {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: sessionToken, Path: "/"})
			_, _ = io.WriteString(w, `{"success":true}`)
			return
		}
		_, _ = io.WriteString(w, `{"success":false}`)
	case api.PathNotes:
		if !authed {
			_, _ = io.WriteString(w, `{"success":false,"error":"unauthorized"}`)
			return
		}
		var body map[string]any
		assert.NoError(s.t, json.NewDecoder(r.Body).Decode(&body))
		s.mu.Lock()
		s.notes = append(s.notes, body)
		s.mu.Unlock()
		_, _ = io.WriteString(w, `{"success":true}`)
	case api.PathAI:
		s.mu.Lock()
		s.aiCalls++
		s.mu.Unlock()
		_, _ = io.WriteString(w, `{"content":[{"text":"grocery, urgent"}]}`)
	case api.PathCheckAnthropic:
		_, _ = io.WriteString(w, `{"hasApiKey":true}`)
	case api.PathCheckOpenAI:
		_, _ = io.WriteString(w, `{"hasApiKey":false}`)
	case api.PathModelPreferences:
		s.mu.Lock()
		s.prefCalls++
		s.mu.Unlock()
		_, _ = io.WriteString(w, `{"success":true,"tagModel":"claude-3-haiku"}`)
	default:
		s.t.Errorf("unexpected path %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *fakeService) submitted() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.notes...)
}

func (s *fakeService) calls() (ai, prefs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aiCalls, s.prefCalls
}

type cliTestEnv struct {
	service    *fakeService
	server     *httptest.Server
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	require.NoError(t, os.MkdirAll(home, 0o755))
	t.Setenv("HOME", home)
	t.Setenv("BRAINDUMP_SERVER", "")
	t.Setenv("BRAINDUMP_USERNAME", "")

	svc := &fakeService{t: t}
	server := httptest.NewServer(svc)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Server.BaseURL = server.URL
	cfg.Server.TimeoutSeconds = 5
	cfg.Session.Path = filepath.Join(base, "data", "session.json")
	cfg.History.Path = filepath.Join(base, "data", "history.db")
	cfg.Logging.Level = "error"

	configPath := filepath.Join(base, "braindump.toml")
	writeTestConfig(t, configPath, &cfg)

	return &cliTestEnv{service: svc, server: server, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func login(t *testing.T, env *cliTestEnv) {
	t.Helper()
	out, _, err := runCLI(t, env, "secret\n", "login", "-u", "ada")
	require.NoError(t, err)
	require.Contains(t, out, "Logged in as ada")
}
