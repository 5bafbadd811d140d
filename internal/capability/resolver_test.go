package capability_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"braindump/internal/api"
	"braindump/internal/capability"
	"braindump/internal/logging"
)

type fakeService struct {
	t         *testing.T
	anthropic string
	openai    string
	prefs     string
	delay     time.Duration

	mu        sync.Mutex
	completed map[string]bool
	prefCalls int
	order     []string
}

func (f *fakeService) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(f.t, http.MethodGet, r.Method)
		var body string
		switch r.URL.Path {
		case api.PathCheckAnthropic:
			time.Sleep(f.delay)
			body = f.anthropic
		case api.PathCheckOpenAI:
			time.Sleep(f.delay)
			body = f.openai
		case api.PathModelPreferences:
			f.mu.Lock()
			f.prefCalls++
			assert.True(f.t, f.completed[api.PathCheckAnthropic], "preferences requested before anthropic check completed")
			assert.True(f.t, f.completed[api.PathCheckOpenAI], "preferences requested before openai check completed")
			f.mu.Unlock()
			body = f.prefs
		default:
			f.t.Errorf("unexpected path %s", r.URL.Path)
		}
		f.mu.Lock()
		f.completed[r.URL.Path] = true
		f.order = append(f.order, r.URL.Path)
		f.mu.Unlock()
		if body == "!" {
			panic(http.ErrAbortHandler)
		}
		_, _ = io.WriteString(w, body)
	})
}

func resolve(t *testing.T, svc *fakeService) capability.Capabilities {
	t.Helper()
	svc.t = t
	svc.completed = map[string]bool{}
	server := httptest.NewServer(svc.handler())
	defer server.Close()

	client, err := api.NewClient(api.Config{BaseURL: server.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return capability.NewResolver(client, logging.NewNop()).Resolve(context.Background())
}

func TestResolveBothProvidersWithModel(t *testing.T) {
	svc := &fakeService{
		anthropic: `{"hasApiKey":true}`,
		openai:    `{"hasApiKey":true}`,
		prefs:     `{"success":true,"tagModel":"claude-3-haiku"}`,
		delay:     20 * time.Millisecond,
	}
	caps := resolve(t, svc)

	assert.Equal(t, capability.Capabilities{Anthropic: true, OpenAI: true, TaggingModel: "claude-3-haiku"}, caps)
	assert.Equal(t, 1, svc.prefCalls)
	require.Len(t, svc.order, 3)
	assert.Equal(t, api.PathModelPreferences, svc.order[2])
}

func TestResolveSkipsPreferencesWithoutProviders(t *testing.T) {
	svc := &fakeService{
		anthropic: `{"hasApiKey":false}`,
		openai:    `{"hasApiKey":false}`,
		prefs:     `{"success":true,"tagModel":"unused"}`,
	}
	caps := resolve(t, svc)

	assert.False(t, caps.Any())
	assert.Empty(t, caps.TaggingModel)
	assert.Zero(t, svc.prefCalls)
}

func TestResolveFailingBranchDoesNotAffectOther(t *testing.T) {
	cases := []struct {
		name      string
		anthropic string
	}{
		{name: "network", anthropic: "!"},
		{name: "malformed", anthropic: `not json`},
		{name: "missing field", anthropic: `{"ok":true}`},
		{name: "wrong type", anthropic: `{"hasApiKey":"yes"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeService{
				anthropic: tc.anthropic,
				openai:    `{"hasApiKey":true}`,
				prefs:     `{"success":true,"tagModel":"gpt-4o-mini"}`,
			}
			caps := resolve(t, svc)
			assert.False(t, caps.Anthropic)
			assert.True(t, caps.OpenAI)
			assert.Equal(t, "gpt-4o-mini", caps.TaggingModel)
		})
	}
}

func TestResolveBothFailingSkipsPreferences(t *testing.T) {
	svc := &fakeService{anthropic: "!", openai: "!", prefs: `{"success":true,"tagModel":"x"}`}
	caps := resolve(t, svc)
	assert.Equal(t, capability.Capabilities{}, caps)
	assert.Zero(t, svc.prefCalls)
}

func TestResolveUnsuccessfulPreferencesLeaveModelEmpty(t *testing.T) {
	for _, prefs := range []string{`{"success":false,"tagModel":"x"}`, `{"tagModel":"x"}`, `garbage`} {
		svc := &fakeService{anthropic: `{"hasApiKey":true}`, openai: `{"hasApiKey":false}`, prefs: prefs}
		caps := resolve(t, svc)
		assert.True(t, caps.Anthropic)
		assert.Empty(t, caps.TaggingModel, prefs)
		assert.Equal(t, 1, svc.prefCalls)
	}
}

func TestCapabilitiesAny(t *testing.T) {
	assert.False(t, capability.Capabilities{}.Any())
	assert.True(t, capability.Capabilities{Anthropic: true}.Any())
	assert.True(t, capability.Capabilities{OpenAI: true}.Any())
}
