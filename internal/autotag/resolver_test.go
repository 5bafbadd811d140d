package autotag_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"braindump/internal/api"
	"braindump/internal/autotag"
	"braindump/internal/logging"
	"braindump/internal/services"
)

type call struct {
	method      string
	path        string
	body        any
	credentials bool
}

type fakeSender struct {
	mu    sync.Mutex
	calls []call
	value api.Value
	err   error
	block chan struct{}
}

func (f *fakeSender) Send(ctx context.Context, method, path string, body any, includeCredentials bool) (api.Value, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{method: method, path: path, body: body, credentials: includeCredentials})
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return api.Value{}, ctx.Err()
		}
	}
	return f.value, f.err
}

func (f *fakeSender) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func decoded(t *testing.T, raw string) api.Value {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return api.NewValue(v)
}

func TestResolveDisabledMakesNoRequest(t *testing.T) {
	sender := &fakeSender{}
	resolver := autotag.NewResolver(sender, logging.NewNop())

	got := resolver.Resolve(context.Background(), "anything", false, "claude-3")
	assert.Equal(t, "", got)
	assert.Zero(t, sender.callCount())
}

func TestResolveReturnsFirstContentText(t *testing.T) {
	sender := &fakeSender{value: decoded(t, `{"content":[{"text":"shopping, groceries"},{"text":"ignored"}]}`)}
	resolver := autotag.NewResolver(sender, logging.NewNop())

	got := resolver.Resolve(context.Background(), "Buy milk", true, "claude-3")
	assert.Equal(t, "shopping, groceries", got)
	require.Equal(t, 1, sender.callCount())

	c := sender.calls[0]
	assert.Equal(t, http.MethodPost, c.method)
	assert.Equal(t, api.PathAI, c.path)
	assert.True(t, c.credentials)
}

func TestResolveDegradesToEmpty(t *testing.T) {
	cases := []struct {
		name  string
		value string
		err   error
	}{
		{name: "network failure", err: services.Wrap(services.ErrNetwork, "api", "POST", "boom", errors.New("refused"))},
		{name: "missing content", value: `{"error":"quota"}`},
		{name: "empty content", value: `{"content":[]}`},
		{name: "text not string", value: `{"content":[{"text":42}]}`},
		{name: "not an object", value: `[1,2,3]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sender := &fakeSender{err: tc.err}
			if tc.value != "" {
				sender.value = decoded(t, tc.value)
			}
			resolver := autotag.NewResolver(sender, logging.NewNop())
			assert.Equal(t, "", resolver.Resolve(context.Background(), "note", true, "m"))
			assert.Equal(t, 1, sender.callCount())
		})
	}
}

func TestResolveAbsentBodyIsEmpty(t *testing.T) {
	sender := &fakeSender{}
	resolver := autotag.NewResolver(sender, logging.NewNop())
	assert.Equal(t, "", resolver.Resolve(context.Background(), "note", true, "m"))
}

func TestResolveAsyncDeliversOnce(t *testing.T) {
	sender := &fakeSender{value: decoded(t, `{"content":[{"text":"a"}]}`), block: make(chan struct{})}
	resolver := autotag.NewResolver(sender, logging.NewNop())

	result := resolver.ResolveAsync(context.Background(), "note", true, "m")
	select {
	case <-result:
		t.Fatal("result delivered before request completed")
	case <-time.After(20 * time.Millisecond):
	}
	close(sender.block)

	got, ok := <-result
	require.True(t, ok)
	assert.Equal(t, "a", got)
	_, ok = <-result
	assert.False(t, ok, "channel should be closed after one value")
}

func TestResolveCanceledContext(t *testing.T) {
	sender := &fakeSender{block: make(chan struct{})}
	resolver := autotag.NewResolver(sender, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, "", resolver.Resolve(ctx, "note", true, "m"))
}

func TestResolveSendsPromptPayload(t *testing.T) {
	bodies := make(chan map[string]any, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai", r.URL.Path)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies <- body
		_, _ = io.WriteString(w, `{"content":[{"type":"text","text":"dairy"}]}`)
	}))
	defer server.Close()

	client, err := api.NewClient(api.Config{BaseURL: server.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	resolver := autotag.NewResolver(client, logging.NewNop())

	assert.Equal(t, "dairy", resolver.Resolve(context.Background(), "Buy milk", true, "claude-3-haiku"))

	body := <-bodies
	assert.Equal(t, "claude-3-haiku", body["model"])
	assert.EqualValues(t, 1024, body["max_tokens"])
	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, autotag.BuildPrompt("Buy milk"), msg["content"])
}

func TestBuildPrompt(t *testing.T) {
	want := "Please generate relevant tags for the following note. Provide only a comma-separated list of tags without any additional text or formatting.\n\nNote:\nBuy milk\n\nTags:"
	assert.Equal(t, want, autotag.BuildPrompt("Buy milk"))
}
