package api_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"braindump/internal/api"
)

func decode(t *testing.T, raw string) api.Value {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return api.NewValue(v)
}

func TestValueNavigatesCompletionShape(t *testing.T) {
	v := decode(t, `{"content":[{"text":"grocery, urgent"}]}`)
	text, ok := v.Field("content").Index(0).Field("text").AsString()
	assert.True(t, ok)
	assert.Equal(t, "grocery, urgent", text)
	assert.False(t, v.Field("content").Index(1).Present())
}

func TestValueShapeMismatchIsAbsent(t *testing.T) {
	v := decode(t, `{"content":{"text":"nope"},"success":"true"}`)

	_, ok := v.Field("content").Index(0).Field("text").AsString()
	assert.False(t, ok)
	assert.False(t, v.Field("missing").Present())
	assert.False(t, v.Field("content").Index(-1).Present())
	assert.False(t, v.Success(), "string \"true\" is not a success flag")

	var zero api.Value
	assert.False(t, zero.Field("x").Present())
	_, ok = zero.AsBool()
	assert.False(t, ok)
}

func TestValueSuccess(t *testing.T) {
	assert.True(t, decode(t, `{"success":true}`).Success())
	assert.False(t, decode(t, `{"success":false}`).Success())
	assert.False(t, decode(t, `{}`).Success())
	assert.False(t, decode(t, `[true]`).Success())
}
