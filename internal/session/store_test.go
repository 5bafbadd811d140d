package session

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreLoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"), "")

	state, err := store.Load()
	require.NoError(t, err)
	assert.True(t, state.Empty())
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path, "")

	expected := State{
		Username: "ada",
		Cookies:  []Cookie{{Name: "session", Value: "abc", Path: "/api"}, {Name: "csrf", Value: "xyz"}},
		SavedAt:  time.Now().UTC().Round(time.Second),
	}
	require.NoError(t, store.Save(expected))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, expected.Username, got.Username)
	assert.Equal(t, expected.Cookies, got.Cookies)
	assert.True(t, expected.SavedAt.Equal(got.SavedAt))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path, filepath.Join(t.TempDir(), "session.lock"))

	require.NoError(t, store.Clear(), "clearing a missing file is fine")
	require.NoError(t, store.Save(State{Cookies: []Cookie{{Name: "s", Value: "v"}}}))
	require.NoError(t, store.Clear())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path, "").Load()
	assert.ErrorContains(t, err, "decode session state")
}

func TestCookieConversion(t *testing.T) {
	stored := toStored([]*http.Cookie{nil, {Name: ""}, {Name: "session", Value: "abc", Path: "/api", Domain: "example.com"}})
	assert.Equal(t, []Cookie{{Name: "session", Value: "abc", Path: "/api"}}, stored)

	back := toHTTP(append(stored, Cookie{Name: "pref", Value: "dark"}))
	require.Len(t, back, 2)
	assert.Equal(t, "session", back[0].Name)
	assert.Equal(t, "abc", back[0].Value)
	assert.Equal(t, "/api", back[0].Path)
	assert.Empty(t, back[0].Domain)
	assert.Equal(t, "/", back[1].Path, "unscoped cookies apply to the whole origin")
}

func TestStateLiveSkipsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	state := State{Cookies: []Cookie{
		{Name: "old", Value: "1", Expires: now.Add(-time.Minute)},
		{Name: "session", Value: "2"},
		{Name: "later", Value: "3", Expires: now.Add(time.Hour)},
	}}

	live := state.Live(now)
	require.Len(t, live, 2)
	assert.Equal(t, "session", live[0].Name)
	assert.Equal(t, "later", live[1].Name)
}
