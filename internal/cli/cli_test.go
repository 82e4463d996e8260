package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tessro/wavehook/internal/config"
	"github.com/tessro/wavehook/internal/errors"
	"github.com/tessro/wavehook/internal/history"
	"github.com/tessro/wavehook/internal/kv"
)

func resetFlags() {
	cfgFile = ""
	jsonOut = false
	outputFormat = "text"
	verbose = false
	cfg = nil

	nextAction = "skip"
	nextLang = ""
	nextMark = false
	cacheLimit = 0
	historyLimit = 20
	historyClear = false
	playAudio = ""
	playRefresh = 0
}

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

// setup isolates the command from the user's home and writes a config
// pointing the store into a temp dir. It returns the config path.
func setup(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{"WAVEHOOK_SERVICE_BASE_URL", "WAVEHOOK_STORE_DRIVER", "WAVEHOOK_STORE_PATH", "WAVEHOOK_LOG_FILE"} {
		t.Setenv(k, "")
	}

	c := config.Default()
	c.Store.Path = filepath.Join(dir, "state.json")
	c.Playback.Audio = "none"
	if baseURL != "" {
		c.Service.BaseURL = baseURL
	}

	path := filepath.Join(dir, "wavehook.toml")
	require.NoError(t, writeConfigFile(path, c))
	return path
}

func trackJSON(id, lang string) string {
	return fmt.Sprintf(`{
  "id": %q,
  "name": "Song %s",
  "language": %q,
  "image": [{"quality": "500x500", "url": "https://img/%s.jpg"}],
  "downloadUrl": [{"quality": "320kbps", "url": "https://audio/%s.mp3"}],
  "artists": {"primary": [{"name": "Artist"}]},
  "hook": {"primehook": "00:30", "sechook": "", "subhook": ""}
}`, id, id, lang, id, id)
}

// newService serves t1, t2, ... from /next_song and echoes ids from /song_by_id.
func newService(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()
	var n atomic.Int32
	var mu sync.Mutex
	var actions []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/next_song":
			mu.Lock()
			actions = append(actions, r.URL.Query().Get("action")+"|"+r.URL.Query().Get("preferred_lang"))
			mu.Unlock()
			_, _ = w.Write([]byte(trackJSON(fmt.Sprintf("t%d", n.Add(1)), "hindi")))
		case "/song_by_id":
			_, _ = w.Write([]byte(trackJSON(r.URL.Query().Get("id"), "tamil")))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), actions...)
	}
}

func TestVersion(t *testing.T) {
	path := setup(t, "")

	out, err := execute(t, "version", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "wavehook dev\n", out)

	out, err = execute(t, "version", "--config", path, "--json")
	require.NoError(t, err)
	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "dev", info.Version)

	out, err = execute(t, "version", "--config", path, "-o", "yaml")
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal([]byte(out), &info))
	assert.Equal(t, "unknown", info.Commit)
}

func TestUnknownOutputFormat(t *testing.T) {
	path := setup(t, "")
	_, err := execute(t, "version", "--config", path, "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestConfigInitSetShow(t *testing.T) {
	setup(t, "")
	path := filepath.Join(t.TempDir(), "nested", "wavehook.toml")

	out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created config file")
	assert.FileExists(t, path)

	_, err = execute(t, "config", "init", "--config", path)
	require.Error(t, err)

	_, err = execute(t, "config", "set", "store.driver", "sqlite", "--config", path)
	require.NoError(t, err)
	_, err = execute(t, "config", "set", "cache.ttl", "48", "--config", path)
	require.NoError(t, err)

	out, err = execute(t, "config", "show", "--config", path, "--json")
	require.NoError(t, err)
	var shown config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "sqlite", shown.Store.Driver)
	assert.Equal(t, 48, shown.Cache.TTL)
	assert.Equal(t, 5000, shown.Cache.MaxEntries)
}

func TestConfigSetRejectsInvalid(t *testing.T) {
	path := setup(t, "")

	_, err := execute(t, "config", "set", "store.driver", "postgres", "--config", path)
	require.ErrorIs(t, err, errors.ErrInvalidConfig)

	_, err = execute(t, "config", "set", "cache.ttl", "soon", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "integer")

	_, err = execute(t, "config", "set", "nodots", "x", "--config", path)
	require.Error(t, err)
}

func TestOnboardAndPrefs(t *testing.T) {
	path := setup(t, "")

	out, err := execute(t, "prefs", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Not onboarded")

	out, err = execute(t, "onboard", "Hindi", "punjabi", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "hindi, punjabi")

	out, err = execute(t, "prefs", "show", "--config", path, "--json")
	require.NoError(t, err)
	var view prefsView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.True(t, view.Onboarded)
	assert.Equal(t, "hindi", view.Best)
	assert.Equal(t, []scoreRow{{"hindi", 8}, {"punjabi", 8}}, view.Scores)

	out, err = execute(t, "prefs", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "★")

	_, err = execute(t, "prefs", "pin", "all", "--config", path)
	require.NoError(t, err)
	out, err = execute(t, "prefs", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "All languages are equal")

	_, err = execute(t, "prefs", "reset", "--config", path)
	require.NoError(t, err)
	out, err = execute(t, "prefs", "show", "--config", path, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "onboarded: false")
}

func TestNextAndCache(t *testing.T) {
	srv, actions := newService(t)
	path := setup(t, srv.URL)

	_, err := execute(t, "onboard", "hindi", "--config", path)
	require.NoError(t, err)

	out, err := execute(t, "next", "--mark", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Song t1")
	assert.Contains(t, out, "id:       t1")

	out, err = execute(t, "next", "--action", "liked", "--lang", "tamil", "--config", path, "--json")
	require.NoError(t, err)
	var track struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &track))
	assert.Equal(t, "t2", track.ID)

	assert.Equal(t, []string{"skip|hindi", "liked|tamil"}, actions())

	out, err = execute(t, "cache", "list", "--config", path, "--json")
	require.NoError(t, err)
	var entries []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "t1", entries[0].ID)

	out, err = execute(t, "cache", "list", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 cached")

	_, err = execute(t, "cache", "clear", "--config", path)
	require.NoError(t, err)
	out, err = execute(t, "cache", "list", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Cache is empty")
}

func TestNextInvalidAction(t *testing.T) {
	path := setup(t, "")
	_, err := execute(t, "next", "--action", "loved", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid action")
}

func TestTrackByID(t *testing.T) {
	srv, _ := newService(t)
	path := setup(t, srv.URL)

	out, err := execute(t, "track", "abc", "--config", path, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "id: abc")
	assert.Contains(t, out, "language: tamil")
}

func TestHistory(t *testing.T) {
	path := setup(t, "")

	out, err := execute(t, "history", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing played yet")

	store, err := kv.NewFileStore(filepath.Join(filepath.Dir(path), "state.json"))
	require.NoError(t, err)
	nav, err := history.Open(store)
	require.NoError(t, err)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, nav.RecordNewTrack(id))
	}
	require.NoError(t, store.Close())

	out, err = execute(t, "history", "-n", "2", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2nd  b")
	assert.Contains(t, out, "3rd  c")
	assert.Contains(t, out, "1 earlier tracks not shown")

	out, err = execute(t, "history", "--config", path, "--json")
	require.NoError(t, err)
	var view struct {
		Total  int      `json:"total"`
		Tracks []string `json:"tracks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 3, view.Total)
	assert.Equal(t, []string{"a", "b", "c"}, view.Tracks)

	_, err = execute(t, "history", "--clear", "--config", path)
	require.NoError(t, err)
	out, err = execute(t, "history", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing played yet")
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "hello", TruncateString("hello", 10))
	assert.Equal(t, "hel...", TruncateString("hello world", 6))
	assert.Equal(t, "he", TruncateString("hello", 2))
}

func TestScoreBar(t *testing.T) {
	assert.Equal(t, "███░░", ScoreBar(3, 5))
	assert.Equal(t, "█████", ScoreBar(9, 5))
	assert.Equal(t, "░░░░░", ScoreBar(-1, 5))
}
