package jenkins

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rootFixture = `{
	"_class": "hudson.model.Hudson",
	"mode": "NORMAL",
	"nodeName": "",
	"numExecutors": 2,
	"useCrumbs": true,
	"useSecurity": true,
	"jobs": [
		{"_class": "hudson.model.FreeStyleProject", "name": "demo", "url": "http://localhost/job/demo/", "color": "blue"},
		{"_class": "hudson.model.FreeStyleProject", "name": "other", "url": "http://localhost/job/other/", "color": "red"}
	],
	"views": [
		{"name": "all", "url": "http://localhost/"}
	],
	"primaryView": {"name": "all", "url": "http://localhost/"}
}`

func TestRootLoadsOnce(t *testing.T) {
	s := newFakeServer(t)
	s.Router.Get("/api/json", writeJSON(rootFixture))

	client := s.client(t)

	for range 3 {
		root, err := client.Root(context.Background())
		require.NoError(t, err)
		assert.Len(t, root.Jobs, 2)
		assert.Equal(t, 2, root.NumExecutors)
	}

	assert.Equal(t, 1, s.Count(http.MethodGet, "/api/json"))
}

func TestRootRetriesAfterFailure(t *testing.T) {
	fail := atomic.Bool{}
	fail.Store(true)

	s := newFakeServer(t)
	s.Router.Get("/api/json", func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		writeJSON(rootFixture)(w, r)
	})

	client := s.client(t)

	_, err := client.Root(context.Background())
	require.Error(t, err)

	fail.Store(false)

	root, err := client.Root(context.Background())
	require.NoError(t, err)
	assert.Len(t, root.Jobs, 2)
}

func TestRootNullBody(t *testing.T) {
	s := newFakeServer(t)
	s.Router.Get("/api/json", writeJSON("null"))

	client := s.client(t)

	summaries, err := client.Job.Summaries(context.Background())
	assert.Nil(t, summaries)

	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.ErrorIs(t, err, errNullRoot)
}

func TestNullCacheFallsBackToServer(t *testing.T) {
	dir := t.TempDir()

	s := newFakeServer(t)
	s.Router.Get("/api/json", writeJSON(rootFixture))

	client := s.client(t, WithCache(dir))
	require.NoError(t, os.WriteFile(client.CacheFile(), []byte("null"), 0o600))

	root, err := client.Root(context.Background())
	require.NoError(t, err)
	assert.Len(t, root.Jobs, 2)
	assert.Equal(t, 1, s.Count(http.MethodGet, "/api/json"))
}

func TestCacheFile(t *testing.T) {
	dir := t.TempDir()

	client, err := NewClient(
		WithEndpoint("https://jenkins.example.com"),
		WithUsername("admin"),
		WithCache(dir),
	)

	require.NoError(t, err)

	sum := md5.Sum([]byte("https://jenkins.example.comadmin"))

	assert.Equal(
		t,
		filepath.Join(dir, hex.EncodeToString(sum[:])+".json"),
		client.CacheFile(),
	)

	disabled, err := NewClient(WithEndpoint("https://jenkins.example.com"))
	require.NoError(t, err)
	assert.Empty(t, disabled.CacheFile())
}

func TestCacheWrittenAndReused(t *testing.T) {
	dir := t.TempDir()

	s := newFakeServer(t)
	s.Router.Get("/api/json", writeJSON(rootFixture))

	first := s.client(t, WithCache(dir))

	_, err := first.Root(context.Background())
	require.NoError(t, err)

	content, err := os.ReadFile(first.CacheFile())
	require.NoError(t, err)
	assert.JSONEq(t, rootFixture, string(content))

	second := s.client(t, WithCache(dir))

	root, err := second.Root(context.Background())
	require.NoError(t, err)
	assert.Len(t, root.Jobs, 2)

	assert.Equal(t, 1, s.Count(http.MethodGet, "/api/json"))
}

func TestCorruptCacheFallsBackToServer(t *testing.T) {
	dir := t.TempDir()

	s := newFakeServer(t)
	s.Router.Get("/api/json", writeJSON(rootFixture))

	client := s.client(t, WithCache(dir))
	require.NoError(t, os.WriteFile(client.CacheFile(), []byte("{"), 0o600))

	root, err := client.Root(context.Background())
	require.NoError(t, err)
	assert.Len(t, root.Jobs, 2)

	content, err := os.ReadFile(client.CacheFile())
	require.NoError(t, err)
	assert.JSONEq(t, rootFixture, string(content))
}

func TestRefreshCache(t *testing.T) {
	dir := t.TempDir()
	body := atomic.Value{}
	body.Store(`{"jobs":[{"name":"demo"}]}`)

	s := newFakeServer(t)
	s.Router.Get("/api/json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(body.Load().(string))(w, r)
	})

	client := s.client(t, WithCache(dir))

	root, err := client.Root(context.Background())
	require.NoError(t, err)
	assert.Len(t, root.Jobs, 1)

	body.Store(rootFixture)

	require.NoError(t, client.RefreshCache(context.Background()))

	root, err = client.Root(context.Background())
	require.NoError(t, err)
	assert.Len(t, root.Jobs, 2)

	content, err := os.ReadFile(client.CacheFile())
	require.NoError(t, err)
	assert.JSONEq(t, rootFixture, string(content))
}
