package action

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/promhippie/jenkins_client/pkg/jenkins"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func newFakeJenkins(t *testing.T) (*chi.Mux, *config.Config) {
	t.Helper()

	mux := chi.NewRouter()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := config.Load()
	cfg.Server.Path = "/metrics"
	cfg.Target.Timeout = 5 * time.Second
	cfg.Default.HostURL = server.URL

	return mux, cfg
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestHandlerProbes(t *testing.T) {
	mux, cfg := newFakeJenkins(t)
	mux.Get("/queue/api/json", writeJSON(`{"items":[]}`))

	client, err := newClient(cfg, discard())
	require.NoError(t, err)

	h := handler(cfg, discard(), client)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/metrics", rec.Header().Get("Location"))
}

func TestHandlerNotReady(t *testing.T) {
	mux, cfg := newFakeJenkins(t)
	mux.Get("/queue/api/json", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	client, err := newClient(cfg, discard())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler(cfg, discard(), client).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlerCollectors(t *testing.T) {
	mux, cfg := newFakeJenkins(t)
	mux.Get("/api/json", writeJSON(`{"jobs":[{"name":"demo"}]}`))
	mux.Get("/job/demo/api/json", writeJSON(`{"name":"demo","color":"blue","nextBuildNumber":1}`))
	mux.Get("/queue/api/json", writeJSON(`{"items":[]}`))
	mux.Get("/computer/api/json", writeJSON(`{"computer":[]}`))

	cfg.Collector.Jobs = true
	cfg.Collector.Queue = true
	cfg.Collector.Computers = true

	client, err := newClient(cfg, discard())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler(cfg, discard(), client).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `jenkins_job_color{class="",name="demo",path="demo"} 1`)
	assert.Contains(t, rec.Body.String(), "jenkins_queue_items 0")
	assert.Contains(t, rec.Body.String(), "jenkins_client_build_info")
}

func TestFactoryProfiles(t *testing.T) {
	_, cfg := newFakeJenkins(t)

	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
default:
  hostUrl: https://ignored.example.com
  username: admin
envs:
  prod:
    hostUrl: https://prod.example.com
    apiToken: base64://dG9rZW4=
`), 0o600))

	cfg.Target.Profiles = path
	cfg.Target.Env = "prod"

	client, err := newClient(cfg, discard())
	require.NoError(t, err)
	assert.Equal(t, "https://prod.example.com", client.URL())
	assert.Equal(t, "admin", client.Username())

	cfg.Target.Env = "staging"

	_, err = newClient(cfg, discard())

	var cerr *jenkins.ConfigError
	assert.True(t, errors.As(err, &cerr))
}

func TestJobs(t *testing.T) {
	mux, cfg := newFakeJenkins(t)
	mux.Get("/api/json", writeJSON(`{"jobs":[{"name":"zeta","color":"red"},{"name":"alpha","color":"blue"}]}`))

	out := &bytes.Buffer{}
	require.NoError(t, Jobs(context.Background(), cfg, discard(), out))

	records := []jobRecord{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &records))

	require.Len(t, records, 2)
	assert.Equal(t, "alpha", records[0].Name)
	assert.Equal(t, "red", records[1].Color)
}

func TestJobsTable(t *testing.T) {
	mux, cfg := newFakeJenkins(t)
	mux.Get("/api/json", writeJSON(`{"jobs":[{"name":"alpha","color":"blue","url":"http://ci/job/alpha/"}]}`))

	cfg.Output.Format = FormatTable

	out := &bytes.Buffer{}
	require.NoError(t, Jobs(context.Background(), cfg, discard(), out))

	assert.Contains(t, out.String(), "Color")
	assert.Contains(t, out.String(), "alpha")
	assert.Contains(t, out.String(), "http://ci/job/alpha/")
}

func TestRenderSingleAsJSON(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, render(out, FormatTable, envRecord{Env: "prod"}))

	assert.Contains(t, out.String(), `"env": "prod"`)
}

func TestBuildLast(t *testing.T) {
	mux, cfg := newFakeJenkins(t)
	mux.Get("/job/demo/api/json", writeJSON(`{"name":"demo","lastBuild":{"number":3}}`))
	mux.Get("/job/demo/3/api/json", writeJSON(`{"number":3,"result":"UNSTABLE","timestamp":0,"duration":1000}`))

	out := &bytes.Buffer{}
	require.NoError(t, Build(context.Background(), cfg, discard(), out, "demo", 0))

	record := buildRecord{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &record))

	assert.Equal(t, 3, record.Number)
	assert.Equal(t, jenkins.ResultUnstable, record.Result)
	assert.Equal(t, "1s", record.Duration)
}

func TestLaunch(t *testing.T) {
	mux, cfg := newFakeJenkins(t)
	mux.Post("/job/demo/buildWithParameters", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("BRANCH") != "main" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusCreated)
	})

	out := &bytes.Buffer{}
	require.NoError(t, Launch(context.Background(), cfg, discard(), out, "demo", map[string]string{"BRANCH": "main"}))
	assert.Contains(t, out.String(), "/job/demo")
}

func TestCancel(t *testing.T) {
	mux, cfg := newFakeJenkins(t)
	mux.Get("/queue/api/json", writeJSON(`{"items":[{"id":5,"task":{"name":"demo"}}]}`))
	mux.Post("/queue/item/5/cancelQueue", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, Cancel(context.Background(), cfg, discard(), 5))
	assert.Error(t, Cancel(context.Background(), cfg, discard(), 6))
}

func TestAvailable(t *testing.T) {
	mux, cfg := newFakeJenkins(t)
	mux.Get("/queue/api/json", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	err := Available(context.Background(), cfg, discard(), io.Discard)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestEnv(t *testing.T) {
	_, cfg := newFakeJenkins(t)
	cfg.Default.Username = "admin"
	cfg.Default.APIToken = "secret"

	out := &bytes.Buffer{}
	require.NoError(t, Env(cfg, discard(), out, ""))

	assert.NotContains(t, out.String(), "secret")

	record := envRecord{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &record))
	assert.Equal(t, "admin", record.Username)
	assert.True(t, record.APIToken)
	assert.False(t, record.Password)
}
