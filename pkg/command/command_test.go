package command

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeJenkins(t *testing.T) (*chi.Mux, string) {
	t.Helper()

	mux := chi.NewRouter()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return mux, server.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	cmd := New(config.Load())
	cmd.Writer = out
	cmd.ErrWriter = io.Discard

	err := cmd.Run(
		context.Background(),
		append([]string{"jenkins_client", "--log.level", "error"}, args...),
	)

	return out.String(), err
}

func TestJobsCommand(t *testing.T) {
	mux, url := newFakeJenkins(t)
	mux.Get("/api/json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"jobs":[{"name":"demo","color":"blue"}]}`)
	})

	out, err := run(t, "--jenkins.url", url, "jobs")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "demo"`)
}

func TestJobsCommandTable(t *testing.T) {
	mux, url := newFakeJenkins(t)
	mux.Get("/api/json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"jobs":[{"name":"demo","color":"blue"}]}`)
	})

	out, err := run(t, "--jenkins.url", url, "--output", "table", "jobs")
	require.NoError(t, err)
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "demo")
	assert.NotContains(t, out, `"name"`)
}

func TestLaunchCommand(t *testing.T) {
	mux, url := newFakeJenkins(t)
	mux.Post("/job/demo/buildWithParameters", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("BRANCH") != "main" || r.FormValue("TARGET") != "a=b" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusCreated)
	})

	_, err := run(t, "--jenkins.url", url, "launch", "demo", "BRANCH=main", "TARGET=a=b")
	require.NoError(t, err)

	_, err = run(t, "--jenkins.url", url, "launch", "demo", "broken")
	assert.ErrorContains(t, err, "expected KEY=VALUE")
}

func TestMissingArguments(t *testing.T) {
	_, url := newFakeJenkins(t)

	_, err := run(t, "--jenkins.url", url, "job")
	assert.ErrorContains(t, err, "missing required argument name")

	_, err = run(t, "--jenkins.url", url, "console", "demo")
	assert.ErrorContains(t, err, "missing required argument number")

	_, err = run(t, "--jenkins.url", url, "build", "demo", "zero")
	assert.ErrorContains(t, err, "invalid build number")

	_, err = run(t, "--jenkins.url", url, "cancel", "abc")
	assert.ErrorContains(t, err, "invalid queue id")
}

func TestConfigCommand(t *testing.T) {
	out, err := run(t,
		"--jenkins.url", "https://ci.example.com",
		"--jenkins.username", "admin",
		"--jenkins.token", "secret",
		"config",
	)

	require.NoError(t, err)
	assert.Contains(t, out, "https://ci.example.com")
	assert.NotContains(t, out, "secret")
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"A=1", "B=", "C=x=y"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"A": "1", "B": "", "C": "x=y"}, params)

	_, err = parseParams([]string{"=value"})
	assert.Error(t, err)
}

func TestLoggerLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"error":   slog.LevelError,
		"WARN":    slog.LevelWarn,
		"info":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"unknown": slog.LevelInfo,
	}

	for level, expected := range tests {
		cfg := config.Load()
		cfg.Logs.Level = level

		assert.Equal(t, expected, loggerLevel(cfg).Level(), level)
	}
}

func TestLoadEnvFile(t *testing.T) {
	require.NoError(t, LoadEnvFile(""))

	err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "failed to load env file")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	path := filepath.Join(t.TempDir(), "client.env")
	require.NoError(t, os.WriteFile(path, []byte("JENKINS_CLIENT_TEST_VALUE=loaded\n"), 0o600))

	t.Setenv("JENKINS_CLIENT_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("JENKINS_CLIENT_TEST_VALUE"))

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "loaded", os.Getenv("JENKINS_CLIENT_TEST_VALUE"))
}
