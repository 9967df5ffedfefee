package jenkins

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string
}

type fakeServer struct {
	*httptest.Server
	Router chi.Router

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	s := &fakeServer{
		Router: chi.NewRouter(),
	}

	s.Router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)

			s.mu.Lock()
			s.requests = append(s.requests, recordedRequest{
				Method: r.Method,
				Path:   r.URL.Path,
				Query:  r.URL.Query(),
				Header: r.Header.Clone(),
				Body:   string(body),
			})
			s.mu.Unlock()

			next.ServeHTTP(w, r)
		})
	})

	s.Server = httptest.NewServer(s.Router)
	t.Cleanup(s.Close)

	return s
}

func (s *fakeServer) Requests() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]recordedRequest{}, s.requests...)
}

func (s *fakeServer) Count(method, path string) int {
	count := 0

	for _, req := range s.Requests() {
		if req.Method == method && req.Path == path {
			count++
		}
	}

	return count
}

func (s *fakeServer) client(t *testing.T, opts ...Option) *Client {
	t.Helper()

	client, err := NewClient(
		append([]Option{WithEndpoint(s.URL)}, opts...)...,
	)

	require.NoError(t, err)
	return client
}

func writeJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		_, _ = io.WriteString(w, body)
	}
}

func writeStatus(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}
}

func pathParam(r *http.Request, key string) string {
	value, err := url.PathUnescape(chi.URLParam(r, key))

	if err != nil {
		return chi.URLParam(r, key)
	}

	return value
}
