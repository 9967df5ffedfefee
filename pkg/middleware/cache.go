package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// Cache writes required cache headers to all requests.
func Cache(next http.Handler) http.Handler {
	return middleware.NoCache(next)
}
