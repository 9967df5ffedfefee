package jenkins

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithEndpoint sets the base URL of the server.
func WithEndpoint(value string) Option {
	return func(c *Client) {
		c.endpoint = value
	}
}

// WithUsername sets the username embedded into request URLs.
func WithUsername(value string) Option {
	return func(c *Client) {
		c.username = value
	}
}

// WithPassword sets the password used when no token is configured.
func WithPassword(value string) Option {
	return func(c *Client) {
		c.password = value
	}
}

// WithToken sets the API token. It takes precedence over the password, and
// is sent as bearer token if no username is configured.
func WithToken(value string) Option {
	return func(c *Client) {
		c.token = value
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(value time.Duration) Option {
	return func(c *Client) {
		c.timeout = value
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(value *http.Client) Option {
	return func(c *Client) {
		c.client = value
	}
}

// WithLogger sets the logger.
func WithLogger(value *slog.Logger) Option {
	return func(c *Client) {
		if value != nil {
			c.logger = value
		}
	}
}

// WithCache enables the disk cache of the root listing within dir.
func WithCache(dir string) Option {
	return func(c *Client) {
		c.cacheDir = dir
	}
}

// WithCrumbs negotiates a crumb before the first mutating request.
func WithCrumbs() Option {
	return func(c *Client) {
		c.crumbs = true
	}
}
