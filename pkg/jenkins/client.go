// Package jenkins provides a client for the Jenkins REST API.
package jenkins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a client for one Jenkins server.
type Client struct {
	endpoint string
	username string
	password string
	token    string
	timeout  time.Duration
	cacheDir string
	crumbs   bool
	client   *http.Client
	logger   *slog.Logger
	now      func() time.Time

	crumb crumbState
	root  rootListing

	Job      *JobClient
	Build    *BuildClient
	View     *ViewClient
	Computer *ComputerClient
	Queue    *QueueClient
}

// NewClient creates a new Jenkins client.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		timeout: 10 * time.Second,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.endpoint == "" {
		return nil, errors.New("missing jenkins endpoint")
	}

	u, err := url.Parse(c.endpoint)

	if err != nil {
		return nil, fmt.Errorf("failed to parse endpoint: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}

	c.endpoint = strings.TrimRight(c.endpoint, "/")

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}

	c.logger = c.logger.With("component", "jenkins", "endpoint", c.endpoint)

	c.Job = &JobClient{client: c}
	c.Build = &BuildClient{client: c}
	c.View = &ViewClient{client: c}
	c.Computer = &ComputerClient{client: c}
	c.Queue = &QueueClient{client: c}

	return c, nil
}

// URL returns the base URL of the server without credentials.
func (c *Client) URL() string {
	return c.endpoint
}

// Username returns the configured username.
func (c *Client) Username() string {
	return c.username
}

// secret prefers the API token over the password.
func (c *Client) secret() string {
	if c.token != "" {
		return c.token
	}

	return c.password
}

// BuildURL formats the path and resolves it against the endpoint. If a
// username is configured the credentials are embedded as user info.
func (c *Client) BuildURL(path string, args ...any) string {
	if len(args) > 0 {
		path = fmt.Sprintf(path, args...)
	}

	raw := c.endpoint + "/" + strings.TrimLeft(path, "/")
	u, err := url.Parse(raw)

	if err != nil {
		return raw
	}

	if c.username != "" {
		u.User = url.UserPassword(c.username, c.secret())
	}

	return u.String()
}

// NewRequest prepares a request for the given path. Requests other than GET
// carry the crumb header while crumbs are enabled.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BuildURL(path), body)

	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.username == "" && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if method != http.MethodGet {
		if c.crumbs && !c.crumbNegotiated() {
			c.EnableCrumbs(ctx)
		}

		if field, value, ok := c.CrumbHeader(); ok {
			req.Header.Set(field, value)
		}
	}

	return req, nil
}

// Do executes the request and decodes the response into v. The target can be
// nil to discard the body, *string or *[]byte for raw content, or anything
// else for JSON decoding.
func (c *Client) Do(req *http.Request, v any) (*http.Response, error) {
	target := req.URL.Redacted()

	c.logger.Debug("Sending request",
		"method", req.Method,
		"url", target,
	)

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, &TransportError{
			Method: req.Method,
			URL:    target,
			Err:    err,
		}
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)

		return resp, &StatusError{
			Method:     req.Method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		return resp, &TransportError{
			Method: req.Method,
			URL:    target,
			Err:    err,
		}
	}

	switch dst := v.(type) {
	case *string:
		*dst = string(body)
	case *[]byte:
		*dst = body
	default:
		if len(strings.TrimSpace(string(body))) == 0 {
			return resp, &DecodeError{
				URL: target,
				Err: errors.New("empty response body"),
			}
		}

		if err := json.Unmarshal(body, v); err != nil {
			return resp, &DecodeError{
				URL: target,
				Err: err,
			}
		}
	}

	return resp, nil
}

// Execute issues a request against an arbitrary path below the endpoint and
// returns the raw body. It is meant for plugin specific APIs.
func (c *Client) Execute(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := c.NewRequest(ctx, method, path, body)

	if err != nil {
		return nil, err
	}

	result := []byte{}

	if _, err := c.Do(req, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// IsAvailable reports whether the server answers a queue fetch successfully.
func (c *Client) IsAvailable(ctx context.Context) bool {
	if _, err := c.Queue.Get(ctx); err != nil {
		c.logger.Debug("Server is not available",
			"err", err,
		)

		return false
	}

	return true
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := c.NewRequest(ctx, http.MethodGet, path, nil)

	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	_, err = c.Do(req, v)
	return err
}

func (c *Client) getText(ctx context.Context, path string) (string, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, path, nil)

	if err != nil {
		return "", err
	}

	result := ""

	if _, err := c.Do(req, &result); err != nil {
		return "", err
	}

	return result, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) error {
	req, err := c.NewRequest(ctx, http.MethodPost, path, body)

	if err != nil {
		return err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	_, err = c.Do(req, nil)
	return err
}

// jobPath converts a job name into its URL path. Names of jobs inside
// folders use slashes, e.g. "folder/job" becomes "job/folder/job/job".
// JobPath expands a job name into its URL path, "a/b" becomes "job/a/job/b".
func JobPath(name string) string {
	parts := strings.Split(name, "/")
	segments := make([]string, 0, len(parts))

	for _, part := range parts {
		if part == "" {
			continue
		}

		segments = append(segments, "job/"+url.PathEscape(part))
	}

	return strings.Join(segments, "/")
}
