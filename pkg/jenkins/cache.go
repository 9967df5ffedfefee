package jenkins

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

var errNullRoot = errors.New("root listing is null")

type rootState int

const (
	rootUninitialized rootState = iota
	rootLoaded
	rootFailed
)

// rootListing holds the lazily loaded /api/json document.
type rootListing struct {
	mu    sync.Mutex
	state rootState
	data  *Hudson
}

// Root returns the root listing, loading it on first use from the disk
// cache or the server.
func (c *Client) Root(ctx context.Context) (*Hudson, error) {
	c.root.mu.Lock()
	defer c.root.mu.Unlock()

	if c.root.state == rootLoaded {
		return c.root.data, nil
	}

	if c.cacheDir != "" {
		data, err := c.readCache()

		if err == nil {
			c.root.state = rootLoaded
			c.root.data = data

			return data, nil
		}

		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("Failed to read cache file, fetching from server",
				"file", c.CacheFile(),
				"err", err,
			)
		}
	}

	return c.loadRoot(ctx)
}

// RefreshCache fetches the root listing again and rewrites the cache file.
func (c *Client) RefreshCache(ctx context.Context) error {
	c.root.mu.Lock()
	defer c.root.mu.Unlock()

	_, err := c.loadRoot(ctx)
	return err
}

// CacheFile returns the path of the disk cache, empty if caching is off.
func (c *Client) CacheFile() string {
	if c.cacheDir == "" {
		return ""
	}

	sum := md5.Sum([]byte(c.endpoint + c.username))

	return filepath.Join(
		c.cacheDir,
		hex.EncodeToString(sum[:])+".json",
	)
}

// loadRoot expects the root mutex to be held.
func (c *Client) loadRoot(ctx context.Context) (*Hudson, error) {
	raw := json.RawMessage{}

	if err := c.getJSON(ctx, "api/json", &raw); err != nil {
		c.root.state = rootFailed

		return nil, fmt.Errorf("failed to get list of jobs: %w", err)
	}

	if isNull(raw) {
		c.root.state = rootFailed

		return nil, &DecodeError{
			URL: c.endpoint + "/api/json",
			Err: errNullRoot,
		}
	}

	data := &Hudson{}

	if err := json.Unmarshal(raw, data); err != nil {
		err = &DecodeError{URL: c.endpoint + "/api/json", Err: err}

		c.root.state = rootFailed

		return nil, err
	}

	c.root.state = rootLoaded
	c.root.data = data

	if c.cacheDir != "" {
		if err := c.writeCache(raw); err != nil {
			c.logger.Warn("Failed to write cache file",
				"file", c.CacheFile(),
				"err", err,
			)
		}
	}

	return data, nil
}

func (c *Client) readCache() (*Hudson, error) {
	content, err := os.ReadFile(c.CacheFile())

	if err != nil {
		return nil, err
	}

	if isNull(content) {
		return nil, fmt.Errorf("failed to parse cache file: %w", errNullRoot)
	}

	data := &Hudson{}

	if err := json.Unmarshal(content, data); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}

	return data, nil
}

func (c *Client) writeCache(raw []byte) error {
	if err := os.MkdirAll(c.cacheDir, 0o750); err != nil {
		return err
	}

	return os.WriteFile(c.CacheFile(), raw, 0o600)
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
