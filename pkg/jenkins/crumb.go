package jenkins

import (
	"context"
	"sync"
)

// Crumb defines the response of the crumb issuer.
type Crumb struct {
	Class        string `json:"_class"`
	Crumb        string `json:"crumb"`
	RequestField string `json:"crumbRequestField"`
}

type crumbState struct {
	mu         sync.RWMutex
	enabled    bool
	negotiated bool
	field      string
	value      string
}

// EnableCrumbs fetches a crumb and attaches it to all following mutating
// requests. Failures leave crumbs disabled, the returned value reports the
// resulting state.
func (c *Client) EnableCrumbs(ctx context.Context) bool {
	crumb := Crumb{}
	err := c.getJSON(ctx, "crumbIssuer/api/json", &crumb)

	c.crumb.mu.Lock()
	defer c.crumb.mu.Unlock()

	c.crumb.negotiated = true

	if err != nil {
		c.logger.Warn("Failed to fetch crumb, crumbs stay disabled",
			"err", err,
		)

		c.crumb.enabled = false
		return false
	}

	if crumb.RequestField == "" || crumb.Crumb == "" {
		c.logger.Warn("Received malformed crumb, crumbs stay disabled")

		c.crumb.enabled = false
		return false
	}

	c.crumb.enabled = true
	c.crumb.field = crumb.RequestField
	c.crumb.value = crumb.Crumb

	return true
}

// DisableCrumbs stops sending the crumb header.
func (c *Client) DisableCrumbs() {
	c.crumb.mu.Lock()
	defer c.crumb.mu.Unlock()

	c.crumb.negotiated = true
	c.crumb.enabled = false
}

// CrumbsEnabled reports whether the crumb header is sent.
func (c *Client) CrumbsEnabled() bool {
	c.crumb.mu.RLock()
	defer c.crumb.mu.RUnlock()

	return c.crumb.enabled
}

// CrumbHeader returns the header name and value while crumbs are enabled.
func (c *Client) CrumbHeader() (string, string, bool) {
	c.crumb.mu.RLock()
	defer c.crumb.mu.RUnlock()

	if !c.crumb.enabled {
		return "", "", false
	}

	return c.crumb.field, c.crumb.value, true
}

func (c *Client) crumbNegotiated() bool {
	c.crumb.mu.RLock()
	defer c.crumb.mu.RUnlock()

	return c.crumb.negotiated
}
