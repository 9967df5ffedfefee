package jenkins

import (
	"context"
	"fmt"
	"net/url"
)

// ViewClient is a client for the views API.
type ViewClient struct {
	client *Client
}

// View wraps the decoded response of a single view.
type View struct {
	Raw    *ViewResponse
	client *Client
}

// Get fetches a single view.
func (c *ViewClient) Get(ctx context.Context, name string) (*View, error) {
	result := &ViewResponse{}

	if err := c.client.getJSON(ctx, fmt.Sprintf("view/%s/api/json", url.PathEscape(name)), result); err != nil {
		return nil, fmt.Errorf("failed to get view %s: %w", name, err)
	}

	return &View{
		Raw:    result,
		client: c.client,
	}, nil
}

// All fetches every view of the root listing.
func (c *ViewClient) All(ctx context.Context) ([]*View, error) {
	root, err := c.client.Root(ctx)

	if err != nil {
		return nil, err
	}

	result := make([]*View, 0, len(root.Views))

	for _, summary := range root.Views {
		view, err := c.Get(ctx, summary.Name)

		if err != nil {
			return nil, err
		}

		result = append(result, view)
	}

	return result, nil
}

// Primary fetches the primary view, nil if the server reports none.
func (c *ViewClient) Primary(ctx context.Context) (*View, error) {
	root, err := c.client.Root(ctx)

	if err != nil {
		return nil, err
	}

	if root.PrimaryView == nil {
		return nil, nil
	}

	return c.Get(ctx, root.PrimaryView.Name)
}

// URL returns the page URL of a view.
func (c *ViewClient) URL(name string) string {
	return fmt.Sprintf("%s/view/%s", c.client.endpoint, url.PathEscape(name))
}

// Name returns the view name.
func (v *View) Name() string {
	return v.Raw.Name
}

// Description returns the view description, empty if unset.
func (v *View) Description() string {
	if v.Raw.Description == nil {
		return ""
	}

	return *v.Raw.Description
}

// URL returns the page URL of the view.
func (v *View) URL() string {
	return v.Raw.URL
}

// Jobs fetches every member job of the view.
func (v *View) Jobs(ctx context.Context) ([]*Job, error) {
	result := make([]*Job, 0, len(v.Raw.Jobs))

	for _, summary := range v.Raw.Jobs {
		job, err := v.client.Job.Get(ctx, summary.Name)

		if err != nil {
			return nil, err
		}

		result = append(result, job)
	}

	return result, nil
}

// Color returns the color of the most severe member job. Unknown colors
// outrank all known ones.
func (v *View) Color() string {
	color := "blue"

	for _, job := range v.Raw.Jobs {
		if ColorPriority(job.Color) > ColorPriority(color) {
			color = job.Color
		}
	}

	return color
}

// ColorPriority ranks job colors by severity.
func ColorPriority(color string) int {
	switch color {
	case "disabled":
		return 0
	case "blue":
		return 1
	case "blue_anime":
		return 2
	case "yellow":
		return 5
	case "yellow_anime":
		return 6
	case "red":
		return 10
	case "red_anime":
		return 11
	}

	return 999
}
