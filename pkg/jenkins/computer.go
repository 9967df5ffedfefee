package jenkins

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// MasterComputer is the name of the built-in node.
const MasterComputer = "(master)"

// ComputerClient is a client for the computers API.
type ComputerClient struct {
	client *Client
}

// Computer wraps the decoded response of a single agent.
type Computer struct {
	Raw    *ComputerResponse
	client *Client
}

// Executor wraps the decoded response of a single executor.
type Executor struct {
	Raw      *ExecutorResponse
	computer string
	client   *Client
}

// All fetches every agent. The listing is followed by one request per
// agent.
func (c *ComputerClient) All(ctx context.Context) ([]*Computer, error) {
	set := &ComputerSet{}

	if err := c.client.getJSON(ctx, "computer/api/json", set); err != nil {
		return nil, fmt.Errorf("failed to list computers: %w", err)
	}

	result := make([]*Computer, 0, len(set.Computer))

	for _, summary := range set.Computer {
		computer, err := c.Get(ctx, summary.DisplayName)

		if err != nil {
			return nil, err
		}

		result = append(result, computer)
	}

	return result, nil
}

// Get fetches a single agent.
func (c *ComputerClient) Get(ctx context.Context, name string) (*Computer, error) {
	result := &ComputerResponse{}

	if err := c.client.getJSON(ctx, fmt.Sprintf("computer/%s/api/json", url.PathEscape(name)), result); err != nil {
		return nil, fmt.Errorf("failed to get computer %s: %w", name, err)
	}

	return &Computer{
		Raw:    result,
		client: c.client,
	}, nil
}

// Config returns the XML configuration of an agent.
func (c *ComputerClient) Config(ctx context.Context, name string) (string, error) {
	result, err := c.client.getText(ctx, fmt.Sprintf("computer/%s/config.xml", url.PathEscape(name)))

	if err != nil {
		return "", fmt.Errorf("failed to get configuration for computer %s: %w", name, err)
	}

	return result, nil
}

// SetConfig replaces the XML configuration of an agent.
func (c *ComputerClient) SetConfig(ctx context.Context, name, config string) error {
	if err := c.client.post(
		ctx,
		fmt.Sprintf("computer/%s/config.xml", url.PathEscape(name)),
		"text/xml",
		strings.NewReader(config),
	); err != nil {
		return fmt.Errorf("failed to set configuration for computer %s: %w", name, err)
	}

	return nil
}

// ToggleOffline switches an agent between online and offline.
func (c *ComputerClient) ToggleOffline(ctx context.Context, name string) error {
	if err := c.client.post(ctx, fmt.Sprintf("computer/%s/toggleOffline", url.PathEscape(name)), "", nil); err != nil {
		return fmt.Errorf("failed to toggle computer %s offline: %w", name, err)
	}

	return nil
}

// Delete removes an agent.
func (c *ComputerClient) Delete(ctx context.Context, name string) error {
	if err := c.client.post(ctx, fmt.Sprintf("computer/%s/doDelete", url.PathEscape(name)), "", nil); err != nil {
		return fmt.Errorf("failed to delete computer %s: %w", name, err)
	}

	return nil
}

// Executors fetches the executors of an agent. An empty name addresses the
// built-in node, sized by the executor count of the root listing.
func (c *ComputerClient) Executors(ctx context.Context, computer string) ([]*Executor, error) {
	count := 0

	if computer == "" {
		computer = MasterComputer

		root, err := c.client.Root(ctx)

		if err != nil {
			return nil, err
		}

		count = root.NumExecutors
	} else {
		node, err := c.Get(ctx, computer)

		if err != nil {
			return nil, err
		}

		count = node.Raw.NumExecutors
	}

	result := make([]*Executor, 0, count)

	for i := 0; i < count; i++ {
		executor, err := c.Executor(ctx, computer, i)

		if err != nil {
			return nil, err
		}

		result = append(result, executor)
	}

	return result, nil
}

// Executor fetches a single executor of an agent.
func (c *ComputerClient) Executor(ctx context.Context, computer string, number int) (*Executor, error) {
	result := &ExecutorResponse{}
	path := fmt.Sprintf("computer/%s/executors/%d/api/json", url.PathEscape(computer), number)

	if err := c.client.getJSON(ctx, path, result); err != nil {
		return nil, fmt.Errorf("failed to get executor %d@%s: %w", number, computer, err)
	}

	return &Executor{
		Raw:      result,
		computer: computer,
		client:   c.client,
	}, nil
}

// StopExecutor aborts the build running on an executor.
func (c *ComputerClient) StopExecutor(ctx context.Context, executor *Executor) error {
	path := fmt.Sprintf(
		"computer/%s/executors/%d/stop",
		url.PathEscape(executor.Computer()),
		executor.Number(),
	)

	if err := c.client.post(ctx, path, "", nil); err != nil {
		return fmt.Errorf("failed to stop executor #%d: %w", executor.Number(), err)
	}

	return nil
}

// Name returns the display name of the agent.
func (c *Computer) Name() string {
	return c.Raw.DisplayName
}

// Offline reports whether the agent is offline.
func (c *Computer) Offline() bool {
	return c.Raw.Offline
}

// OfflineCause returns the reported offline cause, empty if there is none.
func (c *Computer) OfflineCause() map[string]any {
	if c.Raw.OfflineCause == nil {
		return map[string]any{}
	}

	return c.Raw.OfflineCause
}

// ToggleOffline switches the agent between online and offline.
func (c *Computer) ToggleOffline(ctx context.Context) error {
	return c.client.Computer.ToggleOffline(ctx, c.Name())
}

// Delete removes the agent.
func (c *Computer) Delete(ctx context.Context) error {
	return c.client.Computer.Delete(ctx, c.Name())
}

// Config returns the XML configuration of the agent.
func (c *Computer) Config(ctx context.Context) (string, error) {
	return c.client.Computer.Config(ctx, c.Name())
}

// SetConfig replaces the XML configuration of the agent.
func (c *Computer) SetConfig(ctx context.Context, config string) error {
	return c.client.Computer.SetConfig(ctx, c.Name(), config)
}

// Executors fetches the executors of the agent.
func (c *Computer) Executors(ctx context.Context) ([]*Executor, error) {
	return c.client.Computer.Executors(ctx, c.Name())
}

// Computer returns the name of the agent owning the executor.
func (e *Executor) Computer() string {
	return e.computer
}

// Number returns the slot number of the executor.
func (e *Executor) Number() int {
	return e.Raw.Number
}

// Progress returns the progress of the current build in percent.
func (e *Executor) Progress() int {
	return e.Raw.Progress
}

// BuildNumber returns the number of the running build, 0 when idle.
func (e *Executor) BuildNumber() int {
	if e.Raw.CurrentExecutable == nil {
		return 0
	}

	return e.Raw.CurrentExecutable.Number
}

// BuildURL returns the URL of the running build, empty when idle.
func (e *Executor) BuildURL() string {
	if e.Raw.CurrentExecutable == nil {
		return ""
	}

	return e.Raw.CurrentExecutable.URL
}

// Stop aborts the build running on the executor.
func (e *Executor) Stop(ctx context.Context) error {
	return e.client.Computer.StopExecutor(ctx, e)
}
