package jenkins

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// DefaultBuildTree is the field selection used when fetching builds.
const DefaultBuildTree = "actions[parameters,parameters[name,value]],result,duration,timestamp,number,url,estimatedDuration,builtOn"

// Result defines the outcome of a build.
type Result string

const (
	// ResultSuccess marks a successful build.
	ResultSuccess Result = "SUCCESS"
	// ResultFailure marks a failed build.
	ResultFailure Result = "FAILURE"
	// ResultUnstable marks a build with test failures.
	ResultUnstable Result = "UNSTABLE"
	// ResultAborted marks an aborted build.
	ResultAborted Result = "ABORTED"
	// ResultWaiting marks a build waiting for input.
	ResultWaiting Result = "WAITING"
	// ResultRunning marks a running build, and any unknown result.
	ResultRunning Result = "RUNNING"
)

// ParseResult maps a result reported by the server. Values without a
// dedicated constant, including empty ones, map to ResultRunning.
func ParseResult(value string) Result {
	switch Result(value) {
	case ResultSuccess, ResultFailure, ResultUnstable, ResultAborted, ResultWaiting:
		return Result(value)
	default:
		return ResultRunning
	}
}

// BuildClient is a client for the builds API.
type BuildClient struct {
	client *Client
}

// Build wraps the decoded response of a single build.
type Build struct {
	Raw    *BuildResponse
	job    string
	client *Client
}

// Get fetches a build of a job. Without a tree DefaultBuildTree is used, an
// empty tree fetches all fields.
func (c *BuildClient) Get(ctx context.Context, job string, id int, tree ...string) (*Build, error) {
	selection := DefaultBuildTree

	if len(tree) > 0 {
		selection = tree[0]
	}

	path := fmt.Sprintf("%s/%d/api/json", JobPath(job), id)

	if selection != "" {
		path = path + "?tree=" + selection
	}

	result := &BuildResponse{}

	if err := c.client.getJSON(ctx, path, result); err != nil {
		return nil, fmt.Errorf("failed to get build %s#%d: %w", job, id, err)
	}

	return &Build{
		Raw:    result,
		job:    job,
		client: c.client,
	}, nil
}

// ConsoleText returns the plain console log of a build.
func (c *BuildClient) ConsoleText(ctx context.Context, job string, id int) (string, error) {
	result, err := c.client.getText(ctx, fmt.Sprintf("%s/%d/consoleText", JobPath(job), id))

	if err != nil {
		return "", fmt.Errorf("failed to get console of build %s#%d: %w", job, id, err)
	}

	return result, nil
}

// TestReport fetches the test report of a build.
func (c *BuildClient) TestReport(ctx context.Context, job string, id int) (*TestReport, error) {
	raw := json.RawMessage{}

	if err := c.client.getJSON(ctx, fmt.Sprintf("%s/%d/testReport/api/json", JobPath(job), id), &raw); err != nil {
		return nil, fmt.Errorf("failed to get test report of build %s#%d: %w", job, id, err)
	}

	result := &TestReportResponse{}

	if err := json.Unmarshal(raw, result); err != nil {
		return nil, &DecodeError{
			URL: c.URL(job, id) + "/testReport/api/json",
			Err: err,
		}
	}

	return &TestReport{
		Raw:    result,
		raw:    raw,
		job:    job,
		number: id,
	}, nil
}

// URL returns the page URL of a build.
func (c *BuildClient) URL(job string, id int) string {
	return fmt.Sprintf("%s/%s/%d", c.client.endpoint, JobPath(job), id)
}

// Job returns the name of the job the build belongs to.
func (b *Build) Job() string {
	return b.job
}

// Number returns the build number.
func (b *Build) Number() int {
	return b.Raw.Number
}

// URL returns the page URL of the build.
func (b *Build) URL() string {
	return b.Raw.URL
}

// BuiltOn returns the agent the build ran on, empty for the built-in node.
func (b *Build) BuiltOn() string {
	return b.Raw.BuiltOn
}

// Timestamp returns the start of the build.
func (b *Build) Timestamp() time.Time {
	return time.UnixMilli(b.Raw.Timestamp)
}

// Duration returns the duration of a finished build.
func (b *Build) Duration() time.Duration {
	return time.Duration(b.Raw.Duration) * time.Millisecond
}

// Result returns the build result.
func (b *Build) Result() Result {
	if b.Raw.Result == nil {
		return ResultRunning
	}

	return ParseResult(*b.Raw.Result)
}

// Running reports whether the build has no final result yet.
func (b *Build) Running() bool {
	return b.Result() == ResultRunning
}

// Parameters returns the input parameters of the build.
func (b *Build) Parameters() map[string]any {
	return actionParameters(b.Raw.Actions)
}

// Executor looks up the executor currently running this build. It returns
// nil for finished builds or if no executor matches.
func (b *Build) Executor(ctx context.Context) (*Executor, error) {
	if !b.Running() {
		return nil, nil
	}

	executors, err := b.client.Computer.Executors(ctx, "")

	if err != nil {
		return nil, err
	}

	for _, executor := range executors {
		if executor.BuildURL() == b.URL() {
			return executor, nil
		}
	}

	return nil, nil
}

// Progress returns the progress in percent reported by the executor, false
// if no executor runs the build.
func (b *Build) Progress(ctx context.Context) (int, bool, error) {
	executor, err := b.Executor(ctx)

	if err != nil {
		return 0, false, err
	}

	if executor == nil {
		return 0, false, nil
	}

	return executor.Progress(), true, nil
}

// EstimatedDuration prefers the estimate of the server. Without it the
// estimate is derived from the elapsed time and the executor progress.
func (b *Build) EstimatedDuration(ctx context.Context) (time.Duration, error) {
	if b.Raw.EstimatedDuration != nil {
		return time.Duration(*b.Raw.EstimatedDuration/1000) * time.Second, nil
	}

	progress, ok, err := b.Progress(ctx)

	if err != nil {
		return 0, err
	}

	if !ok || progress <= 0 {
		return 0, nil
	}

	seconds := math.Ceil(float64(b.elapsedSeconds()) / (float64(progress) / 100))

	return time.Duration(seconds) * time.Second, nil
}

// RemainingExecutionTime returns the estimated time left, never negative.
func (b *Build) RemainingExecutionTime(ctx context.Context) (time.Duration, error) {
	estimated, err := b.EstimatedDuration(ctx)

	if err != nil {
		return 0, err
	}

	return remaining(int64(estimated/time.Second), b.elapsedSeconds()), nil
}

// ConsoleText returns the plain console log of the build.
func (b *Build) ConsoleText(ctx context.Context) (string, error) {
	return b.client.Build.ConsoleText(ctx, b.job, b.Number())
}

// TestReport fetches the test report of the build.
func (b *Build) TestReport(ctx context.Context) (*TestReport, error) {
	return b.client.Build.TestReport(ctx, b.job, b.Number())
}

func (b *Build) elapsedSeconds() int64 {
	return b.client.now().Unix() - b.Raw.Timestamp/1000
}

func remaining(estimated, elapsed int64) time.Duration {
	return time.Duration(max(0, estimated-elapsed)) * time.Second
}

// actionParameters collects the parameters of the first action carrying
// any.
func actionParameters(actions []Action) map[string]any {
	result := make(map[string]any)

	for _, action := range actions {
		if len(action.Parameters) == 0 {
			continue
		}

		for _, param := range action.Parameters {
			result[param.Name] = param.Value
		}

		break
	}

	return result
}
