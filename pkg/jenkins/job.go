package jenkins

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// JobClient is a client for the jobs API.
type JobClient struct {
	client *Client
}

// Job wraps the decoded response of a single job.
type Job struct {
	Raw    *JobResponse
	client *Client
}

// ParameterSpec describes a single parameter definition of a job.
type ParameterSpec struct {
	Description string
	Default     any
	Type        string
	Choices     []string
}

// Summaries returns the jobs of the root listing keyed by name.
func (c *JobClient) Summaries(ctx context.Context) (map[string]JobSummary, error) {
	root, err := c.client.Root(ctx)

	if err != nil {
		return nil, err
	}

	result := make(map[string]JobSummary, len(root.Jobs))

	for _, job := range root.Jobs {
		result[job.Name] = job
	}

	return result, nil
}

// All fetches every job of the root listing keyed by name.
func (c *JobClient) All(ctx context.Context) (map[string]*Job, error) {
	root, err := c.client.Root(ctx)

	if err != nil {
		return nil, err
	}

	result := make(map[string]*Job, len(root.Jobs))

	for _, summary := range root.Jobs {
		job, err := c.Get(ctx, summary.Name)

		if err != nil {
			return nil, err
		}

		result[summary.Name] = job
	}

	return result, nil
}

// Get fetches a single job. An optional tree limits the returned fields.
func (c *JobClient) Get(ctx context.Context, name string, tree ...string) (*Job, error) {
	path := fmt.Sprintf("%s/api/json", JobPath(name))

	if len(tree) > 0 && tree[0] != "" {
		path = path + "?tree=" + tree[0]
	}

	result := &JobResponse{}

	if err := c.client.getJSON(ctx, path, result); err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", name, err)
	}

	return &Job{
		Raw:    result,
		client: c.client,
	}, nil
}

// Launch triggers a build, with parameters if any are given.
func (c *JobClient) Launch(ctx context.Context, name string, params map[string]string) (bool, error) {
	if len(params) == 0 {
		path := fmt.Sprintf("%s/build", JobPath(name))

		if err := c.client.post(ctx, path, "", nil); err != nil {
			return false, fmt.Errorf("failed to launch job %s: %w", name, err)
		}

		return true, nil
	}

	form := url.Values{}

	for key, val := range params {
		form.Set(key, val)
	}

	path := fmt.Sprintf("%s/buildWithParameters", JobPath(name))

	if err := c.client.post(
		ctx,
		path,
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	); err != nil {
		return false, fmt.Errorf("failed to launch job %s: %w", name, err)
	}

	return true, nil
}

// Create creates a job from its XML configuration. Any rejection by the
// server is reported as ErrJobExists.
func (c *JobClient) Create(ctx context.Context, name, config string) error {
	parent, leaf := splitJobName(name)
	query := url.Values{"name": []string{leaf}}

	if err := c.client.post(
		ctx,
		createItemPath(parent, query),
		"text/xml",
		strings.NewReader(config),
	); err != nil {
		if StatusCode(err) != 0 {
			return fmt.Errorf("%w: %s: %w", ErrJobExists, name, err)
		}

		return fmt.Errorf("failed to create job %s: %w", name, err)
	}

	return nil
}

// Copy creates a job as a copy of an existing one.
func (c *JobClient) Copy(ctx context.Context, name, from string) error {
	parent, leaf := splitJobName(name)
	query := url.Values{
		"mode": []string{"copy"},
		"name": []string{leaf},
		"from": []string{from},
	}

	if err := c.client.post(ctx, createItemPath(parent, query), "", nil); err != nil {
		return fmt.Errorf("failed to copy job %s from %s: %w", name, from, err)
	}

	return nil
}

// Config returns the XML configuration of a job.
func (c *JobClient) Config(ctx context.Context, name string) (string, error) {
	result, err := c.client.getText(ctx, fmt.Sprintf("%s/config.xml", JobPath(name)))

	if err != nil {
		return "", fmt.Errorf("failed to get configuration for job %s: %w", name, err)
	}

	return result, nil
}

// SetConfig replaces the XML configuration of a job.
func (c *JobClient) SetConfig(ctx context.Context, name, config string) error {
	if err := c.client.post(
		ctx,
		fmt.Sprintf("%s/config.xml", JobPath(name)),
		"text/xml",
		strings.NewReader(config),
	); err != nil {
		return fmt.Errorf("failed to set configuration for job %s: %w", name, err)
	}

	return nil
}

// Delete removes a job.
func (c *JobClient) Delete(ctx context.Context, name string) error {
	if err := c.client.post(ctx, fmt.Sprintf("%s/doDelete", JobPath(name)), "", nil); err != nil {
		return fmt.Errorf("failed to delete job %s: %w", name, err)
	}

	return nil
}

// URL returns the page URL of a job.
func (c *JobClient) URL(name string) string {
	return c.client.endpoint + "/" + JobPath(name)
}

// Name returns the job name, including parent folders if known.
func (j *Job) Name() string {
	if j.Raw.FullName != "" {
		return j.Raw.FullName
	}

	return j.Raw.Name
}

// Color returns the status badge color.
func (j *Job) Color() string {
	return j.Raw.Color
}

// URL returns the page URL of the job.
func (j *Job) URL() string {
	return j.Raw.URL
}

// Build fetches a build of this job.
func (j *Job) Build(ctx context.Context, id int) (*Build, error) {
	return j.client.Build.Get(ctx, j.Name(), id)
}

// Builds fetches every build listed for this job.
func (j *Job) Builds(ctx context.Context) ([]*Build, error) {
	result := make([]*Build, 0, len(j.Raw.Builds))

	for _, number := range j.Raw.Builds {
		build, err := j.Build(ctx, number.Number)

		if err != nil {
			return nil, err
		}

		result = append(result, build)
	}

	return result, nil
}

// LastBuild fetches the last build, nil if the job never ran.
func (j *Job) LastBuild(ctx context.Context) (*Build, error) {
	if j.Raw.LastBuild == nil {
		return nil, nil
	}

	return j.Build(ctx, j.Raw.LastBuild.Number)
}

// LastSuccessfulBuild fetches the last successful build, nil if there is none.
func (j *Job) LastSuccessfulBuild(ctx context.Context) (*Build, error) {
	if j.Raw.LastSuccessfulBuild == nil {
		return nil, nil
	}

	return j.Build(ctx, j.Raw.LastSuccessfulBuild.Number)
}

// ParameterDefinitions flattens the parameter definitions of the job.
func (j *Job) ParameterDefinitions() map[string]ParameterSpec {
	result := make(map[string]ParameterSpec)

	// Older servers expose the definitions as action instead of property.
	entries := make([]JobProperty, 0, len(j.Raw.Property)+len(j.Raw.Actions))
	entries = append(entries, j.Raw.Property...)
	entries = append(entries, j.Raw.Actions...)

	for _, entry := range entries {
		for _, def := range entry.ParameterDefinitions {
			spec := ParameterSpec{
				Type:    def.Type,
				Choices: def.Choices,
			}

			if def.Description != nil {
				spec.Description = *def.Description
			}

			if def.DefaultParameterValue != nil {
				spec.Default = def.DefaultParameterValue.Value
			}

			result[def.Name] = spec
		}
	}

	return result
}

// Config returns the XML configuration of the job.
func (j *Job) Config(ctx context.Context) (string, error) {
	return j.client.Job.Config(ctx, j.Name())
}

// Launch triggers a build of the job.
func (j *Job) Launch(ctx context.Context, params map[string]string) (bool, error) {
	return j.client.Job.Launch(ctx, j.Name(), params)
}

// Delete removes the job.
func (j *Job) Delete(ctx context.Context) error {
	return j.client.Job.Delete(ctx, j.Name())
}

func splitJobName(name string) (string, string) {
	name = strings.Trim(name, "/")
	idx := strings.LastIndex(name, "/")

	if idx < 0 {
		return "", name
	}

	return name[:idx], name[idx+1:]
}

func createItemPath(parent string, query url.Values) string {
	if parent == "" {
		return "createItem?" + query.Encode()
	}

	return JobPath(parent) + "/createItem?" + query.Encode()
}
