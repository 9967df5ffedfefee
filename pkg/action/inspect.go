package action

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/promhippie/jenkins_client/pkg/jenkins"
)

// ErrUnavailable is returned by Available if the server does not answer.
var ErrUnavailable = errors.New("jenkins is not available")

type jobRecord struct {
	Name       string                           `json:"name"`
	URL        string                           `json:"url"`
	Color      string                           `json:"color"`
	LastBuild  int                              `json:"lastBuild,omitempty"`
	Parameters map[string]jenkins.ParameterSpec `json:"parameters,omitempty"`
}

type buildRecord struct {
	Job        string         `json:"job"`
	Number     int            `json:"number"`
	URL        string         `json:"url"`
	Result     jenkins.Result `json:"result"`
	BuiltOn    string         `json:"builtOn,omitempty"`
	Timestamp  string         `json:"timestamp"`
	Duration   string         `json:"duration"`
	Remaining  string         `json:"remaining,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type queueRecord struct {
	ID         int64          `json:"id"`
	Job        string         `json:"job"`
	Why        string         `json:"why,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type computerRecord struct {
	Name         string         `json:"name"`
	Offline      bool           `json:"offline"`
	OfflineCause map[string]any `json:"offlineCause"`
	Executors    int            `json:"executors"`
}

type viewRecord struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Color       string `json:"color"`
}

type envRecord struct {
	Env      string `json:"env"`
	HostURL  string `json:"hostUrl"`
	Username string `json:"username,omitempty"`
	Password bool   `json:"password"`
	APIToken bool   `json:"apiToken"`
}

// Jobs prints the job summaries of the root listing.
func Jobs(ctx context.Context, cfg *config.Config, logger *slog.Logger, w io.Writer) error {
	client, err := newClient(cfg, logger)

	if err != nil {
		return err
	}

	summaries, err := client.Job.Summaries(ctx)

	if err != nil {
		return err
	}

	records := make(jobRecords, 0, len(summaries))

	for _, summary := range summaries {
		records = append(records, jobRecord{
			Name:  summary.Name,
			URL:   summary.URL,
			Color: summary.Color,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})

	return render(w, cfg.Output.Format, records)
}

// Job prints a single job with its parameter definitions.
func Job(ctx context.Context, cfg *config.Config, logger *slog.Logger, w io.Writer, name string) error {
	client, err := newClient(cfg, logger)

	if err != nil {
		return err
	}

	job, err := client.Job.Get(ctx, name)

	if err != nil {
		return err
	}

	record := jobRecord{
		Name:       job.Name(),
		URL:        job.URL(),
		Color:      job.Color(),
		Parameters: job.ParameterDefinitions(),
	}

	if job.Raw.LastBuild != nil {
		record.LastBuild = job.Raw.LastBuild.Number
	}

	return render(w, cfg.Output.Format, record)
}

// Launch triggers a build of a job.
func Launch(ctx context.Context, cfg *config.Config, logger *slog.Logger, w io.Writer, name string, params map[string]string) error {
	client, err := newClient(cfg, logger)

	if err != nil {
		return err
	}

	if _, err := client.Job.Launch(ctx, name, params); err != nil {
		return err
	}

	logger.Info("Launched job",
		"job", name,
		"params", len(params),
	)

	_, err = fmt.Fprintf(w, "launched %s\n", client.Job.URL(name))
	return err
}

// Build prints a single build. A number of 0 selects the last build.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, w io.Writer, name string, number int) error {
	client, err := newClient(cfg, logger)

	if err != nil {
		return err
	}

	var build *jenkins.Build

	if number > 0 {
		build, err = client.Build.Get(ctx, name, number)
	} else {
		job, jerr := client.Job.Get(ctx, name)

		if jerr != nil {
			return jerr
		}

		build, err = job.LastBuild(ctx)
	}

	if err != nil {
		return err
	}

	if build == nil {
		return fmt.Errorf("job %s has no builds", name)
	}

	record := buildRecord{
		Job:        name,
		Number:     build.Number(),
		URL:        build.URL(),
		Result:     build.Result(),
		BuiltOn:    build.BuiltOn(),
		Timestamp:  build.Timestamp().UTC().Format("2006-01-02T15:04:05Z"),
		Duration:   build.Duration().String(),
		Parameters: build.Parameters(),
	}

	if build.Running() {
		remaining, err := build.RemainingExecutionTime(ctx)

		if err != nil {
			return err
		}

		record.Remaining = remaining.String()
	}

	return render(w, cfg.Output.Format, record)
}

// Console prints the console log of a build.
func Console(ctx context.Context, cfg *config.Config, logger *slog.Logger, w io.Writer, name string, number int) error {
	client, err := newClient(cfg, logger)

	if err != nil {
		return err
	}

	text, err := client.Build.ConsoleText(ctx, name, number)

	if err != nil {
		return err
	}

	_, err = io.WriteString(w, text)
	return err
}

// Queue prints the build queue.
func Queue(ctx context.Context, cfg *config.Config, logger *slog.Logger, w io.Writer) error {
	client, err := newClient(cfg, logger)

	if err != nil {
		return err
	}

	queue, err := client.Queue.Get(ctx)

	if err != nil {
		return err
	}

	records := make(queueRecords, 0, len(queue.Raw.Items))

	for _, item := range queue.Items() {
		records = append(records, queueRecord{
			ID:         item.ID(),
			Job:        item.JobName(),
			Why:        item.Why(),
			Parameters: item.Parameters(),
		})
	}

	return render(w, cfg.Output.Format, records)
}

// Cancel removes an item from the build queue.
func Cancel(ctx context.Context, cfg *config.Config, logger *slog.Logger, id int64) error {
	client, err := newClient(cfg, logger)

	if err != nil {
		return err
	}

	queue, err := client.Queue.Get(ctx)

	if err != nil {
		return err
	}

	for _, item := range queue.Items() {
		if item.ID() == id {
			return item.Cancel(ctx)
		}
	}

	return fmt.Errorf("queue item %d not found", id)
}

// Computers prints all agents.
func Computers(ctx context.Context, cfg *config.Config, logger *slog.Logger, w io.Writer) error {
	client, err := newClient(cfg, logger)

	if err != nil {
		return err
	}

	computers, err := client.Computer.All(ctx)

	if err != nil {
		return err
	}

	records := make(computerRecords, 0, len(computers))

	for _, computer := range computers {
		records = append(records, computerRecord{
			Name:         computer.Name(),
			Offline:      computer.Offline(),
			OfflineCause: computer.OfflineCause(),
			Executors:    computer.Raw.NumExecutors,
		})
	}

	return render(w, cfg.Output.Format, records)
}

// Views prints all views with their aggregated color.
func Views(ctx context.Context, cfg *config.Config, logger *slog.Logger, w io.Writer) error {
	client, err := newClient(cfg, logger)

	if err != nil {
		return err
	}

	views, err := client.View.All(ctx)

	if err != nil {
		return err
	}

	records := make(viewRecords, 0, len(views))

	for _, view := range views {
		records = append(records, viewRecord{
			Name:        view.Name(),
			Description: view.Description(),
			URL:         view.URL(),
			Color:       view.Color(),
		})
	}

	return render(w, cfg.Output.Format, records)
}

// Available checks if the server answers.
func Available(ctx context.Context, cfg *config.Config, logger *slog.Logger, w io.Writer) error {
	client, err := newClient(cfg, logger)

	if err != nil {
		return err
	}

	if !client.IsAvailable(ctx) {
		return fmt.Errorf("%w: %s", ErrUnavailable, client.URL())
	}

	_, err = fmt.Fprintf(w, "%s is available\n", client.URL())
	return err
}

// Env prints the resolved settings of an environment without secrets.
func Env(cfg *config.Config, logger *slog.Logger, w io.Writer, name string) error {
	envs, err := factory(cfg, logger)

	if err != nil {
		return err
	}

	if name == "" {
		name = envs.Active()
	}

	env, err := envs.EnvConfig(name)

	if err != nil {
		return err
	}

	return render(w, cfg.Output.Format, envRecord{
		Env:      name,
		HostURL:  env.HostURL,
		Username: env.Username,
		Password: env.Password != "",
		APIToken: env.APIToken != "",
	})
}
