package exporter

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/promhippie/jenkins_client/pkg/jenkins"
)

// JobCollector collects metrics about the jobs.
type JobCollector struct {
	client    *jenkins.Client
	logger    *slog.Logger
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	config    config.Target
	collector config.Collector

	Disabled              *prometheus.Desc
	Buildable             *prometheus.Desc
	InQueue               *prometheus.Desc
	Color                 *prometheus.Desc
	LastBuild             *prometheus.Desc
	LastCompletedBuild    *prometheus.Desc
	LastFailedBuild       *prometheus.Desc
	LastStableBuild       *prometheus.Desc
	LastSuccessfulBuild   *prometheus.Desc
	LastUnstableBuild     *prometheus.Desc
	LastUnsuccessfulBuild *prometheus.Desc
	NextBuild             *prometheus.Desc
	Duration              *prometheus.Desc
	StartTime             *prometheus.Desc
	EndTime               *prometheus.Desc
	BuildStatus           *prometheus.Desc
}

// NewJobCollector returns a new JobCollector.
func NewJobCollector(logger *slog.Logger, client *jenkins.Client, failures *prometheus.CounterVec, duration *prometheus.HistogramVec, cfg config.Target, collector config.Collector) *JobCollector {
	if failures != nil {
		failures.WithLabelValues("job").Add(0)
	}

	labels := []string{"name", "path", "class"}
	return &JobCollector{
		client:    client,
		logger:    logger.With("collector", "job"),
		failures:  failures,
		duration:  duration,
		config:    cfg,
		collector: collector,

		Disabled: prometheus.NewDesc(
			"jenkins_job_disabled",
			"1 if the job is disabled, 0 otherwise",
			labels,
			nil,
		),
		Buildable: prometheus.NewDesc(
			"jenkins_job_buildable",
			"1 if the job is buildable, 0 otherwise",
			labels,
			nil,
		),
		InQueue: prometheus.NewDesc(
			"jenkins_job_in_queue",
			"1 if the job is waiting in the queue, 0 otherwise",
			labels,
			nil,
		),
		Color: prometheus.NewDesc(
			"jenkins_job_color",
			"Color code of the jenkins job",
			labels,
			nil,
		),
		LastBuild: prometheus.NewDesc(
			"jenkins_job_last_build",
			"Builder number for last build",
			labels,
			nil,
		),
		LastCompletedBuild: prometheus.NewDesc(
			"jenkins_job_last_completed_build",
			"Builder number for last completed build",
			labels,
			nil,
		),
		LastFailedBuild: prometheus.NewDesc(
			"jenkins_job_last_failed_build",
			"Builder number for last failed build",
			labels,
			nil,
		),
		LastStableBuild: prometheus.NewDesc(
			"jenkins_job_last_stable_build",
			"Builder number for last stable build",
			labels,
			nil,
		),
		LastSuccessfulBuild: prometheus.NewDesc(
			"jenkins_job_last_successful_build",
			"Builder number for last successful build",
			labels,
			nil,
		),
		LastUnstableBuild: prometheus.NewDesc(
			"jenkins_job_last_unstable_build",
			"Builder number for last unstable build",
			labels,
			nil,
		),
		LastUnsuccessfulBuild: prometheus.NewDesc(
			"jenkins_job_last_unsuccessful_build",
			"Builder number for last unsuccessful build",
			labels,
			nil,
		),
		NextBuild: prometheus.NewDesc(
			"jenkins_job_next_build_number",
			"Next build number for the job",
			labels,
			nil,
		),
		Duration: prometheus.NewDesc(
			"jenkins_job_duration",
			"Duration of last build in ms",
			labels,
			nil,
		),
		StartTime: prometheus.NewDesc(
			"jenkins_job_start_time",
			"Start time of last build as unix timestamp",
			labels,
			nil,
		),
		EndTime: prometheus.NewDesc(
			"jenkins_job_end_time",
			"End time of last build as unix timestamp",
			labels,
			nil,
		),
		BuildStatus: prometheus.NewDesc(
			"jenkins_job_build_status",
			"Build status: 0=success, 1=failure, 2=aborted, 3=unstable, 4=in_progress, 5=queued, 6=not_built",
			labels,
			nil,
		),
	}
}

// Metrics simply returns the list metric descriptors for generating a documentation.
func (c *JobCollector) Metrics() []*prometheus.Desc {
	return []*prometheus.Desc{
		c.Disabled,
		c.Buildable,
		c.InQueue,
		c.Color,
		c.LastBuild,
		c.LastCompletedBuild,
		c.LastFailedBuild,
		c.LastStableBuild,
		c.LastSuccessfulBuild,
		c.LastUnstableBuild,
		c.LastUnsuccessfulBuild,
		c.NextBuild,
		c.Duration,
		c.StartTime,
		c.EndTime,
		c.BuildStatus,
	}
}

// Describe sends the super-set of all possible descriptors of metrics collected by this Collector.
func (c *JobCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range c.Metrics() {
		ch <- desc
	}
}

// Collect is called by the Prometheus registry when collecting metrics.
func (c *JobCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.Timeout)
	defer cancel()

	now := time.Now()
	jobs, err := c.jobs(ctx)
	c.duration.WithLabelValues("job").Observe(time.Since(now).Seconds())

	if err != nil {
		c.logger.Error("Failed to fetch jobs",
			"err", err,
		)

		c.failures.WithLabelValues("job").Inc()
		return
	}

	c.logger.Debug("Fetched jobs",
		"count", len(jobs),
	)

	names := make([]string, 0, len(jobs))

	for name := range jobs {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		job := jobs[name]

		labels := []string{
			name,
			job.Name(),
			job.Raw.Class,
		}

		ch <- prometheus.MustNewConstMetric(
			c.Disabled,
			prometheus.GaugeValue,
			boolToGauge(job.Raw.Disabled),
			labels...,
		)

		ch <- prometheus.MustNewConstMetric(
			c.Buildable,
			prometheus.GaugeValue,
			boolToGauge(job.Raw.Buildable),
			labels...,
		)

		ch <- prometheus.MustNewConstMetric(
			c.InQueue,
			prometheus.GaugeValue,
			boolToGauge(job.Raw.InQueue),
			labels...,
		)

		ch <- prometheus.MustNewConstMetric(
			c.Color,
			prometheus.GaugeValue,
			colorToGauge(job.Color()),
			labels...,
		)

		status := 6.0

		if job.Raw.LastBuild != nil {
			ch <- prometheus.MustNewConstMetric(
				c.LastBuild,
				prometheus.GaugeValue,
				float64(job.Raw.LastBuild.Number),
				labels...,
			)

			status = colorToStatus(job.Color())

			if c.collector.FetchBuildDetails {
				if value, ok := c.collectBuild(ctx, ch, job, labels); ok {
					status = value
				}
			}
		}

		if job.Raw.InQueue && status != 4.0 {
			status = 5.0
		}

		ch <- prometheus.MustNewConstMetric(
			c.BuildStatus,
			prometheus.GaugeValue,
			status,
			labels...,
		)

		for desc, ref := range map[*prometheus.Desc]*jenkins.BuildNumber{
			c.LastCompletedBuild:    job.Raw.LastCompletedBuild,
			c.LastFailedBuild:       job.Raw.LastFailedBuild,
			c.LastStableBuild:       job.Raw.LastStableBuild,
			c.LastSuccessfulBuild:   job.Raw.LastSuccessfulBuild,
			c.LastUnstableBuild:     job.Raw.LastUnstableBuild,
			c.LastUnsuccessfulBuild: job.Raw.LastUnsuccessfulBuild,
		} {
			if ref == nil {
				continue
			}

			ch <- prometheus.MustNewConstMetric(
				desc,
				prometheus.GaugeValue,
				float64(ref.Number),
				labels...,
			)
		}

		ch <- prometheus.MustNewConstMetric(
			c.NextBuild,
			prometheus.GaugeValue,
			float64(job.Raw.NextBuildNumber),
			labels...,
		)
	}
}

func (c *JobCollector) collectBuild(ctx context.Context, ch chan<- prometheus.Metric, job *jenkins.Job, labels []string) (float64, bool) {
	buildCtx, buildCancel := context.WithTimeout(ctx, 5*time.Second)
	defer buildCancel()

	build, err := job.LastBuild(buildCtx)

	if err != nil {
		c.logger.Debug("Failed to fetch last build, using job color for status",
			"job", job.Name(),
			"err", err,
		)

		c.failures.WithLabelValues("job").Inc()
		return 0, false
	}

	if build == nil {
		return 0, false
	}

	ch <- prometheus.MustNewConstMetric(
		c.Duration,
		prometheus.GaugeValue,
		float64(build.Duration().Milliseconds()),
		labels...,
	)

	ch <- prometheus.MustNewConstMetric(
		c.StartTime,
		prometheus.GaugeValue,
		float64(build.Timestamp().Unix()),
		labels...,
	)

	ch <- prometheus.MustNewConstMetric(
		c.EndTime,
		prometheus.GaugeValue,
		float64(build.Timestamp().Add(build.Duration()).Unix()),
		labels...,
	)

	return resultToStatus(build.Result()), true
}

func boolToGauge(value bool) float64 {
	if value {
		return 1.0
	}

	return 0.0
}

func colorToGauge(color string) float64 {
	switch color {
	case "blue":
		return 1.0
	case "blue_anime":
		return 1.5
	case "red":
		return 2.0
	case "red_anime":
		return 2.5
	case "yellow":
		return 3.0
	case "yellow_anime":
		return 3.5
	case "notbuilt":
		return 4.0
	case "notbuilt_anime":
		return 4.5
	case "disabled":
		return 5.0
	case "disabled_anime":
		return 5.5
	case "aborted":
		return 6.0
	case "aborted_anime":
		return 6.5
	case "grey":
		return 7.0
	case "grey_anime":
		return 7.5
	}

	return 0.0
}

// colorToStatus derives the build status from the job color.
func colorToStatus(color string) float64 {
	switch color {
	case "blue":
		return 0.0
	case "red":
		return 1.0
	case "aborted":
		return 2.0
	case "yellow":
		return 3.0
	case "blue_anime", "red_anime", "yellow_anime", "aborted_anime", "notbuilt_anime":
		return 4.0
	}

	return 6.0
}

// resultToStatus converts a build result into the build status.
// 0=success, 1=failure, 2=aborted, 3=unstable, 4=in_progress, 6=not_built
func resultToStatus(result jenkins.Result) float64 {
	switch result {
	case jenkins.ResultSuccess:
		return 0.0
	case jenkins.ResultFailure:
		return 1.0
	case jenkins.ResultAborted:
		return 2.0
	case jenkins.ResultUnstable:
		return 3.0
	case jenkins.ResultRunning, jenkins.ResultWaiting:
		return 4.0
	}

	return 6.0
}

func (c *JobCollector) jobs(ctx context.Context) (map[string]*jenkins.Job, error) {
	if len(c.collector.Folders) == 0 {
		return c.client.Job.All(ctx)
	}

	summaries, err := c.client.Job.Walk(ctx, c.collector.Folders...)

	if err != nil {
		return nil, err
	}

	result := make(map[string]*jenkins.Job, len(summaries))

	for _, summary := range summaries {
		job, err := c.client.Job.Get(ctx, summary.Name)

		if err != nil {
			return nil, err
		}

		result[summary.Name] = job
	}

	return result, nil
}
