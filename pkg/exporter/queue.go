package exporter

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/promhippie/jenkins_client/pkg/jenkins"
)

// QueueCollector collects metrics about the build queue.
type QueueCollector struct {
	client   *jenkins.Client
	logger   *slog.Logger
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	config   config.Target
	now      func() time.Time

	Items   *prometheus.Desc
	Waiting *prometheus.Desc
	Blocked *prometheus.Desc
	Stuck   *prometheus.Desc
}

// NewQueueCollector returns a new QueueCollector.
func NewQueueCollector(logger *slog.Logger, client *jenkins.Client, failures *prometheus.CounterVec, duration *prometheus.HistogramVec, cfg config.Target) *QueueCollector {
	if failures != nil {
		failures.WithLabelValues("queue").Add(0)
	}

	labels := []string{"id", "job"}
	return &QueueCollector{
		client:   client,
		logger:   logger.With("collector", "queue"),
		failures: failures,
		duration: duration,
		config:   cfg,
		now:      time.Now,

		Items: prometheus.NewDesc(
			"jenkins_queue_items",
			"Number of items waiting in the build queue",
			nil,
			nil,
		),
		Waiting: prometheus.NewDesc(
			"jenkins_queue_item_waiting_seconds",
			"Seconds the item is waiting in the queue",
			labels,
			nil,
		),
		Blocked: prometheus.NewDesc(
			"jenkins_queue_item_blocked",
			"1 if the item is blocked, 0 otherwise",
			labels,
			nil,
		),
		Stuck: prometheus.NewDesc(
			"jenkins_queue_item_stuck",
			"1 if the item is stuck, 0 otherwise",
			labels,
			nil,
		),
	}
}

// Metrics simply returns the list metric descriptors for generating a documentation.
func (c *QueueCollector) Metrics() []*prometheus.Desc {
	return []*prometheus.Desc{
		c.Items,
		c.Waiting,
		c.Blocked,
		c.Stuck,
	}
}

// Describe sends the super-set of all possible descriptors of metrics collected by this Collector.
func (c *QueueCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range c.Metrics() {
		ch <- desc
	}
}

// Collect is called by the Prometheus registry when collecting metrics.
func (c *QueueCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.Timeout)
	defer cancel()

	now := time.Now()
	queue, err := c.client.Queue.Get(ctx)
	c.duration.WithLabelValues("queue").Observe(time.Since(now).Seconds())

	if err != nil {
		c.logger.Error("Failed to fetch queue",
			"err", err,
		)

		c.failures.WithLabelValues("queue").Inc()
		return
	}

	items := queue.Items()

	ch <- prometheus.MustNewConstMetric(
		c.Items,
		prometheus.GaugeValue,
		float64(len(items)),
	)

	for _, item := range items {
		labels := []string{
			strconv.FormatInt(item.ID(), 10),
			item.JobName(),
		}

		ch <- prometheus.MustNewConstMetric(
			c.Waiting,
			prometheus.GaugeValue,
			max(0, c.now().Sub(item.InQueueSince()).Seconds()),
			labels...,
		)

		ch <- prometheus.MustNewConstMetric(
			c.Blocked,
			prometheus.GaugeValue,
			boolToGauge(item.Raw.Blocked),
			labels...,
		)

		ch <- prometheus.MustNewConstMetric(
			c.Stuck,
			prometheus.GaugeValue,
			boolToGauge(item.Raw.Stuck),
			labels...,
		)
	}
}
