package exporter

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/promhippie/jenkins_client/pkg/config"
	"github.com/promhippie/jenkins_client/pkg/jenkins"
)

// ComputerCollector collects metrics about the agents.
type ComputerCollector struct {
	client   *jenkins.Client
	logger   *slog.Logger
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	config   config.Target

	Offline            *prometheus.Desc
	TemporarilyOffline *prometheus.Desc
	Idle               *prometheus.Desc
	Executors          *prometheus.Desc
}

// NewComputerCollector returns a new ComputerCollector.
func NewComputerCollector(logger *slog.Logger, client *jenkins.Client, failures *prometheus.CounterVec, duration *prometheus.HistogramVec, cfg config.Target) *ComputerCollector {
	if failures != nil {
		failures.WithLabelValues("computer").Add(0)
	}

	labels := []string{"name"}
	return &ComputerCollector{
		client:   client,
		logger:   logger.With("collector", "computer"),
		failures: failures,
		duration: duration,
		config:   cfg,

		Offline: prometheus.NewDesc(
			"jenkins_computer_offline",
			"1 if the agent is offline, 0 otherwise",
			labels,
			nil,
		),
		TemporarilyOffline: prometheus.NewDesc(
			"jenkins_computer_temporarily_offline",
			"1 if the agent has been taken offline manually, 0 otherwise",
			labels,
			nil,
		),
		Idle: prometheus.NewDesc(
			"jenkins_computer_idle",
			"1 if no executor of the agent is busy, 0 otherwise",
			labels,
			nil,
		),
		Executors: prometheus.NewDesc(
			"jenkins_computer_executors",
			"Number of executors of the agent",
			labels,
			nil,
		),
	}
}

// Metrics simply returns the list metric descriptors for generating a documentation.
func (c *ComputerCollector) Metrics() []*prometheus.Desc {
	return []*prometheus.Desc{
		c.Offline,
		c.TemporarilyOffline,
		c.Idle,
		c.Executors,
	}
}

// Describe sends the super-set of all possible descriptors of metrics collected by this Collector.
func (c *ComputerCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range c.Metrics() {
		ch <- desc
	}
}

// Collect is called by the Prometheus registry when collecting metrics.
func (c *ComputerCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.Timeout)
	defer cancel()

	now := time.Now()
	computers, err := c.client.Computer.All(ctx)
	c.duration.WithLabelValues("computer").Observe(time.Since(now).Seconds())

	if err != nil {
		c.logger.Error("Failed to fetch computers",
			"err", err,
		)

		c.failures.WithLabelValues("computer").Inc()
		return
	}

	for _, computer := range computers {
		labels := []string{
			computer.Name(),
		}

		ch <- prometheus.MustNewConstMetric(
			c.Offline,
			prometheus.GaugeValue,
			boolToGauge(computer.Offline()),
			labels...,
		)

		ch <- prometheus.MustNewConstMetric(
			c.TemporarilyOffline,
			prometheus.GaugeValue,
			boolToGauge(computer.Raw.TemporarilyOffline),
			labels...,
		)

		ch <- prometheus.MustNewConstMetric(
			c.Idle,
			prometheus.GaugeValue,
			boolToGauge(computer.Raw.Idle),
			labels...,
		)

		ch <- prometheus.MustNewConstMetric(
			c.Executors,
			prometheus.GaugeValue,
			float64(computer.Raw.NumExecutors),
			labels...,
		)
	}
}
