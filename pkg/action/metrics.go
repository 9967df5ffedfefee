package action

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/promhippie/jenkins_client/pkg/version"
)

var (
	namespace = "jenkins"
)

var (
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Histogram of latencies for requests to the api per collector.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
		[]string{"collector"},
	)

	requestFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_failures_total",
			Help:      "Total number of failed requests to the api per collector.",
		},
		[]string{"collector"},
	)

	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "client_build_info",
			Help:      "A metric with a constant '1' value labeled by version, revision and goversion.",
		},
		[]string{"version", "revision", "goversion"},
	)
)

func init() {
	buildInfo.WithLabelValues(
		version.String,
		version.Revision,
		version.Go,
	).Set(1)
}

// newRegistry creates a registry holding the process, runtime and request
// metrics.
func newRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{
		Namespace: namespace,
	}))

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(requestDuration)
	registry.MustRegister(requestFailures)
	registry.MustRegister(buildInfo)

	return registry
}

type promLogger struct {
	logger *slog.Logger
}

func (pl promLogger) Println(v ...interface{}) {
	pl.logger.Error(fmt.Sprintln(v...))
}
