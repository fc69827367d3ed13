package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

type Metrics struct {
	Kafka  KafkaMetrics
	API    APIMetrics
	Repo   RepoMetrics
	Cron   CronMetrics
	Events EventMetrics
	Go     GoMetrics
}

type KafkaMetrics struct {
	// Producer
	ProducerAttemptLatencySeconds *prometheus.HistogramVec
	ProducerOperationsTotal       *prometheus.CounterVec
	ProducerSuccessAttempts       *prometheus.HistogramVec

	// Consumer
	ConsumerMessagesTotal   *prometheus.CounterVec
	ConsumerProcessDuration *prometheus.HistogramVec
	ConsumerRebalancesTotal *prometheus.CounterVec
	ConsumerInFlight        *prometheus.GaugeVec
}

type APIMetrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

type RepoMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	DurationSeconds *prometheus.HistogramVec
}

type CronMetrics struct {
	RunsTotal       *prometheus.CounterVec
	DurationSeconds *prometheus.HistogramVec
}

type EventMetrics struct {
	EmittedTotal    *prometheus.CounterVec
	DispatchedTotal *prometheus.CounterVec
	OutboxTotal     *prometheus.CounterVec
}

type GoMetrics struct {
	InternalGoroutines *prometheus.GaugeVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Kafka: KafkaMetrics{
			ProducerAttemptLatencySeconds: f.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "kafka",
				Name:      "producer_attempt_latency_seconds",
				Help:      "Latency per single produce attempt.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"topic", "result"}), // ok|error

			ProducerOperationsTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "kafka",
				Name:      "producer_operations_total",
				Help:      "Total produce operations (one call) by result.",
			}, []string{"topic", "result"}), // success|failed|permanent|canceled

			ProducerSuccessAttempts: f.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "kafka",
				Name:      "producer_success_attempts",
				Help:      "Attempt number on which produce operation succeeded.",
				Buckets:   []float64{1, 2, 3, 4, 5},
			}, []string{"topic"}),

			ConsumerMessagesTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "kafka",
				Name:      "consumer_messages_total",
				Help:      "Total consumed Kafka messages by topic and result.",
			}, []string{"topic", "result"}), // ok|decode_error

			ConsumerProcessDuration: f.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "kafka",
				Name:      "consumer_process_duration_seconds",
				Help:      "Kafka message processing duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"topic"}),

			ConsumerRebalancesTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "kafka",
				Name:      "consumer_rebalances_total",
				Help:      "Consumer rebalance lifecycle events.",
			}, []string{"event"}),

			ConsumerInFlight: f.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "kafka",
				Name:      "consumer_inflight_messages",
				Help:      "Messages currently being processed.",
			}, []string{"topic"}),
		},

		API: APIMetrics{
			HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by method, path and status.",
			}, []string{"method", "path", "status"}),

			HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			}, []string{"method", "path", "status"}),
		},

		Repo: RepoMetrics{
			RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "requests_total",
				Help:      "Total document store requests by collection, operation and result.",
			}, []string{"collection", "op", "result"}),

			DurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "request_duration_seconds",
				Help:      "Document store request duration in seconds.",
				Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			}, []string{"collection", "op"}),
		},

		Cron: CronMetrics{
			RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cron",
				Name:      "runs_total",
				Help:      "Cron job runs by job and result.",
			}, []string{"job", "result"}), // ok|error|skipped|panic

			DurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "cron",
				Name:      "run_duration_seconds",
				Help:      "Cron job run duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"job"}),
		},

		Events: EventMetrics{
			EmittedTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "emitted_total",
				Help:      "Events written to the outbox by event and trigger.",
			}, []string{"event", "trigger"}),

			DispatchedTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "dispatched_total",
				Help:      "Events dispatched to in-process listeners by event and result.",
			}, []string{"event", "result"}),

			OutboxTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "outbox_transitions_total",
				Help:      "Outbox status transitions.",
			}, []string{"status"}), // SENT|FAILED|GAVE_UP
		},

		Go: GoMetrics{
			InternalGoroutines: f.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "go",
				Name:      "internal_goroutines",
				Help:      "Number of running internal goroutines by name.",
			}, []string{"name"}),
		},
	}
}
