package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/noorform/pkg/form"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "noorform").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for submit duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus metrics.
type Option func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "noorform",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry prometheus.Registerer

	validations    *prometheus.CounterVec
	submissions    *prometheus.CounterVec
	submitDuration *prometheus.HistogramVec
	liveSessions   prometheus.Gauge
	liveMessages   *prometheus.CounterVec
}

// NewMetrics registers the collectors. Registering twice with the same
// registry panics, so create one Metrics per registry.
func NewMetrics(opts ...Option) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		registry: config.Registry,

		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "field_validations_total",
			Help:        "Total number of field validator runs",
			ConstLabels: config.ConstLabels,
		}, []string{"form", "field", "result"}),

		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "submissions_total",
			Help:        "Total number of submit attempts by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"form", "outcome"}),

		submitDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "submit_duration_seconds",
			Help:        "Time spent in submit handlers in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"form"}),

		liveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "live_sessions",
			Help:        "Number of open live form connections",
			ConstLabels: config.ConstLabels,
		}),

		liveMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "live_messages_total",
			Help:        "Total live client messages by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Observer returns a form.Observer that labels submissions with formName.
func (m *Metrics) Observer(formName string) form.Observer {
	if m == nil {
		return nil
	}
	return formObserver{m: m, form: formName}
}

// SessionOpened records a new live connection.
func (m *Metrics) SessionOpened() {
	if m != nil {
		m.liveSessions.Inc()
	}
}

// SessionClosed records a closed live connection.
func (m *Metrics) SessionClosed() {
	if m != nil {
		m.liveSessions.Dec()
	}
}

// MessageReceived records one live client message of the given type.
func (m *Metrics) MessageReceived(msgType string) {
	if m != nil {
		m.liveMessages.WithLabelValues(msgType).Inc()
	}
}

// Handler serves the registry the metrics were registered with.
func (m *Metrics) Handler() http.Handler {
	if m != nil {
		if g, ok := m.registry.(prometheus.Gatherer); ok {
			return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
		}
	}
	return promhttp.Handler()
}

type formObserver struct {
	m    *Metrics
	form string
}

func (o formObserver) FieldValidated(field string, valid bool) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	o.m.validations.WithLabelValues(o.form, field, result).Inc()
}

func (o formObserver) Submitted(outcome form.Outcome, elapsed time.Duration) {
	o.m.submissions.WithLabelValues(o.form, string(outcome)).Inc()
	if outcome != form.OutcomeInvalid {
		o.m.submitDuration.WithLabelValues(o.form).Observe(elapsed.Seconds())
	}
}
