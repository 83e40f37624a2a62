// Package metrics provides Prometheus metrics for the scout service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithNamespace overrides the metric namespace. Empty input keeps the
// default.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem overrides the metric subsystem. Empty input keeps the
// default.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithHistogramBuckets replaces the latency histogram buckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithMetricsEnabled toggles collection.
func WithMetricsEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithRefreshInterval sets how often gauge metrics are recomputed.
// Non-positive input keeps the default.
func WithRefreshInterval(interval time.Duration) Option {
	return func(m *Manager) {
		if interval > 0 {
			m.refreshInterval = interval
		}
	}
}

// WithCustomLabels attaches static labels to all metrics. The map is
// copied so later caller mutations do not leak into the Manager.
func WithCustomLabels(labels map[string]string) Option {
	return func(m *Manager) {
		if labels == nil {
			return
		}
		copied := make(map[string]string, len(labels))
		for k, v := range labels {
			copied[k] = v
		}
		m.customLabels = copied
	}
}

// WithMetricPrefix prepends a prefix to metric names.
func WithMetricPrefix(prefix string) Option {
	return func(m *Manager) {
		if prefix != "" {
			m.metricPrefix = prefix
		}
	}
}

// WithPrometheusRegistry registers metrics on a caller-owned registry
// instead of the package default. Tests use this to isolate registration.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
