package applogging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what the dispatch path did. Each Facade owns its own
// registry so instances never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	// LinesTotal counts formatted lines written, by destination.
	LinesTotal *prometheus.CounterVec
	// DroppedTotal counts lines a destination could not take.
	DroppedTotal *prometheus.CounterVec
	// RotationsTotal counts log files created by the sink.
	RotationsTotal prometheus.Counter
	// FatalTotal counts fatal records dispatched.
	FatalTotal prometheus.Counter
}

func newMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		LinesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "applog_lines_total",
				Help: "Total number of log lines written",
			},
			[]string{"dest"},
		),
		DroppedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "applog_dropped_total",
				Help: "Total number of log lines dropped by a destination",
			},
			[]string{"dest"},
		),
		RotationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "applog_rotations_total",
			Help: "Total number of log files created",
		}),
		FatalTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "applog_fatal_total",
			Help: "Total number of fatal records dispatched",
		}),
	}
}

// Registry exposes the collectors for scraping.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) lineWritten(dest Destination) {
	if m != nil {
		m.LinesTotal.WithLabelValues(dest.String()).Inc()
	}
}

func (m *Metrics) lineDropped(dest Destination) {
	if m != nil {
		m.DroppedTotal.WithLabelValues(dest.String()).Inc()
	}
}

func (m *Metrics) rotated() {
	if m != nil {
		m.RotationsTotal.Inc()
	}
}

func (m *Metrics) fatal() {
	if m != nil {
		m.FatalTotal.Inc()
	}
}
