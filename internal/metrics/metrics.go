// SPDX-License-Identifier: MIT

// Package metrics exports belief propagation progress as Prometheus
// collectors. A Recorder is a bp.Observer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dobots/aim-sub000/bp"
)

// Namespace prefixes every metric name.
const Namespace = "beliefprop"

// Recorder holds the engine collectors registered on one registry.
type Recorder struct {
	ticks     prometheus.Counter
	converged prometheus.Counter
	messages  prometheus.Gauge
	delta     prometheus.Gauge
	duration  prometheus.Histogram
}

// NewRecorder registers the collectors on reg. A nil reg uses the default
// registerer. Registering twice on the same registry panics.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "ticks_total",
			Help:      "Total number of synchronous message passing rounds",
		}),
		converged: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "converged_total",
			Help:      "Number of runs that reached the convergence tolerance",
		}),
		messages: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "messages",
			Help:      "Directed messages produced by the last tick",
		}),
		delta: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_delta",
			Help:      "Largest message change of the last tick",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time of one tick",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}),
	}
}

// OnTick implements bp.Observer.
func (r *Recorder) OnTick(s bp.TickStats) {
	r.ticks.Inc()
	r.messages.Set(float64(s.Messages))
	r.delta.Set(s.Delta)
	r.duration.Observe(s.Duration.Seconds())
	if s.Converged {
		r.converged.Inc()
	}
}

var _ bp.Observer = (*Recorder)(nil)
