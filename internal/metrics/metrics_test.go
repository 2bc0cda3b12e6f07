// SPDX-License-Identifier: MIT

package metrics_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/dobots/aim-sub000/bp"
	"github.com/dobots/aim-sub000/builder"
	"github.com/dobots/aim-sub000/internal/metrics"
)

// gather returns the metric families of reg keyed by name.
func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(mfs))
	for _, mf := range mfs {
		out[mf.GetName()] = mf
	}
	return out
}

func TestRecorder_OnTick(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRecorder(reg)

	r.OnTick(bp.TickStats{Tick: 1, Delta: 0.9, Messages: 6, Duration: time.Millisecond})
	r.OnTick(bp.TickStats{Tick: 2, Delta: 1e-9, Messages: 6, Converged: true, Duration: time.Millisecond})

	mfs := gather(t, reg)
	require.Equal(t, 2.0, mfs["beliefprop_ticks_total"].GetMetric()[0].GetCounter().GetValue())
	require.Equal(t, 1.0, mfs["beliefprop_converged_total"].GetMetric()[0].GetCounter().GetValue())
	require.Equal(t, 6.0, mfs["beliefprop_messages"].GetMetric()[0].GetGauge().GetValue())
	require.Equal(t, 1e-9, mfs["beliefprop_last_delta"].GetMetric()[0].GetGauge().GetValue())
	require.Equal(t, uint64(2), mfs["beliefprop_tick_duration_seconds"].GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestRecorder_AsObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := bp.New(bp.WithObserver(metrics.NewRecorder(reg)))

	g, err := builder.BuildGraph(nil, nil, builder.TrafficLight())
	require.NoError(t, err)
	g.Moralize()
	require.NoError(t, e.Run(context.Background(), g, 10))

	mfs := gather(t, reg)
	require.Equal(t, float64(e.Ticks()), mfs["beliefprop_ticks_total"].GetMetric()[0].GetCounter().GetValue())
	require.Equal(t, 1.0, mfs["beliefprop_converged_total"].GetMetric()[0].GetCounter().GetValue())
}

func TestRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewRecorder(reg)
	require.Panics(t, func() { metrics.NewRecorder(reg) })
}
