// Package metrics exposes run and node statistics as Prometheus metrics. The
// Collector is fed through the sink interface, so the executor reports to it
// the same way it reports to any other event consumer.
package metrics

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vk/gridflow/internal/sink"
)

// Collector holds the gridflow metrics.
type Collector struct {
	runs         *prometheus.CounterVec
	runDuration  prometheus.Histogram
	nodeDuration *prometheus.HistogramVec
	nodeFailures *prometheus.CounterVec
	runsInFlight prometheus.Gauge
}

var _ sink.Sink = (*Collector)(nil)

// New creates the collector and registers it with reg. Metrics that reg
// already holds from an earlier collector are shared rather than registered
// twice.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gridflow_runs_total",
			Help: "Total number of workflow runs by final state",
		}, []string{"state"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gridflow_run_duration_seconds",
			Help:    "Wall time of finished workflow runs",
			Buckets: prometheus.DefBuckets,
		}),
		nodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gridflow_node_duration_seconds",
			Help:    "Wall time of node executions by node name",
			Buckets: prometheus.DefBuckets,
		}, []string{"node"}),
		nodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gridflow_node_failures_total",
			Help: "Total number of failed node executions by node name",
		}, []string{"node"}),
		runsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridflow_runs_in_flight",
			Help: "Number of workflow runs currently executing",
		}),
	}

	var err error
	if c.runs, err = register(reg, c.runs); err != nil {
		return nil, err
	}
	if c.runDuration, err = register(reg, c.runDuration); err != nil {
		return nil, err
	}
	if c.nodeDuration, err = register(reg, c.nodeDuration); err != nil {
		return nil, err
	}
	if c.nodeFailures, err = register(reg, c.nodeFailures); err != nil {
		return nil, err
	}
	if c.runsInFlight, err = register(reg, c.runsInFlight); err != nil {
		return nil, err
	}
	return c, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	return c, fmt.Errorf("registering metrics: %w", err)
}

// Append implements sink.Sink.
func (c *Collector) Append(_ context.Context, e sink.Event) error {
	if c == nil {
		return nil
	}
	switch e.Type {
	case sink.EventRunStarted:
		c.runsInFlight.Inc()
	case sink.EventRunFinished:
		c.runsInFlight.Dec()
		c.runs.WithLabelValues(e.State).Inc()
		if e.Results == nil {
			return nil
		}
		c.runDuration.Observe(e.Results.Duration().Seconds())
		for _, s := range e.Results.Stats {
			c.nodeDuration.WithLabelValues(s.NodeName).Observe(s.Duration().Seconds())
			if s.Failed() {
				c.nodeFailures.WithLabelValues(s.NodeName).Inc()
			}
		}
	case sink.EventRunSkipped:
		c.runs.WithLabelValues(e.State).Inc()
	}
	return nil
}
