// Package iometrics counts and times engine runs with Prometheus
// collectors. Commands are short-lived, so metrics are exported to a text
// file for the node exporter textfile collector instead of being served.
package iometrics

import (
	"context"
	"time"

	"github.com/gnames/rbmnet/pkg/bngl"
	"github.com/gnames/rbmnet/pkg/model"
	"github.com/gnames/rbmnet/pkg/netfile"
	"github.com/gnames/rbmnet/pkg/rbmnet"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rbmnet"

// Operation label values.
const (
	OpExpand   = "expand"
	OpSimulate = "simulate"
)

// Metrics holds collectors in a private registry.
type Metrics struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	species  prometheus.Histogram
}

// New creates collectors and registers them.
func New() *Metrics {
	res := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "runs_total",
			Help:      "Number of BioNetGen runs by operation and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "duration_seconds",
			Help:      "Duration of BioNetGen runs.",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 300},
		}, []string{"operation"}),
		species: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "network",
			Name:      "species",
			Help:      "Number of species in generated networks.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	res.registry.MustRegister(res.runs, res.duration, res.species)
	return res
}

// Registry returns the registry with all collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRun records one engine run.
func (m *Metrics) ObserveRun(op string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.runs.WithLabelValues(op, status).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveNetwork records the size of a generated network.
func (m *Metrics) ObserveNetwork(mdl *model.Model) {
	if !mdl.Generated() {
		return
	}
	m.species.Observe(float64(len(mdl.Species)))
}

// WriteFile exports all metrics in the Prometheus text format. The file
// is replaced atomically.
func (m *Metrics) WriteFile(path string) error {
	err := prometheus.WriteToTextfile(path, m.registry)
	if err != nil {
		return MetricsWriteError(path, err)
	}
	return nil
}

// Expander wraps an expander with run metrics.
func (m *Metrics) Expander(exp rbmnet.Expander) rbmnet.Expander {
	return &expander{Expander: exp, metrics: m}
}

// Simulator wraps a simulator with run metrics.
func (m *Metrics) Simulator(sim rbmnet.Simulator) rbmnet.Simulator {
	return &simulator{Simulator: sim, metrics: m}
}

type expander struct {
	rbmnet.Expander
	metrics *Metrics
}

func (e *expander) Expand(ctx context.Context, mdl *model.Model) (string, error) {
	start := time.Now()
	res, err := e.Expander.Expand(ctx, mdl)
	e.metrics.ObserveRun(OpExpand, time.Since(start), err)
	return res, err
}

type simulator struct {
	rbmnet.Simulator
	metrics *Metrics
}

func (s *simulator) Simulate(
	ctx context.Context,
	mdl *model.Model,
	opts bngl.SSAOptions,
) (*netfile.Table, error) {
	start := time.Now()
	res, err := s.Simulator.Simulate(ctx, mdl, opts)
	s.metrics.ObserveRun(OpSimulate, time.Since(start), err)
	return res, err
}
