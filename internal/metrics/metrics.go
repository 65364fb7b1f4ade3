// Package metrics exposes the result of a watchdog pass as Prometheus
// series. A pass is a short-lived process, so the series are exported as a
// textfile snapshot or pushed to a Pushgateway instead of being scraped.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "svcwatch"

// Recorder implements watchdog.Recorder on top of a Prometheus registry.
type Recorder struct {
	outcome       *prometheus.GaugeVec
	starts        *prometheus.CounterVec
	startFailures *prometheus.CounterVec
	targets       prometheus.Gauge
	healthy       prometheus.Gauge
	duration      prometheus.Gauge
	lastRun       prometheus.Gauge

	now func() time.Time
}

// NewRecorder creates the pass collectors and registers them with r.
// Collectors already registered by an earlier Recorder are reused.
func NewRecorder(r prometheus.Registerer) (*Recorder, error) {
	rec := &Recorder{
		outcome: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "outcome",
			Help:      "Reconciliation outcome of the last pass (1 for the observed outcome).",
		}, []string{"service", "outcome"}),
		starts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "starts_total",
			Help:      "Number of services started because they were found stopped.",
		}, []string{"service"}),
		startFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "service",
			Name:      "start_failures_total",
			Help:      "Number of failed start attempts.",
		}, []string{"service"}),
		targets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pass",
			Name:      "targets",
			Help:      "Number of services checked by the last pass.",
		}),
		healthy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pass",
			Name:      "healthy",
			Help:      "1 when the last pass ended healthy, 0 otherwise.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pass",
			Name:      "duration_seconds",
			Help:      "Wall time of the last pass.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pass",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last pass finished.",
		}),
		now: time.Now,
	}

	var err error
	if rec.outcome, err = registerOrReuse(r, rec.outcome); err != nil {
		return nil, err
	}
	if rec.starts, err = registerOrReuse(r, rec.starts); err != nil {
		return nil, err
	}
	if rec.startFailures, err = registerOrReuse(r, rec.startFailures); err != nil {
		return nil, err
	}
	for _, g := range []*prometheus.Gauge{&rec.targets, &rec.healthy, &rec.duration, &rec.lastRun} {
		if *g, err = registerOrReuse(r, *g); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// registerOrReuse registers c, or returns the collector already registered
// under the same descriptor.
func registerOrReuse[C prometheus.Collector](r prometheus.Registerer, c C) (C, error) {
	if err := r.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordOutcome sets the outcome series for service and bumps the start
// counters for started and start_failed outcomes.
func (r *Recorder) RecordOutcome(service, kind string) {
	r.outcome.WithLabelValues(service, kind).Set(1)
	switch kind {
	case "started":
		r.starts.WithLabelValues(service).Inc()
	case "start_failed":
		r.startFailures.WithLabelValues(service).Inc()
	}
}

// RecordPass stores the verdict of a finished pass.
func (r *Recorder) RecordPass(healthy bool, targets int, elapsed time.Duration) {
	var v float64
	if healthy {
		v = 1
	}
	r.healthy.Set(v)
	r.targets.Set(float64(targets))
	r.duration.Set(elapsed.Seconds())
	r.lastRun.Set(float64(r.now().Unix()))
}
