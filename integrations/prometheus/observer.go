// Package prometheus exports retry and circuit-breaker metrics through a
// prometheus registry.
package prometheus

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bulwark-io/bulwark/circuit"
	"github.com/bulwark-io/bulwark/observe"
)

// Observer implements observe.Observer, counting attempts and call outcomes
// and timing whole calls per policy.
type Observer struct {
	attempts  *prometheus.CounterVec
	calls     *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewObserver creates an Observer and registers its collectors with reg.
func NewObserver(reg prometheus.Registerer) *Observer {
	o := &Observer{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bulwark_attempts_total",
			Help: "Operation attempts, by policy and outcome.",
		}, []string{"policy", "outcome", "category"}),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bulwark_calls_total",
			Help: "Completed calls, by policy and result.",
		}, []string{"policy", "result"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bulwark_call_duration_seconds",
			Help:    "Whole-call duration including backoff waits.",
			Buckets: prometheus.DefBuckets,
		}, []string{"policy"}),
	}
	if reg != nil {
		reg.MustRegister(o.attempts, o.calls, o.durations)
	}
	return o
}

func (o *Observer) OnStart(context.Context, string) {}

func (o *Observer) OnAttempt(_ context.Context, policy string, a observe.Attempt) {
	outcome := "success"
	category := ""
	if a.Err != nil {
		outcome = "failure"
		category = a.Category.String()
	}
	o.attempts.WithLabelValues(policy, outcome, category).Inc()
}

func (o *Observer) OnSuccess(_ context.Context, res observe.Result) {
	o.calls.WithLabelValues(res.Policy, "success").Inc()
	o.durations.WithLabelValues(res.Policy).Observe(res.End.Sub(res.Start).Seconds())
}

func (o *Observer) OnFailure(_ context.Context, res observe.Result) {
	o.calls.WithLabelValues(res.Policy, "failure").Inc()
	o.durations.WithLabelValues(res.Policy).Observe(res.End.Sub(res.Start).Seconds())
}

// BreakerCollector exposes circuit breaker state and failure counts as
// gauges, snapshotting the registry on every scrape.
type BreakerCollector struct {
	registry *circuit.Registry

	stateDesc    *prometheus.Desc
	failuresDesc *prometheus.Desc
}

// NewBreakerCollector creates a collector over r and registers it with reg.
func NewBreakerCollector(reg prometheus.Registerer, r *circuit.Registry) *BreakerCollector {
	c := &BreakerCollector{
		registry: r,
		stateDesc: prometheus.NewDesc(
			"bulwark_circuit_state",
			"Circuit breaker state (0=closed, 1=open, 2=half-open).",
			[]string{"service"}, nil),
		failuresDesc: prometheus.NewDesc(
			"bulwark_circuit_failures",
			"Failures in the breaker's bounded window.",
			[]string{"service"}, nil),
	}
	if reg != nil {
		reg.MustRegister(c)
	}
	return c
}

func (c *BreakerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.stateDesc
	ch <- c.failuresDesc
}

func (c *BreakerCollector) Collect(ch chan<- prometheus.Metric) {
	for service, st := range c.registry.Status() {
		ch <- prometheus.MustNewConstMetric(c.stateDesc, prometheus.GaugeValue, float64(st.State), service)
		ch <- prometheus.MustNewConstMetric(c.failuresDesc, prometheus.GaugeValue, float64(st.Failures), service)
	}
}
