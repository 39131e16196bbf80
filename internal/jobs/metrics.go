// Package jobmetrics instruments the asynq handlers run by cmd/worker.
package jobmetrics

import (
	"errors"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes recorded in oms_jobs_total.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusSkipped = "skipped"
)

// Metrics holds the worker collectors. A nil *Metrics records nothing.
type Metrics struct {
	runs     *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	mails    *prometheus.CounterVec
	purged   prometheus.Counter
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the collectors on registerer, or once on the default
// registerer when it is nil.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer != nil {
		return register(registerer)
	}
	defaultOnce.Do(func() {
		defaultMetrics = register(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// Run times one execution of a task type.
type Run struct {
	m       *Metrics
	task    string
	started time.Time
}

// Track starts timing a run of task.
func (m *Metrics) Track(task string) *Run {
	return &Run{m: m, task: task, started: time.Now()}
}

// End records the outcome of the run and hands err back. Errors wrapping
// asynq.SkipRetry count as skipped, not failed.
func (r *Run) End(err error) error {
	if r == nil || r.m == nil {
		return err
	}
	status := StatusSuccess
	switch {
	case errors.Is(err, asynq.SkipRetry):
		status = StatusSkipped
	case err != nil:
		status = StatusFailure
		r.m.failures.WithLabelValues(r.task).Inc()
	}
	r.m.runs.WithLabelValues(r.task, status).Inc()
	r.m.duration.WithLabelValues(r.task).Observe(time.Since(r.started).Seconds())
	return err
}

// AddMail counts one notification delivery attempt.
func (m *Metrics) AddMail(template, outcome string) {
	if m != nil {
		m.mails.WithLabelValues(template, outcome).Inc()
	}
}

// AddPurged counts idempotency keys removed by the cleanup task.
func (m *Metrics) AddPurged(n int64) {
	if m != nil && n > 0 {
		m.purged.Add(float64(n))
	}
}

func register(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oms_jobs_total",
			Help: "Worker task runs by task type and outcome.",
		}, []string{"job", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oms_jobs_failures_total",
			Help: "Worker task runs that returned a retryable error.",
		}, []string{"job"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "oms_job_duration_seconds",
			Help:    "Worker task run time.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"job"}),
		mails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oms_mails_total",
			Help: "Order notification mails by template and outcome.",
		}, []string{"template", "outcome"}),
		purged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oms_idempotency_keys_purged_total",
			Help: "Idempotency keys removed by the cleanup task.",
		}),
	}
	reg.MustRegister(m.runs, m.failures, m.duration, m.mails, m.purged)
	return m
}
