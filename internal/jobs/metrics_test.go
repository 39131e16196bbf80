package jobmetrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRunRecordsOutcome(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	assert.NoError(t, m.Track("orders:notify").End(nil))
	boom := errors.New("boom")
	assert.ErrorIs(t, m.Track("orders:notify").End(boom), boom)
	skip := fmt.Errorf("decode payload: %w", asynq.SkipRetry)
	assert.ErrorIs(t, m.Track("orders:notify").End(skip), asynq.SkipRetry)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("orders:notify", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("orders:notify", StatusFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("orders:notify", StatusSkipped)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("orders:notify")))
}

func TestNilMetricsAreInert(t *testing.T) {
	var m *Metrics
	m.AddMail("order_created.tmpl", "sent")
	m.AddPurged(3)
	assert.NoError(t, m.Track("x").End(nil))
}

func TestCounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.AddMail("order_created.tmpl", "sent")
	m.AddMail("order_created.tmpl", "sent")
	m.AddPurged(4)
	m.AddPurged(0)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.mails.WithLabelValues("order_created.tmpl", "sent")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.purged))
}
