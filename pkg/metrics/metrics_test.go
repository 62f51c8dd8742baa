package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Metric) float64 {
	t.Helper()

	var m dto.Metric
	require.NoError(t, c.Write(&m))
	if m.Counter != nil {
		return m.Counter.GetValue()
	}
	return m.Gauge.GetValue()
}

func TestNewMetricsIsShared(t *testing.T) {
	assert.Same(t, NewMetrics(), NewMetrics())
}

func TestRecordReload(t *testing.T) {
	m := NewMetrics()

	before := value(t, m.ReloadsTotal.WithLabelValues("error"))
	m.RecordReload(0, errors.New("broken"))
	assert.Equal(t, before+1, value(t, m.ReloadsTotal.WithLabelValues("error")))

	m.RecordReload(12, nil)
	assert.Equal(t, float64(12), value(t, m.Records))

	m.RecordReload(0, errors.New("broken"))
	assert.Equal(t, float64(12), value(t, m.Records), "failed reload keeps the gauge")
}

func TestRecordQuery(t *testing.T) {
	m := NewMetrics()

	before := value(t, m.QueriesAppliedTotal.WithLabelValues("MaxWeight"))
	m.RecordQuery("MaxWeight")
	m.RecordQuery("MaxWeight")
	assert.Equal(t, before+2, value(t, m.QueriesAppliedTotal.WithLabelValues("MaxWeight")))
}
