// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestNoopMetrics(t *testing.T) {
	m := defaultNoopMetrics()
	m.GetOrCreateCountMeter("noop").Add(1)
	m.GetOrCreateCountVecMeter("noop_vec", []string{"a"}).AddWithLabel(1, map[string]string{"a": "b"})
	m.GetOrCreateGaugeMeter("noop_gauge").Set(3)
	m.GetOrCreateHistogramMeter("noop_hist", nil).Observe(1)
	m.GetOrCreateHistogramVecMeter("noop_hist_vec", []string{"a"}, nil).ObserveWithLabels(1, map[string]string{"a": "b"})
	require.NotNil(t, m.GetOrCreateHandler())
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	count := Counter("calls")
	count.Add(1)
	Counter("calls").Add(2)

	vec := CounterVec("reverts", []string{"kind"})
	vec.AddWithLabel(1, map[string]string{"kind": "TimingViolation"})
	vec.AddWithLabel(2, map[string]string{"kind": "StateConflict"})

	gauge := Gauge("owners")
	gauge.Set(3)
	gauge.Add(-1)

	hist := LazyLoadHistogram("latency", []int64{1, 10, 100})
	hist().Observe(5)
	hist().Observe(50)

	durations := LazyLoadHistogramVec("durations", []string{"path"}, BucketHTTPReqs)
	durations().ObserveWithLabels(3, map[string]string{"path": "a"})
	durations().ObserveWithLabels(4, map[string]string{"path": "b"})

	metricFamilies, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	families := make(map[string]*dto.MetricFamily)
	for _, mf := range metricFamilies {
		families[mf.GetName()] = mf
	}

	require.Equal(t, float64(3), families["aawallet_calls"].Metric[0].GetCounter().GetValue())
	require.Len(t, families["aawallet_reverts"].Metric, 2)
	require.Equal(t, float64(2), families["aawallet_owners"].Metric[0].GetGauge().GetValue())
	require.Equal(t, float64(55), families["aawallet_latency"].Metric[0].GetHistogram().GetSampleSum())
	require.Len(t, families["aawallet_durations"].Metric, 2)
	require.NotNil(t, HTTPHandler())
}
