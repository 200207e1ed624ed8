package stats_collector

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStatsConfig struct {
	prom PrometheusConfig
}

func (cfg *testStatsConfig) GetPrometheusConfig() PrometheusConfig {
	return cfg.prom
}

func TestGetStatsCollectorDisabled(t *testing.T) {
	col := GetStatsCollector(&testStatsConfig{})
	assert.Equal(t, "no-op", col.Name())

	// no-op swallows everything without a registry behind it.
	col.AddPlacement("horizontal", true)
	col.AddGeometryRejected(1)
	col.AddImagesRendered(1)
}

func TestGetStatsCollectorEnabled(t *testing.T) {
	cfg := GetDefaultPrometheusConfig()
	cfg.Enabled = true

	col := GetStatsCollector(&testStatsConfig{prom: cfg})
	assert.Equal(t, "prometheus", col.Name())
}

func TestPrometheusCollectorCounts(t *testing.T) {
	cfg := GetDefaultPrometheusConfig()
	cfg.Enabled = true

	col, ok := NewPrometheusCollector(cfg).(*PrometheusCollector)
	require.True(t, ok)

	col.AddPlacement("horizontal", true)
	col.AddPlacement("horizontal", true)
	col.AddPlacement("stacked", false)
	col.AddGeometryRejected(3)
	col.AddImagesRendered(1)

	assert.Equal(t, float64(2), testutil.ToFloat64(col.placements.WithLabelValues("horizontal", "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(col.placements.WithLabelValues("stacked", "false")))
	assert.Equal(t, float64(0), testutil.ToFloat64(col.placements.WithLabelValues("rotated", "true")))
	assert.Equal(t, float64(3), testutil.ToFloat64(col.geometryRejected))
	assert.Equal(t, float64(1), testutil.ToFloat64(col.imagesRendered))
}

func TestPrometheusConfigValidate(t *testing.T) {
	cfg := GetDefaultPrometheusConfig()
	require.NoError(t, cfg.Validate(), "disabled config always passes")

	cfg.Enabled = true
	require.NoError(t, cfg.Validate())

	cfg.BucketSize = []float64{0.5, 0.25}
	assert.Error(t, cfg.Validate())

	cfg.BucketSize = []float64{-1}
	assert.Error(t, cfg.Validate())
}
