package stats_collector

import (
	"fmt"
	"strconv"

	"github.com/Depado/ginprom"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	DEFAULT_PROMETHEUS_NAMESPACE = "riverlabel"
)

type PrometheusConfig struct {
	Enabled    bool      `koanf:"enabled" json:"enabled"`
	Token      string    `koanf:"token" json:"token"`
	BucketSize []float64 `koanf:"bucket_size" json:"bucket_size"`
	Namespace  string    `koanf:"namespace" json:"namespace"`
}

func (cfg *PrometheusConfig) Validate() error {
	if !cfg.Enabled {
		return nil
	}
	for idx, size := range cfg.BucketSize {
		if size <= 0 {
			return fmt.Errorf("bucket_size entries must be positive (entry %d is %g)", idx, size)
		}
		if idx > 0 && size <= cfg.BucketSize[idx-1] {
			return fmt.Errorf("bucket_size entries must be ascending (entry %d)", idx)
		}
	}
	return nil
}

func GetDefaultPrometheusConfig() PrometheusConfig {
	return PrometheusConfig{
		BucketSize: []float64{.00005, .000075, .0001, .00025, .0005, .00075, .001, .0025, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		Namespace:  DEFAULT_PROMETHEUS_NAMESPACE,
	}
}

var _ StatsCollector = (*PrometheusCollector)(nil)

type PrometheusCollector struct {
	config   PrometheusConfig
	registry *prometheus.Registry

	placements       *prometheus.CounterVec
	geometryRejected prometheus.Counter
	imagesRendered   prometheus.Counter
}

func (col *PrometheusCollector) Name() string {
	return "prometheus"
}

func (col *PrometheusCollector) RegisterGinEngine(engine *gin.Engine) {
	p := ginprom.New(
		ginprom.Engine(engine),
		ginprom.Registry(col.registry),
		ginprom.Subsystem("gin"),
		ginprom.Path("/metrics"),
		ginprom.Token(col.config.Token),
		ginprom.BucketSize(col.config.BucketSize),
	)
	engine.Use(p.Instrument())
}

func (col *PrometheusCollector) AddPlacement(mode string, verified bool) {
	col.placements.WithLabelValues(mode, strconv.FormatBool(verified)).Inc()
}

func (col *PrometheusCollector) AddGeometryRejected(num uint64) {
	col.geometryRejected.Add(float64(num))
}

func (col *PrometheusCollector) AddImagesRendered(num uint64) {
	col.imagesRendered.Add(float64(num))
}

func NewPrometheusCollector(config PrometheusConfig) StatsCollector {
	ns := config.Namespace
	if ns == "" {
		ns = DEFAULT_PROMETHEUS_NAMESPACE
	}

	registry := prometheus.NewRegistry()
	collector := &PrometheusCollector{
		config:   config,
		registry: registry,
		placements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "placements",
				Help:      "Total number of label placements by layout mode and verification",
			},
			[]string{"mode", "verified"},
		),
		geometryRejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "geometry_rejected",
				Help:      "Total number of requests rejected for unusable geometry",
			},
		),
		imagesRendered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "images_rendered",
				Help:      "Total number of placement images rendered",
			},
		),
	}

	processOpts := collectors.ProcessCollectorOpts{
		Namespace: ns,
	}

	registry.MustRegister(
		collectors.NewProcessCollector(processOpts),
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(
				collectors.MetricsGC,
				collectors.MetricsMemory,
			),
		),
		collector.placements,
		collector.geometryRejected,
		collector.imagesRendered,
	)

	return collector
}
