package stats_collector

import (
	"github.com/gin-gonic/gin"
)

type StatsCollector interface {
	Name() string
	RegisterGinEngine(*gin.Engine)

	AddPlacement(mode string, verified bool)
	AddGeometryRejected(num uint64)
	AddImagesRendered(num uint64)
}

type Config interface {
	GetPrometheusConfig() PrometheusConfig
}

func GetStatsCollector(cfg Config) StatsCollector {
	promConfig := cfg.GetPrometheusConfig()
	if !promConfig.Enabled {
		return NewNoopStatsCollector()
	}
	return NewPrometheusCollector(promConfig)
}
