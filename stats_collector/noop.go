package stats_collector

import "github.com/gin-gonic/gin"

var _ StatsCollector = (*noopCollector)(nil)

type noopCollector struct {
}

func (col *noopCollector) Name() string                   { return "no-op" }
func (col *noopCollector) RegisterGinEngine(*gin.Engine)  {}
func (col *noopCollector) AddPlacement(string, bool)      {}
func (col *noopCollector) AddGeometryRejected(num uint64) {}
func (col *noopCollector) AddImagesRendered(num uint64)   {}

func NewNoopStatsCollector() StatsCollector {
	return &noopCollector{}
}
