package labeler

import (
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

// Manager owns the current Pipeline and swaps in a new one when the
// configuration reloads. A reload failure keeps the previous pipeline
// running.
type Manager struct {
	logger *logrus.Logger

	pipelineMutex sync.Mutex
	pipeline      *Pipeline
}

func NewManager(logger *logrus.Logger) *Manager {
	return &Manager{
		logger: logger,
	}
}

// Pipeline returns the current pipeline. It may be stale as soon as
// it is retrieved if a reload happens, which is fine: a placement in
// flight finishes under the config it started with.
func (mgr *Manager) Pipeline() *Pipeline {
	mgr.pipelineMutex.Lock()
	defer mgr.pipelineMutex.Unlock()
	return mgr.pipeline
}

func (mgr *Manager) Config() (Config, error) {
	pipeline := mgr.Pipeline()
	if pipeline == nil {
		return Config{}, fmt.Errorf("no configuration loaded")
	}
	return pipeline.Config(), nil
}

// LoadConfig validates config, builds a fresh pipeline and swaps it
// in. Used for the initial load as well as reloads.
func (mgr *Manager) LoadConfig(config Config) error {
	pipeline, err := NewPipeline(mgr.logger, config)
	if err != nil {
		return err
	}

	mgr.pipelineMutex.Lock()
	mgr.pipeline = pipeline
	mgr.pipelineMutex.Unlock()

	pipeline.LogConfiguration("LABELER: config loaded: ")

	return nil
}

// Place runs the current pipeline. Errors if no config was ever
// loaded.
func (mgr *Manager) Place(mp orb.MultiPolygon, text string, m Measurer) (*Placement, error) {
	pipeline := mgr.Pipeline()
	if pipeline == nil {
		return nil, fmt.Errorf("no configuration loaded")
	}
	return pipeline.Place(mp, text, m)
}

// PlaceSized runs the current pipeline with the font ladder bounds
// replaced for this placement.
func (mgr *Manager) PlaceSized(mp orb.MultiPolygon, text string, maxFontSize, minFontSize float64, m Measurer) (*Placement, error) {
	pipeline := mgr.Pipeline()
	if pipeline == nil {
		return nil, fmt.Errorf("no configuration loaded")
	}
	return pipeline.PlaceSized(mp, text, maxFontSize, minFontSize, m)
}
