package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"

	"github.com/cartolab/riverlabel/httpserver"
	"github.com/cartolab/riverlabel/labeler"
	"github.com/cartolab/riverlabel/logging"
	"github.com/cartolab/riverlabel/pyroscope"
	"github.com/cartolab/riverlabel/render"
	"github.com/cartolab/riverlabel/stats_collector"
)

type Config struct {
	Labeler labeler.Config `koanf:"labeler"`
	Render  render.Config  `koanf:"render"`

	Logging logging.Config    `koanf:"logging"`
	HTTP    httpserver.Config `koanf:"http"`

	Prometheus stats_collector.PrometheusConfig `koanf:"prometheus"`
	Pyroscope  pyroscope.Config                 `koanf:"pyroscope"`
}

func (cfg *Config) CreateLogger(rotate bool) *logrus.Logger {
	return cfg.Logging.CreateLogger(rotate, true)
}

func (cfg *Config) GetPrometheusConfig() stats_collector.PrometheusConfig {
	return cfg.Prometheus
}

func (cfg *Config) Validate() error {
	if err := cfg.Logging.Validate(); err != nil {
		return err
	}

	if err := cfg.HTTP.Validate(); err != nil {
		return err
	}

	if err := cfg.Labeler.Validate(); err != nil {
		return err
	}

	if err := cfg.Render.Validate(); err != nil {
		return err
	}

	if err := cfg.Prometheus.Validate(); err != nil {
		return err
	}

	return nil
}

var defaultConfig = Config{
	Labeler: labeler.GetDefaultConfig(),
	Render:  render.GetDefaultConfig(),

	Logging: logging.Config{
		Filename:   filepath.FromSlash("logs/riverlabel.log"),
		MaxSizeMB:  500,
		MaxAgeDays: 7,
		MaxBackups: 20,
		Compress:   true,
	},

	HTTP: httpserver.Config{
		Addr: "127.0.0.1:9420",
	},

	Prometheus: stats_collector.GetDefaultPrometheusConfig(),
	Pyroscope:  pyroscope.GetDefaultConfig(),
}

func LoadConfig(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("couldn't open '%s': %w", filename, err)
	}
	defer f.Close()

	k := koanf.New(".")
	err = k.Load(structs.Provider(defaultConfig, "koanf"), nil)
	if err != nil {
		return nil, fmt.Errorf("couldn't load default config: %w", err)
	}

	err = k.Load(file.Provider(filename), toml.Parser())
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
