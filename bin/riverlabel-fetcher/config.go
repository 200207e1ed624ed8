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

	"github.com/cartolab/riverlabel/fetcher"
	"github.com/cartolab/riverlabel/logging"
	"github.com/cartolab/riverlabel/overpass"
)

type Config struct {
	Logging  logging.Config  `koanf:"logging"`
	Overpass overpass.Config `koanf:"overpass"`
	Fetcher  fetcher.Config  `koanf:"fetcher"`
}

func (cfg *Config) CreateLogger() *logrus.Logger {
	return cfg.Logging.CreateLogger(false, true)
}

func (cfg *Config) Validate() error {
	if err := cfg.Logging.Validate(); err != nil {
		return err
	}

	if err := cfg.Overpass.Validate(); err != nil {
		return err
	}

	if err := cfg.Fetcher.Validate(); err != nil {
		return err
	}

	return nil
}

var defaultConfig = Config{
	Logging: logging.Config{
		Filename:   filepath.FromSlash("logs/riverlabel-fetcher.log"),
		MaxSizeMB:  100,
		MaxAgeDays: 7,
		MaxBackups: 20,
		Compress:   false,
	},

	Overpass: overpass.GetDefaultConfig(),
	Fetcher:  fetcher.GetDefaultConfig(),
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
