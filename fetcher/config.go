package fetcher

import (
	"errors"
	"path/filepath"
	"strings"
)

const DEFAULT_OUTPUT_DIR = "rivers"

type Config struct {
	OutputDir string `koanf:"output_dir" json:"output_dir"`
	// water bodies outside this range are dropped. Zero max means
	// no upper bound.
	MinAreaM2 float64 `koanf:"min_area_m2" json:"min_area_m2"`
	MaxAreaM2 float64 `koanf:"max_area_m2" json:"max_area_m2"`
	// keep only these river names (case-insensitive). Empty keeps
	// everything.
	Names []string `koanf:"names" json:"names"`
}

// WantName reports whether a river name passes the name filter.
func (cfg *Config) WantName(name string) bool {
	if len(cfg.Names) == 0 {
		return true
	}
	for _, want := range cfg.Names {
		if strings.EqualFold(want, name) {
			return true
		}
	}
	return false
}

func (cfg *Config) Validate() error {
	if cfg.OutputDir == "" {
		return errors.New("no output dir configured")
	}
	if cfg.MinAreaM2 < 0 {
		return errors.New("min_area_m2 cannot be negative")
	}
	if cfg.MaxAreaM2 != 0 && cfg.MaxAreaM2 < cfg.MinAreaM2 {
		return errors.New("max_area_m2 cannot be smaller than min_area_m2")
	}
	return nil
}

func GetDefaultConfig() Config {
	return Config{
		OutputDir: filepath.FromSlash(DEFAULT_OUTPUT_DIR),
	}
}
