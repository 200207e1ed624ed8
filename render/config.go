package render

import (
	"fmt"
)

const (
	DEFAULT_WIDTH_PX      = 800
	DEFAULT_HEIGHT_PX     = 600
	DEFAULT_PADDING_PX    = 40
	DEFAULT_SUPERSAMPLE   = 2
	DEFAULT_LINE_WIDTH_PX = float64(2)
)

type Config struct {
	// output image size.
	WidthPx  int `koanf:"width_px" json:"width_px"`
	HeightPx int `koanf:"height_px" json:"height_px"`
	// margin kept clear around the geometry.
	PaddingPx int `koanf:"padding_px" json:"padding_px"`
	// drawing happens at this multiple and is downsampled, which
	// stands in for anti-aliasing. 1 disables it.
	Supersample int `koanf:"supersample" json:"supersample"`
	// outline thickness at output resolution.
	LineWidthPx float64 `koanf:"line_width_px" json:"line_width_px"`
}

func GetDefaultConfig() Config {
	return Config{
		WidthPx:     DEFAULT_WIDTH_PX,
		HeightPx:    DEFAULT_HEIGHT_PX,
		PaddingPx:   DEFAULT_PADDING_PX,
		Supersample: DEFAULT_SUPERSAMPLE,
		LineWidthPx: DEFAULT_LINE_WIDTH_PX,
	}
}

func (cfg *Config) Validate() error {
	if val := cfg.WidthPx; val < 64 {
		return fmt.Errorf("invalid width_px '%d': must be >= 64", val)
	}

	if val := cfg.HeightPx; val < 64 {
		return fmt.Errorf("invalid height_px '%d': must be >= 64", val)
	}

	if val := cfg.PaddingPx; val < 0 {
		return fmt.Errorf("invalid padding_px '%d': must be >= 0", val)
	}

	if pad, side := 2*cfg.PaddingPx, min(cfg.WidthPx, cfg.HeightPx); pad >= side {
		return fmt.Errorf("padding_px '%d' leaves no room inside %dx%d", cfg.PaddingPx, cfg.WidthPx, cfg.HeightPx)
	}

	if val := cfg.Supersample; val < 1 || val > 8 {
		return fmt.Errorf("invalid supersample '%d': must be between 1 and 8", val)
	}

	if val := cfg.LineWidthPx; val <= 0 {
		return fmt.Errorf("invalid line_width_px '%0.1f': must be > 0", val)
	}

	return nil
}
