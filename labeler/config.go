package labeler

import (
	"bytes"
	"fmt"
)

const (
	DEFAULT_LABEL_TEXT               = "ELBE"
	DEFAULT_ANGLE_SAMPLE_EPS         = float64(5)
	DEFAULT_HORIZONTAL_THRESHOLD_DEG = float64(25)
	DEFAULT_VERTICAL_THRESHOLD_DEG   = float64(40)
	DEFAULT_OFFSET_STEP              = float64(2)
	DEFAULT_MAX_OFFSET_STEPS         = 6
	DEFAULT_MAX_FONT_SIZE            = float64(12)
	DEFAULT_MIN_FONT_SIZE            = float64(8)
	DEFAULT_FONT_STEP                = float64(1)
	DEFAULT_MIN_BODY_AREA            = float64(1e-9)
)

type Config struct {
	// label text used when a request does not carry its own.
	DefaultText string `koanf:"default_text" json:"default_text"`
	// boundary sample distance on each side of the anchor projection,
	// in geometry units.
	AngleSampleEps float64 `koanf:"angle_sample_eps" json:"angle_sample_eps"`
	// tangent angles at or below this stay horizontal.
	HorizontalThresholdDeg float64 `koanf:"horizontal_threshold_deg" json:"horizontal_threshold_deg"`
	// tangent angles at or above this switch to one character per line.
	VerticalThresholdDeg float64 `koanf:"vertical_threshold_deg" json:"vertical_threshold_deg"`
	// distance the anchor moves along a boundary normal per refinement step.
	OffsetStep float64 `koanf:"offset_step" json:"offset_step"`
	// measurement round trips allowed per refinement.
	MaxOffsetSteps int `koanf:"max_offset_steps" json:"max_offset_steps"`
	// font sizes tried from max down to min until a placement verifies.
	MaxFontSize float64 `koanf:"max_font_size" json:"max_font_size"`
	MinFontSize float64 `koanf:"min_font_size" json:"min_font_size"`
	FontStep    float64 `koanf:"font_step" json:"font_step"`
	// dominant polygons with area at or below this are rejected.
	MinBodyArea float64 `koanf:"min_body_area" json:"min_body_area"`
}

func (cfg *Config) writeConfiguration(buf *bytes.Buffer) {
	buf.WriteString(fmt.Sprintf("default_text: %q, ", cfg.DefaultText))
	buf.WriteString(fmt.Sprintf("angle_sample_eps: %0.3f, ", cfg.AngleSampleEps))
	buf.WriteString(fmt.Sprintf("horizontal_threshold_deg: %0.3f, ", cfg.HorizontalThresholdDeg))
	buf.WriteString(fmt.Sprintf("vertical_threshold_deg: %0.3f, ", cfg.VerticalThresholdDeg))
	buf.WriteString(fmt.Sprintf("offset_step: %0.3f, ", cfg.OffsetStep))
	buf.WriteString(fmt.Sprintf("max_offset_steps: %d, ", cfg.MaxOffsetSteps))
	buf.WriteString(fmt.Sprintf("max_font_size: %0.1f, ", cfg.MaxFontSize))
	buf.WriteString(fmt.Sprintf("min_font_size: %0.1f, ", cfg.MinFontSize))
	buf.WriteString(fmt.Sprintf("font_step: %0.1f, ", cfg.FontStep))
	buf.WriteString(fmt.Sprintf("min_body_area: %g", cfg.MinBodyArea))
}

func GetDefaultConfig() Config {
	return Config{
		DefaultText:            DEFAULT_LABEL_TEXT,
		AngleSampleEps:         DEFAULT_ANGLE_SAMPLE_EPS,
		HorizontalThresholdDeg: DEFAULT_HORIZONTAL_THRESHOLD_DEG,
		VerticalThresholdDeg:   DEFAULT_VERTICAL_THRESHOLD_DEG,
		OffsetStep:             DEFAULT_OFFSET_STEP,
		MaxOffsetSteps:         DEFAULT_MAX_OFFSET_STEPS,
		MaxFontSize:            DEFAULT_MAX_FONT_SIZE,
		MinFontSize:            DEFAULT_MIN_FONT_SIZE,
		FontStep:               DEFAULT_FONT_STEP,
		MinBodyArea:            DEFAULT_MIN_BODY_AREA,
	}
}

func (cfg *Config) Validate() error {
	if val := cfg.AngleSampleEps; val <= 0 {
		return fmt.Errorf("invalid angle_sample_eps '%0.3f': must be > 0", val)
	}

	if val := cfg.HorizontalThresholdDeg; val <= 0 || val >= 90 {
		return fmt.Errorf("invalid horizontal_threshold_deg '%0.3f': must be > 0 and < 90", val)
	}

	if val := cfg.VerticalThresholdDeg; val <= 0 || val > 90 {
		return fmt.Errorf("invalid vertical_threshold_deg '%0.3f': must be > 0 and <= 90", val)
	}

	if h, v := cfg.HorizontalThresholdDeg, cfg.VerticalThresholdDeg; h >= v {
		return fmt.Errorf("horizontal_threshold_deg(%0.3f) >= vertical_threshold_deg(%0.3f)", h, v)
	}

	if val := cfg.OffsetStep; val <= 0 {
		return fmt.Errorf("invalid offset_step '%0.3f': must be > 0", val)
	}

	if val := cfg.MaxOffsetSteps; val < 1 {
		return fmt.Errorf("invalid max_offset_steps '%d': must be > 0", val)
	}

	if val := cfg.MinFontSize; val <= 0 {
		return fmt.Errorf("invalid min_font_size '%0.1f': must be > 0", val)
	}

	if min, max := cfg.MinFontSize, cfg.MaxFontSize; min > max {
		return fmt.Errorf("min_font_size(%0.1f) > max_font_size(%0.1f)", min, max)
	}

	if val := cfg.FontStep; val <= 0 {
		return fmt.Errorf("invalid font_step '%0.1f': must be > 0", val)
	}

	if val := cfg.MinBodyArea; val < 0 {
		return fmt.Errorf("invalid min_body_area '%g': must be >= 0", val)
	}

	return nil
}
