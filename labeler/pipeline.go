package labeler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"github.com/cartolab/riverlabel/geo"
)

// Pipeline runs the full placement: body selection, anchor selection,
// orientation estimation, bounded refinement. One Pipeline per loaded
// configuration; it holds no per-request state, so concurrent Place
// calls are fine.
type Pipeline struct {
	logger *logrus.Logger
	config Config
}

func NewPipeline(logger *logrus.Logger, config Config) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		logger: logger,
		config: config,
	}, nil
}

func (p *Pipeline) Config() Config {
	return p.config
}

func (p *Pipeline) LogConfiguration(prefix string) {
	var buf bytes.Buffer

	buf.WriteString(prefix)
	p.config.writeConfiguration(&buf)

	p.logger.Info(buf.String())
}

// Place decides where text goes inside the dominant polygon of mp.
// Parse and selection failures return an error and no placement; an
// unverifiable placement comes back with Verified=false instead of
// an error, an approximate label beats no label.
func (p *Pipeline) Place(mp orb.MultiPolygon, text string, m Measurer) (*Placement, error) {
	return p.PlaceSized(mp, text, p.config.MaxFontSize, p.config.MinFontSize, m)
}

// PlaceSized is Place with the font ladder bounds replaced for this
// one placement, for callers that want a size pinned or capped. The
// ladder still steps by the configured FontStep.
func (p *Pipeline) PlaceSized(mp orb.MultiPolygon, text string, maxFontSize, minFontSize float64, m Measurer) (*Placement, error) {
	if minFontSize <= 0 || maxFontSize < minFontSize {
		return nil, fmt.Errorf("bad font size range [%0.1f, %0.1f]", minFontSize, maxFontSize)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = p.config.DefaultText
	}
	if text == "" {
		return nil, fmt.Errorf("no label text given and no default configured")
	}

	body, err := geo.LargestPolygon(mp)
	if err != nil {
		return nil, err
	}

	if area := geo.PolygonArea(body); area <= p.config.MinBodyArea {
		return nil, &DegenerateBodyError{Area: area}
	}

	anchor := geo.PolygonLabelPoint(body)
	orient := p.estimateOrientation(body[0], anchor)
	displayText := displayTextFor(text, orient.Mode)
	idx := geo.NewRingIndex(body)

	p.logger.Debugf("LABELER: anchor %v, tangent %0.1f°, mode %s", anchor, orient.AngleDeg, orient.Mode)

	placement := &Placement{
		Text:        text,
		Anchor:      anchor,
		RotationDeg: orient.Rotation(),
		Mode:        orient.Mode,
	}

	// Biggest font that verifies wins. When nothing verifies, the
	// best effort at the smallest size is what goes out.
	for size := maxFontSize; size >= minFontSize-1e-9; size -= p.config.FontStep {
		refined, verified, steps, err := p.refine(idx, anchor, orient, displayText, size, m)
		if err != nil {
			return nil, err
		}

		placement.Anchor = refined
		placement.FontSize = size
		placement.Steps = steps

		if verified {
			placement.Verified = true
			p.logger.Debugf("LABELER: verified at font size %0.1f after %d measurement(s)", size, steps)
			return placement, nil
		}
	}

	p.logger.Warnf("LABELER: placement not verified for %q: returning best effort at font size %0.1f", text, placement.FontSize)

	return placement, nil
}
