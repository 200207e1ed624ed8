package labeler

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/cartolab/riverlabel/geo"
)

// Orientation is the local boundary direction at the anchor plus the
// layout it was classified into. AngleDeg is the normalized tangent
// angle; the draw rotation differs from it for non-rotated layouts.
type Orientation struct {
	AngleDeg float64
	Mode     LayoutMode
}

func (o Orientation) Rotation() float64 {
	if o.Mode == LayoutRotated {
		return o.AngleDeg
	}
	return 0
}

// NormalizeAngle folds an angle in degrees into (-90, 90] by adding
// or subtracting half turns, so text along the same line never ends
// up upside-down.
func NormalizeAngle(deg float64) float64 {
	for deg > 90 {
		deg -= 180
	}
	for deg <= -90 {
		deg += 180
	}
	return deg
}

// ClassifyAngle maps an absolute tangent angle to a layout mode.
// Small deviations from horizontal stay flat, near-vertical runs get
// stacked characters, the diagonal band in between rotates the text.
func ClassifyAngle(angleDeg, horizontalThreshold, verticalThreshold float64) LayoutMode {
	a := math.Abs(angleDeg)
	switch {
	case a <= horizontalThreshold:
		return LayoutHorizontal
	case a >= verticalThreshold:
		return LayoutStacked
	}
	return LayoutRotated
}

// estimateOrientation samples the boundary a little on each side of
// the anchor's projection and takes the chord direction as the local
// tangent.
func (p *Pipeline) estimateOrientation(ring orb.Ring, anchor orb.Point) Orientation {
	_, arc := geo.ProjectToRing(ring, anchor)

	eps := p.config.AngleSampleEps
	before := geo.RingPointAt(ring, arc-eps)
	after := geo.RingPointAt(ring, arc+eps)

	angle := math.Atan2(after[1]-before[1], after[0]-before[0]) * 180 / math.Pi
	normalized := NormalizeAngle(angle)

	return Orientation{
		AngleDeg: normalized,
		Mode:     ClassifyAngle(normalized, p.config.HorizontalThresholdDeg, p.config.VerticalThresholdDeg),
	}
}
