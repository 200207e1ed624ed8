package labeler

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/cartolab/riverlabel/geo"
)

// refine measures the label at the current anchor and nudges the
// anchor along the boundary normals until the measured box fits
// inside the polygon or the step budget runs out. Only two candidate
// moves exist per step, keeping the worst case at MaxOffsetSteps
// measurements; each measurement is a render round trip, so the loop
// trades optimality for a fixed cost.
func (p *Pipeline) refine(idx *geo.RingIndex, anchor orb.Point, orient Orientation, displayText string, fontSize float64, m Measurer) (orb.Point, bool, int, error) {
	theta := orient.AngleDeg * math.Pi / 180
	normals := [2]orb.Point{
		{-math.Sin(theta), math.Cos(theta)},
		{math.Sin(theta), -math.Cos(theta)},
	}

	steps := 0
	for steps < p.config.MaxOffsetSteps {
		bound, err := m.MeasureLabel(displayText, anchor, orient.Rotation(), fontSize)
		if err != nil {
			return anchor, false, steps, fmt.Errorf("failed to measure label: %w", err)
		}
		steps++

		if idx.ContainsBound(bound) {
			return anchor, true, steps, nil
		}

		moved := false
		for _, normal := range normals {
			candidate := orb.Point{
				anchor[0] + p.config.OffsetStep*normal[0],
				anchor[1] + p.config.OffsetStep*normal[1],
			}
			if idx.ContainsPoint(candidate) {
				anchor = candidate
				moved = true
				break
			}
		}

		if !moved {
			// both normal candidates leave the polygon. Nothing left
			// to try.
			return anchor, false, steps, nil
		}
	}

	return anchor, false, steps, nil
}
