package labeler

import (
	"io"
	"testing"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	p, err := NewPipeline(testLogger(), cfg)
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}
	return p
}

// fixedMeasurer reports a box of fixed world size centered on the
// anchor, ignoring text and rotation.
type fixedMeasurer struct {
	w, h  float64
	calls int
}

func (m *fixedMeasurer) MeasureLabel(text string, anchor orb.Point, rotationDeg, fontSize float64) (orb.Bound, error) {
	m.calls++
	return boundAround(anchor, m.w, m.h), nil
}

// fontMeasurer scales the box with the requested font size the way a
// real face roughly would: width per character, one line unless the
// text is stacked.
type fontMeasurer struct {
	charWidth  float64 // multiple of font size per character
	lineHeight float64 // multiple of font size per line
	calls      int
}

func (m *fontMeasurer) MeasureLabel(text string, anchor orb.Point, rotationDeg, fontSize float64) (orb.Bound, error) {
	m.calls++

	lines := 1
	longest := 0
	current := 0
	for _, r := range text {
		if r == '\n' {
			lines++
			current = 0
			continue
		}
		current++
		if current > longest {
			longest = current
		}
	}
	if longest == 0 {
		longest = 1
	}

	w := m.charWidth * fontSize * float64(longest)
	h := m.lineHeight * fontSize * float64(lines)
	return boundAround(anchor, w, h), nil
}

func boundAround(anchor orb.Point, w, h float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{anchor[0] - w/2, anchor[1] - h/2},
		Max: orb.Point{anchor[0] + w/2, anchor[1] + h/2},
	}
}

func rect(minX, minY, maxX, maxY float64) orb.Polygon {
	return orb.Polygon{
		orb.Ring{
			{minX, minY},
			{maxX, minY},
			{maxX, maxY},
			{minX, maxY},
			{minX, minY},
		},
	}
}
