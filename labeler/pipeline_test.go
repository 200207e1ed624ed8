package labeler

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartolab/riverlabel/geo"
)

func TestPlaceWideRectGoesHorizontal(t *testing.T) {
	p := testPipeline(t, GetDefaultConfig())
	mp := orb.MultiPolygon{rect(0, 0, 100, 10)}
	m := &fontMeasurer{charWidth: 0.15, lineHeight: 0.2}

	placement, err := p.Place(mp, "ELBE", m)
	require.NoError(t, err)

	assert.Equal(t, LayoutHorizontal, placement.Mode)
	assert.Equal(t, float64(0), placement.RotationDeg)
	assert.True(t, placement.Verified)
	assert.Equal(t, "ELBE", placement.DisplayText())
	assert.InDelta(t, 50, placement.Anchor[0], 1e-9)
	assert.InDelta(t, 5, placement.Anchor[1], 1e-9)
	assert.Equal(t, DEFAULT_MAX_FONT_SIZE, placement.FontSize)
	assert.Equal(t, 1, placement.Steps)
}

func TestPlaceTallRectGoesStacked(t *testing.T) {
	p := testPipeline(t, GetDefaultConfig())
	mp := orb.MultiPolygon{rect(0, 0, 10, 100)}
	m := &fontMeasurer{charWidth: 0.06, lineHeight: 0.12}

	placement, err := p.Place(mp, "ELBE", m)
	require.NoError(t, err)

	assert.Equal(t, LayoutStacked, placement.Mode)
	assert.Equal(t, float64(0), placement.RotationDeg)
	assert.Equal(t, "E\nL\nB\nE", placement.DisplayText())
	assert.True(t, placement.Verified)
	assert.InDelta(t, 5, placement.Anchor[0], 1e-9)
	assert.InDelta(t, 50, placement.Anchor[1], 1e-9)
}

func TestPlaceTooNarrowReturnsBestEffort(t *testing.T) {
	cfg := GetDefaultConfig()
	p := testPipeline(t, cfg)
	// 1 unit tall: even the minimum font size measures taller than
	// the polygon at every position.
	mp := orb.MultiPolygon{rect(0, 0, 100, 1)}
	m := &fontMeasurer{charWidth: 0.15, lineHeight: 0.2}

	placement, err := p.Place(mp, "ELBE", m)
	require.NoError(t, err, "an unverified placement is not an error")

	assert.False(t, placement.Verified)
	assert.Equal(t, cfg.MinFontSize, placement.FontSize, "best effort comes from the smallest size tried")
	assert.Equal(t, LayoutHorizontal, placement.Mode)
	assert.NotZero(t, placement.Steps)
}

func TestPlaceFontAdaptation(t *testing.T) {
	p := testPipeline(t, GetDefaultConfig())
	// lineHeight 0.8: sizes 12 and 11 measure 9.6 and 8.8 tall and
	// cannot fit an 8.5-tall rectangle; size 10 measures 8.0 and
	// fits right away.
	mp := orb.MultiPolygon{rect(0, 0, 100, 8.5)}
	m := &fontMeasurer{charWidth: 0.1, lineHeight: 0.8}

	placement, err := p.Place(mp, "ELBE", m)
	require.NoError(t, err)

	assert.True(t, placement.Verified)
	assert.Equal(t, float64(10), placement.FontSize)
	assert.InDelta(t, 4.25, placement.Anchor[1], 1e-9, "anchor resets between font sizes")
}

func TestPlaceSizedPinsFontSize(t *testing.T) {
	p := testPipeline(t, GetDefaultConfig())
	mp := orb.MultiPolygon{rect(0, 0, 100, 10)}
	m := &fontMeasurer{charWidth: 0.15, lineHeight: 0.2}

	placement, err := p.PlaceSized(mp, "ELBE", 9, 9, m)
	require.NoError(t, err)

	assert.True(t, placement.Verified)
	assert.Equal(t, float64(9), placement.FontSize)
}

func TestPlaceSizedBadRange(t *testing.T) {
	p := testPipeline(t, GetDefaultConfig())
	mp := orb.MultiPolygon{rect(0, 0, 100, 10)}

	_, err := p.PlaceSized(mp, "ELBE", 8, 12, &fixedMeasurer{w: 1, h: 1})
	assert.ErrorContains(t, err, "bad font size range")

	_, err = p.PlaceSized(mp, "ELBE", 12, 0, &fixedMeasurer{w: 1, h: 1})
	assert.ErrorContains(t, err, "bad font size range")
}

func TestPlaceIdempotent(t *testing.T) {
	p := testPipeline(t, GetDefaultConfig())
	mp := orb.MultiPolygon{rect(0, 0, 100, 8.5)}

	first, err := p.Place(mp, "ELBE", &fontMeasurer{charWidth: 0.1, lineHeight: 0.8})
	require.NoError(t, err)
	second, err := p.Place(mp, "ELBE", &fontMeasurer{charWidth: 0.1, lineHeight: 0.8})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPlacePicksLargestBody(t *testing.T) {
	p := testPipeline(t, GetDefaultConfig())
	mp := orb.MultiPolygon{
		rect(1000, 1000, 1004, 1002),
		rect(0, 0, 100, 10),
	}

	placement, err := p.Place(mp, "ELBE", &fontMeasurer{charWidth: 0.15, lineHeight: 0.2})
	require.NoError(t, err)

	assert.InDelta(t, 50, placement.Anchor[0], 1e-9, "label belongs to the dominant body")
}

func TestPlaceEmptyGeometry(t *testing.T) {
	p := testPipeline(t, GetDefaultConfig())

	_, err := p.Place(orb.MultiPolygon{}, "ELBE", &fixedMeasurer{w: 1, h: 1})
	assert.ErrorIs(t, err, geo.ErrEmptyGeometry)
}

func TestPlaceDegenerateBody(t *testing.T) {
	p := testPipeline(t, GetDefaultConfig())
	sliver := orb.Polygon{orb.Ring{{0, 0}, {10, 0}, {0, 0}}}

	_, err := p.Place(orb.MultiPolygon{sliver}, "ELBE", &fixedMeasurer{w: 1, h: 1})

	var degenerateErr *DegenerateBodyError
	require.True(t, errors.As(err, &degenerateErr))
	assert.LessOrEqual(t, degenerateErr.Area, DEFAULT_MIN_BODY_AREA)
}

func TestPlaceUsesDefaultText(t *testing.T) {
	p := testPipeline(t, GetDefaultConfig())
	mp := orb.MultiPolygon{rect(0, 0, 100, 10)}

	placement, err := p.Place(mp, "   ", &fontMeasurer{charWidth: 0.15, lineHeight: 0.2})
	require.NoError(t, err)

	assert.Equal(t, DEFAULT_LABEL_TEXT, placement.Text)
}

func TestPlaceNoTextAnywhere(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.DefaultText = ""
	p := testPipeline(t, cfg)

	_, err := p.Place(orb.MultiPolygon{rect(0, 0, 10, 10)}, "", &fixedMeasurer{w: 1, h: 1})
	assert.Error(t, err)
}

func TestPlaceMeasureErrorAborts(t *testing.T) {
	p := testPipeline(t, GetDefaultConfig())

	_, err := p.Place(orb.MultiPolygon{rect(0, 0, 100, 10)}, "ELBE", failingMeasurer{})
	assert.ErrorIs(t, err, errMeasureBroken)
}

func TestPlaceMeasurementsBounded(t *testing.T) {
	cfg := GetDefaultConfig()
	p := testPipeline(t, cfg)
	mp := orb.MultiPolygon{rect(0, 0, 100, 1)}
	m := &fontMeasurer{charWidth: 0.15, lineHeight: 0.2}

	_, err := p.Place(mp, "ELBE", m)
	require.NoError(t, err)

	fontSizes := int(math.Floor((cfg.MaxFontSize-cfg.MinFontSize)/cfg.FontStep)) + 1
	assert.LessOrEqual(t, m.calls, cfg.MaxOffsetSteps*fontSizes)
}
