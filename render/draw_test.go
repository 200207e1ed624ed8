package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartolab/riverlabel/labeler"
)

func drawTestConfig() Config {
	cfg := GetDefaultConfig()
	// Keep antialiasing out of the color checks below.
	cfg.Supersample = 1
	return cfg
}

func drawnCanvas(t *testing.T, cfg Config, placement *labeler.Placement) *Canvas {
	t.Helper()

	r, err := NewRenderer(cfg)
	require.NoError(t, err)

	mp := orb.MultiPolygon{rect(0, 0, 100, 10)}
	c, err := r.NewCanvas(mp)
	require.NoError(t, err)

	require.NoError(t, c.Draw(mp, placement))
	return c
}

func TestDrawProducesImage(t *testing.T) {
	cfg := drawTestConfig()
	c := drawnCanvas(t, cfg, &labeler.Placement{
		Text:     "ELBE",
		Anchor:   orb.Point{50, 5},
		Mode:     labeler.LayoutHorizontal,
		FontSize: 12,
		Verified: true,
	})

	img := c.Image()
	require.NotNil(t, img)
	assert.Equal(t, cfg.WidthPx, img.Bounds().Dx())
	assert.Equal(t, cfg.HeightPx, img.Bounds().Dy())

	// Padding stays background, the body outline does not.
	corner := img.RGBAAt(1, 1)
	assert.Equal(t, colorBackground, corner)
	assert.NotZero(t, countNonBackground(c))
}

func TestDrawSupersampledMatchesOutputSize(t *testing.T) {
	cfg := GetDefaultConfig()
	require.Equal(t, 2, cfg.Supersample)

	c := drawnCanvas(t, cfg, &labeler.Placement{
		Text:     "ELBE",
		Anchor:   orb.Point{50, 5},
		Mode:     labeler.LayoutHorizontal,
		FontSize: 12,
		Verified: true,
	})

	img := c.Image()
	require.NotNil(t, img)
	assert.Equal(t, cfg.WidthPx, img.Bounds().Dx())
	assert.Equal(t, cfg.HeightPx, img.Bounds().Dy())
	assert.NotZero(t, countNonBackground(c))
}

func TestDrawVerifiedLabelLeansGreen(t *testing.T) {
	c := drawnCanvas(t, drawTestConfig(), &labeler.Placement{
		Text:     "ELBE",
		Anchor:   orb.Point{50, 5},
		Mode:     labeler.LayoutHorizontal,
		FontSize: 12,
		Verified: true,
	})

	assert.True(t, hasPixel(c, func(r, g, b uint8) bool {
		return int(g) > int(r)+40 && int(g) > int(b)+40
	}), "expected green label pixels")
}

func TestDrawUnverifiedLabelLeansRed(t *testing.T) {
	c := drawnCanvas(t, drawTestConfig(), &labeler.Placement{
		Text:     "ELBE",
		Anchor:   orb.Point{50, 5},
		Mode:     labeler.LayoutHorizontal,
		FontSize: 12,
		Verified: false,
	})

	assert.True(t, hasPixel(c, func(r, g, b uint8) bool {
		return int(r) > int(g)+40 && int(r) > int(b)+40
	}), "expected red label pixels")
}

func TestDrawRotatedLabel(t *testing.T) {
	c := drawnCanvas(t, drawTestConfig(), &labeler.Placement{
		Text:        "ELBE",
		Anchor:      orb.Point{50, 5},
		RotationDeg: 30,
		Mode:        labeler.LayoutRotated,
		FontSize:    12,
		Verified:    true,
	})

	require.NotNil(t, c.Image())
	assert.NotZero(t, countNonBackground(c))
}

func TestDrawStackedLabel(t *testing.T) {
	placement := &labeler.Placement{
		Text:     "ELBE",
		Anchor:   orb.Point{50, 5},
		Mode:     labeler.LayoutStacked,
		FontSize: 10,
		Verified: true,
	}
	require.Equal(t, "E\nL\nB\nE", placement.DisplayText())

	c := drawnCanvas(t, drawTestConfig(), placement)
	assert.NotZero(t, countNonBackground(c))
}

func TestEncodePNGBeforeDraw(t *testing.T) {
	r, err := NewRenderer(GetDefaultConfig())
	require.NoError(t, err)

	c, err := r.NewCanvas(orb.MultiPolygon{rect(0, 0, 100, 10)})
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.Error(t, c.EncodePNG(&buf))
}

func TestEncodePNGRoundTrip(t *testing.T) {
	cfg := drawTestConfig()
	c := drawnCanvas(t, cfg, &labeler.Placement{
		Text:     "ELBE",
		Anchor:   orb.Point{50, 5},
		Mode:     labeler.LayoutHorizontal,
		FontSize: 12,
		Verified: true,
	})

	var buf bytes.Buffer
	require.NoError(t, c.EncodePNG(&buf))

	decoded, err := png.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, cfg.WidthPx, decoded.Bounds().Dx())
	assert.Equal(t, cfg.HeightPx, decoded.Bounds().Dy())
}

func countNonBackground(c *Canvas) int {
	img := c.Image()
	count := 0
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			if img.RGBAAt(x, y) != colorBackground {
				count++
			}
		}
	}
	return count
}

func hasPixel(c *Canvas, match func(r, g, b uint8) bool) bool {
	img := c.Image()
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			px := img.RGBAAt(x, y)
			if match(px.R, px.G, px.B) {
				return true
			}
		}
	}
	return false
}
