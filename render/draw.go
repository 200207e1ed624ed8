package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/paulmach/orb"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/cartolab/riverlabel/labeler"
)

// Outlines draw steelblue, verified labels darkgreen, best-effort
// labels firebrick.
var (
	colorBackground      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorOutline         = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	colorLabel           = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	colorLabelUnverified = color.RGBA{R: 178, G: 34, B: 34, A: 255}
)

// Draw rasterizes every polygon outline and the placed label. Called
// once per request with the final placement only; the refinement loop
// goes through MeasureLabel instead. Unverified placements draw in a
// different color so a best-effort label is visible as such.
func (c *Canvas) Draw(mp orb.MultiPolygon, placement *labeler.Placement) error {
	cfg := c.renderer.config
	ss := cfg.Supersample

	big := image.NewRGBA(image.Rect(0, 0, cfg.WidthPx*ss, cfg.HeightPx*ss))
	xdraw.Draw(big, big.Bounds(), image.NewUniform(colorBackground), image.Point{}, xdraw.Src)

	lineWidth := cfg.LineWidthPx * float64(ss)
	for _, poly := range mp {
		for _, ring := range poly {
			c.drawRing(big, ring, float64(ss), lineWidth)
		}
	}

	labelColor := colorLabel
	if !placement.Verified {
		labelColor = colorLabelUnverified
	}

	if err := c.drawLabel(big, placement, float64(ss), labelColor); err != nil {
		return err
	}

	if ss == 1 {
		c.img = big
		return nil
	}

	final := image.NewRGBA(image.Rect(0, 0, cfg.WidthPx, cfg.HeightPx))
	xdraw.CatmullRom.Scale(final, final.Bounds(), big, big.Bounds(), xdraw.Over, nil)
	c.img = final

	return nil
}

// EncodePNG writes the drawn image. Draw must have run first.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if c.img == nil {
		return fmt.Errorf("nothing drawn yet")
	}
	return png.Encode(w, c.img)
}

// Image exposes the drawn image, nil before Draw.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

func (c *Canvas) drawRing(img *image.RGBA, ring orb.Ring, ss, lineWidth float64) {
	for i := 1; i < len(ring); i++ {
		x1, y1 := c.toCanvas(ring[i-1])
		x2, y2 := c.toCanvas(ring[i])
		drawLine(img, x1*ss, y1*ss, x2*ss, y2*ss, lineWidth, colorOutline)
	}
}

func (c *Canvas) drawLabel(img *image.RGBA, placement *labeler.Placement, ss float64, labelColor color.RGBA) error {
	face, err := c.renderer.newFace(placement.FontSize * ss)
	if err != nil {
		return fmt.Errorf("failed to build face at size %0.1f: %w", placement.FontSize, err)
	}

	text := placement.DisplayText()
	cx, cy := c.toCanvas(placement.Anchor)
	cx *= ss
	cy *= ss

	if placement.RotationDeg == 0 {
		drawTextBlock(img, face, text, cx, cy, labelColor)
		return nil
	}

	// Rotated labels render upright onto a transparent sprite first,
	// then map through an affine rotation about the anchor. Screen y
	// grows downward, so a counterclockwise geometry rotation is a
	// negative screen rotation.
	widthPx, heightPx := measureBlock(face, text)
	sprite := image.NewRGBA(image.Rect(0, 0, widthPx+4, heightPx+4))
	drawTextBlock(sprite, face, text, float64(widthPx+4)/2, float64(heightPx+4)/2, labelColor)

	theta := placement.RotationDeg * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)
	scx := float64(sprite.Bounds().Dx()) / 2
	scy := float64(sprite.Bounds().Dy()) / 2

	m := f64.Aff3{
		cos, sin, cx - cos*scx - sin*scy,
		-sin, cos, cy + sin*scx - cos*scy,
	}
	xdraw.CatmullRom.Transform(img, m, sprite, sprite.Bounds(), xdraw.Over, nil)

	return nil
}

// measureBlock reports the pixel extent of a text block for the given
// face: widest line by number of lines.
func measureBlock(face font.Face, text string) (int, int) {
	lines := strings.Split(text, "\n")

	widest := 0
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > widest {
			widest = w
		}
	}

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	if lineHeight <= 0 {
		lineHeight = metrics.Ascent.Ceil() + metrics.Descent.Ceil()
	}

	return widest, lineHeight * len(lines)
}

// drawTextBlock draws multi-line text centered on (cx, cy), each line
// centered horizontally.
func drawTextBlock(img *image.RGBA, face font.Face, text string, cx, cy float64, col color.RGBA) {
	lines := strings.Split(text, "\n")

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	if lineHeight <= 0 {
		lineHeight = metrics.Ascent.Ceil() + metrics.Descent.Ceil()
	}
	ascent := metrics.Ascent.Ceil()

	blockTop := cy - float64(lineHeight*len(lines))/2

	for idx, line := range lines {
		width := font.MeasureString(face, line).Ceil()
		baseline := int(blockTop) + ascent + idx*lineHeight

		drawer := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(col),
			Face: face,
			Dot: fixed.Point26_6{
				X: fixed.I(int(cx) - width/2),
				Y: fixed.I(baseline),
			},
		}
		drawer.DrawString(line)
	}
}

// drawLine steps along the segment painting a perpendicular band of
// pixels, thickness wide.
func drawLine(img *image.RGBA, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1

	dist := math.Sqrt(dx*dx + dy*dy)
	halfThick := thickness / 2

	if dist < 1 {
		for ty := -halfThick; ty <= halfThick; ty++ {
			for tx := -halfThick; tx <= halfThick; tx++ {
				img.Set(int(x1+tx), int(y1+ty), col)
			}
		}
		return
	}

	steps := math.Max(math.Abs(dx), math.Abs(dy))
	perpX := -dy / dist
	perpY := dx / dist

	for i := 0.0; i <= steps; i++ {
		t := i / steps
		px := x1 + dx*t
		py := y1 + dy*t

		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			img.Set(int(px+perpX*offset), int(py+perpY*offset), col)
		}
	}
}
