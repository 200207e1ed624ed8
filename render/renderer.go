// Package render rasterizes polygon outlines and the placed label to
// PNG, and measures label extents in geometry coordinates so the
// placement loop can verify containment before anything is drawn.
package render

import (
	"fmt"
	"image"
	"math"

	"github.com/paulmach/orb"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Renderer holds the parsed font and the output configuration. Build
// one per process; it is immutable and safe to share.
type Renderer struct {
	config Config
	fnt    *sfnt.Font
}

func NewRenderer(config Config) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", err)
	}

	return &Renderer{
		config: config,
		fnt:    fnt,
	}, nil
}

func (r *Renderer) Config() Config {
	return r.config
}

// newFace builds a face at the given size in canvas pixels. Font
// sizes are always interpreted at output resolution; supersampled
// drawing multiplies the size itself.
func (r *Renderer) newFace(sizePx float64) (font.Face, error) {
	return opentype.NewFace(r.fnt, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Canvas is the fit of one geometry onto the output image: a uniform
// scale plus centering offsets, with the y axis flipped so north is
// up. Scoped to a single request.
type Canvas struct {
	renderer *Renderer
	bound    orb.Bound
	// canvas pixels per geometry unit at output resolution.
	scale   float64
	offsetX float64
	offsetY float64

	img *image.RGBA
}

// NewCanvas computes the fit for the geometry's bounding box. The
// geometry must have extent on both axes; a zero-extent input cannot
// be scaled onto the image.
func (r *Renderer) NewCanvas(mp orb.MultiPolygon) (*Canvas, error) {
	bound := mp.Bound()

	boundW := bound.Max[0] - bound.Min[0]
	boundH := bound.Max[1] - bound.Min[1]
	if boundW <= 0 || boundH <= 0 {
		return nil, fmt.Errorf("geometry has a degenerate extent (%gx%g)", boundW, boundH)
	}

	cfg := r.config
	availW := float64(cfg.WidthPx - 2*cfg.PaddingPx)
	availH := float64(cfg.HeightPx - 2*cfg.PaddingPx)

	scale := math.Min(availW/boundW, availH/boundH)

	c := &Canvas{
		renderer: r,
		bound:    bound,
		scale:    scale,
		offsetX:  float64(cfg.PaddingPx) + (availW-boundW*scale)/2,
		offsetY:  float64(cfg.PaddingPx) + (availH-boundH*scale)/2,
	}
	return c, nil
}

// toCanvas maps a geometry point to output-resolution pixel
// coordinates.
func (c *Canvas) toCanvas(p orb.Point) (float64, float64) {
	x := c.offsetX + (p[0]-c.bound.Min[0])*c.scale
	y := c.offsetY + (c.bound.Max[1]-p[1])*c.scale
	return x, y
}

// MeasureLabel reports the axis-aligned geometry-space box the text
// would occupy drawn centered on anchor at the given rotation. Pure:
// nothing is drawn.
func (c *Canvas) MeasureLabel(text string, anchor orb.Point, rotationDeg, fontSize float64) (orb.Bound, error) {
	face, err := c.renderer.newFace(fontSize)
	if err != nil {
		return orb.Bound{}, fmt.Errorf("failed to build face at size %0.1f: %w", fontSize, err)
	}

	widthPx, heightPx := measureBlock(face, text)

	halfW := float64(widthPx) / 2 / c.scale
	halfH := float64(heightPx) / 2 / c.scale

	if rotationDeg != 0 {
		theta := rotationDeg * math.Pi / 180
		cos := math.Abs(math.Cos(theta))
		sin := math.Abs(math.Sin(theta))
		halfW, halfH = cos*halfW+sin*halfH, sin*halfW+cos*halfH
	}

	return orb.Bound{
		Min: orb.Point{anchor[0] - halfW, anchor[1] - halfH},
		Max: orb.Point{anchor[0] + halfW, anchor[1] + halfH},
	}, nil
}
